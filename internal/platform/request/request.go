// Copyright (c) 2026 Pet Clinic Backend contributors. All rights reserved.

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dramacsoport/petclinic-backend/internal/platform/apperr"
	"github.com/dramacsoport/petclinic-backend/internal/platform/ctxutil"
	"github.com/dramacsoport/petclinic-backend/internal/platform/sec"
	"github.com/dramacsoport/petclinic-backend/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
NumericID retrieves a named URL parameter and parses it as an int64 identifier.

Returns:
  - int64: The parsed identifier
  - error: apperr.ValidationError when the parameter is not a positive integer
*/
func NumericID(request *http.Request, name string) (int64, error) {
	raw := chi.URLParam(request, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.ValidationError("Invalid numeric identifier", apperr.FieldError{
			Field:   name,
			Message: "Must be a positive integer",
		})
	}
	return id, nil
}

/*
Claims extracts the authenticated account claims from the request context.

Returns nil if the request is not authenticated.
*/
func Claims(request *http.Request) *sec.AuthClaims {
	return ctxutil.GetAuthUser(request.Context())
}

/*
RequiredClaims ensures the request is authenticated and returns the account claims.

Returns:
  - *sec.AuthClaims: The authenticated account claims
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredClaims(request *http.Request) (*sec.AuthClaims, error) {

	// Get account claims
	claims := ctxutil.GetAuthUser(request.Context())

	// If the caller is not authenticated, return an error
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	return claims, nil
}

/*
RequiredEmail returns the email of the currently logged-in account.

The identity is resolved once at the transport boundary from the validated
token and passed explicitly into every lifecycle call.

Returns:
  - string: Account email (token subject)
  - error: apperr.Unauthorized if not authenticated
*/
func RequiredEmail(request *http.Request) (string, error) {

	// Get account claims
	claims, err := RequiredClaims(request)

	// If the caller is not authenticated, return an error
	if err != nil {
		return "", err
	}

	return claims.Email(), nil
}
