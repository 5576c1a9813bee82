// Copyright (c) 2026 Pet Clinic Backend contributors. All rights reserved.

/*
Package account provides the HTTP delivery layer for profile management.

It implements the RESTful interface for owners to view and update their
account data and to delete their profile.

# Security

All endpoints in this package require an active authentication token provided
by the RequireAuth middleware. The caller identity is always the validated
token subject, never a request parameter.
*/
package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dramacsoport/petclinic-backend/internal/platform/constants"
	"github.com/dramacsoport/petclinic-backend/internal/platform/middleware"
	requestutil "github.com/dramacsoport/petclinic-backend/internal/platform/request"
	"github.com/dramacsoport/petclinic-backend/internal/platform/respond"
	"github.com/dramacsoport/petclinic-backend/internal/platform/validate"
	"github.com/dramacsoport/petclinic-backend/internal/users/auth"
)

// Handler implements the HTTP layer for account profile management.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with the account domain's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequireAuth)

	// Profile Management
	router.Get("/profile", handler.getProfile)
	router.Patch("/profile", handler.updateProfile)

	// Guarded Deletion
	router.Delete("/{id}", handler.deleteAccount)

	return router
}

// # Profile Endpoints

/*
GET /api/v1/user/profile.

Description: Retrieves the full private profile of the authenticated caller.

Response:
  - 200: Account: Fully hydrated account profile
  - 401: ErrUnauthorized: Authentication required or subject unresolvable
*/
func (handler *Handler) getProfile(writer http.ResponseWriter, request *http.Request) {
	callerEmail, err := requestutil.RequiredEmail(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.accountService.GetProfile(request.Context(), callerEmail)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, account)
}

// updateProfileRequest defines the expected JSON payload for profile edits.
//
// Password is optional; an empty value keeps the stored credential.
type updateProfileRequest struct {
	Email            string `json:"email"`
	OriginalPassword string `json:"original_password"`
	Password         string `json:"password"`
	DisplayName      string `json:"display_name"`
}

/*
PATCH /api/v1/user/profile.

Description: Applies a verified full update to the caller's profile. When the
password was changed the handler drops its auth context and clears the token
cookie, forcing a fresh login.

Request:
  - body: updateProfileRequest

Response:
  - 200: EditResult: {"message": "New user data saved."}
  - 400: ErrInvalidJSON/Validation/WEAK_PASSWORD: Invalid input data
  - 401: ErrUnauthorized: Authentication required
  - 403: UNAUTHORIZED_ACTION: Original password mismatch
  - 409: DUPLICATE_ACCOUNT: New email already taken
*/
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	callerEmail, err := requestutil.RequiredEmail(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateProfileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(auth.FieldEmail, input.Email).
		Email(auth.FieldEmail, input.Email).
		Required("original_password", input.OriginalPassword).
		Required(auth.FieldDisplayName, input.DisplayName).
		DisplayName(auth.FieldDisplayName, input.DisplayName)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.accountService.ChangeAccountData(request.Context(), callerEmail, EditInput{
		Email:            input.Email,
		OriginalPassword: input.OriginalPassword,
		Password:         input.Password,
		DisplayName:      input.DisplayName,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// A changed password invalidates the transport-side session: clear the
	// cookie mirror so the next request arrives anonymous. The old token is
	// simply no longer honored by the client.
	if result.PasswordChanged {
		http.SetCookie(writer, &http.Cookie{
			Name:     constants.AuthCookieName,
			Value:    "",
			Path:     constants.AuthCookiePath,
			MaxAge:   -1,
			Secure:   true,
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
		})
	}

	respond.OK(writer, result)
}

/*
DELETE /api/v1/user/{id}.

Description: Deletes the caller's own account when the path ID matches their
identity and no dependent pets remain.

Request:
  - id: int64 (Numeric account ID)

Response:
  - 200: DeleteResult: {"message": "Your profile has been successfully deleted."}
  - 400: Validation: Non-numeric path ID
  - 403: UNAUTHORIZED_ACTION: Path ID is not the caller's account
  - 409: DELETION_BLOCKED: Dependent pets still registered
*/
func (handler *Handler) deleteAccount(writer http.ResponseWriter, request *http.Request) {
	callerEmail, err := requestutil.RequiredEmail(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	targetID, err := requestutil.NumericID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.accountService.DeleteAccount(request.Context(), callerEmail, targetID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// The account is gone; the transport session goes with it.
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.AuthCookieName,
		Value:    "",
		Path:     constants.AuthCookiePath,
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	respond.OK(writer, result)
}
