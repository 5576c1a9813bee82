// Copyright (c) 2026 Pet Clinic Backend contributors. All rights reserved.

/*
Package auth provides the HTTP delivery layer for account authentication.

It implements the gateway for the authentication lifecycle: account creation,
login, and logout.

# Architecture

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Standard RESTful JSON interface.
  - Security: Issues the bearer token and mirrors it into a cookie for
    browser clients; logout only discards transport state.
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes,
headers, JSON).
*/
package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dramacsoport/petclinic-backend/internal/platform/constants"
	"github.com/dramacsoport/petclinic-backend/internal/platform/middleware"
	requestutil "github.com/dramacsoport/petclinic-backend/internal/platform/request"
	"github.com/dramacsoport/petclinic-backend/internal/platform/respond"
	"github.com/dramacsoport/petclinic-backend/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages the account lifecycle entry points
// (Registration, Login, Logout).
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register : Creates a new account.
//   - POST /login    : Authenticates and returns a signed token.
//   - POST /logout   : Discards the transport-side auth context.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/logout", handler.logout)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

/*
Register handles the creation of a new clinic account.

POST /api/v1/auth/register

Description: Validates input, checks for identity conflicts, and persists
a new account to the database.

Request:
  - Body: registerRequest (Email, Password, DisplayName)

Response:
  - 201: Account: Created account profile
  - 400: ErrInvalidJSON / WEAK_PASSWORD: Bad input or policy failure
  - 409: DUPLICATE_ACCOUNT: Email already registered
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldDisplayName, input.DisplayName).
		DisplayName(FieldDisplayName, input.DisplayName).
		Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.authService.Register(request.Context(), RegisterInput{
		Email:       input.Email,
		Password:    input.Password,
		DisplayName: input.DisplayName,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, account)
}

/*
Login authenticates an account and issues a session token.

POST /api/v1/auth/login

Description: Verifies credentials, generates the signed bearer token, and
mirrors it into a cookie for browser clients direct to the response.

Request:
  - Body: loginRequest (Email, Password)

Response:
  - 200: Session: Signed token and account profile
  - 401: ACCOUNT_NOT_FOUND: Unknown email or wrong password
  - 429: RATE_LIMITED: Too many failed attempts
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Email:     input.Email,
		Password:  input.Password,
		IPAddress: middleware.RealIP(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.AuthCookieName,
		Value:    session.Token,
		Path:     constants.AuthCookiePath,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	respond.OK(writer, map[string]any{
		FieldToken: session.Token,
		FieldUser:  session.Account,
	})
}

/*
Logout discards the caller's transport-side authentication state.

POST /api/v1/auth/logout

Description: Tokens are stateless, so there is nothing to revoke server-side.
The handler clears the cookie mirror; the client is expected to discard its
copy of the token. The token itself stays verifiable until it expires.

Response:
  - 204: No Content: Transport state cleared
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.AuthCookieName,
		Value:    "",
		Path:     constants.AuthCookiePath,
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	respond.NoContent(writer)
}
