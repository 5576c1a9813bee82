// Copyright (c) 2026 Pet Clinic Backend contributors. All rights reserved.

package middleware

import (
	"net/http"
	"strings"

	"github.com/dramacsoport/petclinic-backend/internal/platform/apperr"
	"github.com/dramacsoport/petclinic-backend/internal/platform/constants"
	"github.com/dramacsoport/petclinic-backend/internal/platform/ctxutil"
	"github.com/dramacsoport/petclinic-backend/internal/platform/respond"
	"github.com/dramacsoport/petclinic-backend/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the concrete
// [sec.TokenService], allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// Authenticate extracts and verifies the session token from the Authorization
// header, falling back to the session cookie set at login.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header.
//  2. If absent, check the session cookie.
//  3. If neither is present, request proceeds as anonymous.
//  4. Otherwise parse and verify the token via [TokenVerifier].
//  5. Inject [*sec.AuthClaims] into the request context for downstream use.
//
// Verification failures keep the expired/tampered distinction: clients must
// be able to tell "log in again" apart from "invalid token".
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get("Authorization")

			var tokenStr string

			switch {
			case authHeader != "":
				// ── Format Validation ─────────────────────────────────────────
				parts := strings.Split(authHeader, " ")
				if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
					respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
					return
				}
				tokenStr = parts[1]

			default:
				// ── Cookie Fallback ───────────────────────────────────────────
				cookie, err := request.Cookie(constants.AuthCookieName)
				if err != nil || cookie.Value == "" {
					// Anonymous access.
					next.ServeHTTP(writer, request)
					return
				}
				tokenStr = cookie.Value
			}

			// ── Token Verification ────────────────────────────────────────────
			claims, err := verifier.VerifyToken(tokenStr)
			if err != nil {
				// err is sec.ErrTokenExpired or sec.ErrTokenTampered, both
				// AppErrors with distinct machine-readable codes.
				respond.Error(writer, request, err)
				return
			}

			// ── Context Injection ─────────────────────────────────────────────
			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
//
// # Flow
//  1. Check if [*sec.AuthClaims] exists in context.
//  2. If missing, abort with HTTP 401 Unauthorized.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		claims := ctxutil.GetAuthUser(request.Context())
		if claims == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests if the authenticated account doesn't have the required role.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. It automatically implies
// [RequireAuth] so you don't need to mount both.
func RequireRole(role sec.AccountRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := ctxutil.GetAuthUser(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if claims == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			accountRole := sec.AccountRole(claims.Role)
			if !accountRole.AtLeast(role) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
