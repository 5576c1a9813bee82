// Copyright (c) 2026 Pet Clinic Backend contributors. All rights reserved.

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via small interfaces (TokenIssuer, TokenVerifier).
package sec

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dramacsoport/petclinic-backend/internal/platform/apperr"
)

// # Token Failure Kinds

// Expired and tampered tokens are distinguishable on purpose: clients need
// to tell "please log in again" apart from "this token is not yours".
var (
	// ErrTokenExpired is returned when the signature is valid but the
	// embedded expiry has elapsed.
	ErrTokenExpired = apperr.New("EXPIRED_TOKEN", "Session has expired, please log in again", http.StatusUnauthorized)

	// ErrTokenTampered is returned when the signature check fails or any
	// claim has been altered.
	ErrTokenTampered = apperr.New("TAMPERED_TOKEN", "Invalid session token", http.StatusUnauthorized)
)

// AuthClaims represents the payload embedded inside a session token.
//
// # Why custom claims?
//
// By embedding the account email (subject) and role directly inside the JWT,
// the transport layer can reconstruct the active identity WITHOUT querying
// the database on every single API request. Validity is purely a function of
// signature + expiry; nothing is stored server-side.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Role is the lowercase name of the account's role ("user", "admin").
	Role string `json:"role"`
}

// Email returns the token subject, which carries the account's login email.
func (c *AuthClaims) Email() string { return c.Subject }

// TokenService handles generation and verification of session tokens.
//
// Tokens are signed with HMAC-SHA256 over a process-wide secret loaded once
// at startup and constant for the process lifetime.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenService creates a new TokenService.
func NewTokenService(secret, issuer string, timeToLive time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("sec: token signing secret must not be empty")
	}
	if timeToLive <= 0 {
		return nil, fmt.Errorf("sec: token TTL must be positive, got %s", timeToLive)
	}

	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    timeToLive,
	}, nil
}

// IssueToken creates a signed session token for the given account identity.
//
// The subject claim carries the email, the role claim carries the lowercase
// role name, and expiry is now + the configured TTL.
func (service *TokenService) IssueToken(email string, role AccountRole) (string, error) {
	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(service.ttl)),
		},
		Role: string(role),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// VerifyToken checks the signature and expiry of a session token string.
//
// # Failure Kinds
//
// Returns [ErrTokenExpired] when the token validated but its expiry elapsed,
// and [ErrTokenTampered] for every other failure (bad signature, altered
// claims, malformed input). Callers rely on this distinction for client
// messaging.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenTampered
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenTampered
	}

	return claims, nil
}

// ExtractSubject returns the email subject of a token that verifies.
func (service *TokenService) ExtractSubject(tokenString string) (string, error) {
	claims, err := service.VerifyToken(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// ExtractRole returns the role claim of a token that verifies.
func (service *TokenService) ExtractRole(tokenString string) (AccountRole, error) {
	claims, err := service.VerifyToken(tokenString)
	if err != nil {
		return "", err
	}
	return AccountRole(claims.Role), nil
}
