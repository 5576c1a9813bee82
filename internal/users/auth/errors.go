// Copyright (c) 2026 Pet Clinic Backend contributors. All rights reserved.

package auth

import (
	"net/http"

	"github.com/dramacsoport/petclinic-backend/internal/platform/apperr"
)

// # Domain Error Codes

// Machine-readable codes carried by every account-lifecycle failure. Clients
// and tests branch on these, never on the message text.
const (
	CodeWeakPassword       = "WEAK_PASSWORD"
	CodeDuplicateAccount   = "DUPLICATE_ACCOUNT"
	CodeAccountNotFound    = "ACCOUNT_NOT_FOUND"
	CodeUnauthorizedAction = "UNAUTHORIZED_ACTION"
	CodeDeletionBlocked    = "DELETION_BLOCKED"
)

// # Constructors

// ErrWeakPassword rejects a registration password that fails the minimum
// length policy.
func ErrWeakPassword() *apperr.AppError {
	return apperr.New(CodeWeakPassword, "Password must be longer than 3 characters.", http.StatusBadRequest)
}

// ErrDuplicateAccount signals that the email is already bound to an account.
func ErrDuplicateAccount() *apperr.AppError {
	return apperr.New(CodeDuplicateAccount, "User already exists.", http.StatusConflict)
}

// ErrAccountNotFound is the single failure kind for both "unknown email" and
// "wrong password". The two cases are indistinguishable on purpose so the
// login endpoint cannot be used to enumerate registered emails.
func ErrAccountNotFound() *apperr.AppError {
	return apperr.New(CodeAccountNotFound, "Authentication failed!", http.StatusUnauthorized)
}

// ErrUnauthorizedAction rejects an authenticated caller acting on a resource
// that is not theirs.
func ErrUnauthorizedAction(msg string) *apperr.AppError {
	return apperr.New(CodeUnauthorizedAction, msg, http.StatusForbidden)
}

// ErrDeletionBlocked rejects account deletion while dependent pets exist.
func ErrDeletionBlocked() *apperr.AppError {
	return apperr.New(CodeDeletionBlocked,
		"Unable to delete your profile. Please transfer or delete your pets before proceeding.",
		http.StatusConflict)
}
