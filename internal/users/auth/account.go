// Copyright (c) 2026 Pet Clinic Backend contributors. All rights reserved.

/*
Package auth implements the account identity layer of the clinic backend.

It defines the core domain entity (Account) and the logic for registration,
credential verification, and session token issuance.

# Architecture

This layer is the "Truth" of the system. The Account entity has no external
dependencies and encapsulates all business rules related to who may log in
and under which role.
*/
package auth

import (
	"time"

	"github.com/dramacsoport/petclinic-backend/internal/platform/sec"
)

// # Domain Entities

// Account represents a registered owner or staff member of the clinic.
//
// The numeric ID is assigned by the database at creation and never changes.
// Email is the unique, case-sensitive login key.
type Account struct {
	ID           int64           `json:"id"`
	Email        string          `json:"email"`
	PasswordHash string          `json:"-"` // Explicitly omitted from JSON for security.
	DisplayName  string          `json:"display_name"`
	Role         sec.AccountRole `json:"role"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the account domain.
const (
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldDisplayName = "display_name"
	FieldToken       = "token"
	FieldUser        = "user"
	FieldMessage     = "message"
)
