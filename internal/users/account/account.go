// Copyright (c) 2026 Pet Clinic Backend contributors. All rights reserved.

/*
Package account handles profile management and guarded account deletion.

It provides functionality for owners to view and update their identity data
and to delete their account once no dependent pets remain.

# Architecture

  - Domain: This package depends on the auth package for the Account entity
    and the shared lifecycle error kinds.
  - Guard: Deletion consults the pet domain through a narrow counting
    contract; the dependency check is eager and explicit.
*/
package account

import (
	"context"

	"github.com/dramacsoport/petclinic-backend/internal/users/auth"
)

// # Result DTOs

// EditResult reports the outcome of a profile update.
type EditResult struct {
	Message string `json:"message"`

	// PasswordChanged tells the transport layer to invalidate its auth
	// context: the old token's identity may no longer match the stored
	// credentials. Never serialized.
	PasswordChanged bool `json:"-"`
}

// DeleteResult reports the outcome of an account deletion.
type DeleteResult struct {
	Message string `json:"message"`
}

// # Outcome Messages

const (
	MessageDataSaved      = "New user data saved."
	MessageProfileDeleted = "Your profile has been successfully deleted."
)

// # Repository Contracts

// AccountRepository defines the persistence contract for profile management.
type AccountRepository interface {
	/*
		FindByEmail retrieves an account by its unique email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *auth.Account: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByEmail(context context.Context, email string) (*auth.Account, error)

	/*
		ExistsByEmail reports whether an account is bound to the email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - bool: True when a row exists
		  - error: Storage failures
	*/
	ExistsByEmail(context context.Context, email string) (bool, error)

	/*
		Update persists all mutable account fields in one atomic write.

		Parameters:
		  - context: context.Context
		  - account: *auth.Account (Hydrated entity with changes)

		Returns:
		  - error: Storage or constraint failures
	*/
	Update(context context.Context, account *auth.Account) error

	/*
		Delete permanently removes the account row.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - error: Execution failures
	*/
	Delete(context context.Context, id int64) error
}

// PetCounter defines the narrow contract the deletion guard needs from the
// pet domain. The count is resolved eagerly at decision time.
type PetCounter interface {
	/*
		CountByOwner returns the number of pets registered to the account.

		Parameters:
		  - context: context.Context
		  - ownerID: int64

		Returns:
		  - int64: Number of dependent pets
		  - error: Retrieval failures
	*/
	CountByOwner(context context.Context, ownerID int64) (int64, error)
}
