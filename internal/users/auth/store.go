// Copyright (c) 2026 Pet Clinic Backend contributors. All rights reserved.

package auth

import (
	"context"
)

// # Account Data Access

// AccountRepository defines the data access contract for clinic accounts.
type AccountRepository interface {

	/*
		FindByID returns the account with the given numeric ID.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - *Account: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByID(context context.Context, id int64) (*Account, error)

	/*
		FindByEmail returns the account with the given email.
		Email comparison is case-sensitive.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *Account: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*Account, error)

	/*
		ExistsByEmail reports whether an account is already bound to the email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - bool: True when a row exists
		  - error: Database retrieval failures
	*/
	ExistsByEmail(context context.Context, email string) (bool, error)

	/*
		Create persists a brand-new account and assigns its numeric ID.

		Parameters:
		  - context: context.Context
		  - account: *Account (ID is populated on success)

		Returns:
		  - error: ErrDuplicateAccount on unique violation, or persistence failures
	*/
	Create(context context.Context, account *Account) error

	/*
		Update persists all mutable fields of an account in one atomic write.

		Parameters:
		  - context: context.Context
		  - account: *Account

		Returns:
		  - error: ErrDuplicateAccount on email collision, or persistence failures
	*/
	Update(context context.Context, account *Account) error

	/*
		Delete permanently removes the account row.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, id int64) error
}

// # Login Throttling

// LoginLimiter defines the contract for the brute-force guard on the login
// endpoint. Counters are volatile and expire on their own.
type LoginLimiter interface {

	/*
		TooManyFailures reports whether the client key has exceeded the
		failure budget inside the current window.

		Parameters:
		  - context: context.Context
		  - key: string (email + client IP)

		Returns:
		  - bool: True when further attempts should be rejected
		  - error: Connectivity failures
	*/
	TooManyFailures(context context.Context, key string) (bool, error)

	/*
		RecordFailure increments the failure counter for the client key and
		refreshes its expiry window.

		Parameters:
		  - context: context.Context
		  - key: string

		Returns:
		  - error: Connectivity failures
	*/
	RecordFailure(context context.Context, key string) error

	/*
		Reset clears the failure counter after a successful login.

		Parameters:
		  - context: context.Context
		  - key: string

		Returns:
		  - error: Connectivity failures
	*/
	Reset(context context.Context, key string) error
}
