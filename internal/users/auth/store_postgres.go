// Copyright (c) 2026 Pet Clinic Backend contributors. All rights reserved.

// Package auth (Postgres) implements the storage layer for clinic accounts.
//
// # Architecture
//
// Repositories in this package are strictly separated from domain logic. They
// implement domain-defined interfaces (e.g., [AccountRepository]) using the
// [pgxpool.Pool] connection manager.
//
// # Error Mapping
//
// Storage-specific errors (pgx.ErrNoRows, SQLSTATE 23505) are mapped to
// domain-friendly [apperr.AppError] types to avoid leaking storage
// implementation details.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dramacsoport/petclinic-backend/internal/platform/apperr"
	"github.com/dramacsoport/petclinic-backend/internal/platform/dberr"
)

// # Account Repository

// PostgresAccountRepository implements the AccountRepository interface using pgx.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new PostgreSQL implementation of the AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

/*
Create persists a new account record into the users.account table.

Description: The database assigns the numeric ID via bigserial; the assigned
value is written back into the entity on success.

Parameters:
  - context: context.Context
  - account: *Account (Entity to persist)

Returns:
  - error: ErrDuplicateAccount on unique-email violation, or connectivity errors
*/
func (repository *PostgresAccountRepository) Create(context context.Context, account *Account) error {
	const query = `
		INSERT INTO users.account (
			email, passwordhash, displayname, role, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	now := time.Now()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now

	err := repository.pool.QueryRow(context, query,
		account.Email,
		account.PasswordHash,
		account.DisplayName,
		account.Role,
		account.CreatedAt,
		account.UpdatedAt,
	).Scan(&account.ID)

	if err != nil {
		if dberr.IsDuplicate(err) {
			return ErrDuplicateAccount()
		}
		return fmt.Errorf("postgres_account_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByEmail retrieves an account record by its unique email address.

Description: Email comparison is case-sensitive; "Owner@x" and "owner@x" are
distinct login keys.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *Account: Hydrated entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresAccountRepository) FindByEmail(context context.Context, email string) (*Account, error) {
	const query = `
		SELECT id, email, passwordhash, displayname, role, createdat, updatedat
		FROM users.account
		WHERE email = $1`

	account := &Account{}
	err := repository.pool.QueryRow(context, query, email).Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.DisplayName,
		&account.Role,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Account")
		}
		return nil, fmt.Errorf("postgres_account_repo_find_by_email_failed: %w", err)
	}

	return account, nil
}

/*
FindByID retrieves an account record by its numeric ID.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *Account: Hydrated entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresAccountRepository) FindByID(context context.Context, id int64) (*Account, error) {
	const query = `
		SELECT id, email, passwordhash, displayname, role, createdat, updatedat
		FROM users.account
		WHERE id = $1`

	account := &Account{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.DisplayName,
		&account.Role,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Account")
		}
		return nil, fmt.Errorf("postgres_account_repo_find_by_id_failed: %w", err)
	}

	return account, nil
}

/*
ExistsByEmail reports whether an account row is bound to the email.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - bool: True when a row exists
  - error: Execution errors
*/
func (repository *PostgresAccountRepository) ExistsByEmail(context context.Context, email string) (bool, error) {
	const query = "SELECT EXISTS (SELECT 1 FROM users.account WHERE email = $1)"

	var exists bool
	if err := repository.pool.QueryRow(context, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres_account_repo_exists_failed: %w", err)
	}

	return exists, nil
}

/*
Update persists all mutable account fields in a single-row atomic write.

Description: Email, display name, password hash, and role are written
together, refreshing the updatedat timestamp. Partial multi-statement saves
are never produced.

Parameters:
  - context: context.Context
  - account: *Account

Returns:
  - error: ErrDuplicateAccount on email collision, or update failures
*/
func (repository *PostgresAccountRepository) Update(context context.Context, account *Account) error {
	const query = `
		UPDATE users.account
		SET email = $2, passwordhash = $3, displayname = $4, role = $5, updatedat = $6
		WHERE id = $1`

	account.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query,
		account.ID,
		account.Email,
		account.PasswordHash,
		account.DisplayName,
		account.Role,
		account.UpdatedAt,
	)

	if err != nil {
		if dberr.IsDuplicate(err) {
			return ErrDuplicateAccount()
		}
		return fmt.Errorf("postgres_account_repo_update_failed: %w", err)
	}

	return nil
}

/*
Delete permanently removes the account row.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - error: Execution failures
*/
func (repository *PostgresAccountRepository) Delete(context context.Context, id int64) error {
	const query = "DELETE FROM users.account WHERE id = $1"
	_, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_account_repo_delete_failed: %w", err)
	}
	return nil
}
