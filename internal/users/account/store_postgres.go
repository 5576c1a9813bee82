// Copyright (c) 2026 Pet Clinic Backend contributors. All rights reserved.

/*
Package account (Postgres) implements the storage layer for profile management.

It provides PostgreSQL implementations over the shared users.account table.

# Schema Table Mapping
  - users.account: Master identity and profile data.
*/
package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dramacsoport/petclinic-backend/internal/platform/apperr"
	"github.com/dramacsoport/petclinic-backend/internal/platform/database/schema"
	"github.com/dramacsoport/petclinic-backend/internal/platform/dberr"
	"github.com/dramacsoport/petclinic-backend/internal/users/auth"
)

// # Repository Implementations

// PostgresAccountRepository implements [AccountRepository] using pgx.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new Postgres implementation for profile management.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

// # AccountRepository Methods

/*
FindByEmail retrieves an account record from the users.account table.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *auth.Account: Hydrated identity entity
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresAccountRepository) FindByEmail(context context.Context, email string) (*auth.Account, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		schema.UserAccount.ID, schema.UserAccount.Email, schema.UserAccount.Password,
		schema.UserAccount.DisplayName, schema.UserAccount.Role,
		schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
		schema.UserAccount.Table, schema.UserAccount.Email,
	)

	account := &auth.Account{}
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
		return nil, fmt.Errorf("postgres_profile_repo_find_by_email_failed: %w", err)
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
	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)",
		schema.UserAccount.Table, schema.UserAccount.Email,
	)

	var exists bool
	if err := repository.pool.QueryRow(context, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres_profile_repo_exists_failed: %w", err)
	}

	return exists, nil
}

/*
Update persists all mutable profile fields in one atomic single-row write.

Parameters:
  - context: context.Context
  - account: *auth.Account

Returns:
  - error: auth.ErrDuplicateAccount on email collision, or update failures
*/
func (repository *PostgresAccountRepository) Update(context context.Context, account *auth.Account) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6
		WHERE %s = $1`,
		schema.UserAccount.Table,
		schema.UserAccount.Email, schema.UserAccount.Password,
		schema.UserAccount.DisplayName, schema.UserAccount.Role,
		schema.UserAccount.UpdatedAt, schema.UserAccount.ID,
	)

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
			return auth.ErrDuplicateAccount()
		}
		return fmt.Errorf("postgres_profile_repo_update_failed: %w", err)
	}

	return nil
}

/*
Delete permanently removes the account row by its numeric ID.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - error: Execution failures
*/
func (repository *PostgresAccountRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1",
		schema.UserAccount.Table, schema.UserAccount.ID,
	)

	_, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_profile_repo_delete_failed: %w", err)
	}

	return nil
}
