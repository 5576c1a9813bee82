// Copyright (c) 2026 Pet Clinic Backend contributors. All rights reserved.

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dramacsoport/petclinic-backend/internal/platform/apperr"
	"github.com/dramacsoport/petclinic-backend/internal/platform/sec"
	"github.com/dramacsoport/petclinic-backend/internal/users/auth"
)

// # Service Layer

// Service orchestrates business logic for profile edits and account deletion.
//
// Every operation resolves the caller through the email carried by the
// validated session token; there is no ambient identity.
type Service struct {
	accountRepository AccountRepository
	petCounter        PetCounter
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its repository dependencies.
func NewService(
	accountRepo AccountRepository,
	petCounter PetCounter,
	logger *slog.Logger,
) *Service {
	return &Service{
		accountRepository: accountRepo,
		petCounter:        petCounter,
		logger:            logger,
	}
}

// # Profile Management

/*
GetProfile retrieves the full private identity of the calling account.

Parameters:
  - context: context.Context
  - callerEmail: string (Token subject)

Returns:
  - *auth.Account: The hydrated account profile
  - error: ACCOUNT_NOT_FOUND when the token subject no longer resolves
*/
func (service *Service) GetProfile(context context.Context, callerEmail string) (*auth.Account, error) {
	account, err := service.accountRepository.FindByEmail(context, callerEmail)
	if err != nil {
		// A valid token whose subject no longer resolves is treated as a
		// failed authentication, not a missing resource. Storage failures
		// keep their cause and propagate.
		if apperr.IsNotFound(err) {
			return nil, auth.ErrAccountNotFound()
		}
		return nil, fmt.Errorf("account_service_profile_lookup_failed: %w", err)
	}
	return account, nil
}

// EditInput defines the full replacement profile for an edit.
//
// Every edit must present the original password; the new password is
// optional and, when empty, the stored hash is retained untouched.
type EditInput struct {
	Email            string
	OriginalPassword string
	Password         string
	DisplayName      string
}

/*
ChangeAccountData applies a verified, atomic update to the caller's profile.

Description: Loads the caller's own account, verifies the presented original
password, guards the new email against collisions, and persists email,
display name, and (optionally) a rehashed password in one single-row write.
Role and registered pets are carried over unchanged.

The returned EditResult flags whether the password changed; the transport
layer invalidates its auth context only in that case.

Parameters:
  - context: context.Context
  - callerEmail: string (Token subject)
  - input: EditInput

Returns:
  - *EditResult: Outcome message and the password-change flag
  - err: ACCOUNT_NOT_FOUND, UNAUTHORIZED_ACTION, DUPLICATE_ACCOUNT, WEAK_PASSWORD, or storage failures
*/
func (service *Service) ChangeAccountData(context context.Context, callerEmail string, input EditInput) (*EditResult, error) {

	// Resolve the caller's own account; edits never target anyone else.
	account, err := service.accountRepository.FindByEmail(context, callerEmail)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, auth.ErrAccountNotFound()
		}
		return nil, fmt.Errorf("account_service_edit_lookup_failed: %w", err)
	}

	// Re-authenticate the edit with the original password. A valid token is
	// not enough to rewrite credentials.
	if !sec.CheckPasswordHash(input.OriginalPassword, account.PasswordHash) {
		return nil, auth.ErrUnauthorizedAction("Original password is incorrect.")
	}

	// Guard the email move before touching anything: a collision must leave
	// the original account fully intact.
	if input.Email != account.Email {
		taken, err := service.accountRepository.ExistsByEmail(context, input.Email)
		if err != nil {
			return nil, fmt.Errorf("account_service_email_check_failed: %w", err)
		}
		if taken {
			return nil, auth.ErrDuplicateAccount()
		}
	}

	// Apply the replacement fields. ID and Role are immutable here; pets are
	// not part of the account row and carry over by construction.
	account.Email = input.Email
	account.DisplayName = input.DisplayName

	// An empty password means "keep my current one": the stored hash is
	// retained and the session stays valid. A supplied replacement obeys the
	// same policy as registration.
	passwordChanged := false
	if input.Password != "" {
		if len(input.Password) < auth.MinPasswordLength {
			return nil, auth.ErrWeakPassword()
		}
		newHash, err := sec.HashPassword(input.Password)
		if err != nil {
			return nil, fmt.Errorf("account_service_rehash_failed: %w", err)
		}
		account.PasswordHash = newHash
		passwordChanged = true
	}

	// One atomic single-row write; partially applied edits never exist.
	if err := service.accountRepository.Update(context, account); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	service.logger.Info("user_profile_updated",
		slog.Int64("account_id", account.ID),
		slog.Bool("password_changed", passwordChanged),
	)

	return &EditResult{
		Message:         MessageDataSaved,
		PasswordChanged: passwordChanged,
	}, nil
}

// # Account Deletion

/*
DeleteAccount removes the caller's account once every guard passes.

Description: The caller may only delete the account their token resolves to,
and only while no dependent pets remain. The repository delete is invoked
exactly once, and only after both guards pass.

Parameters:
  - context: context.Context
  - callerEmail: string (Token subject)
  - targetID: int64 (Account ID from the request path)

Returns:
  - *DeleteResult: Outcome message
  - err: ACCOUNT_NOT_FOUND, UNAUTHORIZED_ACTION, DELETION_BLOCKED, or storage failures
*/
func (service *Service) DeleteAccount(context context.Context, callerEmail string, targetID int64) (*DeleteResult, error) {

	// Resolve the caller's own account.
	account, err := service.accountRepository.FindByEmail(context, callerEmail)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, auth.ErrAccountNotFound()
		}
		return nil, fmt.Errorf("account_service_delete_lookup_failed: %w", err)
	}

	// Ownership guard: the path ID must match the caller's own account.
	if account.ID != targetID {
		return nil, auth.ErrUnauthorizedAction("You are not authorized to delete this profile.")
	}

	// Dependency guard: pets must be transferred or deleted first.
	petCount, err := service.petCounter.CountByOwner(context, account.ID)
	if err != nil {
		return nil, fmt.Errorf("account_service_pet_count_failed: %w", err)
	}
	if petCount > 0 {
		return nil, auth.ErrDeletionBlocked()
	}

	if err := service.accountRepository.Delete(context, account.ID); err != nil {
		return nil, fmt.Errorf("account_service_delete_failed: %w", err)
	}

	service.logger.Warn("user_account_deleted", slog.Int64("account_id", account.ID))

	return &DeleteResult{Message: MessageProfileDeleted}, nil
}
