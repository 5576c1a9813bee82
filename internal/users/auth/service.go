// Copyright (c) 2026 Pet Clinic Backend contributors. All rights reserved.

/*
Package auth implements the registration and login use cases.

It handles everything from account enrollment and secure password hashing to
stateless session token issuance (HMAC-signed JWT).

Architecture:

  - Service: Orchestrates business logic (Register, Login).
  - Repository: Abstracted interfaces for Postgres (Accounts) and Redis
    (login throttling counters).
  - Security: Leverages Bcrypt and HMAC-SHA256 signed JWTs.

The package ensures that identity data remains consistent and secure
throughout the account lifecycle.
*/
package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dramacsoport/petclinic-backend/internal/platform/apperr"
	"github.com/dramacsoport/petclinic-backend/internal/platform/sec"
)

// # Contracts & Types

// TokenIssuer defines the contract for generating signed session tokens.
type TokenIssuer interface {
	// IssueToken creates a signed JWT string for the given account identity.
	//
	// # Parameters
	//   - email: The login email, carried as the token subject.
	//   - role: The account role, carried as the lowercase role claim.
	//
	// # Returns
	//   - A signed JWT string, or an err if signing fails.
	IssueToken(email string, role sec.AccountRole) (string, error)
}

// Mailer defines the contract for the outbound notification sink.
type Mailer interface {
	// Send delivers a single plain-text message.
	Send(context context.Context, to, subject, body string) error
}

// Service implements account authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed before merging.
type Service struct {
	accountRepository AccountRepository
	loginLimiter      LoginLimiter
	tokenIssuer       TokenIssuer
	mailer            Mailer
	logger            *slog.Logger
}

// NewService constructs a new [Service] with necessary dependencies.
//
// The mailer may be nil, in which case the registration email is skipped.
func NewService(
	accountRepo AccountRepository,
	limiter LoginLimiter,
	issuer TokenIssuer,
	mailer Mailer,
	logger *slog.Logger,
) *Service {
	return &Service{
		accountRepository: accountRepo,
		loginLimiter:      limiter,
		tokenIssuer:       issuer,
		mailer:            mailer,
		logger:            logger,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new account.
type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

/*
Register validates, hashes, and persists a brand new clinic account.

Description: Enrollment of a new owner, handling password policy, email
uniqueness, password hashing, and the post-registration welcome email.

The welcome email is a fire-and-forget side effect: it runs on its own
goroutine with a bounded deadline, and a failed send is logged and swallowed.
Registration never waits for it and is never rolled back because of it.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *Account: Created entity with its assigned numeric ID
  - err: ErrWeakPassword, ErrDuplicateAccount, or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*Account, error) {

	// Password policy comes first; nothing is persisted for weak credentials.
	if len(input.Password) < MinPasswordLength {
		return nil, ErrWeakPassword()
	}

	// Verify email uniqueness. Return a client-safe Conflict err.
	exists, err := service.accountRepository.ExistsByEmail(context, input.Email)
	if err != nil {
		return nil, fmt.Errorf("auth_service_exists_check_failed: %w", err)
	}
	if exists {
		return nil, ErrDuplicateAccount()
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new Account entity. The database assigns the numeric ID.
	account := &Account{
		Email:        input.Email,
		PasswordHash: hashedPassword,
		DisplayName:  input.DisplayName,
		Role:         sec.RoleUser,
	}

	// Persist the account. A concurrent registration of the same email loses
	// here with the same Conflict kind as the pre-check.
	if err := service.accountRepository.Create(context, account); err != nil {
		if apperr.HasCode(err, CodeDuplicateAccount) {
			return nil, err
		}
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	// Dispatch the welcome email without blocking the registration response.
	service.sendWelcomeMail(account)

	return account, nil
}

// sendWelcomeMail dispatches the registration email on a time-boxed goroutine.
// Failures are logged, never surfaced.
func (service *Service) sendWelcomeMail(account *Account) {
	if service.mailer == nil {
		return
	}

	// Detached from the request context: the HTTP response must not wait for
	// SMTP, and a cancelled request must not cancel the send.
	logger := service.logger
	mailer := service.mailer
	to := account.Email
	body := fmt.Sprintf(WelcomeMailBody, account.DisplayName)

	go func() {
		mailContext, cancel := contextWithMailDeadline()
		defer cancel()

		if err := mailer.Send(mailContext, to, WelcomeMailSubject, body); err != nil {
			logger.Warn("auth_welcome_mail_failed", slog.Any("error", err))
			return
		}
		logger.Info("auth_welcome_mail_sent")
	}()
}

// contextWithMailDeadline returns a background context bounded by the
// welcome-mail timeout.
func contextWithMailDeadline() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), WelcomeMailTimeout)
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email     string
	Password  string
	IPAddress string
}

// LoginSession represents a successfully established stateless session.
type LoginSession struct {
	Token   string
	Account *Account
}

/*
Login validates account credentials and issues a signed session token.

Description: Verifies identity with a constant-time password comparison and
issues a stateless HMAC-signed token carrying the email and role. Unknown
email and wrong password collapse into the same failure kind so the endpoint
cannot be used to probe for registered emails.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Signed token plus the authenticated account
  - err: ErrAccountNotFound, apperr.RateLimited, or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {

	// Brute-force guard keyed by email and client address.
	limiterKey := input.Email + "|" + input.IPAddress
	if service.loginLimiter != nil {
		blocked, err := service.loginLimiter.TooManyFailures(context, limiterKey)
		if err != nil {
			// A broken limiter must not lock every user out.
			service.logger.Warn("auth_login_limiter_unavailable", slog.Any("error", err))
		} else if blocked {
			return nil, apperr.RateLimited(int(LoginFailureWindow.Seconds()))
		}
	}

	// A missing account collapses into the same failure kind as a wrong
	// password to prevent enumeration. Infrastructure failures are not login
	// failures: they propagate and never touch the throttle counter.
	account, err := service.accountRepository.FindByEmail(context, input.Email)
	if err != nil {
		if !apperr.IsNotFound(err) {
			return nil, fmt.Errorf("auth_service_find_account_failed: %w", err)
		}
		service.recordLoginFailure(context, limiterKey)
		return nil, ErrAccountNotFound()
	}

	// Verify password hash using constant-time comparison in bcrypt to prevent timing attacks
	if !sec.CheckPasswordHash(input.Password, account.PasswordHash) {
		service.recordLoginFailure(context, limiterKey)
		return nil, ErrAccountNotFound()
	}

	// Successful login resets the failure budget.
	if service.loginLimiter != nil {
		_ = service.loginLimiter.Reset(context, limiterKey)
	}

	// Issue the stateless session token carrying email + role.
	token, err := service.tokenIssuer.IssueToken(account.Email, account.Role)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	service.logger.Info("auth_login_succeeded", slog.Int64("account_id", account.ID))

	return &LoginSession{
		Token:   token,
		Account: account,
	}, nil
}

// recordLoginFailure bumps the throttling counter; limiter errors are logged
// and never surfaced to the caller.
func (service *Service) recordLoginFailure(context context.Context, key string) {
	if service.loginLimiter == nil {
		return
	}
	if err := service.loginLimiter.RecordFailure(context, key); err != nil {
		service.logger.Warn("auth_login_limiter_record_failed", slog.Any("error", err))
	}
}
