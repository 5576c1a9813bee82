// Copyright (c) 2026 Pet Clinic Backend contributors. All rights reserved.

package auth_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dramacsoport/petclinic-backend/internal/platform/apperr"
	"github.com/dramacsoport/petclinic-backend/internal/platform/sec"
	"github.com/dramacsoport/petclinic-backend/internal/users/auth"
)

// # Test Fixtures

// fakeAccountRepository is an in-memory AccountRepository keyed by email.
type fakeAccountRepository struct {
	mu       sync.Mutex
	accounts map[string]*auth.Account
	nextID   int64
}

func newFakeAccountRepository() *fakeAccountRepository {
	return &fakeAccountRepository{accounts: map[string]*auth.Account{}, nextID: 1}
}

func (repo *fakeAccountRepository) FindByID(_ context.Context, id int64) (*auth.Account, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, account := range repo.accounts {
		if account.ID == id {
			copied := *account
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Account")
}

func (repo *fakeAccountRepository) FindByEmail(_ context.Context, email string) (*auth.Account, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	account, ok := repo.accounts[email]
	if !ok {
		return nil, apperr.NotFound("Account")
	}
	copied := *account
	return &copied, nil
}

func (repo *fakeAccountRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	_, ok := repo.accounts[email]
	return ok, nil
}

func (repo *fakeAccountRepository) Create(_ context.Context, account *auth.Account) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, ok := repo.accounts[account.Email]; ok {
		return auth.ErrDuplicateAccount()
	}
	account.ID = repo.nextID
	repo.nextID++
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	copied := *account
	repo.accounts[account.Email] = &copied
	return nil
}

func (repo *fakeAccountRepository) Update(_ context.Context, account *auth.Account) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for email, existing := range repo.accounts {
		if existing.ID == account.ID {
			delete(repo.accounts, email)
			copied := *account
			repo.accounts[account.Email] = &copied
			return nil
		}
	}
	return apperr.NotFound("Account")
}

func (repo *fakeAccountRepository) Delete(_ context.Context, id int64) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for email, existing := range repo.accounts {
		if existing.ID == id {
			delete(repo.accounts, email)
			return nil
		}
	}
	return nil
}

// fakeLoginLimiter counts failures in memory without expiry.
type fakeLoginLimiter struct {
	mu       sync.Mutex
	failures map[string]int
	resets   int
}

func newFakeLoginLimiter() *fakeLoginLimiter {
	return &fakeLoginLimiter{failures: map[string]int{}}
}

func (limiter *fakeLoginLimiter) TooManyFailures(_ context.Context, key string) (bool, error) {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	return limiter.failures[key] >= auth.LoginFailureLimit, nil
}

func (limiter *fakeLoginLimiter) RecordFailure(_ context.Context, key string) error {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	limiter.failures[key]++
	return nil
}

func (limiter *fakeLoginLimiter) Reset(_ context.Context, key string) error {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	delete(limiter.failures, key)
	limiter.resets++
	return nil
}

// recordingMailer captures sends for assertion.
type recordingMailer struct {
	mu       sync.Mutex
	sent     []sentMail
	notified chan struct{}
}

type sentMail struct {
	to      string
	subject string
	body    string
}

func newRecordingMailer() *recordingMailer {
	return &recordingMailer{notified: make(chan struct{}, 8)}
}

func (mailer *recordingMailer) Send(_ context.Context, to, subject, body string) error {
	mailer.mu.Lock()
	mailer.sent = append(mailer.sent, sentMail{to: to, subject: subject, body: body})
	mailer.mu.Unlock()
	mailer.notified <- struct{}{}
	return nil
}

func (mailer *recordingMailer) waitForSend(t *testing.T) sentMail {
	t.Helper()
	select {
	case <-mailer.notified:
	case <-time.After(2 * time.Second):
		t.Fatal("welcome mail was never dispatched")
	}
	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	return mailer.sent[len(mailer.sent)-1]
}

func newTestService(repo auth.AccountRepository, limiter auth.LoginLimiter, mailer auth.Mailer) *auth.Service {
	tokenService, err := sec.NewTokenService("test-secret-key", "petclinic.test", time.Hour)
	if err != nil {
		panic(err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return auth.NewService(repo, limiter, tokenService, mailer, logger)
}

// # Registration

/*
TestService_Register_Success verifies a full enrollment: persisted account,
assigned ID, hashed password, default role, and the welcome email.
*/
func TestService_Register_Success(t *testing.T) {
	repo := newFakeAccountRepository()
	mailer := newRecordingMailer()
	service := newTestService(repo, nil, mailer)

	account, err := service.Register(context.Background(), auth.RegisterInput{
		Email:       "owner@clinic.test",
		Password:    "sekret",
		DisplayName: "Owner_1",
	})

	require.NoError(t, err)
	require.NotNil(t, account)

	// 1. Identity was assigned and the role defaults to user
	assert.Equal(t, int64(1), account.ID)
	assert.Equal(t, sec.RoleUser, account.Role)

	// 2. The stored hash verifies against the original password and is never
	// the plaintext itself
	assert.NotEqual(t, "sekret", account.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("sekret", account.PasswordHash))

	// 3. Welcome mail carries the display name and the fixed subject
	mail := mailer.waitForSend(t)
	assert.Equal(t, "owner@clinic.test", mail.to)
	assert.Equal(t, auth.WelcomeMailSubject, mail.subject)
	assert.Contains(t, mail.body, "Dear Owner_1,")
	assert.Contains(t, mail.body, "Pet Clinic Team")
}

/*
TestService_Register_WeakPassword verifies the minimum-length policy: exactly
three characters is rejected, four is accepted.
*/
func TestService_Register_WeakPassword(t *testing.T) {
	repo := newFakeAccountRepository()
	service := newTestService(repo, nil, nil)

	_, err := service.Register(context.Background(), auth.RegisterInput{
		Email:       "owner@clinic.test",
		Password:    "abc",
		DisplayName: "Owner_1",
	})

	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, auth.CodeWeakPassword))

	// Nothing may be persisted on rejection
	exists, _ := repo.ExistsByEmail(context.Background(), "owner@clinic.test")
	assert.False(t, exists)

	// Boundary: four characters passes the policy
	_, err = service.Register(context.Background(), auth.RegisterInput{
		Email:       "owner@clinic.test",
		Password:    "abcd",
		DisplayName: "Owner_1",
	})
	assert.NoError(t, err)
}

/*
TestService_Register_DuplicateEmail verifies that a second registration with
the same email fails with a conflict and leaves the original account intact.
*/
func TestService_Register_DuplicateEmail(t *testing.T) {
	repo := newFakeAccountRepository()
	service := newTestService(repo, nil, nil)

	first, err := service.Register(context.Background(), auth.RegisterInput{
		Email:       "owner@clinic.test",
		Password:    "sekret",
		DisplayName: "Owner_1",
	})
	require.NoError(t, err)

	_, err = service.Register(context.Background(), auth.RegisterInput{
		Email:       "owner@clinic.test",
		Password:    "other-password",
		DisplayName: "Imposter",
	})

	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, auth.CodeDuplicateAccount))

	// Original registration survives untouched
	stored, err := repo.FindByEmail(context.Background(), "owner@clinic.test")
	require.NoError(t, err)
	assert.Equal(t, first.ID, stored.ID)
	assert.Equal(t, "Owner_1", stored.DisplayName)
}

/*
TestService_Register_CaseSensitiveEmail verifies that emails differing only in
case are distinct accounts.
*/
func TestService_Register_CaseSensitiveEmail(t *testing.T) {
	repo := newFakeAccountRepository()
	service := newTestService(repo, nil, nil)

	_, err := service.Register(context.Background(), auth.RegisterInput{
		Email:       "owner@clinic.test",
		Password:    "sekret",
		DisplayName: "Lower",
	})
	require.NoError(t, err)

	account, err := service.Register(context.Background(), auth.RegisterInput{
		Email:       "Owner@clinic.test",
		Password:    "sekret",
		DisplayName: "Upper",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(2), account.ID)
}

// # Login

/*
TestService_Login_Success verifies that valid credentials yield a token whose
claims carry the account email and role.
*/
func TestService_Login_Success(t *testing.T) {
	repo := newFakeAccountRepository()
	limiter := newFakeLoginLimiter()
	service := newTestService(repo, limiter, nil)

	_, err := service.Register(context.Background(), auth.RegisterInput{
		Email:       "owner@clinic.test",
		Password:    "sekret",
		DisplayName: "Owner_1",
	})
	require.NoError(t, err)

	session, err := service.Login(context.Background(), auth.LoginInput{
		Email:     "owner@clinic.test",
		Password:  "sekret",
		IPAddress: "10.0.0.1",
	})

	require.NoError(t, err)
	require.NotNil(t, session)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "owner@clinic.test", session.Account.Email)

	// The issued token verifies and projects the identity claims
	tokenService, err := sec.NewTokenService("test-secret-key", "petclinic.test", time.Hour)
	require.NoError(t, err)
	claims, err := tokenService.VerifyToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, "owner@clinic.test", claims.Email())
	assert.Equal(t, string(sec.RoleUser), claims.Role)

	// A successful login resets the failure budget
	assert.Equal(t, 1, limiter.resets)
}

/*
TestService_Login_UnknownEmailAndWrongPassword verifies that both failure
cases collapse into the same error kind, making them indistinguishable.
*/
func TestService_Login_UnknownEmailAndWrongPassword(t *testing.T) {
	repo := newFakeAccountRepository()
	service := newTestService(repo, nil, nil)

	_, err := service.Register(context.Background(), auth.RegisterInput{
		Email:       "owner@clinic.test",
		Password:    "sekret",
		DisplayName: "Owner_1",
	})
	require.NoError(t, err)

	_, unknownErr := service.Login(context.Background(), auth.LoginInput{
		Email:    "nobody@clinic.test",
		Password: "sekret",
	})
	_, wrongErr := service.Login(context.Background(), auth.LoginInput{
		Email:    "owner@clinic.test",
		Password: "wrong",
	})

	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.True(t, apperr.HasCode(unknownErr, auth.CodeAccountNotFound))
	assert.True(t, apperr.HasCode(wrongErr, auth.CodeAccountNotFound))
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

/*
TestService_Login_Throttled verifies that the limiter blocks further attempts
once the failure budget is exhausted, even with correct credentials.
*/
func TestService_Login_Throttled(t *testing.T) {
	repo := newFakeAccountRepository()
	limiter := newFakeLoginLimiter()
	service := newTestService(repo, limiter, nil)

	_, err := service.Register(context.Background(), auth.RegisterInput{
		Email:       "owner@clinic.test",
		Password:    "sekret",
		DisplayName: "Owner_1",
	})
	require.NoError(t, err)

	attempt := auth.LoginInput{
		Email:     "owner@clinic.test",
		Password:  "wrong",
		IPAddress: "10.0.0.1",
	}
	for i := 0; i < auth.LoginFailureLimit; i++ {
		_, err := service.Login(context.Background(), attempt)
		require.Error(t, err)
	}

	// Correct password is now rejected with the throttling kind
	_, err = service.Login(context.Background(), auth.LoginInput{
		Email:     "owner@clinic.test",
		Password:  "sekret",
		IPAddress: "10.0.0.1",
	})
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, "RATE_LIMITED"))

	// A different client address is unaffected
	session, err := service.Login(context.Background(), auth.LoginInput{
		Email:     "owner@clinic.test",
		Password:  "sekret",
		IPAddress: "10.0.0.2",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
}

// failingAccountRepository stands in for a storage outage: FindByEmail
// returns a fixed infrastructure error instead of a lookup result.
type failingAccountRepository struct {
	*fakeAccountRepository
	findErr error
}

func (repo *failingAccountRepository) FindByEmail(ctx context.Context, email string) (*auth.Account, error) {
	return nil, repo.findErr
}

/*
TestService_Login_StorageFailurePropagates verifies that an infrastructure
failure during the account lookup is not reported as a failed authentication:
the cause stays in the chain and the throttle counter is untouched.
*/
func TestService_Login_StorageFailurePropagates(t *testing.T) {
	errInfra := errors.New("connection refused")
	repo := &failingAccountRepository{
		fakeAccountRepository: newFakeAccountRepository(),
		findErr:               errInfra,
	}
	limiter := newFakeLoginLimiter()
	service := newTestService(repo, limiter, nil)

	_, err := service.Login(context.Background(), auth.LoginInput{
		Email:     "owner@clinic.test",
		Password:  "sekret",
		IPAddress: "10.0.0.1",
	})

	require.Error(t, err)

	// 1. The failure is not collapsed into the authentication kind
	assert.False(t, apperr.HasCode(err, auth.CodeAccountNotFound))

	// 2. The original cause is still reachable for the transport boundary
	assert.True(t, errors.Is(err, errInfra))

	// 3. An outage is not a login failure; nothing was counted
	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	assert.Empty(t, limiter.failures)
}

// failingMailer always refuses delivery, standing in for a dead SMTP relay.
type failingMailer struct {
	notified chan struct{}
}

func newFailingMailer() *failingMailer {
	return &failingMailer{notified: make(chan struct{}, 1)}
}

func (mailer *failingMailer) Send(_ context.Context, _, _, _ string) error {
	select {
	case mailer.notified <- struct{}{}:
	default:
	}
	return errors.New("smtp: connection refused")
}

/*
TestService_Register_MailFailureDoesNotFailRegistration verifies that a
refused welcome mail never fails or rolls back the enrollment.
*/
func TestService_Register_MailFailureDoesNotFailRegistration(t *testing.T) {
	repo := newFakeAccountRepository()
	mailer := newFailingMailer()
	service := newTestService(repo, nil, mailer)

	account, err := service.Register(context.Background(), auth.RegisterInput{
		Email:       "owner@clinic.test",
		Password:    "sekret",
		DisplayName: "Owner_1",
	})

	require.NoError(t, err)
	require.NotNil(t, account)

	// The send was attempted and refused
	select {
	case <-mailer.notified:
	case <-time.After(2 * time.Second):
		t.Fatal("welcome mail was never attempted")
	}

	// The account survived the refusal
	stored, err := repo.FindByEmail(context.Background(), "owner@clinic.test")
	require.NoError(t, err)
	assert.Equal(t, account.ID, stored.ID)
}
