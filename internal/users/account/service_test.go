// Copyright (c) 2026 Pet Clinic Backend contributors. All rights reserved.

package account_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dramacsoport/petclinic-backend/internal/platform/apperr"
	"github.com/dramacsoport/petclinic-backend/internal/platform/sec"
	"github.com/dramacsoport/petclinic-backend/internal/users/account"
	"github.com/dramacsoport/petclinic-backend/internal/users/auth"
)

// # Test Fixtures

// fakeAccountRepository is an in-memory AccountRepository keyed by email,
// counting Delete invocations for guard assertions.
type fakeAccountRepository struct {
	accounts    map[string]*auth.Account
	deleteCalls int
}

func newFakeAccountRepository(seed ...*auth.Account) *fakeAccountRepository {
	repo := &fakeAccountRepository{accounts: map[string]*auth.Account{}}
	for _, acc := range seed {
		copied := *acc
		repo.accounts[acc.Email] = &copied
	}
	return repo
}

func (repo *fakeAccountRepository) FindByEmail(_ context.Context, email string) (*auth.Account, error) {
	acc, ok := repo.accounts[email]
	if !ok {
		return nil, apperr.NotFound("Account")
	}
	copied := *acc
	return &copied, nil
}

func (repo *fakeAccountRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := repo.accounts[email]
	return ok, nil
}

func (repo *fakeAccountRepository) Update(_ context.Context, acc *auth.Account) error {
	for email, existing := range repo.accounts {
		if existing.ID == acc.ID {
			if email != acc.Email {
				if _, taken := repo.accounts[acc.Email]; taken {
					return auth.ErrDuplicateAccount()
				}
				delete(repo.accounts, email)
			}
			acc.UpdatedAt = time.Now()
			copied := *acc
			repo.accounts[acc.Email] = &copied
			return nil
		}
	}
	return apperr.NotFound("Account")
}

func (repo *fakeAccountRepository) Delete(_ context.Context, id int64) error {
	repo.deleteCalls++
	for email, existing := range repo.accounts {
		if existing.ID == id {
			delete(repo.accounts, email)
			return nil
		}
	}
	return nil
}

// fakePetCounter returns a fixed pet count per owner.
type fakePetCounter struct {
	counts map[int64]int64
}

func (counter *fakePetCounter) CountByOwner(_ context.Context, ownerID int64) (int64, error) {
	return counter.counts[ownerID], nil
}

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	hash, err := sec.HashPassword(plain)
	require.NoError(t, err)
	return hash
}

func newTestService(repo *fakeAccountRepository, pets *fakePetCounter) *account.Service {
	if pets == nil {
		pets = &fakePetCounter{counts: map[int64]int64{}}
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return account.NewService(repo, pets, logger)
}

func seedOwner(t *testing.T) *auth.Account {
	t.Helper()
	return &auth.Account{
		ID:           1,
		Email:        "user@test.com",
		PasswordHash: mustHash(t, "password"),
		DisplayName:  "User",
		Role:         sec.RoleUser,
	}
}

// # Profile Edit

/*
TestService_ChangeAccountData_FullUpdate verifies the happy path: email,
display name, and password replaced in one save, role untouched, old email
gone, and the password-changed flag raised.
*/
func TestService_ChangeAccountData_FullUpdate(t *testing.T) {
	owner := seedOwner(t)
	repo := newFakeAccountRepository(owner)
	service := newTestService(repo, nil)

	result, err := service.ChangeAccountData(context.Background(), "user@test.com", account.EditInput{
		Email:            "new@test.com",
		OriginalPassword: "password",
		Password:         "new_Password",
		DisplayName:      "NewName",
	})

	require.NoError(t, err)
	assert.Equal(t, account.MessageDataSaved, result.Message)
	assert.True(t, result.PasswordChanged)

	// Old login key is gone, new one resolves to the same numeric identity
	exists, _ := repo.ExistsByEmail(context.Background(), "user@test.com")
	assert.False(t, exists)

	updated, err := repo.FindByEmail(context.Background(), "new@test.com")
	require.NoError(t, err)
	assert.Equal(t, owner.ID, updated.ID)
	assert.Equal(t, "NewName", updated.DisplayName)
	assert.Equal(t, sec.RoleUser, updated.Role)
	assert.True(t, sec.CheckPasswordHash("new_Password", updated.PasswordHash))
	assert.False(t, sec.CheckPasswordHash("password", updated.PasswordHash))
}

/*
TestService_ChangeAccountData_KeepPassword verifies that an empty password
retains the stored hash and does not raise the password-changed flag.
*/
func TestService_ChangeAccountData_KeepPassword(t *testing.T) {
	owner := seedOwner(t)
	repo := newFakeAccountRepository(owner)
	service := newTestService(repo, nil)

	result, err := service.ChangeAccountData(context.Background(), "user@test.com", account.EditInput{
		Email:            "new@test.com",
		OriginalPassword: "password",
		Password:         "",
		DisplayName:      "NewName",
	})

	require.NoError(t, err)
	assert.Equal(t, account.MessageDataSaved, result.Message)
	assert.False(t, result.PasswordChanged)

	updated, err := repo.FindByEmail(context.Background(), "new@test.com")
	require.NoError(t, err)
	assert.Equal(t, owner.PasswordHash, updated.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("password", updated.PasswordHash))
}

/*
TestService_ChangeAccountData_WrongOriginalPassword verifies that the edit is
rejected as an unauthorized action and nothing is saved.
*/
func TestService_ChangeAccountData_WrongOriginalPassword(t *testing.T) {
	owner := seedOwner(t)
	repo := newFakeAccountRepository(owner)
	service := newTestService(repo, nil)

	_, err := service.ChangeAccountData(context.Background(), "user@test.com", account.EditInput{
		Email:            "new@test.com",
		OriginalPassword: "not-my-password",
		Password:         "new_Password",
		DisplayName:      "NewName",
	})

	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, auth.CodeUnauthorizedAction))

	// Account left untouched
	stored, err := repo.FindByEmail(context.Background(), "user@test.com")
	require.NoError(t, err)
	assert.Equal(t, "User", stored.DisplayName)
}

/*
TestService_ChangeAccountData_EmailCollision verifies that moving to a taken
email fails with a conflict and leaves the original account fully intact.
*/
func TestService_ChangeAccountData_EmailCollision(t *testing.T) {
	owner := seedOwner(t)
	other := &auth.Account{
		ID:           2,
		Email:        "taken@test.com",
		PasswordHash: mustHash(t, "other"),
		DisplayName:  "Other",
		Role:         sec.RoleUser,
	}
	repo := newFakeAccountRepository(owner, other)
	service := newTestService(repo, nil)

	_, err := service.ChangeAccountData(context.Background(), "user@test.com", account.EditInput{
		Email:            "taken@test.com",
		OriginalPassword: "password",
		Password:         "new_Password",
		DisplayName:      "NewName",
	})

	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, auth.CodeDuplicateAccount))

	// Original account is unchanged, including its password hash
	stored, err := repo.FindByEmail(context.Background(), "user@test.com")
	require.NoError(t, err)
	assert.Equal(t, "User", stored.DisplayName)
	assert.True(t, sec.CheckPasswordHash("password", stored.PasswordHash))
}

/*
TestService_ChangeAccountData_SameEmail verifies that keeping the current
email is not treated as a collision with the caller's own row.
*/
func TestService_ChangeAccountData_SameEmail(t *testing.T) {
	owner := seedOwner(t)
	repo := newFakeAccountRepository(owner)
	service := newTestService(repo, nil)

	result, err := service.ChangeAccountData(context.Background(), "user@test.com", account.EditInput{
		Email:            "user@test.com",
		OriginalPassword: "password",
		DisplayName:      "Renamed",
	})

	require.NoError(t, err)
	assert.Equal(t, account.MessageDataSaved, result.Message)

	stored, err := repo.FindByEmail(context.Background(), "user@test.com")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", stored.DisplayName)
}

// # Account Deletion

/*
TestService_DeleteAccount_BlockedByPets verifies that deletion is refused
while dependent pets exist and the repository delete is never invoked.
*/
func TestService_DeleteAccount_BlockedByPets(t *testing.T) {
	owner := seedOwner(t)
	repo := newFakeAccountRepository(owner)
	pets := &fakePetCounter{counts: map[int64]int64{1: 2}}
	service := newTestService(repo, pets)

	_, err := service.DeleteAccount(context.Background(), "user@test.com", 1)

	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, auth.CodeDeletionBlocked))
	assert.Equal(t,
		"Unable to delete your profile. Please transfer or delete your pets before proceeding.",
		err.Error())
	assert.Zero(t, repo.deleteCalls)
}

/*
TestService_DeleteAccount_WrongTarget verifies that a caller aiming at a
foreign account ID is rejected before any guard or delete runs.
*/
func TestService_DeleteAccount_WrongTarget(t *testing.T) {
	owner := seedOwner(t)
	repo := newFakeAccountRepository(owner)
	service := newTestService(repo, nil)

	_, err := service.DeleteAccount(context.Background(), "user@test.com", 42)

	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, auth.CodeUnauthorizedAction))
	assert.Zero(t, repo.deleteCalls)

	// Account still present
	exists, _ := repo.ExistsByEmail(context.Background(), "user@test.com")
	assert.True(t, exists)
}

/*
TestService_DeleteAccount_Success verifies deletion with no pets: the row is
removed, the delete runs exactly once, and the message matches.
*/
func TestService_DeleteAccount_Success(t *testing.T) {
	owner := seedOwner(t)
	repo := newFakeAccountRepository(owner)
	service := newTestService(repo, nil)

	result, err := service.DeleteAccount(context.Background(), "user@test.com", 1)

	require.NoError(t, err)
	assert.Equal(t, account.MessageProfileDeleted, result.Message)
	assert.Equal(t, 1, repo.deleteCalls)

	exists, _ := repo.ExistsByEmail(context.Background(), "user@test.com")
	assert.False(t, exists)
}

/*
TestService_GetProfile verifies identity resolution from the token subject
and the authentication-shaped failure for unknown subjects.
*/
func TestService_GetProfile(t *testing.T) {
	owner := seedOwner(t)
	repo := newFakeAccountRepository(owner)
	service := newTestService(repo, nil)

	profile, err := service.GetProfile(context.Background(), "user@test.com")
	require.NoError(t, err)
	assert.Equal(t, owner.ID, profile.ID)

	_, err = service.GetProfile(context.Background(), "ghost@test.com")
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, auth.CodeAccountNotFound))
}

/*
TestService_ChangeAccountData_WeakNewPassword verifies that a supplied
replacement password obeys the registration policy: below the minimum length
the edit is rejected and nothing is saved.
*/
func TestService_ChangeAccountData_WeakNewPassword(t *testing.T) {
	owner := seedOwner(t)
	originalHash := owner.PasswordHash
	repo := newFakeAccountRepository(owner)
	service := newTestService(repo, nil)

	_, err := service.ChangeAccountData(context.Background(), "user@test.com", account.EditInput{
		Email:            "user@test.com",
		OriginalPassword: "password",
		Password:         "a",
		DisplayName:      "User",
	})

	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, auth.CodeWeakPassword))

	// The stored credential is untouched
	stored, err := repo.FindByEmail(context.Background(), "user@test.com")
	require.NoError(t, err)
	assert.Equal(t, originalHash, stored.PasswordHash)
	assert.False(t, sec.CheckPasswordHash("a", stored.PasswordHash))

	// The exact policy boundary still passes
	result, err := service.ChangeAccountData(context.Background(), "user@test.com", account.EditInput{
		Email:            "user@test.com",
		OriginalPassword: "password",
		Password:         "abcd",
		DisplayName:      "User",
	})
	require.NoError(t, err)
	assert.True(t, result.PasswordChanged)
}

// outageAccountRepository stands in for a storage outage on lookups.
type outageAccountRepository struct {
	*fakeAccountRepository
	findErr error
}

func (repo *outageAccountRepository) FindByEmail(_ context.Context, _ string) (*auth.Account, error) {
	return nil, repo.findErr
}

/*
TestService_GetProfile_StorageFailurePropagates verifies that an
infrastructure failure during profile resolution is not reported as a failed
authentication and keeps its cause.
*/
func TestService_GetProfile_StorageFailurePropagates(t *testing.T) {
	errInfra := errors.New("connection refused")
	repo := &outageAccountRepository{
		fakeAccountRepository: newFakeAccountRepository(),
		findErr:               errInfra,
	}
	service := account.NewService(repo, &fakePetCounter{counts: map[int64]int64{}},
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := service.GetProfile(context.Background(), "user@test.com")

	require.Error(t, err)
	assert.False(t, apperr.HasCode(err, auth.CodeAccountNotFound))
	assert.True(t, errors.Is(err, errInfra))
}
