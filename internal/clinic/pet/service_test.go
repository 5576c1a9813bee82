package pet_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dramacsoport/petclinic-backend/internal/clinic/pet"
	"github.com/dramacsoport/petclinic-backend/internal/platform/apperr"
	"github.com/dramacsoport/petclinic-backend/internal/platform/sec"
	"github.com/dramacsoport/petclinic-backend/internal/users/auth"
	"github.com/dramacsoport/petclinic-backend/pkg/pagination"
)

type fakeRepository struct {
	pets   map[int64]*pet.Pet
	nextID int64
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{pets: map[int64]*pet.Pet{}, nextID: 1}
}

func (repo *fakeRepository) ListByOwner(_ context.Context, ownerID int64, params pagination.Params) ([]*pet.Pet, int, error) {
	owned := make([]*pet.Pet, 0)
	for _, p := range repo.pets {
		if p.OwnerID == ownerID {
			copied := *p
			owned = append(owned, &copied)
		}
	}
	return owned, len(owned), nil
}

func (repo *fakeRepository) CountByOwner(_ context.Context, ownerID int64) (int64, error) {
	var count int64
	for _, p := range repo.pets {
		if p.OwnerID == ownerID {
			count++
		}
	}
	return count, nil
}

func (repo *fakeRepository) GetByID(_ context.Context, id int64) (*pet.Pet, error) {
	p, ok := repo.pets[id]
	if !ok {
		return nil, apperr.NotFound("Pet")
	}
	copied := *p
	return &copied, nil
}

func (repo *fakeRepository) Create(_ context.Context, p *pet.Pet) error {
	p.ID = repo.nextID
	repo.nextID++
	copied := *p
	repo.pets[p.ID] = &copied
	return nil
}

func (repo *fakeRepository) Delete(_ context.Context, id int64) error {
	delete(repo.pets, id)
	return nil
}

type fakeOwnerDirectory struct {
	accounts map[string]*auth.Account
}

func (dir *fakeOwnerDirectory) FindByEmail(_ context.Context, email string) (*auth.Account, error) {
	acc, ok := dir.accounts[email]
	if !ok {
		return nil, apperr.NotFound("Account")
	}
	return acc, nil
}

func newTestService(repo *fakeRepository) *pet.Service {
	owners := &fakeOwnerDirectory{accounts: map[string]*auth.Account{
		"owner@test.com": {ID: 1, Email: "owner@test.com", Role: sec.RoleUser},
		"other@test.com": {ID: 2, Email: "other@test.com", Role: sec.RoleUser},
	}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return pet.NewService(repo, owners, logger)
}

func TestService_CreateAndList(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo)

	created, err := service.Create(context.Background(), "owner@test.com", pet.CreateInput{
		Name:    "Bodri",
		Species: "dog",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, int64(1), created.OwnerID)

	pets, total, err := service.ListOwn(context.Background(), "owner@test.com", pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Bodri", pets[0].Name)

	// Other owner sees nothing
	_, total, err = service.ListOwn(context.Background(), "other@test.com", pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestService_Delete_OwnershipGuard(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo)

	created, err := service.Create(context.Background(), "owner@test.com", pet.CreateInput{Name: "Cirmi"})
	require.NoError(t, err)

	// A foreign caller cannot remove the pet
	err = service.Delete(context.Background(), "other@test.com", created.ID)
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, "FORBIDDEN"))

	count, _ := repo.CountByOwner(context.Background(), 1)
	assert.Equal(t, int64(1), count)

	// The owner can
	err = service.Delete(context.Background(), "owner@test.com", created.ID)
	require.NoError(t, err)

	count, _ = repo.CountByOwner(context.Background(), 1)
	assert.Zero(t, count)
}

// outageOwnerDirectory stands in for a storage outage during owner resolution.
type outageOwnerDirectory struct {
	findErr error
}

func (dir *outageOwnerDirectory) FindByEmail(_ context.Context, _ string) (*auth.Account, error) {
	return nil, dir.findErr
}

func TestService_OwnerLookupFailurePropagates(t *testing.T) {
	errInfra := errors.New("connection refused")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := pet.NewService(newFakeRepository(), &outageOwnerDirectory{findErr: errInfra}, logger)

	_, err := service.Create(context.Background(), "owner@test.com", pet.CreateInput{Name: "Rex"})

	// An outage is not a bad token: the cause survives, the auth kind does not apply.
	require.Error(t, err)
	assert.False(t, apperr.HasCode(err, auth.CodeAccountNotFound))
	assert.True(t, errors.Is(err, errInfra))
}
