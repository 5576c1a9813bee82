package pet

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dramacsoport/petclinic-backend/internal/platform/apperr"
	"github.com/dramacsoport/petclinic-backend/internal/users/auth"
	"github.com/dramacsoport/petclinic-backend/pkg/pagination"
)

// OwnerDirectory resolves the caller's token subject to an account.
type OwnerDirectory interface {
	FindByEmail(context context.Context, email string) (*auth.Account, error)
}

type Service struct {
	repo   Repository
	owners OwnerDirectory
	logger *slog.Logger
}

func NewService(repo Repository, owners OwnerDirectory, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		owners: owners,
		logger: logger,
	}
}

func (service *Service) resolveOwner(context context.Context, email string) (*auth.Account, error) {
	owner, err := service.owners.FindByEmail(context, email)
	if err != nil {
		// Unresolvable token subject reads as failed authentication; storage
		// failures propagate with their cause.
		if apperr.IsNotFound(err) {
			return nil, auth.ErrAccountNotFound()
		}
		return nil, fmt.Errorf("pet_service_owner_lookup_failed: %w", err)
	}
	return owner, nil
}

func (service *Service) ListOwn(context context.Context, callerEmail string, params pagination.Params) ([]*Pet, int, error) {
	owner, err := service.resolveOwner(context, callerEmail)
	if err != nil {
		return nil, 0, err
	}
	return service.repo.ListByOwner(context, owner.ID, params)
}

type CreateInput struct {
	Name      string
	Species   string
	BirthDate *time.Time
}

func (service *Service) Create(context context.Context, callerEmail string, input CreateInput) (*Pet, error) {
	owner, err := service.resolveOwner(context, callerEmail)
	if err != nil {
		return nil, err
	}

	newPet := &Pet{
		OwnerID:   owner.ID,
		Name:      input.Name,
		Species:   input.Species,
		BirthDate: input.BirthDate,
	}
	if err := service.repo.Create(context, newPet); err != nil {
		return nil, err
	}

	service.logger.Info("pet_registered",
		slog.Int64("pet_id", newPet.ID),
		slog.Int64("owner_id", owner.ID),
	)

	return newPet, nil
}

func (service *Service) Delete(context context.Context, callerEmail string, petID int64) error {
	owner, err := service.resolveOwner(context, callerEmail)
	if err != nil {
		return err
	}

	existing, err := service.repo.GetByID(context, petID)
	if err != nil {
		return err
	}

	// Only the registered owner may remove a pet.
	if existing.OwnerID != owner.ID {
		return apperr.Forbidden("You are not authorized to remove this pet.")
	}

	if err := service.repo.Delete(context, petID); err != nil {
		return err
	}

	service.logger.Info("pet_removed",
		slog.Int64("pet_id", petID),
		slog.Int64("owner_id", owner.ID),
	)

	return nil
}
