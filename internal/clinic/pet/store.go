package pet

import (
	"context"

	"github.com/dramacsoport/petclinic-backend/pkg/pagination"
)

type Repository interface {
	ListByOwner(context context.Context, ownerID int64, params pagination.Params) ([]*Pet, int, error)
	CountByOwner(context context.Context, ownerID int64) (int64, error)
	GetByID(context context.Context, id int64) (*Pet, error)
	Create(context context.Context, pet *Pet) error
	Delete(context context.Context, id int64) error
}
