package pet

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dramacsoport/petclinic-backend/internal/platform/database/schema"
	"github.com/dramacsoport/petclinic-backend/internal/platform/dberr"
	"github.com/dramacsoport/petclinic-backend/pkg/pagination"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) ListByOwner(context context.Context, ownerID int64, params pagination.Params) ([]*Pet, int, error) {
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`,
		schema.ClinicPet.Table, schema.ClinicPet.OwnerID)

	var total int
	if err := repository.db.QueryRow(context, countQuery, ownerID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_pets")
	}

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC
		LIMIT $2 OFFSET $3`,
		schema.ClinicPet.ID, schema.ClinicPet.OwnerID, schema.ClinicPet.Name,
		schema.ClinicPet.Species, schema.ClinicPet.BirthDate,
		schema.ClinicPet.CreatedAt, schema.ClinicPet.UpdatedAt,
		schema.ClinicPet.Table, schema.ClinicPet.OwnerID, schema.ClinicPet.ID,
	)

	rows, err := repository.db.Query(context, query, ownerID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_pets")
	}
	defer rows.Close()

	pets := make([]*Pet, 0)
	for rows.Next() {
		p := &Pet{}
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Species, &p.BirthDate, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_pet")
		}
		pets = append(pets, p)
	}

	return pets, total, nil
}

func (repository *PostgresRepository) CountByOwner(context context.Context, ownerID int64) (int64, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`,
		schema.ClinicPet.Table, schema.ClinicPet.OwnerID)

	var count int64
	if err := repository.db.QueryRow(context, query, ownerID).Scan(&count); err != nil {
		return 0, dberr.Wrap(err, "count_pets_by_owner")
	}

	return count, nil
}

func (repository *PostgresRepository) GetByID(context context.Context, id int64) (*Pet, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		schema.ClinicPet.ID, schema.ClinicPet.OwnerID, schema.ClinicPet.Name,
		schema.ClinicPet.Species, schema.ClinicPet.BirthDate,
		schema.ClinicPet.CreatedAt, schema.ClinicPet.UpdatedAt,
		schema.ClinicPet.Table, schema.ClinicPet.ID,
	)

	p := &Pet{}
	err := repository.db.QueryRow(context, query, id).Scan(
		&p.ID, &p.OwnerID, &p.Name, &p.Species, &p.BirthDate, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_pet_by_id")
	}

	return p, nil
}

func (repository *PostgresRepository) Create(context context.Context, pet *Pet) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s`,
		schema.ClinicPet.Table,
		schema.ClinicPet.OwnerID, schema.ClinicPet.Name, schema.ClinicPet.Species,
		schema.ClinicPet.BirthDate, schema.ClinicPet.CreatedAt, schema.ClinicPet.UpdatedAt,
		schema.ClinicPet.ID,
	)

	now := time.Now()
	pet.CreatedAt = now
	pet.UpdatedAt = now

	err := repository.db.QueryRow(context, query,
		pet.OwnerID, pet.Name, pet.Species, pet.BirthDate, pet.CreatedAt, pet.UpdatedAt,
	).Scan(&pet.ID)
	if err != nil {
		return dberr.Wrap(err, "create_pet")
	}

	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.ClinicPet.Table, schema.ClinicPet.ID)

	if _, err := repository.db.Exec(context, query, id); err != nil {
		return dberr.Wrap(err, "delete_pet")
	}

	return nil
}
