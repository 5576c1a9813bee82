package pet

import "time"

// Pet represents an animal registered to a clinic account. As long as an
// account owns at least one pet, the account cannot be deleted.
type Pet struct {
	ID        int64      `json:"id"`
	OwnerID   int64      `json:"owner_id"`
	Name      string     `json:"name"`
	Species   string     `json:"species,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	CreatedAt time.Time  `json:"-"`
	UpdatedAt time.Time  `json:"-"`
}
