package schema

// ClinicPetTable represents the 'clinic.pet' table
type ClinicPetTable struct {
	Table     string
	ID        string
	OwnerID   string
	Name      string
	Species   string
	BirthDate string
	CreatedAt string
	UpdatedAt string
}

// ClinicPet is the schema definition for clinic.pet
var ClinicPet = ClinicPetTable{
	Table:     "clinic.pet",
	ID:        "id",
	OwnerID:   "ownerid",
	Name:      "name",
	Species:   "species",
	BirthDate: "birthdate",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns all standard column names
func (t ClinicPetTable) Columns() []string {
	return []string{
		t.ID, t.OwnerID, t.Name, t.Species, t.BirthDate,
		t.CreatedAt, t.UpdatedAt,
	}
}
