package repositories

import (
	"database/sql"
)

// NameRepository persists a flat list of team or role names.
//
// Adds are upserts keyed on name: duplicates are silently ignored.
type NameRepository struct {
	db    *sql.DB
	table string
}

// NewTeamRepository creates a NameRepository over the teams table.
func NewTeamRepository(db *sql.DB) *NameRepository {
	return &NameRepository{db: db, table: "teams"}
}

// NewRoleRepository creates a NameRepository over the roles table.
func NewRoleRepository(db *sql.DB) *NameRepository {
	return &NameRepository{db: db, table: "roles"}
}

// List retrieves all names in alphabetical order.
func (r *NameRepository) List() ([]string, error) {
	// table is fixed by the constructors, never caller input.
	rows, err := r.db.Query("SELECT name FROM " + r.table + " ORDER BY name")
	if err != nil {
		return nil, storageErr("querying "+r.table, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, storageErr("scanning "+r.table, err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, storageErr("iterating "+r.table, err)
	}

	return names, nil
}

// Add inserts a name, ignoring duplicates.
func (r *NameRepository) Add(name string) error {
	query := "INSERT INTO " + r.table + " (name) VALUES (?) ON CONFLICT(name) DO NOTHING"
	if _, err := r.db.Exec(query, name); err != nil {
		return storageErr("upserting into "+r.table, err)
	}
	return nil
}
