package catalog

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/threedq/threedq/internal/domain"
	"github.com/threedq/threedq/internal/pricing"
)

// Filament is one spool type in the catalog. PricePerKg is derived from
// spool price and weight at write time; quote lines snapshot it per gram.
type Filament struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	MaterialType string  `json:"material_type"`
	Diameter     float64 `json:"diameter"`
	SpoolWeight  float64 `json:"spool_weight"`
	SpoolPrice   float64 `json:"spool_price"`
	PricePerKg   float64 `json:"price_per_kg"`
	Color        string  `json:"color"`
	Link         string  `json:"link,omitempty"`
	Status       string  `json:"status"`
}

// PricePerGram converts the derived per-kg price to the per-gram value
// quote lines snapshot.
func (f Filament) PricePerGram() float64 {
	return f.PricePerKg / 1000.0
}

func validateFilament(f Filament) error {
	if strings.TrimSpace(f.Name) == "" {
		return domain.NewValidationError("name", "must not be empty")
	}
	if f.SpoolWeight <= 0 {
		return domain.NewValidationError("spool_weight", "must be greater than 0")
	}
	if f.SpoolPrice < 0 {
		return domain.NewValidationError("spool_price", "must not be negative")
	}
	if !validStatus(f.Status) {
		return domain.NewValidationError("status", "must be Active or Archived")
	}
	return nil
}

// CreateFilament validates, derives price_per_kg and inserts the row.
func (s *Store) CreateFilament(f Filament) (Filament, error) {
	if f.Status == "" {
		f.Status = StatusActive
	}
	if err := validateFilament(f); err != nil {
		return Filament{}, err
	}
	f.PricePerKg = pricing.PricePerKg(f.SpoolPrice, f.SpoolWeight)

	result, err := s.db.Exec(`
		INSERT INTO filaments (name, material_type, diameter, spool_weight, spool_price, price_per_kg, color, link, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, f.Name, f.MaterialType, f.Diameter, f.SpoolWeight, f.SpoolPrice, f.PricePerKg, f.Color, f.Link, f.Status)
	if err != nil {
		return Filament{}, domain.NewStorageError("insert filament", err)
	}

	f.ID, err = result.LastInsertId()
	if err != nil {
		return Filament{}, domain.NewStorageError("insert filament", err)
	}
	return f, nil
}

// UpdateFilament validates, re-derives price_per_kg and updates the row.
// Historical quote lines keep their snapshots.
func (s *Store) UpdateFilament(f Filament) error {
	if err := validateFilament(f); err != nil {
		return err
	}
	f.PricePerKg = pricing.PricePerKg(f.SpoolPrice, f.SpoolWeight)

	result, err := s.db.Exec(`
		UPDATE filaments
		SET name = ?, material_type = ?, diameter = ?, spool_weight = ?, spool_price = ?,
			price_per_kg = ?, color = ?, link = ?, status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, f.Name, f.MaterialType, f.Diameter, f.SpoolWeight, f.SpoolPrice,
		f.PricePerKg, f.Color, f.Link, f.Status, f.ID)
	if err != nil {
		return domain.NewStorageError("update filament", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return domain.NewStorageError("update filament", err)
	}
	if affected == 0 {
		return domain.NewNotFoundError("filament", f.ID)
	}
	return nil
}

// GetFilament returns one filament by id.
func (s *Store) GetFilament(id int64) (Filament, error) {
	var f Filament
	err := s.db.QueryRow(`
		SELECT id, name, material_type, diameter, spool_weight, spool_price, price_per_kg, color, COALESCE(link, ''), status
		FROM filaments
		WHERE id = ?
	`, id).Scan(&f.ID, &f.Name, &f.MaterialType, &f.Diameter, &f.SpoolWeight,
		&f.SpoolPrice, &f.PricePerKg, &f.Color, &f.Link, &f.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return Filament{}, domain.NewNotFoundError("filament", id)
	}
	if err != nil {
		return Filament{}, domain.NewStorageError("query filament", err)
	}
	return f, nil
}

// ListFilaments returns all filaments, newest first.
func (s *Store) ListFilaments() ([]Filament, error) {
	rows, err := s.db.Query(`
		SELECT id, name, material_type, diameter, spool_weight, spool_price, price_per_kg, color, COALESCE(link, ''), status
		FROM filaments
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, domain.NewStorageError("query filaments", err)
	}
	defer rows.Close()

	filaments := make([]Filament, 0)
	for rows.Next() {
		var f Filament
		if err := rows.Scan(&f.ID, &f.Name, &f.MaterialType, &f.Diameter, &f.SpoolWeight,
			&f.SpoolPrice, &f.PricePerKg, &f.Color, &f.Link, &f.Status); err != nil {
			return nil, domain.NewStorageError("scan filament", err)
		}
		filaments = append(filaments, f)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("iterate filaments", err)
	}
	return filaments, nil
}

// DeleteFilament removes a filament unless quote lines reference it.
func (s *Store) DeleteFilament(id int64) error {
	if err := s.guardDelete("filaments", "filament", id); err != nil {
		return err
	}
	return s.deleteRow("filaments", "filament", id)
}
