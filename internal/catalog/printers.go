package catalog

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/threedq/threedq/internal/domain"
	"github.com/threedq/threedq/internal/pricing"
)

// Printer is one machine in the catalog. DepreciationPerHour is derived
// from purchase price, service cost and expected lifetime at write time.
type Printer struct {
	ID                  int64   `json:"id"`
	Name                string  `json:"name"`
	MaterialDiameter    float64 `json:"material_diameter"`
	Price               float64 `json:"price"`
	DepreciationTime    float64 `json:"depreciation_time"`
	ServiceCost         float64 `json:"service_cost"`
	PowerUsage          float64 `json:"power_usage"`
	DepreciationPerHour float64 `json:"depreciation_per_hour"`
	Status              string  `json:"status"`
}

func validatePrinter(p Printer) error {
	if strings.TrimSpace(p.Name) == "" {
		return domain.NewValidationError("name", "must not be empty")
	}
	if p.Price < 0 {
		return domain.NewValidationError("price", "must not be negative")
	}
	if p.DepreciationTime < 0 {
		return domain.NewValidationError("depreciation_time", "must not be negative")
	}
	if p.PowerUsage < 0 {
		return domain.NewValidationError("power_usage", "must not be negative")
	}
	if !validStatus(p.Status) {
		return domain.NewValidationError("status", "must be Active or Archived")
	}
	return nil
}

// CreatePrinter validates, derives depreciation_per_hour and inserts.
func (s *Store) CreatePrinter(p Printer) (Printer, error) {
	if p.Status == "" {
		p.Status = StatusActive
	}
	if err := validatePrinter(p); err != nil {
		return Printer{}, err
	}
	p.DepreciationPerHour = pricing.DepreciationPerHour(p.Price, p.ServiceCost, p.DepreciationTime)

	result, err := s.db.Exec(`
		INSERT INTO printers (name, material_diameter, price, depreciation_time, service_cost, power_usage, depreciation_per_hour, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, p.Name, p.MaterialDiameter, p.Price, p.DepreciationTime, p.ServiceCost, p.PowerUsage, p.DepreciationPerHour, p.Status)
	if err != nil {
		return Printer{}, domain.NewStorageError("insert printer", err)
	}

	p.ID, err = result.LastInsertId()
	if err != nil {
		return Printer{}, domain.NewStorageError("insert printer", err)
	}
	return p, nil
}

// UpdatePrinter validates, re-derives depreciation_per_hour and updates.
func (s *Store) UpdatePrinter(p Printer) error {
	if err := validatePrinter(p); err != nil {
		return err
	}
	p.DepreciationPerHour = pricing.DepreciationPerHour(p.Price, p.ServiceCost, p.DepreciationTime)

	result, err := s.db.Exec(`
		UPDATE printers
		SET name = ?, material_diameter = ?, price = ?, depreciation_time = ?, service_cost = ?,
			power_usage = ?, depreciation_per_hour = ?, status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, p.Name, p.MaterialDiameter, p.Price, p.DepreciationTime, p.ServiceCost,
		p.PowerUsage, p.DepreciationPerHour, p.Status, p.ID)
	if err != nil {
		return domain.NewStorageError("update printer", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return domain.NewStorageError("update printer", err)
	}
	if affected == 0 {
		return domain.NewNotFoundError("printer", p.ID)
	}
	return nil
}

// GetPrinter returns one printer by id.
func (s *Store) GetPrinter(id int64) (Printer, error) {
	var p Printer
	err := s.db.QueryRow(`
		SELECT id, name, material_diameter, price, depreciation_time, service_cost, power_usage, depreciation_per_hour, status
		FROM printers
		WHERE id = ?
	`, id).Scan(&p.ID, &p.Name, &p.MaterialDiameter, &p.Price, &p.DepreciationTime,
		&p.ServiceCost, &p.PowerUsage, &p.DepreciationPerHour, &p.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return Printer{}, domain.NewNotFoundError("printer", id)
	}
	if err != nil {
		return Printer{}, domain.NewStorageError("query printer", err)
	}
	return p, nil
}

// ListPrinters returns all printers, newest first.
func (s *Store) ListPrinters() ([]Printer, error) {
	rows, err := s.db.Query(`
		SELECT id, name, material_diameter, price, depreciation_time, service_cost, power_usage, depreciation_per_hour, status
		FROM printers
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, domain.NewStorageError("query printers", err)
	}
	defer rows.Close()

	printers := make([]Printer, 0)
	for rows.Next() {
		var p Printer
		if err := rows.Scan(&p.ID, &p.Name, &p.MaterialDiameter, &p.Price, &p.DepreciationTime,
			&p.ServiceCost, &p.PowerUsage, &p.DepreciationPerHour, &p.Status); err != nil {
			return nil, domain.NewStorageError("scan printer", err)
		}
		printers = append(printers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("iterate printers", err)
	}
	return printers, nil
}

// DeletePrinter removes a printer unless quote setups reference it.
func (s *Store) DeletePrinter(id int64) error {
	if err := s.guardDelete("printers", "printer", id); err != nil {
		return err
	}
	return s.deleteRow("printers", "printer", id)
}
