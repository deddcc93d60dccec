package catalog

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/threedq/threedq/internal/domain"
)

// Hardware is one purchased part in the catalog (inserts, magnets,
// screws and the like).
type Hardware struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Link      string  `json:"link,omitempty"`
	Status    string  `json:"status"`
}

func validateHardware(h Hardware) error {
	if strings.TrimSpace(h.Name) == "" {
		return domain.NewValidationError("name", "must not be empty")
	}
	if h.UnitPrice < 0 {
		return domain.NewValidationError("unit_price", "must not be negative")
	}
	if !validStatus(h.Status) {
		return domain.NewValidationError("status", "must be Active or Archived")
	}
	return nil
}

// CreateHardware validates and inserts the row.
func (s *Store) CreateHardware(h Hardware) (Hardware, error) {
	if h.Status == "" {
		h.Status = StatusActive
	}
	if err := validateHardware(h); err != nil {
		return Hardware{}, err
	}

	result, err := s.db.Exec(`
		INSERT INTO hardware (name, unit_price, link, status)
		VALUES (?, ?, ?, ?)
	`, h.Name, h.UnitPrice, h.Link, h.Status)
	if err != nil {
		return Hardware{}, domain.NewStorageError("insert hardware", err)
	}

	h.ID, err = result.LastInsertId()
	if err != nil {
		return Hardware{}, domain.NewStorageError("insert hardware", err)
	}
	return h, nil
}

// UpdateHardware validates and updates the row.
func (s *Store) UpdateHardware(h Hardware) error {
	if err := validateHardware(h); err != nil {
		return err
	}

	result, err := s.db.Exec(`
		UPDATE hardware
		SET name = ?, unit_price = ?, link = ?, status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, h.Name, h.UnitPrice, h.Link, h.Status, h.ID)
	if err != nil {
		return domain.NewStorageError("update hardware", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return domain.NewStorageError("update hardware", err)
	}
	if affected == 0 {
		return domain.NewNotFoundError("hardware", h.ID)
	}
	return nil
}

// GetHardware returns one hardware item by id.
func (s *Store) GetHardware(id int64) (Hardware, error) {
	var h Hardware
	err := s.db.QueryRow(`
		SELECT id, name, unit_price, COALESCE(link, ''), status
		FROM hardware
		WHERE id = ?
	`, id).Scan(&h.ID, &h.Name, &h.UnitPrice, &h.Link, &h.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return Hardware{}, domain.NewNotFoundError("hardware", id)
	}
	if err != nil {
		return Hardware{}, domain.NewStorageError("query hardware", err)
	}
	return h, nil
}

// ListHardware returns all hardware items, newest first.
func (s *Store) ListHardware() ([]Hardware, error) {
	rows, err := s.db.Query(`
		SELECT id, name, unit_price, COALESCE(link, ''), status
		FROM hardware
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, domain.NewStorageError("query hardware", err)
	}
	defer rows.Close()

	items := make([]Hardware, 0)
	for rows.Next() {
		var h Hardware
		if err := rows.Scan(&h.ID, &h.Name, &h.UnitPrice, &h.Link, &h.Status); err != nil {
			return nil, domain.NewStorageError("scan hardware", err)
		}
		items = append(items, h)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("iterate hardware", err)
	}
	return items, nil
}

// DeleteHardware removes a hardware item unless quote lines reference it.
func (s *Store) DeleteHardware(id int64) error {
	if err := s.guardDelete("hardware", "hardware", id); err != nil {
		return err
	}
	return s.deleteRow("hardware", "hardware", id)
}
