// Package catalog manages the reference data quotes draw upon:
// filaments, printers and hardware. Rows are archived rather than
// deleted once quote lines reference them.
package catalog

import (
	"database/sql"
	"fmt"

	"github.com/threedq/threedq/internal/domain"
)

// Row status values.
const (
	StatusActive   = "Active"
	StatusArchived = "Archived"
)

// Store provides access to the reference tables.
type Store struct {
	db *sql.DB
}

// NewStore creates a catalog store over db.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// referenceCounts maps each reference table to the quote-line columns
// that may point at it.
var referenceCounts = map[string]string{
	"filaments": `SELECT COUNT(*) FROM quote_filaments WHERE filament_id = ?`,
	"printers":  `SELECT COUNT(*) FROM quote_print_setup WHERE printer_id = ?`,
	"hardware":  `SELECT COUNT(*) FROM quote_hardware WHERE hardware_id = ?`,
}

// CountQuoteReferences returns how many quote lines reference row id of
// the given table. Used as the delete guard for all reference tables.
func (s *Store) CountQuoteReferences(table string, id int64) (int64, error) {
	query, ok := referenceCounts[table]
	if !ok {
		return 0, fmt.Errorf("unknown reference table %q", table)
	}

	var count int64
	if err := s.db.QueryRow(query, id).Scan(&count); err != nil {
		return 0, domain.NewStorageError("count quote references", err)
	}
	return count, nil
}

// guardDelete rejects the delete when quote lines still reference the
// row, suggesting archival instead.
func (s *Store) guardDelete(table, entity string, id int64) error {
	count, err := s.CountQuoteReferences(table, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.NewReferenceConflictError(entity, id, count)
	}
	return nil
}

// deleteRow removes one row by id and maps a missing row to a not found
// error.
func (s *Store) deleteRow(table, entity string, id int64) error {
	result, err := s.db.Exec(`DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return domain.NewStorageError("delete "+entity, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return domain.NewStorageError("delete "+entity, err)
	}
	if affected == 0 {
		return domain.NewNotFoundError(entity, id)
	}
	return nil
}

func validStatus(status string) bool {
	return status == StatusActive || status == StatusArchived
}
