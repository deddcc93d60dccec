package quotes

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/threedq/threedq/internal/domain"
	"github.com/threedq/threedq/internal/pricing"
)

// duplicateTitleSuffix marks a duplicated quote's title.
const duplicateTitleSuffix = " (Copy)"

// Store persists quote aggregates.
type Store struct {
	db *sql.DB
}

// NewStore creates a quote store over db.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func validateQuote(q Quote) error {
	if strings.TrimSpace(q.CustomerName) == "" {
		return domain.NewValidationError("customer_name", "must not be empty")
	}
	if strings.TrimSpace(q.Date) == "" {
		return domain.NewValidationError("date", "must be present")
	}
	if q.Quantity < 1 {
		return domain.NewValidationError("quantity", "must be at least 1")
	}
	if q.MarkupPercent < 0 {
		return domain.NewValidationError("markup_percent", "must not be negative")
	}
	if q.DiscountPercent < 0 {
		return domain.NewValidationError("discount_percent", "must not be negative")
	}
	for _, line := range q.Filaments {
		if line.GramsUsed < 0 {
			return domain.NewValidationError("grams_used", "must not be negative")
		}
	}
	for _, line := range q.Hardware {
		if line.Quantity < 0 {
			return domain.NewValidationError("quantity", "must not be negative")
		}
	}
	return nil
}

// mapChildInsertErr turns a foreign key violation on a child insert into
// a structured error naming the stale reference, instead of a bare
// storage failure.
func mapChildInsertErr(op, field string, err error) error {
	if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
		return domain.NewValidationError(field, "references a row that no longer exists")
	}
	return domain.NewStorageError(op, err)
}

// Create validates the quote, allocates a quote number when none is set
// and writes the header plus all four child collections in one
// transaction. No partial quote survives a mid-sequence failure.
func (s *Store) Create(q Quote) (Quote, error) {
	if q.Quantity == 0 {
		q.Quantity = 1
	}
	if err := validateQuote(q); err != nil {
		return Quote{}, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return Quote{}, domain.NewStorageError("begin create quote", err)
	}
	defer tx.Rollback()

	if q.QuoteNumber == "" {
		q.QuoteNumber, _, err = NextQuoteNumber(tx)
		if err != nil {
			return Quote{}, domain.NewStorageError("allocate quote number", err)
		}
	}

	result, err := tx.Exec(`
		INSERT INTO quotes (quote_number, title, customer_name, quote_date, notes, markup_percent, discount_percent, quantity, total_cost, is_quick_quote)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, q.QuoteNumber, q.Title, q.CustomerName, q.Date, q.Notes,
		q.MarkupPercent, q.DiscountPercent, q.Quantity, q.TotalCost, q.IsQuickQuote)
	if err != nil {
		return Quote{}, domain.NewStorageError("insert quote header", err)
	}

	q.ID, err = result.LastInsertId()
	if err != nil {
		return Quote{}, domain.NewStorageError("insert quote header", err)
	}

	if err := insertChildren(tx, q.ID, &q); err != nil {
		return Quote{}, err
	}

	if err := tx.Commit(); err != nil {
		return Quote{}, domain.NewStorageError("commit create quote", err)
	}
	return q, nil
}

// insertChildren writes all four child collections for quoteID,
// recomputing per-line snapshot totals from the stored fields.
func insertChildren(tx *sql.Tx, quoteID int64, q *Quote) error {
	for i := range q.Filaments {
		line := &q.Filaments[i]
		line.TotalCost = pricing.FilamentLineCost(pricing.FilamentLine{
			PricePerGram: line.PricePerGram,
			GramsUsed:    line.GramsUsed,
		})

		result, err := tx.Exec(`
			INSERT INTO quote_filaments (quote_id, filament_id, filament_name, price_per_gram, grams_used, total_cost)
			VALUES (?, ?, ?, ?, ?, ?)
		`, quoteID, line.FilamentID, line.FilamentName, line.PricePerGram, line.GramsUsed, line.TotalCost)
		if err != nil {
			return mapChildInsertErr("insert filament line", "filament_id", err)
		}
		line.ID, _ = result.LastInsertId()
	}

	for i := range q.Hardware {
		line := &q.Hardware[i]
		line.TotalCost = pricing.HardwareLineCost(pricing.HardwareLine{
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})

		result, err := tx.Exec(`
			INSERT INTO quote_hardware (quote_id, hardware_id, hardware_name, quantity, unit_price, total_cost)
			VALUES (?, ?, ?, ?, ?, ?)
		`, quoteID, line.HardwareID, line.HardwareName, line.Quantity, line.UnitPrice, line.TotalCost)
		if err != nil {
			return mapChildInsertErr("insert hardware line", "hardware_id", err)
		}
		line.ID, _ = result.LastInsertId()
	}

	if q.Print != nil {
		if _, err := tx.Exec(`
			INSERT INTO quote_print_setup (quote_id, printer_id, printer_name, print_time, power_cost, depreciation_cost)
			VALUES (?, ?, ?, ?, ?, ?)
		`, quoteID, q.Print.PrinterID, q.Print.PrinterName, q.Print.PrintTime,
			q.Print.PowerCost, q.Print.DepreciationCost); err != nil {
			return mapChildInsertErr("insert print setup", "printer_id", err)
		}
	}

	if q.Labour != nil {
		q.Labour.TotalCost = pricing.LabourCost(pricing.Labour{
			DesignMinutes:         q.Labour.DesignMinutes,
			PreparationMinutes:    q.Labour.PreparationMinutes,
			PostProcessingMinutes: q.Labour.PostProcessingMinutes,
			OtherMinutes:          q.Labour.OtherMinutes,
			RatePerHour:           q.Labour.LabourRatePerHour,
		})

		if _, err := tx.Exec(`
			INSERT INTO quote_labour (quote_id, design_minutes, preparation_minutes, post_processing_minutes, other_minutes, labour_rate_per_hour, total_cost)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, quoteID, q.Labour.DesignMinutes, q.Labour.PreparationMinutes,
			q.Labour.PostProcessingMinutes, q.Labour.OtherMinutes,
			q.Labour.LabourRatePerHour, q.Labour.TotalCost); err != nil {
			return domain.NewStorageError("insert labour", err)
		}
	}

	return nil
}

// Get returns the quote with all four child collections, or a not found
// error. Absent collections come back as empty slices and nil records.
func (s *Store) Get(id int64) (Quote, error) {
	var q Quote
	err := s.db.QueryRow(`
		SELECT id, quote_number, COALESCE(title, ''), customer_name, quote_date, COALESCE(notes, ''),
			markup_percent, discount_percent, quantity, total_cost, is_quick_quote, created_at, updated_at
		FROM quotes
		WHERE id = ?
	`, id).Scan(&q.ID, &q.QuoteNumber, &q.Title, &q.CustomerName, &q.Date, &q.Notes,
		&q.MarkupPercent, &q.DiscountPercent, &q.Quantity, &q.TotalCost, &q.IsQuickQuote,
		&q.CreatedAt, &q.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Quote{}, domain.NewNotFoundError("quote", id)
	}
	if err != nil {
		return Quote{}, domain.NewStorageError("query quote header", err)
	}

	if err := s.loadChildren(&q); err != nil {
		return Quote{}, err
	}
	return q, nil
}

func (s *Store) loadChildren(q *Quote) error {
	q.Filaments = make([]FilamentLine, 0)
	rows, err := s.db.Query(`
		SELECT id, filament_id, filament_name, price_per_gram, grams_used, total_cost
		FROM quote_filaments
		WHERE quote_id = ?
		ORDER BY id
	`, q.ID)
	if err != nil {
		return domain.NewStorageError("query filament lines", err)
	}
	defer rows.Close()
	for rows.Next() {
		var line FilamentLine
		if err := rows.Scan(&line.ID, &line.FilamentID, &line.FilamentName,
			&line.PricePerGram, &line.GramsUsed, &line.TotalCost); err != nil {
			return domain.NewStorageError("scan filament line", err)
		}
		q.Filaments = append(q.Filaments, line)
	}
	if err := rows.Err(); err != nil {
		return domain.NewStorageError("iterate filament lines", err)
	}

	q.Hardware = make([]HardwareLine, 0)
	hwRows, err := s.db.Query(`
		SELECT id, hardware_id, hardware_name, quantity, unit_price, total_cost
		FROM quote_hardware
		WHERE quote_id = ?
		ORDER BY id
	`, q.ID)
	if err != nil {
		return domain.NewStorageError("query hardware lines", err)
	}
	defer hwRows.Close()
	for hwRows.Next() {
		var line HardwareLine
		if err := hwRows.Scan(&line.ID, &line.HardwareID, &line.HardwareName,
			&line.Quantity, &line.UnitPrice, &line.TotalCost); err != nil {
			return domain.NewStorageError("scan hardware line", err)
		}
		q.Hardware = append(q.Hardware, line)
	}
	if err := hwRows.Err(); err != nil {
		return domain.NewStorageError("iterate hardware lines", err)
	}

	var setup PrintSetup
	err = s.db.QueryRow(`
		SELECT printer_id, printer_name, print_time, power_cost, depreciation_cost
		FROM quote_print_setup
		WHERE quote_id = ?
	`, q.ID).Scan(&setup.PrinterID, &setup.PrinterName, &setup.PrintTime,
		&setup.PowerCost, &setup.DepreciationCost)
	if err == nil {
		q.Print = &setup
	} else if !errors.Is(err, sql.ErrNoRows) {
		return domain.NewStorageError("query print setup", err)
	}

	var labour Labour
	err = s.db.QueryRow(`
		SELECT design_minutes, preparation_minutes, post_processing_minutes, other_minutes, labour_rate_per_hour, total_cost
		FROM quote_labour
		WHERE quote_id = ?
	`, q.ID).Scan(&labour.DesignMinutes, &labour.PreparationMinutes,
		&labour.PostProcessingMinutes, &labour.OtherMinutes,
		&labour.LabourRatePerHour, &labour.TotalCost)
	if err == nil {
		q.Labour = &labour
	} else if !errors.Is(err, sql.ErrNoRows) {
		return domain.NewStorageError("query labour", err)
	}

	return nil
}

// Update replaces the quote: the header row is updated and all four
// child collections are deleted and reinserted inside one transaction,
// so no reader ever observes a half-replaced quote.
func (s *Store) Update(q Quote) (Quote, error) {
	if strings.TrimSpace(q.QuoteNumber) == "" {
		return Quote{}, domain.NewValidationError("quote_number", "must not be empty")
	}
	if err := validateQuote(q); err != nil {
		return Quote{}, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return Quote{}, domain.NewStorageError("begin update quote", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		UPDATE quotes
		SET quote_number = ?, title = ?, customer_name = ?, quote_date = ?, notes = ?,
			markup_percent = ?, discount_percent = ?, quantity = ?, total_cost = ?,
			is_quick_quote = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, q.QuoteNumber, q.Title, q.CustomerName, q.Date, q.Notes,
		q.MarkupPercent, q.DiscountPercent, q.Quantity, q.TotalCost, q.IsQuickQuote, q.ID)
	if err != nil {
		return Quote{}, domain.NewStorageError("update quote header", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return Quote{}, domain.NewStorageError("update quote header", err)
	}
	if affected == 0 {
		return Quote{}, domain.NewNotFoundError("quote", q.ID)
	}

	if err := deleteChildren(tx, q.ID); err != nil {
		return Quote{}, err
	}
	if err := insertChildren(tx, q.ID, &q); err != nil {
		return Quote{}, err
	}

	if err := tx.Commit(); err != nil {
		return Quote{}, domain.NewStorageError("commit update quote", err)
	}
	return q, nil
}

func deleteChildren(tx *sql.Tx, quoteID int64) error {
	for _, table := range []string{"quote_filaments", "quote_hardware", "quote_print_setup", "quote_labour"} {
		if _, err := tx.Exec(`DELETE FROM `+table+` WHERE quote_id = ?`, quoteID); err != nil {
			return domain.NewStorageError("delete "+table, err)
		}
	}
	return nil
}

// Delete removes the quote header; child rows cascade.
func (s *Store) Delete(id int64) error {
	result, err := s.db.Exec(`DELETE FROM quotes WHERE id = ?`, id)
	if err != nil {
		return domain.NewStorageError("delete quote", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return domain.NewStorageError("delete quote", err)
	}
	if affected == 0 {
		return domain.NewNotFoundError("quote", id)
	}
	return nil
}

// Duplicate deep-copies quote id under a fresh id and quote number. The
// copy's title is suffixed, its date reset to now; the source quote is
// never touched.
func (s *Store) Duplicate(id int64, now time.Time) (Quote, error) {
	source, err := s.Get(id)
	if err != nil {
		return Quote{}, err
	}

	dup := source
	dup.ID = 0
	dup.QuoteNumber = ""
	dup.Title = source.Title + duplicateTitleSuffix
	dup.Date = now.Format("2006-01-02")
	dup.CreatedAt = ""
	dup.UpdatedAt = ""

	dup.Filaments = make([]FilamentLine, len(source.Filaments))
	for i, line := range source.Filaments {
		line.ID = 0
		dup.Filaments[i] = line
	}
	dup.Hardware = make([]HardwareLine, len(source.Hardware))
	for i, line := range source.Hardware {
		line.ID = 0
		dup.Hardware[i] = line
	}
	if source.Print != nil {
		setup := *source.Print
		dup.Print = &setup
	}
	if source.Labour != nil {
		labour := *source.Labour
		dup.Labour = &labour
	}

	return s.Create(dup)
}

// List returns all quote headers, newest first, optionally filtered by a
// search over title, customer name and notes. Children are not loaded.
func (s *Store) List(query string) ([]Quote, error) {
	search := "%" + query + "%"
	rows, err := s.db.Query(`
		SELECT id, quote_number, COALESCE(title, ''), customer_name, quote_date, COALESCE(notes, ''),
			markup_percent, discount_percent, quantity, total_cost, is_quick_quote, created_at, updated_at
		FROM quotes
		WHERE (? = '' OR COALESCE(title, '') LIKE ? OR customer_name LIKE ? OR COALESCE(notes, '') LIKE ?)
		ORDER BY datetime(created_at) DESC, id DESC
	`, query, search, search, search)
	if err != nil {
		return nil, domain.NewStorageError("query quotes", err)
	}
	defer rows.Close()

	list := make([]Quote, 0)
	for rows.Next() {
		var q Quote
		if err := rows.Scan(&q.ID, &q.QuoteNumber, &q.Title, &q.CustomerName, &q.Date, &q.Notes,
			&q.MarkupPercent, &q.DiscountPercent, &q.Quantity, &q.TotalCost, &q.IsQuickQuote,
			&q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, domain.NewStorageError("scan quote", err)
		}
		list = append(list, q)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("iterate quotes", err)
	}
	return list, nil
}
