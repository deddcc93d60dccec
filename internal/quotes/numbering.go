package quotes

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/threedq/threedq/internal/settings"
)

const defaultQuotePrefix = "3DQ"

// NextQuoteNumber advances the global quote counter and formats the next
// human-readable quote number, e.g. "3DQ0007". Read, increment and write
// all run on the caller's transaction so two quotes can never be issued
// the same number.
func NextQuoteNumber(tx *sql.Tx) (string, int64, error) {
	prefix := defaultQuotePrefix
	err := tx.QueryRow(`SELECT value FROM settings WHERE key = ?`, settings.KeyQuotePrefix).Scan(&prefix)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", 0, fmt.Errorf("query quote prefix: %w", err)
	}

	var counter int64
	err = tx.QueryRow(`SELECT CAST(value AS INTEGER) FROM settings WHERE key = ?`, settings.KeyQuoteCounter).Scan(&counter)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", 0, fmt.Errorf("query quote counter: %w", err)
	}

	counter++
	if _, err := tx.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, settings.KeyQuoteCounter, fmt.Sprintf("%d", counter)); err != nil {
		return "", 0, fmt.Errorf("advance quote counter: %w", err)
	}

	return fmt.Sprintf("%s%04d", prefix, counter), counter, nil
}
