// Package seed inserts the reference data a fresh installation needs:
// default settings, one filament and one printer. It runs on every
// start and is idempotent.
package seed

import (
	"database/sql"
	"fmt"

	"github.com/threedq/threedq/internal/settings"
)

const (
	defaultFilamentName = "PLA (Generic)"
	defaultPrinterName  = "Generic FDM Printer"
)

// Config contains the values required by the startup seed.
type Config struct {
	QuotePrefix string
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

// Run executes the startup seed inside a single transaction.
func Run(db *sql.DB, cfg Config) (Stats, error) {
	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	if err := ensureSettings(tx, cfg, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := ensureFilament(tx, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := ensurePrinter(tx, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureSettings(tx *sql.Tx, cfg Config, stats *Stats) error {
	prefix := cfg.QuotePrefix
	if prefix == "" {
		prefix = "3DQ"
	}

	defaults := map[string]string{
		settings.KeyCurrency:          "EUR",
		settings.KeyElectricityPerKWh: "0.2166",
		settings.KeyLabourRate:        "13",
		settings.KeyTaxRate:           "0",
		settings.KeyQuotePrefix:       prefix,
		settings.KeyQuoteCounter:      "0",
	}

	for key, value := range defaults {
		result, err := tx.Exec(`
			INSERT INTO settings (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO NOTHING
		`, key, value)
		if err != nil {
			return fmt.Errorf("insert default setting %s: %w", key, err)
		}
		if affected, err := result.RowsAffected(); err == nil && affected > 0 {
			stats.Inserts++
		}
	}
	return nil
}

func ensureFilament(tx *sql.Tx, stats *Stats) error {
	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM filaments WHERE name = ? LIMIT 1)`, defaultFilamentName).Scan(&exists); err != nil {
		return fmt.Errorf("check default filament existence: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := tx.Exec(`
		INSERT INTO filaments (name, material_type, diameter, spool_weight, spool_price, price_per_kg, color)
		VALUES (?, 'PLA', 1.75, 1000, 0, 0, '')
	`, defaultFilamentName); err != nil {
		return fmt.Errorf("insert default filament: %w", err)
	}
	stats.Inserts++
	return nil
}

func ensurePrinter(tx *sql.Tx, stats *Stats) error {
	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM printers WHERE name = ? LIMIT 1)`, defaultPrinterName).Scan(&exists); err != nil {
		return fmt.Errorf("check default printer existence: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := tx.Exec(`
		INSERT INTO printers (name, material_diameter, price, depreciation_time, service_cost, power_usage, depreciation_per_hour)
		VALUES (?, 1.75, 0, 0, 0, 0, 0)
	`, defaultPrinterName); err != nil {
		return fmt.Errorf("insert default printer: %w", err)
	}
	stats.Inserts++
	return nil
}
