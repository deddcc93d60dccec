// Package settings persists operator-tunable values in a key/value
// table: currency, electricity cost, default labour rate, tax rate and
// the quote numbering state.
package settings

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

// Well-known settings keys.
const (
	KeyCurrency          = "currency"
	KeyElectricityPerKWh = "electricity_cost_per_kwh"
	KeyLabourRate        = "labour_rate_per_hour"
	KeyTaxRate           = "tax_rate"
	KeyQuotePrefix       = "quote_prefix"
	KeyQuoteCounter      = "quote_counter"
)

// Store reads and writes the settings table.
type Store struct {
	db *sql.DB
}

// NewStore creates a settings store over db.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Get returns the value for key, or fallback when the key is absent.
func (s *Store) Get(key, fallback string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return fallback, nil
	}
	if err != nil {
		return "", fmt.Errorf("query setting %s: %w", key, err)
	}
	return value, nil
}

// GetFloat returns the value for key parsed as float64, or fallback when
// the key is absent or not numeric.
func (s *Store) GetFloat(key string, fallback float64) (float64, error) {
	raw, err := s.Get(key, "")
	if err != nil {
		return 0, err
	}
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback, nil
	}
	return value, nil
}

// Set upserts key to value.
func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return fmt.Errorf("upsert setting %s: %w", key, err)
	}
	return nil
}

// SetFloat upserts key to a float value.
func (s *Store) SetFloat(key string, value float64) error {
	return s.Set(key, strconv.FormatFloat(value, 'f', -1, 64))
}

// All returns every settings row as a map.
func (s *Store) All() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("query settings: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		values[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate settings: %w", err)
	}
	return values, nil
}

// PricingDefaults bundles the settings the pricing preview applies when
// a quote does not override them.
type PricingDefaults struct {
	Currency          string
	ElectricityPerKWh float64
	LabourRatePerHour float64
	TaxRatePercent    float64
}

// Pricing returns the pricing-relevant settings with sane fallbacks.
func (s *Store) Pricing() (PricingDefaults, error) {
	currency, err := s.Get(KeyCurrency, "EUR")
	if err != nil {
		return PricingDefaults{}, err
	}
	electricity, err := s.GetFloat(KeyElectricityPerKWh, 0)
	if err != nil {
		return PricingDefaults{}, err
	}
	labourRate, err := s.GetFloat(KeyLabourRate, 0)
	if err != nil {
		return PricingDefaults{}, err
	}
	taxRate, err := s.GetFloat(KeyTaxRate, 0)
	if err != nil {
		return PricingDefaults{}, err
	}

	return PricingDefaults{
		Currency:          currency,
		ElectricityPerKWh: electricity,
		LabourRatePerHour: labourRate,
		TaxRatePercent:    taxRate,
	}, nil
}
