package settings

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/threedq/threedq/internal/migrations"
)

func newSettingsTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	db.SetMaxOpenConns(1)

	if err := migrations.Up(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

func TestGetFallsBackWhenAbsent(t *testing.T) {
	store := NewStore(newSettingsTestDB(t))

	value, err := store.Get(KeyCurrency, "EUR")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if value != "EUR" {
		t.Fatalf("expected fallback EUR, got %q", value)
	}
}

func TestSetThenGetRoundTrip(t *testing.T) {
	store := NewStore(newSettingsTestDB(t))

	if err := store.Set(KeyCurrency, "COP"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := store.Set(KeyCurrency, "USD"); err != nil {
		t.Fatalf("second Set returned error: %v", err)
	}

	value, err := store.Get(KeyCurrency, "")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if value != "USD" {
		t.Fatalf("expected upserted USD, got %q", value)
	}
}

func TestGetFloatParsesAndFallsBack(t *testing.T) {
	store := NewStore(newSettingsTestDB(t))

	if err := store.SetFloat(KeyElectricityPerKWh, 0.2166); err != nil {
		t.Fatalf("SetFloat returned error: %v", err)
	}

	value, err := store.GetFloat(KeyElectricityPerKWh, 0)
	if err != nil {
		t.Fatalf("GetFloat returned error: %v", err)
	}
	if value != 0.2166 {
		t.Fatalf("expected 0.2166, got %v", value)
	}

	if err := store.Set(KeyTaxRate, "not-a-number"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	fallback, err := store.GetFloat(KeyTaxRate, 19)
	if err != nil {
		t.Fatalf("GetFloat returned error: %v", err)
	}
	if fallback != 19 {
		t.Fatalf("expected fallback 19 for malformed value, got %v", fallback)
	}
}

func TestPricingDefaults(t *testing.T) {
	store := NewStore(newSettingsTestDB(t))

	if err := store.SetFloat(KeyLabourRate, 13); err != nil {
		t.Fatalf("SetFloat returned error: %v", err)
	}
	if err := store.SetFloat(KeyTaxRate, 19); err != nil {
		t.Fatalf("SetFloat returned error: %v", err)
	}

	defaults, err := store.Pricing()
	if err != nil {
		t.Fatalf("Pricing returned error: %v", err)
	}
	if defaults.LabourRatePerHour != 13 || defaults.TaxRatePercent != 19 {
		t.Fatalf("unexpected pricing defaults: %+v", defaults)
	}
	if defaults.Currency != "EUR" {
		t.Fatalf("expected fallback currency EUR, got %q", defaults.Currency)
	}
}
