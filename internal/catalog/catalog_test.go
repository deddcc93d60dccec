package catalog

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/threedq/threedq/internal/domain"
	"github.com/threedq/threedq/internal/migrations"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err, "open sqlite db")
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`PRAGMA foreign_keys = ON`)
	require.NoError(t, err, "enable foreign keys")

	require.NoError(t, migrations.Up(db), "run migrations")

	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestCreateFilamentDerivesPricePerKg(t *testing.T) {
	store := NewStore(newTestDB(t))

	created, err := store.CreateFilament(Filament{
		Name:         "PLA Silver",
		MaterialType: "PLA",
		Diameter:     1.75,
		SpoolWeight:  1000,
		SpoolPrice:   17.49,
		Color:        "silver",
	})
	require.NoError(t, err)
	assert.InDelta(t, 17.49, created.PricePerKg, 1e-9)
	assert.Equal(t, StatusActive, created.Status)
	assert.InDelta(t, 0.01749, created.PricePerGram(), 1e-9)

	halfSpool, err := store.CreateFilament(Filament{Name: "PETG", SpoolWeight: 500, SpoolPrice: 12})
	require.NoError(t, err)
	assert.InDelta(t, 24, halfSpool.PricePerKg, 1e-9)
}

func TestUpdateFilamentDoesNotTouchQuoteSnapshots(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)

	created, err := store.CreateFilament(Filament{Name: "PLA", SpoolWeight: 1000, SpoolPrice: 20})
	require.NoError(t, err)

	seedQuoteWithFilamentLine(t, db, created.ID, 0.02)

	created.SpoolPrice = 40
	require.NoError(t, store.UpdateFilament(created))

	refreshed, err := store.GetFilament(created.ID)
	require.NoError(t, err)
	assert.InDelta(t, 40, refreshed.PricePerKg, 1e-9)

	var snapshot float64
	err = db.QueryRow(`SELECT price_per_gram FROM quote_filaments WHERE filament_id = ?`, created.ID).Scan(&snapshot)
	require.NoError(t, err)
	assert.InDelta(t, 0.02, snapshot, 1e-9, "quote line snapshot must keep its historical price")
}

func TestCreatePrinterDerivesDepreciationPerHour(t *testing.T) {
	store := NewStore(newTestDB(t))

	created, err := store.CreatePrinter(Printer{
		Name:             "Prusa MK4",
		Price:            250,
		ServiceCost:      30,
		DepreciationTime: 2000,
		PowerUsage:       100,
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.14, created.DepreciationPerHour, 1e-9)
}

func TestValidationErrors(t *testing.T) {
	store := NewStore(newTestDB(t))

	_, err := store.CreateFilament(Filament{SpoolWeight: 1000})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))

	_, err = store.CreateFilament(Filament{Name: "PLA", SpoolWeight: 0})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))

	_, err = store.CreateHardware(Hardware{Name: "Magnet", UnitPrice: -1})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))

	_, err = store.CreatePrinter(Printer{Name: "X1", Price: -5})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestDeleteGuardRejectsReferencedRows(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)

	filament, err := store.CreateFilament(Filament{Name: "PLA", SpoolWeight: 1000, SpoolPrice: 20})
	require.NoError(t, err)

	seedQuoteWithFilamentLine(t, db, filament.ID, 0.02)

	err = store.DeleteFilament(filament.ID)
	require.Error(t, err)
	assert.True(t, domain.IsConflict(err))
	assert.Contains(t, err.Error(), "archive")

	// The row survives the rejected delete.
	kept, err := store.GetFilament(filament.ID)
	require.NoError(t, err)
	assert.Equal(t, filament.ID, kept.ID)

	count, err := store.CountQuoteReferences("filaments", filament.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestDeleteUnreferencedRows(t *testing.T) {
	store := NewStore(newTestDB(t))

	hw, err := store.CreateHardware(Hardware{Name: "Magnet", UnitPrice: 0.4})
	require.NoError(t, err)
	require.NoError(t, store.DeleteHardware(hw.ID))

	err = store.DeleteHardware(hw.ID)
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}

func TestListNewestFirst(t *testing.T) {
	store := NewStore(newTestDB(t))

	for _, name := range []string{"PLA", "PETG", "ASA"} {
		_, err := store.CreateFilament(Filament{Name: name, SpoolWeight: 1000, SpoolPrice: 20})
		require.NoError(t, err)
	}

	list, err := store.ListFilaments()
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "ASA", list[0].Name)
	assert.Equal(t, "PLA", list[2].Name)
}

func seedQuoteWithFilamentLine(t *testing.T, db *sql.DB, filamentID int64, pricePerGram float64) {
	t.Helper()

	res, err := db.Exec(`
		INSERT INTO quotes (quote_number, customer_name, quote_date)
		VALUES ('3DQ0001', 'Ada', '2026-08-30')
	`)
	require.NoError(t, err)
	quoteID, _ := res.LastInsertId()

	_, err = db.Exec(`
		INSERT INTO quote_filaments (quote_id, filament_id, filament_name, price_per_gram, grams_used, total_cost)
		VALUES (?, ?, 'PLA', ?, 100, ?)
	`, quoteID, filamentID, pricePerGram, pricePerGram*100)
	require.NoError(t, err)
}
