package seed

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/threedq/threedq/internal/migrations"
	"github.com/threedq/threedq/internal/settings"
)

func newSeedTestDB(t *testing.T) *sql.DB {
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

func TestRunInsertsDefaults(t *testing.T) {
	db := newSeedTestDB(t)

	stats, err := Run(db, Config{QuotePrefix: "3DQ"})
	if err != nil {
		t.Fatalf("seed returned error: %v", err)
	}
	if stats.Inserts == 0 {
		t.Fatal("expected inserts on a fresh database")
	}

	store := settings.NewStore(db)
	prefix, err := store.Get(settings.KeyQuotePrefix, "")
	if err != nil {
		t.Fatalf("read quote prefix: %v", err)
	}
	if prefix != "3DQ" {
		t.Fatalf("unexpected quote prefix: %q", prefix)
	}

	var filaments, printers int64
	if err := db.QueryRow(`SELECT COUNT(*) FROM filaments`).Scan(&filaments); err != nil {
		t.Fatalf("count filaments: %v", err)
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM printers`).Scan(&printers); err != nil {
		t.Fatalf("count printers: %v", err)
	}
	if filaments != 1 || printers != 1 {
		t.Fatalf("expected one default filament and printer, got %d/%d", filaments, printers)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	db := newSeedTestDB(t)

	if _, err := Run(db, Config{QuotePrefix: "3DQ"}); err != nil {
		t.Fatalf("first seed returned error: %v", err)
	}

	stats, err := Run(db, Config{QuotePrefix: "3DQ"})
	if err != nil {
		t.Fatalf("second seed returned error: %v", err)
	}
	if stats.Inserts != 0 {
		t.Fatalf("second seed inserted %d rows, expected 0", stats.Inserts)
	}
}

func TestRunDoesNotResetCounter(t *testing.T) {
	db := newSeedTestDB(t)

	if _, err := Run(db, Config{QuotePrefix: "3DQ"}); err != nil {
		t.Fatalf("seed returned error: %v", err)
	}

	store := settings.NewStore(db)
	if err := store.Set(settings.KeyQuoteCounter, "7"); err != nil {
		t.Fatalf("set counter: %v", err)
	}

	if _, err := Run(db, Config{QuotePrefix: "3DQ"}); err != nil {
		t.Fatalf("reseed returned error: %v", err)
	}

	counter, err := store.Get(settings.KeyQuoteCounter, "")
	if err != nil {
		t.Fatalf("read counter: %v", err)
	}
	if counter != "7" {
		t.Fatalf("reseed reset the quote counter to %q", counter)
	}
}
