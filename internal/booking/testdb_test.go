package booking

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/iliyamo/festival-booth-reservation/internal/model"
	"github.com/iliyamo/festival-booth-reservation/internal/repository"
)

// testSchema mirrors scripts/schema.sql in SQLite dialect.  The unique
// index on (festival_id, col_idx, row_idx) must match production since
// the placement guard depends on it.
const testSchema = `
CREATE TABLE festivals (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    name        TEXT NOT NULL,
    description TEXT,
    grid_width  INTEGER NOT NULL,
    grid_height INTEGER NOT NULL,
    capacity    INTEGER NOT NULL,
    created_at  TEXT NOT NULL,
    updated_at  TEXT NOT NULL
);

CREATE TABLE booths (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    festival_id INTEGER NOT NULL,
    name        TEXT NOT NULL,
    area_sqdm   INTEGER NOT NULL,
    price_cents INTEGER NOT NULL,
    description TEXT,
    sellable    INTEGER NOT NULL,
    labeled     INTEGER NOT NULL,
    status      TEXT NOT NULL,
    col_idx     INTEGER NOT NULL,
    row_idx     INTEGER NOT NULL,
    created_at  TEXT NOT NULL,
    updated_at  TEXT NOT NULL,
    UNIQUE (festival_id, col_idx, row_idx)
);

CREATE TABLE reservations (
    id                 INTEGER PRIMARY KEY AUTOINCREMENT,
    booth_id           INTEGER NOT NULL,
    user_id            INTEGER NOT NULL,
    first_name         TEXT NOT NULL,
    last_name          TEXT NOT NULL,
    national_code      TEXT NOT NULL,
    phone              TEXT NOT NULL,
    email              TEXT,
    address            TEXT NOT NULL,
    company_name       TEXT,
    company_reg_number TEXT,
    activity_type      TEXT,
    receipt_ref        TEXT NOT NULL,
    description        TEXT,
    state              TEXT NOT NULL,
    created_at         TEXT NOT NULL,
    decided_at         TEXT
);
`

// newTestEngine builds an Engine on a fresh in-memory SQLite database.
// The pool is capped at one connection so transactions opened from
// concurrent goroutines queue deterministically instead of hitting
// SQLITE_BUSY.
func newTestEngine(t *testing.T) (*Engine, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	if _, err := db.Exec(testSchema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	eng := New(db,
		repository.NewFestivalRepo(db),
		repository.NewBoothRepo(db),
		repository.NewReservationRepo(db))
	return eng, db
}

func mustFestival(t *testing.T, e *Engine, width, height uint32) *model.Festival {
	t.Helper()
	f, err := e.CreateFestival(context.Background(), "spring fair", nil, width, height, width*height)
	if err != nil {
		t.Fatalf("CreateFestival: %v", err)
	}
	return f
}

func mustBooth(t *testing.T, e *Engine, festivalID uint64, col, row uint32) *model.Booth {
	t.Helper()
	b, err := e.PlaceBooth(context.Background(), festivalID, PlaceBoothInput{
		Name:       "booth",
		AreaSqdm:   900,
		PriceCents: 250000,
		Sellable:   true,
		Col:        col,
		Row:        row,
	})
	if err != nil {
		t.Fatalf("PlaceBooth (%d,%d): %v", col, row, err)
	}
	return b
}

func testDetails() model.ReservationDetails {
	return model.ReservationDetails{
		FirstName:    "Sara",
		LastName:     "Moradi",
		NationalCode: "0012345678",
		Phone:        "+989121234567",
		Address:      "Tehran, Valiasr St.",
		ReceiptRef:   "TRK-4821",
	}
}

func boothStatus(t *testing.T, db *sql.DB, id uint64) model.BoothStatus {
	t.Helper()
	var s string
	if err := db.QueryRow(`SELECT status FROM booths WHERE id = ?`, id).Scan(&s); err != nil {
		t.Fatalf("read booth status: %v", err)
	}
	return model.BoothStatus(s)
}
