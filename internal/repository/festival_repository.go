package repository // repository holds data access logic for domain entities

import (
	"context"      // context is used to manage deadlines and cancellation
	"database/sql" // sql provides DB primitives
	"errors"       // errors package allows sentinel error definitions
	"time"

	"github.com/iliyamo/festival-booth-reservation/internal/model"
)

// ErrFestivalNotFound is returned when a festival lookup fails.
var ErrFestivalNotFound = errors.New("festival not found")

// FestivalRepo provides methods to create and retrieve festivals.  It
// embeds a database handle to perform queries and commands.
type FestivalRepo struct {
	db *sql.DB // db is the underlying database connection
}

// NewFestivalRepo constructs a FestivalRepo with the given DB handle.
func NewFestivalRepo(db *sql.DB) *FestivalRepo {
	return &FestivalRepo{db: db}
}

const festivalColumns = `id, name, description, grid_width, grid_height, capacity, created_at, updated_at`

func scanFestival(row interface{ Scan(...interface{}) error }) (*model.Festival, error) {
	var (
		f       model.Festival
		desc    sql.NullString
		created string
		updated string
	)
	err := row.Scan(&f.ID, &f.Name, &desc, &f.Grid.Width, &f.Grid.Height, &f.Grid.Capacity, &created, &updated)
	if err != nil {
		return nil, err
	}
	if desc.Valid {
		d := desc.String
		f.Description = &d
	}
	f.CreatedAt = parseDBTime(created)
	f.UpdatedAt = parseDBTime(updated)
	return &f, nil
}

// Create inserts a new festival.  The grid must already have been
// validated with model.NewGrid; this method persists it as-is.  On
// success the festival's ID and timestamps are populated.
func (r *FestivalRepo) Create(ctx context.Context, f *model.Festival) error {
	now := formatDBTime(time.Now())
	const q = `INSERT INTO festivals (name, description, grid_width, grid_height, capacity, created_at, updated_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, f.Name, f.Description, f.Grid.Width, f.Grid.Height, f.Grid.Capacity, now, now)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	f.CreatedAt = parseDBTime(now)
	f.UpdatedAt = f.CreatedAt
	return nil
}

// GetByID retrieves a festival by its ID.  It returns
// ErrFestivalNotFound when no row is found.
func (r *FestivalRepo) GetByID(ctx context.Context, id uint64) (*model.Festival, error) {
	const q = `SELECT ` + festivalColumns + ` FROM festivals WHERE id = ?`
	f, err := scanFestival(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFestivalNotFound
		}
		return nil, err
	}
	return f, nil
}

// GetByIDTx is the transactional variant of GetByID, used by the
// booking engine when the festival row must be read inside an existing
// transaction.
func (r *FestivalRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Festival, error) {
	const q = `SELECT ` + festivalColumns + ` FROM festivals WHERE id = ?`
	f, err := scanFestival(tx.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFestivalNotFound
		}
		return nil, err
	}
	return f, nil
}

// ListAll returns every festival ordered by id.
func (r *FestivalRepo) ListAll(ctx context.Context) ([]model.Festival, error) {
	const q = `SELECT ` + festivalColumns + ` FROM festivals ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Festival, 0)
	for rows.Next() {
		f, err := scanFestival(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateMeta updates the festival's name and description.  The grid is
// immutable after creation, so width/height/capacity are deliberately
// not touched here.  Returns sql.ErrNoRows when the festival does not
// exist.
func (r *FestivalRepo) UpdateMeta(ctx context.Context, id uint64, name string, description *string) error {
	const q = `UPDATE festivals SET name = ?, description = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, name, description, formatDBTime(time.Now()), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteTx removes the festival row itself.  Dependent booths and
// reservations must have been removed beforehand inside the same
// transaction; the booking engine owns that ordering.
func (r *FestivalRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM festivals WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
