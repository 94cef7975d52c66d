package repository // repository defines data access for booths

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"errors"       // errors for sentinel definitions
	"time"

	"github.com/iliyamo/festival-booth-reservation/internal/model"
)

// ErrBoothNotFound is returned when a booth lookup yields no rows.
var ErrBoothNotFound = errors.New("booth not found")

// ErrPositionTaken is returned when an insert or move would land on a
// grid cell that another booth of the same festival already occupies.
// The `(festival_id, col_idx, row_idx)` unique index backs this check,
// so two concurrent placements on the same cell cannot both succeed.
var ErrPositionTaken = errors.New("position already occupied")

// BoothRepo provides methods to work with booths in the database.
type BoothRepo struct {
	db *sql.DB
}

// NewBoothRepo constructs a BoothRepo with the given DB handle.
func NewBoothRepo(db *sql.DB) *BoothRepo {
	return &BoothRepo{db: db}
}

const boothColumns = `id, festival_id, name, area_sqdm, price_cents, description, sellable, labeled, status, col_idx, row_idx, created_at, updated_at`

func scanBooth(row interface{ Scan(...interface{}) error }) (*model.Booth, error) {
	var (
		b       model.Booth
		desc    sql.NullString
		status  string
		created string
		updated string
	)
	err := row.Scan(&b.ID, &b.FestivalID, &b.Name, &b.AreaSqdm, &b.PriceCents, &desc,
		&b.Sellable, &b.Labeled, &status, &b.Col, &b.Row, &created, &updated)
	if err != nil {
		return nil, err
	}
	if desc.Valid {
		d := desc.String
		b.Description = &d
	}
	b.Status = model.BoothStatus(status)
	b.CreatedAt = parseDBTime(created)
	b.UpdatedAt = parseDBTime(updated)
	return &b, nil
}

// CreateTx inserts a booth within the provided transaction.  The grid
// bounds must have been validated by the caller; positional uniqueness
// is enforced here via the unique index, surfacing as ErrPositionTaken.
// On success the booth's ID and timestamps are populated.
func (r *BoothRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booth) error {
	now := formatDBTime(time.Now())
	const q = `INSERT INTO booths (festival_id, name, area_sqdm, price_cents, description, sellable, labeled, status, col_idx, row_idx, created_at, updated_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, b.FestivalID, b.Name, b.AreaSqdm, b.PriceCents, b.Description,
		b.Sellable, b.Labeled, string(b.Status), b.Col, b.Row, now, now)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrPositionTaken
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	b.CreatedAt = parseDBTime(now)
	b.UpdatedAt = b.CreatedAt
	return nil
}

// GetByID retrieves a booth by its id.
func (r *BoothRepo) GetByID(ctx context.Context, id uint64) (*model.Booth, error) {
	const q = `SELECT ` + boothColumns + ` FROM booths WHERE id = ?`
	b, err := scanBooth(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBoothNotFound
		}
		return nil, err
	}
	return b, nil
}

// GetByIDTx retrieves a booth inside an existing transaction.  The
// booking engine reads booth state through this method so that the
// subsequent guarded status update observes the same row.
func (r *BoothRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Booth, error) {
	const q = `SELECT ` + boothColumns + ` FROM booths WHERE id = ?`
	b, err := scanBooth(tx.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBoothNotFound
		}
		return nil, err
	}
	return b, nil
}

// GetByPosition returns the booth occupying (col, row) in the given
// festival, or ErrBoothNotFound when the cell is empty.
func (r *BoothRepo) GetByPosition(ctx context.Context, festivalID uint64, col, row uint32) (*model.Booth, error) {
	const q = `SELECT ` + boothColumns + ` FROM booths WHERE festival_id = ? AND col_idx = ? AND row_idx = ?`
	b, err := scanBooth(r.db.QueryRowContext(ctx, q, festivalID, col, row))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBoothNotFound
		}
		return nil, err
	}
	return b, nil
}

// ListByFestival retrieves all booths of a festival ordered by their
// grid position (row-major) for deterministic output.
func (r *BoothRepo) ListByFestival(ctx context.Context, festivalID uint64) ([]model.Booth, error) {
	const q = `SELECT ` + boothColumns + ` FROM booths
	           WHERE festival_id = ?
	           ORDER BY row_idx, col_idx`
	return r.queryBooths(ctx, q, festivalID)
}

// ListByFestivalTx is ListByFestival inside an open transaction, used
// when the booth list must be consistent with sibling reads.
func (r *BoothRepo) ListByFestivalTx(ctx context.Context, tx *sql.Tx, festivalID uint64) ([]model.Booth, error) {
	const q = `SELECT ` + boothColumns + ` FROM booths
	           WHERE festival_id = ?
	           ORDER BY row_idx, col_idx`
	rows, err := tx.QueryContext(ctx, q, festivalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Booth, 0)
	for rows.Next() {
		b, err := scanBooth(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAvailable retrieves the booths of a festival that can currently
// accept a reservation request: status FREE and the sellable gate set.
func (r *BoothRepo) ListAvailable(ctx context.Context, festivalID uint64) ([]model.Booth, error) {
	const q = `SELECT ` + boothColumns + ` FROM booths
	           WHERE festival_id = ? AND status = ? AND sellable = ?
	           ORDER BY row_idx, col_idx`
	return r.queryBooths(ctx, q, festivalID, string(model.BoothFree), true)
}

func (r *BoothRepo) queryBooths(ctx context.Context, q string, args ...interface{}) ([]model.Booth, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Booth, 0)
	for rows.Next() {
		b, err := scanBooth(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateMeta updates the booth's descriptive fields (name, area, price,
// description, labeled flag).  Status, position and the sellable gate
// have dedicated guarded operations.  Returns sql.ErrNoRows when the
// booth does not exist.
func (r *BoothRepo) UpdateMeta(ctx context.Context, b *model.Booth) error {
	const q = `UPDATE booths
	           SET name = ?, area_sqdm = ?, price_cents = ?, description = ?, labeled = ?, updated_at = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, b.Name, b.AreaSqdm, b.PriceCents, b.Description, b.Labeled,
		formatDBTime(time.Now()), b.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// MoveTx relocates a booth to a new cell inside the provided
// transaction.  The unique position index turns a clash with another
// booth into ErrPositionTaken.  Returns sql.ErrNoRows when the booth
// does not exist.
func (r *BoothRepo) MoveTx(ctx context.Context, tx *sql.Tx, id uint64, col, row uint32) error {
	const q = `UPDATE booths SET col_idx = ?, row_idx = ?, updated_at = ? WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, col, row, formatDBTime(time.Now()), id)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrPositionTaken
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateStatusGuardedTx transitions the booth's status from `from` to
// `to` and reports whether the row actually changed.  A false return
// with a nil error means another transaction won the race: the booth
// was no longer in the expected `from` status.  This compare-and-swap
// is the serialization point for every booking mutation.
func (r *BoothRepo) UpdateStatusGuardedTx(ctx context.Context, tx *sql.Tx, id uint64, from, to model.BoothStatus) (bool, error) {
	const q = `UPDATE booths SET status = ?, updated_at = ? WHERE id = ? AND status = ?`
	res, err := tx.ExecContext(ctx, q, string(to), formatDBTime(time.Now()), id, string(from))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// SetSellableTx flips the sellable gate inside a transaction.
func (r *BoothRepo) SetSellableTx(ctx context.Context, tx *sql.Tx, id uint64, sellable bool) error {
	const q = `UPDATE booths SET sellable = ?, updated_at = ? WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, sellable, formatDBTime(time.Now()), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteTx removes a booth row inside a transaction.  The booking
// engine checks for active reservations before calling this.
func (r *BoothRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM booths WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteByFestivalTx removes all booths of a festival.  Used by the
// festival cascade after its reservations have been removed.
func (r *BoothRepo) DeleteByFestivalTx(ctx context.Context, tx *sql.Tx, festivalID uint64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM booths WHERE festival_id = ?`, festivalID)
	return err
}
