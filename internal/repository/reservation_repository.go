package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/festival-booth-reservation/internal/model"
)

// ErrReservationNotFound is returned when a reservation lookup yields
// no rows.
var ErrReservationNotFound = errors.New("reservation not found")

// ReservationRepo provides access to the reservations ledger.
// Reservations record an exhibitor's claim on a booth together with the
// submitted contact and payment details.  Rows are kept as audit
// history; state changes always flow through guarded updates driven by
// the booking engine.  All timestamps are stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `id, booth_id, user_id, first_name, last_name, national_code, phone, email, address,
	company_name, company_reg_number, activity_type, receipt_ref, description, state, created_at, decided_at`

func scanReservation(row interface{ Scan(...interface{}) error }) (*model.Reservation, error) {
	var (
		res     model.Reservation
		email   sql.NullString
		company sql.NullString
		regNum  sql.NullString
		actType sql.NullString
		desc    sql.NullString
		state   string
		created string
		decided sql.NullString
	)
	err := row.Scan(&res.ID, &res.BoothID, &res.UserID,
		&res.Details.FirstName, &res.Details.LastName, &res.Details.NationalCode,
		&res.Details.Phone, &email, &res.Details.Address,
		&company, &regNum, &actType, &res.Details.ReceiptRef, &desc,
		&state, &created, &decided)
	if err != nil {
		return nil, err
	}
	if email.Valid {
		v := email.String
		res.Details.Email = &v
	}
	if company.Valid {
		v := company.String
		res.Details.CompanyName = &v
	}
	if regNum.Valid {
		v := regNum.String
		res.Details.CompanyRegNumber = &v
	}
	if actType.Valid {
		v := actType.String
		res.Details.ActivityType = &v
	}
	if desc.Valid {
		v := desc.String
		res.Details.Description = &v
	}
	res.State = model.ReservationState(state)
	res.CreatedAt = parseDBTime(created)
	if decided.Valid && decided.String != "" {
		t := parseDBTime(decided.String)
		res.DecidedAt = &t
	}
	return &res, nil
}

// CreateTx inserts a new reservation within the scope of an existing
// transaction.  The initial state must be PENDING; created_at is set
// here so both database backends behave identically.  It populates the
// generated ID on the provided record.  The caller must commit or
// rollback the transaction.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	now := formatDBTime(time.Now())
	const q = `INSERT INTO reservations
	           (booth_id, user_id, first_name, last_name, national_code, phone, email, address,
	            company_name, company_reg_number, activity_type, receipt_ref, description, state, created_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	d := res.Details
	result, err := tx.ExecContext(ctx, q, res.BoothID, res.UserID,
		d.FirstName, d.LastName, d.NationalCode, d.Phone, d.Email, d.Address,
		d.CompanyName, d.CompanyRegNumber, d.ActivityType, d.ReceiptRef, d.Description,
		string(res.State), now)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	res.CreatedAt = parseDBTime(now)
	return nil
}

// GetByID returns a single reservation by id.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	res, err := scanReservation(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return res, nil
}

// GetByIDTx is the transactional variant of GetByID.
func (r *ReservationRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	res, err := scanReservation(tx.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return res, nil
}

// ActiveForBoothTx returns the single reservation in an active state
// (PENDING or APPROVED) for the booth, or nil when none exists.  The
// "at most one active reservation per booth" invariant means this query
// can never legitimately match more than one row.
func (r *ReservationRepo) ActiveForBoothTx(ctx context.Context, tx *sql.Tx, boothID uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations
	           WHERE booth_id = ? AND state IN (?, ?) LIMIT 1`
	res, err := scanReservation(tx.QueryRowContext(ctx, q, boothID,
		string(model.ReservationPending), string(model.ReservationApproved)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return res, nil
}

// ActiveForBooth is the non-transactional variant used by read-only
// endpoints such as the admin reservation-info view.
func (r *ReservationRepo) ActiveForBooth(ctx context.Context, boothID uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations
	           WHERE booth_id = ? AND state IN (?, ?) LIMIT 1`
	res, err := scanReservation(r.db.QueryRowContext(ctx, q, boothID,
		string(model.ReservationPending), string(model.ReservationApproved)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return res, nil
}

// HasActiveForUserBoothTx reports whether the user already holds an
// active reservation on the booth.  Used for the duplicate-request
// check inside the reserve transaction.
func (r *ReservationRepo) HasActiveForUserBoothTx(ctx context.Context, tx *sql.Tx, userID, boothID uint64) (bool, error) {
	const q = `SELECT COUNT(*) FROM reservations
	           WHERE user_id = ? AND booth_id = ? AND state IN (?, ?)`
	var n int
	err := tx.QueryRowContext(ctx, q, userID, boothID,
		string(model.ReservationPending), string(model.ReservationApproved)).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CountActiveByFestivalTx counts the active reservations across all
// booths of a festival.  Gate check for festival deletion.
func (r *ReservationRepo) CountActiveByFestivalTx(ctx context.Context, tx *sql.Tx, festivalID uint64) (int, error) {
	const q = `SELECT COUNT(*) FROM reservations
	           WHERE state IN (?, ?)
	             AND booth_id IN (SELECT id FROM booths WHERE festival_id = ?)`
	var n int
	err := tx.QueryRowContext(ctx, q,
		string(model.ReservationPending), string(model.ReservationApproved), festivalID).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// UpdateStateGuardedTx transitions a reservation from `from` to `to`
// and reports whether the row actually changed.  When decide is true
// the decided_at column is stamped, but only if it has never been set:
// decided_at records the first approval and survives later
// cancellation.
func (r *ReservationRepo) UpdateStateGuardedTx(ctx context.Context, tx *sql.Tx, id uint64, from, to model.ReservationState, decide bool) (bool, error) {
	var (
		res sql.Result
		err error
	)
	if decide {
		const q = `UPDATE reservations SET state = ?,
		           decided_at = COALESCE(decided_at, ?)
		           WHERE id = ? AND state = ?`
		res, err = tx.ExecContext(ctx, q, string(to), formatDBTime(time.Now()), id, string(from))
	} else {
		const q = `UPDATE reservations SET state = ? WHERE id = ? AND state = ?`
		res, err = tx.ExecContext(ctx, q, string(to), id, string(from))
	}
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ReservationDetail couples a reservation with booth and festival
// display fields for list and detail responses.
type ReservationDetail struct {
	Reservation  model.Reservation `json:"reservation"`
	BoothName    string            `json:"booth_name"`
	FestivalID   uint64            `json:"festival_id"`
	FestivalName string            `json:"festival_name"`
}

// ListByUser returns all reservations created by the given user along
// with booth and festival names, newest first.  When no reservations
// exist an empty slice is returned.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]ReservationDetail, error) {
	const q = `SELECT ` + reservationColumnsPrefixed + `, b.name, f.id, f.name
	           FROM reservations r
	           JOIN booths b ON b.id = r.booth_id
	           JOIN festivals f ON f.id = b.festival_id
	           WHERE r.user_id = ?
	           ORDER BY r.created_at DESC, r.id DESC`
	return r.queryDetails(ctx, q, userID)
}

// ListByFestival returns every reservation that targets a booth of the
// given festival, newest first.  Used by the admin overview.
func (r *ReservationRepo) ListByFestival(ctx context.Context, festivalID uint64) ([]ReservationDetail, error) {
	const q = `SELECT ` + reservationColumnsPrefixed + `, b.name, f.id, f.name
	           FROM reservations r
	           JOIN booths b ON b.id = r.booth_id
	           JOIN festivals f ON f.id = b.festival_id
	           WHERE f.id = ?
	           ORDER BY r.created_at DESC, r.id DESC`
	return r.queryDetails(ctx, q, festivalID)
}

const reservationColumnsPrefixed = `r.id, r.booth_id, r.user_id, r.first_name, r.last_name, r.national_code,
	r.phone, r.email, r.address, r.company_name, r.company_reg_number, r.activity_type,
	r.receipt_ref, r.description, r.state, r.created_at, r.decided_at`

func (r *ReservationRepo) queryDetails(ctx context.Context, q string, args ...interface{}) ([]ReservationDetail, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]ReservationDetail, 0)
	for rows.Next() {
		var (
			res     model.Reservation
			email   sql.NullString
			company sql.NullString
			regNum  sql.NullString
			actType sql.NullString
			desc    sql.NullString
			state   string
			created string
			decided sql.NullString
			det     ReservationDetail
		)
		err := rows.Scan(&res.ID, &res.BoothID, &res.UserID,
			&res.Details.FirstName, &res.Details.LastName, &res.Details.NationalCode,
			&res.Details.Phone, &email, &res.Details.Address,
			&company, &regNum, &actType, &res.Details.ReceiptRef, &desc,
			&state, &created, &decided,
			&det.BoothName, &det.FestivalID, &det.FestivalName)
		if err != nil {
			return nil, err
		}
		if email.Valid {
			v := email.String
			res.Details.Email = &v
		}
		if company.Valid {
			v := company.String
			res.Details.CompanyName = &v
		}
		if regNum.Valid {
			v := regNum.String
			res.Details.CompanyRegNumber = &v
		}
		if actType.Valid {
			v := actType.String
			res.Details.ActivityType = &v
		}
		if desc.Valid {
			v := desc.String
			res.Details.Description = &v
		}
		res.State = model.ReservationState(state)
		res.CreatedAt = parseDBTime(created)
		if decided.Valid && decided.String != "" {
			t := parseDBTime(decided.String)
			res.DecidedAt = &t
		}
		det.Reservation = res
		details = append(details, det)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// DeleteByFestivalTx removes every reservation whose booth belongs to
// the festival, as part of the festival cascade.
func (r *ReservationRepo) DeleteByFestivalTx(ctx context.Context, tx *sql.Tx, festivalID uint64) error {
	const q = `DELETE FROM reservations WHERE booth_id IN (SELECT id FROM booths WHERE festival_id = ?)`
	_, err := tx.ExecContext(ctx, q, festivalID)
	return err
}
