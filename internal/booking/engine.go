package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/festival-booth-reservation/internal/model"
	"github.com/iliyamo/festival-booth-reservation/internal/repository"
)

// reserveAttempts bounds the transparent retries performed when a
// status guard loses a race.  Transactions are short (no I/O while
// open), so conflicts resolve within one or two retries.
const reserveAttempts = 3

// Actor identifies who is requesting a mutation.  Privileged actors
// (admins) may decide reservations, cancel approved ones and override
// booth sellability; plain actors may only act on their own pending
// reservations.  The authorization decision itself is made by the
// caller (JWT role middleware); the engine only consumes the flag.
type Actor struct {
	UserID     uint64
	Privileged bool
}

// Engine coordinates all cross-entity booking mutations.  It owns the
// derived relationship between booth status and reservation state:
// RESERVED iff exactly one PENDING reservation, CONFIRMED iff exactly
// one APPROVED reservation, otherwise FREE or UNSELLABLE.
type Engine struct {
	db           *sql.DB
	festivals    *repository.FestivalRepo
	booths       *repository.BoothRepo
	reservations *repository.ReservationRepo
}

// New constructs an Engine.  All dependencies must be non-nil.
func New(db *sql.DB, festivals *repository.FestivalRepo, booths *repository.BoothRepo, reservations *repository.ReservationRepo) *Engine {
	if db == nil || festivals == nil || booths == nil || reservations == nil {
		panic("nil dependency passed to booking.New")
	}
	return &Engine{db: db, festivals: festivals, booths: booths, reservations: reservations}
}

// CreateFestival validates the grid dimensions and persists a new
// festival.  Fails with model.ErrInvalidDimension when width or height
// is zero or capacity exceeds the cell count.
func (e *Engine) CreateFestival(ctx context.Context, name string, description *string, width, height, capacity uint32) (*model.Festival, error) {
	grid, err := model.NewGrid(width, height, capacity)
	if err != nil {
		return nil, err
	}
	f := &model.Festival{Name: name, Description: description, Grid: grid}
	if err := e.festivals.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// DeleteFestival removes a festival together with its booths and
// reservation history.  It refuses with repository.ErrConflict while
// any booth of the festival still has an active reservation.
func (e *Engine) DeleteFestival(ctx context.Context, festivalID uint64) error {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := e.festivals.GetByIDTx(ctx, tx, festivalID); err != nil {
		if errors.Is(err, repository.ErrFestivalNotFound) {
			return ErrNotFound
		}
		return err
	}
	active, err := e.reservations.CountActiveByFestivalTx(ctx, tx, festivalID)
	if err != nil {
		return err
	}
	if active > 0 {
		return repository.ErrConflict
	}
	if err := e.reservations.DeleteByFestivalTx(ctx, tx, festivalID); err != nil {
		return err
	}
	if err := e.booths.DeleteByFestivalTx(ctx, tx, festivalID); err != nil {
		return err
	}
	if err := e.festivals.DeleteTx(ctx, tx, festivalID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// PlaceBoothInput carries the booth fields supplied by inventory
// management when placing a new booth on the grid.
type PlaceBoothInput struct {
	Name        string
	AreaSqdm    uint32
	PriceCents  uint64
	Description *string
	Sellable    bool
	Labeled     bool
	Col         uint32
	Row         uint32
}

// PlaceBooth creates a booth at a free cell of the festival grid.  The
// bounds check and the uniqueness-guarded insert run inside one
// transaction, so two concurrent placements on the same cell cannot
// both succeed: the loser fails with ErrPositionOccupied.
func (e *Engine) PlaceBooth(ctx context.Context, festivalID uint64, in PlaceBoothInput) (*model.Booth, error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	booth, err := e.placeBoothTx(ctx, tx, festivalID, in)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return booth, nil
}

// PlaceBooths places several booths in a single all-or-nothing
// transaction.  The first invalid or occupied position aborts the whole
// batch.
func (e *Engine) PlaceBooths(ctx context.Context, festivalID uint64, ins []PlaceBoothInput) ([]model.Booth, error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	out := make([]model.Booth, 0, len(ins))
	for _, in := range ins {
		booth, err := e.placeBoothTx(ctx, tx, festivalID, in)
		if err != nil {
			return nil, fmt.Errorf("position (%d,%d): %w", in.Col, in.Row, err)
		}
		out = append(out, *booth)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return out, nil
}

func (e *Engine) placeBoothTx(ctx context.Context, tx *sql.Tx, festivalID uint64, in PlaceBoothInput) (*model.Booth, error) {
	festival, err := e.festivals.GetByIDTx(ctx, tx, festivalID)
	if err != nil {
		if errors.Is(err, repository.ErrFestivalNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !festival.Grid.Contains(in.Col, in.Row) {
		return nil, ErrPositionOutOfBounds
	}
	booth := &model.Booth{
		FestivalID:  festivalID,
		Name:        in.Name,
		AreaSqdm:    in.AreaSqdm,
		PriceCents:  in.PriceCents,
		Description: in.Description,
		Sellable:    in.Sellable,
		Labeled:     in.Labeled,
		Status:      model.BoothFree,
		Col:         in.Col,
		Row:         in.Row,
	}
	if err := e.booths.CreateTx(ctx, tx, booth); err != nil {
		if errors.Is(err, repository.ErrPositionTaken) {
			return nil, ErrPositionOccupied
		}
		return nil, err
	}
	return booth, nil
}

// MoveBooth relocates a booth to another cell of its festival grid
// under the same bounds and uniqueness guards as PlaceBooth.
func (e *Engine) MoveBooth(ctx context.Context, boothID uint64, col, row uint32) (*model.Booth, error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	booth, err := e.booths.GetByIDTx(ctx, tx, boothID)
	if err != nil {
		if errors.Is(err, repository.ErrBoothNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	festival, err := e.festivals.GetByIDTx(ctx, tx, booth.FestivalID)
	if err != nil {
		return nil, err
	}
	if !festival.Grid.Contains(col, row) {
		return nil, ErrPositionOutOfBounds
	}
	if err := e.booths.MoveTx(ctx, tx, boothID, col, row); err != nil {
		if errors.Is(err, repository.ErrPositionTaken) {
			return nil, ErrPositionOccupied
		}
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	booth.Col, booth.Row = col, row
	return booth, nil
}

// SetUnsellable applies or lifts the UNSELLABLE inventory override.
// Only a FREE booth can be withdrawn from sale and only an UNSELLABLE
// booth can be returned to it; booths with an active reservation fail
// with ErrIllegalTransition.  The operation is idempotent.
func (e *Engine) SetUnsellable(ctx context.Context, boothID uint64, unsellable bool) (*model.Booth, error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	booth, err := e.booths.GetByIDTx(ctx, tx, boothID)
	if err != nil {
		if errors.Is(err, repository.ErrBoothNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	from, to := model.BoothFree, model.BoothUnsellable
	if !unsellable {
		from, to = model.BoothUnsellable, model.BoothFree
	}
	if booth.Status != to {
		ok, err := e.booths.UpdateStatusGuardedTx(ctx, tx, boothID, from, to)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrIllegalTransition
		}
		booth.Status = to
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return booth, nil
}

// SetSellableGate flips the booth's sellable eligibility flag.  The
// gate is independent of the status machine: a gated-off FREE booth
// simply rejects new reservation requests.
func (e *Engine) SetSellableGate(ctx context.Context, boothID uint64, sellable bool) error {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := e.booths.SetSellableTx(ctx, tx, boothID, sellable); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// DeleteBooth removes a booth.  While an active reservation references
// the booth the deletion fails with ErrBoothHasActiveReservation unless
// cascade is set, in which case the reservation is cancelled atomically
// with the delete.  Decided (rejected/cancelled) ledger rows are kept
// as audit history.
func (e *Engine) DeleteBooth(ctx context.Context, boothID uint64, cascade bool) error {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := e.booths.GetByIDTx(ctx, tx, boothID); err != nil {
		if errors.Is(err, repository.ErrBoothNotFound) {
			return ErrNotFound
		}
		return err
	}
	active, err := e.reservations.ActiveForBoothTx(ctx, tx, boothID)
	if err != nil {
		return err
	}
	if active != nil {
		if !cascade {
			return ErrBoothHasActiveReservation
		}
		ok, err := e.reservations.UpdateStateGuardedTx(ctx, tx, active.ID, active.State, model.ReservationCancelled, false)
		if err != nil {
			return err
		}
		if !ok {
			return errConcurrentConflict
		}
	}
	if err := e.booths.DeleteTx(ctx, tx, boothID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Reserve claims a booth for the requesting user.  The availability
// check, the duplicate-request check, the booth status flip and the
// reservation insert are indivisible with respect to any other Reserve,
// Decide or Cancel on the same booth.  Of N concurrent reserve calls on
// one free booth exactly one succeeds; the rest observe the conflict
// and fail with ErrBoothUnavailable (or ErrDuplicateRequest when the
// winner was the same user).
func (e *Engine) Reserve(ctx context.Context, boothID, userID uint64, details model.ReservationDetails) (*model.Reservation, error) {
	for i := 0; i < reserveAttempts; i++ {
		res, err := e.reserveOnce(ctx, boothID, userID, details)
		if errors.Is(err, errConcurrentConflict) {
			continue
		}
		return res, err
	}
	return nil, ErrBoothUnavailable
}

func (e *Engine) reserveOnce(ctx context.Context, boothID, userID uint64, details model.ReservationDetails) (*model.Reservation, error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	booth, err := e.booths.GetByIDTx(ctx, tx, boothID)
	if err != nil {
		if errors.Is(err, repository.ErrBoothNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	dup, err := e.reservations.HasActiveForUserBoothTx(ctx, tx, userID, boothID)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, ErrDuplicateRequest
	}
	if !booth.Available() {
		return nil, ErrBoothUnavailable
	}
	ok, err := e.booths.UpdateStatusGuardedTx(ctx, tx, boothID, model.BoothFree, model.BoothReserved)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost the race: the booth left FREE between our read and the
		// guarded update.  Retry against fresh state.
		return nil, errConcurrentConflict
	}
	res := &model.Reservation{
		BoothID: boothID,
		UserID:  userID,
		Details: details,
		State:   model.ReservationPending,
	}
	if err := e.reservations.CreateTx(ctx, tx, res); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return res, nil
}

// Decide settles a pending reservation.  Approve moves the reservation
// to APPROVED (stamping decided_at on first approval) and the booth to
// CONFIRMED; reject moves the reservation to REJECTED and frees the
// booth.  Only PENDING reservations can be decided.
func (e *Engine) Decide(ctx context.Context, reservationID uint64, approve bool) (*model.Reservation, error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	res, err := e.reservations.GetByIDTx(ctx, tx, reservationID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if res.State != model.ReservationPending {
		return nil, ErrNotPending
	}
	target := model.ReservationRejected
	boothTarget := model.BoothFree
	if approve {
		target = model.ReservationApproved
		boothTarget = model.BoothConfirmed
	}
	ok, err := e.reservations.UpdateStateGuardedTx(ctx, tx, reservationID, model.ReservationPending, target, approve)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotPending
	}
	ok, err = e.booths.UpdateStatusGuardedTx(ctx, tx, res.BoothID, model.BoothReserved, boothTarget)
	if err != nil {
		return nil, err
	}
	if !ok {
		// A PENDING reservation implies a RESERVED booth; a failed guard
		// here means the stored state violates that relationship.
		return nil, fmt.Errorf("booth %d not RESERVED while reservation %d pending", res.BoothID, reservationID)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	res.State = target
	if approve && res.DecidedAt == nil {
		now := time.Now().UTC().Truncate(time.Second)
		res.DecidedAt = &now
	}
	return res, nil
}

// Cancel voids a reservation and frees its booth.  Requesters may only
// cancel their own reservations and only while still PENDING;
// privileged actors may also cancel APPROVED reservations.  Terminal
// reservations fail with ErrNotCancellable.
func (e *Engine) Cancel(ctx context.Context, reservationID uint64, actor Actor) (*model.Reservation, error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	res, err := e.reservations.GetByIDTx(ctx, tx, reservationID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !actor.Privileged && res.UserID != actor.UserID {
		return nil, repository.ErrForbidden
	}
	if !res.State.Active() {
		return nil, ErrNotCancellable
	}
	if !actor.Privileged && res.State != model.ReservationPending {
		return nil, ErrNotCancellable
	}
	boothFrom := model.BoothReserved
	if res.State == model.ReservationApproved {
		boothFrom = model.BoothConfirmed
	}
	ok, err := e.reservations.UpdateStateGuardedTx(ctx, tx, reservationID, res.State, model.ReservationCancelled, false)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotCancellable
	}
	ok, err = e.booths.UpdateStatusGuardedTx(ctx, tx, res.BoothID, boothFrom, model.BoothFree)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("booth %d not %s while reservation %d active", res.BoothID, boothFrom, reservationID)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	res.State = model.ReservationCancelled
	return res, nil
}

// ActiveReservation returns the reservation currently keeping the booth
// non-free, or ErrNotFound when the booth has no active reservation.
func (e *Engine) ActiveReservation(ctx context.Context, boothID uint64) (*model.Reservation, error) {
	if _, err := e.booths.GetByID(ctx, boothID); err != nil {
		if errors.Is(err, repository.ErrBoothNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	res, err := e.reservations.ActiveForBooth(ctx, boothID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, ErrNotFound
	}
	return res, nil
}
