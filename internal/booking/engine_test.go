package booking

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/iliyamo/festival-booth-reservation/internal/model"
	"github.com/iliyamo/festival-booth-reservation/internal/repository"
)

func TestCreateFestivalInvalidGrid(t *testing.T) {
	eng, _ := newTestEngine(t)
	ctx := context.Background()

	cases := []struct {
		name                    string
		width, height, capacity uint32
	}{
		{"zero width", 0, 4, 0},
		{"zero height", 4, 0, 0},
		{"capacity over cells", 3, 2, 7},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := eng.CreateFestival(ctx, "bad", nil, tc.width, tc.height, tc.capacity)
			if !errors.Is(err, model.ErrInvalidDimension) {
				t.Errorf("got %v, want ErrInvalidDimension", err)
			}
		})
	}
}

func TestPlaceBoothBounds(t *testing.T) {
	eng, _ := newTestEngine(t)
	ctx := context.Background()
	f := mustFestival(t, eng, 3, 2)

	_, err := eng.PlaceBooth(ctx, f.ID, PlaceBoothInput{Name: "x", Sellable: true, Col: 3, Row: 0})
	if !errors.Is(err, ErrPositionOutOfBounds) {
		t.Errorf("col out of range: got %v, want ErrPositionOutOfBounds", err)
	}
	_, err = eng.PlaceBooth(ctx, f.ID, PlaceBoothInput{Name: "x", Sellable: true, Col: 0, Row: 2})
	if !errors.Is(err, ErrPositionOutOfBounds) {
		t.Errorf("row out of range: got %v, want ErrPositionOutOfBounds", err)
	}

	mustBooth(t, eng, f.ID, 1, 1)
	_, err = eng.PlaceBooth(ctx, f.ID, PlaceBoothInput{Name: "y", Sellable: true, Col: 1, Row: 1})
	if !errors.Is(err, ErrPositionOccupied) {
		t.Errorf("occupied cell: got %v, want ErrPositionOccupied", err)
	}

	_, err = eng.PlaceBooth(ctx, 9999, PlaceBoothInput{Name: "x", Sellable: true})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown festival: got %v, want ErrNotFound", err)
	}
}

func TestPlaceBoothsAllOrNothing(t *testing.T) {
	eng, db := newTestEngine(t)
	ctx := context.Background()
	f := mustFestival(t, eng, 2, 2)

	_, err := eng.PlaceBooths(ctx, f.ID, []PlaceBoothInput{
		{Name: "a", Sellable: true, Col: 0, Row: 0},
		{Name: "b", Sellable: true, Col: 0, Row: 0}, // duplicates the first
	})
	if !errors.Is(err, ErrPositionOccupied) {
		t.Fatalf("got %v, want ErrPositionOccupied", err)
	}

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM booths`).Scan(&n); err != nil {
		t.Fatalf("count booths: %v", err)
	}
	if n != 0 {
		t.Errorf("got %d booths after failed batch, want 0", n)
	}
}

func TestConcurrentPlaceBoothOneWinner(t *testing.T) {
	eng, _ := newTestEngine(t)
	ctx := context.Background()
	f := mustFestival(t, eng, 4, 4)

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = eng.PlaceBooth(ctx, f.ID, PlaceBoothInput{Name: "contested", Sellable: true, Col: 2, Row: 2})
		}(i)
	}
	wg.Wait()

	won := 0
	for i, err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, ErrPositionOccupied):
		default:
			t.Errorf("worker %d: unexpected error %v", i, err)
		}
	}
	if won != 1 {
		t.Errorf("got %d winners, want exactly 1", won)
	}
}

func TestMoveBooth(t *testing.T) {
	eng, db := newTestEngine(t)
	ctx := context.Background()
	f := mustFestival(t, eng, 3, 3)
	a := mustBooth(t, eng, f.ID, 0, 0)
	mustBooth(t, eng, f.ID, 1, 0)

	moved, err := eng.MoveBooth(ctx, a.ID, 2, 2)
	if err != nil {
		t.Fatalf("MoveBooth: %v", err)
	}
	if moved.Col != 2 || moved.Row != 2 {
		t.Errorf("got position (%d,%d), want (2,2)", moved.Col, moved.Row)
	}

	booths := repository.NewBoothRepo(db)
	got, err := booths.GetByPosition(ctx, f.ID, 2, 2)
	if err != nil {
		t.Fatalf("GetByPosition(2,2): %v", err)
	}
	if got.ID != a.ID {
		t.Errorf("cell (2,2) holds booth %d, want %d", got.ID, a.ID)
	}
	if _, err := booths.GetByPosition(ctx, f.ID, 0, 0); !errors.Is(err, repository.ErrBoothNotFound) {
		t.Errorf("old cell lookup: got %v, want ErrBoothNotFound", err)
	}

	_, err = eng.MoveBooth(ctx, a.ID, 1, 0)
	if !errors.Is(err, ErrPositionOccupied) {
		t.Errorf("move onto occupied cell: got %v, want ErrPositionOccupied", err)
	}
	_, err = eng.MoveBooth(ctx, a.ID, 3, 0)
	if !errors.Is(err, ErrPositionOutOfBounds) {
		t.Errorf("move out of bounds: got %v, want ErrPositionOutOfBounds", err)
	}
}

func TestReserveLifecycle(t *testing.T) {
	eng, db := newTestEngine(t)
	ctx := context.Background()
	f := mustFestival(t, eng, 2, 2)
	b := mustBooth(t, eng, f.ID, 0, 0)

	res, err := eng.Reserve(ctx, b.ID, 7, testDetails())
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if res.State != model.ReservationPending {
		t.Errorf("got state %s, want PENDING", res.State)
	}
	if got := boothStatus(t, db, b.ID); got != model.BoothReserved {
		t.Errorf("got booth status %s, want RESERVED", got)
	}

	decided, err := eng.Decide(ctx, res.ID, true)
	if err != nil {
		t.Fatalf("Decide approve: %v", err)
	}
	if decided.State != model.ReservationApproved {
		t.Errorf("got state %s, want APPROVED", decided.State)
	}
	if decided.DecidedAt == nil {
		t.Error("DecidedAt not stamped on approval")
	}
	if got := boothStatus(t, db, b.ID); got != model.BoothConfirmed {
		t.Errorf("got booth status %s, want CONFIRMED", got)
	}

	// A confirmed booth takes no further requests.
	_, err = eng.Reserve(ctx, b.ID, 8, testDetails())
	if !errors.Is(err, ErrBoothUnavailable) {
		t.Errorf("reserve confirmed booth: got %v, want ErrBoothUnavailable", err)
	}
}

func TestReserveRejections(t *testing.T) {
	eng, _ := newTestEngine(t)
	ctx := context.Background()
	f := mustFestival(t, eng, 2, 2)
	b := mustBooth(t, eng, f.ID, 0, 0)

	if _, err := eng.Reserve(ctx, b.ID, 7, testDetails()); err != nil {
		t.Fatalf("Reserve: %v", err)
	}

	_, err := eng.Reserve(ctx, b.ID, 7, testDetails())
	if !errors.Is(err, ErrDuplicateRequest) {
		t.Errorf("same user again: got %v, want ErrDuplicateRequest", err)
	}
	_, err = eng.Reserve(ctx, b.ID, 8, testDetails())
	if !errors.Is(err, ErrBoothUnavailable) {
		t.Errorf("other user on held booth: got %v, want ErrBoothUnavailable", err)
	}
	_, err = eng.Reserve(ctx, 9999, 7, testDetails())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown booth: got %v, want ErrNotFound", err)
	}
}

func TestReserveSellableGate(t *testing.T) {
	eng, _ := newTestEngine(t)
	ctx := context.Background()
	f := mustFestival(t, eng, 2, 2)

	gated, err := eng.PlaceBooth(ctx, f.ID, PlaceBoothInput{Name: "gated", Sellable: false, Col: 0, Row: 0})
	if err != nil {
		t.Fatalf("PlaceBooth: %v", err)
	}
	if _, err := eng.Reserve(ctx, gated.ID, 7, testDetails()); !errors.Is(err, ErrBoothUnavailable) {
		t.Errorf("gated booth: got %v, want ErrBoothUnavailable", err)
	}

	if err := eng.SetSellableGate(ctx, gated.ID, true); err != nil {
		t.Fatalf("SetSellableGate: %v", err)
	}
	if _, err := eng.Reserve(ctx, gated.ID, 7, testDetails()); err != nil {
		t.Errorf("reserve after opening gate: %v", err)
	}
}

func TestDecideIdempotence(t *testing.T) {
	eng, _ := newTestEngine(t)
	ctx := context.Background()
	f := mustFestival(t, eng, 2, 2)
	b := mustBooth(t, eng, f.ID, 0, 0)

	res, err := eng.Reserve(ctx, b.ID, 7, testDetails())
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if _, err := eng.Decide(ctx, res.ID, true); err != nil {
		t.Fatalf("first decide: %v", err)
	}
	if _, err := eng.Decide(ctx, res.ID, true); !errors.Is(err, ErrNotPending) {
		t.Errorf("second approve: got %v, want ErrNotPending", err)
	}
	if _, err := eng.Decide(ctx, res.ID, false); !errors.Is(err, ErrNotPending) {
		t.Errorf("reject after approve: got %v, want ErrNotPending", err)
	}
}

func TestRejectFreesBooth(t *testing.T) {
	eng, db := newTestEngine(t)
	ctx := context.Background()
	f := mustFestival(t, eng, 2, 2)
	b := mustBooth(t, eng, f.ID, 0, 0)

	res, err := eng.Reserve(ctx, b.ID, 7, testDetails())
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	rejected, err := eng.Decide(ctx, res.ID, false)
	if err != nil {
		t.Fatalf("Decide reject: %v", err)
	}
	if rejected.State != model.ReservationRejected {
		t.Errorf("got state %s, want REJECTED", rejected.State)
	}
	if rejected.DecidedAt != nil {
		t.Error("DecidedAt stamped on rejection, want unset")
	}
	if got := boothStatus(t, db, b.ID); got != model.BoothFree {
		t.Errorf("got booth status %s, want FREE", got)
	}

	// The same user may try again after a rejection.
	if _, err := eng.Reserve(ctx, b.ID, 7, testDetails()); err != nil {
		t.Errorf("re-reserve after rejection: %v", err)
	}
}

func TestCancelRoundTrip(t *testing.T) {
	eng, db := newTestEngine(t)
	ctx := context.Background()
	f := mustFestival(t, eng, 2, 2)
	b := mustBooth(t, eng, f.ID, 0, 0)

	res, err := eng.Reserve(ctx, b.ID, 7, testDetails())
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	cancelled, err := eng.Cancel(ctx, res.ID, Actor{UserID: 7})
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if cancelled.State != model.ReservationCancelled {
		t.Errorf("got state %s, want CANCELLED", cancelled.State)
	}
	if got := boothStatus(t, db, b.ID); got != model.BoothFree {
		t.Errorf("got booth status %s, want FREE", got)
	}
	if _, err := eng.Reserve(ctx, b.ID, 9, testDetails()); err != nil {
		t.Errorf("reserve after cancel: %v", err)
	}
}

func TestCancelAuthorization(t *testing.T) {
	eng, db := newTestEngine(t)
	ctx := context.Background()
	f := mustFestival(t, eng, 2, 2)
	b := mustBooth(t, eng, f.ID, 0, 0)

	res, err := eng.Reserve(ctx, b.ID, 7, testDetails())
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}

	if _, err := eng.Cancel(ctx, res.ID, Actor{UserID: 8}); !errors.Is(err, repository.ErrForbidden) {
		t.Errorf("other user cancel: got %v, want ErrForbidden", err)
	}

	if _, err := eng.Decide(ctx, res.ID, true); err != nil {
		t.Fatalf("Decide: %v", err)
	}
	// Once approved the requester can no longer back out on their own.
	if _, err := eng.Cancel(ctx, res.ID, Actor{UserID: 7}); !errors.Is(err, ErrNotCancellable) {
		t.Errorf("requester cancel approved: got %v, want ErrNotCancellable", err)
	}
	if _, err := eng.Cancel(ctx, res.ID, Actor{UserID: 1, Privileged: true}); err != nil {
		t.Fatalf("privileged cancel approved: %v", err)
	}
	if got := boothStatus(t, db, b.ID); got != model.BoothFree {
		t.Errorf("got booth status %s, want FREE", got)
	}

	// Terminal reservations stay terminal.
	if _, err := eng.Cancel(ctx, res.ID, Actor{UserID: 1, Privileged: true}); !errors.Is(err, ErrNotCancellable) {
		t.Errorf("cancel cancelled: got %v, want ErrNotCancellable", err)
	}
}

func TestConcurrentReserveOneWinner(t *testing.T) {
	eng, db := newTestEngine(t)
	ctx := context.Background()
	f := mustFestival(t, eng, 2, 2)
	b := mustBooth(t, eng, f.ID, 0, 0)

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = eng.Reserve(ctx, b.ID, uint64(100+i), testDetails())
		}(i)
	}
	wg.Wait()

	won := 0
	for i, err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, ErrBoothUnavailable):
		default:
			t.Errorf("worker %d: unexpected error %v", i, err)
		}
	}
	if won != 1 {
		t.Errorf("got %d winners, want exactly 1", won)
	}

	var pending int
	if err := db.QueryRow(`SELECT COUNT(*) FROM reservations WHERE state = ?`,
		string(model.ReservationPending)).Scan(&pending); err != nil {
		t.Fatalf("count pending: %v", err)
	}
	if pending != 1 {
		t.Errorf("got %d pending reservations, want 1", pending)
	}
	if got := boothStatus(t, db, b.ID); got != model.BoothReserved {
		t.Errorf("got booth status %s, want RESERVED", got)
	}
}

func TestSetUnsellable(t *testing.T) {
	eng, _ := newTestEngine(t)
	ctx := context.Background()
	f := mustFestival(t, eng, 2, 2)
	b := mustBooth(t, eng, f.ID, 0, 0)

	got, err := eng.SetUnsellable(ctx, b.ID, true)
	if err != nil {
		t.Fatalf("SetUnsellable: %v", err)
	}
	if got.Status != model.BoothUnsellable {
		t.Errorf("got status %s, want UNSELLABLE", got.Status)
	}
	// Idempotent repeat.
	if _, err := eng.SetUnsellable(ctx, b.ID, true); err != nil {
		t.Errorf("repeat SetUnsellable: %v", err)
	}
	if _, err := eng.Reserve(ctx, b.ID, 7, testDetails()); !errors.Is(err, ErrBoothUnavailable) {
		t.Errorf("reserve unsellable booth: got %v, want ErrBoothUnavailable", err)
	}

	got, err = eng.SetUnsellable(ctx, b.ID, false)
	if err != nil {
		t.Fatalf("lift override: %v", err)
	}
	if got.Status != model.BoothFree {
		t.Errorf("got status %s, want FREE", got.Status)
	}

	// A held booth cannot be withdrawn from sale.
	if _, err := eng.Reserve(ctx, b.ID, 7, testDetails()); err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if _, err := eng.SetUnsellable(ctx, b.ID, true); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("withdraw reserved booth: got %v, want ErrIllegalTransition", err)
	}
}

func TestDeleteBooth(t *testing.T) {
	eng, db := newTestEngine(t)
	ctx := context.Background()
	f := mustFestival(t, eng, 2, 2)
	b := mustBooth(t, eng, f.ID, 0, 0)

	res, err := eng.Reserve(ctx, b.ID, 7, testDetails())
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}

	if err := eng.DeleteBooth(ctx, b.ID, false); !errors.Is(err, ErrBoothHasActiveReservation) {
		t.Errorf("delete held booth: got %v, want ErrBoothHasActiveReservation", err)
	}
	if err := eng.DeleteBooth(ctx, b.ID, true); err != nil {
		t.Fatalf("cascade delete: %v", err)
	}

	var state string
	if err := db.QueryRow(`SELECT state FROM reservations WHERE id = ?`, res.ID).Scan(&state); err != nil {
		t.Fatalf("read reservation: %v", err)
	}
	if model.ReservationState(state) != model.ReservationCancelled {
		t.Errorf("got reservation state %s, want CANCELLED", state)
	}
	if err := eng.DeleteBooth(ctx, b.ID, false); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete again: got %v, want ErrNotFound", err)
	}
}

func TestDeleteFestival(t *testing.T) {
	eng, db := newTestEngine(t)
	ctx := context.Background()
	f := mustFestival(t, eng, 2, 2)
	b := mustBooth(t, eng, f.ID, 0, 0)

	res, err := eng.Reserve(ctx, b.ID, 7, testDetails())
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if err := eng.DeleteFestival(ctx, f.ID); !errors.Is(err, repository.ErrConflict) {
		t.Errorf("delete festival with active reservation: got %v, want ErrConflict", err)
	}

	if _, err := eng.Cancel(ctx, res.ID, Actor{UserID: 7}); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if err := eng.DeleteFestival(ctx, f.ID); err != nil {
		t.Fatalf("DeleteFestival: %v", err)
	}

	for _, table := range []string{"festivals", "booths", "reservations"} {
		var n int
		if err := db.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if n != 0 {
			t.Errorf("got %d rows left in %s, want 0", n, table)
		}
	}
}

func TestActiveReservation(t *testing.T) {
	eng, _ := newTestEngine(t)
	ctx := context.Background()
	f := mustFestival(t, eng, 2, 2)
	b := mustBooth(t, eng, f.ID, 0, 0)

	if _, err := eng.ActiveReservation(ctx, b.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("free booth: got %v, want ErrNotFound", err)
	}

	res, err := eng.Reserve(ctx, b.ID, 7, testDetails())
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	got, err := eng.ActiveReservation(ctx, b.ID)
	if err != nil {
		t.Fatalf("ActiveReservation: %v", err)
	}
	if got.ID != res.ID {
		t.Errorf("got reservation %d, want %d", got.ID, res.ID)
	}
}
