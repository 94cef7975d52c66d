// Package booking implements the booking engine: the only component
// allowed to jointly mutate a booth's status and its reservation state.
// Every operation that reads then writes the (booth status, active
// reservation) pair runs as a single database transaction whose writes
// are guarded by compare-and-swap conditions on the expected current
// state.  A guard that matches zero rows means another transaction won
// the race; the engine retries a bounded number of times and otherwise
// fails without having mutated anything.
package booking

import "errors"

// Typed failures returned by engine operations.  Handlers translate
// these into HTTP status codes; the engine itself performs no logging
// or formatting.
var (
	// ErrNotFound is returned when the referenced festival, booth or
	// reservation does not exist.
	ErrNotFound = errors.New("not found")

	// ErrPositionOutOfBounds is returned when a booth placement or move
	// targets a cell outside the festival grid.
	ErrPositionOutOfBounds = errors.New("position out of grid bounds")

	// ErrPositionOccupied is returned when another booth already
	// occupies the targeted cell.
	ErrPositionOccupied = errors.New("position already occupied")

	// ErrBoothUnavailable is returned when the booth cannot accept a
	// reservation request: it is not FREE, its sellable gate is off, or
	// a concurrent request claimed it first.
	ErrBoothUnavailable = errors.New("booth unavailable")

	// ErrDuplicateRequest is returned when the requester already holds
	// an active reservation on the booth.
	ErrDuplicateRequest = errors.New("duplicate reservation request")

	// ErrIllegalTransition is returned for status changes outside the
	// lifecycle tables, e.g. marking a RESERVED booth unsellable.
	ErrIllegalTransition = errors.New("illegal state transition")

	// ErrNotPending is returned by Decide when the reservation has
	// already been decided, cancelled, or was never pending.
	ErrNotPending = errors.New("reservation not pending")

	// ErrNotCancellable is returned by Cancel when the reservation is
	// already terminal, or when a requester tries to cancel a
	// reservation that has left the PENDING state.
	ErrNotCancellable = errors.New("reservation not cancellable")

	// ErrBoothHasActiveReservation is returned when deleting a booth
	// that still has an active reservation and cascade was not
	// requested.
	ErrBoothHasActiveReservation = errors.New("booth has an active reservation")
)

// errConcurrentConflict signals that a status guard matched zero rows
// inside a transaction.  It never escapes the engine: the operation is
// retried and eventually surfaces as ErrBoothUnavailable.
var errConcurrentConflict = errors.New("concurrent conflict")
