package model

import "time"

// ReservationState enumerates the lifecycle states of a reservation.
// PENDING and APPROVED are the "active" states: a booth with an active
// reservation is non-free, and at most one active reservation may exist
// per booth at any time.
type ReservationState string

const (
	ReservationPending   ReservationState = "PENDING"
	ReservationApproved  ReservationState = "APPROVED"
	ReservationRejected  ReservationState = "REJECTED"
	ReservationCancelled ReservationState = "CANCELLED"
)

// Active reports whether the state keeps its booth non-free.
func (s ReservationState) Active() bool {
	return s == ReservationPending || s == ReservationApproved
}

// CanTransitionTo reports whether moving from s to next is a legal
// lifecycle transition.  REJECTED and CANCELLED are terminal; APPROVED
// may only move to CANCELLED.
func (s ReservationState) CanTransitionTo(next ReservationState) bool {
	switch s {
	case ReservationPending:
		return next == ReservationApproved || next == ReservationRejected || next == ReservationCancelled
	case ReservationApproved:
		return next == ReservationCancelled
	}
	return false
}

// ReservationDetails carries the contact, business and payment fields an
// exhibitor submits with a reservation request.  All of them are opaque
// to the booking engine; the receipt reference in particular points at a
// stored payment-proof artifact that is never interpreted here.
type ReservationDetails struct {
	FirstName        string
	LastName         string
	NationalCode     string
	Phone            string
	Email            *string
	Address          string
	CompanyName      *string
	CompanyRegNumber *string
	ActivityType     *string
	ReceiptRef       string
	Description      *string
}

// Reservation records an exhibitor's claim on a booth together with the
// submitted contact and payment details.  Reservations are never
// physically deleted outside a booth cascade; rejected and cancelled
// rows remain as audit history.  This struct corresponds to a row in the
// `reservations` table.
//
// Fields:
//  ID        – primary key identifier.
//  BoothID   – booth being claimed.
//  UserID    – requesting user.
//  Details   – opaque contact/business/payment fields.
//  State     – current ReservationState.
//  CreatedAt – creation timestamp.
//  DecidedAt – set exactly once, when the state first becomes APPROVED.
type Reservation struct {
	ID        uint64             // reservations.id
	BoothID   uint64             // reservations.booth_id
	UserID    uint64             // reservations.user_id
	Details   ReservationDetails // contact / business / receipt columns
	State     ReservationState   // reservations.state
	CreatedAt time.Time          // reservations.created_at
	DecidedAt *time.Time         // reservations.decided_at (nullable)
}
