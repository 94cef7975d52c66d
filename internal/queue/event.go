// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationDecidedEvent is published when an organizer settles a
// reservation request (approval or rejection) and when a reservation is
// cancelled.  It contains enough information for downstream consumers
// to log, notify, or trigger analytics without querying the primary
// database.
type ReservationDecidedEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	UserID        uint64 `json:"user_id"`
	BoothID       uint64 `json:"booth_id"`
	BoothName     string `json:"booth_name"`
	FestivalID    uint64 `json:"festival_id"`
	FestivalName  string `json:"festival_name"`
	Outcome       string `json:"outcome"` // APPROVED | REJECTED | CANCELLED
	PriceCents    uint64 `json:"price_cents"`
	DecidedAt     string `json:"decided_at"`
}
