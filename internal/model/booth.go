package model

import "time"

// BoothStatus enumerates the sellability states of a booth.  Status is
// mutated only through the booking engine: the derived relationship
// "RESERVED iff one PENDING reservation, CONFIRMED iff one APPROVED
// reservation" must hold at all times.  UNSELLABLE is an inventory
// override applied outside the booking flow.
type BoothStatus string

const (
	BoothFree       BoothStatus = "FREE"
	BoothReserved   BoothStatus = "RESERVED"
	BoothConfirmed  BoothStatus = "CONFIRMED"
	BoothUnsellable BoothStatus = "UNSELLABLE"
)

// Valid reports whether s is one of the defined booth statuses.
func (s BoothStatus) Valid() bool {
	switch s {
	case BoothFree, BoothReserved, BoothConfirmed, BoothUnsellable:
		return true
	}
	return false
}

// Booth represents a sellable exhibition unit occupying exactly one cell
// of its festival's grid.  Within a festival the (Col, Row) pair is
// unique across booths; cells without a booth are simply empty.  This
// struct corresponds to a row in the `booths` table.
//
// Fields:
//  ID          – primary key identifier.
//  FestivalID  – festival whose grid this booth belongs to.
//  Name        – display name of the booth.
//  AreaSqdm    – floor area in square decimetres; stored as an integer
//                to avoid floating point.
//  PriceCents  – asking price in minor currency units.
//  Description – optional free text.
//  Sellable    – eligibility gate; a booth must be Sellable and FREE to
//                accept reservation requests.
//  Labeled     – whether the booth carries signage; opaque metadata.
//  Status      – current BoothStatus.
//  Col, Row    – zero-based position inside the festival grid.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Booth struct {
	ID          uint64      // booths.id
	FestivalID  uint64      // booths.festival_id
	Name        string      // booths.name
	AreaSqdm    uint32      // booths.area_sqdm
	PriceCents  uint64      // booths.price_cents
	Description *string     // booths.description (nullable)
	Sellable    bool        // booths.sellable
	Labeled     bool        // booths.labeled
	Status      BoothStatus // booths.status
	Col         uint32      // booths.col_idx
	Row         uint32      // booths.row_idx
	CreatedAt   time.Time   // booths.created_at
	UpdatedAt   time.Time   // booths.updated_at
}

// Available reports whether the booth can accept a new reservation
// request right now.
func (b *Booth) Available() bool {
	return b.Status == BoothFree && b.Sellable
}
