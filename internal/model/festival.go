package model

import "time"

// Festival represents an exhibition event whose sellable booths are laid
// out on a fixed matrix.  Each festival owns one Grid; booths reference
// the festival and occupy distinct cells of its grid.  This struct
// corresponds to a row in the `festivals` table.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – display name of the festival.
//  Description – optional free text.
//  Grid        – matrix dimensions and declared booth capacity.
//  CreatedAt   – timestamp when the festival was created.
//  UpdatedAt   – timestamp of last update.
type Festival struct {
	ID          uint64    // festivals.id
	Name        string    // festivals.name
	Description *string   // festivals.description (nullable)
	Grid        Grid      // festivals.grid_width / grid_height / capacity
	CreatedAt   time.Time // festivals.created_at
	UpdatedAt   time.Time // festivals.updated_at
}
