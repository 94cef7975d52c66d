package model

import "errors"

// ErrInvalidDimension is returned by NewGrid when the requested matrix
// dimensions cannot describe a valid festival floor.
var ErrInvalidDimension = errors.New("invalid grid dimension")

// Grid is the fixed coordinate space of one festival: Width columns by
// Height rows, with a declared target booth count (Capacity).  A grid is
// a pure value; it carries no mutable state and is never resized after
// the festival has been created.
//
// Fields:
//  Width    – number of columns in the matrix.
//  Height   – number of rows in the matrix.
//  Capacity – declared booth count; informational beyond the
//             creation-time bound Capacity <= Width*Height.
type Grid struct {
	Width    uint32
	Height   uint32
	Capacity uint32
}

// NewGrid validates the dimensions and returns a Grid.  Zero width or
// height, or a capacity larger than the cell count, yields
// ErrInvalidDimension.
func NewGrid(width, height, capacity uint32) (Grid, error) {
	if width == 0 || height == 0 {
		return Grid{}, ErrInvalidDimension
	}
	if capacity > width*height {
		return Grid{}, ErrInvalidDimension
	}
	return Grid{Width: width, Height: height, Capacity: capacity}, nil
}

// Contains reports whether the cell (col, row) lies inside the grid.
func (g Grid) Contains(col, row uint32) bool {
	return col < g.Width && row < g.Height
}

// CellCount returns the total number of cells in the grid.
func (g Grid) CellCount() uint32 {
	return g.Width * g.Height
}
