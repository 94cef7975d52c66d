package model

import (
	"errors"
	"testing"
)

func TestNewGrid(t *testing.T) {
	cases := []struct {
		name                    string
		width, height, capacity uint32
		wantErr                 bool
	}{
		{"valid", 4, 3, 10, false},
		{"capacity equals cells", 4, 3, 12, false},
		{"zero capacity", 4, 3, 0, false},
		{"zero width", 0, 3, 0, true},
		{"zero height", 4, 0, 0, true},
		{"capacity over cells", 4, 3, 13, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g, err := NewGrid(tc.width, tc.height, tc.capacity)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidDimension) {
					t.Errorf("got %v, want ErrInvalidDimension", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewGrid: %v", err)
			}
			if g.Width != tc.width || g.Height != tc.height {
				t.Errorf("got %dx%d, want %dx%d", g.Width, g.Height, tc.width, tc.height)
			}
		})
	}
}

func TestGridContains(t *testing.T) {
	g, err := NewGrid(3, 2, 6)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	cases := []struct {
		col, row uint32
		want     bool
	}{
		{0, 0, true},
		{2, 1, true},
		{3, 0, false},
		{0, 2, false},
		{3, 2, false},
	}
	for _, tc := range cases {
		if got := g.Contains(tc.col, tc.row); got != tc.want {
			t.Errorf("Contains(%d,%d) = %v, want %v", tc.col, tc.row, got, tc.want)
		}
	}
	if got := g.CellCount(); got != 6 {
		t.Errorf("CellCount() = %d, want 6", got)
	}
}
