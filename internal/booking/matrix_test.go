package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/iliyamo/festival-booth-reservation/internal/model"
)

func TestProjectMatrix(t *testing.T) {
	eng, _ := newTestEngine(t)
	ctx := context.Background()
	f := mustFestival(t, eng, 3, 2)
	a := mustBooth(t, eng, f.ID, 0, 0)
	b := mustBooth(t, eng, f.ID, 2, 1)

	if _, err := eng.Reserve(ctx, b.ID, 7, testDetails()); err != nil {
		t.Fatalf("Reserve: %v", err)
	}

	m, err := eng.ProjectMatrix(ctx, f.ID)
	if err != nil {
		t.Fatalf("ProjectMatrix: %v", err)
	}
	if m.Width != 3 || m.Height != 2 {
		t.Fatalf("got dimensions %dx%d, want 3x2", m.Width, m.Height)
	}
	if len(m.Cells) != 2 || len(m.Cells[0]) != 3 {
		t.Fatalf("got cell grid %dx%d, want 2 rows of 3", len(m.Cells), len(m.Cells[0]))
	}

	free := m.Cells[0][0].Booth
	if free == nil {
		t.Fatal("cell (0,0) empty, want booth")
	}
	if free.ID != a.ID || free.Status != model.BoothFree || !free.Available {
		t.Errorf("cell (0,0): got %+v, want free available booth %d", free, a.ID)
	}

	held := m.Cells[1][2].Booth
	if held == nil {
		t.Fatal("cell (2,1) empty, want booth")
	}
	if held.Status != model.BoothReserved || held.Available {
		t.Errorf("cell (2,1): got status %s available=%v, want RESERVED unavailable", held.Status, held.Available)
	}

	occupied := 0
	for r := range m.Cells {
		for c := range m.Cells[r] {
			if m.Cells[r][c].Booth != nil {
				occupied++
			}
		}
	}
	if occupied != 2 {
		t.Errorf("got %d occupied cells, want 2", occupied)
	}
}

func TestProjectMatrixUnknownFestival(t *testing.T) {
	eng, _ := newTestEngine(t)
	if _, err := eng.ProjectMatrix(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}
