package booking

import (
	"context"
	"errors"

	"github.com/iliyamo/festival-booth-reservation/internal/model"
	"github.com/iliyamo/festival-booth-reservation/internal/repository"
)

// BoothCell is the public projection of a booth inside the matrix.
// Positions are omitted since they are implied by the cell coordinates.
type BoothCell struct {
	ID         uint64            `json:"id"`
	Name       string            `json:"name"`
	AreaSqdm   uint32            `json:"area_sqdm"`
	PriceCents uint64            `json:"price_cents"`
	Labeled    bool              `json:"labeled"`
	Status     model.BoothStatus `json:"status"`
	Available  bool              `json:"available"`
}

// Cell is one grid position: either empty floor or an occupied booth.
type Cell struct {
	Booth *BoothCell `json:"booth"`
}

// Matrix is the full spatial snapshot of a festival floor, addressed
// as Cells[row][col].
type Matrix struct {
	FestivalID uint64   `json:"festival_id"`
	Width      uint32   `json:"width"`
	Height     uint32   `json:"height"`
	Cells      [][]Cell `json:"cells"`
}

// ProjectMatrix renders the festival floor as a height x width matrix.
// The grid and the booth list are read inside one transaction, so the
// snapshot never shows a half-applied move or placement.
func (e *Engine) ProjectMatrix(ctx context.Context, festivalID uint64) (*Matrix, error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	festival, err := e.festivals.GetByIDTx(ctx, tx, festivalID)
	if err != nil {
		if errors.Is(err, repository.ErrFestivalNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	booths, err := e.booths.ListByFestivalTx(ctx, tx, festivalID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	m := &Matrix{
		FestivalID: festivalID,
		Width:      festival.Grid.Width,
		Height:     festival.Grid.Height,
		Cells:      make([][]Cell, festival.Grid.Height),
	}
	for r := range m.Cells {
		m.Cells[r] = make([]Cell, festival.Grid.Width)
	}
	for i := range booths {
		b := &booths[i]
		if !festival.Grid.Contains(b.Col, b.Row) {
			continue
		}
		m.Cells[b.Row][b.Col].Booth = &BoothCell{
			ID:         b.ID,
			Name:       b.Name,
			AreaSqdm:   b.AreaSqdm,
			PriceCents: b.PriceCents,
			Labeled:    b.Labeled,
			Status:     b.Status,
			Available:  b.Available(),
		}
	}
	return m, nil
}
