// Package handler exposes HTTP handlers for both authenticated and public endpoints.
// This file defines handlers for the public browsing API. These routes allow
// unauthenticated users to browse festivals, the floor matrix and booth
// availability without requiring authentication. Sensitive fields (reservation
// contact details, timestamps, etc.) are filtered from responses.

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/festival-booth-reservation/internal/booking"
	"github.com/iliyamo/festival-booth-reservation/internal/model"
	"github.com/iliyamo/festival-booth-reservation/internal/repository"
)

// PublicHandler aggregates what unauthenticated browsing needs.  It
// produces sanitized responses suitable for public consumption.
type PublicHandler struct {
	Engine       *booking.Engine
	FestivalRepo *repository.FestivalRepo
	BoothRepo    *repository.BoothRepo
}

// NewPublicHandler constructs a PublicHandler.  All dependencies must
// be non-nil.
func NewPublicHandler(engine *booking.Engine, festivalRepo *repository.FestivalRepo, boothRepo *repository.BoothRepo) *PublicHandler {
	if engine == nil || festivalRepo == nil || boothRepo == nil {
		panic("nil dependency passed to NewPublicHandler")
	}
	return &PublicHandler{Engine: engine, FestivalRepo: festivalRepo, BoothRepo: boothRepo}
}

// PublicFestival represents a festival exposed via the public API. It
// contains only safe fields.
type PublicFestival struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	GridWidth   uint32  `json:"grid_width"`
	GridHeight  uint32  `json:"grid_height"`
	Capacity    uint32  `json:"capacity"`
}

// PublicBooth represents a booth in public list responses.
type PublicBooth struct {
	ID         uint64            `json:"id"`
	Name       string            `json:"name"`
	AreaSqdm   uint32            `json:"area_sqdm"`
	PriceCents uint64            `json:"price_cents"`
	Labeled    bool              `json:"labeled"`
	Status     model.BoothStatus `json:"status"`
	Available  bool              `json:"available"`
	Col        uint32            `json:"col"`
	Row        uint32            `json:"row"`
}

func publicBooth(b *model.Booth) PublicBooth {
	return PublicBooth{
		ID:         b.ID,
		Name:       b.Name,
		AreaSqdm:   b.AreaSqdm,
		PriceCents: b.PriceCents,
		Labeled:    b.Labeled,
		Status:     b.Status,
		Available:  b.Available(),
		Col:        b.Col,
		Row:        b.Row,
	}
}

// ListFestivals handles GET /v1/festivals.  Response JSON contains an
// "items" array of PublicFestival.
func (h *PublicHandler) ListFestivals(c echo.Context) error {
	festivals, err := h.FestivalRepo.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicFestival, 0, len(festivals))
	for _, f := range festivals {
		out = append(out, PublicFestival{
			ID:          f.ID,
			Name:        f.Name,
			Description: f.Description,
			GridWidth:   f.Grid.Width,
			GridHeight:  f.Grid.Height,
			Capacity:    f.Grid.Capacity,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetFestival handles GET /v1/festivals/:id.
func (h *PublicHandler) GetFestival(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	f, err := h.FestivalRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrFestivalNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "festival not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, PublicFestival{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		GridWidth:   f.Grid.Width,
		GridHeight:  f.Grid.Height,
		Capacity:    f.Grid.Capacity,
	})
}

// GetMatrix handles GET /v1/festivals/:id/matrix.  Returns the full
// spatial snapshot of the floor: every cell either empty or carrying a
// booth with its current status.
func (h *PublicHandler) GetMatrix(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	m, err := h.Engine.ProjectMatrix(c.Request().Context(), id)
	if err != nil {
		if err == booking.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "festival not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, m)
}

// ListBooths handles GET /v1/festivals/:id/booths.  Every booth of the
// festival regardless of status, ordered by grid position.
func (h *PublicHandler) ListBooths(c echo.Context) error {
	return h.listBooths(c, false)
}

// ListAvailableBooths handles GET /v1/festivals/:id/available-booths.
// Only booths that can currently accept a reservation request.
func (h *PublicHandler) ListAvailableBooths(c echo.Context) error {
	return h.listBooths(c, true)
}

func (h *PublicHandler) listBooths(c echo.Context, availableOnly bool) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	if _, err := h.FestivalRepo.GetByID(ctx, id); err != nil {
		if err == repository.ErrFestivalNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "festival not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	var (
		booths []model.Booth
		err    error
	)
	if availableOnly {
		booths, err = h.BoothRepo.ListAvailable(ctx, id)
	} else {
		booths, err = h.BoothRepo.ListByFestival(ctx, id)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicBooth, 0, len(booths))
	for i := range booths {
		out = append(out, publicBooth(&booths[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetBooth handles GET /v1/booths/:id for unauthenticated users.
func (h *PublicHandler) GetBooth(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	b, err := h.BoothRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrBoothNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booth not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, publicBooth(b))
}
