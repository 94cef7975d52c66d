package handler

import (
	"errors"   // errors.Is comparisons
	"net/http" // HTTP status codes
	"strings"  // input trimming

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/festival-booth-reservation/internal/booking"
	"github.com/iliyamo/festival-booth-reservation/internal/repository"
)

type boothReq struct {
	Name        string  `json:"name"`
	AreaSqdm    uint32  `json:"area_sqdm"`
	PriceCents  uint64  `json:"price_cents"`
	Description *string `json:"description"`
	Sellable    *bool   `json:"sellable"`
	Labeled     bool    `json:"labeled"`
	Col         uint32  `json:"col"`
	Row         uint32  `json:"row"`
}

func (r *boothReq) toInput() booking.PlaceBoothInput {
	sellable := true
	if r.Sellable != nil {
		sellable = *r.Sellable
	}
	return booking.PlaceBoothInput{
		Name:        strings.TrimSpace(r.Name),
		AreaSqdm:    r.AreaSqdm,
		PriceCents:  r.PriceCents,
		Description: r.Description,
		Sellable:    sellable,
		Labeled:     r.Labeled,
		Col:         r.Col,
		Row:         r.Row,
	}
}

// CreateBooths handles POST /v1/festivals/:id/booths.  The body is
// either a single booth object or {"booths": [...]} for a batch; a
// batch is placed all-or-nothing.
func (h *AdminHandler) CreateBooths(c echo.Context) error {
	festivalID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid festival id"})
	}
	var body struct {
		boothReq
		Booths []boothReq `json:"booths"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx := c.Request().Context()

	if len(body.Booths) > 0 {
		ins := make([]booking.PlaceBoothInput, 0, len(body.Booths))
		for i := range body.Booths {
			in := body.Booths[i].toInput()
			if in.Name == "" {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "booth name is required"})
			}
			ins = append(ins, in)
		}
		placed, err := h.Engine.PlaceBooths(ctx, festivalID, ins)
		if err != nil {
			return boothPlacementError(c, err)
		}
		return c.JSON(http.StatusCreated, echo.Map{"items": placed})
	}

	in := body.boothReq.toInput()
	if in.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booth name is required"})
	}
	booth, err := h.Engine.PlaceBooth(ctx, festivalID, in)
	if err != nil {
		return boothPlacementError(c, err)
	}
	return c.JSON(http.StatusCreated, booth)
}

func boothPlacementError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, booking.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "festival not found"})
	case errors.Is(err, booking.ErrPositionOutOfBounds):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "position outside the festival grid"})
	case errors.Is(err, booking.ErrPositionOccupied):
		return c.JSON(http.StatusConflict, echo.Map{"error": "position already occupied"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booth failed"})
	}
}

// UpdateBooth handles PUT /v1/booths/:id.  Descriptive fields only;
// status, position and sellability have dedicated endpoints.
func (h *AdminHandler) UpdateBooth(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booth id"})
	}
	var req boothReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booth name is required"})
	}
	ctx := c.Request().Context()
	booth, err := h.BoothRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBoothNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booth not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	booth.Name = req.Name
	booth.AreaSqdm = req.AreaSqdm
	booth.PriceCents = req.PriceCents
	booth.Description = req.Description
	booth.Labeled = req.Labeled
	if err := h.BoothRepo.UpdateMeta(ctx, booth); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update booth failed"})
	}
	return c.JSON(http.StatusOK, booth)
}

// MoveBooth handles PUT /v1/booths/:id/position.
func (h *AdminHandler) MoveBooth(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booth id"})
	}
	var req struct {
		Col uint32 `json:"col"`
		Row uint32 `json:"row"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	booth, err := h.Engine.MoveBooth(c.Request().Context(), id, req.Col, req.Row)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booth not found"})
		case errors.Is(err, booking.ErrPositionOutOfBounds):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "position outside the festival grid"})
		case errors.Is(err, booking.ErrPositionOccupied):
			return c.JSON(http.StatusConflict, echo.Map{"error": "position already occupied"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "move booth failed"})
		}
	}
	return c.JSON(http.StatusOK, booth)
}

// SetSellable handles PUT /v1/booths/:id/sellable.  Flips the
// eligibility gate without touching the booth status.
func (h *AdminHandler) SetSellable(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booth id"})
	}
	var req struct {
		Sellable *bool `json:"sellable"`
	}
	if err := c.Bind(&req); err != nil || req.Sellable == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "sellable is required"})
	}
	if err := h.Engine.SetSellableGate(c.Request().Context(), id, *req.Sellable); err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booth not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update booth failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "sellable": *req.Sellable})
}

// SetUnsellable handles PUT /v1/booths/:id/unsellable.  Withdraws a
// FREE booth from sale (or returns an UNSELLABLE one); booths with an
// active reservation cannot be withdrawn.
func (h *AdminHandler) SetUnsellable(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booth id"})
	}
	var req struct {
		Unsellable *bool `json:"unsellable"`
	}
	if err := c.Bind(&req); err != nil || req.Unsellable == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unsellable is required"})
	}
	booth, err := h.Engine.SetUnsellable(c.Request().Context(), id, *req.Unsellable)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booth not found"})
		case errors.Is(err, booking.ErrIllegalTransition):
			return c.JSON(http.StatusConflict, echo.Map{"error": "booth has an active reservation"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update booth failed"})
		}
	}
	return c.JSON(http.StatusOK, booth)
}

// DeleteBooth handles DELETE /v1/booths/:id.  With ?cascade=true an
// active reservation is cancelled together with the delete; without it
// the request fails with 409 while a reservation is active.
func (h *AdminHandler) DeleteBooth(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booth id"})
	}
	cascade := strings.EqualFold(c.QueryParam("cascade"), "true")
	if err := h.Engine.DeleteBooth(c.Request().Context(), id, cascade); err != nil {
		switch {
		case errors.Is(err, booking.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booth not found"})
		case errors.Is(err, booking.ErrBoothHasActiveReservation):
			return c.JSON(http.StatusConflict, echo.Map{"error": "booth has an active reservation"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete booth failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// GetReservationInfo handles GET /v1/booths/:id/reservation-info.  It
// returns the active reservation holding the booth, if any, including
// the submitted contact details.
func (h *AdminHandler) GetReservationInfo(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booth id"})
	}
	res, err := h.Engine.ActiveReservation(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no active reservation for this booth"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": res})
}
