package handler

import (
	"database/sql" // sentinel errors from repositories
	"errors"       // errors.Is comparisons
	"net/http"     // HTTP status codes
	"strings"      // input trimming

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/festival-booth-reservation/internal/booking"
	"github.com/iliyamo/festival-booth-reservation/internal/model"
	"github.com/iliyamo/festival-booth-reservation/internal/repository"
)

// AdminHandler groups the booking engine and repositories needed for
// festival and booth administration.  All methods assume that JWT
// authentication and the ADMIN role check have already been performed
// by middleware.
type AdminHandler struct {
	Engine          *booking.Engine
	FestivalRepo    *repository.FestivalRepo
	BoothRepo       *repository.BoothRepo
	ReservationRepo *repository.ReservationRepo
}

// NewAdminHandler constructs an AdminHandler.  All dependencies must be
// non-nil.
func NewAdminHandler(engine *booking.Engine, festivalRepo *repository.FestivalRepo, boothRepo *repository.BoothRepo, reservationRepo *repository.ReservationRepo) *AdminHandler {
	if engine == nil || festivalRepo == nil || boothRepo == nil || reservationRepo == nil {
		panic("nil dependency passed to NewAdminHandler")
	}
	return &AdminHandler{
		Engine:          engine,
		FestivalRepo:    festivalRepo,
		BoothRepo:       boothRepo,
		ReservationRepo: reservationRepo,
	}
}

type festivalReq struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	GridWidth   uint32  `json:"grid_width"`
	GridHeight  uint32  `json:"grid_height"`
	Capacity    uint32  `json:"capacity"`
}

// CreateFestival handles POST /v1/festivals.  The grid dimensions are
// fixed at creation; capacity may stay zero for "no booth limit".
func (h *AdminHandler) CreateFestival(c echo.Context) error {
	var req festivalReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	f, err := h.Engine.CreateFestival(c.Request().Context(), req.Name, req.Description, req.GridWidth, req.GridHeight, req.Capacity)
	if err != nil {
		if errors.Is(err, model.ErrInvalidDimension) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid grid dimensions"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create festival failed"})
	}
	return c.JSON(http.StatusCreated, f)
}

// UpdateFestival handles PUT /v1/festivals/:id.  Only name and
// description can change; the grid is immutable once booths exist
// relative to it.
func (h *AdminHandler) UpdateFestival(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid festival id"})
	}
	var req struct {
		Name        string  `json:"name"`
		Description *string `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	ctx := c.Request().Context()
	if err := h.FestivalRepo.UpdateMeta(ctx, id, req.Name, req.Description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "festival not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update festival failed"})
	}
	f, err := h.FestivalRepo.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load festival failed"})
	}
	return c.JSON(http.StatusOK, f)
}

// DeleteFestival handles DELETE /v1/festivals/:id.  Deletion is refused
// with 409 while any booth of the festival has an active reservation.
func (h *AdminHandler) DeleteFestival(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid festival id"})
	}
	if err := h.Engine.DeleteFestival(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, booking.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "festival not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "festival has active reservations"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete festival failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// ListFestivalReservations handles GET /v1/festivals/:id/reservations.
// Returns every reservation of the festival, newest first, including
// terminal ones so admins can audit history.
func (h *AdminHandler) ListFestivalReservations(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid festival id"})
	}
	ctx := c.Request().Context()
	if _, err := h.FestivalRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrFestivalNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "festival not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	items, err := h.ReservationRepo.ListByFestival(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load reservations failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
