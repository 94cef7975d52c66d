package handler

import (
	"context"  // detached context for best-effort event publishing
	"errors"   // errors.Is comparisons
	"net/http" // HTTP status codes
	"time"     // event timestamps

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/festival-booth-reservation/internal/booking"
	"github.com/iliyamo/festival-booth-reservation/internal/model"
	"github.com/iliyamo/festival-booth-reservation/internal/queue"
	"github.com/iliyamo/festival-booth-reservation/internal/repository"
	queue_publisher "github.com/iliyamo/festival-booth-reservation/internal/service"
)

// Decide handles PUT /v1/reservations/:id/decision.  The body selects
// the outcome: {"approve": true} confirms the booth, {"approve": false}
// rejects the request and frees it.  Only PENDING reservations can be
// decided; repeats return 409.
func (h *AdminHandler) Decide(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req struct {
		Approve *bool `json:"approve"`
	}
	if err := c.Bind(&req); err != nil || req.Approve == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "approve is required"})
	}
	res, err := h.Engine.Decide(c.Request().Context(), id, *req.Approve)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		case errors.Is(err, booking.ErrNotPending):
			return c.JSON(http.StatusConflict, echo.Map{"error": "reservation already decided"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "decide reservation failed"})
		}
	}
	h.publishDecision(res, string(res.State))
	return c.JSON(http.StatusOK, res)
}

// CancelReservation handles DELETE /v1/admin/reservations/:id.  Admins
// may void both PENDING and APPROVED reservations; the booth returns to
// FREE either way.
func (h *AdminHandler) CancelReservation(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	adminID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	res, err := h.Engine.Cancel(c.Request().Context(), id, booking.Actor{UserID: adminID, Privileged: true})
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		case errors.Is(err, booking.ErrNotCancellable):
			return c.JSON(http.StatusConflict, echo.Map{"error": "reservation already settled"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel reservation failed"})
		}
	}
	h.publishDecision(res, string(model.ReservationCancelled))
	return c.NoContent(http.StatusNoContent)
}

// publishDecision emits a ReservationDecidedEvent for the settled
// reservation.  Failures are ignored: the state change is already
// committed and the queue is a best-effort side channel.
func (h *AdminHandler) publishDecision(res *model.Reservation, outcome string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ev := queue.ReservationDecidedEvent{
		ReservationID: res.ID,
		UserID:        res.UserID,
		BoothID:       res.BoothID,
		Outcome:       outcome,
		DecidedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	if booth, err := h.BoothRepo.GetByID(ctx, res.BoothID); err == nil {
		ev.BoothName = booth.Name
		ev.FestivalID = booth.FestivalID
		ev.PriceCents = booth.PriceCents
		if f, err := h.FestivalRepo.GetByID(ctx, booth.FestivalID); err == nil {
			ev.FestivalName = f.Name
		}
	} else if !errors.Is(err, repository.ErrBoothNotFound) {
		return
	}
	_ = queue_publisher.PublishReservationDecided(ctx, ev)
}
