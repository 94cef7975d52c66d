package handler

import (
	"errors"   // errors.Is comparisons
	"net/http" // HTTP status codes
	"strings"  // input trimming

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/festival-booth-reservation/internal/booking"
	"github.com/iliyamo/festival-booth-reservation/internal/model"
	"github.com/iliyamo/festival-booth-reservation/internal/repository"
)

// CustomerHandler serves reservation endpoints for authenticated
// exhibitors.  All methods assume that JWT authentication has already
// been performed by middleware; they may still return 401 when the user
// ID cannot be extracted from the context.
type CustomerHandler struct {
	Engine          *booking.Engine
	ReservationRepo *repository.ReservationRepo
}

// NewCustomerHandler constructs a CustomerHandler.  All dependencies
// must be non-nil.
func NewCustomerHandler(engine *booking.Engine, reservationRepo *repository.ReservationRepo) *CustomerHandler {
	if engine == nil || reservationRepo == nil {
		panic("nil dependency passed to NewCustomerHandler")
	}
	return &CustomerHandler{Engine: engine, ReservationRepo: reservationRepo}
}

type reserveReq struct {
	BoothID          uint64  `json:"booth_id"`
	FirstName        string  `json:"first_name"`
	LastName         string  `json:"last_name"`
	NationalCode     string  `json:"national_code"`
	Phone            string  `json:"phone"`
	Email            *string `json:"email"`
	Address          string  `json:"address"`
	CompanyName      *string `json:"company_name"`
	CompanyRegNumber *string `json:"company_reg_number"`
	ActivityType     *string `json:"activity_type"`
	ReceiptRef       string  `json:"receipt_ref"`
	Description      *string `json:"description"`
}

// CreateReservation handles POST /v1/reservations.  It claims the booth
// for the current user; the booth moves to RESERVED and the request
// waits for an admin decision.  Of several concurrent requests on one
// booth exactly one succeeds.
func (h *CustomerHandler) CreateReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req reserveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.BoothID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booth_id is required"})
	}
	details := model.ReservationDetails{
		FirstName:        strings.TrimSpace(req.FirstName),
		LastName:         strings.TrimSpace(req.LastName),
		NationalCode:     strings.TrimSpace(req.NationalCode),
		Phone:            strings.TrimSpace(req.Phone),
		Email:            req.Email,
		Address:          strings.TrimSpace(req.Address),
		CompanyName:      req.CompanyName,
		CompanyRegNumber: req.CompanyRegNumber,
		ActivityType:     req.ActivityType,
		ReceiptRef:       strings.TrimSpace(req.ReceiptRef),
		Description:      req.Description,
	}
	if details.FirstName == "" || details.LastName == "" || details.Phone == "" ||
		details.NationalCode == "" || details.Address == "" || details.ReceiptRef == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "first_name, last_name, national_code, phone, address and receipt_ref are required"})
	}

	res, err := h.Engine.Reserve(c.Request().Context(), req.BoothID, userID, details)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booth not found"})
		case errors.Is(err, booking.ErrDuplicateRequest):
			return c.JSON(http.StatusConflict, echo.Map{"error": "you already have an active request for this booth"})
		case errors.Is(err, booking.ErrBoothUnavailable):
			return c.JSON(http.StatusConflict, echo.Map{"error": "booth is not available"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create reservation failed"})
		}
	}
	return c.JSON(http.StatusCreated, res)
}

// ListReservations handles GET /v1/my-reservations.  It returns all
// reservations created by the current user along with booth and
// festival details, newest first.  An empty array when none exist.
func (h *CustomerHandler) ListReservations(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.ReservationRepo.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetReservation handles GET /v1/reservations/:id.  Owners see their
// own reservations only; a foreign ID responds 404 rather than 403 so
// the endpoint does not leak which IDs exist.
func (h *CustomerHandler) GetReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.ReservationRepo.GetByID(c.Request().Context(), resID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch reservation"})
	}
	if res.UserID != userID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": res})
}

// CancelReservation handles DELETE /v1/reservations/:id.  Exhibitors
// may withdraw their own request only while it is still PENDING; an
// approved reservation requires an admin.
func (h *CustomerHandler) CancelReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	_, err = h.Engine.Cancel(c.Request().Context(), resID, booking.Actor{UserID: userID})
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case errors.Is(err, booking.ErrNotCancellable):
			return c.JSON(http.StatusConflict, echo.Map{"error": "reservation can no longer be cancelled"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel reservation failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
