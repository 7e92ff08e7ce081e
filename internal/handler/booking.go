package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/fromsaurav/High-Volume-Ticketing-Engine/internal/engine"
	"github.com/fromsaurav/High-Volume-Ticketing-Engine/internal/model"
	"github.com/fromsaurav/High-Volume-Ticketing-Engine/internal/queue"
	"github.com/fromsaurav/High-Volume-Ticketing-Engine/internal/repository"
	queue_publisher "github.com/fromsaurav/High-Volume-Ticketing-Engine/internal/service"
)

// ShowCatalog is the slice of the show repository the handlers read.
// repository.ShowRepo satisfies it.
type ShowCatalog interface {
	GetDetail(ctx context.Context, showID uint64) (*repository.ShowDetail, error)
	ListUpcoming(ctx context.Context) ([]repository.ShowDetail, error)
}

// SeatLookup resolves seat IDs to their catalog records.
// repository.SeatRepo satisfies it.
type SeatLookup interface {
	GetByID(ctx context.Context, id uint64) (*model.Seat, error)
}

// BookingHandler exposes the lock/confirm/release protocol over HTTP.
// The engine is the single authority on seat state; the handler only
// translates outcomes into status codes: Conflict and NotHeld map to
// 409, LockExpired to 410, unknown show/seat to 404.
type BookingHandler struct {
	Engine  *engine.Engine
	Shows   ShowCatalog
	Seats   SeatLookup
	HoldTTL time.Duration // caller-visible hold duration, HOLD_TTL env (default 5m)

	// Publish emits the booking.confirmed event after a successful
	// confirmation.  Best-effort; errors are ignored.
	Publish func(ctx context.Context, event queue.BookingConfirmedEvent) error
}

// NewBookingHandler constructs a BookingHandler.  All dependencies
// must be non-nil; a zero holdTTL falls back to the engine default.
func NewBookingHandler(eng *engine.Engine, shows ShowCatalog, seats SeatLookup, holdTTL time.Duration) *BookingHandler {
	if eng == nil || shows == nil || seats == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	if holdTTL <= 0 {
		holdTTL = engine.DefaultHoldTTL
	}
	return &BookingHandler{
		Engine:  eng,
		Shows:   shows,
		Seats:   seats,
		HoldTTL: holdTTL,
		Publish: queue_publisher.PublishBookingConfirmed,
	}
}

// seatRequest is the shared body of the lock, confirm and release
// endpoints.
type seatRequest struct {
	ShowID      uint64 `json:"show_id"`
	SeatID      uint64 `json:"seat_id"`
	HolderToken string `json:"holder_token"`
}

// bindSeatRequest parses and validates the request body.  When a
// holder identity was established by middleware (Bearer token) it
// overrides any token in the body, so an authenticated session cannot
// act on another caller's hold.
func bindSeatRequest(c echo.Context) (*seatRequest, error) {
	var req seatRequest
	if err := c.Bind(&req); err != nil {
		return nil, errors.New("invalid request body")
	}
	if req.ShowID == 0 || req.SeatID == 0 {
		return nil, errors.New("show_id and seat_id are required")
	}
	if v, ok := c.Get("holder_token").(string); ok && v != "" {
		req.HolderToken = v
	}
	return &req, nil
}

// errorJSON writes the uniform error body shape.
func errorJSON(c echo.Context, code int, reason, message string) error {
	return c.JSON(code, echo.Map{
		"status":  "error",
		"reason":  reason,
		"message": message,
	})
}

// LockSeat handles POST /api/lock-seat.  It atomically awards a
// temporary hold on the seat for the configured TTL.  Anonymous
// callers that supply no holder token are minted one; the token must
// be presented again to confirm or release.  A seat that is booked or
// validly held by someone else yields 409 with no side effect.
func (h *BookingHandler) LockSeat(c echo.Context) error {
	req, err := bindSeatRequest(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "BadRequest", err.Error())
	}
	if req.HolderToken == "" {
		req.HolderToken = uuid.NewString()
	}

	ctx := c.Request().Context()
	res, err := h.Engine.AcquireHold(ctx, req.ShowID, req.SeatID, req.HolderToken, h.HoldTTL)
	switch {
	case errors.Is(err, engine.ErrNotFound):
		return errorJSON(c, http.StatusNotFound, "NotFound", "show or seat not found")
	case errors.Is(err, engine.ErrConflict):
		return errorJSON(c, http.StatusConflict, "Conflict", "seat is held or booked by another user")
	case err != nil:
		return errorJSON(c, http.StatusInternalServerError, "StorageFailure", "failed to lock seat")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":       "success",
		"message":      "seat locked",
		"booking_id":   res.ID,
		"holder_token": req.HolderToken,
		"expires_at":   res.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// ConfirmSeat handles POST /api/confirm-seat.  It finalizes the
// caller's hold into a booking; confirmation stands in for the
// payment success signal.  The distinction between outcomes matters
// to clients: 409 Conflict means someone else got the seat, 410
// LockExpired means the caller was too slow and must re-acquire.
func (h *BookingHandler) ConfirmSeat(c echo.Context) error {
	req, err := bindSeatRequest(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "BadRequest", err.Error())
	}
	if req.HolderToken == "" {
		return errorJSON(c, http.StatusBadRequest, "BadRequest", "holder_token is required")
	}

	ctx := c.Request().Context()
	res, err := h.Engine.ConfirmBooking(ctx, req.ShowID, req.SeatID, req.HolderToken)
	switch {
	case errors.Is(err, engine.ErrConflict):
		return errorJSON(c, http.StatusConflict, "Conflict", "seat is already booked by another user")
	case errors.Is(err, engine.ErrNotHeld):
		return errorJSON(c, http.StatusConflict, "NotHeld", "no active hold for this caller")
	case errors.Is(err, engine.ErrLockExpired):
		return errorJSON(c, http.StatusGone, "LockExpired", "hold expired, re-acquire the seat")
	case err != nil:
		return errorJSON(c, http.StatusInternalServerError, "StorageFailure", "failed to confirm booking")
	}

	seatLabel := ""
	if seat, err := h.Seats.GetByID(ctx, res.SeatID); err == nil {
		seatLabel = seat.Label()
	}
	h.publishConfirmed(c, res.ID, req.ShowID, req.SeatID, seatLabel)

	return c.JSON(http.StatusOK, echo.Map{
		"status":     "success",
		"message":    "seat booked successfully",
		"booking_id": res.ID,
		"seat":       seatLabel,
	})
}

// ReleaseLock handles POST /api/release-lock.  Releasing is
// idempotent: a hold that is already gone (released earlier or
// expired) still reports success so client retries are harmless.
// Only an active hold under a different token is refused.
func (h *BookingHandler) ReleaseLock(c echo.Context) error {
	req, err := bindSeatRequest(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "BadRequest", err.Error())
	}
	if req.HolderToken == "" {
		return errorJSON(c, http.StatusBadRequest, "BadRequest", "holder_token is required")
	}

	ctx := c.Request().Context()
	err = h.Engine.ReleaseHold(ctx, req.ShowID, req.SeatID, req.HolderToken)
	switch {
	case errors.Is(err, engine.ErrNotHeld):
		return errorJSON(c, http.StatusConflict, "NotHeld", "seat is not held by this caller")
	case err != nil:
		return errorJSON(c, http.StatusInternalServerError, "StorageFailure", "failed to release lock")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":  "success",
		"message": "seat lock released",
	})
}

// publishConfirmed emits the booking.confirmed event.  Publishing is
// best-effort: the booking is already durable, so a broker outage
// must never fail the request.
func (h *BookingHandler) publishConfirmed(c echo.Context, bookingID, showID, seatID uint64, seatLabel string) {
	if h.Publish == nil {
		return
	}
	ctx := c.Request().Context()
	ev := queue.BookingConfirmedEvent{
		BookingID:   bookingID,
		ShowID:      showID,
		SeatID:      seatID,
		SeatLabel:   seatLabel,
		ConfirmedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if detail, err := h.Shows.GetDetail(ctx, showID); err == nil {
		ev.MovieTitle = detail.MovieTitle
		ev.HallName = detail.HallName
		ev.VenueName = detail.VenueName
		ev.StartsAt = detail.StartTime.Format(time.RFC3339)
		ev.PriceCents = detail.PriceCents
	}
	_ = h.Publish(ctx, ev)
}
