// Package handler exposes the HTTP surface of the ticketing engine.
// This file defines the public browse endpoints: the show listing and
// the hall layout with real-time seat availability.  No
// authentication is required; the seat map is never cached because
// effective status folds hold expiry at read time.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/fromsaurav/High-Volume-Ticketing-Engine/internal/engine"
	"github.com/fromsaurav/High-Volume-Ticketing-Engine/internal/repository"
)

// BrowseHandler aggregates the dependencies needed for unauthenticated
// browsing: show details from the catalog and seat statuses from the
// engine's status reader.
type BrowseHandler struct {
	Engine *engine.Engine
	Shows  ShowCatalog
}

// NewBrowseHandler constructs a BrowseHandler.
func NewBrowseHandler(eng *engine.Engine, shows ShowCatalog) *BrowseHandler {
	if eng == nil || shows == nil {
		panic("nil dependency passed to NewBrowseHandler")
	}
	return &BrowseHandler{Engine: eng, Shows: shows}
}

// ListShows handles GET /api/shows.  It returns all upcoming active
// shows with movie, hall and venue names.
func (h *BrowseHandler) ListShows(c echo.Context) error {
	shows, err := h.Shows.ListUpcoming(c.Request().Context())
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "StorageFailure", "failed to load shows")
	}
	return c.JSON(http.StatusOK, echo.Map{"items": shows})
}

// HallLayout handles GET /api/hall-layout/:show_id.  It returns the
// show header together with every bookable seat and its effective
// status (AVAILABLE, LOCKED, BOOKED).  Expired holds always read as
// AVAILABLE, whether or not the stale row has been swept yet.
func (h *BrowseHandler) HallLayout(c echo.Context) error {
	showID, err := strconv.ParseUint(c.Param("show_id"), 10, 64)
	if err != nil || showID == 0 {
		return errorJSON(c, http.StatusBadRequest, "BadRequest", "invalid show id")
	}

	ctx := c.Request().Context()
	detail, err := h.Shows.GetDetail(ctx, showID)
	if err != nil {
		if errors.Is(err, repository.ErrShowNotFound) {
			return errorJSON(c, http.StatusNotFound, "NotFound", "show not found")
		}
		return errorJSON(c, http.StatusInternalServerError, "StorageFailure", "failed to load show")
	}

	seats, err := h.Engine.SeatMap(ctx, showID)
	if err != nil {
		if errors.Is(err, engine.ErrNotFound) {
			return errorJSON(c, http.StatusNotFound, "NotFound", "show not found")
		}
		return errorJSON(c, http.StatusInternalServerError, "StorageFailure", "failed to load seat map")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"show_id":       detail.ID,
		"movie_title":   detail.MovieTitle,
		"hall_name":     detail.HallName,
		"venue_name":    detail.VenueName,
		"start_time":    detail.StartTime,
		"price_cents":   detail.PriceCents,
		"total_rows":    detail.TotalRows,
		"seats_per_row": detail.SeatsPerRow,
		"seats":         seats,
	})
}
