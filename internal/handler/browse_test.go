package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getLayout(t *testing.T, browse *BrowseHandler, showID string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/hall-layout/:show_id")
	c.SetParamNames("show_id")
	c.SetParamValues(showID)
	require.NoError(t, browse.HallLayout(c))

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec, out
}

func TestListShows(t *testing.T) {
	_, browse, _ := newTestHandlers(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/shows", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, browse.ListShows(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Items []map[string]any `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Interstellar", out.Items[0]["movie_title"])
}

func TestHallLayoutStatuses(t *testing.T) {
	booking, browse, _ := newTestHandlers(t)

	// Seat 10 locked, seat 11 booked, seat 12 untouched.
	rec, _ := postJSON(t, booking.LockSeat, lockBody(1, 10, "alice"))
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = postJSON(t, booking.LockSeat, lockBody(1, 11, "bob"))
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = postJSON(t, booking.ConfirmSeat, lockBody(1, 11, "bob"))
	require.Equal(t, http.StatusOK, rec.Code)

	recL, out := getLayout(t, browse, "1")
	assert.Equal(t, http.StatusOK, recL.Code)
	assert.Equal(t, "Interstellar", out["movie_title"])

	seats, ok := out["seats"].([]any)
	require.True(t, ok)
	require.Len(t, seats, 3)

	statuses := make(map[float64]string)
	for _, raw := range seats {
		s := raw.(map[string]any)
		statuses[s["seat_id"].(float64)] = s["status"].(string)
	}
	assert.Equal(t, "LOCKED", statuses[10])
	assert.Equal(t, "BOOKED", statuses[11])
	assert.Equal(t, "AVAILABLE", statuses[12])
}

func TestHallLayoutExpiredHoldReadsAvailable(t *testing.T) {
	booking, browse, _ := newTestHandlers(t)
	booking.HoldTTL = 30 * time.Millisecond

	rec, _ := postJSON(t, booking.LockSeat, lockBody(1, 10, "alice"))
	require.Equal(t, http.StatusOK, rec.Code)
	time.Sleep(50 * time.Millisecond)

	_, out := getLayout(t, browse, "1")
	seats := out["seats"].([]any)
	for _, raw := range seats {
		s := raw.(map[string]any)
		if s["seat_id"].(float64) == 10 {
			assert.Equal(t, "AVAILABLE", s["status"])
			_, hasExpiry := s["expires_at"]
			assert.False(t, hasExpiry)
		}
	}
}

func TestHallLayoutNotFound(t *testing.T) {
	_, browse, _ := newTestHandlers(t)

	rec, out := getLayout(t, browse, "42")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NotFound", out["reason"])
}

func TestHallLayoutBadID(t *testing.T) {
	_, browse, _ := newTestHandlers(t)

	rec, out := getLayout(t, browse, "abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BadRequest", out["reason"])
}
