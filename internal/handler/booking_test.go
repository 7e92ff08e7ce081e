package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fromsaurav/High-Volume-Ticketing-Engine/internal/engine"
	"github.com/fromsaurav/High-Volume-Ticketing-Engine/internal/model"
	"github.com/fromsaurav/High-Volume-Ticketing-Engine/internal/queue"
	"github.com/fromsaurav/High-Volume-Ticketing-Engine/internal/repository"
)

type seatKey struct {
	showID uint64
	seatID uint64
}

// fakeStore is a minimal in-memory engine.ReservationStore with the
// same transition rules as the SQL repository.
type fakeStore struct {
	mu     sync.Mutex
	rows   map[seatKey]*model.Reservation
	nextID uint64
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[seatKey]*model.Reservation)}
}

func (s *fakeStore) Get(ctx context.Context, showID, seatID uint64) (*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r := s.rows[seatKey{showID, seatID}]; r != nil {
		cp := *r
		return &cp, nil
	}
	return nil, nil
}

func (s *fakeStore) AcquireHold(ctx context.Context, showID, seatID uint64, holderToken string, expiresAt time.Time) (*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	key := seatKey{showID, seatID}
	if r := s.rows[key]; r != nil {
		if r.Status == model.StatusBooked || (!r.Expired(now) && r.HolderToken != holderToken) {
			return nil, engine.ErrConflict
		}
		r.HolderToken = holderToken
		r.ExpiresAt = &expiresAt
		cp := *r
		return &cp, nil
	}
	s.nextID++
	r := &model.Reservation{
		ID: s.nextID, ShowID: showID, SeatID: seatID,
		Status: model.StatusLocked, HolderToken: holderToken, ExpiresAt: &expiresAt,
	}
	s.rows[key] = r
	cp := *r
	return &cp, nil
}

func (s *fakeStore) ConfirmHold(ctx context.Context, showID, seatID uint64, holderToken string) (*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	r := s.rows[seatKey{showID, seatID}]
	switch {
	case r == nil:
		return nil, engine.ErrNotHeld
	case r.Status == model.StatusBooked:
		return nil, engine.ErrConflict
	case r.Expired(now) && r.HolderToken == holderToken:
		return nil, engine.ErrLockExpired
	case r.Expired(now) || r.HolderToken != holderToken:
		return nil, engine.ErrNotHeld
	}
	r.Status = model.StatusBooked
	r.ExpiresAt = nil
	cp := *r
	return &cp, nil
}

func (s *fakeStore) ReleaseHold(ctx context.Context, showID, seatID uint64, holderToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	key := seatKey{showID, seatID}
	r := s.rows[key]
	switch {
	case r == nil:
		return nil
	case r.Status == model.StatusBooked:
		return engine.ErrNotHeld
	case r.Expired(now):
		delete(s.rows, key)
		return nil
	case r.HolderToken != holderToken:
		return engine.ErrNotHeld
	}
	delete(s.rows, key)
	return nil
}

func (s *fakeStore) ListByShow(ctx context.Context, showID uint64) (map[uint64]*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[uint64]*model.Reservation)
	for k, r := range s.rows {
		if k.showID == showID {
			cp := *r
			out[k.seatID] = &cp
		}
	}
	return out, nil
}

func (s *fakeStore) DeleteExpired(ctx context.Context) (int64, error) { return 0, nil }

// fakeCatalog serves one show with three seats named A1..A3.
type fakeCatalog struct{ showID uint64 }

func (c *fakeCatalog) seatSet() []model.Seat {
	return []model.Seat{
		{ID: 10, RowLabel: "A", SeatNumber: 1, SeatType: model.SeatTypeRegular, IsActive: true},
		{ID: 11, RowLabel: "A", SeatNumber: 2, SeatType: model.SeatTypeRegular, IsActive: true},
		{ID: 12, RowLabel: "A", SeatNumber: 3, SeatType: model.SeatTypeRecliner, IsActive: true},
	}
}

func (c *fakeCatalog) SeatExistsForShow(ctx context.Context, showID, seatID uint64) (bool, error) {
	if showID != c.showID {
		return false, nil
	}
	for _, s := range c.seatSet() {
		if s.ID == seatID {
			return true, nil
		}
	}
	return false, nil
}

func (c *fakeCatalog) SeatsForShow(ctx context.Context, showID uint64) ([]model.Seat, error) {
	if showID != c.showID {
		return nil, engine.ErrNotFound
	}
	return c.seatSet(), nil
}

func (c *fakeCatalog) GetByID(ctx context.Context, id uint64) (*model.Seat, error) {
	for _, s := range c.seatSet() {
		if s.ID == id {
			cp := s
			return &cp, nil
		}
	}
	return nil, repository.ErrSeatNotFound
}

// fakeShows serves a single show detail record.
type fakeShows struct{ showID uint64 }

func (f *fakeShows) detail() *repository.ShowDetail {
	return &repository.ShowDetail{
		ID:          f.showID,
		MovieTitle:  "Interstellar",
		HallName:    "IMAX Hall",
		VenueName:   "PVR Phoenix Mall",
		StartTime:   time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC),
		PriceCents:  35000,
		TotalRows:   1,
		SeatsPerRow: 3,
	}
}

func (f *fakeShows) GetDetail(ctx context.Context, showID uint64) (*repository.ShowDetail, error) {
	if showID != f.showID {
		return nil, repository.ErrShowNotFound
	}
	return f.detail(), nil
}

func (f *fakeShows) ListUpcoming(ctx context.Context) ([]repository.ShowDetail, error) {
	return []repository.ShowDetail{*f.detail()}, nil
}

type publishRecorder struct {
	mu     sync.Mutex
	events []queue.BookingConfirmedEvent
}

func (p *publishRecorder) publish(ctx context.Context, ev queue.BookingConfirmedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func newTestHandlers(t *testing.T) (*BookingHandler, *BrowseHandler, *publishRecorder) {
	t.Helper()
	catalog := &fakeCatalog{showID: 1}
	eng := engine.New(newFakeStore(), catalog)
	rec := &publishRecorder{}
	booking := NewBookingHandler(eng, &fakeShows{showID: 1}, catalog, time.Minute)
	booking.Publish = rec.publish
	browse := NewBrowseHandler(eng, &fakeShows{showID: 1})
	return booking, browse, rec
}

func postJSON(t *testing.T, h echo.HandlerFunc, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec, out
}

func lockBody(showID, seatID uint64, token string) string {
	return fmt.Sprintf(`{"show_id":%d,"seat_id":%d,"holder_token":%q}`, showID, seatID, token)
}

func TestLockSeatSuccess(t *testing.T) {
	booking, _, _ := newTestHandlers(t)

	rec, out := postJSON(t, booking.LockSeat, lockBody(1, 10, "alice"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", out["status"])
	assert.Equal(t, "alice", out["holder_token"])
	assert.NotZero(t, out["booking_id"])

	expires, err := time.Parse(time.RFC3339, out["expires_at"].(string))
	require.NoError(t, err)
	assert.True(t, expires.After(time.Now().UTC()))
}

func TestLockSeatMintsAnonymousToken(t *testing.T) {
	booking, _, _ := newTestHandlers(t)

	rec, out := postJSON(t, booking.LockSeat, `{"show_id":1,"seat_id":10}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	token, _ := out["holder_token"].(string)
	assert.NotEmpty(t, token)
}

func TestLockSeatValidation(t *testing.T) {
	booking, _, _ := newTestHandlers(t)

	rec, out := postJSON(t, booking.LockSeat, `{"seat_id":10}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BadRequest", out["reason"])

	rec, out = postJSON(t, booking.LockSeat, `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BadRequest", out["reason"])
}

func TestLockSeatNotFound(t *testing.T) {
	booking, _, _ := newTestHandlers(t)

	rec, out := postJSON(t, booking.LockSeat, lockBody(1, 999, "alice"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NotFound", out["reason"])

	rec, out = postJSON(t, booking.LockSeat, lockBody(42, 10, "alice"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NotFound", out["reason"])
}

func TestLockSeatConflict(t *testing.T) {
	booking, _, _ := newTestHandlers(t)

	rec, _ := postJSON(t, booking.LockSeat, lockBody(1, 10, "alice"))
	require.Equal(t, http.StatusOK, rec.Code)

	rec, out := postJSON(t, booking.LockSeat, lockBody(1, 10, "bob"))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Conflict", out["reason"])
}

func TestConfirmSeatSuccessPublishesEvent(t *testing.T) {
	booking, _, pub := newTestHandlers(t)

	rec, _ := postJSON(t, booking.LockSeat, lockBody(1, 10, "alice"))
	require.Equal(t, http.StatusOK, rec.Code)

	rec, out := postJSON(t, booking.ConfirmSeat, lockBody(1, 10, "alice"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", out["status"])
	assert.Equal(t, "A1", out["seat"])

	require.Len(t, pub.events, 1)
	ev := pub.events[0]
	assert.Equal(t, uint64(1), ev.ShowID)
	assert.Equal(t, uint64(10), ev.SeatID)
	assert.Equal(t, "A1", ev.SeatLabel)
	assert.Equal(t, "Interstellar", ev.MovieTitle)
	assert.Equal(t, uint32(35000), ev.PriceCents)
}

func TestConfirmSeatRequiresToken(t *testing.T) {
	booking, _, _ := newTestHandlers(t)

	rec, out := postJSON(t, booking.ConfirmSeat, `{"show_id":1,"seat_id":10}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BadRequest", out["reason"])
}

func TestConfirmSeatNotHeld(t *testing.T) {
	booking, _, pub := newTestHandlers(t)

	rec, out := postJSON(t, booking.ConfirmSeat, lockBody(1, 10, "alice"))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "NotHeld", out["reason"])
	assert.Empty(t, pub.events)
}

func TestConfirmSeatForeignHold(t *testing.T) {
	booking, _, _ := newTestHandlers(t)

	rec, _ := postJSON(t, booking.LockSeat, lockBody(1, 10, "alice"))
	require.Equal(t, http.StatusOK, rec.Code)

	rec, out := postJSON(t, booking.ConfirmSeat, lockBody(1, 10, "bob"))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "NotHeld", out["reason"])
}

func TestConfirmSeatAlreadyBooked(t *testing.T) {
	booking, _, _ := newTestHandlers(t)

	rec, _ := postJSON(t, booking.LockSeat, lockBody(1, 10, "alice"))
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = postJSON(t, booking.ConfirmSeat, lockBody(1, 10, "alice"))
	require.Equal(t, http.StatusOK, rec.Code)

	rec, out := postJSON(t, booking.ConfirmSeat, lockBody(1, 10, "alice"))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Conflict", out["reason"])
}

func TestConfirmSeatExpiredHold(t *testing.T) {
	booking, _, _ := newTestHandlers(t)
	booking.HoldTTL = 30 * time.Millisecond

	rec, _ := postJSON(t, booking.LockSeat, lockBody(1, 10, "alice"))
	require.Equal(t, http.StatusOK, rec.Code)
	time.Sleep(50 * time.Millisecond)

	rec, out := postJSON(t, booking.ConfirmSeat, lockBody(1, 10, "alice"))
	assert.Equal(t, http.StatusGone, rec.Code)
	assert.Equal(t, "LockExpired", out["reason"])
}

func TestReleaseLockSuccessAndIdempotent(t *testing.T) {
	booking, _, _ := newTestHandlers(t)

	rec, _ := postJSON(t, booking.LockSeat, lockBody(1, 10, "alice"))
	require.Equal(t, http.StatusOK, rec.Code)

	rec, out := postJSON(t, booking.ReleaseLock, lockBody(1, 10, "alice"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", out["status"])

	// Releasing again still succeeds.
	rec, _ = postJSON(t, booking.ReleaseLock, lockBody(1, 10, "alice"))
	assert.Equal(t, http.StatusOK, rec.Code)

	// And the seat is immediately lockable by someone else.
	rec, _ = postJSON(t, booking.LockSeat, lockBody(1, 10, "bob"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReleaseLockForeignHold(t *testing.T) {
	booking, _, _ := newTestHandlers(t)

	rec, _ := postJSON(t, booking.LockSeat, lockBody(1, 10, "alice"))
	require.Equal(t, http.StatusOK, rec.Code)

	rec, out := postJSON(t, booking.ReleaseLock, lockBody(1, 10, "bob"))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "NotHeld", out["reason"])
}

func TestHolderIdentityOverridesBodyToken(t *testing.T) {
	booking, _, _ := newTestHandlers(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(lockBody(1, 10, "spoofed")))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("holder_token", "session-alice")
	require.NoError(t, booking.LockSeat(c))

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "session-alice", out["holder_token"])
}
