// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a seat is successfully
// booked.  It carries enough context for downstream consumers to log,
// notify, or feed analytics without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID   uint64 `json:"booking_id"`
	ShowID      uint64 `json:"show_id"`
	SeatID      uint64 `json:"seat_id"`
	SeatLabel   string `json:"seat"`
	MovieTitle  string `json:"movie_title"`
	HallName    string `json:"hall_name"`
	VenueName   string `json:"venue_name"`
	StartsAt    string `json:"starts_at"`
	PriceCents  uint32 `json:"price_cents"`
	ConfirmedAt string `json:"confirmed_at"`
}
