// Package repository provides database/sql data access for the
// catalog tables and the reservations table.  The reservation
// repository implements the engine's store interface: every state
// transition runs inside a transaction holding a row lock on the
// target (show, seat) key, so the check and the write form one
// indivisible unit.  Sentinel errors let handlers distinguish
// failure scenarios without inspecting driver errors.
package repository

import "errors"

// ErrShowNotFound is returned when a referenced show does not exist
// or is inactive.  Handlers translate it into HTTP 404.
var ErrShowNotFound = errors.New("show not found")

// ErrSeatNotFound is returned when a referenced seat does not exist,
// is inactive, or does not belong to the show's hall.  Handlers
// translate it into HTTP 404.
var ErrSeatNotFound = errors.New("seat not found")
