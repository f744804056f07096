package service

import "errors"

var (
	// ErrNotFound marks a missing reservation, table or restaurant.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a time-interval overlap on the requested table.
	ErrConflict = errors.New("table already reserved for that time")
	// ErrSlotFull marks a slot whose guest ceiling would be exceeded.
	ErrSlotFull = errors.New("time slot is full")
	// ErrInvalidTransition marks a disallowed status change.
	ErrInvalidTransition = errors.New("invalid status transition")
)
