package service

import "errors"

// Sentinel kinds for application errors.
var (
	// ErrInvalidInput marks a malformed draft or request field.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEventFull is returned when a join would exceed capacity.
	ErrEventFull = errors.New("event is full")

	// ErrPlayerExists is returned when a joining name is already taken.
	ErrPlayerExists = errors.New("player already joined")

	// ErrPlayerNotFound is returned for operations naming an unknown player.
	ErrPlayerNotFound = errors.New("player not found")

	// ErrTeamsLocked is returned when a shuffle hits a locked event.
	ErrTeamsLocked = errors.New("teams are locked")

	// ErrUnauthorized is returned when the supplied admin token does not
	// match the event's.
	ErrUnauthorized = errors.New("admin token mismatch")
)
