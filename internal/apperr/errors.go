package apperr

import "errors"

// ErrInvalid is returned when the input fails validation before touching storage.
var ErrInvalid = errors.New("invalid input")

// ErrNotFound indicates that the requested order or courier record does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict indicates an optimistic concurrency collision: the stored status
// no longer matches what the caller expected.
var ErrConflict = errors.New("conflict")

// ErrInvalidTransition is returned when the requested status edge is not legal
// from the order's current status.
var ErrInvalidTransition = errors.New("invalid transition")

// ErrInvalidState is returned when a write would break a record invariant.
var ErrInvalidState = errors.New("invalid state")

// ErrUnavailable indicates that a downstream dependency could not be reached.
// It is the only class a caller may retry.
var ErrUnavailable = errors.New("unavailable")

// ErrForbidden is returned when the authenticated caller may not act as the given actor.
var ErrForbidden = errors.New("forbidden")
