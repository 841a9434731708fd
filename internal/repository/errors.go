// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a resource owned by someone
// else, while ErrConflict signals that an operation cannot proceed
// because of existing dependent records (e.g. a date overlap or a
// duplicate completed payment).
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a create or update cannot be
// performed because of conflicting state, such as booking a hall
// for dates that overlap an existing non-cancelled booking or
// paying a booking that already has a completed payment. Handlers
// should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
