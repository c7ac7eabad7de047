package repository

import "errors"

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("not found")

// ErrVersionConflict is returned when a guarded seat-map write lost the race:
// the show's version changed between read and write. Callers re-read and
// retry or report a conflict.
var ErrVersionConflict = errors.New("seat map version conflict")
