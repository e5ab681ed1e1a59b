// Package domain provides shared domain-level sentinel errors.
package domain

import "errors"

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict indicates a write conflict (e.g. a unique constraint violation).
var ErrConflict = errors.New("conflict: resource already exists or was modified")

// ErrValidation indicates invalid input from the caller.
var ErrValidation = errors.New("validation")
