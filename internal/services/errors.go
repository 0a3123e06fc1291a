// Package services defines the business logic for inquiries.
// This file centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import "errors"

// ErrValidation wraps every input error so handlers can map the whole family
// to 400 with a single errors.Is check.
var ErrValidation = errors.New("validation failed")

// Field-level validation errors. Each is returned wrapped in ErrValidation.
var (
	// ErrNameRequired is returned when the name is empty after trimming.
	ErrNameRequired = errors.New("name is required")

	// ErrTitleRequired is returned when the title is empty after trimming.
	ErrTitleRequired = errors.New("title is required")

	// ErrMessageRequired is returned when the message is empty after trimming.
	ErrMessageRequired = errors.New("message is required")
)

// ErrIdempotencyConflict is returned when an Idempotency-Key was claimed by a
// concurrent request that has not finished yet.
var ErrIdempotencyConflict = errors.New("idempotency key in use")

// ErrIdempotencyMismatch is returned when an Idempotency-Key is presented
// again with a payload that differs from the one it was first used with.
var ErrIdempotencyMismatch = errors.New("idempotency key reused with a different payload")
