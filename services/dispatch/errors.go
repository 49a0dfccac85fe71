package dispatch

import "errors"

var (
	// ErrMissingParameters is returned when the request lacks a shop id or date.
	ErrMissingParameters = errors.New("shop id and date are required")

	// ErrInvalidPhone marks a phone string that cannot be canonicalized.
	ErrInvalidPhone = errors.New("invalid phone number")

	// ErrDispatchInProgress is returned when another batch currently holds
	// the lease for the same shop and date.
	ErrDispatchInProgress = errors.New("dispatch already in progress for this shop and date")
)
