package service

import "errors"

var (
	// ErrUnauthorized is returned when reply generation is requested by
	// a caller who does not own the target email's account.
	ErrUnauthorized = errors.New("caller does not own this email")

	// ErrUnrecognizedCategory is returned when the classification
	// capability answered with a string outside the closed category
	// set. The email stays unclassified; the response is never coerced
	// into a default category.
	ErrUnrecognizedCategory = errors.New("classifier returned unrecognized category")

	// ErrCapabilityUnavailable is returned when the AI capability could
	// not be reached or answered with an error. No partial write
	// happens.
	ErrCapabilityUnavailable = errors.New("ai capability unavailable")
)
