package tally

import "errors"

var (
	// ErrSourceUnavailable is returned when the log cannot be opened or read.
	ErrSourceUnavailable = errors.New("log source unavailable")

	// ErrInvalidMode is returned for a mode that cannot be built from the
	// given configuration.
	ErrInvalidMode = errors.New("invalid mode")
)
