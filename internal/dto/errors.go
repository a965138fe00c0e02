package dto

import "errors"

// Failure kinds surfaced by the market data path. Wrap with %w so callers can use errors.Is.
var (
	// ErrDataUnavailable means the upstream fetch failed or returned an empty or malformed payload.
	ErrDataUnavailable = errors.New("market data unavailable")
	// ErrInvalidInput means a candle field or the reference price cannot be used.
	ErrInvalidInput = errors.New("invalid input")
	// ErrZeroBaseline guards the percent change division.
	ErrZeroBaseline = errors.New("baseline price is zero")
)
