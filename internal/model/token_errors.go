package model

import "errors"

// Every token failure resolves to "treat the request as unauthenticated".
// The distinction only matters for logging and stats.
var (
	ErrTokenMissing   = errors.New("credential missing")
	ErrTokenMalformed = errors.New("credential malformed")
	ErrTokenExpired   = errors.New("credential expired")
)
