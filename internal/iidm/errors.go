package iidm

import "errors"

// Domain errors for the iidm package.
var (
	// ErrInvalidEnum is returned when a closed string field holds an unknown value.
	ErrInvalidEnum = errors.New("iidm: invalid enum value")

	// ErrInvalidNetwork is returned when a network document cannot be decoded.
	ErrInvalidNetwork = errors.New("iidm: invalid network")
)
