package metadata

import "errors"

var (
	// ErrNoProbers is returned when a resolver has nothing to ask.
	ErrNoProbers = errors.New("metadata: no probers configured")

	// ErrBadDuration is returned by ParseDuration for unparseable values.
	ErrBadDuration = errors.New("metadata: unrecognized duration")
)
