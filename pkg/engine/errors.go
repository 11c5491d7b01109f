package engine

import "errors"

var (
	// ErrNoMedia is returned when a transport call needs media and none is set.
	ErrNoMedia = errors.New("engine: no media set")

	// ErrMediaOpen is returned when play cannot open the current media.
	ErrMediaOpen = errors.New("engine: media open failed")

	// ErrSeek is returned when both the fast seek and the full re-init fail.
	ErrSeek = errors.New("engine: seek failed")

	// ErrInvalidRate is returned for non-positive playback rates.
	ErrInvalidRate = errors.New("engine: playback rate must be positive")
)
