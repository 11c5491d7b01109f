package ffmpegsource

import "errors"

var (
	// ErrDecoderInit is returned by Open when the media cannot be decoded.
	ErrDecoderInit = errors.New("ffmpegsource: decoder init failed")

	// ErrDecodeRead is reported by Err when decoding stopped early.
	ErrDecodeRead = errors.New("ffmpegsource: frame read failed")
)
