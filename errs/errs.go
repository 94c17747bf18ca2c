// Package errs defines the sentinel errors returned by td512.
//
// Errors are wrapped with additional context where useful, so callers
// should compare with errors.Is rather than ==.
package errs

import "errors"

var (
	// ErrInvalidLength is returned when a block length is outside [1, 512].
	ErrInvalidLength = errors.New("invalid block length")
	// ErrBufferTooSmall is returned when a destination cannot hold a required write.
	ErrBufferTooSmall = errors.New("buffer too small")
	// ErrCorruptHeader is returned when a block header carries an unknown mode or variant,
	// an out-of-range declared length, or is truncated.
	ErrCorruptHeader = errors.New("corrupt block header")
	// ErrCorruptPayload is returned when a payload is truncated or inconsistent with its header.
	ErrCorruptPayload = errors.New("corrupt block payload")
)
