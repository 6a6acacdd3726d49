// Package scmaperr defines the small, fixed vocabulary of error kinds
// surfaced by the scmap container library. The binio, ddstexture, and scmap
// packages return these sentinels (optionally wrapped with fmt.Errorf for
// context) so callers can test the kind with errors.Is rather than parsing
// a message or inspecting file/line information.
package scmaperr

import "errors"

var (
	// ErrTruncated means a stream ended before a required field completed.
	ErrTruncated = errors.New("scmap: truncated stream")

	// ErrMalformedHeader means a magic number, version major, or a declared
	// header/pixel-format size did not match its required literal value.
	ErrMalformedHeader = errors.New("scmap: malformed header")

	// ErrUnsupportedVersion means versionMinor fell outside the recognised set.
	ErrUnsupportedVersion = errors.New("scmap: unsupported version")

	// ErrUnsupportedPixelFormat means an embedded-texture blob's pixel
	// format masks did not match any recognised format.
	ErrUnsupportedPixelFormat = errors.New("scmap: unsupported pixel format")

	// ErrIncompatiblePixelFormat means two blobs involved in an Import
	// disagree on pixel format and cannot be composited.
	ErrIncompatiblePixelFormat = errors.New("scmap: incompatible pixel format")

	// ErrDimensionMismatch means a length invariant (heightmap, mask plane,
	// terrain type data) was violated.
	ErrDimensionMismatch = errors.New("scmap: dimension mismatch")

	// ErrIO wraps an underlying byte sink/source failure.
	ErrIO = errors.New("scmap: io error")
)
