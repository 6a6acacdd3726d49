// Package binio provides little-endian binary stream reading and writing for
// the fixed-width scalars, NUL-terminated strings, and length-prefixed
// buffers used by the scmap container format.
package binio

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/axle-forge/scmaptool/pkg/scmaperr"
)

// ErrTruncated indicates the stream ended before a required field completed.
var ErrTruncated = scmaperr.ErrTruncated

// Reader wraps a byte source with little-endian scalar, string, and buffer
// decoding on top of the raw bytes.
type Reader struct {
	data []byte
	pos  int
}

// NewReader wraps data for sequential little-endian decoding.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// BytesRemaining reports how many bytes are left to read.
func (r *Reader) BytesRemaining() int {
	return len(r.data) - r.pos
}

// ReadScalar decodes and returns a fixed-width little-endian value, where T
// is one of the sized integer or float32 types.
func ReadScalar[T Scalar](r *Reader) (T, error) {
	var v T
	size := scalarSize(v)
	if r.BytesRemaining() < size {
		return v, fmt.Errorf("read scalar: %w", ErrTruncated)
	}
	buf := r.data[r.pos : r.pos+size]
	r.pos += size
	v = decodeScalar[T](buf)
	return v, nil
}

// ReadNulString consumes bytes up to and including the first 0 byte and
// returns the bytes preceding it.
func (r *Reader) ReadNulString() (string, error) {
	idx := bytes.IndexByte(r.data[r.pos:], 0)
	if idx < 0 {
		return "", fmt.Errorf("read nul string: %w", ErrTruncated)
	}
	s := string(r.data[r.pos : r.pos+idx])
	r.pos += idx + 1
	return s, nil
}

// ReadBuffer validates that count*elemSize bytes remain and returns them as
// a fresh slice. count==0 is a no-op and does not touch the stream.
func (r *Reader) ReadBuffer(count, elemSize int) ([]byte, error) {
	if count == 0 {
		return nil, nil
	}
	need := count * elemSize
	if r.BytesRemaining() < need {
		return nil, fmt.Errorf("read buffer of %d x %d bytes: %w", count, elemSize, ErrTruncated)
	}
	buf := make([]byte, need)
	copy(buf, r.data[r.pos:r.pos+need])
	r.pos += need
	return buf, nil
}

// ReadInt16Slice reads count little-endian int16 values.
func (r *Reader) ReadInt16Slice(count int) ([]int16, error) {
	raw, err := r.ReadBuffer(count, 2)
	if err != nil {
		return nil, err
	}
	out := make([]int16, count)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
	}
	return out, nil
}

// ReadUint32Slice reads count little-endian uint32 values.
func (r *Reader) ReadUint32Slice(count int) ([]uint32, error) {
	raw, err := r.ReadBuffer(count, 4)
	if err != nil {
		return nil, err
	}
	out := make([]uint32, count)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(raw[i*4:])
	}
	return out, nil
}

// ReadInt32Slice reads count little-endian int32 values.
func (r *Reader) ReadInt32Slice(count int) ([]int32, error) {
	raw, err := r.ReadBuffer(count, 4)
	if err != nil {
		return nil, err
	}
	out := make([]int32, count)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return out, nil
}

// Pos returns the current read offset, mainly for diagnostics.
func (r *Reader) Pos() int {
	return r.pos
}
