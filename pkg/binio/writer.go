package binio

import (
	"bytes"
	"encoding/binary"
)

// Writer accumulates little-endian encoded scalars, NUL-terminated strings,
// and raw buffers into a byte buffer.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the accumulated output.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len reports the number of bytes written so far.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// WriteScalar encodes a fixed-width little-endian value.
func WriteScalar[T Scalar](w *Writer, v T) {
	size := scalarSize(v)
	buf := make([]byte, size)
	encodeScalar(v, buf)
	w.buf.Write(buf)
}

// WriteNulString emits the bytes of s followed by a single 0 byte.
func (w *Writer) WriteNulString(s string) {
	w.buf.WriteString(s)
	w.buf.WriteByte(0)
}

// WriteBuffer emits raw bytes verbatim.
func (w *Writer) WriteBuffer(data []byte) {
	w.buf.Write(data)
}

// WriteInt16Slice emits every value of vals as a little-endian int16.
func (w *Writer) WriteInt16Slice(vals []int16) {
	raw := make([]byte, len(vals)*2)
	for i, v := range vals {
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(v))
	}
	w.buf.Write(raw)
}

// WriteUint32Slice emits every value of vals as a little-endian uint32.
func (w *Writer) WriteUint32Slice(vals []uint32) {
	raw := make([]byte, len(vals)*4)
	for i, v := range vals {
		binary.LittleEndian.PutUint32(raw[i*4:], v)
	}
	w.buf.Write(raw)
}

// WriteInt32Slice emits every value of vals as a little-endian int32.
func (w *Writer) WriteInt32Slice(vals []int32) {
	raw := make([]byte, len(vals)*4)
	for i, v := range vals {
		binary.LittleEndian.PutUint32(raw[i*4:], uint32(v))
	}
	w.buf.Write(raw)
}
