package binio

import (
	"encoding/binary"
	"math"
)

// Scalar is the set of fixed-width types the container format uses for
// individual fields: the codec assumes IEC 559 (IEEE 754) single-precision
// floats and fixed little-endian integer widths.
type Scalar interface {
	~uint8 | ~int8 | ~uint16 | ~int16 | ~uint32 | ~int32 | ~uint64 | ~int64 | ~float32
}

func scalarSize(v any) int {
	switch v.(type) {
	case uint8, int8:
		return 1
	case uint16, int16:
		return 2
	case uint32, int32, float32:
		return 4
	case uint64, int64:
		return 8
	default:
		return 0
	}
}

func decodeScalar[T Scalar](buf []byte) T {
	var v T
	switch any(v).(type) {
	case uint8:
		return T(buf[0])
	case int8:
		return T(int8(buf[0]))
	case uint16:
		return T(binary.LittleEndian.Uint16(buf))
	case int16:
		return T(int16(binary.LittleEndian.Uint16(buf)))
	case uint32:
		return T(binary.LittleEndian.Uint32(buf))
	case int32:
		return T(int32(binary.LittleEndian.Uint32(buf)))
	case uint64:
		return T(binary.LittleEndian.Uint64(buf))
	case int64:
		return T(int64(binary.LittleEndian.Uint64(buf)))
	case float32:
		bits := binary.LittleEndian.Uint32(buf)
		return T(math.Float32frombits(bits))
	}
	return v
}

func encodeScalar[T Scalar](v T, buf []byte) {
	switch x := any(v).(type) {
	case uint8:
		buf[0] = x
	case int8:
		buf[0] = byte(x)
	case uint16:
		binary.LittleEndian.PutUint16(buf, x)
	case int16:
		binary.LittleEndian.PutUint16(buf, uint16(x))
	case uint32:
		binary.LittleEndian.PutUint32(buf, x)
	case int32:
		binary.LittleEndian.PutUint32(buf, uint32(x))
	case uint64:
		binary.LittleEndian.PutUint64(buf, x)
	case int64:
		binary.LittleEndian.PutUint64(buf, uint64(x))
	case float32:
		binary.LittleEndian.PutUint32(buf, math.Float32bits(x))
	}
}
