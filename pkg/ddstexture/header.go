// Package ddstexture parses the embedded-texture header that prefixes every
// raster blob carried inside a map container: a "DDS " tag, a 124-byte
// DirectDraw Surface header, and a pixel payload. It classifies the payload's
// pixel format and lends read-only and mutable views over the payload
// without copying it.
package ddstexture

import (
	"encoding/binary"
	"fmt"

	"github.com/axle-forge/scmaptool/pkg/scmaperr"
)

// Pixel format classification, mirroring the handful of formats the
// original toolchain ever wrote into a map container.
const (
	FormatUnknown Format = iota
	FormatDXT1
	FormatDXT3
	FormatDXT5
	FormatBGRA8
	FormatBGR8
)

// Format identifies the pixel layout of a Header's payload.
type Format int

func (f Format) String() string {
	switch f {
	case FormatDXT1:
		return "DXT1"
	case FormatDXT3:
		return "DXT3"
	case FormatDXT5:
		return "DXT5"
	case FormatBGRA8:
		return "BGRA8"
	case FormatBGR8:
		return "BGR8"
	default:
		return "UNKNOWN"
	}
}

const (
	magic           = 0x20534444 // "DDS "
	headerSize      = 124
	pixelFormatSize = 32
	ddpfFourCC      = 0x4

	fourCCDXT1 = 0x31545844 // "DXT1"
	fourCCDXT3 = 0x33545844 // "DXT3"
	fourCCDXT5 = 0x35545844 // "DXT5"

	// Absolute byte offsets from the start of the blob (the magic tag
	// occupies offsets 0-3, so the DDS_HEADER itself starts at offset 4).
	offHeaderSize  = 4
	offHeight      = 12
	offWidth       = 16
	offPFSize      = 76
	offPFFlags     = 80
	offPFFourCC    = 84
	offPFBitCount  = 88
	offPFRBitMask  = 92
	offPFGBitMask  = 96
	offPFBBitMask  = 100
	offPFABitMask  = 104

	// MinLen is the smallest blob length ParseHeader accepts.
	MinLen = 128
	// PayloadOffset is the fixed byte offset of the pixel payload within
	// the blob, 4 bytes past the end of the 124-byte DDS_HEADER (which
	// ends at offset 128).
	PayloadOffset = 132
)

// Header describes a parsed embedded-texture blob. It borrows data rather
// than copying it; Payload and PayloadMut both alias the caller's buffer.
type Header struct {
	data          []byte
	Width         uint32
	Height        uint32
	Format        Format
	BytesPerPixel int
}

// ParseHeader validates and classifies the DDS-style header prefixing data.
func ParseHeader(data []byte) (*Header, error) {
	if len(data) < MinLen {
		return nil, fmt.Errorf("embedded-texture header: %w", scmaperr.ErrMalformedHeader)
	}
	if binary.LittleEndian.Uint32(data[0:4]) != magic {
		return nil, fmt.Errorf("embedded-texture header: bad magic: %w", scmaperr.ErrMalformedHeader)
	}
	if binary.LittleEndian.Uint32(data[offHeaderSize:]) != headerSize {
		return nil, fmt.Errorf("embedded-texture header: bad header size: %w", scmaperr.ErrMalformedHeader)
	}
	if binary.LittleEndian.Uint32(data[offPFSize:]) != pixelFormatSize {
		return nil, fmt.Errorf("embedded-texture header: bad pixel-format size: %w", scmaperr.ErrMalformedHeader)
	}

	h := &Header{
		data:   data,
		Width:  binary.LittleEndian.Uint32(data[offWidth:]),
		Height: binary.LittleEndian.Uint32(data[offHeight:]),
	}

	payloadBytes := len(data) - PayloadOffset

	pfFlags := binary.LittleEndian.Uint32(data[offPFFlags:])
	fourCC := binary.LittleEndian.Uint32(data[offPFFourCC:])
	bitCount := binary.LittleEndian.Uint32(data[offPFBitCount:])
	rMask := binary.LittleEndian.Uint32(data[offPFRBitMask:])
	gMask := binary.LittleEndian.Uint32(data[offPFGBitMask:])
	bMask := binary.LittleEndian.Uint32(data[offPFBBitMask:])
	aMask := binary.LittleEndian.Uint32(data[offPFABitMask:])

	switch {
	case pfFlags&ddpfFourCC != 0 && fourCC == fourCCDXT1:
		h.Format = FormatDXT1
	case pfFlags&ddpfFourCC != 0 && fourCC == fourCCDXT3:
		h.Format = FormatDXT3
	case pfFlags&ddpfFourCC != 0 && fourCC == fourCCDXT5:
		h.Format = FormatDXT5
	case bitCount == 32 && aMask == 0xFF000000 && rMask == 0x00FF0000 && gMask == 0x0000FF00 && bMask == 0x000000FF:
		h.Format = FormatBGRA8
		h.BytesPerPixel = 4
	case bitCount == 24 && rMask == 0x00FF0000 && gMask == 0x0000FF00 && bMask == 0x000000FF:
		h.Format = FormatBGR8
		h.BytesPerPixel = 3
	default:
		return nil, fmt.Errorf("embedded-texture header: unrecognised pixel format: %w", scmaperr.ErrUnsupportedPixelFormat)
	}

	if h.Format == FormatDXT1 || h.Format == FormatDXT3 || h.Format == FormatDXT5 {
		area := int(h.Width) * int(h.Height)
		if area == 0 || payloadBytes%area != 0 {
			return nil, fmt.Errorf("embedded-texture header: payload does not divide %dx%d: %w", h.Width, h.Height, scmaperr.ErrUnsupportedPixelFormat)
		}
		h.BytesPerPixel = payloadBytes / area
	}

	return h, nil
}

// PayloadLength reports the number of payload bytes following the header.
func (h *Header) PayloadLength() int {
	return len(h.data) - PayloadOffset
}

// Payload returns a read-only view of the pixel payload.
func (h *Header) Payload() []byte {
	return h.data[PayloadOffset:]
}

// PayloadMut returns a mutable view of the same backing array as Payload.
func (h *Header) PayloadMut() []byte {
	return h.data[PayloadOffset:]
}
