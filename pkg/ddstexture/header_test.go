package ddstexture

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/axle-forge/scmaptool/pkg/scmaperr"
)

// buildBlob assembles a minimal well-formed DDS-style blob: magic, a
// 124-byte header with width/height and pixel-format fields set, followed
// by payload bytes.
func buildBlob(width, height uint32, fourCC uint32, bitCount, rMask, gMask, bMask, aMask uint32, payload []byte) []byte {
	buf := make([]byte, PayloadOffset+len(payload))
	binary.LittleEndian.PutUint32(buf[0:4], magic)
	binary.LittleEndian.PutUint32(buf[offHeaderSize:], headerSize)
	binary.LittleEndian.PutUint32(buf[offHeight:], height)
	binary.LittleEndian.PutUint32(buf[offWidth:], width)
	binary.LittleEndian.PutUint32(buf[offPFSize:], pixelFormatSize)
	if fourCC != 0 {
		binary.LittleEndian.PutUint32(buf[offPFFlags:], ddpfFourCC)
		binary.LittleEndian.PutUint32(buf[offPFFourCC:], fourCC)
	}
	binary.LittleEndian.PutUint32(buf[offPFBitCount:], bitCount)
	binary.LittleEndian.PutUint32(buf[offPFRBitMask:], rMask)
	binary.LittleEndian.PutUint32(buf[offPFGBitMask:], gMask)
	binary.LittleEndian.PutUint32(buf[offPFBBitMask:], bMask)
	binary.LittleEndian.PutUint32(buf[offPFABitMask:], aMask)
	copy(buf[PayloadOffset:], payload)
	return buf
}

func TestParseHeaderBGRA8(t *testing.T) {
	payload := make([]byte, 4*4*4)
	blob := buildBlob(4, 4, 0, 32, 0x00FF0000, 0x0000FF00, 0x000000FF, 0xFF000000, payload)

	h, err := ParseHeader(blob)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if h.Format != FormatBGRA8 {
		t.Errorf("format: got %v, want BGRA8", h.Format)
	}
	if h.BytesPerPixel != 4 {
		t.Errorf("bytesPerPixel: got %d, want 4", h.BytesPerPixel)
	}
	if h.PayloadLength() != len(payload) {
		t.Errorf("payloadLength: got %d, want %d", h.PayloadLength(), len(payload))
	}
}

func TestParseHeaderDXT5(t *testing.T) {
	// 8x8 DXT5 has one 4x4 block per 16 bytes, 4 blocks total -> 64 bytes.
	payload := make([]byte, 64)
	blob := buildBlob(8, 8, fourCCDXT5, 0, 0, 0, 0, 0, payload)

	h, err := ParseHeader(blob)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if h.Format != FormatDXT5 {
		t.Errorf("format: got %v, want DXT5", h.Format)
	}
	if h.BytesPerPixel != 1 {
		t.Errorf("bytesPerPixel: got %d, want 1", h.BytesPerPixel)
	}
}

func TestParseHeaderBadMagic(t *testing.T) {
	blob := buildBlob(4, 4, 0, 32, 0x00FF0000, 0x0000FF00, 0x000000FF, 0xFF000000, make([]byte, 64))
	blob[0] = 'X'

	if _, err := ParseHeader(blob); !errors.Is(err, scmaperr.ErrMalformedHeader) {
		t.Errorf("expected ErrMalformedHeader, got %v", err)
	}
}

func TestParseHeaderTooShort(t *testing.T) {
	if _, err := ParseHeader(make([]byte, 64)); !errors.Is(err, scmaperr.ErrMalformedHeader) {
		t.Errorf("expected ErrMalformedHeader, got %v", err)
	}
}

func TestParseHeaderDXT5NonDividingPayload(t *testing.T) {
	// width*height = 64 does not divide a 65-byte payload.
	payload := make([]byte, 65)
	blob := buildBlob(8, 8, fourCCDXT5, 0, 0, 0, 0, 0, payload)

	if _, err := ParseHeader(blob); !errors.Is(err, scmaperr.ErrUnsupportedPixelFormat) {
		t.Errorf("expected ErrUnsupportedPixelFormat, got %v", err)
	}
}

func TestParseHeaderUnrecognisedMasks(t *testing.T) {
	blob := buildBlob(4, 4, 0, 16, 0xF800, 0x07E0, 0x001F, 0, make([]byte, 32))

	if _, err := ParseHeader(blob); !errors.Is(err, scmaperr.ErrUnsupportedPixelFormat) {
		t.Errorf("expected ErrUnsupportedPixelFormat, got %v", err)
	}
}

func TestPayloadViewsAliasBackingArray(t *testing.T) {
	payload := make([]byte, 64)
	blob := buildBlob(4, 4, 0, 32, 0x00FF0000, 0x0000FF00, 0x000000FF, 0xFF000000, payload)

	h, err := ParseHeader(blob)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	h.PayloadMut()[0] = 0xAB
	if h.Payload()[0] != 0xAB {
		t.Errorf("expected mutation through PayloadMut to be visible via Payload")
	}
}
