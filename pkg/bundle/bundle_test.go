package bundle

import (
	"bytes"
	"testing"
)

func TestHeader(t *testing.T) {
	t.Run("InvalidMagic", func(t *testing.T) {
		h := &Header{Magic: [4]byte{0, 0, 0, 0}, HeaderLength: headerLength}
		if err := h.Validate(); err == nil {
			t.Error("expected error for invalid magic")
		}
	})

	t.Run("InvalidHeaderLength", func(t *testing.T) {
		h := &Header{Magic: Magic, HeaderLength: 4}
		if err := h.Validate(); err == nil {
			t.Error("expected error for invalid header length")
		}
	})
}

func TestWriteRead(t *testing.T) {
	entries := map[string][]byte{
		"preview.dds":      []byte("a preview blob, not really DDS data"),
		"normalMap_000.dds": bytes.Repeat([]byte{0xAB}, 256),
		"empty.dds":        {},
	}

	var buf bytes.Buffer
	if err := Write(&buf, entries, DefaultCompressionLevel); err != nil {
		t.Fatalf("write: %v", err)
	}

	r := bytes.NewReader(buf.Bytes())
	decoded, err := Read(r, int64(buf.Len()))
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if len(decoded) != len(entries) {
		t.Fatalf("got %d entries, want %d", len(decoded), len(entries))
	}
	for name, want := range entries {
		got, ok := decoded[name]
		if !ok {
			t.Fatalf("missing entry %q", name)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("entry %q: got %d bytes, want %d bytes", name, len(got), len(want))
		}
	}
}

func TestReadRejectsBadMagic(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, map[string][]byte{"a": []byte("x")}, DefaultCompressionLevel); err != nil {
		t.Fatalf("write: %v", err)
	}
	corrupted := buf.Bytes()
	corrupted[0] ^= 0xff

	r := bytes.NewReader(corrupted)
	if _, err := Read(r, int64(len(corrupted))); err == nil {
		t.Error("expected error for corrupted magic")
	}
}
