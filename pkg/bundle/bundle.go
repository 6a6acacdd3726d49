// Package bundle packages several named byte blobs (rendered DDS blobs
// dumped from a container, or whole .scmap files for batch transport) into
// a single ZSTD-compressed file with a named-entry index, adapting the
// archive package's single-stream header/reader/writer layout to carry
// more than one stream.
package bundle

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"sort"

	"github.com/DataDog/zstd"
)

// Magic bytes identifying a bundle file.
var Magic = [4]byte{0x53, 0x43, 0x4d, 0x42} // "SCMB"

const (
	// DefaultCompressionLevel is the default per-entry compression level.
	DefaultCompressionLevel = zstd.BestSpeed

	headerLength = 12 // Magic + HeaderLength + EntryCount
)

// Header describes the fixed-size preamble of a bundle file. The index and
// entry payloads follow immediately after it.
type Header struct {
	Magic        [4]byte
	HeaderLength uint32
	EntryCount   uint32
}

// Entry describes one named, independently compressed payload within a
// bundle's index.
type Entry struct {
	Name             string
	Offset           uint64 // byte offset of compressed payload from start of file
	Length           uint64 // uncompressed size
	CompressedLength uint64 // compressed size
}

// Validate checks the header for structural validity.
func (h *Header) Validate() error {
	if h.Magic != Magic {
		return fmt.Errorf("bundle: invalid magic: expected %x, got %x", Magic, h.Magic)
	}
	if h.HeaderLength != headerLength {
		return fmt.Errorf("bundle: invalid header length: expected %d, got %d", headerLength, h.HeaderLength)
	}
	return nil
}

// Write encodes data as a bundle of named entries to dst. Entries are
// written in ascending name order; names are the keys of entries, so each
// appears once.
func Write(dst io.Writer, entries map[string][]byte, level int) error {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	compressed := make([][]byte, len(names))
	index := make([]Entry, len(names))
	offset := uint64(0) // relative to start of payload region, fixed up below

	for i, name := range names {
		raw := entries[name]
		var buf bytes.Buffer
		zw := zstd.NewWriterLevel(&buf, level)
		if _, err := zw.Write(raw); err != nil {
			return fmt.Errorf("bundle: compress entry %q: %w", name, err)
		}
		if err := zw.Close(); err != nil {
			return fmt.Errorf("bundle: finalize entry %q: %w", name, err)
		}
		compressed[i] = buf.Bytes()
		index[i] = Entry{Name: name, Offset: offset, Length: uint64(len(raw)), CompressedLength: uint64(buf.Len())}
		offset += uint64(buf.Len())
	}

	indexBytes, err := marshalIndex(index)
	if err != nil {
		return err
	}

	// Payload offsets are relative to the end of header+index; fix up now
	// that we know the index's encoded length.
	base := uint64(headerLength) + uint64(len(indexBytes))
	for i := range index {
		index[i].Offset += base
	}
	indexBytes, err = marshalIndex(index)
	if err != nil {
		return err
	}

	hdr := Header{Magic: Magic, HeaderLength: headerLength, EntryCount: uint32(len(names))}
	if err := binary.Write(dst, binary.LittleEndian, hdr); err != nil {
		return fmt.Errorf("bundle: write header: %w", err)
	}
	if _, err := dst.Write(indexBytes); err != nil {
		return fmt.Errorf("bundle: write index: %w", err)
	}
	for i, name := range names {
		if _, err := dst.Write(compressed[i]); err != nil {
			return fmt.Errorf("bundle: write entry %q: %w", name, err)
		}
	}
	return nil
}

func marshalIndex(index []Entry) ([]byte, error) {
	var buf bytes.Buffer
	for _, e := range index {
		nameBytes := []byte(e.Name)
		if err := binary.Write(&buf, binary.LittleEndian, uint32(len(nameBytes))); err != nil {
			return nil, fmt.Errorf("bundle: write entry name length: %w", err)
		}
		buf.Write(nameBytes)
		if err := binary.Write(&buf, binary.LittleEndian, e.Offset); err != nil {
			return nil, err
		}
		if err := binary.Write(&buf, binary.LittleEndian, e.Length); err != nil {
			return nil, err
		}
		if err := binary.Write(&buf, binary.LittleEndian, e.CompressedLength); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// Read decodes every entry from a bundle in src, keyed by name.
func Read(src io.ReaderAt, size int64) (map[string][]byte, error) {
	r := io.NewSectionReader(src, 0, size)

	var hdr Header
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("bundle: read header: %w", err)
	}
	if err := hdr.Validate(); err != nil {
		return nil, err
	}

	index := make([]Entry, hdr.EntryCount)
	for i := range index {
		var nameLen uint32
		if err := binary.Read(r, binary.LittleEndian, &nameLen); err != nil {
			return nil, fmt.Errorf("bundle: read entry %d name length: %w", i, err)
		}
		nameBytes := make([]byte, nameLen)
		if _, err := io.ReadFull(r, nameBytes); err != nil {
			return nil, fmt.Errorf("bundle: read entry %d name: %w", i, err)
		}
		var e Entry
		e.Name = string(nameBytes)
		if err := binary.Read(r, binary.LittleEndian, &e.Offset); err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.LittleEndian, &e.Length); err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.LittleEndian, &e.CompressedLength); err != nil {
			return nil, err
		}
		index[i] = e
	}

	out := make(map[string][]byte, len(index))
	for _, e := range index {
		section := io.NewSectionReader(src, int64(e.Offset), int64(e.CompressedLength))
		zr := zstd.NewReader(section)
		data := make([]byte, e.Length)
		if _, err := io.ReadFull(zr, data); err != nil {
			zr.Close()
			return nil, fmt.Errorf("bundle: decompress entry %q: %w", e.Name, err)
		}
		zr.Close()
		out[e.Name] = data
	}
	return out, nil
}
