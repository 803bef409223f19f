package format

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

// CompressionLevel represents the compression level for writing table files.
type CompressionLevel int

const (
	// CompressionLevelNone disables compression.
	CompressionLevelNone CompressionLevel = iota
	// CompressionLevelFast uses fast compression (level 1).
	CompressionLevelFast
	// CompressionLevelDefault uses default compression (level 3).
	CompressionLevelDefault
	// CompressionLevelBest uses best compression (level 9).
	CompressionLevelBest
)

// zstdMagic is the little-endian magic number that starts every zstd frame.
var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

// Open opens the resource file at path. Files starting with a zstd frame are
// decompressed transparently.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	r, err := Decompress(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &resource{ReadCloser: r, f: f}, nil
}

// Decompress returns a reader over the contents of r, decompressing them if
// they start with a zstd frame. Closing the reader releases the decoder; it
// does not close r.
func Decompress(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("peek header: %w", err)
	}
	if !bytes.Equal(head, zstdMagic) {
		return io.NopCloser(br), nil
	}
	dec, err := zstd.NewReader(br)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return dec.IOReadCloser(), nil
}

// resource closes both the decompressor and the underlying file.
type resource struct {
	io.ReadCloser
	f *os.File
}

func (r *resource) Close() error {
	_ = r.ReadCloser.Close()
	return r.f.Close()
}

// ReadTable reads an exported palette from a table file and returns the raw
// network NBT payload.
func ReadTable(r io.Reader) ([]byte, error) {
	// Read magic number
	var magic uint32
	if err := binary.Read(r, binary.BigEndian, &magic); err != nil {
		return nil, fmt.Errorf("read magic: %w", err)
	}
	if magic != MagicNumber {
		return nil, fmt.Errorf("invalid magic number: got 0x%08X, want 0x%08X", magic, MagicNumber)
	}

	// Read version
	var version int16
	if err := binary.Read(r, binary.BigEndian, &version); err != nil {
		return nil, fmt.Errorf("read version: %w", err)
	}
	if version > CurrentVersion {
		return nil, fmt.Errorf("unsupported version: %d (max supported: %d)", version, CurrentVersion)
	}

	var compression uint8
	if err := binary.Read(r, binary.BigEndian, &compression); err != nil {
		return nil, fmt.Errorf("read compression: %w", err)
	}

	length, err := readVarInt(r)
	if err != nil {
		return nil, fmt.Errorf("read data length: %w", err)
	}
	if length < 0 || length > 1<<26 {
		return nil, fmt.Errorf("invalid data length: %d", length)
	}

	var dataReader io.Reader = r
	switch compression {
	case CompressionNone:
	case CompressionZstd:
		decoder, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("create zstd decoder: %w", err)
		}
		defer decoder.Close()
		dataReader = decoder
	default:
		return nil, fmt.Errorf("unknown compression type: %d", compression)
	}

	data := make([]byte, length)
	if _, err := io.ReadFull(dataReader, data); err != nil {
		return nil, fmt.Errorf("read data: %w", err)
	}
	return data, nil
}

// WriteTable writes an exported palette payload to a table file.
func WriteTable(w io.Writer, data []byte, compressionLevel CompressionLevel) error {
	compression := CompressionNone
	compressedData := data

	if compressionLevel != CompressionLevelNone && len(data) > 1024 {
		var zstdLevel zstd.EncoderLevel
		switch compressionLevel {
		case CompressionLevelFast:
			zstdLevel = zstd.SpeedFastest
		case CompressionLevelBest:
			zstdLevel = zstd.SpeedBestCompression
		default:
			zstdLevel = zstd.SpeedDefault
		}

		encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstdLevel))
		if err == nil {
			compressed := encoder.EncodeAll(data, make([]byte, 0, len(data)))
			if len(compressed) < len(data) {
				compression = CompressionZstd
				compressedData = compressed
			}
			_ = encoder.Close()
		}
	}

	// Write header
	if err := binary.Write(w, binary.BigEndian, uint32(MagicNumber)); err != nil {
		return fmt.Errorf("write magic: %w", err)
	}
	if err := binary.Write(w, binary.BigEndian, int16(CurrentVersion)); err != nil {
		return fmt.Errorf("write version: %w", err)
	}
	if err := binary.Write(w, binary.BigEndian, uint8(compression)); err != nil {
		return fmt.Errorf("write compression: %w", err)
	}
	if err := writeVarInt(w, int64(len(data))); err != nil {
		return fmt.Errorf("write data length: %w", err)
	}

	if _, err := w.Write(compressedData); err != nil {
		return fmt.Errorf("write data: %w", err)
	}
	return nil
}
