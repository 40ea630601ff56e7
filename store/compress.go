package store

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compressor compresses cache entries before they hit the backing storage.
// Implementations must be safe for concurrent use.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
	Name() string
}

// CompressorByName returns a built-in compressor by its stable name.
func CompressorByName(name string) (Compressor, bool) {
	switch name {
	case "none":
		return NoCompression{}, true
	case "zstd":
		c, err := NewZstd()
		if err != nil {
			return nil, false
		}
		return c, true
	case "lz4":
		return LZ4{}, true
	default:
		return nil, false
	}
}

// NoCompression passes data through unchanged.
type NoCompression struct{}

// Compress implements Compressor.
func (NoCompression) Compress(data []byte) ([]byte, error) { return data, nil }

// Decompress implements Compressor.
func (NoCompression) Decompress(data []byte) ([]byte, error) { return data, nil }

// Name implements Compressor.
func (NoCompression) Name() string { return "none" }

// Zstd compresses entries with zstandard. Good default for result datasets,
// which are mostly runs of float text.
type Zstd struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// NewZstd creates a zstd compressor with default settings.
func NewZstd() (*Zstd, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("store: zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("store: zstd decoder: %w", err)
	}
	return &Zstd{enc: enc, dec: dec}, nil
}

// Compress implements Compressor.
func (z *Zstd) Compress(data []byte) ([]byte, error) {
	return z.enc.EncodeAll(data, nil), nil
}

// Decompress implements Compressor.
func (z *Zstd) Decompress(data []byte) ([]byte, error) {
	return z.dec.DecodeAll(data, nil)
}

// Name implements Compressor.
func (z *Zstd) Name() string { return "zstd" }

// LZ4 compresses entries with the lz4 frame format. Faster but lighter
// compression than zstd.
type LZ4 struct{}

// Compress implements Compressor.
func (LZ4) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("store: lz4 compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("store: lz4 compress: %w", err)
	}
	return buf.Bytes(), nil
}

// Decompress implements Compressor.
func (LZ4) Decompress(data []byte) ([]byte, error) {
	r := lz4.NewReader(bytes.NewReader(data))
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("store: lz4 decompress: %w", err)
	}
	return out, nil
}

// Name implements Compressor.
func (LZ4) Name() string { return "lz4" }
