package store

import (
	"context"
	"fmt"
)

// Entries written by CompressedStore start with a magic byte sequence plus
// the compressor name, so a store opened with the wrong compressor fails
// loudly instead of decoding garbage.
var entryMagic = []byte("sgc1")

// CompressedStore wraps a Store and compresses values on the way through.
type CompressedStore struct {
	inner Store
	comp  Compressor
}

// NewCompressedStore wraps inner with the given compressor. A nil compressor
// means no compression.
func NewCompressedStore(inner Store, comp Compressor) *CompressedStore {
	if comp == nil {
		comp = NoCompression{}
	}
	return &CompressedStore{inner: inner, comp: comp}
}

// Get implements Store.
func (s *CompressedStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.inner.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	name, payload, err := decodeEntry(data)
	if err != nil {
		return nil, fmt.Errorf("store: entry %s: %w", key, err)
	}
	comp := s.comp
	if name != comp.Name() {
		byName, ok := CompressorByName(name)
		if !ok {
			return nil, fmt.Errorf("store: entry %s uses unknown compressor %q", key, name)
		}
		comp = byName
	}
	return comp.Decompress(payload)
}

// Put implements Store.
func (s *CompressedStore) Put(ctx context.Context, key string, value []byte) error {
	payload, err := s.comp.Compress(value)
	if err != nil {
		return fmt.Errorf("store: compress %s: %w", key, err)
	}
	return s.inner.Put(ctx, key, encodeEntry(s.comp.Name(), payload))
}

// Delete implements Store.
func (s *CompressedStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}

// List implements Store.
func (s *CompressedStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// Close implements Store.
func (s *CompressedStore) Close() error { return s.inner.Close() }

func encodeEntry(name string, payload []byte) []byte {
	out := make([]byte, 0, len(entryMagic)+1+len(name)+len(payload))
	out = append(out, entryMagic...)
	out = append(out, byte(len(name)))
	out = append(out, name...)
	out = append(out, payload...)
	return out
}

func decodeEntry(data []byte) (name string, payload []byte, err error) {
	if len(data) < len(entryMagic)+1 || string(data[:len(entryMagic)]) != string(entryMagic) {
		return "", nil, fmt.Errorf("missing entry header")
	}
	rest := data[len(entryMagic):]
	n := int(rest[0])
	if len(rest) < 1+n {
		return "", nil, fmt.Errorf("truncated entry header")
	}
	return string(rest[1 : 1+n]), rest[1+n:], nil
}
