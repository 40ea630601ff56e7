// Package minio implements store.Store on MinIO and S3-compatible object
// storage, so a sample cache can be shared between machines running the
// same sweeps.
//
// Object storage provides no cross-process write locking; the engine's
// last-writer-wins semantics make that acceptable because every cache value
// is a pure function of its key.
package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"

	"github.com/hupe1980/sweepgo/store"
)

// Store is an object-storage-backed store.Store.
type Store struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewStore creates a store writing under rootPrefix in the given bucket.
func NewStore(client *minio.Client, bucket, rootPrefix string) *Store {
	return &Store{client: client, bucket: bucket, prefix: rootPrefix}
}

func (s *Store) objectKey(key string) string {
	return path.Join(s.prefix, key)
}

func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.Code == "NotFound"
}

// Get returns the value for key, or store.ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.objectKey(key), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("minio: get %s: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if isNotFound(err) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("minio: get %s: %w", key, err)
	}
	return data, nil
}

// Put writes the value for key. Object stores replace objects atomically.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, s.objectKey(key),
		bytes.NewReader(value), int64(len(value)), minio.PutObjectOptions{})
	if err != nil {
		return fmt.Errorf("minio: put %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Missing keys are not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.client.RemoveObject(ctx, s.bucket, s.objectKey(key), minio.RemoveObjectOptions{})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("minio: delete %s: %w", key, err)
	}
	return nil
}

// List returns all keys with the given prefix.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	full := s.objectKey(prefix)
	// path.Join strips a trailing slash, which changes prefix semantics.
	if strings.HasSuffix(prefix, "/") && !strings.HasSuffix(full, "/") {
		full += "/"
	}

	var keys []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    full,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("minio: list %q: %w", prefix, obj.Err)
		}
		key := strings.TrimPrefix(obj.Key, s.prefix)
		key = strings.TrimPrefix(key, "/")
		if key != "" {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }
