package storage

import (
	"context"
	"fmt"
	"strings"

	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	"gocloud.dev/gcerrors"
)

// BucketMirror implements Mirror on a gocloud.dev blob bucket. The fileblob
// driver writes to a temp file and renames it into place, so every completed
// Write is a self-consistent copy of the collection.
type BucketMirror struct {
	bucket *blob.Bucket
}

// NewBucketMirror wraps an already opened bucket.
func NewBucketMirror(bucket *blob.Bucket) *BucketMirror {
	return &BucketMirror{bucket: bucket}
}

// Open opens a mirror from a bucket URL ("file:///abs/dir", "mem://") or a plain
// directory path, which is created if missing.
func Open(ctx context.Context, location string) (*BucketMirror, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, fmt.Errorf("mirror location is required")
	}

	if !strings.Contains(location, "://") {
		b, err := fileblob.OpenBucket(location, &fileblob.Options{CreateDir: true})
		if err != nil {
			return nil, fmt.Errorf("failed to open data directory %s: %w", location, err)
		}
		return NewBucketMirror(b), nil
	}

	b, err := blob.OpenBucket(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to open data bucket %s: %w", location, err)
	}
	return NewBucketMirror(b), nil
}

// Read returns the bytes stored under key
func (m *BucketMirror) Read(ctx context.Context, key string) ([]byte, error) {
	data, err := m.bucket.ReadAll(ctx, key)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

// Write replaces the object stored under key
func (m *BucketMirror) Write(ctx context.Context, key string, data []byte) error {
	opts := &blob.WriterOptions{ContentType: "application/json"}
	if err := m.bucket.WriteAll(ctx, key, data, opts); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying bucket
func (m *BucketMirror) Close() error {
	return m.bucket.Close()
}
