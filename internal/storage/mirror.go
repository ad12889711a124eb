package storage

import (
	"context"
	"errors"
)

// ErrNotExist is returned by Read when no object is stored under the key.
var ErrNotExist = errors.New("mirror object does not exist")

// Mirror persists the serialized collection of one entity store under a key.
// Write replaces the whole object; a reader never observes a partial write.
type Mirror interface {
	// Read returns the stored bytes or ErrNotExist.
	Read(ctx context.Context, key string) ([]byte, error)

	// Write replaces the object stored under key.
	Write(ctx context.Context, key string, data []byte) error
}
