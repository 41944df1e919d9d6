// Package blobstore provides storage abstraction for arena snapshots.
//
// Store is the interface for reading and writing named blobs. Implementations
// must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem with atomic Put
//   - MemoryStore: in-memory, for tests
//   - MirrorStore: fan-out writes to several stores
//   - minio.Store: MinIO and S3-compatible object storage
//   - s3.Store: Amazon S3 with ranged reads and parallel uploads
package blobstore

import (
	"context"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies
// `errors.Is(err, ErrNotFound)`. The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// Store is an abstraction for accessing named data blobs.
type Store interface {
	// Open opens an existing blob for reading.
	Open(ctx context.Context, name string) (Blob, error)
	// Create creates a new blob for streaming writes. The blob is not
	// guaranteed to be visible until Close returns nil.
	Create(ctx context.Context, name string) (WritableBlob, error)
	// Put writes a blob atomically, replacing any previous content.
	Put(ctx context.Context, name string, data []byte) error
	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error
	// List returns the names of all blobs with the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only handle to a data blob.
type Blob interface {
	// ReadAt reads len(p) bytes starting at offset off.
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)
	// Size returns the size of the blob in bytes.
	Size() int64
	io.Closer
}

// WritableBlob is a streaming write handle. Close commits the blob.
type WritableBlob interface {
	io.WriteCloser
}

// ReadAll reads the entire blob into memory.
func ReadAll(ctx context.Context, b Blob) ([]byte, error) {
	data := make([]byte, b.Size())
	n, err := b.ReadAt(ctx, data, 0)
	if err != nil && err != io.EOF {
		return nil, err
	}
	return data[:n], nil
}
