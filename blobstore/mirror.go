package blobstore

import (
	"bytes"
	"context"

	"golang.org/x/sync/errgroup"
)

// MirrorStore fans writes out to a primary store and any number of replicas.
// Reads and listings are served by the primary only; replicas exist for
// durability (e.g. local disk primary mirrored to object storage).
//
// Writes to the replicas run concurrently. A write fails if any store fails,
// and no rollback is attempted: replicas may then hold a blob the caller
// considers unwritten. Snapshot names are content-addressed per save, so a
// retried save simply overwrites.
type MirrorStore struct {
	primary  Store
	replicas []Store
}

// NewMirrorStore creates a MirrorStore.
func NewMirrorStore(primary Store, replicas ...Store) *MirrorStore {
	return &MirrorStore{primary: primary, replicas: replicas}
}

// Open opens a blob for reading from the primary.
func (s *MirrorStore) Open(ctx context.Context, name string) (Blob, error) {
	return s.primary.Open(ctx, name)
}

// Create creates a writable blob. The content is buffered and distributed to
// every store on Close.
func (s *MirrorStore) Create(_ context.Context, name string) (WritableBlob, error) {
	return &mirrorWritableBlob{store: s, name: name}, nil
}

// Put writes the blob to the primary and all replicas concurrently.
func (s *MirrorStore) Put(ctx context.Context, name string, data []byte) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.primary.Put(ctx, name, data)
	})
	for _, r := range s.replicas {
		g.Go(func() error {
			return r.Put(ctx, name, data)
		})
	}
	return g.Wait()
}

// Delete removes the blob from the primary and all replicas concurrently.
func (s *MirrorStore) Delete(ctx context.Context, name string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.primary.Delete(ctx, name)
	})
	for _, r := range s.replicas {
		g.Go(func() error {
			return r.Delete(ctx, name)
		})
	}
	return g.Wait()
}

// List returns the primary's blob names with the given prefix.
func (s *MirrorStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.primary.List(ctx, prefix)
}

type mirrorWritableBlob struct {
	store *MirrorStore
	name  string
	buf   bytes.Buffer
}

func (b *mirrorWritableBlob) Write(p []byte) (int, error) {
	return b.buf.Write(p)
}

func (b *mirrorWritableBlob) Close() error {
	return b.store.Put(context.Background(), b.name, b.buf.Bytes())
}
