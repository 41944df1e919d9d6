package snapshot

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/hupe1980/genarena"
	"github.com/hupe1980/genarena/blobstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerSaveLoad(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	m := NewManager[entity](store)

	a, live, stale := buildArena(t)
	require.NoError(t, m.Save(ctx, "world/0001.snap", a))

	restored, err := m.Load(ctx, "world/0001.snap")
	require.NoError(t, err)
	verifyRestored(t, a, restored, live, stale)
}

func TestManagerOptions(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	m := NewManager[entity](store, func(o *ManagerOptions) {
		o.Compression = CompressionZSTD
		o.WriteBytesPerSec = 1 << 24
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	})

	a, live, stale := buildArena(t)
	require.NoError(t, m.Save(ctx, "throttled.snap", a))

	restored, err := m.Load(ctx, "throttled.snap")
	require.NoError(t, err)
	verifyRestored(t, a, restored, live, stale)
}

func TestManagerList(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	m := NewManager[entity](store)

	a := genarena.New[entity]()
	a.Insert(entity{Name: "solo", HP: 1})

	for _, name := range []string{"world/0002.snap", "world/0001.snap", "other/0001.snap"} {
		require.NoError(t, m.Save(ctx, name, a))
	}

	names, err := m.List(ctx, "world/")
	require.NoError(t, err)
	assert.Equal(t, []string{"world/0001.snap", "world/0002.snap"}, names)
}

func TestManagerDelete(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	m := NewManager[entity](store)

	a := genarena.New[entity]()
	a.Insert(entity{Name: "solo", HP: 1})
	require.NoError(t, m.Save(ctx, "gone.snap", a))
	require.NoError(t, m.Delete(ctx, "gone.snap"))

	_, err := m.Load(ctx, "gone.snap")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	// Deleting twice is fine.
	assert.NoError(t, m.Delete(ctx, "gone.snap"))
}

func TestManagerLoadMissing(t *testing.T) {
	ctx := context.Background()
	m := NewManager[entity](blobstore.NewMemoryStore())

	_, err := m.Load(ctx, "never-saved.snap")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestRateLimitedWriter(t *testing.T) {
	// Burst smaller than the payload forces chunked writes.
	m := NewManager[entity](blobstore.NewMemoryStore(), func(o *ManagerOptions) {
		o.WriteBytesPerSec = 512
	})
	require.NotNil(t, m.limiter)

	var sink bytes.Buffer
	rw := &rateLimitedWriter{ctx: context.Background(), w: &sink, limiter: m.limiter}

	payload := make([]byte, 600)
	n, err := rw.Write(payload)
	require.NoError(t, err)
	assert.Equal(t, len(payload), n)
	assert.Equal(t, len(payload), sink.Len())
}

func TestRateLimitedWriterContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewManager[entity](blobstore.NewMemoryStore(), func(o *ManagerOptions) {
		o.WriteBytesPerSec = 1
	})
	rw := &rateLimitedWriter{ctx: ctx, w: &bytes.Buffer{}, limiter: m.limiter}

	_, err := rw.Write(make([]byte, 16))
	assert.Error(t, err)
}
