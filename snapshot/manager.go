package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/hupe1980/genarena"
	"github.com/hupe1980/genarena/blobstore"
	"github.com/hupe1980/genarena/codec"
	"golang.org/x/time/rate"
)

// ManagerOptions configures a Manager.
type ManagerOptions struct {
	// Logger receives structured operation logs. Defaults to a discard logger.
	Logger *slog.Logger

	// Codec encodes slot values. Defaults to codec.Default.
	Codec codec.Codec

	// Compression selects the body compression for saved snapshots.
	Compression Compression

	// WriteBytesPerSec throttles snapshot writes so background saves do not
	// starve foreground IO. If 0, unlimited.
	WriteBytesPerSec int64
}

// Manager saves and loads arena snapshots against a blobstore.Store.
type Manager[T any] struct {
	store   blobstore.Store
	logger  *slog.Logger
	opts    []Option
	limiter *rate.Limiter
}

// NewManager creates a Manager backed by store.
func NewManager[T any](store blobstore.Store, optFns ...func(*ManagerOptions)) *Manager[T] {
	opts := ManagerOptions{
		Logger:      slog.New(slog.DiscardHandler),
		Codec:       codec.Default,
		Compression: CompressionNone,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	m := &Manager[T]{
		store:  store,
		logger: opts.Logger,
		opts: []Option{
			WithCodec(opts.Codec),
			WithCompression(opts.Compression),
		},
	}
	if opts.WriteBytesPerSec > 0 {
		m.limiter = rate.NewLimiter(rate.Limit(opts.WriteBytesPerSec), int(opts.WriteBytesPerSec))
	}
	return m
}

// Save writes the arena as a snapshot blob under name.
func (m *Manager[T]) Save(ctx context.Context, name string, a *genarena.Arena[T]) error {
	start := time.Now()

	wb, err := m.store.Create(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to create snapshot blob %q: %w", name, err)
	}

	var w io.Writer = wb
	if m.limiter != nil {
		w = &rateLimitedWriter{ctx: ctx, w: wb, limiter: m.limiter}
	}

	written, err := Write(w, a, m.opts...)
	if err != nil {
		wb.Close() //nolint:errcheck
		m.logger.ErrorContext(ctx, "snapshot save failed", "name", name, "error", err)
		return err
	}
	if err := wb.Close(); err != nil {
		return fmt.Errorf("failed to finalize snapshot blob %q: %w", name, err)
	}

	m.logger.InfoContext(ctx, "snapshot saved",
		"name", name,
		"bytes", written,
		"entries", a.Len(),
		"slots", a.Cap(),
		"duration", time.Since(start),
	)
	return nil
}

// Load reads the snapshot blob under name and rebuilds the arena. Read
// verifies the checksum, the declared live count, and the free-list structure
// before the arena is handed back.
func (m *Manager[T]) Load(ctx context.Context, name string) (*genarena.Arena[T], error) {
	start := time.Now()

	blob, err := m.store.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot blob %q: %w", name, err)
	}
	defer blob.Close()

	data, err := blobstore.ReadAll(ctx, blob)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot blob %q: %w", name, err)
	}

	a, err := Read[T](bytes.NewReader(data), m.opts...)
	if err != nil {
		m.logger.ErrorContext(ctx, "snapshot load failed", "name", name, "error", err)
		return nil, err
	}

	m.logger.InfoContext(ctx, "snapshot loaded",
		"name", name,
		"bytes", len(data),
		"entries", a.Len(),
		"slots", a.Cap(),
		"duration", time.Since(start),
	)
	return a, nil
}

// List returns the snapshot names under prefix in lexical order.
func (m *Manager[T]) List(ctx context.Context, prefix string) ([]string, error) {
	return m.store.List(ctx, prefix)
}

// Delete removes the snapshot blob under name. Deleting a missing snapshot is
// not an error.
func (m *Manager[T]) Delete(ctx context.Context, name string) error {
	if err := m.store.Delete(ctx, name); err != nil {
		return fmt.Errorf("failed to delete snapshot blob %q: %w", name, err)
	}
	m.logger.InfoContext(ctx, "snapshot deleted", "name", name)
	return nil
}

// rateLimitedWriter throttles writes through a shared rate.Limiter.
type rateLimitedWriter struct {
	ctx     context.Context
	w       io.Writer
	limiter *rate.Limiter
}

func (rw *rateLimitedWriter) Write(p []byte) (int, error) {
	total := 0
	for len(p) > 0 {
		chunk := len(p)
		if burst := rw.limiter.Burst(); chunk > burst {
			chunk = burst
		}
		if err := rw.limiter.WaitN(rw.ctx, chunk); err != nil {
			return total, err
		}
		n, err := rw.w.Write(p[:chunk])
		total += n
		if err != nil {
			return total, err
		}
		p = p[n:]
	}
	return total, nil
}
