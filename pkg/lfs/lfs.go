// Package lfs provides a single-disk, append-only block store exposing a
// byte-range file abstraction: read and write at (inode, offset, length),
// backed by a copy-on-write inode-map tree committed to disk one segment
// at a time.
package lfs

import (
	"context"

	"github.com/iamNilotpal/lfsgo/internal/engine"
	"github.com/iamNilotpal/lfsgo/pkg/logger"
	"github.com/iamNilotpal/lfsgo/pkg/options"
)

// Instance is the primary entry point for interacting with an lfsgo mount.
// It encapsulates the core engine responsible for disk I/O and the
// configuration options applied to this particular mount.
type Instance struct {
	engine  *engine.Engine
	options *options.Options
}

// NewInstance opens (or, if format is true, creates) the disk image
// described by opts and returns a ready-to-use Instance.
func NewInstance(ctx context.Context, service string, format bool, opts ...options.OptionFunc) (*Instance, error) {
	log := logger.New(service)

	defaultOpts := options.NewDefaultOptions()
	for _, opt := range opts {
		opt(&defaultOpts)
	}
	if err := defaultOpts.Validate(); err != nil {
		return nil, err
	}

	eng, err := engine.New(ctx, &engine.Config{Logger: log, Options: &defaultOpts, Format: format})
	if err != nil {
		return nil, err
	}

	return &Instance{engine: eng, options: &defaultOpts}, nil
}

// Read copies length bytes starting at offset in inode's data into buf,
// which must be at least length bytes long. Returns false on the first
// missing block — sparse files never produce a short read.
func (i *Instance) Read(ctx context.Context, inode uint32, buf []byte, offset, length uint64) bool {
	return i.engine.Read(ctx, inode, buf, offset, length)
}

// Write copies length bytes from buf into inode's data starting at offset,
// copy-on-writing every block and ancestor the range touches.
func (i *Instance) Write(ctx context.Context, inode uint32, buf []byte, offset, length uint64) bool {
	return i.engine.Write(ctx, inode, buf, offset, length)
}

// Sync commits the current staging segment, atomically publishing every
// write made since the previous Sync.
func (i *Instance) Sync(ctx context.Context) error {
	return i.engine.Sync(ctx)
}

// Close unmaps the disk image and releases the backing file handle.
func (i *Instance) Close(ctx context.Context) error {
	return i.engine.Close()
}
