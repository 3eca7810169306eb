// Package engine provides the core coordinator for the lfsgo storage
// system.
//
// The engine owns the three-layer stack spec.md §2 describes: the mmap'd
// disk substrate, the block store that resolves logical block ids against
// it, and the file layer that turns byte ranges into block operations. It
// implements a thread-safe lifecycle interface, ensuring the disk image is
// properly mapped and unmapped, and uses atomic operations for state
// management so Close is safe to call exactly once from any goroutine.
package engine

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"

	"github.com/iamNilotpal/lfsgo/internal/blockstore"
	"github.com/iamNilotpal/lfsgo/internal/disk"
	"github.com/iamNilotpal/lfsgo/internal/lfsfile"
	"github.com/iamNilotpal/lfsgo/pkg/options"
	"go.uber.org/zap"
)

var (
	// ErrEngineClosed is returned when attempting to perform operations on
	// a closed engine.
	ErrEngineClosed = errors.New("operation failed: cannot access closed engine")
)

// Engine coordinates the disk substrate, block store, and file layer
// behind a single handle, matching the design notes' call to package the
// source's global mutable state into one owning handle (spec §9).
type Engine struct {
	options *options.Options
	log     *zap.SugaredLogger
	closed  atomic.Bool

	disk  *disk.Disk
	store *blockstore.Store
	file  *lfsfile.File
}

// Config holds all the parameters needed to initialize a new Engine.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
	Format  bool
}

// New creates and initializes a new Engine, opening or formatting the disk
// image and wiring the block store and file layer on top of it.
func New(ctx context.Context, config *Config) (*Engine, error) {
	imagePath := filepath.Join(config.Options.DataDir, config.Options.ImageName)

	d, err := disk.Open(disk.Config{
		Path:        imagePath,
		Geometry:    config.Options.Geometry,
		Permissions: config.Options.Permissions,
		Logger:      config.Logger,
	}, config.Format)
	if err != nil {
		return nil, err
	}

	store := blockstore.New(blockstore.Config{Disk: d, Logger: config.Logger})
	file := lfsfile.New(lfsfile.Config{Store: store, Geometry: config.Options.Geometry, Logger: config.Logger})

	return &Engine{
		options: config.Options,
		log:     config.Logger,
		disk:    d,
		store:   store,
		file:    file,
	}, nil
}

// Read copies length bytes starting at offset in inode's data into buf.
// Returns false if any block along the way was never written, or the
// engine has already been closed.
func (e *Engine) Read(ctx context.Context, inode uint32, buf []byte, offset, length uint64) bool {
	if e.closed.Load() {
		return false
	}
	return e.file.Read(inode, buf, offset, length)
}

// Write copies length bytes from buf into inode's data starting at offset.
// Returns false if the engine has already been closed.
func (e *Engine) Write(ctx context.Context, inode uint32, buf []byte, offset, length uint64) bool {
	if e.closed.Load() {
		return false
	}
	return e.file.Write(inode, buf, offset, length)
}

// Sync commits the current staging segment. See disk.Disk.Sync.
func (e *Engine) Sync(ctx context.Context) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}
	return e.disk.Sync()
}

// Close gracefully shuts down the engine and unmaps the disk image. Uses
// atomic compare-and-swap so only one caller can successfully close the
// engine even under concurrent Close calls.
func (e *Engine) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return ErrEngineClosed
	}
	return e.disk.Close()
}
