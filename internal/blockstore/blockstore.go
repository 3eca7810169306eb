// Package blockstore implements the inode-map tree: translating logical
// block ids into physical block addresses via Find (read-only) and Touch
// (copy-on-write), propagating ancestor updates up to the root as spec
// §4.3 requires.
package blockstore

import (
	"encoding/binary"

	"github.com/iamNilotpal/lfsgo/internal/blockid"
	"github.com/iamNilotpal/lfsgo/internal/disk"
	"github.com/iamNilotpal/lfsgo/pkg/errors"
	"go.uber.org/zap"
)

// Config holds the parameters needed to build a Store.
type Config struct {
	Disk   *disk.Disk
	Logger *zap.SugaredLogger
}

// Store resolves and mutates the inode-map tree backed by a single Disk.
type Store struct {
	disk *disk.Disk
	log  *zap.SugaredLogger
}

// New builds a Store over an already-open Disk.
func New(cfg Config) *Store {
	return &Store{disk: cfg.Disk, log: cfg.Logger}
}

// IsDirty scans the staging segment's table from slot 0 upward until
// either a matching block id is found or the used-prefix terminator
// (a non_null=false entry) is seen. A full scan without a terminator also
// reports not found.
func (s *Store) IsDirty(id blockid.BlockID) (bool, blockid.BlockAddr) {
	seg := s.disk.StagingSegment()
	count := s.disk.Geometry().BlocksPerSegment()
	for slot := uint32(0); slot < count; slot++ {
		entry := s.disk.TableEntry(seg, slot)
		if !entry.NonNull {
			return false, blockid.NullAddr
		}
		if entry.Equal(id) {
			return true, blockid.BlockAddr{NonNull: true, Segment: seg, Block: slot}
		}
	}
	return false, blockid.NullAddr
}

// Find resolves id to its block, or nil if no block has ever been written
// for it. Find never allocates and never fails.
func (s *Store) Find(id blockid.BlockID) *disk.Block {
	if dirty, addr := s.IsDirty(id); dirty {
		return s.disk.Block(addr.Segment, addr.Block)
	}
	if id.Depth == 0 {
		// The root is always dirty in a well-formed disk (invariant 4); this
		// guards against unbounded recursion if that invariant is ever
		// broken rather than relying purely on it (spec §9).
		return nil
	}

	parent := s.Find(id.Parent())
	if parent == nil {
		return nil
	}

	childAddr := readChildAddr(parent, id.ChildSlot())
	if !childAddr.NonNull {
		return nil
	}
	return s.disk.Block(childAddr.Segment, childAddr.Block)
}

// Touch resolves id to its block, copy-on-writing it and every ancestor up
// to the root into the staging segment if it isn't already there. The
// flush check that may advance the staging segment happens before any
// allocation at every level of the recursion, so that a single logical
// operation's new blocks always land in the same staging segment
// (spec §4.3, invariant 3).
func (s *Store) Touch(id blockid.BlockID) (*disk.Block, error) {
	if dirty, addr := s.IsDirty(id); dirty {
		return s.disk.Block(addr.Segment, addr.Block), nil
	}

	if s.disk.WillOverflow(int(id.Depth)) {
		s.log.Infow("staging segment near capacity, syncing before touch", "depth", id.Depth)
		if err := s.disk.Sync(); err != nil {
			return nil, err
		}
		// After a sync the root is dirty again by construction; re-check
		// before recursing further in case id itself was the root.
		if dirty, addr := s.IsDirty(id); dirty {
			return s.disk.Block(addr.Segment, addr.Block), nil
		}
	}

	if id.Depth == 0 {
		return nil, errors.NewInvalidBlockIDError("root", 0).
			WithMessage("root block must always be dirty in the staging segment; touch reached depth 0 without finding it")
	}

	parent, err := s.Touch(id.Parent())
	if err != nil {
		return nil, err
	}

	seg := s.disk.StagingSegment()
	slot := s.disk.AllocateSlot()
	s.disk.SetTableEntry(seg, slot, id)

	childSlot := id.ChildSlot()
	oldAddr := readChildAddr(parent, childSlot)
	newBlock := s.disk.Block(seg, slot)
	if oldAddr.NonNull {
		copy(newBlock.Bytes, s.disk.Block(oldAddr.Segment, oldAddr.Block).Bytes)
	} else {
		clear(newBlock.Bytes)
	}
	writeChildAddr(parent, childSlot, blockid.BlockAddr{NonNull: true, Segment: seg, Block: slot})

	return newBlock, nil
}

// Locate reports the physical coordinate a previously vended block lives
// at. This is the Go rendition of the source's debug_location: since Go
// forbids arbitrary pointer arithmetic against the mapped region, the
// coordinate is simply the provenance every disk.Block already carries.
func (s *Store) Locate(b *disk.Block) blockid.BlockAddr {
	return blockid.BlockAddr{NonNull: true, Segment: b.Segment, Block: b.Slot}
}

func readChildAddr(b *disk.Block, slot uint16) blockid.BlockAddr {
	off := int(slot) * blockid.AddrEncodedSize()
	return blockid.DecodeBlockAddr(binary.LittleEndian.Uint32(b.Bytes[off : off+blockid.AddrEncodedSize()]))
}

func writeChildAddr(b *disk.Block, slot uint16, addr blockid.BlockAddr) {
	off := int(slot) * blockid.AddrEncodedSize()
	binary.LittleEndian.PutUint32(b.Bytes[off:off+blockid.AddrEncodedSize()], addr.Encode())
}
