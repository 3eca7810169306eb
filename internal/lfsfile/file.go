// Package lfsfile implements the byte-range file API: translating a flat
// (inode, logical data block number) pair into a block store coordinate,
// and splitting a byte-range read or write across the block boundaries
// that result (spec §4.4).
package lfsfile

import (
	"github.com/iamNilotpal/lfsgo/internal/blockid"
	"github.com/iamNilotpal/lfsgo/internal/blockstore"
	"github.com/iamNilotpal/lfsgo/internal/disk"
	"go.uber.org/zap"
)

// Config holds the parameters needed to build a File.
type Config struct {
	Store    *blockstore.Store
	Geometry blockid.Geometry
	Logger   *zap.SugaredLogger
}

// File implements the byte-range read/write API over a single blockstore.
type File struct {
	store    *blockstore.Store
	geometry blockid.Geometry
	log      *zap.SugaredLogger
}

// New builds a File layer over an already-constructed Store.
func New(cfg Config) *File {
	return &File{store: cfg.Store, geometry: cfg.Geometry, log: cfg.Logger}
}

// DatanumToBlockID maps a flat data-block offset within a file to the tree
// coordinate of that data block (spec §4.4). Layers 0-2 carry the inode
// number's high/middle/low byte. Which region layers 3+ fall into is
// decided by subtracting each region's size from n in turn, but — matching
// the division/modulo values spec.md's own scenario 5 pins — the quotient
// and remainder that become the layer values are always computed against
// the original, un-subtracted n, not the region-relative remainder used to
// pick the region. Implementers must reproduce this exactly; it is not an
// arithmetic simplification.
func (f *File) DatanumToBlockID(inode uint32, n uint64) blockid.BlockID {
	if uint64(inode) >= f.geometry.InodesPerFS() {
		return blockid.BlockID{}
	}

	id := blockid.BlockID{NonNull: true}
	id.Layers[0] = uint16((inode >> 16) & 0xFF)
	id.Layers[1] = uint16((inode >> 8) & 0xFF)
	id.Layers[2] = uint16(inode & 0xFF)

	ab := uint64(f.geometry.AddrsPerBlock())

	rem := n
	if rem < blockid.NDirect {
		id.Depth = 4
		id.Layers[3] = uint16(n)
		return id
	}

	rem -= blockid.NDirect
	if rem < blockid.NSIndirect*ab {
		id.Depth = 5
		id.Layers[3] = uint16(n/ab) + blockid.NDirect
		id.Layers[4] = uint16(n % ab)
		return id
	}

	rem -= blockid.NSIndirect * ab
	if rem < blockid.NDIndirect*ab*ab {
		id.Depth = 6
		id.Layers[3] = uint16(n/(ab*ab)) + blockid.NDirect + blockid.NSIndirect
		id.Layers[4] = uint16((n / ab) % ab)
		id.Layers[5] = uint16(n % ab)
		return id
	}

	rem -= blockid.NDIndirect * ab * ab
	if rem < blockid.NTIndirect*ab*ab*ab {
		id.Depth = 7
		id.Layers[3] = uint16(n/(ab*ab*ab)) + blockid.NDirect + blockid.NSIndirect + blockid.NDIndirect
		id.Layers[4] = uint16((n / (ab * ab)) % ab)
		id.Layers[5] = uint16((n / ab) % ab)
		id.Layers[6] = uint16(n % ab)
		return id
	}

	return blockid.BlockID{}
}

// Read copies length bytes starting at offset in inode's data into buf,
// which must be at least length bytes long. It fails at the first missing
// block — sparse files never produce a short read.
func (f *File) Read(inode uint32, buf []byte, offset, length uint64) bool {
	return f.rangeOp(inode, buf, offset, length, false)
}

// Write copies length bytes from buf into inode's data starting at offset,
// copy-on-writing every block and ancestor the range touches.
func (f *File) Write(inode uint32, buf []byte, offset, length uint64) bool {
	return f.rangeOp(inode, buf, offset, length, true)
}

func (f *File) rangeOp(inode uint32, buf []byte, offset, length uint64, write bool) bool {
	if length == 0 {
		return true
	}

	bytesPerBlock := uint64(f.geometry.BytesPerBlock())
	blockNum := offset / bytesPerBlock
	byteOff := offset % bytesPerBlock

	id := f.DatanumToBlockID(inode, blockNum)
	if !id.NonNull {
		f.log.Infow("rejected out-of-range block", "inode", inode, "blockNum", blockNum)
		return false
	}

	var block *disk.Block
	if write {
		var err error
		block, err = f.store.Touch(id)
		if err != nil {
			f.log.Errorw("touch failed during write", "error", err, "inode", inode, "blockNum", blockNum)
			return false
		}
	} else {
		block = f.store.Find(id)
		if block == nil {
			return false
		}
	}

	chunk := bytesPerBlock - byteOff
	if chunk > length {
		chunk = length
	}

	if write {
		copy(block.Bytes[byteOff:byteOff+chunk], buf[:chunk])
	} else {
		copy(buf[:chunk], block.Bytes[byteOff:byteOff+chunk])
	}

	if chunk == length {
		return true
	}
	return f.rangeOp(inode, buf[chunk:], offset+chunk, length-chunk, write)
}
