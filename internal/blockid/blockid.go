// Package blockid defines the value types that name every block in an lfsgo
// disk image: the logical BlockID (a coordinate in the inode-map tree) and
// the physical BlockAddr (a segment/slot pair). Both are dense, fixed-width
// value types with an explicit on-disk encoding — little-endian throughout,
// chosen once here rather than left to host-native struct packing.
package blockid

import "github.com/iamNilotpal/lfsgo/pkg/errors"

// Geometry pins the four compile-time exponents that govern disk layout.
// The zero value is invalid; use DefaultGeometry or Geometry{...} with all
// four fields set.
type Geometry struct {
	SegBits    uint
	BlkBits    uint
	OffsetBits uint
	InodeBits  uint
}

// DefaultGeometry matches the source geometry: 65536 segments of 1024
// blocks, 4096 bytes per block, 2^24 inodes.
var DefaultGeometry = Geometry{SegBits: 16, BlkBits: 10, OffsetBits: 12, InodeBits: 24}

// maxSegBits/maxBlkBits bound Geometry to what BlockAddr.Encode can actually
// pack: a 16-bit segment field and a 10-bit block field in a 4-byte address.
// maxInodeBits bounds it to what DatanumToBlockID packs into a BlockID's
// first three layers: the inode number's high/middle/low byte.
const (
	maxSegBits    = 16
	maxBlkBits    = 10
	maxOffsetBits = 30
	maxInodeBits  = 24
)

// Validate reports whether g's exponents fit the fixed-width on-disk
// encodings the rest of the package assumes. A Geometry that passes this
// check is safe to format a disk image with; one that doesn't silently
// truncates addresses instead of failing loudly.
func (g Geometry) Validate() error {
	if g.SegBits == 0 || g.SegBits > maxSegBits {
		return errors.NewFieldRangeError("geometry.segBits", g.SegBits, 1, maxSegBits).
			WithMessage("segment bit width must fit the 16-bit segment field packed into an encoded block address")
	}
	if g.BlkBits == 0 || g.BlkBits > maxBlkBits {
		return errors.NewFieldRangeError("geometry.blkBits", g.BlkBits, 1, maxBlkBits).
			WithMessage("block bit width must fit the 10-bit slot field packed into an encoded block address")
	}
	if g.OffsetBits == 0 || g.OffsetBits > maxOffsetBits {
		return errors.NewFieldRangeError("geometry.offsetBits", g.OffsetBits, 1, maxOffsetBits).
			WithMessage("block size exponent is out of range")
	}
	if g.InodeBits == 0 || g.InodeBits > maxInodeBits {
		return errors.NewFieldRangeError("geometry.inodeBits", g.InodeBits, 1, maxInodeBits).
			WithMessage("inode bit width must fit the 3-byte inode field packed into a block_id's first three layers")
	}
	return nil
}

// SegmentsPerDisk is 2^SegBits.
func (g Geometry) SegmentsPerDisk() uint32 { return 1 << g.SegBits }

// BlocksPerSegment is 2^BlkBits.
func (g Geometry) BlocksPerSegment() uint32 { return 1 << g.BlkBits }

// BytesPerBlock is 2^OffsetBits.
func (g Geometry) BytesPerBlock() uint32 { return 1 << g.OffsetBits }

// InodesPerFS is 2^InodeBits.
func (g Geometry) InodesPerFS() uint64 { return 1 << g.InodeBits }

// AddrsPerBlock is BytesPerBlock / sizeof(encoded BlockAddr).
func (g Geometry) AddrsPerBlock() uint32 { return g.BytesPerBlock() / blockAddrEncodedSize }

// Inode child-array layout constants (original_source/types.h). These are
// invariant across geometries: they describe the fixed shape of an inode's
// own block, not the disk's addressing scheme.
const (
	NDirect    = 100
	NSIndirect = 10
	NDIndirect = 10
	NTIndirect = 1

	// InodeChildSlots is the total number of child address slots an inode
	// holds: direct pointers followed by single/double/triple-indirect roots.
	InodeChildSlots = NDirect + NSIndirect + NDIndirect + NTIndirect
)

// MaxDepth is the deepest a block_id can go (triple-indirect data block).
const MaxDepth = 7

// blockAddrEncodedSize is the on-disk width of an encoded BlockAddr, in
// bytes. It packs {non_null, segment, block} into a single little-endian
// uint32, which comfortably covers the source geometry's SEG_BITS(16) +
// BLK_BITS(10) + 1 non_null bit (27 of 32 bits used).
const blockAddrEncodedSize = 4

// BlockAddr is a physical location on disk: a segment index and a block
// slot within that segment. The zero value is the null address.
type BlockAddr struct {
	NonNull bool
	Segment uint32
	Block   uint32
}

// NullAddr is the canonical absent address.
var NullAddr = BlockAddr{}

// Encode packs the address into its 4-byte on-disk representation.
func (a BlockAddr) Encode() uint32 {
	var v uint32
	if a.NonNull {
		v |= 1
	}
	v |= (a.Segment & 0xFFFF) << 1
	v |= (a.Block & 0x3FF) << 17
	return v
}

// DecodeBlockAddr unpacks a BlockAddr from its 4-byte on-disk form.
func DecodeBlockAddr(v uint32) BlockAddr {
	return BlockAddr{
		NonNull: v&1 != 0,
		Segment: (v >> 1) & 0xFFFF,
		Block:   (v >> 17) & 0x3FF,
	}
}

// blockIDEncodedSize is the on-disk width of an encoded BlockID: one byte
// for non_null, one for depth, and seven little-endian uint16 layers
// (wide enough to hold a slot index up to ADDRS_PER_BLOCK-1, unlike the
// single-byte layers of the original C source — see DESIGN.md).
const blockIDEncodedSize = 1 + 1 + 7*2

// BlockID names a block by its coordinate in the inode-map tree: a depth
// (0-7) and up to seven layer indices. Only layers[0:Depth] are meaningful;
// callers and Equal must never compare beyond Depth.
type BlockID struct {
	NonNull bool
	Depth   uint8
	Layers  [7]uint16
}

// RootID is the inode-map root: depth 0, no layers.
var RootID = BlockID{NonNull: true, Depth: 0}

// Equal reports whether a and b name the same block. Both must be non-null,
// their depths must match, and the first Depth layer entries must be equal;
// entries beyond Depth are never inspected.
func (id BlockID) Equal(other BlockID) bool {
	if !id.NonNull || !other.NonNull {
		return false
	}
	if id.Depth != other.Depth {
		return false
	}
	for i := uint8(0); i < id.Depth; i++ {
		if id.Layers[i] != other.Layers[i] {
			return false
		}
	}
	return true
}

// Parent returns the id of the block that references id, i.e. id with its
// depth decremented. Calling Parent on a depth-0 id is undefined — callers
// must never recurse above the root.
func (id BlockID) Parent() BlockID {
	id.Depth--
	return id
}

// ChildSlot returns the index within id's parent's child-address array at
// which id itself is referenced: the last of id's meaningful layer entries.
// Undefined for depth 0 (the root has no parent to be a slot of).
func (id BlockID) ChildSlot() uint16 {
	return id.Layers[id.Depth-1]
}

// Encode writes id's 16-byte on-disk representation into buf, which must be
// at least blockIDEncodedSize bytes.
func (id BlockID) Encode(buf []byte) {
	if id.NonNull {
		buf[0] = 1
	} else {
		buf[0] = 0
	}
	buf[1] = id.Depth
	for i, l := range id.Layers {
		off := 2 + i*2
		buf[off] = byte(l)
		buf[off+1] = byte(l >> 8)
	}
}

// DecodeBlockID reads a BlockID from its on-disk representation. buf must be
// at least blockIDEncodedSize bytes.
func DecodeBlockID(buf []byte) BlockID {
	var id BlockID
	id.NonNull = buf[0] != 0
	id.Depth = buf[1]
	for i := range id.Layers {
		off := 2 + i*2
		id.Layers[i] = uint16(buf[off]) | uint16(buf[off+1])<<8
	}
	return id
}

// EncodedSize returns the on-disk width of an encoded BlockID.
func EncodedSize() int { return blockIDEncodedSize }

// AddrEncodedSize returns the on-disk width of an encoded BlockAddr.
func AddrEncodedSize() int { return blockAddrEncodedSize }
