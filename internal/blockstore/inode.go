package blockstore

import (
	"encoding/binary"

	"github.com/iamNilotpal/lfsgo/internal/blockid"
	"github.com/iamNilotpal/lfsgo/internal/disk"
)

// InodeType classifies what an inode names on disk. Stored but never
// enforced — spec.md's Non-goals exclude permissions enforcement, not
// storing the bits original_source's inode_t carries.
type InodeType uint8

const (
	InodeTypeNormal InodeType = iota
	InodeTypeDirectory
	InodeTypeLink
)

// inodeMetadataOffset is where per-inode metadata begins within an inode
// block (depth 3), placed just past the child address array (InodeChildSlots
// entries) so it never collides with the generic address read/write path
// Find and Touch use against every indirect block regardless of depth.
var inodeMetadataOffset = blockid.InodeChildSlots * blockid.AddrEncodedSize()

const (
	offSize        = 0  // uint64
	offType        = 8  // uint8
	offPermissions = 9  // uint16
	offOwner       = 11 // uint32
	offGroup       = 15 // uint32
	offModified    = 19 // int64, unix nanoseconds
	offCreated     = 27 // int64, unix nanoseconds
)

// Inode is a typed view over a depth-3 block, the one named by an inode
// number's three bytes: the direct/indirect child address family whose
// slots DatanumToBlockID's Layers[3] indexes, plus the metadata original_source's
// inode_t carries (size, type, permissions, owner, group, timestamps).
// This is a supplemental, optional accessor layered on top of a block
// already resolved by Find or Touch — neither of those needs it, since
// they treat every block generically as a byte array.
type Inode struct {
	block *disk.Block
}

// AsInode views an already-resolved block as an inode. Callers are
// responsible for only doing this at depth 3 (a depth-4 block is a direct
// data block or a single-indirect block); the view itself does not
// validate depth.
func AsInode(b *disk.Block) *Inode {
	return &Inode{block: b}
}

func (i *Inode) meta() []byte { return i.block.Bytes[inodeMetadataOffset:] }

// Size returns the file's logical byte length.
func (i *Inode) Size() uint64 { return binary.LittleEndian.Uint64(i.meta()[offSize:]) }

// SetSize updates the file's logical byte length.
func (i *Inode) SetSize(size uint64) { binary.LittleEndian.PutUint64(i.meta()[offSize:], size) }

// Type returns what kind of entity this inode names.
func (i *Inode) Type() InodeType { return InodeType(i.meta()[offType]) }

// SetType updates what kind of entity this inode names.
func (i *Inode) SetType(t InodeType) { i.meta()[offType] = byte(t) }

// Permissions returns the stored permission bits. Never enforced by this
// package; enforcement is an external collaborator per spec §1.
func (i *Inode) Permissions() uint16 { return binary.LittleEndian.Uint16(i.meta()[offPermissions:]) }

// SetPermissions updates the stored permission bits.
func (i *Inode) SetPermissions(perm uint16) {
	binary.LittleEndian.PutUint16(i.meta()[offPermissions:], perm)
}

// Owner returns the stored owner id.
func (i *Inode) Owner() uint32 { return binary.LittleEndian.Uint32(i.meta()[offOwner:]) }

// SetOwner updates the stored owner id.
func (i *Inode) SetOwner(owner uint32) { binary.LittleEndian.PutUint32(i.meta()[offOwner:], owner) }

// Group returns the stored group id.
func (i *Inode) Group() uint32 { return binary.LittleEndian.Uint32(i.meta()[offGroup:]) }

// SetGroup updates the stored group id.
func (i *Inode) SetGroup(group uint32) { binary.LittleEndian.PutUint32(i.meta()[offGroup:], group) }

// ModifiedAt returns the last-modified timestamp, unix nanoseconds.
func (i *Inode) ModifiedAt() int64 { return int64(binary.LittleEndian.Uint64(i.meta()[offModified:])) }

// SetModifiedAt updates the last-modified timestamp, unix nanoseconds.
func (i *Inode) SetModifiedAt(unixNano int64) {
	binary.LittleEndian.PutUint64(i.meta()[offModified:], uint64(unixNano))
}

// CreatedAt returns the creation timestamp, unix nanoseconds.
func (i *Inode) CreatedAt() int64 { return int64(binary.LittleEndian.Uint64(i.meta()[offCreated:])) }

// SetCreatedAt updates the creation timestamp, unix nanoseconds.
func (i *Inode) SetCreatedAt(unixNano int64) {
	binary.LittleEndian.PutUint64(i.meta()[offCreated:], uint64(unixNano))
}
