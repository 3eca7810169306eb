// Package disk owns the mmap'd disk image: a single flat file holding
// SegmentsPerDisk segments followed by a superblock. It enforces the
// append-only discipline described in spec §4.2 using page protection —
// every segment is mapped read-only except the one currently staging new
// writes, and the kernel itself raises a fault if that invariant is ever
// violated by a programming error elsewhere in the stack.
package disk

import (
	"encoding/binary"
	"os"
	"path/filepath"

	"github.com/iamNilotpal/lfsgo/internal/blockid"
	"github.com/iamNilotpal/lfsgo/pkg/errors"
	"github.com/iamNilotpal/lfsgo/pkg/filesys"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// pageSize is the granularity mprotect operates at. Segment and superblock
// regions are always padded up to a multiple of this so that toggling one
// segment's protection never touches bytes belonging to its neighbor.
const pageSize = 4096

// superblockSize is the encoded width of {current_segment, last_free}, both
// uint32, little-endian.
const superblockSize = 8

// Block is a view into one physical block slot of the mapped image. It
// carries its own (segment, slot) coordinate so callers can recover the
// physical location of a block handed back by the block store without
// resorting to pointer arithmetic against the mapping, which the source's
// debug_location relies on and Go cannot do safely.
type Block struct {
	Bytes   []byte
	Segment uint32
	Slot    uint32
}

// Config holds the parameters needed to open a disk image.
type Config struct {
	Path        string
	Geometry    blockid.Geometry
	Permissions uint32
	Logger      *zap.SugaredLogger
}

// Disk is the mmap'd disk substrate described in spec §4.2. All field
// access assumes single-threaded use — see spec §5, concurrent mutation is
// explicitly unsupported.
type Disk struct {
	path     string
	geometry blockid.Geometry
	log      *zap.SugaredLogger

	file *os.File
	data []byte

	tableSize     int64
	blocksSize    int64
	segmentSize   int64
	superblockOff int64
	totalSize     int64

	stagingSegment uint32
	nextBlock      uint32
}

func roundUpToPage(n int64) int64 {
	if rem := n % pageSize; rem != 0 {
		n += pageSize - rem
	}
	return n
}

// Open opens or creates the backing file at cfg.Path, extends it to the
// size implied by cfg.Geometry, and maps it into memory. If format is true
// the image is treated as fresh: the staging-segment index is set to
// SegmentsPerDisk-1 so the first Sync advances to segment 0 with a zeroed
// root. Otherwise the staging segment is read from the persistent
// superblock. Either way, Open ends with a call to Sync so that exactly one
// writable staging segment exists on return, per spec §4.2.
func Open(cfg Config, format bool) (*Disk, error) {
	if cfg.Path == "" {
		return nil, errors.NewRequiredFieldError("path").WithMessage("disk.Config.Path must name the backing image file")
	}
	if cfg.Permissions > 0777 {
		return nil, errors.NewFieldRangeError("permissions", cfg.Permissions, 0, 0777).
			WithMessage("disk image permissions must be a valid unix file mode")
	}

	g := cfg.Geometry
	if (g == blockid.Geometry{}) {
		g = blockid.DefaultGeometry
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}

	d := &Disk{path: cfg.Path, geometry: g, log: cfg.Logger}
	rawTableSize := int64(g.BlocksPerSegment()) * int64(blockid.EncodedSize())
	d.tableSize = roundUpToPage(rawTableSize)
	d.blocksSize = roundUpToPage(int64(g.BlocksPerSegment()) * int64(g.BytesPerBlock()))
	d.segmentSize = d.tableSize + d.blocksSize
	d.superblockOff = int64(g.SegmentsPerDisk()) * d.segmentSize
	d.totalSize = d.superblockOff + roundUpToPage(superblockSize)

	if err := filesys.CreateDir(filepath.Dir(cfg.Path), 0755, true); err != nil {
		return nil, errors.ClassifyImageOpenError(err, filepath.Dir(cfg.Path), filepath.Base(cfg.Path))
	}

	perm := os.FileMode(cfg.Permissions)
	if perm == 0 {
		perm = 0600
	}
	file, err := os.OpenFile(cfg.Path, os.O_RDWR|os.O_CREATE, perm)
	if err != nil {
		return nil, errors.ClassifyImageOpenError(err, filepath.Dir(cfg.Path), filepath.Base(cfg.Path))
	}

	if err := file.Truncate(d.totalSize); err != nil {
		file.Close()
		return nil, errors.ClassifyImageOpenError(err, filepath.Dir(cfg.Path), filepath.Base(cfg.Path))
	}

	data, err := unix.Mmap(int(file.Fd()), 0, int(d.totalSize), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		file.Close()
		return nil, errors.ClassifyMmapError(err, cfg.Path, int(d.totalSize))
	}
	d.file = file
	d.data = data

	if format {
		d.stagingSegment = g.SegmentsPerDisk() - 1
		d.log.Infow(
			"formatting new disk image",
			"path", cfg.Path,
			"segments", g.SegmentsPerDisk(),
			"blocksPerSegment", g.BlocksPerSegment(),
			"bytesPerBlock", g.BytesPerBlock(),
			"totalSize", d.totalSize,
		)
	} else {
		d.stagingSegment = d.readSuperblockSegment()
		d.log.Infow("opening existing disk image", "path", cfg.Path, "savedSegment", d.stagingSegment)
	}

	// The segment we just selected is the one Sync will treat as the
	// about-to-be-committed staging segment (spec §4.2 names it S); it must
	// already be writable for Sync's own bookkeeping to touch it.
	if err := d.protectSegment(d.stagingSegment, true); err != nil {
		d.Close()
		return nil, errors.NewStorageError(err, errors.ErrorCodeDiskFormatFailed, "failed to mark initial segment writable").
			WithSegment(int(d.stagingSegment))
	}

	if err := d.Sync(); err != nil {
		d.Close()
		return nil, err
	}

	d.log.Infow("disk substrate ready", "path", cfg.Path, "stagingSegment", d.stagingSegment)
	return d, nil
}

// Sync atomically commits the current staging segment and selects the
// next one, following the exact step order spec §4.2 requires: flushing
// and sealing the staging segment, flipping the superblock (the commit
// point), then preparing the new staging segment with a fresh copy of the
// live root.
func (d *Disk) Sync() error {
	s := d.stagingSegment
	next := (s + 1) % d.geometry.SegmentsPerDisk()

	// 1. Flush segments[S] to disk; remap it read-only.
	segRegion := d.segmentRegion(s)
	if err := unix.Msync(segRegion, unix.MS_SYNC); err != nil {
		return errors.ClassifySyncError(err, filepath.Base(d.path), d.path, s)
	}
	if err := d.protectSegment(s, false); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeProtectionFault, "failed to seal committed segment").
			WithSegment(int(s))
	}

	// 2. Remap the superblock read-write, commit, remap read-only. This is
	// the commit point: a crash before it loses the staging segment but
	// preserves the previous root, a crash after it publishes the new one.
	if err := d.protectSuperblock(true); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeProtectionFault, "failed to unlock superblock for commit").
			WithSegment(int(s))
	}
	d.writeSuperblock(s, 0)
	if err := unix.Msync(d.superblockRegion(), unix.MS_SYNC); err != nil {
		return errors.ClassifySyncError(err, filepath.Base(d.path), d.path, s)
	}
	if err := d.protectSuperblock(false); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeProtectionFault, "failed to reseal superblock after commit").
			WithSegment(int(s))
	}

	// 3. Remap segments[S'] read-write: this is now the new staging segment.
	if err := d.protectSegment(next, true); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeProtectionFault, "failed to unlock next staging segment").
			WithSegment(int(next))
	}

	// 4. Copy the root block from slot 0 of S into slot 0 of S'.
	copy(d.blockBytes(next, 0), d.blockBytes(s, 0))

	// 5. Zero the segment table of S'; slot 0 names the root.
	table := d.tableRegion(next)
	clear(table)
	blockid.RootID.Encode(table[:blockid.EncodedSize()])

	// 6. Reserve slot 0 for the root.
	d.nextBlock = 1
	d.stagingSegment = next

	d.log.Infow("segment committed", "committedSegment", s, "newStagingSegment", next)
	return nil
}

// WillOverflow reports whether touching a chain of depth additional
// ancestors could exceed the staging segment's remaining capacity. Callers
// must check this, and Sync if true, before allocating any slot in a
// single logical operation — see spec §4.3's flush-before-allocate rule.
func (d *Disk) WillOverflow(depth int) bool {
	return d.nextBlock+uint32(depth) >= d.geometry.BlocksPerSegment()
}

// AllocateSlot reserves and returns the next free slot in the staging
// segment.
func (d *Disk) AllocateSlot() uint32 {
	slot := d.nextBlock
	d.nextBlock++
	return slot
}

// StagingSegment returns the index of the currently writable segment.
func (d *Disk) StagingSegment() uint32 { return d.stagingSegment }

// NextBlock returns the next free slot index in the staging segment.
func (d *Disk) NextBlock() uint32 { return d.nextBlock }

// Geometry returns the geometry this disk was opened with.
func (d *Disk) Geometry() blockid.Geometry { return d.geometry }

// TableEntry returns the logical block id recorded at segment/slot.
func (d *Disk) TableEntry(segment, slot uint32) blockid.BlockID {
	off := int64(slot) * int64(blockid.EncodedSize())
	table := d.tableRegion(segment)
	return blockid.DecodeBlockID(table[off : off+int64(blockid.EncodedSize())])
}

// SetTableEntry records which logical block id a slot holds. Only valid
// for the staging segment; callers must not invoke this against a
// committed segment.
func (d *Disk) SetTableEntry(segment, slot uint32, id blockid.BlockID) {
	off := int64(slot) * int64(blockid.EncodedSize())
	table := d.tableRegion(segment)
	id.Encode(table[off : off+int64(blockid.EncodedSize())])
}

// Block returns a view of the physical block at segment/slot, tagged with
// its own coordinate.
func (d *Disk) Block(segment, slot uint32) *Block {
	return &Block{Bytes: d.blockBytes(segment, slot), Segment: segment, Slot: slot}
}

// Close unmaps the image and closes the backing file.
func (d *Disk) Close() error {
	var mErr error
	if d.data != nil {
		mErr = unix.Munmap(d.data)
		d.data = nil
	}
	if d.file != nil {
		if cErr := d.file.Close(); cErr != nil && mErr == nil {
			mErr = cErr
		}
	}
	return mErr
}

func (d *Disk) segmentOffset(segment uint32) int64 {
	return int64(segment) * d.segmentSize
}

func (d *Disk) segmentRegion(segment uint32) []byte {
	off := d.segmentOffset(segment)
	return d.data[off : off+d.segmentSize]
}

func (d *Disk) tableRegion(segment uint32) []byte {
	off := d.segmentOffset(segment)
	return d.data[off : off+d.tableSize]
}

func (d *Disk) blocksRegion(segment uint32) []byte {
	off := d.segmentOffset(segment) + d.tableSize
	return d.data[off : off+d.blocksSize]
}

func (d *Disk) blockBytes(segment, slot uint32) []byte {
	region := d.blocksRegion(segment)
	off := int64(slot) * int64(d.geometry.BytesPerBlock())
	return region[off : off+int64(d.geometry.BytesPerBlock())]
}

func (d *Disk) superblockRegion() []byte {
	end := d.superblockOff + roundUpToPage(superblockSize)
	return d.data[d.superblockOff:end]
}

func (d *Disk) readSuperblockSegment() uint32 {
	return binary.LittleEndian.Uint32(d.data[d.superblockOff : d.superblockOff+4])
}

func (d *Disk) writeSuperblock(currentSegment, lastFree uint32) {
	binary.LittleEndian.PutUint32(d.data[d.superblockOff:d.superblockOff+4], currentSegment)
	binary.LittleEndian.PutUint32(d.data[d.superblockOff+4:d.superblockOff+8], lastFree)
}

func (d *Disk) protectSegment(segment uint32, writable bool) error {
	prot := unix.PROT_READ
	if writable {
		prot |= unix.PROT_WRITE
	}
	return unix.Mprotect(d.segmentRegion(segment), prot)
}

func (d *Disk) protectSuperblock(writable bool) error {
	prot := unix.PROT_READ
	if writable {
		prot |= unix.PROT_WRITE
	}
	return unix.Mprotect(d.superblockRegion(), prot)
}
