package blockstore

import (
	"path/filepath"
	"testing"

	"github.com/iamNilotpal/lfsgo/internal/blockid"
	"github.com/iamNilotpal/lfsgo/internal/disk"
	"github.com/iamNilotpal/lfsgo/pkg/logger"
)

var testGeometry = blockid.Geometry{SegBits: 2, BlkBits: 3, OffsetBits: 12, InodeBits: 8}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "disk.lfs")
	d, err := disk.Open(disk.Config{Path: path, Geometry: testGeometry, Logger: logger.New("blockstore_test")}, true)
	if err != nil {
		t.Fatalf("disk.Open() error: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return New(Config{Disk: d, Logger: logger.New("blockstore_test")})
}

func TestFindReturnsRootAfterFormat(t *testing.T) {
	store := newTestStore(t)

	block := store.Find(blockid.RootID)
	if block == nil {
		t.Fatalf("expected root to be resolvable immediately after format")
	}
	addr := store.Locate(block)
	if addr.Segment != 0 || addr.Block != 0 {
		t.Fatalf("expected root at segment=0 block=0, got %+v", addr)
	}
	for _, b := range block.Bytes {
		if b != 0 {
			t.Fatalf("expected zeroed root block")
		}
	}
}

func TestTouchRootAllocatesNewCopy(t *testing.T) {
	store := newTestStore(t)

	block, err := store.Touch(blockid.RootID)
	if err != nil {
		t.Fatalf("Touch() error: %v", err)
	}
	addr := store.Locate(block)
	if addr.Segment != 0 || addr.Block != 1 {
		t.Fatalf("expected touched root at segment=0 block=1, got %+v", addr)
	}

	dirty, dirtyAddr := store.IsDirty(blockid.RootID)
	if !dirty || dirtyAddr.Block != 1 {
		t.Fatalf("expected root to be dirty at slot 1, got dirty=%v addr=%+v", dirty, dirtyAddr)
	}
}

func TestTouchIsIdempotentWithinStagingEpoch(t *testing.T) {
	store := newTestStore(t)

	first, err := store.Touch(blockid.RootID)
	if err != nil {
		t.Fatalf("Touch() error: %v", err)
	}
	second, err := store.Touch(blockid.RootID)
	if err != nil {
		t.Fatalf("Touch() error: %v", err)
	}

	if store.Locate(first) != store.Locate(second) {
		t.Fatalf("expected repeated Touch of the same id within an epoch to return the same slot")
	}
}

func TestFindReturnsNilForUntouchedDescendant(t *testing.T) {
	store := newTestStore(t)

	leaf := blockid.BlockID{NonNull: true, Depth: 4, Layers: [7]uint16{0, 0, 8, 5}}
	if block := store.Find(leaf); block != nil {
		t.Fatalf("expected nil for an untouched descendant, got a block")
	}
}

func TestTouchPropagatesAncestryToRoot(t *testing.T) {
	store := newTestStore(t)

	leaf := blockid.BlockID{NonNull: true, Depth: 4, Layers: [7]uint16{0, 0, 8, 5}}
	block, err := store.Touch(leaf)
	if err != nil {
		t.Fatalf("Touch() error: %v", err)
	}
	if block == nil {
		t.Fatalf("expected a non-nil block from Touch")
	}

	if dirty, _ := store.IsDirty(leaf); !dirty {
		t.Fatalf("expected leaf to be dirty after Touch")
	}
	if dirty, _ := store.IsDirty(blockid.RootID); !dirty {
		t.Fatalf("expected root to be dirty after touching a descendant")
	}

	found := store.Find(leaf)
	if found == nil || store.Locate(found) != store.Locate(block) {
		t.Fatalf("expected Find to resolve the same slot Touch returned")
	}
}

func TestTouchSyncsBeforeAllocatingWhenStagingSegmentWouldOverflow(t *testing.T) {
	// testGeometry's BlkBits: 3 gives an 8-block staging segment: slot 0 is
	// reserved for the root, leaving 7 usable slots. Fill 5 of them with
	// unrelated depth-1 blocks, then Touch a depth-2 descendant of an
	// untouched depth-1 parent: that allocation needs 2 free slots and 2
	// remain, but WillOverflow's conservative check (nextBlock 6 + depth 2
	// >= 8 blocks) trips before either allocation and forces a Sync
	// (spec §4.3's flush-before-allocate rule).
	store := newTestStore(t)

	for i := uint16(1); i <= 5; i++ {
		filler := blockid.BlockID{NonNull: true, Depth: 1, Layers: [7]uint16{i}}
		if _, err := store.Touch(filler); err != nil {
			t.Fatalf("Touch(filler %d) error: %v", i, err)
		}
	}

	startSegment := store.disk.StagingSegment()

	leaf := blockid.BlockID{NonNull: true, Depth: 2, Layers: [7]uint16{6, 9}}
	block, err := store.Touch(leaf)
	if err != nil {
		t.Fatalf("Touch() error: %v", err)
	}
	if block == nil {
		t.Fatalf("expected a non-nil block from Touch")
	}

	if got := store.disk.StagingSegment(); got == startSegment {
		t.Fatalf("expected Touch to roll the staging segment from %d before allocating, got %d", startSegment, got)
	}

	found := store.Find(leaf)
	if found == nil || store.Locate(found) != store.Locate(block) {
		t.Fatalf("expected Find to resolve the same slot Touch returned after the mid-touch sync")
	}
	if dirty, _ := store.IsDirty(blockid.RootID); !dirty {
		t.Fatalf("expected root to be dirty in the new staging segment after the mid-touch sync")
	}
	parent := leaf.Parent()
	if dirty, _ := store.IsDirty(parent); !dirty {
		t.Fatalf("expected leaf's parent to be dirty in the new staging segment after the mid-touch sync")
	}
}

func TestInodeMetadataRoundTrip(t *testing.T) {
	store := newTestStore(t)

	block, err := store.Touch(blockid.BlockID{NonNull: true, Depth: 3, Layers: [7]uint16{0, 0, 8}})
	if err != nil {
		t.Fatalf("Touch() error: %v", err)
	}

	inode := AsInode(block)
	inode.SetSize(4096)
	inode.SetType(InodeTypeDirectory)
	inode.SetPermissions(0755)
	inode.SetOwner(1000)
	inode.SetGroup(1000)
	inode.SetCreatedAt(1700000000)
	inode.SetModifiedAt(1700000001)

	if got := inode.Size(); got != 4096 {
		t.Fatalf("expected size 4096, got %d", got)
	}
	if got := inode.Type(); got != InodeTypeDirectory {
		t.Fatalf("expected directory type, got %d", got)
	}
	if got := inode.Permissions(); got != 0755 {
		t.Fatalf("expected permissions 0755, got %o", got)
	}
	if got := inode.Owner(); got != 1000 {
		t.Fatalf("expected owner 1000, got %d", got)
	}
	if got := inode.CreatedAt(); got != 1700000000 {
		t.Fatalf("expected created timestamp 1700000000, got %d", got)
	}
}
