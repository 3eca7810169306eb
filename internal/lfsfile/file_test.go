package lfsfile

import (
	"path/filepath"
	"testing"

	"github.com/iamNilotpal/lfsgo/internal/blockid"
	"github.com/iamNilotpal/lfsgo/internal/blockstore"
	"github.com/iamNilotpal/lfsgo/internal/disk"
	"github.com/iamNilotpal/lfsgo/pkg/logger"
)

var testGeometry = blockid.Geometry{SegBits: 4, BlkBits: 6, OffsetBits: 12, InodeBits: 16}

func newTestFile(t *testing.T) *File {
	t.Helper()
	path := filepath.Join(t.TempDir(), "disk.lfs")
	d, err := disk.Open(disk.Config{Path: path, Geometry: testGeometry, Logger: logger.New("file_test")}, true)
	if err != nil {
		t.Fatalf("disk.Open() error: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	store := blockstore.New(blockstore.Config{Disk: d, Logger: logger.New("file_test")})
	return New(Config{Store: store, Geometry: testGeometry, Logger: logger.New("file_test")})
}

func TestDatanumToBlockIDBoundaryMapping(t *testing.T) {
	f := newTestFile(t)
	ab := uint64(testGeometry.AddrsPerBlock())

	id := f.DatanumToBlockID(8, 372)
	if id.Depth != 5 {
		t.Fatalf("expected depth 5, got %d", id.Depth)
	}
	if id.Layers[0] != 0 || id.Layers[1] != 0 || id.Layers[2] != 8 {
		t.Fatalf("expected layers[0..2]=[0,0,8], got %v", id.Layers[:3])
	}
	if want := uint16(372/ab) + blockid.NDirect; id.Layers[3] != want {
		t.Fatalf("expected layers[3]=%d, got %d", want, id.Layers[3])
	}
	if want := uint16(372 % ab); id.Layers[4] != want {
		t.Fatalf("expected layers[4]=%d, got %d", want, id.Layers[4])
	}
}

func TestDatanumToBlockIDDirectToSingleBoundary(t *testing.T) {
	f := newTestFile(t)

	direct := f.DatanumToBlockID(1, blockid.NDirect-1)
	if direct.Depth != 4 {
		t.Fatalf("expected depth 4 at N_DIRECT-1, got %d", direct.Depth)
	}

	single := f.DatanumToBlockID(1, blockid.NDirect)
	if single.Depth != 5 {
		t.Fatalf("expected depth 5 at N_DIRECT, got %d", single.Depth)
	}
}

func TestDatanumToBlockIDSingleToDoubleBoundary(t *testing.T) {
	f := newTestFile(t)
	ab := uint64(testGeometry.AddrsPerBlock())
	boundary := uint64(blockid.NDirect) + uint64(blockid.NSIndirect)*ab

	single := f.DatanumToBlockID(1, boundary-1)
	if single.Depth != 5 {
		t.Fatalf("expected depth 5 at N_DIRECT+N_SINDIRECT*AddrsPerBlock-1, got %d", single.Depth)
	}

	double := f.DatanumToBlockID(1, boundary)
	if double.Depth != 6 {
		t.Fatalf("expected depth 6 at N_DIRECT+N_SINDIRECT*AddrsPerBlock, got %d", double.Depth)
	}
}

func TestDatanumToBlockIDDoubleToTripleBoundary(t *testing.T) {
	f := newTestFile(t)
	ab := uint64(testGeometry.AddrsPerBlock())
	boundary := uint64(blockid.NDirect) + uint64(blockid.NSIndirect)*ab + uint64(blockid.NDIndirect)*ab*ab

	double := f.DatanumToBlockID(1, boundary-1)
	if double.Depth != 6 {
		t.Fatalf("expected depth 6 at N_DIRECT+N_SINDIRECT*AddrsPerBlock+N_DINDIRECT*AddrsPerBlock^2-1, got %d", double.Depth)
	}

	triple := f.DatanumToBlockID(1, boundary)
	if triple.Depth != 7 {
		t.Fatalf("expected depth 7 at N_DIRECT+N_SINDIRECT*AddrsPerBlock+N_DINDIRECT*AddrsPerBlock^2, got %d", triple.Depth)
	}
}

func TestDatanumToBlockIDRejectsOversizeInode(t *testing.T) {
	f := newTestFile(t)
	id := f.DatanumToBlockID(0xFFFFFFFF, 0)
	if id.NonNull {
		t.Fatalf("expected non_null=false for an out-of-range inode")
	}
}

func TestWriteThenReadRoundTrip(t *testing.T) {
	f := newTestFile(t)

	payload := []byte("hello world\x00")
	if !f.Write(17, payload, 100, uint64(len(payload))) {
		t.Fatalf("expected Write to succeed")
	}

	buf := make([]byte, len(payload))
	if !f.Read(17, buf, 100, uint64(len(buf))) {
		t.Fatalf("expected Read to succeed")
	}
	if string(buf) != string(payload) {
		t.Fatalf("round trip mismatch: got %q want %q", buf, payload)
	}
}

func TestReadOfUntouchedRangeFails(t *testing.T) {
	f := newTestFile(t)

	buf := make([]byte, 12)
	if f.Read(17, buf, 100_000, 12) {
		t.Fatalf("expected Read of a never-written range to fail")
	}
}

func TestReadZeroLengthAlwaysSucceeds(t *testing.T) {
	f := newTestFile(t)
	if !f.Read(17, nil, 100_000, 0) {
		t.Fatalf("expected zero-length Read to succeed unconditionally")
	}
}

func TestWriteAcrossBlockBoundary(t *testing.T) {
	f := newTestFile(t)
	bytesPerBlock := uint64(testGeometry.BytesPerBlock())

	payload := make([]byte, 16)
	for i := range payload {
		payload[i] = byte(i + 1)
	}
	offset := bytesPerBlock - 8 // straddles two blocks

	if !f.Write(3, payload, offset, uint64(len(payload))) {
		t.Fatalf("expected cross-block Write to succeed")
	}

	buf := make([]byte, len(payload))
	if !f.Read(3, buf, offset, uint64(len(buf))) {
		t.Fatalf("expected cross-block Read to succeed")
	}
	for i := range payload {
		if buf[i] != payload[i] {
			t.Fatalf("mismatch at byte %d: got %d want %d", i, buf[i], payload[i])
		}
	}
}
