package errors

// ErrorCode represents a standardized way to categorize different types of errors.
type ErrorCode string

// Base error codes represent the fundamental categories of failures that can
// occur across any software system. These codes provide the foundation layer
// of error classification.
const (
	// ErrorCodeIO represents failures in input/output operations across any
	// system boundary: opening or extending the disk image, mmap'ing it,
	// or flushing a segment to the host page cache.
	ErrorCodeIO ErrorCode = "IO_ERROR"

	// ErrorCodeInvalidInput represents caller errors where the provided
	// coordinates don't meet the system's requirements — an inode number or
	// block_id that is out of range, a depth outside [0,7].
	ErrorCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrorCodeInternal represents unexpected system failures that don't fit
	// into other categories: bugs, assertion failures, or broken invariants
	// that shouldn't occur during normal operation.
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Storage-specific error codes extend the base taxonomy to the disk
// substrate's unique failure modes: image formatting, mmap/mprotect, and the
// superblock commit protocol.
const (
	// ErrorCodeDiskFormatFailed indicates that Open could not extend or
	// initially map the backing image file.
	ErrorCodeDiskFormatFailed ErrorCode = "DISK_FORMAT_FAILED"

	// ErrorCodeProtectionFault indicates that Sync failed to change the page
	// protection of a segment or the superblock (sealing the committed
	// segment, unlocking or resealing the superblock, unlocking the next
	// staging segment). A write into a committed segment is not reported
	// with this code: the kernel raises SIGSEGV for it.
	ErrorCodeProtectionFault ErrorCode = "PROTECTION_FAULT"

	// ErrorCodeInvalidBlockID indicates a block_id with an out-of-range
	// depth, or Parent() invoked at depth 0.
	ErrorCodeInvalidBlockID ErrorCode = "INVALID_BLOCK_ID"

	// ErrorCodePermissionDenied indicates insufficient permissions to open or
	// extend the disk image file.
	ErrorCodePermissionDenied ErrorCode = "PERMISSION_DENIED"

	// ErrorCodeDiskFull indicates that the host filesystem backing the image
	// has run out of space.
	ErrorCodeDiskFull ErrorCode = "DISK_FULL"

	// ErrorCodeFilesystemReadonly indicates that the filesystem holding the
	// image is mounted read-only.
	ErrorCodeFilesystemReadonly ErrorCode = "FILESYSTEM_READONLY"
)
