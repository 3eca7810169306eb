package errors

// StorageError is a specialized error type for disk-substrate operations. It
// embeds baseError to inherit the standard error functionality, then adds
// fields that pinpoint exactly where on the image the problem occurred.
type StorageError struct {
	*baseError
	segment  int    // Which segment was being accessed when the error occurred, -1 if not applicable.
	block    int    // Slot within the segment where the problem happened, -1 if not applicable.
	fileName string // Name of the backing image file.
	path     string // Path of the backing image file.
}

// NewStorageError creates a new storage-specific error.
func NewStorageError(err error, code ErrorCode, msg string) *StorageError {
	return &StorageError{baseError: NewBaseError(err, code, msg), segment: -1, block: -1}
}

// WithSegment records which segment was involved in the error.
func (se *StorageError) WithSegment(segment int) *StorageError {
	se.segment = segment
	return se
}

// WithBlock records the slot within the segment where the error happened.
// Combined with WithSegment this gives the exact (segment, block) coordinate.
func (se *StorageError) WithBlock(block int) *StorageError {
	se.block = block
	return se
}

// WithFileName captures which file was being processed when the error occurred.
func (se *StorageError) WithFileName(fileName string) *StorageError {
	se.fileName = fileName
	return se
}

// WithPath captures which path was being processed when the error occurred.
func (se *StorageError) WithPath(path string) *StorageError {
	se.path = path
	return se
}

// WithDetail adds contextual information while preserving the StorageError type.
func (se *StorageError) WithDetail(key string, value any) *StorageError {
	se.baseError.WithDetail(key, value)
	return se
}

// Segment returns the segment index where the error occurred, or -1.
func (se *StorageError) Segment() int {
	return se.segment
}

// Block returns the block slot where the error occurred, or -1.
func (se *StorageError) Block() int {
	return se.block
}

// FileName returns the name of the file that was being processed.
func (se *StorageError) FileName() string {
	return se.fileName
}

// Path returns the path of the file that was being processed.
func (se *StorageError) Path() string {
	return se.path
}
