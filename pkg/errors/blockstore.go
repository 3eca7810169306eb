package errors

// BlockstoreError provides specialized error handling for inode-map tree
// operations: Find, Touch, and Locate. It extends the base error system with
// the coordinate and verb that were in flight when the failure occurred.
type BlockstoreError struct {
	// Embed the base error to inherit all standard error functionality
	// including error chaining, structured details, and error codes.
	*baseError

	// blockID is a human-readable rendering of the logical BlockID being
	// resolved when the error occurred (e.g. "depth=5 layers=[0 0 8 100 372]").
	blockID string

	// operation names the blockstore verb in flight: "find", "touch", "sync",
	// or "locate".
	operation string

	// depth records the tree depth reached when the error occurred, useful
	// for pinpointing exactly which indirect level was being traversed.
	depth int
}

// NewBlockstoreError creates a new blockstore-specific error with the
// provided context.
func NewBlockstoreError(err error, code ErrorCode, msg string) *BlockstoreError {
	return &BlockstoreError{baseError: NewBaseError(err, code, msg), depth: -1}
}

// Override base error methods to return *BlockstoreError instead of *baseError.

// WithMessage updates the error message while maintaining the BlockstoreError type.
func (be *BlockstoreError) WithMessage(msg string) *BlockstoreError {
	be.baseError.WithMessage(msg)
	return be
}

// WithCode sets the error code while preserving the BlockstoreError type.
func (be *BlockstoreError) WithCode(code ErrorCode) *BlockstoreError {
	be.baseError.WithCode(code)
	return be
}

// WithDetail adds contextual information while maintaining the BlockstoreError type.
func (be *BlockstoreError) WithDetail(key string, value any) *BlockstoreError {
	be.baseError.WithDetail(key, value)
	return be
}

// WithBlockID records which logical block coordinate was being resolved.
func (be *BlockstoreError) WithBlockID(blockID string) *BlockstoreError {
	be.blockID = blockID
	return be
}

// WithOperation records which blockstore verb was being performed.
func (be *BlockstoreError) WithOperation(operation string) *BlockstoreError {
	be.operation = operation
	return be
}

// WithDepth records the tree depth reached when the error occurred.
func (be *BlockstoreError) WithDepth(depth int) *BlockstoreError {
	be.depth = depth
	return be
}

// BlockID returns the logical block coordinate that was being resolved.
func (be *BlockstoreError) BlockID() string {
	return be.blockID
}

// Operation returns the blockstore verb that was being performed.
func (be *BlockstoreError) Operation() string {
	return be.operation
}

// Depth returns the tree depth reached when the error occurred, or -1.
func (be *BlockstoreError) Depth() int {
	return be.depth
}

// NewInvalidBlockIDError creates an error for a BlockID outside the valid
// depth range, or a Parent()/ChildSlot() call made at depth 0.
func NewInvalidBlockIDError(blockID string, depth int) *BlockstoreError {
	return NewBlockstoreError(nil, ErrorCodeInvalidBlockID, "block_id is outside the valid inode-map tree range").
		WithBlockID(blockID).
		WithDepth(depth)
}
