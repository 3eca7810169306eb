// This package addresses the fundamental challenge that generic error handling presents in complex
// systems: when an error occurs, developers and operators need much more than just "something went wrong."
// They need to understand exactly what failed, why it failed, where it failed, and most importantly,
// what they can do about it. This package transforms error handling from reactive debugging into
// proactive problem resolution.
//
// Architecture and Design Philosophy:
//
// The error system is built around a hierarchical structure that starts with a foundational baseError
// and extends into domain-specific error types. This design provides several key advantages:
// it maintains consistency across all error types while allowing specialized context for different
// domains, enables rich error chaining that preserves the complete failure context, supports
// programmatic error handling through standardized error codes, and facilitates comprehensive
// logging and monitoring through structured error details.
//
// The system recognizes that different layers of a storage engine fail in fundamentally different
// ways and require different types of contextual information for effective diagnosis and recovery.
// A validation error needs to know which field failed and what rule was violated. A storage error
// needs to know which segment and block were involved. A blockstore error needs to know which
// logical block_id and which inode-map operation were being processed. By capturing this
// domain-specific context at the point of failure, the system enables much more intelligent error
// handling throughout the application stack.
//
// Error Classification and Codes:
//
// Central to this system is a comprehensive error code taxonomy that provides standardized
// categorization of failures. These codes serve multiple purposes: they enable programmatic
// error handling that doesn't rely on parsing error messages, they provide consistent
// categorization for monitoring and alerting systems, they facilitate error recovery logic
// by identifying specific failure modes, and they support internationalization by separating
// error identification from error presentation.
//
// The error codes are organized into several categories. Base codes cover fundamental failure
// types that can occur in any system: IO_ERROR for input/output failures, INVALID_INPUT for
// client-side validation problems, and INTERNAL_ERROR for unexpected system failures.
// Storage-specific codes handle the disk substrate's unique failure modes: DISK_FORMAT_FAILED
// for image creation problems, PROTECTION_FAULT for a page-protection change that failed during
// Sync, and the usual permission/capacity codes. Blockstore-specific codes address
// the inode-map tree's own failure modes: INVALID_BLOCK_ID for malformed coordinates, surfaced
// when Touch reaches the root without finding it dirty.
//
// Usage Patterns and Best Practices:
//
// This error handling system is designed to support several key usage patterns that improve
// both developer experience and operational visibility.
//
// For error creation, the package encourages building errors with comprehensive context at
// the point of failure. This means capturing not just what went wrong, but where it went
// wrong, what was being attempted, and what conditions led to the failure. The fluent
// interface pattern makes this context capture both readable and maintainable.
//
// For error handling, the package supports both programmatic error handling (using error
// codes and type detection) and human-readable error reporting (using structured messages
// and details). This dual approach enables both robust automated error recovery and
// effective human troubleshooting.
//
// For error propagation, the package encourages preserving error context as errors flow
// through system layers while adding layer-specific context when appropriate. This creates
// a comprehensive audit trail of what happened during a failure, making root cause analysis
// much more effective.
package errors

import (
	stdErrors "errors"
	"os"
	"syscall"
)

// IsValidationError checks if the given error is a ValidationError or contains one in its error chain.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return stdErrors.As(err, &ve)
}

// IsStorageError determines if an error is related to disk-substrate operations, such as
// image I/O, mmap/mprotect failures, or the superblock commit protocol. Storage errors
// often require different handling strategies than other error types because they may
// indicate hardware issues, capacity problems, or data integrity concerns that need
// immediate attention.
//
// Example usage:
//
//	if errors.IsStorageError(err) {
//	    storageErr, _ := errors.AsStorageError(err)
//	    switch storageErr.Code() {
//	    case ErrorCodeDiskFull:
//	        triggerCleanupProcedures()
//	    case ErrorCodePermissionDenied:
//	        alertAdministrator(storageErr.Path())
//	    }
//	}
func IsStorageError(err error) bool {
	var se *StorageError
	return stdErrors.As(err, &se)
}

// IsBlockstoreError identifies errors that occurred while resolving or mutating the
// inode-map tree: Find, Touch, Locate. Blockstore errors carry the logical block_id and
// the verb in flight, which is essential for diagnosing copy-on-write and allocation bugs.
//
// Example usage:
//
//	if errors.IsBlockstoreError(err) {
//	    bsErr, _ := errors.AsBlockstoreError(err)
//	    log.Errorw("inode-map tree corrupted", "blockID", bsErr.BlockID(), "depth", bsErr.Depth())
//	}
func IsBlockstoreError(err error) bool {
	var be *BlockstoreError
	return stdErrors.As(err, &be)
}

// AsValidationError safely extracts a ValidationError from an error chain, providing access
// to validation-specific context such as which field failed, what rule was violated, and
// what values were provided versus expected.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if stdErrors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// AsStorageError extracts StorageError context from an error chain, providing access to
// storage-specific information such as segment indices, block slots, file names, and paths.
// This context is crucial for implementing storage error recovery procedures and for
// providing detailed information to system administrators and monitoring systems.
//
// Example usage:
//
//	if storageErr, ok := errors.AsStorageError(err); ok {
//	    errorContext := map[string]interface{}{
//	        "segment": storageErr.Segment(),
//	        "block": storageErr.Block(),
//	        "fileName": storageErr.FileName(),
//	        "path": storageErr.Path(),
//	        "errorCode": storageErr.Code(),
//	    }
//	    handleStorageFailure(errorContext)
//	}
func AsStorageError(err error) (*StorageError, bool) {
	var se *StorageError
	if stdErrors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// AsBlockstoreError extracts BlockstoreError context, providing access to blockstore-specific
// information such as the block_id being resolved, the operation being performed, and the
// tree depth reached. This context is essential for diagnosing copy-on-write bugs and
// planning recovery from a broken inode-map invariant.
func AsBlockstoreError(err error) (*BlockstoreError, bool) {
	var be *BlockstoreError
	if stdErrors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// GetErrorCode extracts the error code from any error that supports it, or returns
// ErrorCodeInternal for errors that don't have specific codes. This function provides
// a consistent way to categorize errors for monitoring and handling purposes.
//
// Example usage:
//
//	errorCode := errors.GetErrorCode(err)
//	metrics.IncrementErrorCounter(string(errorCode))
//
//	switch errorCode {
//	case errors.ErrorCodeDiskFull:
//	    triggerDiskSpaceAlert()
//	case errors.ErrorCodePermissionDenied:
//	    escalateToAdministrator()
//	}
func GetErrorCode(err error) ErrorCode {
	if ve, ok := AsValidationError(err); ok {
		return ve.Code()
	}

	if se, ok := AsStorageError(err); ok {
		return se.Code()
	}

	if be, ok := AsBlockstoreError(err); ok {
		return be.Code()
	}

	return ErrorCodeInternal
}

// GetErrorDetails extracts structured details from any error that supports them,
// returning an empty map for errors without details. This function provides consistent
// access to additional error context regardless of the specific error type.
func GetErrorDetails(err error) map[string]any {
	if ve, ok := AsValidationError(err); ok {
		if details := ve.Details(); details != nil {
			return details
		}
	}

	if se, ok := AsStorageError(err); ok {
		if details := se.Details(); details != nil {
			return details
		}
	}

	if be, ok := AsBlockstoreError(err); ok {
		if details := be.Details(); details != nil {
			return details
		}
	}

	return make(map[string]any)
}

// ClassifyImageOpenError analyzes disk-image open/create failures and returns appropriate
// error codes based on the underlying system error. This helps callers understand exactly
// what went wrong and how they might fix it.
func ClassifyImageOpenError(err error, path, fileName string) error {
	if os.IsPermission(err) {
		return NewStorageError(
			err, ErrorCodePermissionDenied,
			"insufficient permissions to open disk image",
		).WithPath(path).
			WithFileName(fileName).
			WithDetail("operation", "image_open").
			WithDetail("required_permission", "read_write").
			WithDetail("suggestion", "check file permissions or run with elevated privileges")
	}

	if pathErr, ok := err.(*os.PathError); ok {
		if errno, ok := pathErr.Err.(syscall.Errno); ok {
			switch errno {
			case syscall.ENOSPC:
				return NewStorageError(
					err, ErrorCodeDiskFull,
					"insufficient disk space to extend disk image",
				).WithPath(path).
					WithFileName(fileName).
					WithDetail("operation", "image_open").
					WithDetail("suggestion", "free up disk space or choose a different location")
			case syscall.EROFS:
				return NewStorageError(
					err, ErrorCodeFilesystemReadonly,
					"cannot create disk image on read-only filesystem",
				).WithPath(path).
					WithFileName(fileName).
					WithDetail("operation", "image_open").
					WithDetail("suggestion", "remount filesystem with write permissions")
			}
		}
	}

	return NewStorageError(err, ErrorCodeDiskFormatFailed, "failed to open disk image").
		WithPath(path).
		WithFileName(fileName).
		WithDetail("operation", "image_open")
}

// ClassifyMmapError analyzes mmap/mprotect failures and returns an appropriate error code.
// These failures almost always indicate either a corrupted image size or exhausted address
// space rather than a transient condition, so they're classified as format failures.
func ClassifyMmapError(err error, path string, length int) error {
	return NewStorageError(err, ErrorCodeDiskFormatFailed, "failed to map disk image into memory").
		WithPath(path).
		WithDetail("operation", "mmap").
		WithDetail("length", length)
}

// ClassifySyncError analyzes msync/superblock-commit failures and returns appropriate
// error codes. Sync failures can indicate various underlying issues from disk space
// problems to filesystem corruption.
func ClassifySyncError(err error, fileName, path string, segment uint32) error {
	// msync reports a bare syscall.Errno rather than an *os.PathError, so the
	// errno is looked up anywhere in the chain.
	if err != nil {
		if errno := syscall.Errno(0); stdErrors.As(err, &errno) {
			switch errno {
			case syscall.ENOSPC:
				return NewStorageError(
					err, ErrorCodeDiskFull,
					"cannot sync disk image: insufficient disk space",
				).WithFileName(fileName).
					WithPath(path).
					WithSegment(int(segment)).
					WithDetail("operation", "sync").
					WithDetail("suggestion", "free up disk space before continuing")
			case syscall.EROFS:
				return NewStorageError(
					err, ErrorCodeFilesystemReadonly,
					"cannot sync disk image: filesystem is read-only",
				).WithFileName(fileName).
					WithPath(path).
					WithSegment(int(segment)).
					WithDetail("operation", "sync").
					WithDetail("suggestion", "remount filesystem with write permissions")
			case syscall.EIO:
				return NewStorageError(
					err, ErrorCodeIO,
					"I/O error during msync - possible hardware or corruption issue",
				).WithFileName(fileName).
					WithPath(path).
					WithSegment(int(segment)).
					WithDetail("operation", "sync").
					WithDetail("severity", "high").
					WithDetail("suggestion", "check filesystem integrity and hardware health")
			}
		}
	}

	return NewStorageError(
		err, ErrorCodeIO, "failed to sync disk image to disk",
	).WithFileName(fileName).WithPath(path).WithSegment(int(segment)).
		WithDetail("operation", "sync")
}
