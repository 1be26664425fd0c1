// Package errs provides the unified error type used across objstore.
//
// Every backend (local filesystem, MinIO, S3, …) wraps its native errors
// into *errs.Error before handing them to the filestore layer, which turns
// them into return codes. Callers that build stores (constructors, config
// loaders) receive *errs.Error directly and use the Is* predicates.
//
// Usage:
//
//	// In a driver, wrap native errors:
//	return errs.Wrap(errs.ErrKindNotFound, "object does not exist", s3Err)
//
//	// In a store, classify:
//	if errs.IsNotFound(err) {
//	    return filestore.TextFailed(filestore.FileNotFound)
//	}
package errs

import (
	"errors"
	"fmt"
)

// ErrKind categorises an error without exposing backend-specific codes.
// The filesystem and every bucket SDK map their native errors to one of
// these kinds, giving the filestore layer a single consistent vocabulary.
type ErrKind int

const (
	ErrKindUnknown          ErrKind = iota
	ErrKindNotFound                 // no object stored under the key
	ErrKindBucketNotFound           // the configured bucket does not exist
	ErrKindInvalidKey               // key rejected by the key grammar
	ErrKindInvalidConfig            // store cannot be built from its settings
	ErrKindConnectionFailed         // cannot reach the backend
	ErrKindTimeout                  // context deadline / cancellation
	ErrKindIOFailed                 // read, write or remove failed
	ErrKindPermissionDenied         // access denied / auth failure
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindNotFound:
		return "not_found"
	case ErrKindBucketNotFound:
		return "bucket_not_found"
	case ErrKindInvalidKey:
		return "invalid_key"
	case ErrKindInvalidConfig:
		return "invalid_config"
	case ErrKindConnectionFailed:
		return "connection_failed"
	case ErrKindTimeout:
		return "timeout"
	case ErrKindIOFailed:
		return "io_failed"
	case ErrKindPermissionDenied:
		return "permission_denied"
	default:
		return "unknown"
	}
}

// Error is the single error type produced by objstore backends.
type Error struct {
	Kind    ErrKind
	Message string
	Cause   error // original filesystem or SDK error, preserved for logging
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// --- Constructors ---

// New creates an *Error with the given kind and message and no cause.
func New(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap creates an *Error with the given kind, message, and an underlying cause.
func Wrap(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// --- Predicates ---

// IsNotFound reports whether err means no object is stored under the key.
// A missing bucket is not a "not found" in this sense; see IsBucketNotFound.
func IsNotFound(err error) bool {
	return KindOf(err) == ErrKindNotFound
}

// IsBucketNotFound reports whether err was caused by a missing bucket.
func IsBucketNotFound(err error) bool {
	return KindOf(err) == ErrKindBucketNotFound
}

// IsInvalidKey reports whether err was caused by a key outside the grammar.
func IsInvalidKey(err error) bool {
	return KindOf(err) == ErrKindInvalidKey
}

// IsInvalidConfig reports whether err was raised while building a store.
func IsInvalidConfig(err error) bool {
	return KindOf(err) == ErrKindInvalidConfig
}

// IsTimeout reports whether err was caused by a deadline or context cancellation.
func IsTimeout(err error) bool {
	return KindOf(err) == ErrKindTimeout
}

// IsConnectionFailed reports whether err is a connectivity failure.
func IsConnectionFailed(err error) bool {
	return KindOf(err) == ErrKindConnectionFailed
}

// IsIOFailed reports whether err is a storage read/write/remove failure.
func IsIOFailed(err error) bool {
	return KindOf(err) == ErrKindIOFailed
}

// IsPermissionDenied reports whether err is an access control failure.
func IsPermissionDenied(err error) bool {
	return KindOf(err) == ErrKindPermissionDenied
}

// KindOf extracts the ErrKind from any error in the chain.
// Errors that are not *Error report ErrKindUnknown.
func KindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrKindUnknown
}
