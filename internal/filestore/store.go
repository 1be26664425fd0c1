// Package filestore defines the unified contract for blob storage backends.
//
// All backends (local filesystem, MinIO, S3, DigitalOcean Spaces) implement
// the Store interface. Callers depend only on this package, not on a
// specific backend, and branch on the ReturnCode of each call instead of
// on errors.
//
// Usage:
//
//	store, err := provider.Open(ctx, cfg, log)
//	if err != nil { ... }
//
//	if code := store.SetTextFile(ctx, "notes/today.txt", "hello"); code != filestore.Success {
//	    ...
//	}
//	res := store.GetTextFile(ctx, "notes/today.txt")
//	if res.IsSuccess() {
//	    fmt.Println(res.Value)
//	}
package filestore

import "context"

// Store is the single interface every storage backend implements.
//
// Each operation validates key with IsValidKey first and returns InvalidKey
// without touching storage when it fails. Each call performs at most one
// physical read, write or remove; there is no ordering guarantee between
// concurrent calls on the same key.
//
// Implementations are safe for concurrent use by multiple goroutines.
type Store interface {
	// GetTextFile reads the blob under key as UTF-8 text.
	GetTextFile(ctx context.Context, key string) TextResult

	// SetTextFile stores value under key, replacing any existing blob.
	SetTextFile(ctx context.Context, key, value string) ReturnCode

	// GetBinaryFile reads the blob under key as raw bytes.
	GetBinaryFile(ctx context.Context, key string) BinaryResult

	// SetBinaryFile stores value under key, replacing any existing blob.
	SetBinaryFile(ctx context.Context, key string, value []byte) ReturnCode

	// Delete removes the blob under key. Deleting a key that holds no
	// blob is a no-op that reports Success.
	Delete(ctx context.Context, key string) ReturnCode

	// String names the backend and its location, e.g. "localfs@/srv/blobs".
	String() string
}
