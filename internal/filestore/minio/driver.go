// Package minio provides a MinIO implementation of bucket.Client.
//
// Usage:
//
//	cfg := &filestore.Config{
//	    Provider:  filestore.ProviderMinIO,
//	    Endpoint:  "localhost:9000",
//	    AccessKey: "minioadmin",
//	    SecretKey: "minioadmin",
//	    Bucket:    "blobs",
//	}
//	driver, err := minio.New(cfg)
//	if err != nil { ... }
//	store := bucket.New(driver)
package minio

import (
	"bytes"
	"context"
	"io"

	"github.com/koustreak/objstore/internal/errs"
	"github.com/koustreak/objstore/internal/filestore"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Driver is a MinIO implementation of bucket.Client.
// It is safe for concurrent use by multiple goroutines.
type Driver struct {
	client *miniogo.Client
	bucket string
}

// New builds a MinIO client for cfg.Bucket. It makes no request: the
// server and the bucket are first contacted by the first operation.
func New(cfg *filestore.Config) (*Driver, error) {
	if cfg.Endpoint == "" {
		return nil, errs.New(errs.ErrKindInvalidConfig, "minio endpoint is required")
	}
	if cfg.Bucket == "" {
		return nil, errs.New(errs.ErrKindInvalidConfig, "minio bucket is required")
	}

	client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:       cfg.UseSSL,
		Region:       cfg.Region,
		BucketLookup: miniogo.BucketLookupPath,
	})
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidConfig, "failed to create minio client", err)
	}

	return &Driver{client: client, bucket: cfg.Bucket}, nil
}

// --- bucket.Client implementation ---

// GetObject downloads the object at key. minio-go opens objects lazily,
// so a missing key surfaces while reading the body.
func (d *Driver) GetObject(ctx context.Context, key string) ([]byte, error) {
	obj, err := d.client.GetObject(ctx, d.bucket, key, miniogo.GetObjectOptions{})
	if err != nil {
		return nil, mapError(err, "failed to get object")
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, mapError(err, "failed to read object")
	}
	return data, nil
}

// PutObject uploads data as a single object at key.
func (d *Driver) PutObject(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := d.client.PutObject(ctx, d.bucket, key, bytes.NewReader(data), int64(len(data)), miniogo.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return mapError(err, "failed to put object")
	}
	return nil
}

// DeleteObject removes the object at key. S3 semantics make removing a
// missing key a success.
func (d *Driver) DeleteObject(ctx context.Context, key string) error {
	if err := d.client.RemoveObject(ctx, d.bucket, key, miniogo.RemoveObjectOptions{}); err != nil {
		return mapError(err, "failed to remove object")
	}
	return nil
}

// String returns "minio@<bucket>".
func (d *Driver) String() string {
	return "minio@" + d.bucket
}
