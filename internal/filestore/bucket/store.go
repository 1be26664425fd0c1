// Package bucket implements filestore.Store on top of a flat object bucket.
//
// The store owns the contract logic (key validation, text decoding, return
// codes, delete policy); the SDK specifics live in a Client. The minio and
// s3 packages provide Clients for MinIO and for S3-compatible services
// such as AWS S3 and DigitalOcean Spaces.
//
// Usage:
//
//	client, err := s3.New(ctx, cfg)
//	if err != nil { ... }
//	store := bucket.New(client, bucket.WithLogger(log))
package bucket

import (
	"context"

	"github.com/koustreak/objstore/internal/errs"
	"github.com/koustreak/objstore/internal/filestore"
	"github.com/koustreak/objstore/internal/logger"
)

const (
	contentTypeText   = "text/plain; charset=utf-8"
	contentTypeBinary = "application/octet-stream"
)

// Client performs single object calls against one bucket.
// Errors must be *errs.Error; a missing object is ErrKindNotFound and a
// missing bucket ErrKindBucketNotFound.
type Client interface {
	// GetObject downloads the whole object stored under key.
	GetObject(ctx context.Context, key string) ([]byte, error)

	// PutObject uploads data as the object stored under key.
	PutObject(ctx context.Context, key string, data []byte, contentType string) error

	// DeleteObject removes the object stored under key.
	DeleteObject(ctx context.Context, key string) error

	// String names the driver and bucket, e.g. "s3@media".
	String() string
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to report operation outcomes.
func WithLogger(l *logger.Logger) Option {
	return func(s *Store) {
		s.log = l
	}
}

// Store is a bucket implementation of filestore.Store.
// It is safe for concurrent use when its Client is.
type Store struct {
	client Client
	log    *logger.Logger
}

var _ filestore.Store = (*Store)(nil)

// New wraps client. No request is made; an unreachable endpoint or a
// missing bucket shows up as UnknownError on the first operation.
func New(client Client, opts ...Option) *Store {
	s := &Store{
		client: client,
		log:    logger.Nop(),
	}
	for _, apply := range opts {
		apply(s)
	}
	s.log = s.log.With().Str("store", s.String()).Logger()
	return s
}

// --- filestore.Store implementation ---

// GetTextFile downloads the object under key and decodes it as UTF-8.
func (s *Store) GetTextFile(ctx context.Context, key string) filestore.TextResult {
	var text string
	data, err := s.get(ctx, key)
	if err == nil {
		text, err = filestore.DecodeText(key, data)
	}
	if code := s.finish("get_text", key, err); code != filestore.Success {
		return filestore.TextFailed(code)
	}
	return filestore.TextOK(text)
}

// SetTextFile uploads the UTF-8 bytes of value under key.
func (s *Store) SetTextFile(ctx context.Context, key, value string) filestore.ReturnCode {
	if err := filestore.ValidateKey(key); err != nil {
		return s.finish("set_text", key, err)
	}
	data, err := filestore.EncodeText(key, value)
	if err == nil {
		err = s.client.PutObject(ctx, key, data, contentTypeText)
	}
	return s.finish("set_text", key, err)
}

// GetBinaryFile downloads the object under key.
func (s *Store) GetBinaryFile(ctx context.Context, key string) filestore.BinaryResult {
	data, err := s.get(ctx, key)
	if code := s.finish("get_binary", key, err); code != filestore.Success {
		return filestore.BinaryFailed(code)
	}
	return filestore.BinaryOK(data)
}

// SetBinaryFile uploads value unchanged under key.
func (s *Store) SetBinaryFile(ctx context.Context, key string, value []byte) filestore.ReturnCode {
	if err := filestore.ValidateKey(key); err != nil {
		return s.finish("set_binary", key, err)
	}
	return s.finish("set_binary", key, s.client.PutObject(ctx, key, value, contentTypeBinary))
}

// Delete removes the object under key. Deleting a missing object
// reports Success, as it does for the local store.
func (s *Store) Delete(ctx context.Context, key string) filestore.ReturnCode {
	if err := filestore.ValidateKey(key); err != nil {
		return s.finish("delete", key, err)
	}
	err := s.client.DeleteObject(ctx, key)
	if errs.IsNotFound(err) {
		err = nil
	}
	return s.finish("delete", key, err)
}

// String returns the client's description.
func (s *Store) String() string {
	return s.client.String()
}

// --- internal helpers ---

func (s *Store) get(ctx context.Context, key string) ([]byte, error) {
	if err := filestore.ValidateKey(key); err != nil {
		return nil, err
	}
	return s.client.GetObject(ctx, key)
}

// finish converts err into the caller's return code and logs the outcome.
func (s *Store) finish(op, key string, err error) filestore.ReturnCode {
	code := filestore.CodeOf(err)
	s.log.StoreOp(op, key, code.String(), err)
	return code
}
