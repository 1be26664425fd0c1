package minio

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/koustreak/objstore/internal/errs"
	"github.com/koustreak/objstore/internal/filestore"
	"github.com/koustreak/objstore/internal/filestore/bucket"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	d, err := New(&filestore.Config{
		Provider:  filestore.ProviderMinIO,
		Endpoint:  "localhost:9000",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Bucket:    "blobs",
	})
	require.NoError(t, err)
	assert.Equal(t, "minio@blobs", d.String())
}

func TestNew_Validation(t *testing.T) {
	_, err := New(&filestore.Config{Bucket: "blobs"})
	assert.True(t, errs.IsInvalidConfig(err))
	assert.ErrorContains(t, err, "endpoint is required")

	_, err = New(&filestore.Config{Endpoint: "localhost:9000"})
	assert.True(t, errs.IsInvalidConfig(err))
	assert.ErrorContains(t, err, "bucket is required")
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errs.ErrKind
	}{
		{"deadline", context.DeadlineExceeded, errs.ErrKindTimeout},
		{"cancelled", fmt.Errorf("do: %w", context.Canceled), errs.ErrKindTimeout},
		{"no such key", miniogo.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound}, errs.ErrKindNotFound},
		{"head not found", miniogo.ErrorResponse{Code: "NotFound", StatusCode: http.StatusNotFound}, errs.ErrKindNotFound},
		{"bare 404", miniogo.ErrorResponse{StatusCode: http.StatusNotFound}, errs.ErrKindNotFound},
		{"no such bucket", miniogo.ErrorResponse{Code: "NoSuchBucket", StatusCode: http.StatusNotFound}, errs.ErrKindBucketNotFound},
		{"access denied", miniogo.ErrorResponse{Code: "AccessDenied", StatusCode: http.StatusForbidden}, errs.ErrKindPermissionDenied},
		{"bad signature", miniogo.ErrorResponse{Code: "SignatureDoesNotMatch", StatusCode: http.StatusForbidden}, errs.ErrKindPermissionDenied},
		{"unauthorized", miniogo.ErrorResponse{StatusCode: http.StatusUnauthorized}, errs.ErrKindPermissionDenied},
		{"slow down", miniogo.ErrorResponse{Code: "SlowDown", StatusCode: http.StatusServiceUnavailable}, errs.ErrKindTimeout},
		{"internal error", miniogo.ErrorResponse{Code: "InternalError", StatusCode: http.StatusInternalServerError}, errs.ErrKindIOFailed},
		{"network", errors.New("dial tcp 127.0.0.1:9000: connection refused"), errs.ErrKindConnectionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.err, "failed to get object")
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Kind)
			assert.Equal(t, "failed to get object", got.Message)
			assert.Equal(t, tt.err, got.Cause)
		})
	}
}

func TestMapError_Nil(t *testing.T) {
	assert.Nil(t, mapError(nil, "unused"))
}

func TestMapError_MissingKeyIsFileNotFound(t *testing.T) {
	err := mapError(miniogo.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound}, "failed to read object")
	assert.Equal(t, filestore.FileNotFound, filestore.CodeOf(err))

	err = mapError(miniogo.ErrorResponse{Code: "NoSuchBucket", StatusCode: http.StatusNotFound}, "failed to read object")
	assert.Equal(t, filestore.UnknownError, filestore.CodeOf(err))
}

// s3Server is an in-memory S3 endpoint serving one bucket over path-style URLs.
type s3Server struct {
	t      *testing.T
	bucket string

	mu           sync.Mutex
	objects      map[string][]byte
	contentTypes map[string]string
	denyDelete   bool
}

func newS3Server(t *testing.T, bucket string) (*s3Server, *httptest.Server) {
	t.Helper()
	s := &s3Server{
		t:            t,
		bucket:       bucket,
		objects:      map[string][]byte{},
		contentTypes: map[string]string{},
	}
	srv := httptest.NewServer(http.HandlerFunc(s.serveHTTP))
	t.Cleanup(srv.Close)
	return s, srv
}

func (s *s3Server) serveHTTP(w http.ResponseWriter, r *http.Request) {
	bucketName, key, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/"), "/")
	if bucketName != s.bucket {
		writeS3Error(w, http.StatusNotFound, "NoSuchBucket", r.URL.Path)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch r.Method {
	case http.MethodGet:
		data, ok := s.objects[key]
		if !ok {
			writeS3Error(w, http.StatusNotFound, "NoSuchKey", r.URL.Path)
			return
		}
		w.Header().Set("Content-Type", s.contentTypes[key])
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	case http.MethodPut:
		data, err := readPayload(r)
		if err != nil {
			s.t.Errorf("read upload body: %v", err)
			writeS3Error(w, http.StatusBadRequest, "IncompleteBody", r.URL.Path)
			return
		}
		s.objects[key] = data
		s.contentTypes[key] = r.Header.Get("Content-Type")
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		if s.denyDelete {
			writeS3Error(w, http.StatusForbidden, "AccessDenied", r.URL.Path)
			return
		}
		delete(s.objects, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		writeS3Error(w, http.StatusMethodNotAllowed, "MethodNotAllowed", r.URL.Path)
	}
}

func (s *s3Server) object(key string) ([]byte, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	return data, s.contentTypes[key], ok
}

func (s *s3Server) setDenyDelete(deny bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.denyDelete = deny
}

func writeS3Error(w http.ResponseWriter, status int, code, resource string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(status)
	fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>`+
		`<Error><Code>%s</Code><Message>%s</Message><Resource>%s</Resource><RequestId>req-1</RequestId></Error>`,
		code, code, resource)
}

// readPayload returns the upload body, decoding the aws-chunked framing
// minio-go uses for signed uploads over plain HTTP.
func readPayload(r *http.Request) ([]byte, error) {
	if !strings.HasPrefix(r.Header.Get("X-Amz-Content-Sha256"), "STREAMING-") {
		return io.ReadAll(r.Body)
	}

	br := bufio.NewReader(r.Body)
	out := []byte{}
	for {
		header, err := br.ReadString('\n')
		if err != nil {
			return nil, err
		}
		sizeHex, _, _ := strings.Cut(strings.TrimSpace(header), ";")
		size, err := strconv.ParseInt(sizeHex, 16, 64)
		if err != nil {
			return nil, err
		}
		if size == 0 {
			return out, nil
		}
		chunk := make([]byte, size)
		if _, err := io.ReadFull(br, chunk); err != nil {
			return nil, err
		}
		out = append(out, chunk...)
		if _, err := br.Discard(2); err != nil {
			return nil, err
		}
	}
}

func newTestDriver(t *testing.T, srv *httptest.Server, bucketName string) *Driver {
	t.Helper()
	d, err := New(&filestore.Config{
		Provider:  filestore.ProviderMinIO,
		Endpoint:  strings.TrimPrefix(srv.URL, "http://"),
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Region:    "us-east-1",
		Bucket:    bucketName,
	})
	require.NoError(t, err)
	return d
}

func TestDriver_PutThenGet(t *testing.T) {
	server, srv := newS3Server(t, "blobs")
	d := newTestDriver(t, srv, "blobs")
	ctx := context.Background()

	payload := []byte{0xff, 0xfe, 0x00, 0xc3, 0x28}
	require.NoError(t, d.PutObject(ctx, "sub/raw.bin", payload, "application/octet-stream"))
	stored, contentType, ok := server.object("sub/raw.bin")
	require.True(t, ok)
	assert.Equal(t, payload, stored)
	assert.Equal(t, "application/octet-stream", contentType)

	data, err := d.GetObject(ctx, "sub/raw.bin")
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestDriver_TextContentType(t *testing.T) {
	server, srv := newS3Server(t, "blobs")
	d := newTestDriver(t, srv, "blobs")

	require.NoError(t, d.PutObject(context.Background(), "a.txt", []byte("Hello World"), "text/plain; charset=utf-8"))
	stored, contentType, ok := server.object("a.txt")
	require.True(t, ok)
	assert.Equal(t, "text/plain; charset=utf-8", contentType)
	assert.Equal(t, "Hello World", string(stored))
}

func TestDriver_EmptyObject(t *testing.T) {
	_, srv := newS3Server(t, "blobs")
	d := newTestDriver(t, srv, "blobs")
	ctx := context.Background()

	require.NoError(t, d.PutObject(ctx, "empty.bin", []byte{}, "application/octet-stream"))
	data, err := d.GetObject(ctx, "empty.bin")
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestDriver_MissingKeySurfacesOnRead(t *testing.T) {
	_, srv := newS3Server(t, "blobs")
	d := newTestDriver(t, srv, "blobs")

	_, err := d.GetObject(context.Background(), "missing.txt")
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))

	store := bucket.New(d)
	res := store.GetTextFile(context.Background(), "missing.txt")
	assert.Equal(t, filestore.FileNotFound, res.Code)
	assert.Empty(t, res.Value)
}

func TestDriver_MissingBucket(t *testing.T) {
	_, srv := newS3Server(t, "blobs")
	d := newTestDriver(t, srv, "other")
	ctx := context.Background()

	_, err := d.GetObject(ctx, "a.txt")
	assert.True(t, errs.IsBucketNotFound(err))

	err = d.PutObject(ctx, "a.txt", []byte("x"), "text/plain; charset=utf-8")
	assert.True(t, errs.IsBucketNotFound(err))

	assert.Equal(t, filestore.UnknownError, bucket.New(d).SetTextFile(ctx, "a.txt", "x"))
}

func TestDriver_Delete(t *testing.T) {
	server, srv := newS3Server(t, "blobs")
	d := newTestDriver(t, srv, "blobs")
	ctx := context.Background()

	require.NoError(t, d.PutObject(ctx, "old.txt", []byte("x"), "text/plain; charset=utf-8"))
	require.NoError(t, d.DeleteObject(ctx, "old.txt"))
	_, _, ok := server.object("old.txt")
	assert.False(t, ok)
	require.NoError(t, d.DeleteObject(ctx, "old.txt"))

	server.setDenyDelete(true)
	err := d.DeleteObject(ctx, "old.txt")
	require.Error(t, err)
	assert.True(t, errs.IsPermissionDenied(err))
	assert.Equal(t, filestore.UnknownError, bucket.New(d).Delete(ctx, "old.txt"))
}

func TestDriver_CancelledContext(t *testing.T) {
	_, srv := newS3Server(t, "blobs")
	d := newTestDriver(t, srv, "blobs")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := d.PutObject(ctx, "a.txt", []byte("x"), "text/plain; charset=utf-8")
	require.Error(t, err)
	assert.True(t, errs.IsTimeout(err))
}
