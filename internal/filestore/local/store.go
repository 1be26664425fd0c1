// Package local provides a filesystem implementation of filestore.Store.
//
// Keys map onto paths under a root directory: segments become nested
// directories and the final component the file name. Directories are
// never created; a key under a missing directory cannot be written.
//
// Usage:
//
//	store, err := local.New("/srv/blobs", local.WithLogger(log))
//	if err != nil { ... }
//
//	code := store.SetTextFile(ctx, "reports/q3.txt", body)
package local

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/koustreak/objstore/internal/errs"
	"github.com/koustreak/objstore/internal/filestore"
	"github.com/koustreak/objstore/internal/logger"
	"github.com/spf13/afero"
)

const fileMode fs.FileMode = 0o644

// Option configures a Store.
type Option func(*Store)

// WithFs replaces the OS filesystem, e.g. with afero.NewMemMapFs in tests.
func WithFs(fsys afero.Fs) Option {
	return func(s *Store) {
		s.fs = fsys
	}
}

// WithLogger sets the logger used to report operation outcomes.
func WithLogger(l *logger.Logger) Option {
	return func(s *Store) {
		s.log = l
	}
}

// Store is a filesystem implementation of filestore.Store.
// It is safe for concurrent use by multiple goroutines.
type Store struct {
	fs   afero.Fs
	root string
	log  *logger.Logger
}

var _ filestore.Store = (*Store)(nil)

// New binds a Store to root, which must be an existing directory.
func New(root string, opts ...Option) (*Store, error) {
	s := &Store{
		fs:   afero.NewOsFs(),
		root: root,
		log:  logger.Nop(),
	}
	for _, apply := range opts {
		apply(s)
	}

	if root == "" {
		return nil, errs.New(errs.ErrKindInvalidConfig, "local root directory is required")
	}
	ok, err := afero.DirExists(s.fs, root)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidConfig, fmt.Sprintf("cannot access root directory %q", root), err)
	}
	if !ok {
		return nil, errs.New(errs.ErrKindInvalidConfig, fmt.Sprintf("root directory %q does not exist or is not a directory", root))
	}

	s.log = s.log.With().Str("store", s.String()).Logger()
	return s, nil
}

// --- filestore.Store implementation ---

// GetTextFile reads the file under key and decodes it as UTF-8.
func (s *Store) GetTextFile(ctx context.Context, key string) filestore.TextResult {
	var text string
	data, err := s.read(ctx, key)
	if err == nil {
		text, err = filestore.DecodeText(key, data)
	}
	if code := s.finish("get_text", key, err); code != filestore.Success {
		return filestore.TextFailed(code)
	}
	return filestore.TextOK(text)
}

// SetTextFile writes value to the file under key.
func (s *Store) SetTextFile(ctx context.Context, key, value string) filestore.ReturnCode {
	if err := filestore.ValidateKey(key); err != nil {
		return s.finish("set_text", key, err)
	}
	data, err := filestore.EncodeText(key, value)
	if err == nil {
		err = s.write(ctx, key, data)
	}
	return s.finish("set_text", key, err)
}

// GetBinaryFile reads the file under key.
func (s *Store) GetBinaryFile(ctx context.Context, key string) filestore.BinaryResult {
	data, err := s.read(ctx, key)
	if code := s.finish("get_binary", key, err); code != filestore.Success {
		return filestore.BinaryFailed(code)
	}
	return filestore.BinaryOK(data)
}

// SetBinaryFile writes value to the file under key.
func (s *Store) SetBinaryFile(ctx context.Context, key string, value []byte) filestore.ReturnCode {
	return s.finish("set_binary", key, s.write(ctx, key, value))
}

// Delete removes the file under key. A missing file is not an error.
func (s *Store) Delete(ctx context.Context, key string) filestore.ReturnCode {
	return s.finish("delete", key, s.remove(ctx, key))
}

// String returns "localfs@<root>".
func (s *Store) String() string {
	return "localfs@" + s.root
}

// --- internal helpers ---

// path maps a validated key onto the filesystem. The key grammar admits
// no "..", "." or leading "/", so the result always lies under root.
func (s *Store) path(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}

// begin validates key and checks ctx before any filesystem access.
func (s *Store) begin(ctx context.Context, key string) error {
	if err := filestore.ValidateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(errs.ErrKindTimeout, "operation abandoned", err)
	}
	return nil
}

func (s *Store) read(ctx context.Context, key string) ([]byte, error) {
	if err := s.begin(ctx, key); err != nil {
		return nil, err
	}
	path := s.path(key)

	state, err := s.probe(key, path)
	switch state {
	case absent:
		return nil, errs.New(errs.ErrKindNotFound, fmt.Sprintf("object %q does not exist", key))
	case failed:
		return nil, err
	}

	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindIOFailed, fmt.Sprintf("read object %q", key), err)
	}
	return data, nil
}

func (s *Store) write(ctx context.Context, key string, data []byte) error {
	if err := s.begin(ctx, key); err != nil {
		return err
	}
	path := s.path(key)

	state, err := s.probe(key, path)
	if state == failed {
		return err
	}
	s.log.DebugWith("writing object", map[string]interface{}{
		"key":   key,
		"state": state.String(),
	})

	if err := afero.WriteFile(s.fs, path, data, fileMode); err != nil {
		return errs.Wrap(errs.ErrKindIOFailed, fmt.Sprintf("write object %q", key), err)
	}
	return nil
}

func (s *Store) remove(ctx context.Context, key string) error {
	if err := s.begin(ctx, key); err != nil {
		return err
	}
	path := s.path(key)

	state, err := s.probe(key, path)
	switch state {
	case absent:
		return nil
	case failed:
		return err
	}

	if err := s.fs.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errs.Wrap(errs.ErrKindIOFailed, fmt.Sprintf("remove object %q", key), err)
	}
	return nil
}

// finish converts err into the caller's return code and logs the outcome.
func (s *Store) finish(op, key string, err error) filestore.ReturnCode {
	code := filestore.CodeOf(err)
	s.log.StoreOp(op, key, code.String(), err)
	return code
}
