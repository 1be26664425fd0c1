package local

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"

	"github.com/koustreak/objstore/internal/errs"
)

// presence is the outcome of looking up a key's path before touching it.
type presence int

const (
	absent  presence = iota // nothing stored under the key
	present                 // a regular file is stored under the key
	failed                  // the path cannot be used as a blob; see the probe error
)

func (p presence) String() string {
	switch p {
	case absent:
		return "absent"
	case present:
		return "present"
	default:
		return "failed"
	}
}

// probe stats the path of key. The returned error is only set for failed.
// A missing parent directory, or a parent that is a regular file, means the
// key holds no blob and reports absent.
func (s *Store) probe(key, path string) (presence, error) {
	info, err := s.fs.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return absent, nil
		}
		return failed, errs.Wrap(errs.ErrKindIOFailed, fmt.Sprintf("stat object %q", key), err)
	}
	if info.IsDir() {
		return failed, errs.New(errs.ErrKindIOFailed, fmt.Sprintf("object %q is a directory", key))
	}
	return present, nil
}
