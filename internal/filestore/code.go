package filestore

import (
	"fmt"
	"unicode/utf8"

	"github.com/koustreak/objstore/internal/errs"
)

// CodeOf converts a backend error into the ReturnCode reported to callers.
// Only a missing object and a rejected key have dedicated codes; every
// other failure, including a missing bucket, is UnknownError.
func CodeOf(err error) ReturnCode {
	switch {
	case err == nil:
		return Success
	case errs.IsInvalidKey(err):
		return InvalidKey
	case errs.IsNotFound(err):
		return FileNotFound
	default:
		return UnknownError
	}
}

// DecodeText turns a stored blob into text. Blobs that are not valid
// UTF-8 are rejected with ErrKindIOFailed.
func DecodeText(key string, data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", errs.New(errs.ErrKindIOFailed, fmt.Sprintf("object %q is not valid UTF-8 text", key))
	}
	return string(data), nil
}

// EncodeText is the inverse of DecodeText.
func EncodeText(key, value string) ([]byte, error) {
	if !utf8.ValidString(value) {
		return nil, errs.New(errs.ErrKindIOFailed, fmt.Sprintf("value for %q is not valid UTF-8 text", key))
	}
	return []byte(value), nil
}
