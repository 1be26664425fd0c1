package filestore

import (
	"fmt"
	"regexp"

	"github.com/koustreak/objstore/internal/errs"
)

// Key grammar:
//
//	KEY       := (SEGMENT "/")* FILE_NAME "." EXTENSION
//	SEGMENT   := [a-zA-Z0-9][a-zA-Z0-9-]{0,127}
//	FILE_NAME := [a-zA-Z0-9][a-zA-Z0-9-]{0,127}
//	EXTENSION := [a-zA-Z0-9]{1,128}
//
// Segments and file names must also end in a letter or digit, so a hyphen
// is only allowed inside a name. The only dot a key may hold separates file
// name and extension, so ".." and absolute paths cannot be expressed.
const namePattern = `[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,126}[a-zA-Z0-9])?`

var keyPattern = regexp.MustCompile(
	`^(?:` + namePattern + `/)*` + namePattern + `\.[a-zA-Z0-9]{1,128}$`,
)

// IsValidKey reports whether key is an acceptable object key.
func IsValidKey(key string) bool {
	return keyPattern.MatchString(key)
}

// ValidateKey is IsValidKey returning an *errs.Error of kind
// ErrKindInvalidKey for rejected keys.
func ValidateKey(key string) error {
	if IsValidKey(key) {
		return nil
	}
	return errs.New(errs.ErrKindInvalidKey, fmt.Sprintf("key %q does not match the key grammar", key))
}
