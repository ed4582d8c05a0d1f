// Package storage persists uploaded file bytes on the local filesystem.
// Keys are slash-separated relative paths resolved beneath a base directory.
package storage

import (
	"errors"
	"fmt"
)

// ErrInvalidKey is returned for keys that are empty, absolute, or that would
// resolve outside the base directory.
var ErrInvalidKey = errors.New("storage: invalid key")

// IOError operations.
const (
	OpCreateDir = "create directory"
	OpWriteFile = "write file"
)

// IOError records a filesystem failure together with the operation and path
// that failed.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
