package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrReadOnly     = errors.New("store is in read-only mode")
	ErrNoteNotFound = errors.New("note not found")
)

// StorageReadError reports a persisted representation that exists but
// cannot be read or parsed.
type StorageReadError struct {
	Path string
	Err  error
}

func (e *StorageReadError) Error() string {
	return fmt.Sprintf("failed to load notes from %s: %v", e.Path, e.Err)
}

func (e *StorageReadError) Unwrap() error { return e.Err }

// StorageWriteError reports a failed write to the persisted medium.
type StorageWriteError struct {
	Path string
	Err  error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("failed to save notes to %s: %v", e.Path, e.Err)
}

func (e *StorageWriteError) Unwrap() error { return e.Err }

// IsReadError reports whether err is (or wraps) a StorageReadError.
func IsReadError(err error) bool {
	var target *StorageReadError
	return errors.As(err, &target)
}

// IsWriteError reports whether err is (or wraps) a StorageWriteError.
func IsWriteError(err error) bool {
	var target *StorageWriteError
	return errors.As(err, &target)
}
