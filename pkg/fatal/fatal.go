// Package fatal holds the single error kind produced by the flat copy core.
//
// Any filesystem failure while listing or copying is fatal: the operation
// stops at the first one and nothing that was already copied is undone.
package fatal

import (
	"fmt"

	"github.com/pkg/errors"
)

// Operations reported in Error.Op.
const (
	OpList = "list"
	OpOpen = "open"
	OpCopy = "copy"
)

// Error is a filesystem error that aborted a listing or a copy.
type Error struct {
	// Op is the step that failed, one of the Op* constants.
	Op string
	// Path is the offending source entry or directory.
	Path string
	// Err is the underlying error.
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("fatal filesystem error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Cause lets errors.Cause reach the system error.
func (e *Error) Cause() error {
	return e.Err
}

// Wrap returns nil if err is nil. An err that already is a fatal error is
// returned as is, so the innermost path wins.
func Wrap(err error, op, path string) error {
	if err == nil {
		return nil
	}
	if Is(err) {
		return err
	}
	return &Error{Op: op, Path: path, Err: err}
}

// Is reports whether err, or anything it wraps, is a fatal filesystem error.
func Is(err error) bool {
	var fe *Error
	return errors.As(err, &fe)
}
