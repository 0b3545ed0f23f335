package validation

import (
	"os"
	"strings"

	"github.com/pkg/errors"
)

// MaxBlockSize bounds the copy buffer, which is allocated up front.
const MaxBlockSize = 64 << 20

var (
	ErrEmptyPath      = errors.New("path must not be empty")
	ErrNotRegularFile = errors.New("only regular files can be copied")
	ErrNotDirectory   = errors.New("not a directory")
)

// ValidateSource only rejects an empty source. Everything else (missing
// source, unwritable destination, ...) surfaces from the filesystem while
// copying. An empty destination is a valid prefix: files land in the
// working directory.
func ValidateSource(source string) error {
	if source == "" {
		return errors.Wrap(ErrEmptyPath, "source directory")
	}
	return nil
}

// ValidateBlockSize checks that a buffer of n bytes is usable.
func ValidateBlockSize(n int) error {
	if n <= 0 {
		return errors.New("block size must be greater than 0")
	}
	if n > MaxBlockSize {
		return errors.Errorf("block size must not exceed %d bytes", MaxBlockSize)
	}
	return nil
}

// HasTrailingSeparator reports whether destination ends with a path
// separator. Destination paths are built by plain concatenation, so without
// one "/backup" and "a.txt" become "/backupa.txt".
func HasTrailingSeparator(destination string) bool {
	if destination == "" {
		return false
	}
	return os.IsPathSeparator(destination[len(destination)-1])
}

// IsCopyable reports whether info describes something whose bytes can be
// copied as a file.
func IsCopyable(info os.FileInfo) bool {
	return info.Mode().IsRegular()
}

// DescribeMode returns a short name for the file type in mode, for logs.
func DescribeMode(mode os.FileMode) string {
	switch {
	case mode.IsRegular():
		return "file"
	case mode.IsDir():
		return "directory"
	case mode&os.ModeSymlink != 0:
		return "symlink"
	case mode&os.ModeNamedPipe != 0:
		return "pipe"
	case mode&os.ModeSocket != 0:
		return "socket"
	case mode&os.ModeDevice != 0:
		return "device"
	default:
		return strings.ToLower(mode.Type().String())
	}
}
