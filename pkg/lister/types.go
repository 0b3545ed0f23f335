package lister

import (
	"io/fs"
)

// Entry is one immediate child of a listed directory.
type Entry struct {
	// Name is the base name of the entry. It is the only part used to name
	// the copy.
	Name string
	// SourcePath is the directory joined with Name.
	SourcePath string

	DirEntry fs.DirEntry
}

// IsDir reports whether the entry was a directory when it was listed.
func (e Entry) IsDir() bool {
	return e.DirEntry != nil && e.DirEntry.IsDir()
}
