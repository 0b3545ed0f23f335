package lister

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/charlie0129/flatcp/pkg/fatal"
	"github.com/charlie0129/flatcp/pkg/validation"
)

// Lister lists the immediate children of one directory. It does not descend
// into subdirectories and does not filter anything out.
type Lister struct {
	conf   Config
	logger zerolog.Logger
}

func New(config Config, logger zerolog.Logger) *Lister {
	return &Lister{
		conf:   config,
		logger: logger.With().Str("component", "lister").Logger(),
	}
}

// List lists the directory at path without a logger.
func List(path string) ([]Entry, error) {
	return New(Config{Path: path}, zerolog.Nop()).List()
}

// List returns the entries of the configured directory in the order the
// filesystem enumerates them. They are not sorted.
//
// Any error, including one on a single entry, is a fatal.Error and no
// entries are returned with it.
func (l *Lister) List() ([]Entry, error) {
	if err := l.conf.Validate(); err != nil {
		return nil, fatal.Wrap(err, fatal.OpList, l.conf.Path)
	}

	dir, err := os.Open(l.conf.Path)
	if err != nil {
		return nil, fatal.Wrap(errors.Wrap(err, "failed to open directory"), fatal.OpList, l.conf.Path)
	}
	defer dir.Close()

	stat, err := dir.Stat()
	if err != nil {
		return nil, fatal.Wrap(errors.Wrap(err, "failed to stat directory"), fatal.OpList, l.conf.Path)
	}
	if !stat.IsDir() {
		return nil, fatal.Wrap(validation.ErrNotDirectory, fatal.OpList, l.conf.Path)
	}

	// os.ReadDir would sort by name; reading from the handle keeps the
	// filesystem order.
	dirEntries, err := dir.ReadDir(-1)
	if err != nil {
		return nil, fatal.Wrap(errors.Wrap(err, "failed to read directory entries"), fatal.OpList, l.conf.Path)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, d := range dirEntries {
		e := Entry{
			Name:       d.Name(),
			SourcePath: filepath.Join(l.conf.Path, d.Name()),
			DirEntry:   d,
		}
		entries = append(entries, e)

		l.logger.Trace().Str("path", e.SourcePath).Str("type", validation.DescribeMode(d.Type())).
			Msg("Discovered entry")
	}

	l.logger.Debug().Str("path", l.conf.Path).Int("entries", len(entries)).Msg("Listed directory")

	return entries, nil
}
