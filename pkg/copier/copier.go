package copier

import (
	"context"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/charlie0129/flatcp/pkg/fatal"
	"github.com/charlie0129/flatcp/pkg/lister"
	"github.com/charlie0129/flatcp/pkg/utils/size"
)

// Copier copies every immediate child of a source directory into a
// destination, one file at a time, in listing order.
//
// The destination of an entry is the destination directory string followed
// by the entry's base name. No separator is inserted, so callers wanting
// files inside a directory must end it with one.
type Copier struct {
	conf       Config
	logger     zerolog.Logger
	rootLogger zerolog.Logger

	// Stats
	filesCopied atomic.Int64
	bytesCopied atomic.Int64
	ioCompleted atomic.Int64
}

// Stats are the counters of a Copier. They only grow.
type Stats struct {
	FilesCopied int64
	BytesCopied int64
	IOCompleted int64
}

func New(conf Config, logger zerolog.Logger) *Copier {
	return &Copier{
		conf:       conf,
		logger:     logger.With().Str("component", "copier").Logger(),
		rootLogger: logger,
	}
}

// CopyFlat copies sourceDir into destinationDir with default settings and
// no logging.
func CopyFlat(ctx context.Context, sourceDir, destinationDir string) error {
	return New(DefaultConfig(sourceDir, destinationDir), zerolog.Nop()).Start(ctx, nil, nil)
}

// DestinationPath returns where an entry named name is copied to.
func DestinationPath(destinationDir, name string) string {
	return destinationDir + name
}

func (c *Copier) Stats() Stats {
	return Stats{
		FilesCopied: c.filesCopied.Load(),
		BytesCopied: c.bytesCopied.Load(),
		IOCompleted: c.ioCompleted.Load(),
	}
}

// Start lists the source directory and copies each entry.
//
// The listing happens before anything is written, so a missing or
// unreadable source leaves the destination untouched. After that, the first
// failing entry stops the run: later entries are not copied and earlier
// copies are kept. The returned error is a fatal.Error.
//
// Both rate limiters can be nil, in which case no rate limiting is applied.
func (c *Copier) Start(
	ctx context.Context,
	transferRateLimiter *rate.Limiter,
	fileRateLimiter *rate.Limiter,
) error {
	if err := c.conf.Validate(); err != nil {
		return err
	}

	l := lister.New(lister.Config{Path: c.conf.SourceDir}, c.rootLogger)
	entries, err := l.List()
	if err != nil {
		return err
	}

	// One buffer for the whole run, files are copied one after another.
	buffer := make([]byte, c.conf.BlockSize)

	for i, entry := range entries {
		if fileRateLimiter != nil {
			if err := fileRateLimiter.Wait(ctx); err != nil {
				return fatal.Wrap(errors.Wrap(err, "failed to wait for file rate limiter"), fatal.OpCopy, entry.SourcePath)
			}
		}

		dst := DestinationPath(c.conf.DestinationDir, entry.Name)
		c.logger.Trace().Str("source", entry.SourcePath).Str("destination", dst).
			Bool("isDir", entry.IsDir()).Msg("Copying entry")
		f := newFile(c.logger, entry, dst)

		_, err := f.copy(ctx, buffer, !c.conf.NoPreallocate, transferRateLimiter, c.updateBytesCopied)
		if err != nil {
			c.logger.Debug().Err(err).Str("source", entry.SourcePath).Str("destination", dst).
				Int("entry", i+1).Int("entries", len(entries)).
				Msg("Aborting copy")
			return err
		}

		c.filesCopied.Add(1)
	}

	stats := c.Stats()
	c.logger.Debug().Int64("files", stats.FilesCopied).
		Int64("bytes", stats.BytesCopied).Str("bytesHuman", size.FormatBytes(stats.BytesCopied)).
		Msg("Copied directory")

	return nil
}

func (c *Copier) updateBytesCopied(bytes, _ int64) {
	c.bytesCopied.Add(bytes)
	c.ioCompleted.Add(1)
}
