package copier

import (
	"context"
	"os"

	"github.com/detailyang/go-fallocate"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/charlie0129/flatcp/pkg/fatal"
	"github.com/charlie0129/flatcp/pkg/lister"
	"github.com/charlie0129/flatcp/pkg/utils/cp"
	"github.com/charlie0129/flatcp/pkg/utils/size"
	"github.com/charlie0129/flatcp/pkg/validation"
)

// file copies one listed entry to its destination path.
type file struct {
	logger zerolog.Logger

	entry       lister.Entry
	destination string

	// srcFD is the file descriptor of the source file.
	srcFD *os.File
	// dstFD is the file descriptor of the destination file.
	dstFD *os.File
}

func newFile(logger zerolog.Logger, entry lister.Entry, destination string) *file {
	return &file{
		logger: logger.With().
			Str("source", entry.SourcePath).
			Str("destination", destination).
			Logger(),
		entry:       entry,
		destination: destination,
	}
}

func (f *file) close() error {
	var firstErr error

	if f.srcFD != nil {
		if err := f.srcFD.Close(); err != nil {
			firstErr = errors.Wrap(err, "failed to close source fd")
		}
		f.srcFD = nil
		f.logger.Trace().Msg("Closed source fd")
	}

	if f.dstFD != nil {
		// A failed close on the destination can mean lost writes.
		if err := f.dstFD.Close(); err != nil && firstErr == nil {
			firstErr = errors.Wrap(err, "failed to close destination fd")
		}
		f.dstFD = nil
		f.logger.Trace().Msg("Closed destination fd")
	}

	return firstErr
}

// open opens the source and then creates or truncates the destination. A
// source that is not a regular file is rejected before the destination is
// touched.
func (f *file) open(preallocate bool) error {
	srcFD, err := os.Open(f.entry.SourcePath) // RO
	if err != nil {
		return errors.Wrap(err, "failed to open for reading")
	}
	f.srcFD = srcFD
	f.logger.Trace().Msg("Opened source fd")

	info, err := srcFD.Stat()
	if err != nil {
		return errors.Wrap(err, "failed to stat source")
	}
	if !validation.IsCopyable(info) {
		return errors.Wrapf(validation.ErrNotRegularFile, "source is a %s", validation.DescribeMode(info.Mode()))
	}

	dstFD, err := os.OpenFile(f.destination, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm()) // WO
	if err != nil {
		return errors.Wrap(err, "failed to open for writing")
	}
	f.dstFD = dstFD
	f.logger.Trace().Msg("Opened destination fd")

	if preallocate && info.Size() > 0 {
		if err := fallocate.Fallocate(f.dstFD, 0, info.Size()); err != nil {
			// Not every filesystem supports fallocate. The copy works without it.
			f.logger.Warn().Err(err).Msg("Failed to preallocate disk space for destination file. Continuing anyway.")
		} else {
			f.logger.Trace().Msg("Preallocated disk space")
		}
	}

	return nil
}

// copy copies the whole entry and closes both descriptors. Every error is a
// fatal.Error naming the source entry.
func (f *file) copy(
	ctx context.Context,
	buffer []byte,
	preallocate bool,
	rateLimiter *rate.Limiter,
	progressTracker func(int64, int64),
) (int64, error) {
	if err := f.open(preallocate); err != nil {
		_ = f.close()
		return 0, fatal.Wrap(err, fatal.OpOpen, f.entry.SourcePath)
	}

	written, err := cp.Copy(ctx, f.dstFD, f.srcFD,
		cp.WithBuffer(buffer),
		cp.WithRateLimiter(rateLimiter),
		cp.WithProgressTracker(progressTracker),
	)
	if err != nil {
		_ = f.close()
		return written, fatal.Wrap(err, fatal.OpCopy, f.entry.SourcePath)
	}

	if err := f.close(); err != nil {
		return written, fatal.Wrap(err, fatal.OpCopy, f.entry.SourcePath)
	}

	f.logger.Debug().Int64("size", written).Str("sizeHuman", size.FormatBytes(written)).Msg("Copied file")

	return written, nil
}
