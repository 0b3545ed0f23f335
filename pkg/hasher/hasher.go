package hasher

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"os"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/charlie0129/flatcp/pkg/copier"
	"github.com/charlie0129/flatcp/pkg/lister"
	"github.com/charlie0129/flatcp/pkg/utils/cp"
	"github.com/charlie0129/flatcp/pkg/validation"
)

var ErrMismatch = errors.New("some files do not match, see logs for details")

func newHash(algorithm string) hash.Hash {
	if algorithm == AlgorithmXXHash {
		return xxhash.New()
	}
	return sha256.New()
}

// HashOne hashes a single regular file.
func HashOne(
	ctx context.Context,
	algorithm string,
	copyBuffer []byte,
	file string,
	rateLimiter *rate.Limiter,
	progressTracker func(int64, int64),
) ([]byte, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file for hashing")
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "failed to stat file for hashing")
	}
	if !validation.IsCopyable(info) {
		return nil, errors.Wrapf(validation.ErrNotRegularFile, "%s is a %s", file, validation.DescribeMode(info.Mode()))
	}

	h := newHash(algorithm)

	_, err = cp.Copy(ctx, h, f,
		cp.WithBuffer(copyBuffer),
		cp.WithRateLimiter(rateLimiter),
		cp.WithProgressTracker(progressTracker),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash file")
	}

	return h.Sum(nil), nil
}

// Hasher checks that every entry of a source directory has a byte-identical
// copy at its flat destination path.
type Hasher struct {
	logger zerolog.Logger

	conf Config

	// Stats
	filesHashed atomic.Int64
	bytesHashed atomic.Int64
	mismatches  atomic.Int64
}

// Stats are the counters of a Hasher.
type Stats struct {
	FilesHashed int64
	BytesHashed int64
	Mismatches  int64
}

func New(config Config, logger zerolog.Logger) *Hasher {
	return &Hasher{
		conf:   config,
		logger: logger.With().Str("component", "hasher").Logger(),
	}
}

func (h *Hasher) Stats() Stats {
	return Stats{
		FilesHashed: h.filesHashed.Load(),
		BytesHashed: h.bytesHashed.Load(),
		Mismatches:  h.mismatches.Load(),
	}
}

// Start compares every entry with its copy under destinationDir.
//
// Unlike copying, it does not stop at the first problem: all entries are
// checked, each mismatch is logged, and ErrMismatch is returned at the end
// if there was any.
//
// fileRateLimiter is shared between source and destination files, so every
// entry takes two tokens.
func (h *Hasher) Start(
	ctx context.Context,
	entries []lister.Entry,
	destinationDir string,
	transferRateLimiter *rate.Limiter,
	fileRateLimiter *rate.Limiter,
) error {
	eg, ctx := errgroup.WithContext(ctx)

	queue := make(chan lister.Entry, h.conf.MaxConcurrentFiles)

	eg.Go(func() error {
		defer close(queue)
		for _, e := range entries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case queue <- e:
			}
		}
		return nil
	})

	for range h.conf.MaxConcurrentFiles {
		eg.Go(func() error {
			buffer := make([]byte, h.conf.CopyBufferSize)
			for e := range queue {
				if fileRateLimiter != nil {
					if err := fileRateLimiter.WaitN(ctx, 2); err != nil {
						return errors.Wrap(err, "failed to wait for file rate limiter")
					}
				}
				h.verifyEntry(ctx, e, copier.DestinationPath(destinationDir, e.Name), buffer, transferRateLimiter)
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return errors.Wrap(err, "failed to hash files")
	}

	if h.mismatches.Load() > 0 {
		return ErrMismatch
	}

	return nil
}

func (h *Hasher) verifyEntry(
	ctx context.Context,
	entry lister.Entry,
	destination string,
	buffer []byte,
	rateLimiter *rate.Limiter,
) {
	logger := h.logger.With().Str("source", entry.SourcePath).Str("destination", destination).Logger()

	srcHash, err := h.hashFile(ctx, entry.SourcePath, buffer, rateLimiter)
	if err != nil {
		h.mismatches.Add(1)
		logger.Error().Err(err).Msg("Failed to hash source file")
		return
	}

	dstHash, err := h.hashFile(ctx, destination, buffer, rateLimiter)
	if err != nil {
		h.mismatches.Add(1)
		logger.Error().Err(err).Msg("Failed to hash destination file")
		return
	}

	logger = logger.With().Str("sourceHash", hex.EncodeToString(srcHash)).
		Str("destinationHash", hex.EncodeToString(dstHash)).Logger()

	if !bytes.Equal(srcHash, dstHash) {
		h.mismatches.Add(1)
		logger.Warn().Msg("Source and destination hashes do not match")
		return
	}

	logger.Debug().Msg("Source and destination hashes match")
}

func (h *Hasher) updateBytesHashed(bytes, _ int64) {
	h.bytesHashed.Add(bytes)
}

func (h *Hasher) hashFile(
	ctx context.Context,
	file string,
	copyBuffer []byte,
	rateLimiter *rate.Limiter,
) ([]byte, error) {
	sum, err := HashOne(ctx, h.conf.Algorithm, copyBuffer, file, rateLimiter, h.updateBytesHashed)
	if err != nil {
		return nil, err
	}

	h.filesHashed.Add(1)
	h.logger.Trace().Str("file", file).Str("hash", hex.EncodeToString(sum)).Msg("Hashed file")

	return sum, nil
}
