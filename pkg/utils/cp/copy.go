package cp

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

var DefaultBufferSize = 256 * 1024 // 256KB

type Options struct {
	rateLimiter     *rate.Limiter
	progressTracker func(int64, int64)
	buffer          []byte
}

type Option func(options *Options)

// WithRateLimiter throttles the copy to the limiter's rate in bytes. A nil
// limiter means no limit.
func WithRateLimiter(limiter *rate.Limiter) Option {
	return func(options *Options) {
		options.rateLimiter = limiter
	}
}

// WithProgressTracker registers a function called after every write with
// the bytes written by that write and the running total. It runs on the
// copying goroutine and must not block.
func WithProgressTracker(tracker func(int64, int64)) Option {
	return func(options *Options) {
		options.progressTracker = tracker
	}
}

// WithBuffer sets the buffer used for every read and write. Its length is
// the block size. Without it a DefaultBufferSize buffer is allocated.
func WithBuffer(buffer []byte) Option {
	return func(options *Options) {
		options.buffer = buffer
	}
}

// Copy copies src to dst until EOF, one buffer at a time. Unlike io.Copy it
// checks ctx between blocks and can be rate limited.
func Copy(
	ctx context.Context,
	dst io.Writer,
	src io.Reader,
	opts ...Option,
) (int64, error) {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	if len(options.buffer) == 0 {
		options.buffer = make([]byte, DefaultBufferSize)
	}

	c := &copier{
		dst:     dst,
		src:     src,
		buf:     options.buffer,
		limiter: options.rateLimiter,
		tracker: options.progressTracker,
	}

	return c.run(ctx)
}

type copier struct {
	dst     io.Writer
	src     io.Reader
	buf     []byte
	limiter *rate.Limiter
	tracker func(int64, int64)

	written int64
}

func (c *copier) run(ctx context.Context) (int64, error) {
	for {
		if err := ctx.Err(); err != nil {
			return c.written, err
		}

		n, readErr := c.src.Read(c.buf)
		if n > 0 {
			if err := c.write(ctx, c.buf[:n]); err != nil {
				return c.written, err
			}
		}

		if readErr == io.EOF {
			return c.written, nil
		}
		if readErr != nil {
			return c.written, errors.Wrap(readErr, "failed to read block")
		}
	}
}

func (c *copier) write(ctx context.Context, block []byte) error {
	if c.limiter != nil {
		// WaitN fails when asked for more than the burst, so large blocks
		// are waited for in burst-sized steps.
		burst := max(c.limiter.Burst(), 1)
		for remaining := len(block); remaining > 0; {
			n := min(remaining, burst)
			if err := c.limiter.WaitN(ctx, n); err != nil {
				return errors.Wrap(err, "rate limiter wait failed")
			}
			remaining -= n
		}
	}

	n, err := c.dst.Write(block)
	if n < 0 || n > len(block) {
		n = 0
		if err == nil {
			err = errors.New("invalid write result")
		}
	}

	c.written += int64(n)
	if c.tracker != nil {
		c.tracker(int64(n), c.written)
	}

	if err != nil {
		return errors.Wrap(err, "failed to write block")
	}
	if n != len(block) {
		return io.ErrShortWrite
	}

	return nil
}
