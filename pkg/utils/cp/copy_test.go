package cp

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

type shortWriter struct{}

func (shortWriter) Write(p []byte) (int, error) {
	return len(p) / 2, nil
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("io error")
}

func TestCopy(t *testing.T) {
	content := strings.Repeat("0123456789", 1000)
	var dst bytes.Buffer

	var calls, last int64
	n, err := Copy(context.Background(), &dst, strings.NewReader(content),
		WithBuffer(make([]byte, 64)),
		WithProgressTracker(func(_, total int64) {
			calls++
			last = total
		}),
	)
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), n)
	assert.Equal(t, content, dst.String())
	assert.Equal(t, int64(len(content)), last)
	assert.Equal(t, int64((len(content)+63)/64), calls)
}

func TestCopy_Empty(t *testing.T) {
	var dst bytes.Buffer
	n, err := Copy(context.Background(), &dst, strings.NewReader(""))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCopy_WithRateLimiter(t *testing.T) {
	content := strings.Repeat("x", 4096)
	var dst bytes.Buffer

	// Burst smaller than the buffer must not make WaitN fail.
	limiter := rate.NewLimiter(rate.Inf, 100)
	n, err := Copy(context.Background(), &dst, strings.NewReader(content),
		WithBuffer(make([]byte, 1024)), WithRateLimiter(limiter))
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), n)
}

func TestCopy_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := Copy(ctx, failingWriter{}, strings.NewReader("data"))
	assert.ErrorContains(t, err, "disk full")

	_, err = Copy(ctx, shortWriter{}, strings.NewReader("data"))
	assert.ErrorIs(t, err, io.ErrShortWrite)

	_, err = Copy(ctx, io.Discard, failingReader{})
	assert.ErrorContains(t, err, "io error")
}

func TestCopy_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n, err := Copy(ctx, io.Discard, strings.NewReader("data"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, n)
}
