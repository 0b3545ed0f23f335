package hasher

import (
	"github.com/pkg/errors"

	"github.com/charlie0129/flatcp/pkg/validation"
)

const (
	AlgorithmSHA256 = "sha256"
	AlgorithmXXHash = "xxhash"
)

type Config struct {
	MaxConcurrentFiles int
	CopyBufferSize     int
	// Algorithm is AlgorithmSHA256 or AlgorithmXXHash. Empty means SHA-256.
	Algorithm string
}

func (c Config) Validate() error {
	if c.MaxConcurrentFiles <= 0 {
		return errors.New("max concurrent files must be greater than 0")
	}
	if err := validation.ValidateBlockSize(c.CopyBufferSize); err != nil {
		return errors.Wrap(err, "invalid copy buffer size")
	}
	switch c.Algorithm {
	case "", AlgorithmSHA256, AlgorithmXXHash:
	default:
		return errors.Errorf("unsupported hash algorithm %q, use %s or %s", c.Algorithm, AlgorithmSHA256, AlgorithmXXHash)
	}
	return nil
}
