package copier

import (
	"github.com/pkg/errors"

	"github.com/charlie0129/flatcp/pkg/validation"
)

const DefaultBlockSize = 256 * 1024

type Config struct {
	SourceDir      string
	DestinationDir string

	// BlockSize is the size of each read and write.
	BlockSize int

	// NoPreallocate disables reserving the destination size up front.
	NoPreallocate bool
}

func DefaultConfig(sourceDir, destinationDir string) Config {
	return Config{
		SourceDir:      sourceDir,
		DestinationDir: destinationDir,
		BlockSize:      DefaultBlockSize,
	}
}

// Validate checks the settings only. The paths are left to the filesystem,
// and an empty DestinationDir means the working directory.
func (c Config) Validate() error {
	return errors.Wrap(validation.ValidateBlockSize(c.BlockSize), "invalid copier config")
}
