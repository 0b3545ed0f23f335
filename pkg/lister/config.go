package lister

import (
	"github.com/charlie0129/flatcp/pkg/validation"
)

type Config struct {
	// Path is the directory to list.
	Path string
}

// Validate checks the configuration for the lister. Whether Path exists is
// left to List.
func (c Config) Validate() error {
	return validation.ValidateSource(c.Path)
}
