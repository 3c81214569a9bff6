package config

import (
	"errors"
	"fmt"

	"github.com/gobwas/glob"
)

// ErrMissingExtName is returned by Validate when no extension name is set.
var ErrMissingExtName = errors.New("extension name is required\nHint: pass --extname, set SQL2EXTENSION_EXTNAME or add extname to sql2extension.yaml")

// Validate checks if the configuration is complete enough to generate a
// script. Commands that don't generate, such as kinds, skip it.
func (c *Config) Validate() error {
	if c.ExtName == "" {
		return ErrMissingExtName
	}
	if c.Include == "" {
		return fmt.Errorf("include pattern must not be empty")
	}
	if _, err := glob.Compile(c.Include); err != nil {
		return fmt.Errorf("invalid include pattern %q: %w", c.Include, err)
	}
	if c.Watch.Debounce <= 0 {
		return fmt.Errorf("watch.debounce must be positive, got %s", c.Watch.Debounce)
	}
	return nil
}
