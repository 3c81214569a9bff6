// Package config provides configuration management for the sql2extension CLI.
package config

import "time"

// Config holds all CLI configuration options.
type Config struct {
	ExtName   string      `koanf:"extname"`
	Output    string      `koanf:"output"`
	Include   string      `koanf:"include"`
	Generator string      `koanf:"generator"`
	Verbose   bool        `koanf:"verbose"`
	Inputs    []string    `koanf:"inputs"`
	Watch     WatchConfig `koanf:"watch"`
}

// WatchConfig holds settings for the watch command.
type WatchConfig struct {
	Debounce time.Duration `koanf:"debounce"`
}

// Default configuration values.
const (
	DefaultOutput    = "-"
	DefaultInclude   = "*.sql"
	DefaultGenerator = "sql2extension"
	DefaultDebounce  = 200 * time.Millisecond
)

// Config file names searched in the working directory, in order.
var configFileNames = []string{"sql2extension.yaml", "sql2extension.yml"}
