// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) to build a Config with defaults.
// - Load layers defaults, an optional YAML file, and environment variables.
// - External errors must be wrapped via this package's error helpers.
package config

// Storage backend selectors accepted in configuration.
const (
	StorageFile   = "file"
	StorageBucket = "bucket"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StorageType selects the backend: "file" or "bucket". Left empty,
	// the presence of BucketURL decides.
	StorageType string `koanf:"storage_type"`

	// BucketURL is the base address of the event object bucket.
	BucketURL string `koanf:"bucket_url"`

	// DataFile overrides the file backend's table location.
	DataFile string `koanf:"data_file"`

	// RequestTimeoutMS bounds each bucket request.
	RequestTimeoutMS int `koanf:"request_timeout_ms"`
}

// New creates a Config holding the defaults Load layers on top of.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":8080",
		StorageType:      "",
		BucketURL:        "",
		DataFile:         "five-or-die-events.json",
		RequestTimeoutMS: 15_000,
	}
}

// ResolvedStorageType returns the effective backend selector: the
// explicit StorageType when set, otherwise bucket when a bucket URL is
// configured and file when not.
func (c *Config) ResolvedStorageType() string {
	if c.StorageType != "" {
		return c.StorageType
	}
	if c.BucketURL != "" {
		return StorageBucket
	}
	return StorageFile
}
