package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if FOD_CONFIG is set
//  3. env (prefix FOD_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("FOD_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: FOD_ADDR, FOD_BUCKET_URL, ...
	// Map env keys like FOD_BUCKET_URL -> bucket_url (flat keys).
	// Underscores are preserved to match the koanf tags on the struct.
	envProvider := env.Provider("FOD_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "fod_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if cfg.Addr == "" {
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch cfg.StorageType {
	case "", StorageFile, StorageBucket:
	default:
		return nil, fmt.Errorf("%w: unknown storage_type %q", ErrInvalidConfig, cfg.StorageType)
	}
	if cfg.ResolvedStorageType() == StorageBucket && cfg.BucketURL == "" {
		return nil, fmt.Errorf("%w: storage_type %q requires bucket_url", ErrInvalidConfig, StorageBucket)
	}
	return &cfg, nil
}
