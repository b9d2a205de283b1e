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

// maxPrecision bounds the display rounding; float64 runs out of meaningful
// digits well before this.
const maxPrecision = 12

// Load builds a Config by layering defaults, an optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if EXORANK_CONFIG is set
//  3. env (prefix EXORANK_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("EXORANK_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: EXORANK_ADDR, EXORANK_DB_PATH, ...
	// Keys keep their underscores to match the koanf tags on the struct.
	envProvider := env.Provider("EXORANK_", ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), "exorank_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DefaultK < 1:
		return fmt.Errorf("%w: default_k must be positive", ErrInvalidConfig)
	case c.MaxK < c.DefaultK:
		return fmt.Errorf("%w: max_k must be at least default_k", ErrInvalidConfig)
	case c.Precision < 0 || c.Precision > maxPrecision:
		return fmt.Errorf("%w: precision must be in [0, %d]", ErrInvalidConfig, maxPrecision)
	}
	return nil
}
