// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Layer defaults, optional YAML file, then environment variables.
// - External errors are wrapped via this package's sentinel kinds.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DBPath locates the SQLite database file. Empty selects the
	// in-memory store; state is lost on restart.
	DBPath string `koanf:"db_path"`

	// BundlePath locates the schema/scaler/model artifact bundle.
	// Empty selects the embedded default bundle.
	BundlePath string `koanf:"bundle_path"`

	// DefaultK is the leaderboard window served when none is requested.
	DefaultK int `koanf:"default_k"`

	// MaxK caps GET /rank?k.
	MaxK int `koanf:"max_k"`

	// Precision is the number of decimal places in reported probabilities.
	// The stored score keeps full precision.
	Precision int `koanf:"precision"`

	// AuthToken is the secret for the secure prediction path. Empty
	// disables the path entirely.
	AuthToken string `koanf:"auth_token"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:   "info",
		Addr:       ":9090",
		DBPath:     "exorank.db",
		BundlePath: "",
		DefaultK:   10,
		MaxK:       100,
		Precision:  4,
		AuthToken:  "",
	}
}
