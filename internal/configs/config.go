package configs

import (
	"fmt"
	"os"
	"time"

	kerrors "github.com/PolarWolf314/capi/internal/errors"
)

// DefaultConfigFile is read from the working directory when no --config is given.
const DefaultConfigFile = "capi.toml"

// Config holds the server's startup settings.
type Config struct {
	// Address is the listen address of the lookup endpoint.
	Address string `toml:"address"`
	// DataPath is the encrypted dataset blob.
	DataPath string `toml:"data_path"`
	// KeyVariable names the environment entry holding the base64 decryption key.
	KeyVariable string `toml:"key_variable"`
	// APIKeyVariable is the base name of the API key slots.
	APIKeyVariable string `toml:"api_key_variable"`
	// MaxAPIKeys is the number of API key slots probed.
	MaxAPIKeys int `toml:"max_api_keys"`
	// APIKeyHeader is the request header carrying the API key.
	APIKeyHeader string `toml:"api_key_header"`
	// Algorithm is the AEAD used for the blob.
	Algorithm string `toml:"algorithm"`
	// EnvFile is a dotenv file overlaid on the process environment.
	EnvFile string `toml:"env_file"`
	// AccessLog, when set, receives one JSON line per lookup.
	AccessLog string `toml:"access_log"`
	// MetricsAddress, when set, serves Prometheus metrics on a separate listener.
	MetricsAddress string `toml:"metrics_address"`
	// RateLimit is the sustained request rate per second. Zero disables limiting.
	RateLimit float64 `toml:"rate_limit"`
	// RateBurst is the token bucket size. Zero means max(1, RateLimit).
	RateBurst int `toml:"rate_burst"`
	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

// Duration is a time.Duration written as a Go duration string in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText parses strings like "10s" or "1m30s".
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText writes the duration back as a string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the settings the original deployment used.
func Default() *Config {
	return &Config{
		Address:         ":8000",
		DataPath:        "data.enc",
		KeyVariable:     "DECRYPTION_KEY",
		APIKeyVariable:  "CAPI_API_KEY",
		MaxAPIKeys:      33,
		APIKeyHeader:    "X-API-KEY",
		Algorithm:       "aes-256-gcm",
		EnvFile:         ".env",
		ShutdownTimeout: Duration{10 * time.Second},
	}
}

// Load reads a TOML config file over the defaults. A missing file is not
// an error when optional is set.
func Load(path string, optional bool) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && optional {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := LoadTOML(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", kerrors.ErrInvalidConfig, path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be corrected silently.
func (c *Config) Validate() error {
	switch {
	case c.Address == "":
		return fmt.Errorf("%w: address must not be empty", kerrors.ErrInvalidConfig)
	case c.DataPath == "":
		return fmt.Errorf("%w: data_path must not be empty", kerrors.ErrInvalidConfig)
	case c.KeyVariable == "":
		return fmt.Errorf("%w: key_variable must not be empty", kerrors.ErrInvalidConfig)
	case c.APIKeyVariable == "":
		return fmt.Errorf("%w: api_key_variable must not be empty", kerrors.ErrInvalidConfig)
	case c.APIKeyHeader == "":
		return fmt.Errorf("%w: api_key_header must not be empty", kerrors.ErrInvalidConfig)
	case c.MaxAPIKeys < 1:
		return fmt.Errorf("%w: max_api_keys must be at least 1", kerrors.ErrInvalidConfig)
	case c.RateLimit < 0 || c.RateBurst < 0:
		return fmt.Errorf("%w: rate_limit and rate_burst must not be negative", kerrors.ErrInvalidConfig)
	case c.ShutdownTimeout.Duration < 0:
		return fmt.Errorf("%w: shutdown_timeout must not be negative", kerrors.ErrInvalidConfig)
	}
	return nil
}
