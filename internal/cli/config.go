package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/roach88/wadcompat/internal/ir"
)

// Config is the tool configuration, read from wadcompat.yaml and
// WADCOMPAT_* environment variables.
type Config struct {
	Specs           string `mapstructure:"specs"`
	DigestAlgorithm string `mapstructure:"digest_algorithm"`
	LogLevel        string `mapstructure:"log_level"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Specs:           "compat",
		DigestAlgorithm: ir.DefaultDigestAlgorithm,
		LogLevel:        "warn",
	}
}

// LoadConfig reads the tool configuration.
//
// With an empty path it looks for wadcompat.yaml in the working directory
// and silently falls back to defaults when none exists. An explicit path
// must exist.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("specs", defaults.Specs)
	v.SetDefault("digest_algorithm", defaults.DigestAlgorithm)
	v.SetDefault("log_level", defaults.LogLevel)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("wadcompat")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("WADCOMPAT")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	switch strings.ToLower(cfg.DigestAlgorithm) {
	case ir.DigestMD5, ir.DigestSHA1, ir.DigestSHA256:
	default:
		return fmt.Errorf("digest_algorithm must be one of md5, sha1, sha256, got: %s", cfg.DigestAlgorithm)
	}
	if _, err := cfg.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses LogLevel ("debug", "info", "warn", "error").
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

// newLogger builds the structured logger for commands.
// Verbose forces debug level.
func newLogger(w io.Writer, cfg *Config, verbose bool) *slog.Logger {
	level, err := cfg.SlogLevel()
	if err != nil {
		level = slog.LevelWarn
	}
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
