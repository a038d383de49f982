// Package config loads application configuration by layering:
// defaults < .env file < process environment < flags.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Host           string        `json:"host"`
	Port           int           `json:"port"`
	DatabaseURL    string        `json:"-"`
	RealtimeWindow time.Duration `json:"realtime_window"`
	WriteTimeout   time.Duration `json:"-"`
}

// Default returns a Config with default values.
func Default() Config {
	return Config{
		Host:           "127.0.0.1",
		Port:           8090,
		RealtimeWindow: 30 * time.Minute,
		WriteTimeout:   30 * time.Second,
	}
}

// Load builds a Config by layering defaults, an optional .env file,
// process environment variables, and explicitly set flags. The
// provided FlagSet must already be parsed by the caller. A missing
// .env file is not an error unless one was named explicitly.
func Load(fs *flag.FlagSet, envFile string) (Config, error) {
	cfg := Default()

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return cfg, fmt.Errorf("loading env file %s: %w", envFile, err)
		}
	} else if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return cfg, fmt.Errorf("loading .env: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	applyFlags(&cfg, fs)
	return cfg, nil
}

// Validate checks that the config can serve requests.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Port = p
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("REALTIME_WINDOW_MINUTES"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 {
			return fmt.Errorf("invalid REALTIME_WINDOW_MINUTES %q", v)
		}
		cfg.RealtimeWindow = time.Duration(m) * time.Minute
	}
	return nil
}

// applyFlags overrides config with flags the user explicitly set.
func applyFlags(cfg *Config, fs *flag.FlagSet) {
	if fs == nil {
		return
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "host":
			cfg.Host = f.Value.String()
		case "port":
			if p, err := strconv.Atoi(f.Value.String()); err == nil {
				cfg.Port = p
			}
		case "db":
			cfg.DatabaseURL = f.Value.String()
		}
	})
}
