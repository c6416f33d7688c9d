// Package config handles refscreen configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds tunable matching and tool settings, loaded from
// $XDG_CONFIG_HOME/refscreen/config.yml with REFSCREEN_* environment
// overrides (a .env file in the working directory is honored too).
type Config struct {
	Threshold     float64  `yaml:"threshold,omitempty"`      // fuzzy similarity floor
	YearTolerance int      `yaml:"year_tolerance,omitempty"` // max year gap at high similarity
	SearchFields  []string `yaml:"search_fields,omitempty"`
	DBPath        string   `yaml:"db_path,omitempty"` // dedup session store
}

const (
	configDir  = "refscreen"
	configFile = "config.yml"
	dbFile     = "sessions.db"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Threshold:     0.90,
		YearTolerance: 1,
		SearchFields:  []string{"title", "abstract"},
	}
}

// Path returns the config file location, respecting XDG_CONFIG_HOME.
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, configDir, configFile)
}

// Load reads the config file, applies defaults for unset fields, then
// applies environment overrides. A missing file is not an error.
func Load() (*Config, error) {
	cfg := Default()

	if path := Path(); path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	}

	// Best effort: a local .env may carry REFSCREEN_* overrides.
	_ = godotenv.Load()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("REFSCREEN_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("REFSCREEN_THRESHOLD: %w", err)
		}
		c.Threshold = f
	}
	if v := os.Getenv("REFSCREEN_YEAR_TOLERANCE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REFSCREEN_YEAR_TOLERANCE: %w", err)
		}
		c.YearTolerance = n
	}
	if v := os.Getenv("REFSCREEN_SEARCH_FIELDS"); v != "" {
		c.SearchFields = splitFields(v)
	}
	if v := os.Getenv("REFSCREEN_DB"); v != "" {
		c.DBPath = v
	}
	return nil
}

func (c *Config) validate() error {
	if c.Threshold < 0 || c.Threshold > 1 {
		return fmt.Errorf("threshold must be in [0,1], got %g", c.Threshold)
	}
	if c.YearTolerance < 0 {
		return fmt.Errorf("year_tolerance must be >= 0, got %d", c.YearTolerance)
	}
	return nil
}

// ResolveDBPath returns the session store location, defaulting next to
// the config file.
func (c *Config) ResolveDBPath() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	if path := Path(); path != "" {
		return filepath.Join(filepath.Dir(path), dbFile)
	}
	return dbFile
}

func splitFields(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
