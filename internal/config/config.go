// Package config resolves runtime settings from a YAML file, environment
// variables, and CLI flags, with precedence CLI > env > file > default.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL = "https://www.databricks.com/dataaisummit/agenda"
	DefaultDataDir = "data"
)

type Config struct {
	BaseURL     string `yaml:"base_url"`
	DataDir     string `yaml:"data_dir"`
	ChromePath  string `yaml:"chrome_path"`
	PageTimeout int    `yaml:"page_timeout_seconds"`
	UserDBPath  string `yaml:"user_db_path"`
}

// Overrides carries CLI flag values; empty fields leave the resolved value
// untouched.
type Overrides struct {
	BaseURL string
	DataDir string
}

// DefaultPath is where Resolve looks when no -config flag was given.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".summit-agenda", "config.yaml")
}

// Resolve loads the config file (if any), applies environment and CLI
// overrides, and fills in defaults. A missing file is not an error; a
// malformed one is.
func Resolve(path string, overrides Overrides) (Config, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath()
	}

	var cfg Config
	blob, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(blob, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// fine, all defaults
	default:
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}

	applyEnv(&cfg.BaseURL, "AGENDA_BASE_URL")
	applyEnv(&cfg.DataDir, "AGENDA_DATA_DIR")
	applyEnv(&cfg.ChromePath, "AGENDA_CHROME_PATH")
	applyEnv(&cfg.UserDBPath, "AGENDA_USER_DB")

	apply(&cfg.BaseURL, overrides.BaseURL)
	apply(&cfg.DataDir, overrides.DataDir)

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir
	}
	if cfg.PageTimeout <= 0 {
		cfg.PageTimeout = 30
	}
	if cfg.UserDBPath == "" {
		cfg.UserDBPath = filepath.Join(cfg.DataDir, "user", "annotations.db")
	}
	return cfg, nil
}

// SessionsDir is where the catalogue files live.
func (c Config) SessionsDir() string {
	return filepath.Join(c.DataDir, "sessions")
}

func apply(dst *string, v string) {
	if s := strings.TrimSpace(v); s != "" {
		*dst = s
	}
}

func applyEnv(dst *string, key string) {
	apply(dst, os.Getenv(key))
}
