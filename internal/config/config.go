package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// EnvConfigPath overrides the config file location.
	EnvConfigPath = "VNCPASSWD_CONFIG"
	// EnvLogLevel overrides the configured log level.
	EnvLogLevel = "VNCPASSWD_LOG_LEVEL"
)

// Config holds operator defaults loaded from ~/.vnc/vncpasswd.yaml.
// Command-line flags take precedence over every field.
type Config struct {
	Display  string `yaml:"display"`
	LogLevel string `yaml:"log_level"`
	AuditLog string `yaml:"audit_log"`
}

// DefaultPath returns $VNCPASSWD_CONFIG, or ~/.vnc/vncpasswd.yaml. It
// returns "" when HOME is unset or out of bounds, which Load treats as no
// config file.
func DefaultPath(lookup LookupFunc) string {
	if p, _ := lookup(EnvConfigPath); p != "" {
		return p
	}
	home, err := Getenv(lookup, "HOME", MaxHomeLength)
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, DirName, "vncpasswd.yaml")
}

// Load reads a YAML config file from path. If path is empty or the file
// does not exist, it returns an empty Config and no error. An empty or
// all-comment file also returns an empty Config with no error.
func Load(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
