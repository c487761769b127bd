package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the configuration file name looked up in the current
// and home directories.
const DefaultConfigFile = ".clamdscan.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File mirrors the YAML configuration file layout. Timeouts use Go duration
// syntax, e.g. "500ms" or "30s".
type File struct {
	Host           string `yaml:"host,omitempty"`
	Port           int    `yaml:"port,omitempty"`
	ConnectTimeout string `yaml:"connectTimeout,omitempty"`
	ReadTimeout    string `yaml:"readTimeout,omitempty"`
}

// Load reads the YAML file at path and overlays it on the defaults.
// A missing file yields ErrConfigNotFound so callers can decide whether an
// explicit path was required.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cfg := Default()
	if f.Host != "" {
		cfg.Host = f.Host
	}
	if f.Port != 0 {
		cfg.Port = f.Port
	}
	if f.ConnectTimeout != "" {
		d, err := time.ParseDuration(f.ConnectTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid connectTimeout in %s: %w", path, err)
		}
		cfg.ConnectTimeout = d
	}
	if f.ReadTimeout != "" {
		d, err := time.ParseDuration(f.ReadTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid readTimeout in %s: %w", path, err)
		}
		cfg.ReadTimeout = d
	}

	return cfg, nil
}

// FindConfigFile searches for the configuration file in the following order:
//  1. the explicit path, if given
//  2. .clamdscan.yaml in the current directory
//  3. clamdscan/config.yaml under the XDG config directory
//
// Returns the path if found, or empty string otherwise.
func FindConfigFile(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		path := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	path := filepath.Join(xdg.ConfigHome, "clamdscan", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return path
	}

	return ""
}
