// Package config provides configuration management for the querykit CLI.
//
// Configuration names either a single target backend, or a reader and a
// writer backend between which statements are dispatched.
package config

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/querykit/pkg/core"
)

// TargetConfig describes one backend connection.
type TargetConfig struct {
	Type     string            `koanf:"type"`
	DSN      string            `koanf:"dsn"` // user:password@host[:port]/database
	Host     string            `koanf:"host"`
	Port     int               `koanf:"port"`
	User     string            `koanf:"user"`
	Password string            `koanf:"password"`
	Database string            `koanf:"database"`
	Path     string            `koanf:"path"` // file path or unix socket
	Options  map[string]string `koanf:"options"`
	Params   map[string]any    `koanf:"params"`
}

// AdapterConfig converts the target into an adapter configuration. Fields
// parsed from the DSN are overridden by fields set explicitly.
func (t *TargetConfig) AdapterConfig() (core.AdapterConfig, error) {
	var cfg core.AdapterConfig
	if t.DSN != "" {
		parsed, err := core.ParseDSN(t.DSN)
		if err != nil {
			return core.AdapterConfig{}, fmt.Errorf("invalid dsn for %s target: %w", t.Type, err)
		}
		cfg = parsed
	}

	cfg.Type = strings.ToLower(t.Type)
	if t.Host != "" {
		cfg.Host = t.Host
	}
	if t.Port != 0 {
		cfg.Port = t.Port
	}
	if t.User != "" {
		cfg.Username = t.User
	}
	if t.Password != "" {
		cfg.Password = t.Password
	}
	if t.Database != "" {
		cfg.Database = t.Database
	}
	cfg.Path = t.Path
	cfg.Options = t.Options
	cfg.Params = t.Params
	return cfg, nil
}

// Config holds all CLI configuration options.
type Config struct {
	Target  *TargetConfig `koanf:"target"`
	Reader  *TargetConfig `koanf:"reader"`
	Writer  *TargetConfig `koanf:"writer"`
	Output  string        `koanf:"output"`
	Verbose bool          `koanf:"verbose"`

	// File is the config file that was loaded, if any.
	File string `koanf:"-"`
}

// ReadWrite reports whether statements are split between a reader and a
// writer.
func (c *Config) ReadWrite() bool {
	return c.Reader != nil && c.Writer != nil
}

// Primary returns the target whose dialect is used for offline composition:
// the writer in read/write mode, the single target otherwise.
func (c *Config) Primary() *TargetConfig {
	if c.ReadWrite() {
		return c.Writer
	}
	return c.Target
}

// Default configuration values.
const (
	DefaultTargetType = "sqlite"
	DefaultOutput     = "table"
)

// Output formats.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputCSV   = "csv"
)
