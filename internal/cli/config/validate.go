package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/querykit/pkg/adapter"
)

// Validate checks the target type against the adapter registry.
func (t *TargetConfig) Validate() error {
	return t.validate("target")
}

// validate checks a backend section; key is its config path.
func (t *TargetConfig) validate(key string) error {
	if t.Type == "" {
		return fmt.Errorf("%s.type is required", key)
	}

	if !adapter.IsRegistered(strings.ToLower(t.Type)) {
		return &adapter.UnknownAdapterError{
			Type:      t.Type,
			Key:       key + ".type",
			Available: adapter.ListAdapters(),
		}
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Output {
	case OutputTable, OutputJSON, OutputCSV:
	default:
		return fmt.Errorf("unknown output format %q (expected table, json or csv)", c.Output)
	}

	if (c.Reader == nil) != (c.Writer == nil) {
		return errors.New("reader and writer must be configured together")
	}

	if c.ReadWrite() {
		if err := c.Reader.validate("reader"); err != nil {
			return fmt.Errorf("invalid reader configuration: %w", err)
		}
		if err := c.Writer.validate("writer"); err != nil {
			return fmt.Errorf("invalid writer configuration: %w", err)
		}
		return nil
	}

	if err := c.Target.Validate(); err != nil {
		return fmt.Errorf("invalid target configuration: %w", err)
	}
	return nil
}
