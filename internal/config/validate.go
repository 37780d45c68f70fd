package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateOrganizer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if c.Journal.Enabled && c.Journal.Path == "" {
		return errors.New("journal.path must be set when journal.enabled is true")
	}
	return nil
}

func (c *Config) validateOrganizer() error {
	if c.Organizer.Workers < 1 {
		return fmt.Errorf("organizer.workers must be positive (got %d)", c.Organizer.Workers)
	}
	switch c.Organizer.FailurePolicy {
	case FailurePolicyContinue, FailurePolicyAbort:
		return nil
	default:
		return fmt.Errorf("organizer.failure_policy must be %q or %q (got %q)",
			FailurePolicyContinue, FailurePolicyAbort, c.Organizer.FailurePolicy)
	}
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not recognized", c.Logging.Level)
	}
	return nil
}
