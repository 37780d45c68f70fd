package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

func (c *Config) normalize() error {
	c.applyEnv()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeJournal(); err != nil {
		return err
	}
	c.normalizeOrganizer()
	c.normalizeLogging()
	return nil
}

// applyEnv overlays SORTER_* environment variables onto file values.
func (c *Config) applyEnv() {
	if value, ok := lookupEnv("SORTER_LOG_DIR"); ok {
		c.Paths.LogDir = value
	}
	if value, ok := lookupEnv("SORTER_LOG_LEVEL"); ok {
		c.Logging.Level = value
	}
	if value, ok := lookupEnv("SORTER_LOG_FORMAT"); ok {
		c.Logging.Format = value
	}
	if value, ok := lookupEnv("SORTER_FAILURE_POLICY"); ok {
		c.Organizer.FailurePolicy = value
	}
	if value, ok := lookupEnv("SORTER_WORKERS"); ok {
		if n, err := strconv.Atoi(value); err == nil {
			c.Organizer.Workers = n
		}
	}
	if value, ok := lookupEnv("SORTER_JOURNAL"); ok {
		if enabled, err := strconv.ParseBool(value); err == nil {
			c.Journal.Enabled = enabled
		}
	}
}

func lookupEnv(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeJournal() error {
	if strings.TrimSpace(c.Journal.Path) == "" {
		c.Journal.Path = filepath.Join(c.Paths.LogDir, defaultJournalFile)
		return nil
	}
	var err error
	if c.Journal.Path, err = expandPath(c.Journal.Path); err != nil {
		return fmt.Errorf("journal.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeOrganizer() {
	c.Organizer.FailurePolicy = strings.ToLower(strings.TrimSpace(c.Organizer.FailurePolicy))
	if c.Organizer.FailurePolicy == "" {
		c.Organizer.FailurePolicy = defaultFailurePolicy
	}
	if c.Organizer.Workers == 0 {
		c.Organizer.Workers = DefaultWorkers()
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
