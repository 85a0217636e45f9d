package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrTokenMissing reports that no Plex token was supplied by flag, config, or
// environment.
var ErrTokenMissing = errors.New("no plex token provided; set PLEX_TOKEN, plex.token, or use --token")

// Validate ensures the configuration is usable. The Plex token is checked
// separately by RequireToken so configuration utilities work without one.
func (c *Config) Validate() error {
	if err := c.validatePlex(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

// RequireToken returns ErrTokenMissing when the token is empty.
func (c *Config) RequireToken() error {
	if strings.TrimSpace(c.Plex.Token) == "" {
		return ErrTokenMissing
	}
	return nil
}

func (c *Config) validatePlex() error {
	parsed, err := url.Parse(c.Plex.URL)
	if err != nil {
		return fmt.Errorf("plex.url %q: %w", c.Plex.URL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("plex.url %q must use http or https", c.Plex.URL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("plex.url %q is missing a host", c.Plex.URL)
	}
	if c.Plex.Library == "" {
		return errors.New("plex.library must be set")
	}
	if c.Plex.TimeoutSeconds < 0 {
		return errors.New("plex.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q unsupported (use console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q unsupported (use debug, info, warn, or error)", c.Logging.Level)
	}
	return nil
}
