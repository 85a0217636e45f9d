package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"plexdate/internal/config"
	"plexdate/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = fmt.Errorf("load config: %w", err)
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

// runConfig returns a copy of the loaded configuration with the connection
// flags the operator set explicitly applied on top.
func (c *commandContext) runConfig(cmd *cobra.Command, flags *updateFlags) (*config.Config, error) {
	base, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	cfg := *base

	set := cmd.Flags()
	if set.Changed("server") {
		cfg.Plex.URL = strings.TrimRight(strings.TrimSpace(flags.server), "/")
	}
	if set.Changed("token") {
		cfg.Plex.Token = strings.TrimSpace(flags.token)
	}
	if set.Changed("library") {
		cfg.Plex.Library = strings.TrimSpace(flags.library)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// defaultLibrary is the section a run without --library would target.
func (c *commandContext) defaultLibrary() string {
	if c.config == nil {
		return ""
	}
	return c.config.Plex.Library
}

// logger honours the configured format and level. When the command's error
// stream has been redirected (tests, embedding) records go there instead of
// the process stderr and log file.
func (c *commandContext) logger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, error) {
	errOut := cmd.ErrOrStderr()
	if errOut == os.Stderr {
		return logging.NewFromConfig(cfg)
	}
	return logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: errOut,
	})
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
