package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"plexdate/internal/batch"
	"plexdate/internal/logging"
	"plexdate/internal/prompt"
	"plexdate/internal/runlock"
	"plexdate/internal/services/plex"
	"plexdate/internal/updater"
)

const programName = "plexdate"

func runUpdate(cmd *cobra.Command, cc *commandContext, flags *updateFlags) error {
	if err := validateModeFlags(cmd, flags); err != nil {
		return err
	}

	cfg, err := cc.runConfig(cmd, flags)
	if err != nil {
		return err
	}
	logger, err := cc.logger(cmd, cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	if err := cfg.RequireToken(); err != nil {
		logging.ErrorWithContext(logger, "plex token missing", "config_invalid",
			logging.String(logging.FieldErrorHint, "set PLEX_TOKEN, plex.token, or pass --token"),
		)
		return reported(err)
	}

	if flags.dryRun {
		logger.Info("dry run enabled, no changes will be made")
	} else {
		lock, err := runlock.Acquire(cfg.LockPath())
		if err != nil {
			logging.ErrorWithContext(logger, "run lock unavailable", "lock_unavailable",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "wait for the other run to finish"),
			)
			return reported(err)
		}
		defer func() {
			if err := lock.Release(); err != nil {
				logger.Warn("failed to release run lock", logging.Error(err))
			}
		}()
	}

	ctx := cmd.Context()
	client := plex.NewClient(cfg.Plex.URL, cfg.Plex.Token, plex.WithTimeout(cfg.PlexTimeout()))
	server, err := client.Connect(ctx)
	if err != nil {
		return reportPlexError(logger, "failed to connect to plex", err,
			logging.String("url", client.BaseURL()))
	}
	logger.Info("connected to plex server",
		logging.String("server", server.FriendlyName),
		logging.String("url", client.BaseURL()),
		logging.String("version", server.Version),
	)

	section, err := client.Section(ctx, cfg.Plex.Library)
	if err != nil {
		return reportPlexError(logger, "library not available", err,
			logging.String(logging.FieldLibrary, cfg.Plex.Library))
	}

	opts := updater.Options{
		DryRun:     flags.dryRun,
		FormatUndo: undoFormatter(section.Title, cc.defaultLibrary()),
	}
	if flags.interactive {
		opts.Selector = prompt.NewSelector(cmd.InOrStdin(), cmd.OutOrStdout())
	}
	itemLogger := logger.With(logging.String(logging.FieldLibrary, section.Title))
	processor := updater.New(section, itemLogger, opts)

	if path := strings.TrimSpace(flags.csvPath); path != "" {
		summary, err := batch.NewDriver(processor, itemLogger).Run(ctx, path, flags.interactive)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			logging.ErrorWithContext(logger, "batch aborted", "batch_failed", logging.Error(err))
			return reported(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderSummary(summary))
		return nil
	}

	processor.Process(ctx, updater.Request{
		Title:       strings.TrimSpace(flags.title),
		Date:        flags.date,
		Year:        flags.year,
		Interactive: flags.interactive,
	})
	return ctx.Err()
}

var errTitleNeedsDate = errors.New("--title and --date must both be non-empty")

// validateModeFlags rejects mode flags that were given but left empty, which
// cobra's flag groups accept.
func validateModeFlags(cmd *cobra.Command, flags *updateFlags) error {
	set := cmd.Flags()
	if set.Changed("csv") {
		if strings.TrimSpace(flags.csvPath) == "" {
			return errors.New("--csv requires a file path")
		}
		return nil
	}
	if set.Changed("title") {
		if strings.TrimSpace(flags.title) == "" || strings.TrimSpace(flags.date) == "" {
			return errTitleNeedsDate
		}
	}
	return nil
}

// undoFormatter appends --library only when the undo would otherwise target
// a different section.
func undoFormatter(library, defaultLibrary string) func(updater.UndoRecord) string {
	var extra []string
	if !strings.EqualFold(library, defaultLibrary) {
		extra = []string{"--library", library}
	}
	return func(u updater.UndoRecord) string {
		return u.Command(programName, extra...)
	}
}

func reportPlexError(logger *slog.Logger, msg string, err error, attrs ...logging.Attr) error {
	eventType := "plex_error"
	hint := "check the plex server logs"
	switch plex.Classify(err) {
	case plex.KindAuth:
		eventType = "plex_unauthorized"
		hint = "check the plex token"
	case plex.KindConnection:
		eventType = "plex_unreachable"
		hint = "check the server URL and that plex is running"
	case plex.KindNotFound:
		eventType = "library_not_found"
		hint = "check the library name or pass --library"
	}
	attrs = append(attrs, logging.Error(err), logging.String(logging.FieldErrorHint, hint))
	logging.ErrorWithContext(logger, msg, eventType, attrs...)
	return reported(err)
}
