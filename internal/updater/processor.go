// Package updater applies a new added-at date to one catalog item.
//
// Processor ties the pieces together: parse the requested date, search the
// section, resolve the title to a single item, report the old and new values
// with an undo command, and, unless running dry, edit and reload the item.
// Every per-item failure is logged and returned in the Result; nothing is
// raised to the caller, so batch runs keep going.
package updater

import (
	"context"
	"log/slog"
	"time"

	"plexdate/internal/addeddate"
	"plexdate/internal/logging"
	"plexdate/internal/resolve"
	"plexdate/internal/services/plex"
)

// Catalog is the slice of a Plex library section the processor needs.
type Catalog interface {
	Search(ctx context.Context, title string) ([]plex.Metadata, error)
	EditAddedAt(ctx context.Context, item plex.Metadata, addedAt time.Time) error
	Reload(ctx context.Context, item plex.Metadata) (plex.Metadata, error)
}

// Status summarizes what happened to one request.
type Status string

const (
	StatusUpdated Status = "updated"
	StatusDryRun  Status = "dry_run"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Request names the item to update and the date to apply. Year zero disables
// the year filter.
type Request struct {
	Title       string
	Date        string
	Year        int
	Interactive bool
}

// Result reports the outcome of Process.
type Result struct {
	Status    Status
	Outcome   resolve.Outcome
	Undo      *UndoRecord
	NewDate   time.Time
	Confirmed time.Time
	Err       error
}

// Options tunes a Processor.
type Options struct {
	DryRun   bool
	Selector resolve.Selector
	// Location interprets dates without a zone; defaults to time.Local.
	Location *time.Location
	// FormatUndo renders the undo command; defaults to UndoRecord.Command("plexdate").
	FormatUndo func(UndoRecord) string
}

// Processor updates items in a single catalog.
type Processor struct {
	catalog    Catalog
	logger     *slog.Logger
	dryRun     bool
	selector   resolve.Selector
	location   *time.Location
	formatUndo func(UndoRecord) string
}

// New constructs a Processor. A nil logger discards output.
func New(catalog Catalog, logger *slog.Logger, opts Options) *Processor {
	p := &Processor{
		catalog:    catalog,
		logger:     logging.NewComponentLogger(logger, "updater"),
		dryRun:     opts.DryRun,
		selector:   opts.Selector,
		location:   opts.Location,
		formatUndo: opts.FormatUndo,
	}
	if p.location == nil {
		p.location = time.Local
	}
	if p.formatUndo == nil {
		p.formatUndo = func(u UndoRecord) string { return u.Command("plexdate") }
	}
	return p
}

// DryRun reports whether the processor suppresses edits.
func (p *Processor) DryRun() bool { return p.dryRun }

// Process runs one request to completion.
func (p *Processor) Process(ctx context.Context, req Request) Result {
	logger := p.logger.With(logging.String(logging.FieldTitle, req.Title))
	if req.Year != 0 {
		logger = logger.With(logging.Int(logging.FieldYear, req.Year))
	}

	newDate, err := addeddate.ParseIn(req.Date, p.location)
	if err != nil {
		logging.ErrorWithContext(logger, "invalid date", "date_invalid",
			logging.String(logging.FieldValue, req.Date),
			logging.String(logging.FieldErrorHint, "use YYYY-MM-DD or YYYY-MM-DD HH:MM:SS"),
		)
		return Result{Status: StatusFailed, Err: err}
	}

	results, err := p.catalog.Search(ctx, req.Title)
	if err != nil {
		logging.ErrorWithContext(logger, "search failed", "search_failed", logging.Error(err))
		return Result{Status: StatusFailed, NewDate: newDate, Err: err}
	}

	outcome := resolve.Resolve(results, resolve.Query{
		Title:       req.Title,
		Year:        req.Year,
		Interactive: req.Interactive,
	}, p.selector)
	result := Result{Outcome: outcome, NewDate: newDate}

	switch outcome.Kind {
	case resolve.NotFound:
		logger.Error("item not found",
			logging.Int("search_results", len(results)),
			logging.String(logging.FieldErrorHint, "check the exact title or use --interactive"),
		)
		result.Status = StatusSkipped
		return result
	case resolve.Ambiguous:
		logger.Error("multiple exact matches",
			logging.Int("matches", outcome.Count),
			logging.String(logging.FieldErrorHint, "add --year or use --interactive"),
		)
		result.Status = StatusSkipped
		return result
	case resolve.UserSkipped:
		logger.Warn("skipped by operator")
		result.Status = StatusSkipped
		return result
	}

	item := outcome.Item
	logger.Info("found item",
		logging.String("item", item.Title),
		logging.Int("item_year", item.Year),
		logging.String("rating_key", item.RatingKey),
		logging.String("match", outcome.Kind.String()),
	)

	if item.AddedAt.IsZero() {
		logger.Warn("item has no current added date; undo unavailable")
	} else {
		undo := UndoRecord{Title: item.Title, AddedAt: item.AddedAt, Year: item.Year}
		result.Undo = &undo
		logger.Info("undo command", logging.String("command", p.formatUndo(undo)))
	}

	logger.Info("added date change",
		logging.String("current", addeddate.Format(item.AddedAt)),
		logging.String("new", addeddate.Format(newDate)),
	)

	if p.dryRun {
		logger.Info("dry run enabled, no changes made")
		result.Status = StatusDryRun
		return result
	}

	if err := p.catalog.EditAddedAt(ctx, item, newDate); err != nil {
		logging.ErrorWithContext(logger, "failed to update metadata", "edit_failed", logging.Error(err))
		result.Status = StatusFailed
		result.Err = err
		return result
	}

	reloaded, err := p.catalog.Reload(ctx, item)
	if err != nil {
		logging.ErrorWithContext(logger, "updated but reload failed", "reload_failed", logging.Error(err))
		result.Status = StatusFailed
		result.Err = err
		return result
	}

	result.Status = StatusUpdated
	result.Confirmed = reloaded.AddedAt
	if !reloaded.AddedAt.Equal(newDate) {
		logger.Warn("server reports a different added date",
			logging.String("requested", addeddate.Format(newDate)),
			logging.String("reported", addeddate.Format(reloaded.AddedAt)),
		)
		return result
	}
	logger.Info("added date updated", logging.String("confirmed", addeddate.Format(reloaded.AddedAt)))
	return result
}
