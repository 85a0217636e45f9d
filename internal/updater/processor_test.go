package updater_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plexdate/internal/addeddate"
	"plexdate/internal/resolve"
	"plexdate/internal/services/plex"
	"plexdate/internal/testsupport"
	"plexdate/internal/updater"
)

var originalAdded = time.Date(2021, 10, 22, 9, 30, 0, 0, time.UTC)

func seeded() *testsupport.Catalog {
	return testsupport.NewCatalog(
		plex.Metadata{RatingKey: "1", Title: "Dune", Year: 2021, AddedAt: originalAdded},
		plex.Metadata{RatingKey: "2", Title: "Dune", Year: 1984, AddedAt: originalAdded},
		plex.Metadata{RatingKey: "3", Title: "The Matrix", Year: 1999, AddedAt: originalAdded},
		plex.Metadata{RatingKey: "4", Title: "Blank Slate", Year: 2010},
	)
}

type fixedSelector struct {
	pick  int
	calls int
}

func (s *fixedSelector) Select(candidates []plex.Metadata) (plex.Metadata, bool) {
	s.calls++
	if s.pick < 0 || s.pick >= len(candidates) {
		return plex.Metadata{}, false
	}
	return candidates[s.pick], true
}

func TestProcessUpdatesUniqueMatch(t *testing.T) {
	catalog := seeded()
	logger, logs := testsupport.NewLogger(t)
	p := updater.New(catalog, logger, updater.Options{Location: time.UTC})

	res := p.Process(context.Background(), updater.Request{Title: "the matrix", Date: "2020-01-15 13:45:00"})

	require.Equal(t, updater.StatusUpdated, res.Status)
	require.NoError(t, res.Err)
	want := time.Date(2020, 1, 15, 13, 45, 0, 0, time.UTC)
	require.Len(t, catalog.Edits, 1)
	assert.Equal(t, "3", catalog.Edits[0].RatingKey)
	assert.True(t, catalog.Edits[0].AddedAt.Equal(want))
	assert.Equal(t, []string{"3"}, catalog.Reloads)
	assert.True(t, res.Confirmed.Equal(want))

	require.NotNil(t, res.Undo)
	assert.Equal(t, updater.UndoRecord{Title: "The Matrix", AddedAt: originalAdded, Year: 1999}, *res.Undo)

	out := logs.String()
	assert.Contains(t, out, "found item")
	assert.Contains(t, out, "undo command")
	assert.Contains(t, out, "--title 'The Matrix'")
	assert.Contains(t, out, "added date updated")
}

func TestProcessDryRunNeverEdits(t *testing.T) {
	catalog := seeded()
	logger, logs := testsupport.NewLogger(t)
	p := updater.New(catalog, logger, updater.Options{DryRun: true})

	res := p.Process(context.Background(), updater.Request{Title: "Dune", Year: 2021, Date: "2020-01-15"})

	assert.Equal(t, updater.StatusDryRun, res.Status)
	assert.Empty(t, catalog.Edits)
	assert.Empty(t, catalog.Reloads)
	assert.NotNil(t, res.Undo)
	assert.Contains(t, logs.String(), "no changes made")
	assert.True(t, p.DryRun())

	item, _ := catalog.Item("1")
	assert.True(t, item.AddedAt.Equal(originalAdded))
}

func TestProcessInvalidDateSkipsCatalog(t *testing.T) {
	catalog := seeded()
	logger, logs := testsupport.NewLogger(t)
	p := updater.New(catalog, logger, updater.Options{})

	res := p.Process(context.Background(), updater.Request{Title: "Dune", Date: "15-01-2020"})

	assert.Equal(t, updater.StatusFailed, res.Status)
	assert.True(t, errors.Is(res.Err, addeddate.ErrInvalidFormat))
	assert.Empty(t, catalog.Queries, "no catalog call on a bad date")
	assert.Contains(t, logs.String(), "15-01-2020")
	assert.Contains(t, logs.String(), "Dune")
}

func TestProcessAmbiguousIsSkipped(t *testing.T) {
	catalog := seeded()
	logger, logs := testsupport.NewLogger(t)
	p := updater.New(catalog, logger, updater.Options{})

	res := p.Process(context.Background(), updater.Request{Title: "Dune", Date: "2020-01-15"})

	assert.Equal(t, updater.StatusSkipped, res.Status)
	assert.Equal(t, resolve.Ambiguous, res.Outcome.Kind)
	assert.Equal(t, 2, res.Outcome.Count)
	assert.Empty(t, catalog.Edits)
	assert.Contains(t, logs.String(), "multiple exact matches")
}

func TestProcessNotFoundIsSkipped(t *testing.T) {
	catalog := seeded()
	logger, logs := testsupport.NewLogger(t)
	p := updater.New(catalog, logger, updater.Options{})

	res := p.Process(context.Background(), updater.Request{Title: "Alien", Date: "2020-01-15"})

	assert.Equal(t, updater.StatusSkipped, res.Status)
	assert.Equal(t, resolve.NotFound, res.Outcome.Kind)
	assert.Contains(t, logs.String(), "item not found")
	assert.Contains(t, logs.String(), "Alien")
}

func TestProcessInteractiveSelection(t *testing.T) {
	catalog := seeded()
	sel := &fixedSelector{pick: 1}
	p := updater.New(catalog, nil, updater.Options{Selector: sel})

	// "Dun" matches nothing exactly; the selector sees both Dune entries.
	res := p.Process(context.Background(), updater.Request{Title: "Dun", Date: "2020-01-15", Interactive: true})

	assert.Equal(t, 1, sel.calls)
	require.Equal(t, updater.StatusUpdated, res.Status)
	assert.Equal(t, resolve.UserSelected, res.Outcome.Kind)
	require.Len(t, catalog.Edits, 1)
	assert.Equal(t, "2", catalog.Edits[0].RatingKey)
}

func TestProcessInteractiveSkip(t *testing.T) {
	catalog := seeded()
	p := updater.New(catalog, nil, updater.Options{Selector: &fixedSelector{pick: -1}})

	res := p.Process(context.Background(), updater.Request{Title: "Dun", Date: "2020-01-15", Interactive: true})

	assert.Equal(t, updater.StatusSkipped, res.Status)
	assert.Equal(t, resolve.UserSkipped, res.Outcome.Kind)
	assert.Empty(t, catalog.Edits)
}

func TestProcessEditFailureIsReportedNotRaised(t *testing.T) {
	catalog := seeded()
	catalog.EditErr = errors.New("plex returned 500")
	logger, logs := testsupport.NewLogger(t)
	p := updater.New(catalog, logger, updater.Options{})

	res := p.Process(context.Background(), updater.Request{Title: "The Matrix", Date: "2020-01-15"})

	assert.Equal(t, updater.StatusFailed, res.Status)
	assert.ErrorIs(t, res.Err, catalog.EditErr)
	assert.Empty(t, catalog.Reloads)
	assert.Contains(t, logs.String(), "failed to update metadata")
}

func TestProcessReloadFailure(t *testing.T) {
	catalog := seeded()
	catalog.ReloadErr = errors.New("timeout")
	p := updater.New(catalog, nil, updater.Options{})

	res := p.Process(context.Background(), updater.Request{Title: "The Matrix", Date: "2020-01-15"})

	assert.Equal(t, updater.StatusFailed, res.Status)
	assert.Len(t, catalog.Edits, 1)
}

func TestProcessSearchFailure(t *testing.T) {
	catalog := seeded()
	catalog.SearchErr = errors.New("connection reset")
	p := updater.New(catalog, nil, updater.Options{})

	res := p.Process(context.Background(), updater.Request{Title: "The Matrix", Date: "2020-01-15"})

	assert.Equal(t, updater.StatusFailed, res.Status)
	assert.ErrorIs(t, res.Err, catalog.SearchErr)
}

func TestProcessWithoutCurrentDateHasNoUndo(t *testing.T) {
	catalog := seeded()
	logger, logs := testsupport.NewLogger(t)
	p := updater.New(catalog, logger, updater.Options{DryRun: true})

	res := p.Process(context.Background(), updater.Request{Title: "Blank Slate", Date: "2020-01-15"})

	assert.Equal(t, updater.StatusDryRun, res.Status)
	assert.Nil(t, res.Undo)
	assert.Contains(t, logs.String(), "undo unavailable")
}

func TestProcessUsesCustomUndoFormatter(t *testing.T) {
	catalog := seeded()
	logger, logs := testsupport.NewLogger(t)
	p := updater.New(catalog, logger, updater.Options{
		DryRun: true,
		FormatUndo: func(u updater.UndoRecord) string {
			return u.Command("plexdate", "--library", "Films")
		},
	})

	p.Process(context.Background(), updater.Request{Title: "The Matrix", Date: "2020-01-15"})

	assert.Contains(t, logs.String(), "--library Films")
}
