// Package resolve decides which catalog item a title/year query refers to.
//
// Resolution never guesses: an exact title match (Unicode case folded) that is
// unique after the optional year filter wins, several matches are reported as
// ambiguous, and when nothing matches an optional Selector may let the
// operator pick from the raw search results.
package resolve

import (
	"golang.org/x/text/cases"

	"plexdate/internal/services/plex"
)

// Kind enumerates resolution outcomes.
type Kind int

const (
	NotFound Kind = iota
	Unique
	Ambiguous
	UserSelected
	UserSkipped
)

func (k Kind) String() string {
	switch k {
	case Unique:
		return "unique"
	case Ambiguous:
		return "ambiguous"
	case UserSelected:
		return "user_selected"
	case UserSkipped:
		return "user_skipped"
	default:
		return "not_found"
	}
}

// Outcome is the result of Resolve. Item is set for Unique and UserSelected;
// Count is the number of exact matches that survived filtering.
type Outcome struct {
	Kind  Kind
	Item  plex.Metadata
	Count int
}

// Resolved reports whether the outcome names an update target.
func (o Outcome) Resolved() bool {
	return o.Kind == Unique || o.Kind == UserSelected
}

// Query describes what the operator asked for. Year zero means no year filter.
type Query struct {
	Title       string
	Year        int
	Interactive bool
}

// Selector lets the operator choose among candidates. ok is false when the
// operator skipped.
type Selector interface {
	Select(candidates []plex.Metadata) (item plex.Metadata, ok bool)
}

// Resolve filters results to exact title matches, then by year when one is
// given. With no match and interactive mode on, the selector is offered the
// unfiltered results, not the year-filtered set.
func Resolve(results []plex.Metadata, q Query, selector Selector) Outcome {
	fold := cases.Fold()
	want := fold.String(q.Title)

	var matches []plex.Metadata
	for _, item := range results {
		if fold.String(item.Title) != want {
			continue
		}
		if q.Year != 0 && item.Year != q.Year {
			continue
		}
		matches = append(matches, item)
	}

	switch {
	case len(matches) == 1:
		return Outcome{Kind: Unique, Item: matches[0], Count: 1}
	case len(matches) > 1:
		return Outcome{Kind: Ambiguous, Count: len(matches)}
	}

	if !q.Interactive || len(results) == 0 || selector == nil {
		return Outcome{Kind: NotFound}
	}
	item, ok := selector.Select(results)
	if !ok {
		return Outcome{Kind: UserSkipped}
	}
	return Outcome{Kind: UserSelected, Item: item}
}
