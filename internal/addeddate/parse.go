// Package addeddate parses operator-supplied added-at values.
package addeddate

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Accepted layouts, tried in order.
var layouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// DisplayLayout is the layout used when echoing dates back to the operator.
const DisplayLayout = "2006-01-02 15:04:05"

// ErrInvalidFormat is matched by every FormatError.
var ErrInvalidFormat = errors.New("invalid date format")

// FormatError reports a value that matched none of the accepted layouts.
type FormatError struct {
	Value string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid date format %q: use YYYY-MM-DD or YYYY-MM-DD HH:MM:SS", e.Value)
}

func (e *FormatError) Is(target error) bool { return target == ErrInvalidFormat }

// Parse interprets text in the local time zone.
func Parse(text string) (time.Time, error) {
	return ParseIn(text, time.Local)
}

// ParseIn interprets text in loc. The first matching layout wins.
func ParseIn(text string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	value := strings.TrimSpace(text)
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &FormatError{Value: text}
}

// Format renders t with DisplayLayout in the local zone.
func Format(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.In(time.Local).Format(DisplayLayout)
}
