// Package prompt implements the operator-facing candidate picker.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"plexdate/internal/services/plex"
)

// Selector prints candidates as a numbered table and reads one answer per
// call. It keeps a single buffered reader so consecutive prompts in a batch
// never lose input.
type Selector struct {
	in  *bufio.Reader
	out io.Writer
}

// NewSelector returns a selector reading answers from in and writing the
// candidate table to out.
func NewSelector(in io.Reader, out io.Writer) *Selector {
	reader, ok := in.(*bufio.Reader)
	if !ok {
		reader = bufio.NewReader(in)
	}
	return &Selector{in: reader, out: out}
}

// Select shows candidates and returns the chosen one. Any answer that is not
// a number in [1, len(candidates)] skips; there is no retry.
func (s *Selector) Select(candidates []plex.Metadata) (plex.Metadata, bool) {
	if len(candidates) == 0 {
		return plex.Metadata{}, false
	}

	fmt.Fprintln(s.out, "No exact match found. Possible matches:")
	fmt.Fprintln(s.out, RenderCandidates(candidates))
	fmt.Fprintf(s.out, "Select 1-%d (anything else skips): ", len(candidates))

	line, err := s.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(s.out)
		return plex.Metadata{}, false
	}

	index, ok := parseChoice(line, len(candidates))
	if !ok {
		return plex.Metadata{}, false
	}
	return candidates[index], true
}

// parseChoice converts a 1-based answer into a 0-based index.
func parseChoice(answer string, count int) (int, bool) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return 0, false
	}
	for _, r := range answer {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > count {
		return 0, false
	}
	return n - 1, true
}

// RenderCandidates formats candidates as a rounded table with a 1-based index.
func RenderCandidates(candidates []plex.Metadata) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Title", "Year"})
	for i, item := range candidates {
		year := ""
		if item.Year != 0 {
			year = strconv.Itoa(item.Year)
		}
		tw.AppendRow(table.Row{i + 1, item.Title, year})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}
