package updater

import (
	"strconv"
	"strings"
	"time"

	"plexdate/internal/addeddate"
)

// UndoRecord captures an item's state before its added date was changed.
type UndoRecord struct {
	Title   string
	AddedAt time.Time
	Year    int
}

// Args returns the flags that restore the recorded state.
func (u UndoRecord) Args() []string {
	args := []string{"--title", u.Title, "--date", addeddate.Format(u.AddedAt)}
	if u.Year != 0 {
		args = append(args, "--year", strconv.Itoa(u.Year))
	}
	return args
}

// Command renders a shell-pasteable invocation of program with the restore
// flags followed by extra.
func (u UndoRecord) Command(program string, extra ...string) string {
	parts := []string{program}
	for _, arg := range append(u.Args(), extra...) {
		parts = append(parts, shellQuote(arg))
	}
	return strings.Join(parts, " ")
}

func shellQuote(s string) string {
	if s != "" && strings.IndexFunc(s, needsQuoting) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func needsQuoting(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	}
	return !strings.ContainsRune("-_./:=,+@%", r)
}
