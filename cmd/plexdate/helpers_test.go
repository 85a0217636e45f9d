package main

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"
)

const testToken = "test-token"

type fakeItem struct {
	RatingKey string
	Title     string
	Year      int
	AddedAt   int64
}

var sectionPath = regexp.MustCompile(`^/library/sections/([12])/all$`)

// fakePlex serves the handful of endpoints plexdate calls. Sections "Movies"
// (key 1) and "Films" (key 2) share the same items.
type fakePlex struct {
	mu    sync.Mutex
	items []fakeItem
	edits int
	srv   *httptest.Server
}

func newFakePlex(t *testing.T, items ...fakeItem) *fakePlex {
	t.Helper()
	f := &fakePlex{items: items}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakePlex) URL() string { return f.srv.URL }

func (f *fakePlex) Edits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.edits
}

func (f *fakePlex) AddedAt(ratingKey string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range f.items {
		if item.RatingKey == ratingKey {
			return item.AddedAt
		}
	}
	return 0
}

func (f *fakePlex) serve(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("X-Plex-Token") != testToken {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.URL.Path == "/":
		_, _ = w.Write([]byte(`<MediaContainer friendlyName="Basement" machineIdentifier="m1" version="1.40.0"/>`))
	case r.URL.Path == "/library/sections":
		_, _ = w.Write([]byte(`<MediaContainer><Directory key="1" type="movie" title="Movies"/><Directory key="2" type="movie" title="Films"/></MediaContainer>`))
	case sectionPath.MatchString(r.URL.Path) && r.Method == http.MethodGet:
		needle := strings.ToLower(r.URL.Query().Get("title"))
		var matched []fakeItem
		for _, item := range f.items {
			if strings.Contains(strings.ToLower(item.Title), needle) {
				matched = append(matched, item)
			}
		}
		f.writeItems(w, sectionPath.FindStringSubmatch(r.URL.Path)[1], matched)
	case sectionPath.MatchString(r.URL.Path) && r.Method == http.MethodPut:
		value, err := strconv.ParseInt(r.URL.Query().Get("addedAt.value"), 10, 64)
		if err != nil {
			http.Error(w, "bad value", http.StatusBadRequest)
			return
		}
		for i := range f.items {
			if f.items[i].RatingKey == r.URL.Query().Get("id") {
				f.items[i].AddedAt = value
				f.edits++
			}
		}
	case strings.HasPrefix(r.URL.Path, "/library/metadata/"):
		key := strings.TrimPrefix(r.URL.Path, "/library/metadata/")
		for _, item := range f.items {
			if item.RatingKey == key {
				f.writeItems(w, "1", []fakeItem{item})
				return
			}
		}
		http.NotFound(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakePlex) writeItems(w http.ResponseWriter, section string, items []fakeItem) {
	var b strings.Builder
	fmt.Fprintf(&b, `<MediaContainer librarySectionID=%q>`, section)
	for _, item := range items {
		fmt.Fprintf(&b, `<Video ratingKey=%q type="movie" title="%s" year="%d" addedAt="%d"/>`,
			item.RatingKey, xmlEscape(item.Title), item.Year, item.AddedAt)
	}
	b.WriteString(`</MediaContainer>`)
	_, _ = w.Write([]byte(b.String()))
}

func xmlEscape(s string) string {
	var b bytes.Buffer
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// writeConfig writes a config pointing at serverURL and returns its path.
func writeConfig(t *testing.T, serverURL, token string) string {
	t.Helper()
	base := t.TempDir()
	t.Setenv("HOME", base)
	t.Setenv("PLEX_URL", "")
	t.Setenv("PLEX_TOKEN", "")
	content := fmt.Sprintf("[plex]\nurl = %q\ntoken = %q\n\n[paths]\nstate_dir = %q\n\n[logging]\nformat = \"console\"\nlevel = \"info\"\n",
		serverURL, token, filepath.Join(base, "state"))
	path := filepath.Join(base, "plexdate.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args []string, configPath, stdin string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireNotContains(t *testing.T, output, substr string) {
	t.Helper()
	if strings.Contains(output, substr) {
		t.Fatalf("expected %q not to contain %q", output, substr)
	}
}
