package plex

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Metadata is the subset of a Plex library item plexdate reads and edits.
type Metadata struct {
	RatingKey  string
	Type       string
	Title      string
	Year       int // zero when Plex reports no year
	AddedAt    time.Time
	SectionKey string
}

// Section is a library section bound to the client that fetched it.
type Section struct {
	Key   string
	Title string
	Type  string

	client *Client
}

// metadata type numbers used by the section endpoints.
var searchTypes = map[string]int{
	"movie":   1,
	"show":    2,
	"season":  3,
	"episode": 4,
	"artist":  8,
	"album":   9,
	"track":   10,
	"photo":   13,
}

// Section finds a library section by title, ignoring case. A missing section
// yields an error wrapping ErrNotFound.
func (c *Client) Section(ctx context.Context, name string) (*Section, error) {
	var container struct {
		Directories []struct {
			Key   string `xml:"key,attr"`
			Title string `xml:"title,attr"`
			Type  string `xml:"type,attr"`
		} `xml:"Directory"`
	}
	if err := c.do(ctx, http.MethodGet, "/library/sections", nil, &container); err != nil {
		return nil, fmt.Errorf("list plex sections: %w", err)
	}

	want := strings.TrimSpace(name)
	for _, dir := range container.Directories {
		if dir.Key == "" || !strings.EqualFold(strings.TrimSpace(dir.Title), want) {
			continue
		}
		return &Section{Key: dir.Key, Title: dir.Title, Type: dir.Type, client: c}, nil
	}
	return nil, fmt.Errorf("library %q: %w", name, ErrNotFound)
}

// Search returns the section items whose title matches title as Plex
// interprets the filter (a substring match). Order is whatever Plex returns.
func (s *Section) Search(ctx context.Context, title string) ([]Metadata, error) {
	query := url.Values{}
	query.Set("title", title)
	if n, ok := searchTypes[s.Type]; ok {
		query.Set("type", strconv.Itoa(n))
	}

	var container metadataContainer
	path := fmt.Sprintf("/library/sections/%s/all", url.PathEscape(s.Key))
	if err := s.client.do(ctx, http.MethodGet, path, query, &container); err != nil {
		return nil, fmt.Errorf("search %q in library %q: %w", title, s.Title, err)
	}
	return container.items(s.Key), nil
}

// EditAddedAt sets and locks the added-at field of item.
func (s *Section) EditAddedAt(ctx context.Context, item Metadata, addedAt time.Time) error {
	if strings.TrimSpace(item.RatingKey) == "" {
		return fmt.Errorf("edit %q: missing rating key", item.Title)
	}
	itemType := item.Type
	if itemType == "" {
		itemType = s.Type
	}
	query := url.Values{}
	if n, ok := searchTypes[itemType]; ok {
		query.Set("type", strconv.Itoa(n))
	}
	query.Set("id", item.RatingKey)
	query.Set("addedAt.value", strconv.FormatInt(addedAt.Unix(), 10))
	query.Set("addedAt.locked", "1")

	sectionKey := item.SectionKey
	if sectionKey == "" {
		sectionKey = s.Key
	}
	path := fmt.Sprintf("/library/sections/%s/all", url.PathEscape(sectionKey))
	if err := s.client.do(ctx, http.MethodPut, path, query, nil); err != nil {
		return fmt.Errorf("edit added date of %q: %w", item.Title, err)
	}
	return nil
}

// Reload fetches the current state of item from the server.
func (s *Section) Reload(ctx context.Context, item Metadata) (Metadata, error) {
	var container metadataContainer
	path := "/library/metadata/" + url.PathEscape(item.RatingKey)
	if err := s.client.do(ctx, http.MethodGet, path, nil, &container); err != nil {
		return Metadata{}, fmt.Errorf("reload %q: %w", item.Title, err)
	}
	fallback := item.SectionKey
	if fallback == "" {
		fallback = s.Key
	}
	items := container.items(fallback)
	for _, candidate := range items {
		if candidate.RatingKey == item.RatingKey {
			return candidate, nil
		}
	}
	return Metadata{}, fmt.Errorf("reload %q: %w", item.Title, ErrNotFound)
}

type metadataContainer struct {
	LibrarySectionID string            `xml:"librarySectionID,attr"`
	Elements         []metadataElement `xml:",any"`
}

type metadataElement struct {
	XMLName          xml.Name
	RatingKey        string `xml:"ratingKey,attr"`
	Type             string `xml:"type,attr"`
	Title            string `xml:"title,attr"`
	Year             int    `xml:"year,attr"`
	AddedAt          int64  `xml:"addedAt,attr"`
	LibrarySectionID string `xml:"librarySectionID,attr"`
}

func (c metadataContainer) items(fallbackSection string) []Metadata {
	items := make([]Metadata, 0, len(c.Elements))
	for _, el := range c.Elements {
		switch el.XMLName.Local {
		case "Video", "Directory", "Track", "Photo":
		default:
			continue
		}
		if el.RatingKey == "" {
			continue
		}
		section := el.LibrarySectionID
		if section == "" {
			section = c.LibrarySectionID
		}
		if section == "" {
			section = fallbackSection
		}
		var added time.Time
		if el.AddedAt > 0 {
			added = time.Unix(el.AddedAt, 0).In(time.Local)
		}
		items = append(items, Metadata{
			RatingKey:  el.RatingKey,
			Type:       el.Type,
			Title:      el.Title,
			Year:       el.Year,
			AddedAt:    added,
			SectionKey: section,
		})
	}
	return items
}
