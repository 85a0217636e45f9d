package testsupport

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"plexdate/internal/services/plex"
)

// Catalog is an in-memory library section. Search does a case-insensitive
// substring match like Plex's title filter; edits are applied in place and
// recorded.
type Catalog struct {
	mu      sync.Mutex
	items   []plex.Metadata
	Edits   []Edit
	Reloads []string
	Queries []string

	SearchErr error
	EditErr   error
	ReloadErr error
}

// Edit is one recorded EditAddedAt call.
type Edit struct {
	RatingKey string
	AddedAt   time.Time
}

// NewCatalog seeds a catalog with items. Items without a rating key get one.
func NewCatalog(items ...plex.Metadata) *Catalog {
	c := &Catalog{}
	for i, item := range items {
		if item.RatingKey == "" {
			item.RatingKey = fmt.Sprintf("rk-%d", i+1)
		}
		c.items = append(c.items, item)
	}
	return c
}

func (c *Catalog) Search(_ context.Context, title string) ([]plex.Metadata, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Queries = append(c.Queries, title)
	if c.SearchErr != nil {
		return nil, c.SearchErr
	}
	var out []plex.Metadata
	needle := strings.ToLower(title)
	for _, item := range c.items {
		if strings.Contains(strings.ToLower(item.Title), needle) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (c *Catalog) EditAddedAt(_ context.Context, item plex.Metadata, addedAt time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.EditErr != nil {
		return c.EditErr
	}
	c.Edits = append(c.Edits, Edit{RatingKey: item.RatingKey, AddedAt: addedAt})
	for i := range c.items {
		if c.items[i].RatingKey == item.RatingKey {
			c.items[i].AddedAt = addedAt
		}
	}
	return nil
}

func (c *Catalog) Reload(_ context.Context, item plex.Metadata) (plex.Metadata, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Reloads = append(c.Reloads, item.RatingKey)
	if c.ReloadErr != nil {
		return plex.Metadata{}, c.ReloadErr
	}
	for _, candidate := range c.items {
		if candidate.RatingKey == item.RatingKey {
			return candidate, nil
		}
	}
	return plex.Metadata{}, plex.ErrNotFound
}

// Item returns the current state of the item with ratingKey.
func (c *Catalog) Item(ratingKey string) (plex.Metadata, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.items {
		if item.RatingKey == ratingKey {
			return item, true
		}
	}
	return plex.Metadata{}, false
}
