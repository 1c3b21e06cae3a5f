// Package pagination holds the "load more" state of a post listing.
package pagination

import (
	"context"
	"errors"
	"sync"

	"spacetraveling/models"
)

var (
	// ErrNoMorePages is returned by LoadMore when there is no cursor left.
	ErrNoMorePages = errors.New("pagination: no more pages")
	// ErrLoadInProgress is returned by LoadMore while another load is outstanding.
	ErrLoadInProgress = errors.New("pagination: load already in progress")
)

// Page is one page of posts and the cursor to the next one. An empty Cursor
// means this is the last page.
type Page struct {
	Posts  []models.PostSummary
	Cursor string
}

// PageFetcher dereferences a cursor into the page it points to.
type PageFetcher interface {
	FetchPage(ctx context.Context, cursor string) (Page, error)
}

// Controller accumulates pages in display order. Posts are not deduplicated.
type Controller struct {
	fetcher PageFetcher

	mu      sync.Mutex
	posts   []models.PostSummary
	cursor  string
	loading bool
}

// New starts a listing from its first page.
func New(fetcher PageFetcher, first Page) *Controller {
	posts := make([]models.PostSummary, len(first.Posts))
	copy(posts, first.Posts)
	return &Controller{fetcher: fetcher, posts: posts, cursor: first.Cursor}
}

// Posts returns a copy of the posts loaded so far.
func (c *Controller) Posts() []models.PostSummary {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.PostSummary, len(c.posts))
	copy(out, c.posts)
	return out
}

// Cursor returns the current cursor, empty when pagination is over.
func (c *Controller) Cursor() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor
}

// CanLoadMore reports whether the "load more" affordance should be offered:
// a cursor is present and no load is outstanding.
func (c *Controller) CanLoadMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor != "" && !c.loading
}

// LoadMore fetches the page behind the cursor, appends its posts and replaces
// the cursor. On error the state is left untouched.
func (c *Controller) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	if c.cursor == "" {
		c.mu.Unlock()
		return ErrNoMorePages
	}
	if c.loading {
		c.mu.Unlock()
		return ErrLoadInProgress
	}
	c.loading = true
	cursor := c.cursor
	c.mu.Unlock()

	page, err := c.fetcher.FetchPage(ctx, cursor)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		return err
	}
	c.posts = append(c.posts, page.Posts...)
	c.cursor = page.Cursor
	return nil
}
