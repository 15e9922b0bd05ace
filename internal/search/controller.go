// Package search converts free-text input into debounced catalog
// queries, discarding responses that no longer match the live query.
package search

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/kirtan597/MoviesHub/internal/models"
)

// DefaultDebounce is the quiescence window after the last keystroke
// before a query actually fires.
const DefaultDebounce = 300 * time.Millisecond

// Catalog is the slice of the remote client the controller needs.
type Catalog interface {
	SearchMovies(ctx context.Context, query string, page int) (*models.MoviePage, error)
}

// Snapshot is a point-in-time copy of the search state for rendering.
type Snapshot struct {
	Query   string         `json:"query"`
	Results []models.Movie `json:"results"`
	Loading bool           `json:"loading"`
	Error   string         `json:"error,omitempty"`
}

// Controller owns the state for one live query string.
//
// Every SetQuery restarts the debounce timer; only the query current
// when the timer elapses fires a request. A response is applied only if
// its query still equals the live query, so a slow response for an old
// keystroke can never overwrite results for a newer one.
type Controller struct {
	catalog  Catalog
	debounce time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	query   string
	results []models.Movie
	loading bool
	err     error
	closed  bool
}

// NewController creates a search controller. A non-positive debounce
// falls back to the default.
func NewController(catalog Catalog, debounce time.Duration) *Controller {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Controller{
		catalog:  catalog,
		debounce: debounce,
	}
}

// SetQuery updates the live query and restarts the debounce timer. A
// whitespace-only query clears results, loading and error immediately
// with no network call.
func (c *Controller) SetQuery(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.query = query

	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}

	if strings.TrimSpace(query) == "" {
		c.results = nil
		c.loading = false
		c.err = nil
		return
	}

	c.timer = time.AfterFunc(c.debounce, func() {
		c.fire(query)
	})
}

// Clear resets the controller to the empty query.
func (c *Controller) Clear() {
	c.SetQuery("")
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		Query:   c.query,
		Results: make([]models.Movie, len(c.results)),
		Loading: c.loading,
	}
	copy(snap.Results, c.results)
	if c.err != nil {
		snap.Error = c.err.Error()
	}
	return snap
}

// Close cancels any pending debounce timer. Responses already in flight
// are dropped by the usual staleness check.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// fire runs after the debounce window for the given query.
func (c *Controller) fire(query string) {
	c.mu.Lock()
	if c.closed || query != c.query {
		c.mu.Unlock()
		return
	}
	c.loading = true
	c.err = nil
	c.mu.Unlock()

	page, err := c.catalog.SearchMovies(context.Background(), query, 1)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || query != c.query {
		// Superseded while in flight; drop silently.
		return
	}
	c.loading = false

	if err != nil {
		c.err = err
		c.results = nil
		return
	}
	c.results = page.Results
	c.err = nil
}
