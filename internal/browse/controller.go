// Package browse drives incremental loading of one catalog listing: a
// (category, genre id) key with accumulated results, paging state and a
// sticky error.
package browse

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kirtan597/MoviesHub/internal/models"
)

// ErrPageLimit marks the hard pagination cap: the controller stops
// requesting further pages even if the remote total_pages claims more.
var ErrPageLimit = errors.New("browse: page limit reached")

// DefaultMaxPage bounds pagination so a malformed total_pages cannot
// drive unbounded fetching.
const DefaultMaxPage = 500

// Catalog is the slice of the remote client the controller needs.
type Catalog interface {
	MoviesByCategory(ctx context.Context, category models.Category, page int) (*models.MoviePage, error)
	MoviesByGenre(ctx context.Context, genreID, page int) (*models.MoviePage, error)
}

// Key identifies one listing. GenreID is meaningful only for the genre
// category.
type Key struct {
	Category models.Category
	GenreID  int
}

// Snapshot is a point-in-time copy of the controller state for rendering.
type Snapshot struct {
	Movies  []models.Movie `json:"movies"`
	Page    int            `json:"page"`
	Loading bool           `json:"loading"`
	HasMore bool           `json:"has_more"`
	Error   string         `json:"error,omitempty"`
}

// Controller owns the list state for one key.
//
// The mutex is released around catalog calls, so a concurrent LoadMore
// observes loading=true and no-ops instead of firing a duplicate fetch.
// Responses carry the epoch current when the fetch started; Refresh and
// SetKey bump the epoch, so a late response for a superseded key or
// generation is dropped instead of applied.
type Controller struct {
	catalog Catalog
	maxPage int

	mu         sync.Mutex
	key        Key
	epoch      uint64
	movies     []models.Movie
	seen       map[int]struct{}
	page       int
	totalPages int
	loading    bool
	err        error
}

// NewController creates a controller for the given key. No fetch happens
// until Refresh is called.
func NewController(catalog Catalog, key Key, maxPage int) *Controller {
	if maxPage < 1 {
		maxPage = DefaultMaxPage
	}
	return &Controller{
		catalog: catalog,
		maxPage: maxPage,
		key:     key,
		seen:    make(map[int]struct{}),
	}
}

// Key returns the listing key.
func (c *Controller) Key() Key {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.key
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		Movies:  make([]models.Movie, len(c.movies)),
		Page:    c.page,
		Loading: c.loading,
		HasMore: c.hasMoreLocked(),
	}
	copy(snap.Movies, c.movies)
	if c.err != nil {
		snap.Error = c.err.Error()
	}
	return snap
}

func (c *Controller) hasMoreLocked() bool {
	return c.page > 0 && c.page < c.totalPages && c.err == nil
}

// Refresh discards all accumulated state and loads page 1. It also
// clears a sticky error, making it the manual retry affordance.
func (c *Controller) Refresh(ctx context.Context) Snapshot {
	c.mu.Lock()
	c.epoch++
	c.movies = nil
	c.seen = make(map[int]struct{})
	c.page = 0
	c.totalPages = 0
	c.err = nil
	// A fetch still in flight belongs to the old epoch now; releasing
	// the loading flag lets the new generation start immediately.
	c.loading = false
	c.mu.Unlock()

	return c.fetch(ctx, 1)
}

// SetKey switches the controller to a new key, fully resetting state.
// An in-flight fetch for the old key is dropped when it resolves. A
// call with the current key is a no-op.
func (c *Controller) SetKey(ctx context.Context, key Key) Snapshot {
	c.mu.Lock()
	if key == c.key {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap
	}
	c.key = key
	c.mu.Unlock()

	return c.Refresh(ctx)
}

// LoadMore appends the next page. It is a no-op while loading, when
// there are no further pages, or in a sticky error state; duplicate
// triggers from rapid scrolling are therefore harmless.
func (c *Controller) LoadMore(ctx context.Context) Snapshot {
	c.mu.Lock()
	if c.loading || c.err != nil || !c.hasMoreLocked() {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap
	}
	next := c.page + 1
	if next > c.maxPage {
		c.err = ErrPageLimit
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap
	}
	c.mu.Unlock()

	return c.fetch(ctx, next)
}

// fetch loads one page and applies it unless the controller moved on.
func (c *Controller) fetch(ctx context.Context, page int) Snapshot {
	c.mu.Lock()
	if c.loading {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap
	}
	c.loading = true
	epoch := c.epoch
	key := c.key
	c.mu.Unlock()

	result, err := c.load(ctx, key, page)

	c.mu.Lock()
	defer c.mu.Unlock()

	if epoch != c.epoch {
		// Key or generation changed while the request was in flight;
		// the response belongs to state that no longer exists. The
		// loading flag is not touched either: it is owned by the
		// current generation now.
		return c.snapshotLocked()
	}
	c.loading = false

	if err != nil {
		c.err = err
		return c.snapshotLocked()
	}

	if page == 1 {
		c.movies = nil
		c.seen = make(map[int]struct{})
	}
	for _, m := range result.Results {
		if _, dup := c.seen[m.ID]; dup {
			continue
		}
		c.seen[m.ID] = struct{}{}
		c.movies = append(c.movies, m)
	}
	c.page = result.Page
	if c.page == 0 {
		c.page = page
	}
	c.totalPages = result.TotalPages

	return c.snapshotLocked()
}

func (c *Controller) load(ctx context.Context, key Key, page int) (*models.MoviePage, error) {
	if key.Category == models.CategoryGenre {
		if key.GenreID <= 0 {
			return nil, fmt.Errorf("browse: genre id is required for the genre category")
		}
		return c.catalog.MoviesByGenre(ctx, key.GenreID, page)
	}
	return c.catalog.MoviesByCategory(ctx, key.Category, page)
}
