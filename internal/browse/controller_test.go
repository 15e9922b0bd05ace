package browse

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirtan597/MoviesHub/internal/models"
)

// fakeCatalog serves synthetic pages and records every call. When
// blockOn matches a category, calls for it park until release is closed.
type fakeCatalog struct {
	mu         sync.Mutex
	calls      []string
	totalPages int
	pageSize   int
	err        error
	blockOn    models.Category
	release    chan struct{}
}

func newFakeCatalog(totalPages, pageSize int) *fakeCatalog {
	return &fakeCatalog{totalPages: totalPages, pageSize: pageSize}
}

func (f *fakeCatalog) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeCatalog) page(prefix string, pageNum int) *models.MoviePage {
	results := make([]models.Movie, f.pageSize)
	for i := range results {
		id := (pageNum-1)*f.pageSize + i + 1
		results[i] = models.Movie{ID: id, Title: fmt.Sprintf("%s #%d", prefix, id)}
	}
	return &models.MoviePage{
		Page:         pageNum,
		Results:      results,
		TotalPages:   f.totalPages,
		TotalResults: f.totalPages * f.pageSize,
	}
}

func (f *fakeCatalog) MoviesByCategory(_ context.Context, category models.Category, pageNum int) (*models.MoviePage, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fmt.Sprintf("%s:%d", category, pageNum))
	block := f.blockOn == category
	release := f.release
	err := f.err
	f.mu.Unlock()

	if block {
		<-release
	}
	if err != nil {
		return nil, err
	}
	return f.page(string(category), pageNum), nil
}

func (f *fakeCatalog) MoviesByGenre(_ context.Context, genreID, pageNum int) (*models.MoviePage, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fmt.Sprintf("genre%d:%d", genreID, pageNum))
	err := f.err
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return f.page(fmt.Sprintf("genre %d", genreID), pageNum), nil
}

func TestRefreshLoadsFirstPage(t *testing.T) {
	fake := newFakeCatalog(10, 20)
	ctrl := NewController(fake, Key{Category: models.CategoryPopular}, DefaultMaxPage)

	snap := ctrl.Refresh(context.Background())

	require.Empty(t, snap.Error)
	assert.Equal(t, 1, snap.Page)
	assert.Len(t, snap.Movies, 20)
	assert.True(t, snap.HasMore)
	assert.False(t, snap.Loading)
}

func TestLoadMoreAppendsUntilExhausted(t *testing.T) {
	fake := newFakeCatalog(10, 20)
	ctrl := NewController(fake, Key{Category: models.CategoryPopular}, DefaultMaxPage)
	ctx := context.Background()

	ctrl.Refresh(ctx)
	for i := 0; i < 9; i++ {
		ctrl.LoadMore(ctx)
	}

	snap := ctrl.Snapshot()
	assert.Len(t, snap.Movies, 200)
	assert.Equal(t, 10, snap.Page)
	assert.False(t, snap.HasMore)

	// Exhausted: a further LoadMore is a no-op with no network call.
	before := fake.callCount()
	snap = ctrl.LoadMore(ctx)
	assert.Len(t, snap.Movies, 200)
	assert.Equal(t, before, fake.callCount())
}

func TestRefreshResetsAccumulatedState(t *testing.T) {
	fake := newFakeCatalog(10, 20)
	ctrl := NewController(fake, Key{Category: models.CategoryPopular}, DefaultMaxPage)
	ctx := context.Background()

	ctrl.Refresh(ctx)
	ctrl.LoadMore(ctx)
	ctrl.LoadMore(ctx)
	require.Len(t, ctrl.Snapshot().Movies, 60)

	snap := ctrl.Refresh(ctx)
	assert.Len(t, snap.Movies, 20)
	assert.Equal(t, 1, snap.Page)
}

func TestLoadMoreNoOpWhileLoading(t *testing.T) {
	fake := newFakeCatalog(10, 20)
	ctrl := NewController(fake, Key{Category: models.CategoryPopular}, DefaultMaxPage)
	ctx := context.Background()

	ctrl.Refresh(ctx)

	fake.mu.Lock()
	fake.blockOn = models.CategoryPopular
	fake.release = make(chan struct{})
	fake.mu.Unlock()

	done := make(chan Snapshot)
	go func() {
		done <- ctrl.LoadMore(ctx)
	}()

	require.Eventually(t, func() bool { return fake.callCount() == 2 }, time.Second, time.Millisecond)

	// Second trigger while the fetch is in flight: no state change, no call.
	snap := ctrl.LoadMore(ctx)
	assert.True(t, snap.Loading)
	assert.Len(t, snap.Movies, 20)
	assert.Equal(t, 2, fake.callCount())

	close(fake.release)
	final := <-done
	assert.Len(t, final.Movies, 40)
}

func TestErrorIsStickyUntilRefresh(t *testing.T) {
	fake := newFakeCatalog(10, 20)
	ctrl := NewController(fake, Key{Category: models.CategoryPopular}, DefaultMaxPage)
	ctx := context.Background()

	ctrl.Refresh(ctx)

	fake.mu.Lock()
	fake.err = errors.New("boom")
	fake.mu.Unlock()

	snap := ctrl.LoadMore(ctx)
	require.NotEmpty(t, snap.Error)
	assert.False(t, snap.HasMore)

	// Sticky: LoadMore from the error state does not fetch.
	before := fake.callCount()
	ctrl.LoadMore(ctx)
	assert.Equal(t, before, fake.callCount())

	// Refresh clears the error and reloads page 1.
	fake.mu.Lock()
	fake.err = nil
	fake.mu.Unlock()

	snap = ctrl.Refresh(ctx)
	assert.Empty(t, snap.Error)
	assert.Len(t, snap.Movies, 20)
}

func TestPageLimitReached(t *testing.T) {
	fake := newFakeCatalog(1000, 5)
	ctrl := NewController(fake, Key{Category: models.CategoryPopular}, 3)
	ctx := context.Background()

	ctrl.Refresh(ctx)
	ctrl.LoadMore(ctx)
	ctrl.LoadMore(ctx)
	require.Equal(t, 3, ctrl.Snapshot().Page)

	before := fake.callCount()
	snap := ctrl.LoadMore(ctx)
	assert.Equal(t, ErrPageLimit.Error(), snap.Error)
	assert.Equal(t, before, fake.callCount())
}

func TestDuplicateIDsAcrossPagesAreDropped(t *testing.T) {
	overlapping := &overlappingCatalog{}
	ctrl := NewController(overlapping, Key{Category: models.CategoryPopular}, DefaultMaxPage)
	ctx := context.Background()

	ctrl.Refresh(ctx)
	snap := ctrl.LoadMore(ctx)

	// Page 2 repeats id 2 from page 1; only one copy survives.
	require.Len(t, snap.Movies, 3)
	ids := []int{snap.Movies[0].ID, snap.Movies[1].ID, snap.Movies[2].ID}
	assert.Equal(t, []int{1, 2, 3}, ids)
}

// overlappingCatalog returns pages that share a movie id.
type overlappingCatalog struct{}

func (o *overlappingCatalog) MoviesByCategory(_ context.Context, _ models.Category, pageNum int) (*models.MoviePage, error) {
	pages := map[int][]models.Movie{
		1: {{ID: 1, Title: "one"}, {ID: 2, Title: "two"}},
		2: {{ID: 2, Title: "two again"}, {ID: 3, Title: "three"}},
	}
	return &models.MoviePage{Page: pageNum, Results: pages[pageNum], TotalPages: 2, TotalResults: 4}, nil
}

func (o *overlappingCatalog) MoviesByGenre(context.Context, int, int) (*models.MoviePage, error) {
	return nil, errors.New("not used")
}

func TestKeyChangeDropsInFlightResponse(t *testing.T) {
	fake := newFakeCatalog(10, 20)
	fake.blockOn = models.CategoryPopular
	fake.release = make(chan struct{})
	ctrl := NewController(fake, Key{Category: models.CategoryPopular}, DefaultMaxPage)
	ctx := context.Background()

	done := make(chan Snapshot)
	go func() {
		done <- ctrl.Refresh(ctx)
	}()
	require.Eventually(t, func() bool { return fake.callCount() == 1 }, time.Second, time.Millisecond)

	// Switch keys while the popular fetch is parked.
	snap := ctrl.SetKey(ctx, Key{Category: models.CategoryTopRated})
	require.Empty(t, snap.Error)
	require.Len(t, snap.Movies, 20)
	assert.Contains(t, snap.Movies[0].Title, "top_rated")

	// Release the stale response; it must not leak into the new key.
	close(fake.release)
	<-done

	final := ctrl.Snapshot()
	assert.Len(t, final.Movies, 20)
	for _, m := range final.Movies {
		assert.Contains(t, m.Title, "top_rated")
	}
}

func TestGenreCategoryRequiresGenreID(t *testing.T) {
	fake := newFakeCatalog(10, 20)
	ctrl := NewController(fake, Key{Category: models.CategoryGenre}, DefaultMaxPage)

	snap := ctrl.Refresh(context.Background())
	assert.NotEmpty(t, snap.Error)
	assert.Zero(t, fake.callCount())
}

func TestManagerReusesControllers(t *testing.T) {
	fake := newFakeCatalog(10, 20)
	mgr := NewManager(fake, DefaultMaxPage)

	a, existed := mgr.Get(Key{Category: models.CategoryPopular})
	assert.False(t, existed)
	b, existed := mgr.Get(Key{Category: models.CategoryPopular})
	assert.True(t, existed)
	assert.Same(t, a, b)

	c, existed := mgr.Get(Key{Category: models.CategoryGenre, GenreID: 28})
	assert.False(t, existed)
	assert.NotSame(t, a, c)
}
