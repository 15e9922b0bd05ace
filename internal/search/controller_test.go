package search

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

const testDebounce = 20 * time.Millisecond

// fakeSearcher records queries and can park individual queries until
// released, to force out-of-order completions.
type fakeSearcher struct {
	mu      sync.Mutex
	queries []string
	parked  map[string]chan struct{}
	started map[string]chan struct{}
	err     error
}

func newFakeSearcher() *fakeSearcher {
	return &fakeSearcher{
		parked:  make(map[string]chan struct{}),
		started: make(map[string]chan struct{}),
	}
}

// park makes the given query block until the returned func is called.
// started reports when the request is actually in flight.
func (f *fakeSearcher) park(query string) (started chan struct{}, release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	gate := make(chan struct{})
	f.parked[query] = gate
	f.started[query] = make(chan struct{}, 1)
	return f.started[query], func() { close(gate) }
}

func (f *fakeSearcher) SearchMovies(_ context.Context, query string, _ int) (*models.MoviePage, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	gate := f.parked[query]
	started := f.started[query]
	err := f.err
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return &models.MoviePage{
		Page:         1,
		Results:      []models.Movie{{ID: len(query), Title: fmt.Sprintf("result for %q", query)}},
		TotalPages:   1,
		TotalResults: 1,
	}, nil
}

func (f *fakeSearcher) queryLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.queries))
	copy(out, f.queries)
	return out
}

func TestDebounceCoalescesKeystrokes(t *testing.T) {
	fake := newFakeSearcher()
	ctrl := NewController(fake, testDebounce)
	defer ctrl.Close()

	// Two keystrokes inside one debounce window fire a single request.
	ctrl.SetQuery("bat")
	ctrl.SetQuery("batman")

	require.Eventually(t, func() bool {
		snap := ctrl.Snapshot()
		return !snap.Loading && len(snap.Results) == 1
	}, time.Second, time.Millisecond)

	assert.Equal(t, []string{"batman"}, fake.queryLog())
	assert.Equal(t, `result for "batman"`, ctrl.Snapshot().Results[0].Title)
}

func TestEmptyQueryShortCircuits(t *testing.T) {
	fake := newFakeSearcher()
	ctrl := NewController(fake, testDebounce)
	defer ctrl.Close()

	ctrl.SetQuery("   ")
	snap := ctrl.Snapshot()
	assert.Empty(t, snap.Results)
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Error)

	// No request fires even after the debounce window.
	time.Sleep(3 * testDebounce)
	assert.Empty(t, fake.queryLog())
}

func TestClearCancelsPendingQuery(t *testing.T) {
	fake := newFakeSearcher()
	ctrl := NewController(fake, testDebounce)
	defer ctrl.Close()

	ctrl.SetQuery("inter")
	ctrl.Clear()

	time.Sleep(3 * testDebounce)
	assert.Empty(t, fake.queryLog())
	assert.Empty(t, ctrl.Snapshot().Query)
}

func TestStaleResponseIsDropped(t *testing.T) {
	fake := newFakeSearcher()
	ctrl := NewController(fake, time.Millisecond)
	defer ctrl.Close()

	started, release := fake.park("a")

	ctrl.SetQuery("a")
	<-started // request for "a" is in flight

	// A newer query fires and completes while "a" is still pending.
	ctrl.SetQuery("ab")
	require.Eventually(t, func() bool {
		snap := ctrl.Snapshot()
		return len(snap.Results) == 1 && snap.Results[0].ID == 2
	}, time.Second, time.Millisecond)

	// The slow "a" response resolves last and must be ignored.
	release()
	time.Sleep(20 * time.Millisecond)

	snap := ctrl.Snapshot()
	require.Len(t, snap.Results, 1)
	assert.Equal(t, `result for "ab"`, snap.Results[0].Title)
	assert.False(t, snap.Loading)
}

func TestSearchFailureSetsErrorAndEmptyResults(t *testing.T) {
	fake := newFakeSearcher()
	fake.err = errors.New("boom")
	ctrl := NewController(fake, time.Millisecond)
	defer ctrl.Close()

	ctrl.SetQuery("dune")
	require.Eventually(t, func() bool {
		return ctrl.Snapshot().Error != ""
	}, time.Second, time.Millisecond)

	snap := ctrl.Snapshot()
	assert.Empty(t, snap.Results)
	assert.False(t, snap.Loading)

	// A later successful query recovers.
	fake.mu.Lock()
	fake.err = nil
	fake.mu.Unlock()

	ctrl.SetQuery("dune 2")
	require.Eventually(t, func() bool {
		snap := ctrl.Snapshot()
		return snap.Error == "" && len(snap.Results) == 1
	}, time.Second, time.Millisecond)
}

func TestCloseStopsPendingTimer(t *testing.T) {
	fake := newFakeSearcher()
	ctrl := NewController(fake, testDebounce)

	ctrl.SetQuery("tenet")
	ctrl.Close()

	time.Sleep(3 * testDebounce)
	assert.Empty(t, fake.queryLog())
}
