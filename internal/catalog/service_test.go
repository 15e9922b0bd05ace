package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirtan597/MoviesHub/internal/models"
	"github.com/kirtan597/MoviesHub/internal/tmdb"
)

func newService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewService(tmdb.NewClient("k", srv.URL), nil)
}

func TestTrendingCategoryRedirects(t *testing.T) {
	var path string
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_ = json.NewEncoder(w).Encode(models.MoviePage{
			Page: 1, Results: []models.Movie{{ID: 1}}, TotalPages: 500, TotalResults: 1,
		})
	})

	// The trending category maps onto the week trending endpoint, and
	// its envelope never reports further pages.
	page, err := svc.MoviesByCategory(context.Background(), models.CategoryTrending, 7)
	require.NoError(t, err)
	assert.Equal(t, "/trending/movie/week", path)
	assert.Equal(t, 1, page.TotalPages)
}

func TestServiceRunsUncachedWithoutRedis(t *testing.T) {
	calls := 0
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		_ = json.NewEncoder(w).Encode(map[string]any{"genres": []models.Genre{{ID: 28, Name: "Action"}}})
	})

	for i := 0; i < 2; i++ {
		genres, err := svc.GenreList(context.Background())
		require.NoError(t, err)
		require.Len(t, genres, 1)
	}
	// No cache layer: each call reaches the upstream.
	assert.Equal(t, 2, calls)
}

func TestImageHelpersPassThrough(t *testing.T) {
	svc := NewService(tmdb.NewClient("k", "http://unused.invalid"), nil)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/a.jpg", svc.PosterURL("/a.jpg"))
	assert.Equal(t, "https://image.tmdb.org/t/p/w1280/a.jpg", svc.BackdropURL("/a.jpg"))
}
