package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/kirtan597/MoviesHub/internal/models"
)

// ErrFetchFailed is the single failure condition surfaced by the client.
// Transport errors and non-2xx responses are not distinguished; callers
// apply their own retry policy.
var ErrFetchFailed = errors.New("tmdb: fetch failed")

// tmdbRequestsPerSecond bounds outbound traffic to the TMDB API.
const tmdbRequestsPerSecond = 10

// Client is the TMDB API client. All list operations are normalized into
// the models.MoviePage envelope.
type Client struct {
	apiKey       string
	baseURL      string
	posterBase   string
	backdropBase string
	http         *http.Client
	limiter      *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithImageBases overrides the poster and backdrop base URLs.
func WithImageBases(poster, backdrop string) Option {
	return func(c *Client) {
		c.posterBase = poster
		c.backdropBase = backdrop
	}
}

// NewClient creates a new TMDB API client.
func NewClient(apiKey, baseURL string, opts ...Option) *Client {
	c := &Client{
		apiKey:       apiKey,
		baseURL:      baseURL,
		posterBase:   "https://image.tmdb.org/t/p/w500",
		backdropBase: "https://image.tmdb.org/t/p/w1280",
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
		limiter: rate.NewLimiter(tmdbRequestsPerSecond, 2*tmdbRequestsPerSecond),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PosterURL composes a full poster image URL from a path fragment.
func (c *Client) PosterURL(path string) string {
	if path == "" {
		return ""
	}
	return c.posterBase + path
}

// BackdropURL composes a full backdrop image URL from a path fragment.
func (c *Client) BackdropURL(path string) string {
	if path == "" {
		return ""
	}
	return c.backdropBase + path
}

// MoviesByCategory fetches one page of a category listing. The trending
// category is served by Trending with the default week window.
func (c *Client) MoviesByCategory(ctx context.Context, category models.Category, page int) (*models.MoviePage, error) {
	if page < 1 {
		return nil, fmt.Errorf("tmdb: page must be positive, got %d", page)
	}
	var path string
	switch category {
	case models.CategoryPopular:
		path = "/movie/popular"
	case models.CategoryTopRated:
		path = "/movie/top_rated"
	case models.CategoryUpcoming:
		path = "/movie/upcoming"
	case models.CategoryNowPlaying:
		path = "/movie/now_playing"
	case models.CategoryTrending:
		return c.Trending(ctx, models.TrendingWeek)
	default:
		return nil, fmt.Errorf("tmdb: unknown category %q", category)
	}

	return c.getPage(ctx, path, url.Values{"page": {fmt.Sprint(page)}})
}

// Trending fetches the trending listing. The upstream endpoint ignores
// paging, so the envelope is normalized to a single page and callers see
// no further pages.
func (c *Client) Trending(ctx context.Context, window models.TrendingWindow) (*models.MoviePage, error) {
	if window != models.TrendingDay && window != models.TrendingWeek {
		window = models.TrendingWeek
	}
	page, err := c.getPage(ctx, "/trending/movie/"+string(window), nil)
	if err != nil {
		return nil, err
	}
	page.Page = 1
	page.TotalPages = 1
	return page, nil
}

// MoviesByGenre fetches one page of the discover listing filtered to a
// genre. A non-positive genre id is a caller contract violation.
func (c *Client) MoviesByGenre(ctx context.Context, genreID, page int) (*models.MoviePage, error) {
	if genreID <= 0 {
		return nil, fmt.Errorf("tmdb: genre id must be positive, got %d", genreID)
	}
	if page < 1 {
		return nil, fmt.Errorf("tmdb: page must be positive, got %d", page)
	}
	return c.getPage(ctx, "/discover/movie", url.Values{
		"with_genres": {fmt.Sprint(genreID)},
		"sort_by":     {"popularity.desc"},
		"page":        {fmt.Sprint(page)},
	})
}

// SearchMovies fetches one page of free-text search results.
func (c *Client) SearchMovies(ctx context.Context, query string, page int) (*models.MoviePage, error) {
	if page < 1 {
		return nil, fmt.Errorf("tmdb: page must be positive, got %d", page)
	}
	return c.getPage(ctx, "/search/movie", url.Values{
		"query": {query},
		"page":  {fmt.Sprint(page)},
	})
}

// MovieDetail fetches detailed movie info, with credits, videos and
// similar titles appended in the same round trip.
func (c *Client) MovieDetail(ctx context.Context, movieID int) (*models.Movie, error) {
	resp, err := c.doGet(ctx, fmt.Sprintf("/movie/%d", movieID), url.Values{
		"append_to_response": {"credits,videos,similar"},
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var movie models.Movie
	if err := json.NewDecoder(resp.Body).Decode(&movie); err != nil {
		return nil, fmt.Errorf("%w: decode movie detail: %v", ErrFetchFailed, err)
	}
	return &movie, nil
}

// genreListResponse is the TMDB genre/movie/list response.
type genreListResponse struct {
	Genres []models.Genre `json:"genres"`
}

// GenreList fetches all movie genres.
func (c *Client) GenreList(ctx context.Context) ([]models.Genre, error) {
	resp, err := c.doGet(ctx, "/genre/movie/list", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result genreListResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: decode genre list: %v", ErrFetchFailed, err)
	}
	return result.Genres, nil
}

func (c *Client) getPage(ctx context.Context, path string, params url.Values) (*models.MoviePage, error) {
	resp, err := c.doGet(ctx, path, params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var page models.MoviePage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrFetchFailed, path, err)
	}
	return &page, nil
}

func (c *Client) doGet(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	u := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	slog.Debug("fetching TMDB", "path", path)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: status %d on %s", ErrFetchFailed, resp.StatusCode, path)
	}
	return resp, nil
}
