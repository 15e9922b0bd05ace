// Package catalog wraps the TMDB client with session-scoped caching.
// Paginated listing calls pass through uncached; genre, detail and
// trending responses are cached in Redis when it is available.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kirtan597/MoviesHub/internal/models"
	"github.com/kirtan597/MoviesHub/internal/tmdb"
)

const (
	genreListCacheTTL   = 24 * time.Hour
	movieDetailCacheTTL = 30 * time.Minute
	trendingCacheTTL    = 5 * time.Minute
)

// Service is the catalog facade consumed by the controllers and the
// HTTP surface. A nil redis client disables caching without changing
// behavior.
type Service struct {
	client *tmdb.Client
	redis  *redis.Client
}

// NewService creates a catalog service. rdb may be nil.
func NewService(client *tmdb.Client, rdb *redis.Client) *Service {
	return &Service{client: client, redis: rdb}
}

// MoviesByCategory fetches one page of a category listing, uncached.
func (s *Service) MoviesByCategory(ctx context.Context, category models.Category, page int) (*models.MoviePage, error) {
	if category == models.CategoryTrending {
		return s.Trending(ctx, models.TrendingWeek)
	}
	return s.client.MoviesByCategory(ctx, category, page)
}

// MoviesByGenre fetches one page of a genre listing, uncached.
func (s *Service) MoviesByGenre(ctx context.Context, genreID, page int) (*models.MoviePage, error) {
	return s.client.MoviesByGenre(ctx, genreID, page)
}

// SearchMovies fetches one page of search results, uncached.
func (s *Service) SearchMovies(ctx context.Context, query string, page int) (*models.MoviePage, error) {
	return s.client.SearchMovies(ctx, query, page)
}

// Trending returns the trending listing for the window.
func (s *Service) Trending(ctx context.Context, window models.TrendingWindow) (*models.MoviePage, error) {
	cacheKey := fmt.Sprintf("catalog:trending:%s", window)
	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		var page models.MoviePage
		if json.Unmarshal([]byte(cached), &page) == nil {
			slog.Debug("cache hit", "key", cacheKey)
			return &page, nil
		}
	}

	page, err := s.client.Trending(ctx, window)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(page); err == nil {
		s.setCache(ctx, cacheKey, string(data), trendingCacheTTL)
	}
	return page, nil
}

// MovieDetail returns detailed movie info with credits, videos and
// similar titles.
func (s *Service) MovieDetail(ctx context.Context, movieID int) (*models.Movie, error) {
	cacheKey := fmt.Sprintf("catalog:detail:%d", movieID)
	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		var movie models.Movie
		if json.Unmarshal([]byte(cached), &movie) == nil {
			slog.Debug("cache hit", "key", cacheKey)
			return &movie, nil
		}
	}

	movie, err := s.client.MovieDetail(ctx, movieID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(movie); err == nil {
		s.setCache(ctx, cacheKey, string(data), movieDetailCacheTTL)
	}
	return movie, nil
}

// GenreList returns all movie genres, cached for the session.
func (s *Service) GenreList(ctx context.Context) ([]models.Genre, error) {
	const cacheKey = "catalog:genres"
	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		var genres []models.Genre
		if json.Unmarshal([]byte(cached), &genres) == nil {
			slog.Debug("cache hit", "key", cacheKey)
			return genres, nil
		}
	}

	genres, err := s.client.GenreList(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(genres); err == nil {
		s.setCache(ctx, cacheKey, string(data), genreListCacheTTL)
	}
	return genres, nil
}

// PosterURL composes a full poster image URL from a path fragment.
func (s *Service) PosterURL(path string) string {
	return s.client.PosterURL(path)
}

// BackdropURL composes a full backdrop image URL from a path fragment.
func (s *Service) BackdropURL(path string) string {
	return s.client.BackdropURL(path)
}

// ---- Redis Helpers ----

func (s *Service) getFromCache(ctx context.Context, key string) (string, error) {
	if s.redis == nil {
		return "", fmt.Errorf("redis not available")
	}
	return s.redis.Get(ctx, key).Result()
}

func (s *Service) setCache(ctx context.Context, key, value string, ttl time.Duration) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Set(ctx, key, value, ttl).Err(); err != nil {
		slog.Error("failed to set cache", "key", key, "error", err)
	}
}
