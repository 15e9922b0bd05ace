// Package collection implements the locally persisted user collections:
// favorites, watchlist and reviews. Every mutation rewrites the full
// collection through the storage repository before returning, so the
// latest state survives a restart.
package collection

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kirtan597/MoviesHub/internal/models"
	"github.com/kirtan597/MoviesHub/internal/storage"
)

// Kind identifies one of the toggleable collections.
type Kind string

const (
	Favorites Kind = "favorites"
	Watchlist Kind = "watchlist"
)

// Valid reports whether k is a known toggleable collection.
func (k Kind) Valid() bool {
	return k == Favorites || k == Watchlist
}

// Storage keys. Stable: changing them orphans persisted data.
const (
	keyFavorites = "moviehub-favorites"
	keyWatchlist = "moviehub-watchlist"
	keyReviews   = "moviehub-reviews"
)

// payloadVersion guards the persisted shape. A stored payload with a
// different version (or one that fails to parse) reads as empty rather
// than propagating an error into the UI.
const payloadVersion = 1

type payload[T any] struct {
	Version int `json:"version"`
	Data    []T `json:"data"`
}

// Store owns the three persisted collections. The mutex serializes
// read-modify-write cycles so a toggle never observes a half-applied
// sibling mutation.
type Store struct {
	mu    sync.Mutex
	repo  storage.Repository
	now   func() time.Time
	newID func() string
}

// NewStore creates a Store over the given repository.
func NewStore(repo storage.Repository) *Store {
	return &Store{
		repo:  repo,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

func (k Kind) storageKey() string {
	if k == Watchlist {
		return keyWatchlist
	}
	return keyFavorites
}

// Toggle flips membership of the movie in the given collection: present
// entries are removed, absent ones are inserted as a snapshot of the
// movie plus the current timestamp. It reports whether the movie is a
// member after the call.
func (s *Store) Toggle(ctx context.Context, kind Kind, movie models.Movie) (bool, error) {
	if !kind.Valid() {
		return false, fmt.Errorf("collection: unknown kind %q", kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := kind.storageKey()
	items := loadList[models.CollectionItem](ctx, s.repo, key)

	kept := items[:0]
	removed := false
	for _, it := range items {
		if it.ID == movie.ID {
			removed = true
			continue
		}
		kept = append(kept, it)
	}
	if !removed {
		kept = append(kept, models.NewCollectionItem(movie, s.now()))
	}

	if err := saveList(ctx, s.repo, key, kept); err != nil {
		return false, err
	}
	return !removed, nil
}

// Contains reports whether the movie id is a member of the collection.
func (s *Store) Contains(ctx context.Context, kind Kind, movieID int) (bool, error) {
	if !kind.Valid() {
		return false, fmt.Errorf("collection: unknown kind %q", kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, it := range loadList[models.CollectionItem](ctx, s.repo, kind.storageKey()) {
		if it.ID == movieID {
			return true, nil
		}
	}
	return false, nil
}

// Items returns the collection in insertion order.
func (s *Store) Items(ctx context.Context, kind Kind) ([]models.CollectionItem, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("collection: unknown kind %q", kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return loadList[models.CollectionItem](ctx, s.repo, kind.storageKey()), nil
}

// AddReview validates and appends a review. Validation happens here, at
// the store boundary, not only in whatever UI sits in front of it: the
// movie id must be positive, the rating an integer in [1,5], and text
// and user name non-empty after trimming. A rejected review leaves
// storage untouched. Every accepted call creates a new review, even if
// identical to an existing one.
func (s *Store) AddReview(ctx context.Context, movieID, rating int, text, userName string) (*models.Review, error) {
	if movieID <= 0 {
		return nil, fmt.Errorf("collection: movie id must be positive")
	}
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("collection: rating must be between 1 and 5")
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("collection: review text is required")
	}
	if strings.TrimSpace(userName) == "" {
		return nil, fmt.Errorf("collection: user name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	review := models.Review{
		ID:        s.newID(),
		MovieID:   movieID,
		Rating:    rating,
		Text:      text,
		UserName:  userName,
		CreatedAt: s.now(),
	}

	reviews := append(loadList[models.Review](ctx, s.repo, keyReviews), review)
	if err := saveList(ctx, s.repo, keyReviews, reviews); err != nil {
		return nil, err
	}
	return &review, nil
}

// ReviewsForMovie returns the reviews for one movie in creation order.
func (s *Store) ReviewsForMovie(ctx context.Context, movieID int) ([]models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Review
	for _, r := range loadList[models.Review](ctx, s.repo, keyReviews) {
		if r.MovieID == movieID {
			out = append(out, r)
		}
	}
	return out, nil
}

// loadList reads a persisted collection. Absent, unparsable or
// wrong-version payloads read as empty: a corrupt store must never take
// the collections down with it.
func loadList[T any](ctx context.Context, repo storage.Repository, key string) []T {
	raw, err := repo.Get(ctx, key)
	if err == storage.ErrNotFound {
		return nil
	}
	if err != nil {
		slog.Warn("failed to read collection, treating as empty", "key", key, "error", err)
		return nil
	}

	var p payload[T]
	if err := json.Unmarshal(raw, &p); err != nil || p.Version != payloadVersion {
		slog.Warn("corrupt collection payload, treating as empty", "key", key)
		return nil
	}
	return p.Data
}

func saveList[T any](ctx context.Context, repo storage.Repository, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(payload[T]{Version: payloadVersion, Data: items})
	if err != nil {
		return fmt.Errorf("failed to encode collection %q: %w", key, err)
	}
	if err := repo.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("failed to persist collection %q: %w", key, err)
	}
	return nil
}
