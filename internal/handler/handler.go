// Package handler exposes the browsing, search and collection state
// over HTTP for the UI. It carries no business logic: every endpoint is
// a thin translation onto the controllers and stores.
package handler

import (
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/kirtan597/MoviesHub/internal/auth"
	"github.com/kirtan597/MoviesHub/internal/browse"
	"github.com/kirtan597/MoviesHub/internal/catalog"
	"github.com/kirtan597/MoviesHub/internal/collection"
	"github.com/kirtan597/MoviesHub/internal/models"
	"github.com/kirtan597/MoviesHub/internal/search"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler holds the wired core components.
type Handler struct {
	catalog *catalog.Service
	browse  *browse.Manager
	search  *search.Controller
	store   *collection.Store
	auth    *auth.Service
}

// New creates a Handler.
func New(cat *catalog.Service, mgr *browse.Manager, sc *search.Controller, store *collection.Store, authSvc *auth.Service) *Handler {
	return &Handler{
		catalog: cat,
		browse:  mgr,
		search:  sc,
		store:   store,
		auth:    authSvc,
	}
}

// Register mounts all routes on the router.
func (h *Handler) Register(api fiber.Router) {
	api.Get("/health", h.Health)

	api.Get("/movies", h.ListMovies)
	api.Post("/movies/more", h.LoadMore)
	api.Post("/movies/refresh", h.Refresh)
	api.Get("/movies/:id", h.MovieDetail)
	api.Get("/genres", h.Genres)
	api.Get("/search", h.Search)

	api.Get("/collections/:kind", h.CollectionItems)
	api.Post("/collections/:kind/toggle", h.CollectionToggle)
	api.Get("/collections/:kind/:id", h.CollectionContains)

	api.Post("/reviews", h.AddReview)
	api.Get("/reviews", h.ReviewsForMovie)

	api.Post("/auth/signup", h.SignUp)
	api.Post("/auth/signin", h.SignIn)
	api.Post("/auth/signout", h.SignOut)
	api.Get("/auth/me", h.CurrentUser)
}

// Health returns service health status.
func (h *Handler) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "movieshub",
	})
}

// browseKey parses the listing key from query parameters.
func browseKey(c fiber.Ctx) (browse.Key, error) {
	category := models.Category(c.Query("category", string(models.CategoryPopular)))
	if !category.Valid() {
		return browse.Key{}, fiber.NewError(fiber.StatusBadRequest, "unknown category")
	}
	genreID := fiber.Query(c, "genre_id", 0)
	if category == models.CategoryGenre && genreID <= 0 {
		return browse.Key{}, fiber.NewError(fiber.StatusBadRequest, "genre_id is required for the genre category")
	}
	return browse.Key{Category: category, GenreID: genreID}, nil
}

// ListMovies returns the current listing snapshot, loading page 1 on
// first access of a key. Remote failures are part of the snapshot, not
// an HTTP error: the client retries via /movies/refresh.
func (h *Handler) ListMovies(c fiber.Ctx) error {
	key, err := browseKey(c)
	if err != nil {
		return err
	}
	ctrl, existed := h.browse.Get(key)
	if !existed {
		return c.JSON(ctrl.Refresh(c.Context()))
	}
	return c.JSON(ctrl.Snapshot())
}

// LoadMore appends the next page to the listing.
func (h *Handler) LoadMore(c fiber.Ctx) error {
	key, err := browseKey(c)
	if err != nil {
		return err
	}
	ctrl, existed := h.browse.Get(key)
	if !existed {
		return c.JSON(ctrl.Refresh(c.Context()))
	}
	return c.JSON(ctrl.LoadMore(c.Context()))
}

// Refresh resets the listing to its first page.
func (h *Handler) Refresh(c fiber.Ctx) error {
	key, err := browseKey(c)
	if err != nil {
		return err
	}
	ctrl, _ := h.browse.Get(key)
	return c.JSON(ctrl.Refresh(c.Context()))
}

// MovieDetail returns detailed info for a single movie.
func (h *Handler) MovieDetail(c fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid movie ID",
		})
	}

	movie, err := h.catalog.MovieDetail(c.Context(), id)
	if err != nil {
		slog.Error("failed to get movie detail", "id", id, "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
			Error: "failed to retrieve movie details",
		})
	}
	return c.JSON(movie)
}

// Genres returns the genre list.
func (h *Handler) Genres(c fiber.Ctx) error {
	genres, err := h.catalog.GenreList(c.Context())
	if err != nil {
		slog.Error("failed to get genres", "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
			Error: "failed to retrieve genres",
		})
	}
	return c.JSON(genres)
}

// Search updates the live query and returns the current search
// snapshot. Because the fetch is debounced, the snapshot may still show
// the previous results with loading=true; the client polls.
func (h *Handler) Search(c fiber.Ctx) error {
	h.search.SetQuery(c.Query("q"))
	return c.JSON(h.search.Snapshot())
}

func collectionKind(c fiber.Ctx) (collection.Kind, error) {
	kind := collection.Kind(c.Params("kind"))
	if !kind.Valid() {
		return "", fiber.NewError(fiber.StatusBadRequest, "unknown collection")
	}
	return kind, nil
}

// CollectionItems returns one collection in insertion order.
func (h *Handler) CollectionItems(c fiber.Ctx) error {
	kind, err := collectionKind(c)
	if err != nil {
		return err
	}
	items, err := h.store.Items(c.Context(), kind)
	if err != nil {
		slog.Error("failed to list collection", "kind", kind, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "failed to read collection",
		})
	}
	if items == nil {
		items = []models.CollectionItem{}
	}
	return c.JSON(items)
}

// CollectionToggle flips membership of the posted movie snapshot.
func (h *Handler) CollectionToggle(c fiber.Ctx) error {
	kind, err := collectionKind(c)
	if err != nil {
		return err
	}

	var movie models.Movie
	if err := c.Bind().JSON(&movie); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid movie payload",
		})
	}
	if movie.ID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "movie id is required",
		})
	}

	added, err := h.store.Toggle(c.Context(), kind, movie)
	if err != nil {
		slog.Error("failed to toggle collection", "kind", kind, "movie_id", movie.ID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "failed to update collection",
		})
	}
	return c.JSON(fiber.Map{
		"movie_id": movie.ID,
		"member":   added,
	})
}

// CollectionContains reports membership of a movie id.
func (h *Handler) CollectionContains(c fiber.Ctx) error {
	kind, err := collectionKind(c)
	if err != nil {
		return err
	}
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid movie ID",
		})
	}

	member, err := h.store.Contains(c.Context(), kind, id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "failed to read collection",
		})
	}
	return c.JSON(fiber.Map{
		"movie_id": id,
		"member":   member,
	})
}

// AddReviewRequest is the review submission body.
type AddReviewRequest struct {
	MovieID  int    `json:"movie_id"`
	Rating   int    `json:"rating"`
	Text     string `json:"text"`
	UserName string `json:"user_name"`
}

// AddReview validates and appends a review.
func (h *Handler) AddReview(c fiber.Ctx) error {
	var req AddReviewRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid review payload",
		})
	}

	review, err := h.store.AddReview(c.Context(), req.MovieID, req.Rating, req.Text, req.UserName)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

// ReviewsForMovie returns the reviews for one movie.
func (h *Handler) ReviewsForMovie(c fiber.Ctx) error {
	movieID := fiber.Query(c, "movie_id", 0)
	if movieID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "movie_id is required",
		})
	}

	reviews, err := h.store.ReviewsForMovie(c.Context(), movieID)
	if err != nil {
		slog.Error("failed to list reviews", "movie_id", movieID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "failed to read reviews",
		})
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return c.JSON(reviews)
}

// credentialsRequest is the auth stub request body.
type credentialsRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp registers a stub account.
func (h *Handler) SignUp(c fiber.Ctx) error {
	var req credentialsRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid payload"})
	}
	user, err := h.auth.SignUp(c.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// SignIn authenticates against the stub credential store.
func (h *Handler) SignIn(c fiber.Ctx) error {
	var req credentialsRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid payload"})
	}
	user, err := h.auth.SignIn(c.Context(), req.Email, req.Password)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: err.Error()})
	}
	return c.JSON(user)
}

// SignOut clears the current stub user.
func (h *Handler) SignOut(c fiber.Ctx) error {
	if err := h.auth.SignOut(c.Context()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to sign out"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CurrentUser returns the signed-in stub user, or null.
func (h *Handler) CurrentUser(c fiber.Ctx) error {
	user, err := h.auth.Current(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to read current user"})
	}
	return c.JSON(user)
}
