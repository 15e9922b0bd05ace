package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/kirtan597/MoviesHub/internal/auth"
	"github.com/kirtan597/MoviesHub/internal/browse"
	"github.com/kirtan597/MoviesHub/internal/catalog"
	"github.com/kirtan597/MoviesHub/internal/collection"
	"github.com/kirtan597/MoviesHub/internal/config"
	"github.com/kirtan597/MoviesHub/internal/database"
	"github.com/kirtan597/MoviesHub/internal/handler"
	"github.com/kirtan597/MoviesHub/internal/middleware"
	"github.com/kirtan597/MoviesHub/internal/search"
	"github.com/kirtan597/MoviesHub/internal/storage"
	"github.com/kirtan597/MoviesHub/internal/tmdb"
)

func main() {
	// Structured logging
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Open the collection storage backend
	repo, closeRepo, err := openStorage(cfg.Store)
	if err != nil {
		slog.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer closeRepo()

	// Connect to Redis (non-fatal if unavailable)
	rdb, err := database.NewRedis(cfg.Redis)
	if err != nil {
		slog.Warn("Redis unavailable, running without cache", "error", err)
	}

	// Initialize the catalog stack
	client := tmdb.NewClient(cfg.TMDB.APIKey, cfg.TMDB.BaseURL,
		tmdb.WithImageBases(cfg.TMDB.PosterBase, cfg.TMDB.BackdropBase))
	cat := catalog.NewService(client, rdb)

	// Controllers and local stores
	browseMgr := browse.NewManager(cat, cfg.Browse.MaxPage)
	searchCtrl := search.NewController(cat, cfg.Search.Debounce)
	defer searchCtrl.Close()
	store := collection.NewStore(repo)
	authSvc := auth.NewService(repo)

	h := handler.New(cat, browseMgr, searchCtrl, store, authSvc)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "MoviesHub",
		ServerHeader: "MoviesHub",
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			if code >= fiber.StatusInternalServerError {
				slog.Error("unhandled error", "error", err, "status", code)
			}
			return c.Status(code).JSON(handler.ErrorResponse{Error: err.Error()})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())
	app.Use(middleware.RateLimit(cfg.Rate.PerSecond, cfg.Rate.Burst))

	// API routes
	h.Register(app.Group("/api/v1"))

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		slog.Info("shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	addr := ":" + cfg.Port
	slog.Info("starting MoviesHub", "addr", addr, "store", cfg.Store.Driver)
	if err := app.Listen(addr); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

// openStorage selects the storage backend from config.
func openStorage(cfg config.StoreConfig) (storage.Repository, func(), error) {
	switch cfg.Driver {
	case "postgres":
		repo, err := storage.NewPostgres(cfg.DB.DSN())
		if err != nil {
			return nil, nil, err
		}
		return repo, func() { repo.Close() }, nil
	default:
		repo, err := storage.NewSQLite(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() { repo.Close() }, nil
	}
}
