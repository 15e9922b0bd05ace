package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for MoviesHub.
type Config struct {
	TMDB   TMDBConfig
	Redis  RedisConfig
	Store  StoreConfig
	Search SearchConfig
	Browse BrowseConfig
	Rate   RateConfig
	Port   string
}

// TMDBConfig holds TMDB API configuration.
type TMDBConfig struct {
	APIKey       string
	BaseURL      string
	PosterBase   string
	BackdropBase string
}

// RedisConfig holds Redis configuration for the catalog cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// StoreConfig selects the collection storage backend.
type StoreConfig struct {
	// Driver is "sqlite" (default) or "postgres".
	Driver string
	// Path is the SQLite database file.
	Path string
	DB   DBConfig
}

// DBConfig holds PostgreSQL configuration for the shared storage backend.
type DBConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	SSLRootCert string
}

// DSN returns the PostgreSQL connection string.
func (d DBConfig) DSN() string {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
	if d.SSLRootCert != "" {
		dsn += fmt.Sprintf(" sslrootcert=%s", d.SSLRootCert)
	}
	return dsn
}

// SearchConfig tunes the debounced search controller.
type SearchConfig struct {
	Debounce time.Duration
}

// BrowseConfig tunes the paginated list controller.
type BrowseConfig struct {
	MaxPage int
}

// RateConfig tunes the HTTP surface rate limiter.
type RateConfig struct {
	PerSecond float64
	Burst     int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	debounceMs, _ := strconv.Atoi(getEnv("SEARCH_DEBOUNCE_MS", "300"))
	maxPage, _ := strconv.Atoi(getEnv("BROWSE_MAX_PAGE", "500"))
	ratePerSec, _ := strconv.ParseFloat(getEnv("RATE_LIMIT_PER_SECOND", "5"), 64)
	rateBurst, _ := strconv.Atoi(getEnv("RATE_LIMIT_BURST", "10"))

	cfg := &Config{
		TMDB: TMDBConfig{
			APIKey:       getEnv("TMDB_API_KEY", ""),
			BaseURL:      getEnv("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
			PosterBase:   getEnv("TMDB_POSTER_BASE", "https://image.tmdb.org/t/p/w500"),
			BackdropBase: getEnv("TMDB_BACKDROP_BASE", "https://image.tmdb.org/t/p/w1280"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Store: StoreConfig{
			Driver: getEnv("STORE_DRIVER", "sqlite"),
			Path:   getEnv("STORE_PATH", "movieshub.db"),
			DB: DBConfig{
				Host:        getEnv("DB_HOST", "localhost"),
				Port:        dbPort,
				User:        getEnv("DB_USER", "postgres"),
				Password:    getEnv("DB_PASSWORD", "postgres"),
				DBName:      getEnv("DB_NAME", "movieshub"),
				SSLMode:     getEnv("DB_SSLMODE", "disable"),
				SSLRootCert: getEnv("DB_SSLROOTCERT", ""),
			},
		},
		Search: SearchConfig{
			Debounce: time.Duration(debounceMs) * time.Millisecond,
		},
		Browse: BrowseConfig{
			MaxPage: maxPage,
		},
		Rate: RateConfig{
			PerSecond: ratePerSec,
			Burst:     rateBurst,
		},
		Port: getEnv("SERVER_PORT", "8080"),
	}

	if cfg.TMDB.APIKey == "" {
		return nil, fmt.Errorf("TMDB_API_KEY is required")
	}
	if cfg.Browse.MaxPage < 1 {
		cfg.Browse.MaxPage = 500
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
