package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/gabmartin/plantlibrary/internal/dependencies/clock"
	"github.com/gabmartin/plantlibrary/internal/middleware"
	"github.com/gabmartin/plantlibrary/internal/services/auth"
	"github.com/gabmartin/plantlibrary/internal/services/catalog"
	"github.com/gabmartin/plantlibrary/internal/storage"
	"github.com/gabmartin/plantlibrary/internal/storage/memory"
	postgresstorage "github.com/gabmartin/plantlibrary/internal/storage/postgres"
	redisstorage "github.com/gabmartin/plantlibrary/internal/storage/redis"
	"github.com/gabmartin/plantlibrary/internal/web/templates"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypePostgres = "postgres"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock

	// Services
	AuthService    *auth.Service
	CatalogService *catalog.Service

	// Web
	Renderer *templates.Renderer
	Metrics  *middleware.Metrics
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "postgres")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// PostgresConfig holds PostgreSQL connection settings (required if StorageType is "postgres")
	PostgresConfig *postgresstorage.Config
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	case StorageTypePostgres:
		if cfg.PostgresConfig == nil {
			return nil, errors.New("PostgresConfig required when StorageType is postgres")
		}
		pgStore, err := postgresstorage.New(ctx, *cfg.PostgresConfig)
		if err != nil {
			return nil, err
		}
		store = pgStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'postgres'")
	}

	// Use default auth config if not provided
	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	return newWithDependencies(store, clock.New(), authCfg, logger)
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, authCfg auth.Config, logger *slog.Logger) (*App, error) {
	renderer, err := templates.New()
	if err != nil {
		return nil, err
	}

	return &App{
		Storage:        store,
		Clock:          clk,
		AuthService:    auth.New(store, clk, authCfg, logger),
		CatalogService: catalog.New(store, logger),
		Renderer:       renderer,
		Metrics:        middleware.NewMetrics(),
	}, nil
}
