package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gabmartin/plantlibrary/internal/config"
	"github.com/gabmartin/plantlibrary/internal/factory"
	"github.com/gabmartin/plantlibrary/internal/services/auth"
	postgresstorage "github.com/gabmartin/plantlibrary/internal/storage/postgres"
	redisstorage "github.com/gabmartin/plantlibrary/internal/storage/redis"
	"github.com/gabmartin/plantlibrary/internal/web"
)

// NewServeCmd creates the serve subcommand
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	defaults := config.Default()
	cmd.Flags().String("server.host", defaults.Server.Host, "listen host")
	cmd.Flags().Int("server.port", defaults.Server.Port, "listen port")
	cmd.Flags().String("server.static_dir", defaults.Server.StaticDir, "static files directory")
	cmd.Flags().String("storage.type", defaults.Storage.Type, "storage backend (memory, redis or postgres)")
	cmd.Flags().String("storage.redis_url", defaults.Storage.RedisURL, "redis connection URL")
	cmd.Flags().String("storage.postgres_dsn", defaults.Storage.PostgresDSN, "postgres connection string")
	cmd.Flags().Duration("auth.session_ttl", defaults.Auth.SessionTTL, "session lifetime")
	cmd.Flags().String("log.level", defaults.Log.Level, "log level (debug, info, warn, error)")

	return cmd
}

func runServe(ctx context.Context, cfg config.Config) error {
	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	app, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		return err
	}

	router := web.NewRouter(web.RouterConfig{
		Logger:         logger,
		AuthService:    app.AuthService,
		CatalogService: app.CatalogService,
		Renderer:       app.Renderer,
		Metrics:        app.Metrics,
		StaticDir:      cfg.Server.StaticDir,
	})

	serverConfig := web.DefaultServerConfig()
	serverConfig.Host = cfg.Server.Host
	serverConfig.Port = cfg.Server.Port
	server := web.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			return err
		}
		return nil
	case <-ctx.Done():
		return server.Shutdown(context.Background())
	}
}

// newApp builds the wired application from config
func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*factory.App, error) {
	factoryCfg := factory.Config{
		Logger:      logger,
		StorageType: cfg.Storage.Type,
		AuthConfig: auth.Config{
			SessionDuration: cfg.Auth.SessionTTL,
			BcryptCost:      cfg.Auth.BcryptCost,
		},
	}

	switch cfg.Storage.Type {
	case factory.StorageTypeRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.Storage.RedisURL
		factoryCfg.RedisConfig = &redisCfg
	case factory.StorageTypePostgres:
		pgCfg := postgresstorage.DefaultConfig()
		pgCfg.DSN = cfg.Storage.PostgresDSN
		factoryCfg.PostgresConfig = &pgCfg
	}

	return factory.New(ctx, factoryCfg)
}
