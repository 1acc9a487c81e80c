package cli

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gabmartin/plantlibrary/internal/config"
)

var configFile string

// NewRootCmd creates the root command for the plantlibrary CLI
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plantlibrary",
		Short: "Plant library - a plant catalog with session-based sign in",
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			// A missing .env file is fine; it is a local convenience only
			_ = godotenv.Load()
		},
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewPopulateCmd())

	return cmd
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger builds the application logger from config
func newLogger(cfg config.LogConfig) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}
