package cli

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gabmartin/plantlibrary/internal/config"
	"github.com/gabmartin/plantlibrary/internal/factory"
	"github.com/gabmartin/plantlibrary/internal/model"
	"github.com/gabmartin/plantlibrary/internal/services/auth"
)

// NewPopulateCmd creates the populate subcommand, which seeds the
// storage backend with sample catalog data and a demo account.
func NewPopulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "populate",
		Short: "Seed the catalog with sample data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			return runPopulate(cmd.Context(), cfg)
		},
	}

	defaults := config.Default()
	cmd.Flags().String("storage.type", defaults.Storage.Type, "storage backend (memory, redis or postgres)")
	cmd.Flags().String("storage.redis_url", defaults.Storage.RedisURL, "redis connection URL")
	cmd.Flags().String("storage.postgres_dsn", defaults.Storage.PostgresDSN, "postgres connection string")
	cmd.Flags().String("log.level", defaults.Log.Level, "log level (debug, info, warn, error)")

	return cmd
}

func runPopulate(ctx context.Context, cfg config.Config) error {
	logger := newLogger(cfg.Log)

	app, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}

	return seed(ctx, app, logger)
}

// seed loads the demo account and sample catalog into the app's storage
func seed(ctx context.Context, app *factory.App, logger *slog.Logger) error {
	if _, err := app.AuthService.SignUp(ctx, "demo@example.com", "hunter2hunter2"); err != nil {
		if !errors.Is(err, auth.ErrEmailTaken) {
			return err
		}
		logger.Info("demo user already exists")
	}

	greenhouses := make(map[string]*model.Greenhouse)
	for _, gh := range []struct{ name, location string }{
		{"Tropical House", "North wing"},
		{"Desert Dome", "South wing"},
		{"Fernery", "East annex"},
	} {
		created, err := app.CatalogService.CreateGreenhouse(ctx, gh.name, gh.location)
		if err != nil {
			return err
		}
		greenhouses[gh.name] = created
	}

	types := make(map[string]*model.PlantType)
	for _, name := range []string{"Succulent", "Fern", "Flowering", "Carnivorous"} {
		created, err := app.CatalogService.CreatePlantType(ctx, name)
		if err != nil {
			return err
		}
		types[name] = created
	}

	plants := make(map[string]*model.Plant)
	for _, p := range []struct {
		name       string
		greenhouse string
		price      float64
		types      []string
	}{
		{"Monstera deliciosa", "Tropical House", 29.50, []string{"Flowering"}},
		{"Echeveria elegans", "Desert Dome", 8.00, []string{"Succulent"}},
		{"Boston fern", "Fernery", 12.25, []string{"Fern"}},
		{"Venus flytrap", "Tropical House", 15.00, []string{"Carnivorous", "Flowering"}},
		{"Aloe vera", "Desert Dome", 9.75, []string{"Succulent"}},
	} {
		typeIDs := make([]model.PlantTypeID, 0, len(p.types))
		for _, typeName := range p.types {
			typeIDs = append(typeIDs, types[typeName].ID)
		}
		created, err := app.CatalogService.CreatePlant(ctx, p.name, greenhouses[p.greenhouse].ID, p.price, typeIDs)
		if err != nil {
			return err
		}
		plants[p.name] = created
	}

	for _, inst := range []struct {
		plant   string
		imprint string
		status  model.InstanceStatus
	}{
		{"Monstera deliciosa", "MD-001", model.StatusAvailable},
		{"Monstera deliciosa", "MD-002", model.StatusReserved},
		{"Echeveria elegans", "EE-001", model.StatusAvailable},
		{"Boston fern", "BF-001", model.StatusMaintenance},
		{"Venus flytrap", "VF-001", model.StatusAvailable},
		{"Aloe vera", "AV-001", model.StatusAvailable},
	} {
		if _, err := app.CatalogService.CreatePlantInstance(ctx, plants[inst.plant].ID, inst.imprint, inst.status); err != nil {
			return err
		}
	}

	logger.Info("sample data created",
		slog.Int("greenhouses", len(greenhouses)),
		slog.Int("types", len(types)),
		slog.Int("plants", len(plants)),
	)
	return nil
}
