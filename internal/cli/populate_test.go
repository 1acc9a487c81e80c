package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabmartin/plantlibrary/internal/factory"
	"github.com/gabmartin/plantlibrary/internal/testutil"
)

func TestSeedCreatesConsistentDataset(t *testing.T) {
	ctx := context.Background()
	app, err := factory.New(ctx, factory.Config{})
	require.NoError(t, err)

	require.NoError(t, seed(ctx, app, testutil.NopLogger()))

	// The demo account can sign in
	_, err = app.AuthService.SignIn(ctx, "demo@example.com", "hunter2hunter2")
	assert.NoError(t, err)

	ov, err := app.CatalogService.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, ov.Greenhouses)
	assert.Equal(t, 4, ov.PlantTypes)
	assert.Equal(t, 5, ov.Plants)
	assert.Equal(t, 6, ov.PlantInstances)
	assert.Equal(t, 4, ov.AvailableInstances)

	// Every plant references an existing greenhouse
	plants, err := app.CatalogService.ListPlants(ctx)
	require.NoError(t, err)
	for _, plant := range plants {
		_, err := app.CatalogService.GetGreenhouse(ctx, plant.GreenhouseID)
		assert.NoError(t, err, "plant %s points at a missing greenhouse", plant.Name)
	}
}

func TestSeedIsRerunnableForExistingUser(t *testing.T) {
	ctx := context.Background()
	app, err := factory.New(ctx, factory.Config{})
	require.NoError(t, err)

	require.NoError(t, seed(ctx, app, testutil.NopLogger()))
	// A second run must not fail on the existing demo account
	require.NoError(t, seed(ctx, app, testutil.NopLogger()))
}
