package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/gabmartin/plantlibrary/internal/model"
	"github.com/gabmartin/plantlibrary/internal/storage/memory"
	"github.com/gabmartin/plantlibrary/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.service = New(s.storage, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) createGreenhouse(name string) *model.Greenhouse {
	gh, err := s.service.CreateGreenhouse(s.ctx, name, "somewhere")
	s.Require().NoError(err)
	return gh
}

func (s *ServiceSuite) createPlant(name string, gh *model.Greenhouse, typeIDs ...model.PlantTypeID) *model.Plant {
	plant, err := s.service.CreatePlant(s.ctx, name, gh.ID, 10.0, typeIDs)
	s.Require().NoError(err)
	return plant
}

// Greenhouse tests

func (s *ServiceSuite) TestCreateGreenhouseAssignsID() {
	gh := s.createGreenhouse("Tropical House")
	s.NotEmpty(gh.ID)
	s.Equal("Tropical House", gh.Name)
}

func (s *ServiceSuite) TestUpdateGreenhouse() {
	gh := s.createGreenhouse("Tropical House")

	updated, err := s.service.UpdateGreenhouse(s.ctx, gh.ID, "Fernery", "east annex")
	s.Require().NoError(err)
	s.Equal(gh.ID, updated.ID)
	s.Equal("Fernery", updated.Name)
	s.Equal("east annex", updated.Location)
}

func (s *ServiceSuite) TestUpdateGreenhouseFailsWhenMissing() {
	_, err := s.service.UpdateGreenhouse(s.ctx, "missing", "Fernery", "east")
	s.ErrorIs(err, model.ErrGreenhouseNotFound)
}

func (s *ServiceSuite) TestListGreenhousesSortsByName() {
	s.createGreenhouse("Zen Garden")
	s.createGreenhouse("Alpine House")

	greenhouses, err := s.service.ListGreenhouses(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(greenhouses, 2)
	s.Equal("Alpine House", greenhouses[0].Name)
	s.Equal("Zen Garden", greenhouses[1].Name)
}

func (s *ServiceSuite) TestDeleteGreenhouse() {
	gh := s.createGreenhouse("Tropical House")

	s.Require().NoError(s.service.DeleteGreenhouse(s.ctx, gh.ID))

	_, err := s.service.GetGreenhouse(s.ctx, gh.ID)
	s.ErrorIs(err, model.ErrGreenhouseNotFound)
}

func (s *ServiceSuite) TestDeleteGreenhouseBlockedByPlants() {
	gh := s.createGreenhouse("Tropical House")
	s.createPlant("Monstera", gh)

	err := s.service.DeleteGreenhouse(s.ctx, gh.ID)
	s.ErrorIs(err, model.ErrGreenhouseHasPlants)

	// Still there
	_, err = s.service.GetGreenhouse(s.ctx, gh.ID)
	s.NoError(err)
}

func (s *ServiceSuite) TestDeleteGreenhouseSucceedsAfterPlantsRemoved() {
	gh := s.createGreenhouse("Tropical House")
	plant := s.createPlant("Monstera", gh)

	s.Require().NoError(s.service.DeletePlant(s.ctx, plant.ID))
	s.NoError(s.service.DeleteGreenhouse(s.ctx, gh.ID))
}

// Plant type tests

func (s *ServiceSuite) TestDeletePlantTypeBlockedWhileInUse() {
	gh := s.createGreenhouse("Tropical House")
	pt, err := s.service.CreatePlantType(s.ctx, "Fern")
	s.Require().NoError(err)
	s.createPlant("Boston fern", gh, pt.ID)

	err = s.service.DeletePlantType(s.ctx, pt.ID)
	s.ErrorIs(err, model.ErrPlantTypeInUse)
}

func (s *ServiceSuite) TestDeleteUnusedPlantType() {
	pt, err := s.service.CreatePlantType(s.ctx, "Fern")
	s.Require().NoError(err)

	s.Require().NoError(s.service.DeletePlantType(s.ctx, pt.ID))

	_, err = s.service.GetPlantType(s.ctx, pt.ID)
	s.ErrorIs(err, model.ErrPlantTypeNotFound)
}

func (s *ServiceSuite) TestPlantsOfType() {
	gh := s.createGreenhouse("Tropical House")
	fern, err := s.service.CreatePlantType(s.ctx, "Fern")
	s.Require().NoError(err)
	succulent, err := s.service.CreatePlantType(s.ctx, "Succulent")
	s.Require().NoError(err)

	s.createPlant("Boston fern", gh, fern.ID)
	s.createPlant("Aloe", gh, succulent.ID)

	plants, err := s.service.PlantsOfType(s.ctx, fern.ID)
	s.Require().NoError(err)
	s.Require().Len(plants, 1)
	s.Equal("Boston fern", plants[0].Name)
}

// Plant tests

func (s *ServiceSuite) TestCreatePlantRequiresExistingGreenhouse() {
	_, err := s.service.CreatePlant(s.ctx, "Monstera", "missing", 10.0, nil)
	s.ErrorIs(err, model.ErrGreenhouseNotFound)
}

func (s *ServiceSuite) TestUpdatePlantMovesGreenhouse() {
	first := s.createGreenhouse("Tropical House")
	second := s.createGreenhouse("Fernery")
	plant := s.createPlant("Monstera", first)

	_, err := s.service.UpdatePlant(s.ctx, plant.ID, "Monstera", second.ID, 12.5, nil)
	s.Require().NoError(err)

	inFirst, err := s.service.PlantsInGreenhouse(s.ctx, first.ID)
	s.Require().NoError(err)
	s.Empty(inFirst)

	inSecond, err := s.service.PlantsInGreenhouse(s.ctx, second.ID)
	s.Require().NoError(err)
	s.Require().Len(inSecond, 1)
	s.Equal(plant.ID, inSecond[0].ID)
}

func (s *ServiceSuite) TestDeletePlantBlockedByInstances() {
	gh := s.createGreenhouse("Tropical House")
	plant := s.createPlant("Monstera", gh)
	_, err := s.service.CreatePlantInstance(s.ctx, plant.ID, "MD-001", model.StatusAvailable)
	s.Require().NoError(err)

	err = s.service.DeletePlant(s.ctx, plant.ID)
	s.ErrorIs(err, model.ErrPlantHasInstances)
}

// Plant instance tests

func (s *ServiceSuite) TestCreatePlantInstanceDefaultsToMaintenance() {
	gh := s.createGreenhouse("Tropical House")
	plant := s.createPlant("Monstera", gh)

	inst, err := s.service.CreatePlantInstance(s.ctx, plant.ID, "MD-001", "")
	s.Require().NoError(err)
	s.Equal(model.StatusMaintenance, inst.Status)
}

func (s *ServiceSuite) TestCreatePlantInstanceRequiresExistingPlant() {
	_, err := s.service.CreatePlantInstance(s.ctx, "missing", "MD-001", model.StatusAvailable)
	s.ErrorIs(err, model.ErrPlantNotFound)
}

func (s *ServiceSuite) TestDeletePlantInstanceHasNoDependents() {
	gh := s.createGreenhouse("Tropical House")
	plant := s.createPlant("Monstera", gh)
	inst, err := s.service.CreatePlantInstance(s.ctx, plant.ID, "MD-001", model.StatusAvailable)
	s.Require().NoError(err)

	s.Require().NoError(s.service.DeletePlantInstance(s.ctx, inst.ID))
	s.NoError(s.service.DeletePlant(s.ctx, plant.ID))
}

// Overview tests

func (s *ServiceSuite) TestOverviewCountsEmptyCatalog() {
	ov, err := s.service.Overview(s.ctx)
	s.Require().NoError(err)
	s.Equal(&Overview{}, ov)
}

func (s *ServiceSuite) TestOverviewCounts() {
	gh := s.createGreenhouse("Tropical House")
	pt, err := s.service.CreatePlantType(s.ctx, "Fern")
	s.Require().NoError(err)
	plant := s.createPlant("Boston fern", gh, pt.ID)

	_, err = s.service.CreatePlantInstance(s.ctx, plant.ID, "BF-001", model.StatusAvailable)
	s.Require().NoError(err)
	_, err = s.service.CreatePlantInstance(s.ctx, plant.ID, "BF-002", model.StatusReserved)
	s.Require().NoError(err)

	ov, err := s.service.Overview(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, ov.Plants)
	s.Equal(2, ov.PlantInstances)
	s.Equal(1, ov.AvailableInstances)
	s.Equal(1, ov.Greenhouses)
	s.Equal(1, ov.PlantTypes)
}
