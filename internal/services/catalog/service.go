package catalog

import (
	"context"
	"log/slog"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/gabmartin/plantlibrary/internal/model"
	"github.com/gabmartin/plantlibrary/internal/storage"
)

// Service implements the catalog operations over a storage backend
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new catalog Service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// Overview holds the entity counts shown on the catalog home page
type Overview struct {
	Plants             int
	PlantInstances     int
	AvailableInstances int
	Greenhouses        int
	PlantTypes         int
}

// Overview fetches all counts concurrently; the queries are independent
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	var ov Overview
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		ov.Plants, err = s.storage.CountPlants(ctx)
		return err
	})
	g.Go(func() (err error) {
		ov.PlantInstances, err = s.storage.CountPlantInstances(ctx)
		return err
	})
	g.Go(func() (err error) {
		ov.AvailableInstances, err = s.storage.CountPlantInstancesByStatus(ctx, model.StatusAvailable)
		return err
	})
	g.Go(func() (err error) {
		ov.Greenhouses, err = s.storage.CountGreenhouses(ctx)
		return err
	})
	g.Go(func() (err error) {
		ov.PlantTypes, err = s.storage.CountPlantTypes(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &ov, nil
}

// Greenhouse operations

func (s *Service) CreateGreenhouse(ctx context.Context, name, location string) (*model.Greenhouse, error) {
	gh := &model.Greenhouse{
		ID:       model.GreenhouseID(uuid.NewString()),
		Name:     name,
		Location: location,
	}
	if err := s.storage.SaveGreenhouse(ctx, gh); err != nil {
		return nil, err
	}
	return gh, nil
}

func (s *Service) UpdateGreenhouse(ctx context.Context, id model.GreenhouseID, name, location string) (*model.Greenhouse, error) {
	gh, err := s.storage.GetGreenhouse(ctx, id)
	if err != nil {
		return nil, err
	}
	gh.Name = name
	gh.Location = location
	if err := s.storage.SaveGreenhouse(ctx, gh); err != nil {
		return nil, err
	}
	return gh, nil
}

func (s *Service) GetGreenhouse(ctx context.Context, id model.GreenhouseID) (*model.Greenhouse, error) {
	return s.storage.GetGreenhouse(ctx, id)
}

func (s *Service) ListGreenhouses(ctx context.Context) ([]*model.Greenhouse, error) {
	greenhouses, err := s.storage.ListGreenhouses(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(greenhouses, func(i, j int) bool { return greenhouses[i].Name < greenhouses[j].Name })
	return greenhouses, nil
}

// DeleteGreenhouse refuses while any plant is still housed there
func (s *Service) DeleteGreenhouse(ctx context.Context, id model.GreenhouseID) error {
	if _, err := s.storage.GetGreenhouse(ctx, id); err != nil {
		return err
	}
	plants, err := s.storage.ListPlantsByGreenhouse(ctx, id)
	if err != nil {
		return err
	}
	if len(plants) > 0 {
		return model.ErrGreenhouseHasPlants
	}
	return s.storage.DeleteGreenhouse(ctx, id)
}

func (s *Service) PlantsInGreenhouse(ctx context.Context, id model.GreenhouseID) ([]*model.Plant, error) {
	plants, err := s.storage.ListPlantsByGreenhouse(ctx, id)
	if err != nil {
		return nil, err
	}
	sort.Slice(plants, func(i, j int) bool { return plants[i].Name < plants[j].Name })
	return plants, nil
}

// Plant type operations

func (s *Service) CreatePlantType(ctx context.Context, name string) (*model.PlantType, error) {
	pt := &model.PlantType{
		ID:   model.PlantTypeID(uuid.NewString()),
		Name: name,
	}
	if err := s.storage.SavePlantType(ctx, pt); err != nil {
		return nil, err
	}
	return pt, nil
}

func (s *Service) UpdatePlantType(ctx context.Context, id model.PlantTypeID, name string) (*model.PlantType, error) {
	pt, err := s.storage.GetPlantType(ctx, id)
	if err != nil {
		return nil, err
	}
	pt.Name = name
	if err := s.storage.SavePlantType(ctx, pt); err != nil {
		return nil, err
	}
	return pt, nil
}

func (s *Service) GetPlantType(ctx context.Context, id model.PlantTypeID) (*model.PlantType, error) {
	return s.storage.GetPlantType(ctx, id)
}

func (s *Service) ListPlantTypes(ctx context.Context) ([]*model.PlantType, error) {
	types, err := s.storage.ListPlantTypes(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(types, func(i, j int) bool { return types[i].Name < types[j].Name })
	return types, nil
}

// DeletePlantType refuses while any plant still carries the type
func (s *Service) DeletePlantType(ctx context.Context, id model.PlantTypeID) error {
	if _, err := s.storage.GetPlantType(ctx, id); err != nil {
		return err
	}
	plants, err := s.storage.ListPlantsByType(ctx, id)
	if err != nil {
		return err
	}
	if len(plants) > 0 {
		return model.ErrPlantTypeInUse
	}
	return s.storage.DeletePlantType(ctx, id)
}

func (s *Service) PlantsOfType(ctx context.Context, id model.PlantTypeID) ([]*model.Plant, error) {
	plants, err := s.storage.ListPlantsByType(ctx, id)
	if err != nil {
		return nil, err
	}
	sort.Slice(plants, func(i, j int) bool { return plants[i].Name < plants[j].Name })
	return plants, nil
}

// Plant operations

func (s *Service) CreatePlant(ctx context.Context, name string, greenhouseID model.GreenhouseID, price float64, typeIDs []model.PlantTypeID) (*model.Plant, error) {
	if _, err := s.storage.GetGreenhouse(ctx, greenhouseID); err != nil {
		return nil, err
	}

	plant := &model.Plant{
		ID:           model.PlantID(uuid.NewString()),
		Name:         name,
		GreenhouseID: greenhouseID,
		Price:        price,
		TypeIDs:      typeIDs,
	}
	if err := s.storage.SavePlant(ctx, plant); err != nil {
		return nil, err
	}
	return plant, nil
}

func (s *Service) UpdatePlant(ctx context.Context, id model.PlantID, name string, greenhouseID model.GreenhouseID, price float64, typeIDs []model.PlantTypeID) (*model.Plant, error) {
	plant, err := s.storage.GetPlant(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.storage.GetGreenhouse(ctx, greenhouseID); err != nil {
		return nil, err
	}

	plant.Name = name
	plant.GreenhouseID = greenhouseID
	plant.Price = price
	plant.TypeIDs = typeIDs
	if err := s.storage.SavePlant(ctx, plant); err != nil {
		return nil, err
	}
	return plant, nil
}

func (s *Service) GetPlant(ctx context.Context, id model.PlantID) (*model.Plant, error) {
	return s.storage.GetPlant(ctx, id)
}

func (s *Service) ListPlants(ctx context.Context) ([]*model.Plant, error) {
	plants, err := s.storage.ListPlants(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(plants, func(i, j int) bool { return plants[i].Name < plants[j].Name })
	return plants, nil
}

// DeletePlant refuses while instances of the plant still exist
func (s *Service) DeletePlant(ctx context.Context, id model.PlantID) error {
	if _, err := s.storage.GetPlant(ctx, id); err != nil {
		return err
	}
	instances, err := s.storage.ListPlantInstancesByPlant(ctx, id)
	if err != nil {
		return err
	}
	if len(instances) > 0 {
		return model.ErrPlantHasInstances
	}
	return s.storage.DeletePlant(ctx, id)
}

// Plant instance operations

func (s *Service) CreatePlantInstance(ctx context.Context, plantID model.PlantID, imprint string, status model.InstanceStatus) (*model.PlantInstance, error) {
	if _, err := s.storage.GetPlant(ctx, plantID); err != nil {
		return nil, err
	}
	if status == "" {
		status = model.StatusMaintenance
	}

	inst := &model.PlantInstance{
		ID:      model.PlantInstanceID(uuid.NewString()),
		PlantID: plantID,
		Imprint: imprint,
		Status:  status,
	}
	if err := s.storage.SavePlantInstance(ctx, inst); err != nil {
		return nil, err
	}
	return inst, nil
}

func (s *Service) UpdatePlantInstance(ctx context.Context, id model.PlantInstanceID, plantID model.PlantID, imprint string, status model.InstanceStatus) (*model.PlantInstance, error) {
	inst, err := s.storage.GetPlantInstance(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.storage.GetPlant(ctx, plantID); err != nil {
		return nil, err
	}

	inst.PlantID = plantID
	inst.Imprint = imprint
	inst.Status = status
	if err := s.storage.SavePlantInstance(ctx, inst); err != nil {
		return nil, err
	}
	return inst, nil
}

func (s *Service) GetPlantInstance(ctx context.Context, id model.PlantInstanceID) (*model.PlantInstance, error) {
	return s.storage.GetPlantInstance(ctx, id)
}

func (s *Service) ListPlantInstances(ctx context.Context) ([]*model.PlantInstance, error) {
	instances, err := s.storage.ListPlantInstances(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(instances, func(i, j int) bool { return instances[i].Imprint < instances[j].Imprint })
	return instances, nil
}

// DeletePlantInstance deletes freely; instances have no dependents
func (s *Service) DeletePlantInstance(ctx context.Context, id model.PlantInstanceID) error {
	if _, err := s.storage.GetPlantInstance(ctx, id); err != nil {
		return err
	}
	return s.storage.DeletePlantInstance(ctx, id)
}

func (s *Service) InstancesOfPlant(ctx context.Context, id model.PlantID) ([]*model.PlantInstance, error) {
	instances, err := s.storage.ListPlantInstancesByPlant(ctx, id)
	if err != nil {
		return nil, err
	}
	sort.Slice(instances, func(i, j int) bool { return instances[i].Imprint < instances[j].Imprint })
	return instances, nil
}
