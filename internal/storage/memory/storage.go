package memory

import (
	"context"
	"sync"

	"github.com/gabmartin/plantlibrary/internal/model"
	"github.com/gabmartin/plantlibrary/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	users      map[model.UserID]*model.User
	emailIndex map[string]model.UserID
	sessions   map[string]*model.Session

	greenhouses map[model.GreenhouseID]*model.Greenhouse
	plantTypes  map[model.PlantTypeID]*model.PlantType
	plants      map[model.PlantID]*model.Plant
	instances   map[model.PlantInstanceID]*model.PlantInstance
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		users:       make(map[model.UserID]*model.User),
		emailIndex:  make(map[string]model.UserID),
		sessions:    make(map[string]*model.Session),
		greenhouses: make(map[model.GreenhouseID]*model.Greenhouse),
		plantTypes:  make(map[model.PlantTypeID]*model.PlantType),
		plants:      make(map[model.PlantID]*model.Plant),
		instances:   make(map[model.PlantInstanceID]*model.PlantInstance),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) CreateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Index check and insert happen under the same lock, so two concurrent
	// signups for one email cannot both succeed.
	if _, ok := s.emailIndex[user.Email]; ok {
		return model.ErrEmailExists
	}
	s.users[user.ID] = user
	s.emailIndex[user.Email] = user.ID
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emailIndex[email]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Token] = session
	return nil
}

func (s *Storage) GetSession(ctx context.Context, token string) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[token]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return session, nil
}

func (s *Storage) DeleteSession(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

// Greenhouse operations

func (s *Storage) SaveGreenhouse(ctx context.Context, gh *model.Greenhouse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.greenhouses[gh.ID] = gh
	return nil
}

func (s *Storage) GetGreenhouse(ctx context.Context, id model.GreenhouseID) (*model.Greenhouse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	gh, ok := s.greenhouses[id]
	if !ok {
		return nil, model.ErrGreenhouseNotFound
	}
	return gh, nil
}

func (s *Storage) DeleteGreenhouse(ctx context.Context, id model.GreenhouseID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.greenhouses, id)
	return nil
}

func (s *Storage) ListGreenhouses(ctx context.Context) ([]*model.Greenhouse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*model.Greenhouse, 0, len(s.greenhouses))
	for _, gh := range s.greenhouses {
		result = append(result, gh)
	}
	return result, nil
}

func (s *Storage) CountGreenhouses(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.greenhouses), nil
}

// Plant type operations

func (s *Storage) SavePlantType(ctx context.Context, pt *model.PlantType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plantTypes[pt.ID] = pt
	return nil
}

func (s *Storage) GetPlantType(ctx context.Context, id model.PlantTypeID) (*model.PlantType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pt, ok := s.plantTypes[id]
	if !ok {
		return nil, model.ErrPlantTypeNotFound
	}
	return pt, nil
}

func (s *Storage) DeletePlantType(ctx context.Context, id model.PlantTypeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.plantTypes, id)
	return nil
}

func (s *Storage) ListPlantTypes(ctx context.Context) ([]*model.PlantType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*model.PlantType, 0, len(s.plantTypes))
	for _, pt := range s.plantTypes {
		result = append(result, pt)
	}
	return result, nil
}

func (s *Storage) CountPlantTypes(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.plantTypes), nil
}

// Plant operations

func (s *Storage) SavePlant(ctx context.Context, plant *model.Plant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plants[plant.ID] = plant
	return nil
}

func (s *Storage) GetPlant(ctx context.Context, id model.PlantID) (*model.Plant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	plant, ok := s.plants[id]
	if !ok {
		return nil, model.ErrPlantNotFound
	}
	return plant, nil
}

func (s *Storage) DeletePlant(ctx context.Context, id model.PlantID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.plants, id)
	return nil
}

func (s *Storage) ListPlants(ctx context.Context) ([]*model.Plant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*model.Plant, 0, len(s.plants))
	for _, plant := range s.plants {
		result = append(result, plant)
	}
	return result, nil
}

func (s *Storage) CountPlants(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.plants), nil
}

func (s *Storage) ListPlantsByGreenhouse(ctx context.Context, id model.GreenhouseID) ([]*model.Plant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*model.Plant
	for _, plant := range s.plants {
		if plant.GreenhouseID == id {
			result = append(result, plant)
		}
	}
	return result, nil
}

func (s *Storage) ListPlantsByType(ctx context.Context, id model.PlantTypeID) ([]*model.Plant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*model.Plant
	for _, plant := range s.plants {
		for _, typeID := range plant.TypeIDs {
			if typeID == id {
				result = append(result, plant)
				break
			}
		}
	}
	return result, nil
}

// Plant instance operations

func (s *Storage) SavePlantInstance(ctx context.Context, inst *model.PlantInstance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.instances[inst.ID] = inst
	return nil
}

func (s *Storage) GetPlantInstance(ctx context.Context, id model.PlantInstanceID) (*model.PlantInstance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inst, ok := s.instances[id]
	if !ok {
		return nil, model.ErrPlantInstanceNotFound
	}
	return inst, nil
}

func (s *Storage) DeletePlantInstance(ctx context.Context, id model.PlantInstanceID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.instances, id)
	return nil
}

func (s *Storage) ListPlantInstances(ctx context.Context) ([]*model.PlantInstance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*model.PlantInstance, 0, len(s.instances))
	for _, inst := range s.instances {
		result = append(result, inst)
	}
	return result, nil
}

func (s *Storage) CountPlantInstances(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.instances), nil
}

func (s *Storage) CountPlantInstancesByStatus(ctx context.Context, status model.InstanceStatus) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, inst := range s.instances {
		if inst.Status == status {
			count++
		}
	}
	return count, nil
}

func (s *Storage) ListPlantInstancesByPlant(ctx context.Context, id model.PlantID) ([]*model.PlantInstance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*model.PlantInstance
	for _, inst := range s.instances {
		if inst.PlantID == id {
			result = append(result, inst)
		}
	}
	return result, nil
}
