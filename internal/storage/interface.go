package storage

import (
	"context"

	"github.com/gabmartin/plantlibrary/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// User operations.
	// CreateUser is the uniqueness point for emails: implementations must
	// reject a duplicate email with model.ErrEmailExists atomically, so
	// concurrent signups for the same address cannot both win.
	CreateUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)

	// Session operations
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, token string) (*model.Session, error)
	DeleteSession(ctx context.Context, token string) error

	// Greenhouse operations
	SaveGreenhouse(ctx context.Context, gh *model.Greenhouse) error
	GetGreenhouse(ctx context.Context, id model.GreenhouseID) (*model.Greenhouse, error)
	DeleteGreenhouse(ctx context.Context, id model.GreenhouseID) error
	ListGreenhouses(ctx context.Context) ([]*model.Greenhouse, error)
	CountGreenhouses(ctx context.Context) (int, error)

	// Plant type operations
	SavePlantType(ctx context.Context, pt *model.PlantType) error
	GetPlantType(ctx context.Context, id model.PlantTypeID) (*model.PlantType, error)
	DeletePlantType(ctx context.Context, id model.PlantTypeID) error
	ListPlantTypes(ctx context.Context) ([]*model.PlantType, error)
	CountPlantTypes(ctx context.Context) (int, error)

	// Plant operations
	SavePlant(ctx context.Context, plant *model.Plant) error
	GetPlant(ctx context.Context, id model.PlantID) (*model.Plant, error)
	DeletePlant(ctx context.Context, id model.PlantID) error
	ListPlants(ctx context.Context) ([]*model.Plant, error)
	CountPlants(ctx context.Context) (int, error)
	ListPlantsByGreenhouse(ctx context.Context, id model.GreenhouseID) ([]*model.Plant, error)
	ListPlantsByType(ctx context.Context, id model.PlantTypeID) ([]*model.Plant, error)

	// Plant instance operations
	SavePlantInstance(ctx context.Context, inst *model.PlantInstance) error
	GetPlantInstance(ctx context.Context, id model.PlantInstanceID) (*model.PlantInstance, error)
	DeletePlantInstance(ctx context.Context, id model.PlantInstanceID) error
	ListPlantInstances(ctx context.Context) ([]*model.PlantInstance, error)
	CountPlantInstances(ctx context.Context) (int, error)
	CountPlantInstancesByStatus(ctx context.Context, status model.InstanceStatus) (int, error)
	ListPlantInstancesByPlant(ctx context.Context, id model.PlantID) ([]*model.PlantInstance, error)
}
