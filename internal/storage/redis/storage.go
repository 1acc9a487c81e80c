package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gabmartin/plantlibrary/internal/model"
	"github.com/gabmartin/plantlibrary/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) CreateUser(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	// SETNX on the email index is the uniqueness claim: the loser of a
	// concurrent signup sees claimed=false and nothing gets written.
	claimed, err := s.client.SetNX(ctx, emailIndexKey(user.Email), string(user.ID), 0).Result()
	if err != nil {
		return err
	}
	if !claimed {
		return model.ErrEmailExists
	}

	return s.client.Set(ctx, userKey(user.ID), data, 0).Err()
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	data, err := s.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	idStr, err := s.client.Get(ctx, emailIndexKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	return s.GetUser(ctx, model.UserID(idStr))
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	// Let Redis expire the session when the binding does
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, sessionKey(session.Token), data, ttl).Err()
}

func (s *Storage) GetSession(ctx context.Context, token string) (*model.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Storage) DeleteSession(ctx context.Context, token string) error {
	return s.client.Del(ctx, sessionKey(token)).Err()
}

// Greenhouse operations

func (s *Storage) SaveGreenhouse(ctx context.Context, gh *model.Greenhouse) error {
	data, err := json.Marshal(gh)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, greenhouseKey(gh.ID), data, 0)
	pipe.SAdd(ctx, greenhouseSetKey(), string(gh.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetGreenhouse(ctx context.Context, id model.GreenhouseID) (*model.Greenhouse, error) {
	data, err := s.client.Get(ctx, greenhouseKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGreenhouseNotFound
		}
		return nil, err
	}

	var gh model.Greenhouse
	if err := json.Unmarshal(data, &gh); err != nil {
		return nil, err
	}
	return &gh, nil
}

func (s *Storage) DeleteGreenhouse(ctx context.Context, id model.GreenhouseID) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, greenhouseKey(id))
	pipe.SRem(ctx, greenhouseSetKey(), string(id))
	pipe.Del(ctx, plantsByGreenhouseKey(id))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) ListGreenhouses(ctx context.Context) ([]*model.Greenhouse, error) {
	ids, err := s.client.SMembers(ctx, greenhouseSetKey()).Result()
	if err != nil {
		return nil, err
	}

	result := make([]*model.Greenhouse, 0, len(ids))
	for _, val := range s.mget(ctx, ids, func(id string) string { return greenhouseKey(model.GreenhouseID(id)) }) {
		var gh model.Greenhouse
		if err := json.Unmarshal(val, &gh); err != nil {
			continue
		}
		result = append(result, &gh)
	}
	return result, nil
}

func (s *Storage) CountGreenhouses(ctx context.Context) (int, error) {
	return s.scard(ctx, greenhouseSetKey())
}

// Plant type operations

func (s *Storage) SavePlantType(ctx context.Context, pt *model.PlantType) error {
	data, err := json.Marshal(pt)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, plantTypeKey(pt.ID), data, 0)
	pipe.SAdd(ctx, plantTypeSetKey(), string(pt.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPlantType(ctx context.Context, id model.PlantTypeID) (*model.PlantType, error) {
	data, err := s.client.Get(ctx, plantTypeKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlantTypeNotFound
		}
		return nil, err
	}

	var pt model.PlantType
	if err := json.Unmarshal(data, &pt); err != nil {
		return nil, err
	}
	return &pt, nil
}

func (s *Storage) DeletePlantType(ctx context.Context, id model.PlantTypeID) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, plantTypeKey(id))
	pipe.SRem(ctx, plantTypeSetKey(), string(id))
	pipe.Del(ctx, plantsByTypeKey(id))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) ListPlantTypes(ctx context.Context) ([]*model.PlantType, error) {
	ids, err := s.client.SMembers(ctx, plantTypeSetKey()).Result()
	if err != nil {
		return nil, err
	}

	result := make([]*model.PlantType, 0, len(ids))
	for _, val := range s.mget(ctx, ids, func(id string) string { return plantTypeKey(model.PlantTypeID(id)) }) {
		var pt model.PlantType
		if err := json.Unmarshal(val, &pt); err != nil {
			continue
		}
		result = append(result, &pt)
	}
	return result, nil
}

func (s *Storage) CountPlantTypes(ctx context.Context) (int, error) {
	return s.scard(ctx, plantTypeSetKey())
}

// Plant operations

func (s *Storage) SavePlant(ctx context.Context, plant *model.Plant) error {
	data, err := json.Marshal(plant)
	if err != nil {
		return err
	}

	// Updates may move the plant between greenhouses or change its types,
	// so drop stale index memberships before adding the current ones
	prev, err := s.GetPlant(ctx, plant.ID)
	if err != nil && !errors.Is(err, model.ErrPlantNotFound) {
		return err
	}

	pipe := s.client.Pipeline()
	if prev != nil {
		if prev.GreenhouseID != plant.GreenhouseID {
			pipe.SRem(ctx, plantsByGreenhouseKey(prev.GreenhouseID), string(plant.ID))
		}
		for _, typeID := range prev.TypeIDs {
			pipe.SRem(ctx, plantsByTypeKey(typeID), string(plant.ID))
		}
	}
	pipe.Set(ctx, plantKey(plant.ID), data, 0)
	pipe.SAdd(ctx, plantSetKey(), string(plant.ID))
	pipe.SAdd(ctx, plantsByGreenhouseKey(plant.GreenhouseID), string(plant.ID))
	for _, typeID := range plant.TypeIDs {
		pipe.SAdd(ctx, plantsByTypeKey(typeID), string(plant.ID))
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPlant(ctx context.Context, id model.PlantID) (*model.Plant, error) {
	data, err := s.client.Get(ctx, plantKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlantNotFound
		}
		return nil, err
	}

	var plant model.Plant
	if err := json.Unmarshal(data, &plant); err != nil {
		return nil, err
	}
	return &plant, nil
}

func (s *Storage) DeletePlant(ctx context.Context, id model.PlantID) error {
	plant, err := s.GetPlant(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrPlantNotFound) {
			return nil
		}
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, plantKey(id))
	pipe.SRem(ctx, plantSetKey(), string(id))
	pipe.SRem(ctx, plantsByGreenhouseKey(plant.GreenhouseID), string(id))
	for _, typeID := range plant.TypeIDs {
		pipe.SRem(ctx, plantsByTypeKey(typeID), string(id))
	}
	pipe.Del(ctx, instancesByPlantKey(id))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) ListPlants(ctx context.Context) ([]*model.Plant, error) {
	ids, err := s.client.SMembers(ctx, plantSetKey()).Result()
	if err != nil {
		return nil, err
	}
	return s.plantsByIDs(ctx, ids)
}

func (s *Storage) CountPlants(ctx context.Context) (int, error) {
	return s.scard(ctx, plantSetKey())
}

func (s *Storage) ListPlantsByGreenhouse(ctx context.Context, id model.GreenhouseID) ([]*model.Plant, error) {
	ids, err := s.client.SMembers(ctx, plantsByGreenhouseKey(id)).Result()
	if err != nil {
		return nil, err
	}
	return s.plantsByIDs(ctx, ids)
}

func (s *Storage) ListPlantsByType(ctx context.Context, id model.PlantTypeID) ([]*model.Plant, error) {
	ids, err := s.client.SMembers(ctx, plantsByTypeKey(id)).Result()
	if err != nil {
		return nil, err
	}
	return s.plantsByIDs(ctx, ids)
}

func (s *Storage) plantsByIDs(ctx context.Context, ids []string) ([]*model.Plant, error) {
	result := make([]*model.Plant, 0, len(ids))
	for _, val := range s.mget(ctx, ids, func(id string) string { return plantKey(model.PlantID(id)) }) {
		var plant model.Plant
		if err := json.Unmarshal(val, &plant); err != nil {
			continue
		}
		result = append(result, &plant)
	}
	return result, nil
}

// Plant instance operations

func (s *Storage) SavePlantInstance(ctx context.Context, inst *model.PlantInstance) error {
	data, err := json.Marshal(inst)
	if err != nil {
		return err
	}

	prev, err := s.GetPlantInstance(ctx, inst.ID)
	if err != nil && !errors.Is(err, model.ErrPlantInstanceNotFound) {
		return err
	}

	pipe := s.client.Pipeline()
	if prev != nil && prev.Status != inst.Status {
		pipe.SRem(ctx, instancesByStatusKey(prev.Status), string(inst.ID))
	}
	pipe.Set(ctx, instanceKey(inst.ID), data, 0)
	pipe.SAdd(ctx, instanceSetKey(), string(inst.ID))
	pipe.SAdd(ctx, instancesByPlantKey(inst.PlantID), string(inst.ID))
	pipe.SAdd(ctx, instancesByStatusKey(inst.Status), string(inst.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPlantInstance(ctx context.Context, id model.PlantInstanceID) (*model.PlantInstance, error) {
	data, err := s.client.Get(ctx, instanceKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlantInstanceNotFound
		}
		return nil, err
	}

	var inst model.PlantInstance
	if err := json.Unmarshal(data, &inst); err != nil {
		return nil, err
	}
	return &inst, nil
}

func (s *Storage) DeletePlantInstance(ctx context.Context, id model.PlantInstanceID) error {
	inst, err := s.GetPlantInstance(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrPlantInstanceNotFound) {
			return nil
		}
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, instanceKey(id))
	pipe.SRem(ctx, instanceSetKey(), string(id))
	pipe.SRem(ctx, instancesByPlantKey(inst.PlantID), string(id))
	pipe.SRem(ctx, instancesByStatusKey(inst.Status), string(id))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) ListPlantInstances(ctx context.Context) ([]*model.PlantInstance, error) {
	ids, err := s.client.SMembers(ctx, instanceSetKey()).Result()
	if err != nil {
		return nil, err
	}
	return s.instancesByIDs(ctx, ids)
}

func (s *Storage) CountPlantInstances(ctx context.Context) (int, error) {
	return s.scard(ctx, instanceSetKey())
}

func (s *Storage) CountPlantInstancesByStatus(ctx context.Context, status model.InstanceStatus) (int, error) {
	return s.scard(ctx, instancesByStatusKey(status))
}

func (s *Storage) ListPlantInstancesByPlant(ctx context.Context, id model.PlantID) ([]*model.PlantInstance, error) {
	ids, err := s.client.SMembers(ctx, instancesByPlantKey(id)).Result()
	if err != nil {
		return nil, err
	}
	return s.instancesByIDs(ctx, ids)
}

func (s *Storage) instancesByIDs(ctx context.Context, ids []string) ([]*model.PlantInstance, error) {
	result := make([]*model.PlantInstance, 0, len(ids))
	for _, val := range s.mget(ctx, ids, func(id string) string { return instanceKey(model.PlantInstanceID(id)) }) {
		var inst model.PlantInstance
		if err := json.Unmarshal(val, &inst); err != nil {
			continue
		}
		result = append(result, &inst)
	}
	return result, nil
}

// mget fetches the values for a set of member ids in one round trip,
// skipping members whose value has gone away
func (s *Storage) mget(ctx context.Context, ids []string, key func(string) string) [][]byte {
	if len(ids) == 0 {
		return nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = key(id)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil
	}

	result := make([][]byte, 0, len(values))
	for _, val := range values {
		str, ok := val.(string)
		if !ok {
			continue
		}
		result = append(result, []byte(str))
	}
	return result
}

func (s *Storage) scard(ctx context.Context, key string) (int, error) {
	n, err := s.client.SCard(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
