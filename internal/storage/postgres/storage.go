package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gabmartin/plantlibrary/internal/model"
	"github.com/gabmartin/plantlibrary/internal/storage"
)

// DB is the subset of pgxpool.Pool the storage uses; pgxmock satisfies it too
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// Storage is a PostgreSQL-backed implementation of the storage interface
type Storage struct {
	db DB
}

// New connects a pool, applies the schema and returns a Storage
func New(ctx context.Context, cfg Config) (*Storage, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}

	s := &Storage{db: pool}
	if err := s.Init(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// NewWithDB creates a Storage with an existing connection (for testing)
func NewWithDB(db DB) *Storage {
	return &Storage{db: db}
}

// Init applies the schema; safe to run repeatedly
func (s *Storage) Init(ctx context.Context) error {
	_, err := s.db.Exec(ctx, schema)
	return err
}

// Close releases the connection pool
func (s *Storage) Close() {
	s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// isUniqueViolation reports whether err is a unique-constraint failure
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// User operations

func (s *Storage) CreateUser(ctx context.Context, user *model.User) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`, string(user.ID), user.Email, user.PasswordHash, user.CreatedAt)
	if isUniqueViolation(err) {
		return model.ErrEmailExists
	}
	return err
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, email, password_hash, created_at
		FROM users
		WHERE id = $1
	`, string(id))
	return scanUser(row)
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, email, password_hash, created_at
		FROM users
		WHERE email = $1
	`, email)
	return scanUser(row)
}

func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	var id string
	err := row.Scan(&id, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	user.ID = model.UserID(id)
	return &user, nil
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO sessions (token, user_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (token) DO UPDATE SET expires_at = EXCLUDED.expires_at
	`, session.Token, string(session.UserID), session.CreatedAt, session.ExpiresAt)
	return err
}

func (s *Storage) GetSession(ctx context.Context, token string) (*model.Session, error) {
	row := s.db.QueryRow(ctx, `
		SELECT token, user_id, created_at, expires_at
		FROM sessions
		WHERE token = $1
	`, token)

	var session model.Session
	var userID string
	err := row.Scan(&session.Token, &userID, &session.CreatedAt, &session.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	session.UserID = model.UserID(userID)
	return &session, nil
}

func (s *Storage) DeleteSession(ctx context.Context, token string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	return err
}

// Greenhouse operations

func (s *Storage) SaveGreenhouse(ctx context.Context, gh *model.Greenhouse) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO greenhouses (id, name, location)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, location = EXCLUDED.location
	`, string(gh.ID), gh.Name, gh.Location)
	return err
}

func (s *Storage) GetGreenhouse(ctx context.Context, id model.GreenhouseID) (*model.Greenhouse, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, location FROM greenhouses WHERE id = $1
	`, string(id))

	var gh model.Greenhouse
	var ghID string
	err := row.Scan(&ghID, &gh.Name, &gh.Location)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrGreenhouseNotFound
	}
	if err != nil {
		return nil, err
	}
	gh.ID = model.GreenhouseID(ghID)
	return &gh, nil
}

func (s *Storage) DeleteGreenhouse(ctx context.Context, id model.GreenhouseID) error {
	_, err := s.db.Exec(ctx, `DELETE FROM greenhouses WHERE id = $1`, string(id))
	return err
}

func (s *Storage) ListGreenhouses(ctx context.Context) ([]*model.Greenhouse, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, location FROM greenhouses ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*model.Greenhouse
	for rows.Next() {
		var gh model.Greenhouse
		var ghID string
		if err := rows.Scan(&ghID, &gh.Name, &gh.Location); err != nil {
			return nil, err
		}
		gh.ID = model.GreenhouseID(ghID)
		result = append(result, &gh)
	}
	return result, rows.Err()
}

func (s *Storage) CountGreenhouses(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM greenhouses`)
}

// Plant type operations

func (s *Storage) SavePlantType(ctx context.Context, pt *model.PlantType) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO plant_types (id, name)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
	`, string(pt.ID), pt.Name)
	return err
}

func (s *Storage) GetPlantType(ctx context.Context, id model.PlantTypeID) (*model.PlantType, error) {
	row := s.db.QueryRow(ctx, `SELECT id, name FROM plant_types WHERE id = $1`, string(id))

	var pt model.PlantType
	var ptID string
	err := row.Scan(&ptID, &pt.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrPlantTypeNotFound
	}
	if err != nil {
		return nil, err
	}
	pt.ID = model.PlantTypeID(ptID)
	return &pt, nil
}

func (s *Storage) DeletePlantType(ctx context.Context, id model.PlantTypeID) error {
	_, err := s.db.Exec(ctx, `DELETE FROM plant_types WHERE id = $1`, string(id))
	return err
}

func (s *Storage) ListPlantTypes(ctx context.Context) ([]*model.PlantType, error) {
	rows, err := s.db.Query(ctx, `SELECT id, name FROM plant_types ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*model.PlantType
	for rows.Next() {
		var pt model.PlantType
		var ptID string
		if err := rows.Scan(&ptID, &pt.Name); err != nil {
			return nil, err
		}
		pt.ID = model.PlantTypeID(ptID)
		result = append(result, &pt)
	}
	return result, rows.Err()
}

func (s *Storage) CountPlantTypes(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM plant_types`)
}

// Plant operations

func (s *Storage) SavePlant(ctx context.Context, plant *model.Plant) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO plants (id, name, greenhouse_id, price)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			greenhouse_id = EXCLUDED.greenhouse_id,
			price = EXCLUDED.price
	`, string(plant.ID), plant.Name, string(plant.GreenhouseID), plant.Price)
	if err != nil {
		return err
	}

	// Rebuild the type links to match the saved record
	if _, err := s.db.Exec(ctx, `DELETE FROM plant_type_links WHERE plant_id = $1`, string(plant.ID)); err != nil {
		return err
	}
	for _, typeID := range plant.TypeIDs {
		if _, err := s.db.Exec(ctx, `
			INSERT INTO plant_type_links (plant_id, type_id) VALUES ($1, $2)
		`, string(plant.ID), string(typeID)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Storage) GetPlant(ctx context.Context, id model.PlantID) (*model.Plant, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, greenhouse_id, price FROM plants WHERE id = $1
	`, string(id))

	plant, err := scanPlant(row)
	if err != nil {
		return nil, err
	}

	typeIDs, err := s.plantTypeIDs(ctx, plant.ID)
	if err != nil {
		return nil, err
	}
	plant.TypeIDs = typeIDs
	return plant, nil
}

func (s *Storage) DeletePlant(ctx context.Context, id model.PlantID) error {
	_, err := s.db.Exec(ctx, `DELETE FROM plants WHERE id = $1`, string(id))
	return err
}

func (s *Storage) ListPlants(ctx context.Context) ([]*model.Plant, error) {
	return s.queryPlants(ctx, `
		SELECT id, name, greenhouse_id, price FROM plants ORDER BY name
	`)
}

func (s *Storage) CountPlants(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM plants`)
}

func (s *Storage) ListPlantsByGreenhouse(ctx context.Context, id model.GreenhouseID) ([]*model.Plant, error) {
	return s.queryPlants(ctx, `
		SELECT id, name, greenhouse_id, price FROM plants WHERE greenhouse_id = $1 ORDER BY name
	`, string(id))
}

func (s *Storage) ListPlantsByType(ctx context.Context, id model.PlantTypeID) ([]*model.Plant, error) {
	return s.queryPlants(ctx, `
		SELECT p.id, p.name, p.greenhouse_id, p.price
		FROM plants p
		JOIN plant_type_links l ON l.plant_id = p.id
		WHERE l.type_id = $1
		ORDER BY p.name
	`, string(id))
}

func (s *Storage) queryPlants(ctx context.Context, sql string, args ...any) ([]*model.Plant, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*model.Plant
	for rows.Next() {
		plant, err := scanPlant(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, plant)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, plant := range result {
		typeIDs, err := s.plantTypeIDs(ctx, plant.ID)
		if err != nil {
			return nil, err
		}
		plant.TypeIDs = typeIDs
	}
	return result, nil
}

func scanPlant(row pgx.Row) (*model.Plant, error) {
	var plant model.Plant
	var id, ghID string
	err := row.Scan(&id, &plant.Name, &ghID, &plant.Price)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrPlantNotFound
	}
	if err != nil {
		return nil, err
	}
	plant.ID = model.PlantID(id)
	plant.GreenhouseID = model.GreenhouseID(ghID)
	return &plant, nil
}

func (s *Storage) plantTypeIDs(ctx context.Context, id model.PlantID) ([]model.PlantTypeID, error) {
	rows, err := s.db.Query(ctx, `
		SELECT type_id FROM plant_type_links WHERE plant_id = $1
	`, string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var typeIDs []model.PlantTypeID
	for rows.Next() {
		var typeID string
		if err := rows.Scan(&typeID); err != nil {
			return nil, err
		}
		typeIDs = append(typeIDs, model.PlantTypeID(typeID))
	}
	return typeIDs, rows.Err()
}

// Plant instance operations

func (s *Storage) SavePlantInstance(ctx context.Context, inst *model.PlantInstance) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO plant_instances (id, plant_id, imprint, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			plant_id = EXCLUDED.plant_id,
			imprint = EXCLUDED.imprint,
			status = EXCLUDED.status
	`, string(inst.ID), string(inst.PlantID), inst.Imprint, string(inst.Status))
	return err
}

func (s *Storage) GetPlantInstance(ctx context.Context, id model.PlantInstanceID) (*model.PlantInstance, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, plant_id, imprint, status FROM plant_instances WHERE id = $1
	`, string(id))
	return scanInstance(row)
}

func (s *Storage) DeletePlantInstance(ctx context.Context, id model.PlantInstanceID) error {
	_, err := s.db.Exec(ctx, `DELETE FROM plant_instances WHERE id = $1`, string(id))
	return err
}

func (s *Storage) ListPlantInstances(ctx context.Context) ([]*model.PlantInstance, error) {
	return s.queryInstances(ctx, `
		SELECT id, plant_id, imprint, status FROM plant_instances ORDER BY imprint
	`)
}

func (s *Storage) CountPlantInstances(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM plant_instances`)
}

func (s *Storage) CountPlantInstancesByStatus(ctx context.Context, status model.InstanceStatus) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM plant_instances WHERE status = $1`, string(status))
}

func (s *Storage) ListPlantInstancesByPlant(ctx context.Context, id model.PlantID) ([]*model.PlantInstance, error) {
	return s.queryInstances(ctx, `
		SELECT id, plant_id, imprint, status FROM plant_instances WHERE plant_id = $1 ORDER BY imprint
	`, string(id))
}

func (s *Storage) queryInstances(ctx context.Context, sql string, args ...any) ([]*model.PlantInstance, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*model.PlantInstance
	for rows.Next() {
		inst, err := scanInstance(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, inst)
	}
	return result, rows.Err()
}

func scanInstance(row pgx.Row) (*model.PlantInstance, error) {
	var inst model.PlantInstance
	var id, plantID, status string
	err := row.Scan(&id, &plantID, &inst.Imprint, &status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrPlantInstanceNotFound
	}
	if err != nil {
		return nil, err
	}
	inst.ID = model.PlantInstanceID(id)
	inst.PlantID = model.PlantID(plantID)
	inst.Status = model.InstanceStatus(status)
	return &inst, nil
}

func (s *Storage) count(ctx context.Context, sql string, args ...any) (int, error) {
	var n int
	if err := s.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
