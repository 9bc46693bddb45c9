package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"Loadsheet/internal/aircraft"
)

var ErrNotFound = errors.New("not found")

type Repository interface {
	CreateUser(ctx context.Context, login, email, password string) (int, error)
	GetByLogin(ctx context.Context, login string) (int, string, error)
}

// Calculation is one logged solver run.
type Calculation struct {
	ID        int64           `json:"id"`
	UserID    int             `json:"user_id"`
	Aircraft  string          `json:"aircraft"`
	Task      json.RawMessage `json:"task"`
	Result    json.RawMessage `json:"result,omitempty"`
	Kind      string          `json:"kind,omitempty"`
	Error     string          `json:"error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type CalculationLog interface {
	RecordCalculation(ctx context.Context, c Calculation) error
	Calculations(ctx context.Context, userID, limit int) ([]Calculation, error)
}

// AircraftStore keeps aircraft specs; it doubles as an aircraft.Catalog.
type AircraftStore interface {
	aircraft.Catalog
	SaveSpec(ctx context.Context, s aircraft.Spec) error
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id SERIAL PRIMARY KEY,
	login TEXT UNIQUE NOT NULL,
	email TEXT UNIQUE NOT NULL,
	password TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS aircraft_specs (
	name TEXT PRIMARY KEY,
	spec JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS calculations (
	id BIGSERIAL PRIMARY KEY,
	user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	aircraft TEXT NOT NULL,
	task JSONB NOT NULL,
	result JSONB,
	kind TEXT NOT NULL DEFAULT '',
	error TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS calculations_user_idx ON calculations (user_id, created_at DESC);
`

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserDB(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (r *PostgresUserRepository) CreateUser(ctx context.Context, login, email, password string) (int, error) {
	var id int
	query := "INSERT INTO users (login, email, password) VALUES ($1, $2, $3) RETURNING id"
	err := r.db.QueryRowContext(ctx, query, login, email, password).Scan(&id)
	return id, err
}

func (r *PostgresUserRepository) GetByLogin(ctx context.Context, login string) (int, string, error) {
	var id int
	var hash string

	query := "SELECT id, password FROM users WHERE login=$1"

	err := r.db.QueryRowContext(ctx, query, login).Scan(&id, &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, "", ErrNotFound
		}
		return 0, "", err
	}
	return id, hash, nil
}

func (r *PostgresUserRepository) SaveSpec(ctx context.Context, s aircraft.Spec) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	query := `INSERT INTO aircraft_specs (name, spec) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET spec = EXCLUDED.spec, updated_at = now()`
	_, err = r.db.ExecContext(ctx, query, s.Name, data)
	return err
}

func (r *PostgresUserRepository) Spec(ctx context.Context, name string) (aircraft.Spec, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx, "SELECT spec FROM aircraft_specs WHERE name=$1", name).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return aircraft.Spec{}, fmt.Errorf("%w: %s", aircraft.ErrUnknownAircraft, name)
		}
		return aircraft.Spec{}, err
	}
	s, err := aircraft.Decode(data, ".json")
	if err != nil {
		return aircraft.Spec{}, fmt.Errorf("stored spec %s: %w", name, err)
	}
	return s, nil
}

func (r *PostgresUserRepository) Names(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT name FROM aircraft_specs ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

func (r *PostgresUserRepository) RecordCalculation(ctx context.Context, c Calculation) error {
	var result any
	if len(c.Result) > 0 {
		result = []byte(c.Result)
	}
	query := `INSERT INTO calculations (user_id, aircraft, task, result, kind, error)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, c.UserID, c.Aircraft, []byte(c.Task), result, c.Kind, c.Error)
	return err
}

func (r *PostgresUserRepository) Calculations(ctx context.Context, userID, limit int) ([]Calculation, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	query := `SELECT id, user_id, aircraft, task, result, kind, error, created_at
		FROM calculations WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Calculation{}
	for rows.Next() {
		var c Calculation
		var task, result []byte
		if err := rows.Scan(&c.ID, &c.UserID, &c.Aircraft, &task, &result, &c.Kind, &c.Error, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.Task = task
		c.Result = result
		out = append(out, c)
	}
	return out, rows.Err()
}
