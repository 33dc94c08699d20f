package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/AurisAASI/backend-core/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock's pool
// interface satisfies it as well.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool, one JSONB payload column
// per entity table.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS companies (
	id         TEXT PRIMARY KEY,
	data       JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS places (
	id         TEXT PRIMARY KEY,
	company_id TEXT NOT NULL REFERENCES companies(id),
	data       JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_places_company_id ON places(company_id);
CREATE INDEX IF NOT EXISTS idx_companies_niche ON companies((data->>'niche'));
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) GetCompany(ctx context.Context, companyID string) (*model.Company, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM companies WHERE id = $1`,
		companyID,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get company %s", companyID)
	}

	var c model.Company
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal company")
	}
	return &c, nil
}

func (s *PostgresStore) InsertCompany(ctx context.Context, company model.Company) error {
	data, err := json.Marshal(company)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal company")
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO companies (id, data) VALUES ($1, $2)`,
		company.CompanyID, data,
	)
	return eris.Wrapf(err, "postgres: insert company %s", company.CompanyID)
}

func (s *PostgresStore) UpdateCompany(ctx context.Context, companyID string, patch map[string]any) error {
	data, err := json.Marshal(patch)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal company patch")
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE companies SET data = data || $1, updated_at = now() WHERE id = $2`,
		data, companyID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update company %s", companyID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("postgres: company not found: %s", companyID)
	}
	return nil
}

func (s *PostgresStore) GetPlace(ctx context.Context, placeID string) (*model.PlaceRecord, error) {
	var rec model.PlaceRecord
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT id, company_id, data FROM places WHERE id = $1`,
		placeID,
	).Scan(&rec.PlaceID, &rec.CompanyID, &data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get place %s", placeID)
	}

	if err := json.Unmarshal(data, &rec.Place); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal place")
	}
	return &rec, nil
}

func (s *PostgresStore) InsertPlace(ctx context.Context, rec model.PlaceRecord) error {
	data, err := json.Marshal(rec.Place)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal place")
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO places (id, company_id, data) VALUES ($1, $2, $3)`,
		rec.PlaceID, rec.CompanyID, data,
	)
	return eris.Wrapf(err, "postgres: insert place %s", rec.PlaceID)
}

func (s *PostgresStore) UpdatePlace(ctx context.Context, placeID string, patch map[string]any) error {
	data, err := json.Marshal(patch)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal place patch")
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE places SET data = data || $1, updated_at = now() WHERE id = $2`,
		data, placeID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update place %s", placeID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("postgres: place not found: %s", placeID)
	}
	return nil
}
