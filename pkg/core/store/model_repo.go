// Package store persists named model records (assumptions + metadata +
// publish state) and caches scenario analyses. The engine treats a record
// purely as a source of assumptions input; storage has no say in the math.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"credit_engine/pkg/core/assumption"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ModelRecord is a named, versionless model: one assumption file plus its
// publish state. Published models are visible to the syndicate book; drafts
// only to the deal team.
type ModelRecord struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Shape       assumption.Shape `json:"shape"`
	Assumptions json.RawMessage  `json:"assumptions"`
	Published   bool             `json:"published"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// NewModelRecord wraps a validated model file into a fresh draft record.
func NewModelRecord(name string, mf *assumption.ModelFile) (*ModelRecord, error) {
	if err := mf.Validate(); err != nil {
		return nil, err
	}
	raw, err := json.Marshal(mf)
	if err != nil {
		return nil, fmt.Errorf("marshal model file: %w", err)
	}
	now := time.Now()
	return &ModelRecord{
		ID:          uuid.New(),
		Name:        name,
		Shape:       mf.Shape(),
		Assumptions: raw,
		Published:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ModelFile decodes the stored assumptions back into their file form.
func (r *ModelRecord) ModelFile() (*assumption.ModelFile, error) {
	var mf assumption.ModelFile
	if err := json.Unmarshal(r.Assumptions, &mf); err != nil {
		return nil, fmt.Errorf("unmarshal stored assumptions: %w", err)
	}
	if err := mf.Validate(); err != nil {
		return nil, err
	}
	return &mf, nil
}

// ModelRepo is the Postgres repository for model records.
type ModelRepo struct {
	pool *pgxpool.Pool
}

// NewModelRepo creates a repository over an initialized pool.
func NewModelRepo(pool *pgxpool.Pool) *ModelRepo {
	return &ModelRepo{pool: pool}
}

// Save upserts a record by ID, refreshing UpdatedAt.
// Schema is managed outside the binary (migrations). Assumed:
//
//	CREATE TABLE IF NOT EXISTS syndication_models (
//	  id UUID PRIMARY KEY,
//	  name TEXT NOT NULL,
//	  shape TEXT NOT NULL,
//	  assumptions JSONB NOT NULL,
//	  published BOOLEAN NOT NULL DEFAULT FALSE,
//	  created_at TIMESTAMPTZ NOT NULL,
//	  updated_at TIMESTAMPTZ NOT NULL
//	);
func (repo *ModelRepo) Save(ctx context.Context, rec *ModelRecord) error {
	query := `
		INSERT INTO syndication_models (
			id, name, shape, assumptions, published, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (id)
		DO UPDATE SET
			name = EXCLUDED.name,
			shape = EXCLUDED.shape,
			assumptions = EXCLUDED.assumptions,
			published = EXCLUDED.published,
			updated_at = NOW()
	`
	_, err := repo.pool.Exec(ctx, query,
		rec.ID, rec.Name, string(rec.Shape), rec.Assumptions, rec.Published, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save model record: %w", err)
	}
	return nil
}

// Get retrieves a record by ID. A missing record returns (nil, nil).
func (repo *ModelRepo) Get(ctx context.Context, id uuid.UUID) (*ModelRecord, error) {
	query := `
		SELECT id, name, shape, assumptions, published, created_at, updated_at
		FROM syndication_models
		WHERE id = $1
		LIMIT 1
	`
	rec := &ModelRecord{}
	var shape string
	err := repo.pool.QueryRow(ctx, query, id).Scan(
		&rec.ID, &rec.Name, &shape, &rec.Assumptions, &rec.Published, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, nil // Not found
	}
	rec.Shape = assumption.Shape(shape)
	return rec, nil
}

// GetByName retrieves the most recently updated record with the given name.
func (repo *ModelRepo) GetByName(ctx context.Context, name string) (*ModelRecord, error) {
	query := `
		SELECT id, name, shape, assumptions, published, created_at, updated_at
		FROM syndication_models
		WHERE name = $1
		ORDER BY updated_at DESC
		LIMIT 1
	`
	rec := &ModelRecord{}
	var shape string
	err := repo.pool.QueryRow(ctx, query, name).Scan(
		&rec.ID, &rec.Name, &shape, &rec.Assumptions, &rec.Published, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, nil
	}
	rec.Shape = assumption.Shape(shape)
	return rec, nil
}

// List returns all records, drafts included, newest first.
func (repo *ModelRepo) List(ctx context.Context) ([]*ModelRecord, error) {
	query := `
		SELECT id, name, shape, assumptions, published, created_at, updated_at
		FROM syndication_models
		ORDER BY updated_at DESC
	`
	rows, err := repo.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list model records: %w", err)
	}
	defer rows.Close()

	var records []*ModelRecord
	for rows.Next() {
		rec := &ModelRecord{}
		var shape string
		if err := rows.Scan(
			&rec.ID, &rec.Name, &shape, &rec.Assumptions, &rec.Published, &rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan model record: %w", err)
		}
		rec.Shape = assumption.Shape(shape)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// SetPublished flips the publish state of a record.
func (repo *ModelRepo) SetPublished(ctx context.Context, id uuid.UUID, published bool) error {
	query := `
		UPDATE syndication_models
		SET published = $2, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := repo.pool.Exec(ctx, query, id, published)
	if err != nil {
		return fmt.Errorf("failed to update publish state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("model record %s not found", id)
	}
	return nil
}

// Delete removes a record.
func (repo *ModelRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repo.pool.Exec(ctx, `DELETE FROM syndication_models WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete model record: %w", err)
	}
	return nil
}
