package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"credit_engine/pkg/core/scenario"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AnalysisCache persists computed scenario analyses keyed by the assumption
// fingerprint. Hybrid vault: DB (primary) + file system (fallback/local).
// Because the engine is deterministic, a hit is always safe to reuse — the
// fingerprint is content-derived, so structurally equal assumptions share an
// entry across processes.
type AnalysisCache struct {
	pool    *pgxpool.Pool
	fileDir string
}

// NewAnalysisCache creates a cache. If pool is nil it falls back to a
// file-based cache in dir; if dir is also empty, a default local directory
// is used.
func NewAnalysisCache(pool *pgxpool.Pool, dir string) *AnalysisCache {
	if pool == nil && dir == "" {
		dir = filepath.Join(".cache", "scenario_analyses")
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Printf("[WARNING] Check AnalysisCache dir: %v\n", err)
		}
	}
	return &AnalysisCache{pool: pool, fileDir: dir}
}

// cacheEntry is the file-cache envelope.
type cacheEntry struct {
	Fingerprint string             `json:"fingerprint"`
	Analysis    *scenario.Analysis `json:"analysis"`
	ComputedAt  time.Time          `json:"computed_at"`
}

// Get retrieves a cached analysis by fingerprint. A miss returns (nil, nil).
func (c *AnalysisCache) Get(ctx context.Context, fingerprint string) (*scenario.Analysis, error) {
	if c.pool != nil {
		query := `
			SELECT analysis
			FROM scenario_analyses
			WHERE fingerprint = $1
			LIMIT 1
		`
		var dataJSON []byte
		err := c.pool.QueryRow(ctx, query, fingerprint).Scan(&dataJSON)
		if err != nil {
			return nil, nil // Cache miss
		}
		var analysis scenario.Analysis
		if err := json.Unmarshal(dataJSON, &analysis); err != nil {
			return nil, fmt.Errorf("failed to unmarshal cached analysis: %w", err)
		}
		return &analysis, nil
	}

	if c.fileDir != "" {
		return c.loadFromFile(c.entryPath(fingerprint))
	}
	return nil, nil
}

// Save stores an analysis under its fingerprint.
// Schema assumption:
//
//	CREATE TABLE IF NOT EXISTS scenario_analyses (
//	  fingerprint TEXT PRIMARY KEY,
//	  analysis JSONB NOT NULL,
//	  computed_at TIMESTAMPTZ NOT NULL
//	);
func (c *AnalysisCache) Save(ctx context.Context, fingerprint string, analysis *scenario.Analysis) error {
	dataJSON, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	if c.pool != nil {
		query := `
			INSERT INTO scenario_analyses (fingerprint, analysis, computed_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (fingerprint)
			DO UPDATE SET analysis = EXCLUDED.analysis, computed_at = NOW()
		`
		if _, err := c.pool.Exec(ctx, query, fingerprint, dataJSON); err != nil {
			return fmt.Errorf("failed to save analysis to db cache: %w", err)
		}
	}

	if c.fileDir != "" {
		entry := cacheEntry{
			Fingerprint: fingerprint,
			Analysis:    analysis,
			ComputedAt:  time.Now(),
		}
		fileBytes, _ := json.MarshalIndent(entry, "", "  ")
		if err := os.WriteFile(c.entryPath(fingerprint), fileBytes, 0644); err != nil {
			return fmt.Errorf("failed to save analysis to file cache: %w", err)
		}
	}
	return nil
}

// Exists checks whether an analysis is already cached.
func (c *AnalysisCache) Exists(ctx context.Context, fingerprint string) bool {
	if c.pool != nil {
		var exists int
		err := c.pool.QueryRow(ctx,
			`SELECT 1 FROM scenario_analyses WHERE fingerprint = $1 LIMIT 1`, fingerprint,
		).Scan(&exists)
		if err == nil {
			return true
		}
	}
	if c.fileDir != "" {
		if _, err := os.Stat(c.entryPath(fingerprint)); err == nil {
			return true
		}
	}
	return false
}

func (c *AnalysisCache) entryPath(fingerprint string) string {
	return filepath.Join(c.fileDir, fingerprint+".json")
}

func (c *AnalysisCache) loadFromFile(path string) (*scenario.Analysis, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, nil // Not found
	}
	var entry cacheEntry
	if err := json.Unmarshal(bytes, &entry); err == nil && entry.Analysis != nil {
		return entry.Analysis, nil
	}

	// Fallback: maybe it's a raw Analysis
	var analysis scenario.Analysis
	if err := json.Unmarshal(bytes, &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}
