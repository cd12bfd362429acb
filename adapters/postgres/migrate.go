package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	apperrors "goab/internal/errors"
)

// Migrate applies the schema required by the experiment repository.
// Statements are idempotent so repeated startup runs are safe.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS experiments (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			control_successes INTEGER NOT NULL CHECK (control_successes >= 0),
			control_trials INTEGER NOT NULL CHECK (control_trials > 0),
			treatment_successes INTEGER NOT NULL CHECK (treatment_successes >= 0),
			treatment_trials INTEGER NOT NULL CHECK (treatment_trials > 0),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS experiment_results (
			experiment_id TEXT PRIMARY KEY REFERENCES experiments(id) ON DELETE CASCADE,
			results JSONB NOT NULL,
			alpha DOUBLE PRECISION NOT NULL,
			significant BOOLEAN NOT NULL,
			agreement BOOLEAN NOT NULL,
			recommended_sample_size INTEGER NOT NULL DEFAULT 0,
			analyzed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_experiments_created_at
			ON experiments (created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return apperrors.DatabaseError("migration failed", err)
		}
	}
	return nil
}
