package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"goab/domain/abtest"
	"goab/domain/core"
	apperrors "goab/internal/errors"
	"goab/ports"
)

// Connect opens a PostgreSQL connection pool
func Connect(url string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		return nil, apperrors.DatabaseError("failed to connect to postgres", err)
	}
	return db, nil
}

// ExperimentRepositoryImpl implements ExperimentRepository for PostgreSQL
type ExperimentRepositoryImpl struct {
	db *sqlx.DB
}

// NewExperimentRepository creates a new PostgreSQL experiment repository
func NewExperimentRepository(db *sqlx.DB) ports.ExperimentRepository {
	return &ExperimentRepositoryImpl{db: db}
}

type experimentRow struct {
	ID                 string    `db:"id"`
	Name               string    `db:"name"`
	ControlSuccesses   int       `db:"control_successes"`
	ControlTrials      int       `db:"control_trials"`
	TreatmentSuccesses int       `db:"treatment_successes"`
	TreatmentTrials    int       `db:"treatment_trials"`
	CreatedAt          time.Time `db:"created_at"`
}

func (r experimentRow) toDomain() *abtest.Experiment {
	return &abtest.Experiment{
		ID:        core.ExperimentID(r.ID),
		Name:      r.Name,
		Control:   abtest.Observations{Successes: r.ControlSuccesses, Trials: r.ControlTrials},
		Treatment: abtest.Observations{Successes: r.TreatmentSuccesses, Trials: r.TreatmentTrials},
		CreatedAt: core.NewTimestamp(r.CreatedAt),
	}
}

// SaveExperiment upserts an experiment record
func (r *ExperimentRepositoryImpl) SaveExperiment(ctx context.Context, exp *abtest.Experiment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO experiments (
			id, name, control_successes, control_trials,
			treatment_successes, treatment_trials, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			control_successes = EXCLUDED.control_successes,
			control_trials = EXCLUDED.control_trials,
			treatment_successes = EXCLUDED.treatment_successes,
			treatment_trials = EXCLUDED.treatment_trials`,
		exp.ID.String(), exp.Name,
		exp.Control.Successes, exp.Control.Trials,
		exp.Treatment.Successes, exp.Treatment.Trials,
		exp.CreatedAt.Time())
	if err != nil {
		return fmt.Errorf("failed to save experiment %s: %w", exp.ID, err)
	}
	return nil
}

// GetExperiment loads an experiment by ID
func (r *ExperimentRepositoryImpl) GetExperiment(ctx context.Context, id core.ExperimentID) (*abtest.Experiment, error) {
	var row experimentRow
	err := r.db.GetContext(ctx, &row, `
		SELECT id, name, control_successes, control_trials,
		       treatment_successes, treatment_trials, created_at
		FROM experiments WHERE id = $1`, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %s", core.ErrExperimentNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load experiment %s: %w", id, err)
	}
	return row.toDomain(), nil
}

// ListExperiments loads the most recent experiments, newest first
func (r *ExperimentRepositoryImpl) ListExperiments(ctx context.Context, limit int) ([]*abtest.Experiment, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []experimentRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, name, control_successes, control_trials,
		       treatment_successes, treatment_trials, created_at
		FROM experiments ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list experiments: %w", err)
	}

	experiments := make([]*abtest.Experiment, 0, len(rows))
	for _, row := range rows {
		experiments = append(experiments, row.toDomain())
	}
	return experiments, nil
}

// SaveResult upserts the analysis result for an experiment. The per-method
// results are stored as JSONB alongside the headline columns.
func (r *ExperimentRepositoryImpl) SaveResult(ctx context.Context, result *abtest.AnalysisResult) error {
	resultsJSON, err := json.Marshal(result.Results)
	if err != nil {
		return fmt.Errorf("failed to encode test results: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO experiment_results (
			experiment_id, results, alpha, significant, agreement,
			recommended_sample_size, analyzed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (experiment_id) DO UPDATE SET
			results = EXCLUDED.results,
			alpha = EXCLUDED.alpha,
			significant = EXCLUDED.significant,
			agreement = EXCLUDED.agreement,
			recommended_sample_size = EXCLUDED.recommended_sample_size,
			analyzed_at = EXCLUDED.analyzed_at`,
		result.ExperimentID.String(), resultsJSON, result.Alpha,
		result.Significant, result.Agreement,
		result.RecommendedSampleSize, result.AnalyzedAt.Time())
	if err != nil {
		return fmt.Errorf("failed to save result for experiment %s: %w", result.ExperimentID, err)
	}
	return nil
}

type resultRow struct {
	ExperimentID          string    `db:"experiment_id"`
	Results               []byte    `db:"results"`
	Alpha                 float64   `db:"alpha"`
	Significant           bool      `db:"significant"`
	Agreement             bool      `db:"agreement"`
	RecommendedSampleSize int       `db:"recommended_sample_size"`
	AnalyzedAt            time.Time `db:"analyzed_at"`
}

// GetResult loads the analysis result for an experiment
func (r *ExperimentRepositoryImpl) GetResult(ctx context.Context, id core.ExperimentID) (*abtest.AnalysisResult, error) {
	var row resultRow
	err := r.db.GetContext(ctx, &row, `
		SELECT experiment_id, results, alpha, significant, agreement,
		       recommended_sample_size, analyzed_at
		FROM experiment_results WHERE experiment_id = $1`, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %s", core.ErrResultNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load result for experiment %s: %w", id, err)
	}

	var tests []abtest.TestResult
	if err := json.Unmarshal(row.Results, &tests); err != nil {
		return nil, fmt.Errorf("failed to decode test results for %s: %w", id, err)
	}

	return &abtest.AnalysisResult{
		ExperimentID:          core.ExperimentID(row.ExperimentID),
		Results:               tests,
		Alpha:                 row.Alpha,
		Significant:           row.Significant,
		Agreement:             row.Agreement,
		RecommendedSampleSize: row.RecommendedSampleSize,
		AnalyzedAt:            core.NewTimestamp(row.AnalyzedAt),
	}, nil
}
