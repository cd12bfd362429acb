package ports

import (
	"context"

	"goab/domain/abtest"
	"goab/domain/core"
)

// ExperimentRepository persists experiments and their analysis results
type ExperimentRepository interface {
	SaveExperiment(ctx context.Context, exp *abtest.Experiment) error
	GetExperiment(ctx context.Context, id core.ExperimentID) (*abtest.Experiment, error)
	ListExperiments(ctx context.Context, limit int) ([]*abtest.Experiment, error)

	SaveResult(ctx context.Context, result *abtest.AnalysisResult) error
	GetResult(ctx context.Context, id core.ExperimentID) (*abtest.AnalysisResult, error)
}
