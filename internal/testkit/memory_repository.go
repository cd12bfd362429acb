package testkit

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"goab/domain/abtest"
	"goab/domain/core"
	"goab/ports"
)

var _ ports.ExperimentRepository = (*InMemoryExperimentRepository)(nil)

// InMemoryExperimentRepository is a thread-safe ExperimentRepository used by
// tests and by deployments that run without a database
type InMemoryExperimentRepository struct {
	mu          sync.RWMutex
	experiments map[core.ExperimentID]*abtest.Experiment
	results     map[core.ExperimentID]*abtest.AnalysisResult
}

// NewInMemoryExperimentRepository creates an empty in-memory repository
func NewInMemoryExperimentRepository() *InMemoryExperimentRepository {
	return &InMemoryExperimentRepository{
		experiments: make(map[core.ExperimentID]*abtest.Experiment),
		results:     make(map[core.ExperimentID]*abtest.AnalysisResult),
	}
}

func (r *InMemoryExperimentRepository) SaveExperiment(ctx context.Context, exp *abtest.Experiment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *exp
	r.experiments[exp.ID] = &copied
	return nil
}

func (r *InMemoryExperimentRepository) GetExperiment(ctx context.Context, id core.ExperimentID) (*abtest.Experiment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exp, ok := r.experiments[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %s", core.ErrExperimentNotFound, id)
	}
	copied := *exp
	return &copied, nil
}

func (r *InMemoryExperimentRepository) ListExperiments(ctx context.Context, limit int) ([]*abtest.Experiment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	experiments := make([]*abtest.Experiment, 0, len(r.experiments))
	for _, exp := range r.experiments {
		copied := *exp
		experiments = append(experiments, &copied)
	}
	sort.Slice(experiments, func(i, j int) bool {
		return experiments[j].CreatedAt.Before(experiments[i].CreatedAt)
	})
	if limit > 0 && len(experiments) > limit {
		experiments = experiments[:limit]
	}
	return experiments, nil
}

func (r *InMemoryExperimentRepository) SaveResult(ctx context.Context, result *abtest.AnalysisResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *result
	r.results[result.ExperimentID] = &copied
	return nil
}

func (r *InMemoryExperimentRepository) GetResult(ctx context.Context, id core.ExperimentID) (*abtest.AnalysisResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result, ok := r.results[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %s", core.ErrResultNotFound, id)
	}
	copied := *result
	return &copied, nil
}
