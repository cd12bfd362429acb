package app

import (
	"context"
	"fmt"
	"math"

	"goab/domain/abtest"
	"goab/domain/core"
	"goab/ports"
)

// agreementTolerance bounds how far two methods' p-values may drift apart
// before the analysis is flagged. 10000 resamples put the Monte Carlo
// standard error well inside this.
const agreementTolerance = 0.02

// ExperimentService orchestrates significance testing and persistence
type ExperimentService struct {
	referees []ports.RefereePort
	repo     ports.ExperimentRepository // nil disables persistence
}

// NewExperimentService creates an experiment service. At least one referee
// is required; the repository may be nil for stateless deployments.
func NewExperimentService(referees []ports.RefereePort, repo ports.ExperimentRepository) (*ExperimentService, error) {
	if len(referees) == 0 {
		return nil, core.NewInvalidInputError("referees", "at least one significance test is required")
	}
	return &ExperimentService{referees: referees, repo: repo}, nil
}

// AnalyzeRequest defines inputs for one experiment analysis
type AnalyzeRequest struct {
	Name      string
	Control   abtest.Observations
	Treatment abtest.Observations
	Alpha     float64 // 0 means the conventional 0.05
}

// Analyze runs every configured referee over the pair, derives the overall
// verdict, and persists experiment and result when a repository is wired
func (s *ExperimentService) Analyze(ctx context.Context, req AnalyzeRequest) (*abtest.Experiment, *abtest.AnalysisResult, error) {
	alpha := req.Alpha
	if alpha == 0 {
		alpha = abtest.DefaultAlpha
	}
	if alpha <= 0 || alpha >= 1 {
		return nil, nil, core.NewNumericDomainError("alpha", alpha)
	}

	exp, err := abtest.NewExperiment(req.Name, req.Control, req.Treatment)
	if err != nil {
		return nil, nil, err
	}

	results := make([]abtest.TestResult, 0, len(s.referees))
	for _, referee := range s.referees {
		res, err := referee.Validate(ctx, exp.Control, exp.Treatment)
		if err != nil {
			return nil, nil, fmt.Errorf("%s referee: %w", referee.Name(), err)
		}
		results = append(results, *res)
	}

	result := &abtest.AnalysisResult{
		ExperimentID:          exp.ID,
		Results:               results,
		Alpha:                 alpha,
		Significant:           allSignificant(results, alpha),
		Agreement:             methodsAgree(results),
		RecommendedSampleSize: recommendSampleSize(results[0], alpha),
		AnalyzedAt:            core.Now(),
	}

	if s.repo != nil {
		if err := s.repo.SaveExperiment(ctx, exp); err != nil {
			return nil, nil, fmt.Errorf("persisting experiment: %w", err)
		}
		if err := s.repo.SaveResult(ctx, result); err != nil {
			return nil, nil, fmt.Errorf("persisting result: %w", err)
		}
	}

	return exp, result, nil
}

// Plan returns the per-group sample size needed for a future experiment
func (s *ExperimentService) Plan(ctx context.Context, cfg abtest.PowerConfig) (int, error) {
	return abtest.RequiredSampleSize(cfg)
}

func allSignificant(results []abtest.TestResult, alpha float64) bool {
	for _, res := range results {
		if res.PValue >= alpha {
			return false
		}
	}
	return true
}

func methodsAgree(results []abtest.TestResult) bool {
	for i := 0; i < len(results); i++ {
		for j := i + 1; j < len(results); j++ {
			if math.Abs(results[i].PValue-results[j].PValue) > agreementTolerance {
				return false
			}
		}
	}
	return true
}

// recommendSampleSize plans a follow-up experiment sized to the observed
// effect. Returns 0 when no finite plan exists (no observed difference,
// or rates at the domain boundary).
func recommendSampleSize(res abtest.TestResult, alpha float64) int {
	delta := res.RateB - res.RateA
	n, err := abtest.RequiredSampleSize(abtest.PowerConfig{
		BaselineRate: res.RateA,
		Delta:        delta,
		Alpha:        alpha,
		Power:        abtest.DefaultPower,
	})
	if err != nil {
		return 0
	}
	return n
}
