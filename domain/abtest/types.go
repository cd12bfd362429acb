package abtest

import (
	"fmt"

	"goab/domain/core"
)

// ============================================================================
// STABLE PRIMITIVES (Canonical, never change)
// ============================================================================

// Observations is an immutable record of one experimental variation:
// how many trials were observed and how many of them succeeded.
// INVARIANTS:
// - Trials always > 0
// - 0 <= Successes <= Trials
type Observations struct {
	Successes int `json:"successes"`
	Trials    int `json:"trials"`
}

// NewObservations creates a validated observation record
func NewObservations(successes, trials int) (Observations, error) {
	o := Observations{Successes: successes, Trials: trials}
	if err := o.Validate(); err != nil {
		return Observations{}, err
	}
	return o, nil
}

// Validate checks the observation invariants
func (o Observations) Validate() error {
	if o.Trials <= 0 {
		return core.ErrZeroTrials
	}
	if o.Successes < 0 {
		return core.NewInvalidInputError("successes", "must be non-negative")
	}
	if o.Successes > o.Trials {
		return core.NewInvalidInputError("successes",
			fmt.Sprintf("exceeds trials (%d > %d)", o.Successes, o.Trials))
	}
	return nil
}

// Rate returns the observed success proportion in [0,1]
func (o Observations) Rate() (float64, error) {
	if err := o.Validate(); err != nil {
		return 0, err
	}
	return float64(o.Successes) / float64(o.Trials), nil
}

// PooledRate returns the combined success rate across both variations,
// the shared rate under the null hypothesis of no difference
func PooledRate(a, b Observations) (float64, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}
	if err := b.Validate(); err != nil {
		return 0, err
	}
	return float64(a.Successes+b.Successes) / float64(a.Trials+b.Trials), nil
}

// Variation binds an observation record to a named variation key,
// as produced by file importers
type Variation struct {
	Key core.VariationKey `json:"key"`
	Obs Observations      `json:"observations"`
}

// ============================================================================
// DOMAIN ARTIFACTS
// ============================================================================

// TestResult contains the canonical metrics of one two-proportion comparison.
// INVARIANTS:
// - PValue always present (0.0 to 1.0)
// - SampleSize always present and > 0 (combined trials of both variations)
// - Difference is the absolute rate difference (symmetric in its inputs)
type TestResult struct {
	Method     string  `json:"method"`      // e.g. "ztest", "resampling"
	RateA      float64 `json:"rate_a"`      // Observed control rate
	RateB      float64 `json:"rate_b"`      // Observed treatment rate
	PooledRate float64 `json:"pooled_rate"` // Shared rate under the null
	Difference float64 `json:"difference"`  // |RateA - RateB|
	ZStatistic float64 `json:"z_statistic,omitempty"`
	PValue     float64 `json:"p_value"`
	SampleSize int     `json:"sample_size"`

	// Monte Carlo metadata, set only by simulation-based methods
	Resamples int                      `json:"resamples,omitempty"`
	Seed      int64                    `json:"seed,omitempty"`
	Null      *NullDistributionSummary `json:"null_distribution,omitempty"`
}

// NullDistributionSummary describes the simulated null distribution of the
// absolute rate difference
type NullDistributionSummary struct {
	Mean         float64 `json:"mean"`
	StdDev       float64 `json:"std_dev"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Percentile95 float64 `json:"percentile_95"`
	Percentile99 float64 `json:"percentile_99"`
}

// Experiment pairs a control and a treatment variation
type Experiment struct {
	ID        core.ExperimentID `json:"id"`
	Name      string            `json:"name"`
	Control   Observations      `json:"control"`
	Treatment Observations      `json:"treatment"`
	CreatedAt core.Timestamp    `json:"created_at"`
}

// NewExperiment creates a validated experiment with a fresh identifier
func NewExperiment(name string, control, treatment Observations) (*Experiment, error) {
	if err := control.Validate(); err != nil {
		return nil, fmt.Errorf("control: %w", err)
	}
	if err := treatment.Validate(); err != nil {
		return nil, fmt.Errorf("treatment: %w", err)
	}
	return &Experiment{
		ID:        core.ExperimentID(core.NewID()),
		Name:      name,
		Control:   control,
		Treatment: treatment,
		CreatedAt: core.Now(),
	}, nil
}

// AnalysisResult aggregates the verdicts of every significance test that
// examined an experiment
type AnalysisResult struct {
	ExperimentID core.ExperimentID `json:"experiment_id"`
	Results      []TestResult      `json:"results"`
	Alpha        float64           `json:"alpha"`
	Significant  bool              `json:"significant"` // Every method rejected the null at Alpha
	Agreement    bool              `json:"agreement"`   // Methods agree within tolerance
	// RecommendedSampleSize is the per-group size needed to detect the
	// observed effect with default power, 0 when no effect was observed
	RecommendedSampleSize int            `json:"recommended_sample_size,omitempty"`
	AnalyzedAt            core.Timestamp `json:"analyzed_at"`
}

// PValueByMethod returns the p-value produced by a named method
func (r *AnalysisResult) PValueByMethod(method string) (float64, bool) {
	for _, res := range r.Results {
		if res.Method == method {
			return res.PValue, true
		}
	}
	return 0, false
}
