package app

import (
	"context"
	"testing"

	"goab/adapters/analytic"
	"goab/adapters/montecarlo"
	"goab/adapters/rng"
	"goab/domain/abtest"
	"goab/domain/core"
	"goab/internal/testkit"
	"goab/ports"
)

func newTestService(t *testing.T, repo ports.ExperimentRepository) *ExperimentService {
	t.Helper()
	simulation := montecarlo.NewResamplingReferee(rng.NewDeterministic(), 42)
	simulation.SetResamples(2000)

	svc, err := NewExperimentService([]ports.RefereePort{analytic.NewReferee(), simulation}, repo)
	if err != nil {
		t.Fatalf("NewExperimentService: %v", err)
	}
	return svc
}

func TestAnalyzeClickThroughFixture(t *testing.T) {
	control, treatment := testkit.ClickThroughFixture()
	repo := testkit.NewInMemoryExperimentRepository()
	svc := newTestService(t, repo)

	exp, result, err := svc.Analyze(context.Background(), AnalyzeRequest{
		Name:      "click-through",
		Control:   control,
		Treatment: treatment,
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if len(result.Results) != 2 {
		t.Fatalf("expected 2 test results, got %d", len(result.Results))
	}
	if !result.Significant {
		t.Error("fixture pair should be significant at the default alpha")
	}
	if !result.Agreement {
		t.Error("analytic and resampling methods should agree on the fixture pair")
	}
	analyticP, ok := result.PValueByMethod(abtest.MethodZTest)
	if !ok {
		t.Fatal("missing analytic result")
	}
	if analyticP >= 0.05 {
		t.Errorf("analytic p=%v should reject at 0.05", analyticP)
	}
	if result.RecommendedSampleSize <= 0 {
		t.Error("expected a follow-up sample size recommendation for a nonzero effect")
	}

	// Persistence side effects
	stored, err := repo.GetExperiment(context.Background(), exp.ID)
	if err != nil {
		t.Fatalf("GetExperiment after analyze: %v", err)
	}
	if stored.Control != control {
		t.Errorf("stored control %+v differs from input %+v", stored.Control, control)
	}
	if _, err := repo.GetResult(context.Background(), exp.ID); err != nil {
		t.Fatalf("GetResult after analyze: %v", err)
	}
}

func TestAnalyzeWithoutRepository(t *testing.T) {
	control, treatment := testkit.ClickThroughFixture()
	svc := newTestService(t, nil)

	_, result, err := svc.Analyze(context.Background(), AnalyzeRequest{
		Control:   control,
		Treatment: treatment,
	})
	if err != nil {
		t.Fatalf("Analyze without repository: %v", err)
	}
	if result == nil {
		t.Fatal("expected a result")
	}
}

func TestAnalyzeInvalidInputs(t *testing.T) {
	svc := newTestService(t, nil)
	valid := abtest.Observations{Successes: 10, Trials: 100}

	_, _, err := svc.Analyze(context.Background(), AnalyzeRequest{
		Control:   abtest.Observations{},
		Treatment: valid,
	})
	if !core.IsInvalidInputError(err) {
		t.Errorf("expected invalid-input error for degenerate control, got %v", err)
	}

	_, _, err = svc.Analyze(context.Background(), AnalyzeRequest{
		Control:   valid,
		Treatment: valid,
		Alpha:     1.5,
	})
	if !core.IsNumericDomainError(err) {
		t.Errorf("expected numeric-domain error for alpha=1.5, got %v", err)
	}
}

func TestAnalyzeNoRecommendationForZeroEffect(t *testing.T) {
	svc := newTestService(t, nil)
	arm := abtest.Observations{Successes: 50, Trials: 1000}

	_, result, err := svc.Analyze(context.Background(), AnalyzeRequest{
		Control:   arm,
		Treatment: arm,
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.Significant {
		t.Error("identical arms should not be significant")
	}
	if result.RecommendedSampleSize != 0 {
		t.Errorf("zero observed effect should yield no recommendation, got %d",
			result.RecommendedSampleSize)
	}
}

func TestPlanDelegatesToPowerCalculator(t *testing.T) {
	svc := newTestService(t, nil)

	n, err := svc.Plan(context.Background(), abtest.PowerConfig{
		BaselineRate: 0.02,
		Delta:        0.01,
	})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if n != 3826 {
		t.Errorf("Plan = %d, want 3826", n)
	}

	if _, err := svc.Plan(context.Background(), abtest.PowerConfig{BaselineRate: 0.02}); !core.IsInvalidInputError(err) {
		t.Errorf("expected invalid-input error for zero delta, got %v", err)
	}
}

func TestNewExperimentServiceRequiresReferees(t *testing.T) {
	if _, err := NewExperimentService(nil, nil); !core.IsInvalidInputError(err) {
		t.Errorf("expected invalid-input error for empty referee list, got %v", err)
	}
}
