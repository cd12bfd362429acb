package testkit

import (
	"math/rand"

	"goab/domain/abtest"
	"goab/domain/core"
)

// ClickThroughFixture returns the canonical click-through pair used by the
// gold standard tests: its analytic two-sided p-value is near 0.0108.
func ClickThroughFixture() (control, treatment abtest.Observations) {
	control = abtest.Observations{Successes: 127, Trials: 5734}
	treatment = abtest.Observations{Successes: 174, Trials: 5851}
	return control, treatment
}

// GeneratorConfig specifies a synthetic experiment
type GeneratorConfig struct {
	TrueRateControl   float64
	TrueRateTreatment float64
	Trials            int
	Seed              int64
	Name              string
}

// DefaultGeneratorConfig returns a mildly separated pair with enough trials
// for the normal approximation to hold
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		TrueRateControl:   0.05,
		TrueRateTreatment: 0.06,
		Trials:            5000,
		Seed:              42,
		Name:              "synthetic",
	}
}

// GenerateExperiment draws both arms from their true rates with a seeded
// generator, so the same config always produces the same experiment
func GenerateExperiment(cfg GeneratorConfig) (*abtest.Experiment, error) {
	if cfg.Trials <= 0 {
		return nil, core.ErrZeroTrials
	}
	stream := rand.New(rand.NewSource(cfg.Seed))

	control := abtest.Observations{
		Successes: drawBinomial(stream, cfg.Trials, cfg.TrueRateControl),
		Trials:    cfg.Trials,
	}
	treatment := abtest.Observations{
		Successes: drawBinomial(stream, cfg.Trials, cfg.TrueRateTreatment),
		Trials:    cfg.Trials,
	}
	return abtest.NewExperiment(cfg.Name, control, treatment)
}

func drawBinomial(stream *rand.Rand, n int, p float64) int {
	count := 0
	for i := 0; i < n; i++ {
		if stream.Float64() < p {
			count++
		}
	}
	return count
}
