package abtest

import (
	"math"

	"goab/domain/core"
)

// Conventional thresholds used when a PowerConfig leaves them unset
const (
	DefaultAlpha = 0.05
	DefaultPower = 0.8
)

// PowerConfig specifies the assumptions behind a sample size calculation.
// Both groups are assumed to be the same size.
type PowerConfig struct {
	BaselineRate float64 `json:"baseline_rate"`                // Control success rate, in (0,1)
	Delta        float64 `json:"minimum_detectable_difference"` // Signed absolute rate change, nonzero
	Alpha        float64 `json:"significance_threshold"`       // Type-I error threshold, 0 means default
	Power        float64 `json:"target_power"`                 // 1 - type-II error, 0 means default
}

// WithDefaults fills unset thresholds with the conventional values
func (c PowerConfig) WithDefaults() PowerConfig {
	if c.Alpha == 0 {
		c.Alpha = DefaultAlpha
	}
	if c.Power == 0 {
		c.Power = DefaultPower
	}
	return c
}

// Validate checks that every parameter is inside its numeric domain
func (c PowerConfig) Validate() error {
	if c.Delta == 0 {
		return core.ErrZeroDelta
	}
	if c.BaselineRate <= 0 || c.BaselineRate >= 1 {
		return core.NewNumericDomainError("baseline_rate", c.BaselineRate)
	}
	if c.Alpha <= 0 || c.Alpha >= 1 {
		return core.NewNumericDomainError("significance_threshold", c.Alpha)
	}
	if c.Power <= 0 || c.Power >= 1 {
		return core.NewNumericDomainError("target_power", c.Power)
	}
	if treated := c.BaselineRate + c.Delta; treated <= 0 || treated >= 1 {
		return core.NewNumericDomainError("baseline_rate+delta", treated)
	}
	return nil
}

// RequiredSampleSize returns the minimum per-group observation count needed
// to detect an absolute rate change of Delta from BaselineRate at the
// configured significance threshold and power. The large-sample normal
// approximation with equal group sizes is used; other power-analysis
// conventions agree closely but not exactly for large N.
func RequiredSampleSize(cfg PowerConfig) (int, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return 0, err
	}

	pA := cfg.BaselineRate
	pB := pA + cfg.Delta
	pooled := (pA + pB) / 2

	zPower := math.Abs(stdNormal.Quantile(1 - cfg.Power))
	zCrit := stdNormal.Quantile(1 - cfg.Alpha/2)

	sdAlt := math.Sqrt(pA*(1-pA) + pB*(1-pB))
	sdNull := math.Sqrt(2 * pooled * (1 - pooled))

	n := math.Pow(zPower*sdAlt+zCrit*sdNull, 2) / (cfg.Delta * cfg.Delta)
	return int(math.Ceil(n)), nil
}
