package abtest

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"goab/domain/core"
)

// MethodZTest names the analytic two-proportion z-test
const MethodZTest = "ztest"

var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// ZTest compares two observed proportions with a pooled two-sample
// z-statistic and returns the two-sided p-value under the normal
// approximation. The test is deterministic and symmetric in its arguments.
func ZTest(a, b Observations) (*TestResult, error) {
	rateA, err := a.Rate()
	if err != nil {
		return nil, err
	}
	rateB, err := b.Rate()
	if err != nil {
		return nil, err
	}
	pooled, err := PooledRate(a, b)
	if err != nil {
		return nil, err
	}

	// Variance of the rate difference under the shared-rate null
	variance := pooled * (1 - pooled) * (1/float64(a.Trials) + 1/float64(b.Trials))
	if variance == 0 {
		return nil, core.ErrDegenerateVariance
	}

	z := math.Abs(rateA-rateB) / math.Sqrt(variance)
	pValue := 2 * (1 - stdNormal.CDF(z))

	return &TestResult{
		Method:     MethodZTest,
		RateA:      rateA,
		RateB:      rateB,
		PooledRate: pooled,
		Difference: math.Abs(rateA - rateB),
		ZStatistic: z,
		PValue:     pValue,
		SampleSize: a.Trials + b.Trials,
	}, nil
}
