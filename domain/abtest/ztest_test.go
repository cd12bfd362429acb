package abtest

import (
	"math"
	"testing"

	"goab/domain/core"
)

// The click-through pair used throughout the gold standard tests:
// 127/5734 vs 174/5851 has a two-sided analytic p-value near 0.0108.
func TestZTestGoldStandard(t *testing.T) {
	a := Observations{Successes: 127, Trials: 5734}
	b := Observations{Successes: 174, Trials: 5851}

	res, err := ZTest(a, b)
	if err != nil {
		t.Fatalf("ZTest: %v", err)
	}

	if math.Abs(res.PValue-0.0108) > 0.001 {
		t.Errorf("PValue = %.5f, want 0.0108 +/- 0.001", res.PValue)
	}
	if res.ZStatistic < 2.5 || res.ZStatistic > 2.65 {
		t.Errorf("ZStatistic = %.4f, want ~2.57", res.ZStatistic)
	}
	if res.SampleSize != 5734+5851 {
		t.Errorf("SampleSize = %d, want %d", res.SampleSize, 5734+5851)
	}
	if res.PValue < 0 || res.PValue > 1 {
		t.Errorf("PValue out of [0,1]: %v", res.PValue)
	}
}

func TestZTestSymmetry(t *testing.T) {
	a := Observations{Successes: 127, Trials: 5734}
	b := Observations{Successes: 174, Trials: 5851}

	ab, err := ZTest(a, b)
	if err != nil {
		t.Fatalf("ZTest(a,b): %v", err)
	}
	ba, err := ZTest(b, a)
	if err != nil {
		t.Fatalf("ZTest(b,a): %v", err)
	}

	if ab.PValue != ba.PValue {
		t.Errorf("p-value not symmetric: %v vs %v", ab.PValue, ba.PValue)
	}
	if ab.ZStatistic != ba.ZStatistic {
		t.Errorf("z-statistic not symmetric: %v vs %v", ab.ZStatistic, ba.ZStatistic)
	}
}

func TestZTestEqualRatesGiveHighP(t *testing.T) {
	a := Observations{Successes: 100, Trials: 1000}
	b := Observations{Successes: 100, Trials: 1000}

	res, err := ZTest(a, b)
	if err != nil {
		t.Fatalf("ZTest: %v", err)
	}
	if res.PValue != 1.0 {
		t.Errorf("identical rates should give p=1.0, got %v", res.PValue)
	}
	if res.ZStatistic != 0 {
		t.Errorf("identical rates should give z=0, got %v", res.ZStatistic)
	}
}

func TestZTestDegenerateInputs(t *testing.T) {
	valid := Observations{Successes: 10, Trials: 100}

	if _, err := ZTest(Observations{}, valid); !core.IsInvalidInputError(err) {
		t.Errorf("expected invalid-input error for zero control trials, got %v", err)
	}
	if _, err := ZTest(valid, Observations{}); !core.IsInvalidInputError(err) {
		t.Errorf("expected invalid-input error for zero treatment trials, got %v", err)
	}

	// Both arms at rate 0 make the pooled variance collapse
	zeroA := Observations{Successes: 0, Trials: 50}
	zeroB := Observations{Successes: 0, Trials: 80}
	if _, err := ZTest(zeroA, zeroB); !core.IsInvalidInputError(err) {
		t.Errorf("expected degenerate-variance error, got %v", err)
	}

	// Both arms at rate 1 as well
	fullA := Observations{Successes: 50, Trials: 50}
	fullB := Observations{Successes: 80, Trials: 80}
	if _, err := ZTest(fullA, fullB); !core.IsInvalidInputError(err) {
		t.Errorf("expected degenerate-variance error, got %v", err)
	}
}

func TestZTestLargerEffectSmallerP(t *testing.T) {
	base := Observations{Successes: 200, Trials: 10000}
	small := Observations{Successes: 220, Trials: 10000}
	large := Observations{Successes: 300, Trials: 10000}

	resSmall, err := ZTest(base, small)
	if err != nil {
		t.Fatalf("ZTest small effect: %v", err)
	}
	resLarge, err := ZTest(base, large)
	if err != nil {
		t.Fatalf("ZTest large effect: %v", err)
	}
	if resLarge.PValue >= resSmall.PValue {
		t.Errorf("larger effect should give smaller p: small=%v large=%v",
			resSmall.PValue, resLarge.PValue)
	}
}
