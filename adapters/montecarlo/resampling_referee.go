package montecarlo

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sync"

	mstats "github.com/montanaflynn/stats"
	"golang.org/x/sync/semaphore"

	"goab/domain/abtest"
	"goab/ports"
)

// MethodResampling names the simulation-based significance test
const MethodResampling = "resampling"

const (
	// DefaultResamples balances Monte Carlo error (~1/sqrt(n)) against runtime
	DefaultResamples = 10000
	minResamples     = 100
	maxResamples     = 1000000

	// chunkSize controls how many resamples each worker stream owns
	chunkSize = 500
)

// ResamplingReferee estimates the two-sided p-value of a rate difference by
// redrawing both variations from the pooled rate and counting how often the
// simulated absolute difference exceeds the observed one.
type ResamplingReferee struct {
	rngPort   ports.RNGPort
	seed      int64
	resamples int
	workers   int
}

// NewResamplingReferee creates a resampling referee with default settings.
// The seed fully determines the result for a given input pair.
func NewResamplingReferee(rngPort ports.RNGPort, seed int64) *ResamplingReferee {
	return &ResamplingReferee{
		rngPort:   rngPort,
		seed:      seed,
		resamples: DefaultResamples,
		workers:   runtime.GOMAXPROCS(0),
	}
}

// SetResamples configures the number of Monte Carlo resamples.
// Values outside [100, 1000000] are clamped to the nearest bound.
func (r *ResamplingReferee) SetResamples(n int) {
	if n < minResamples {
		n = minResamples
	}
	if n > maxResamples {
		n = maxResamples
	}
	r.resamples = n
}

// SetWorkers bounds the concurrent resampling workers
func (r *ResamplingReferee) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	r.workers = n
}

// Name returns the test method name
func (r *ResamplingReferee) Name() string {
	return MethodResampling
}

// Validate runs the resampling test. The two variations are put in a
// canonical order first so that swapping the arguments reproduces the
// exact same draws and therefore the exact same p-value.
func (r *ResamplingReferee) Validate(ctx context.Context, control, treatment abtest.Observations) (*abtest.TestResult, error) {
	rateA, err := control.Rate()
	if err != nil {
		return nil, err
	}
	rateB, err := treatment.Rate()
	if err != nil {
		return nil, err
	}
	pooled, err := abtest.PooledRate(control, treatment)
	if err != nil {
		return nil, err
	}
	observed := math.Abs(rateA - rateB)

	first, second := canonicalOrder(control, treatment)

	nullDiffs := make([]float64, r.resamples)
	sem := semaphore.NewWeighted(int64(r.workers))

	var wg sync.WaitGroup
	var mu sync.Mutex
	var workerErr error

	for start := 0; start < r.resamples; start += chunkSize {
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return nil, err
		}
		wg.Add(1)
		go func(start int) {
			defer sem.Release(1)
			defer wg.Done()

			// Each chunk draws from its own named stream, so the null
			// distribution does not depend on goroutine scheduling.
			stream, err := r.rngPort.SeededStream(ctx, fmt.Sprintf("resample-chunk-%d", start), r.seed)
			if err != nil {
				mu.Lock()
				if workerErr == nil {
					workerErr = err
				}
				mu.Unlock()
				return
			}

			end := start + chunkSize
			if end > r.resamples {
				end = r.resamples
			}
			for i := start; i < end; i++ {
				simFirst := drawBinomial(stream, first.Trials, pooled) / float64(first.Trials)
				simSecond := drawBinomial(stream, second.Trials, pooled) / float64(second.Trials)
				nullDiffs[i] = math.Abs(simFirst - simSecond)
			}
		}(start)
	}
	wg.Wait()
	if workerErr != nil {
		return nil, workerErr
	}

	// Empirical two-sided p-value: fraction of null draws strictly beyond
	// the observed difference
	exceed := 0
	for _, d := range nullDiffs {
		if d > observed {
			exceed++
		}
	}
	pValue := float64(exceed) / float64(r.resamples)

	return &abtest.TestResult{
		Method:     MethodResampling,
		RateA:      rateA,
		RateB:      rateB,
		PooledRate: pooled,
		Difference: observed,
		PValue:     pValue,
		SampleSize: control.Trials + treatment.Trials,
		Resamples:  r.resamples,
		Seed:       r.seed,
		Null:       summarizeNull(nullDiffs),
	}, nil
}

// canonicalOrder sorts a variation pair deterministically so the test is
// exactly symmetric in its arguments
func canonicalOrder(a, b abtest.Observations) (abtest.Observations, abtest.Observations) {
	if a.Trials > b.Trials || (a.Trials == b.Trials && a.Successes > b.Successes) {
		return b, a
	}
	return a, b
}

// drawBinomial samples a success count from Binomial(n, p) as a sum of
// Bernoulli draws off the stream
func drawBinomial(stream *rand.Rand, n int, p float64) float64 {
	count := 0
	for i := 0; i < n; i++ {
		if stream.Float64() < p {
			count++
		}
	}
	return float64(count)
}

func summarizeNull(diffs []float64) *abtest.NullDistributionSummary {
	mean, _ := mstats.Mean(diffs)
	stdDev, _ := mstats.StandardDeviation(diffs)
	min, _ := mstats.Min(diffs)
	max, _ := mstats.Max(diffs)
	p95, _ := mstats.Percentile(diffs, 95)
	p99, _ := mstats.Percentile(diffs, 99)

	return &abtest.NullDistributionSummary{
		Mean:         mean,
		StdDev:       stdDev,
		Min:          min,
		Max:          max,
		Percentile95: p95,
		Percentile99: p99,
	}
}
