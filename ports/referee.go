package ports

import (
	"context"

	"goab/domain/abtest"
)

// RefereePort runs one significance test over a pair of variations.
// Implementations must be symmetric in their two arguments: swapping
// control and treatment never changes the returned p-value.
type RefereePort interface {
	// Name identifies the test method (e.g. "ztest", "resampling")
	Name() string

	// Validate compares the two variations and returns the test result,
	// or an invalid-input error when either variation is degenerate
	Validate(ctx context.Context, control, treatment abtest.Observations) (*abtest.TestResult, error)
}
