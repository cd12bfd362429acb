package analytic

import (
	"context"

	"goab/domain/abtest"
	"goab/ports"
)

var _ ports.RefereePort = (*Referee)(nil)

// Referee adapts the closed-form z-test to the referee contract so the
// analysis pipeline can run it alongside simulation-based methods
type Referee struct{}

// NewReferee creates the analytic referee
func NewReferee() *Referee {
	return &Referee{}
}

// Name returns the test method name
func (r *Referee) Name() string {
	return abtest.MethodZTest
}

// Validate runs the pooled two-proportion z-test
func (r *Referee) Validate(ctx context.Context, control, treatment abtest.Observations) (*abtest.TestResult, error) {
	return abtest.ZTest(control, treatment)
}
