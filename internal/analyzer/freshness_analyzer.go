package analyzer

import (
	"sync/atomic"

	"github.com/anime-shed/food-inspector-go/internal/preprocess"
)

// FreshnessAnalyzer implements FreshnessAssessor. The policy can be replaced
// at runtime; every Assess call works on a single policy snapshot.
type FreshnessAnalyzer struct {
	metricsCalculator MetricsCalculator
	policy            atomic.Pointer[Policy]
}

// NewFreshnessAnalyzer creates an analyzer evaluating the given policy.
// A nil policy selects the defaults.
func NewFreshnessAnalyzer(policy *Policy) *FreshnessAnalyzer {
	if policy == nil {
		policy = DefaultPolicy()
	}
	a := &FreshnessAnalyzer{metricsCalculator: NewMetricsCalculator()}
	a.policy.Store(policy)
	return a
}

// Assess computes every statistic before evaluating the rules.
func (fa *FreshnessAnalyzer) Assess(t *preprocess.Tensor) Verdict {
	policy := fa.policy.Load()
	stats := fa.metricsCalculator.CalculateStats(t, policy.Thresholds.Brown)
	return policy.Evaluate(stats)
}

// Policy returns the active policy.
func (fa *FreshnessAnalyzer) Policy() *Policy {
	return fa.policy.Load()
}

// SetThresholds validates t and swaps in a policy built from it.
func (fa *FreshnessAnalyzer) SetThresholds(t Thresholds) error {
	if err := t.Validate(); err != nil {
		return err
	}
	fa.policy.Store(NewPolicy(t))
	return nil
}
