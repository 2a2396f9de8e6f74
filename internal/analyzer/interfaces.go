package analyzer

import "github.com/anime-shed/food-inspector-go/internal/preprocess"

// FreshnessAssessor turns a normalized tensor into a freshness verdict.
type FreshnessAssessor interface {
	Assess(t *preprocess.Tensor) Verdict
}

// MetricsCalculator handles image metrics computation
type MetricsCalculator interface {
	CalculateStats(t *preprocess.Tensor, band BrownBand) Stats
}
