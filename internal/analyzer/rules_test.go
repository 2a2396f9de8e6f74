package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPolicyEvaluate(t *testing.T) {
	policy := DefaultPolicy()

	good := Stats{AvgSaturation: 100, AvgValue: 180, HueStdDev: 10, TextureScore: 10, BrownFraction: 0.05}

	testCases := []struct {
		name      string
		mutate    func(s *Stats)
		freshness Freshness
	}{
		{"all Good gates pass", func(*Stats) {}, FreshnessGood},
		{"value on Good boundary is not Good", func(s *Stats) { s.AvgValue = 120 }, FreshnessFair},
		{"hue spread too wide", func(s *Stats) { s.HueStdDev = 50 }, FreshnessFair},
		{"texture between gates", func(s *Stats) { s.TextureScore = 40 }, FreshnessFair},
		{"brown between gates", func(s *Stats) { s.BrownFraction = 0.25 }, FreshnessFair},
		{"texture on Fair boundary", func(s *Stats) { s.TextureScore = 50 }, FreshnessPoor},
		{"brown on Fair boundary", func(s *Stats) { s.BrownFraction = 0.35 }, FreshnessPoor},
		{"too dark", func(s *Stats) { s.AvgValue = 80 }, FreshnessPoor},
		{"washed out", func(s *Stats) { s.AvgSaturation = 25 }, FreshnessPoor},
		{"wide hue spread alone does not block Fair", func(s *Stats) { s.HueStdDev = 90 }, FreshnessFair},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := good
			tc.mutate(&s)
			verdict := policy.Evaluate(s)
			require.Equal(t, tc.freshness, verdict.Freshness)
			require.Equal(t, s, verdict.Stats)
		})
	}
}

func TestPolicyEvaluate_FirstMatchWins(t *testing.T) {
	policy := &Policy{
		Rules: []Rule{
			{Freshness: FreshnessFair, Confidence: 0.6, Matches: func(Stats) bool { return true }},
			{Freshness: FreshnessGood, Confidence: 0.9, Matches: func(Stats) bool { return true }},
		},
		Fallback: Rule{Freshness: FreshnessPoor, Confidence: 0.3},
	}

	require.Equal(t, FreshnessFair, policy.Evaluate(Stats{}).Freshness)

	policy.Rules = nil
	require.Equal(t, FreshnessPoor, policy.Evaluate(Stats{}).Freshness)
}
