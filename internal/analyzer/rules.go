package analyzer

const (
	advisoryFair = "The food shows signs of aging. Please verify freshness before donation."
	advisoryPoor = "The food appears to be spoiled and is not suitable for donation."
)

// Rule maps statistics to a verdict when Matches holds.
type Rule struct {
	Freshness  Freshness
	Confidence float64
	Advisory   string
	Matches    func(Stats) bool
}

// Policy is an ordered rule list evaluated first-match-wins, with a fallback
// applied when nothing matches.
type Policy struct {
	Thresholds Thresholds
	Rules      []Rule
	Fallback   Rule
}

// NewPolicy builds the Good → Fair → Poor cascade from thresholds.
func NewPolicy(t Thresholds) *Policy {
	good, fair := t.Good, t.Fair
	return &Policy{
		Thresholds: t,
		Rules: []Rule{
			{
				Freshness:  FreshnessGood,
				Confidence: 0.9,
				Matches: func(s Stats) bool {
					return s.AvgValue > good.MinValue &&
						s.AvgSaturation > good.MinSaturation &&
						s.HueStdDev < good.MaxHueStdDev &&
						s.TextureScore < good.MaxTexture &&
						s.BrownFraction < good.MaxBrownFraction
				},
			},
			{
				Freshness:  FreshnessFair,
				Confidence: 0.6,
				Advisory:   advisoryFair,
				Matches: func(s Stats) bool {
					return s.AvgValue > fair.MinValue &&
						s.AvgSaturation > fair.MinSaturation &&
						s.BrownFraction < fair.MaxBrownFraction &&
						s.TextureScore < fair.MaxTexture
				},
			},
		},
		Fallback: Rule{
			Freshness:  FreshnessPoor,
			Confidence: 0.3,
			Advisory:   advisoryPoor,
		},
	}
}

// DefaultPolicy is NewPolicy(DefaultThresholds()).
func DefaultPolicy() *Policy {
	return NewPolicy(DefaultThresholds())
}

// Evaluate returns the verdict of the first matching rule.
func (p *Policy) Evaluate(s Stats) Verdict {
	for _, r := range p.Rules {
		if r.Matches(s) {
			return r.verdict(s)
		}
	}
	return p.Fallback.verdict(s)
}

func (r Rule) verdict(s Stats) Verdict {
	return Verdict{
		Freshness:  r.Freshness,
		Confidence: r.Confidence,
		Advisory:   r.Advisory,
		Stats:      s,
	}
}
