package analyzer

// Freshness is the three-level quality judgment of a food image.
type Freshness string

const (
	FreshnessGood Freshness = "Good"
	FreshnessFair Freshness = "Fair"
	FreshnessPoor Freshness = "Poor"
)

// Stats holds the color and texture statistics the rules are evaluated on.
// Hue, saturation and value use 8-bit HSV units: H in [0, 180), S and V in [0, 255].
type Stats struct {
	AvgSaturation float64 `json:"avgSaturation"`
	AvgValue      float64 `json:"avgValue"`
	HueStdDev     float64 `json:"hueStdDev"`
	TextureScore  float64 `json:"textureScore"`
	BrownFraction float64 `json:"brownFraction"`
}

// Verdict is the outcome of one assessment.
type Verdict struct {
	Freshness  Freshness `json:"freshness"`
	Confidence float64   `json:"confidence"`
	// Advisory is empty for Good.
	Advisory string `json:"advisory,omitempty"`
	Stats    Stats  `json:"stats"`
}

// IsEdible reports whether the food may still be donated.
func (v Verdict) IsEdible() bool {
	return v.Freshness != FreshnessPoor
}
