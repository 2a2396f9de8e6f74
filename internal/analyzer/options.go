package analyzer

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Thresholds holds every tunable constant of the freshness rules.
type Thresholds struct {
	Good  GoodThresholds `yaml:"good"`
	Fair  FairThresholds `yaml:"fair"`
	Brown BrownBand      `yaml:"brown"`
}

// GoodThresholds gate the Good verdict. All comparisons are strict.
type GoodThresholds struct {
	MinValue         float64 `yaml:"min_value" validate:"gte=0,lte=255"`
	MinSaturation    float64 `yaml:"min_saturation" validate:"gte=0,lte=255"`
	MaxHueStdDev     float64 `yaml:"max_hue_stddev" validate:"gte=0"`
	MaxTexture       float64 `yaml:"max_texture" validate:"gte=0"`
	MaxBrownFraction float64 `yaml:"max_brown_fraction" validate:"gte=0,lte=1"`
}

// FairThresholds gate the Fair verdict. All comparisons are strict.
type FairThresholds struct {
	MinValue         float64 `yaml:"min_value" validate:"gte=0,lte=255"`
	MinSaturation    float64 `yaml:"min_saturation" validate:"gte=0,lte=255"`
	MaxTexture       float64 `yaml:"max_texture" validate:"gte=0"`
	MaxBrownFraction float64 `yaml:"max_brown_fraction" validate:"gte=0,lte=1"`
}

// BrownBand is the inclusive HSV box counted as browning.
type BrownBand struct {
	HueMin uint8 `yaml:"hue_min" validate:"lte=179"`
	HueMax uint8 `yaml:"hue_max" validate:"lte=179,gtefield=HueMin"`
	SatMin uint8 `yaml:"sat_min"`
	SatMax uint8 `yaml:"sat_max" validate:"gtefield=SatMin"`
	ValMin uint8 `yaml:"val_min"`
	ValMax uint8 `yaml:"val_max" validate:"gtefield=ValMin"`
}

// Contains reports whether an HSV triple falls inside the band.
func (b BrownBand) Contains(h, s, v uint8) bool {
	return h >= b.HueMin && h <= b.HueMax &&
		s >= b.SatMin && s <= b.SatMax &&
		v >= b.ValMin && v <= b.ValMax
}

// DefaultThresholds returns the empirically chosen defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Good: GoodThresholds{
			MinValue:         120,
			MinSaturation:    40,
			MaxHueStdDev:     50,
			MaxTexture:       35,
			MaxBrownFraction: 0.20,
		},
		Fair: FairThresholds{
			MinValue:         80,
			MinSaturation:    25,
			MaxTexture:       50,
			MaxBrownFraction: 0.35,
		},
		Brown: BrownBand{
			HueMin: 10, HueMax: 30,
			SatMin: 50, SatMax: 255,
			ValMin: 20, ValMax: 200,
		},
	}
}

// Validate checks ranges and band ordering.
func (t Thresholds) Validate() error {
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("invalid thresholds: %w", err)
	}
	return nil
}

// LoadThresholds reads a YAML file over the defaults. Keys absent from the
// file keep their default value.
func LoadThresholds(path string) (Thresholds, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Thresholds{}, fmt.Errorf("thresholds: read %q: %w", path, err)
	}

	t := DefaultThresholds()
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Thresholds{}, fmt.Errorf("thresholds: parse yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Thresholds{}, fmt.Errorf("thresholds: %w", err)
	}
	return t, nil
}
