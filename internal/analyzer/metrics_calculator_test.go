package analyzer

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRgbToHSV(t *testing.T) {
	calc := &metricsCalculator{}

	testCases := []struct {
		name    string
		r, g, b uint8
		h, s, v uint8
	}{
		{"Pure Red", 255, 0, 0, 0, 255, 255},
		{"Pure Green", 0, 255, 0, 60, 255, 255},
		{"Pure Blue", 0, 0, 255, 120, 255, 255},
		{"Magenta", 255, 0, 255, 150, 255, 255},
		{"White", 255, 255, 255, 0, 0, 255},
		{"Black", 0, 0, 0, 0, 0, 0},
		{"Gray", 128, 128, 128, 0, 0, 128},
		{"Leaf Green", 50, 200, 50, 60, 191, 200},
		{"Brown", 150, 90, 40, 14, 187, 150},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h, s, v := calc.rgbToHSV(tc.r, tc.g, tc.b)
			require.Equal(t, []uint8{tc.h, tc.s, tc.v}, []uint8{h, s, v})
		})
	}
}

func TestRgbToGray(t *testing.T) {
	calc := &metricsCalculator{}
	require.Equal(t, uint8(0), calc.rgbToGray(0, 0, 0))
	require.Equal(t, uint8(255), calc.rgbToGray(255, 255, 255))
	require.Equal(t, uint8(128), calc.rgbToGray(128, 128, 128))
	require.Equal(t, uint8(76), calc.rgbToGray(255, 0, 0))
}

func TestDenormalize(t *testing.T) {
	require.Equal(t, uint8(0), denormalize(-1))
	require.Equal(t, uint8(255), denormalize(1))
	require.Equal(t, uint8(0), denormalize(-1.5))
	require.Equal(t, uint8(255), denormalize(1.5))

	for p := 0; p <= 255; p++ {
		got := denormalize(float32(p)/127.5 - 1)
		if int(got) != p && int(got) != p-1 {
			t.Fatalf("denormalize round trip of %d gave %d", p, got)
		}
	}
}

func TestReflect101(t *testing.T) {
	require.Equal(t, 1, reflect101(-1, 5))
	require.Equal(t, 0, reflect101(0, 5))
	require.Equal(t, 4, reflect101(4, 5))
	require.Equal(t, 3, reflect101(5, 5))
}

func TestCalculateTextureScore(t *testing.T) {
	calc := &metricsCalculator{}

	uniform := image.NewGray(image.Rect(0, 0, 10, 10))
	for i := range uniform.Pix {
		uniform.Pix[i] = 128
	}
	require.Zero(t, calc.CalculateTextureScore(uniform))

	// Columns 0 0 255 255: the two inner columns see a full step (|gx| = 4*255),
	// the border columns mirror onto equal neighbours.
	step := image.NewGray(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if x >= 2 {
				step.Set(x, y, color.Gray{255})
			}
		}
	}
	require.InDelta(t, 510.0, calc.CalculateTextureScore(step), 1e-9)
}

func TestCalculateStats_UniformGreen(t *testing.T) {
	calc := NewMetricsCalculator()
	stats := calc.CalculateStats(uniformTensor(t, rgb{50, 200, 50}), DefaultThresholds().Brown)

	require.InDelta(t, 191, stats.AvgSaturation, 2)
	require.InDelta(t, 200, stats.AvgValue, 1)
	require.Zero(t, stats.HueStdDev)
	require.Zero(t, stats.TextureScore)
	require.Zero(t, stats.BrownFraction)
}

func TestCalculateStats_HueSpread(t *testing.T) {
	calc := NewMetricsCalculator()
	// Left half red (hue 0), right half green (hue 60): population stddev is 30.
	tensor := tensorFromFunc(t, func(x, _ int) rgb {
		if x < 112 {
			return rgb{255, 0, 0}
		}
		return rgb{0, 255, 0}
	})

	stats := calc.CalculateStats(tensor, DefaultThresholds().Brown)
	require.InDelta(t, 30, stats.HueStdDev, 1e-9)
	require.Greater(t, stats.TextureScore, 0.0)
}

func TestCalculateStats_BrownFraction(t *testing.T) {
	calc := NewMetricsCalculator()
	// Top quarter brown, rest gray.
	tensor := tensorFromFunc(t, func(_, y int) rgb {
		if y < 56 {
			return rgb{150, 90, 40}
		}
		return rgb{128, 128, 128}
	})

	stats := calc.CalculateStats(tensor, DefaultThresholds().Brown)
	require.InDelta(t, 0.25, stats.BrownFraction, 1e-9)

	narrow := BrownBand{HueMin: 0, HueMax: 5, SatMin: 0, SatMax: 255, ValMin: 0, ValMax: 255}
	stats = calc.CalculateStats(tensor, narrow)
	// Gray pixels have hue 0 and fall in the narrow band; brown ones do not.
	require.InDelta(t, 0.75, stats.BrownFraction, 1e-9)
}

func TestCalculateStats_Checkerboard(t *testing.T) {
	calc := NewMetricsCalculator()
	tensor := tensorFromFunc(t, func(x, y int) rgb {
		if (x/4+y/4)%2 == 0 {
			return rgb{0, 0, 0}
		}
		return rgb{255, 255, 255}
	})

	stats := calc.CalculateStats(tensor, DefaultThresholds().Brown)
	require.Greater(t, stats.TextureScore, 50.0)
	require.False(t, math.IsNaN(stats.TextureScore))
}
