package analyzer

import (
	"image"
	"math"

	"github.com/anime-shed/food-inspector-go/internal/preprocess"
	"gonum.org/v1/gonum/stat"
)

const pixelCount = preprocess.ImageSize * preprocess.ImageSize

// metricsCalculator implements MetricsCalculator on the denormalized 8-bit
// reconstruction of a tensor.
type metricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator using Gonum
func NewMetricsCalculator() MetricsCalculator {
	return &metricsCalculator{}
}

// CalculateStats computes all five statistics in a single pass plus a gradient pass.
func (mc *metricsCalculator) CalculateStats(t *preprocess.Tensor, band BrownBand) Stats {
	const size = preprocess.ImageSize

	hues := make([]float64, 0, pixelCount)
	sats := make([]float64, 0, pixelCount)
	vals := make([]float64, 0, pixelCount)
	gray := image.NewGray(image.Rect(0, 0, size, size))
	brown := 0

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			r := denormalize(t.At(0, y, x))
			g := denormalize(t.At(1, y, x))
			b := denormalize(t.At(2, y, x))

			h, s, v := mc.rgbToHSV(r, g, b)
			hues = append(hues, float64(h))
			sats = append(sats, float64(s))
			vals = append(vals, float64(v))
			if band.Contains(h, s, v) {
				brown++
			}

			gray.Pix[y*gray.Stride+x] = mc.rgbToGray(r, g, b)
		}
	}

	_, hueStdDev := stat.PopMeanStdDev(hues, nil)

	return Stats{
		AvgSaturation: stat.Mean(sats, nil),
		AvgValue:      stat.Mean(vals, nil),
		HueStdDev:     hueStdDev,
		TextureScore:  mc.CalculateTextureScore(gray),
		BrownFraction: float64(brown) / float64(pixelCount),
	}
}

// CalculateTextureScore is the mean Sobel gradient magnitude over every pixel,
// with reflect-101 borders.
func (mc *metricsCalculator) CalculateTextureScore(gray *image.Gray) float64 {
	bounds := gray.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width < 2 || height < 2 {
		return 0
	}

	magnitudes := make([]float64, 0, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			gx := float64(mc.calculateSobelX(gray, x, y))
			gy := float64(mc.calculateSobelY(gray, x, y))
			magnitudes = append(magnitudes, math.Sqrt(gx*gx+gy*gy))
		}
	}
	return stat.Mean(magnitudes, nil)
}

// calculateSobelX computes Sobel X gradient
func (mc *metricsCalculator) calculateSobelX(gray *image.Gray, x, y int) int {
	return -1*mc.pixel(gray, x-1, y-1) + 1*mc.pixel(gray, x+1, y-1) +
		-2*mc.pixel(gray, x-1, y) + 2*mc.pixel(gray, x+1, y) +
		-1*mc.pixel(gray, x-1, y+1) + 1*mc.pixel(gray, x+1, y+1)
}

// calculateSobelY computes Sobel Y gradient
func (mc *metricsCalculator) calculateSobelY(gray *image.Gray, x, y int) int {
	return -1*mc.pixel(gray, x-1, y-1) - 2*mc.pixel(gray, x, y-1) - 1*mc.pixel(gray, x+1, y-1) +
		1*mc.pixel(gray, x-1, y+1) + 2*mc.pixel(gray, x, y+1) + 1*mc.pixel(gray, x+1, y+1)
}

// pixel reads gray at (x, y), mirroring out-of-range coordinates without
// repeating the edge pixel (dcb|abcd|cba).
func (mc *metricsCalculator) pixel(gray *image.Gray, x, y int) int {
	bounds := gray.Bounds()
	x = reflect101(x-bounds.Min.X, bounds.Dx()) + bounds.Min.X
	y = reflect101(y-bounds.Min.Y, bounds.Dy()) + bounds.Min.Y
	return int(gray.GrayAt(x, y).Y)
}

func reflect101(i, n int) int {
	if i < 0 {
		return -i
	}
	if i >= n {
		return 2*n - i - 2
	}
	return i
}

// rgbToHSV converts 8-bit RGB to 8-bit HSV with hue halved into [0, 180).
func (mc *metricsCalculator) rgbToHSV(r, g, b uint8) (h, s, v uint8) {
	hi := max(r, g, b)
	lo := min(r, g, b)
	delta := float64(hi) - float64(lo)

	v = hi
	if hi != 0 {
		s = uint8(math.Round(255 * delta / float64(hi)))
	}
	if delta == 0 {
		return 0, s, v
	}

	rf, gf, bf := float64(r), float64(g), float64(b)
	var deg float64
	switch hi {
	case r:
		deg = 60 * (gf - bf) / delta
	case g:
		deg = 120 + 60*(bf-rf)/delta
	default:
		deg = 240 + 60*(rf-gf)/delta
	}
	if deg < 0 {
		deg += 360
	}

	half := math.Round(deg / 2)
	if half >= 180 {
		half -= 180
	}
	return uint8(half), s, v
}

// rgbToGray uses the fixed-point BT.601 luma weights.
func (mc *metricsCalculator) rgbToGray(r, g, b uint8) uint8 {
	return uint8((int(r)*4899 + int(g)*9617 + int(b)*1868 + 8192) >> 14)
}

// denormalize maps a [-1, 1] sample back to [0, 255], truncating.
func denormalize(v float32) uint8 {
	p := (v + 1) * 127.5
	switch {
	case p <= 0:
		return 0
	case p >= 255:
		return 255
	}
	return uint8(p)
}
