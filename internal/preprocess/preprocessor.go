package preprocess

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"
	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultMaxPixels caps width*height of an accepted image.
const DefaultMaxPixels = 40_000_000

var (
	// ErrEmptyImage is returned for images with no pixels.
	ErrEmptyImage = errors.New("image has zero size")
	// ErrTooManyPixels is returned when the header declares more pixels than allowed.
	ErrTooManyPixels = errors.New("image dimensions exceed the pixel limit")
)

// DecodeError reports bytes that could not be turned into an image.
type DecodeError struct {
	MIMEType string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode image (detected %s): %v", e.MIMEType, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decode parses raw image bytes with the default pixel limit. The returned
// format is the decoder name ("jpeg", "png", ...).
func Decode(raw []byte) (image.Image, string, error) {
	return DecodeWithLimit(raw, DefaultMaxPixels)
}

// DecodeWithLimit reads the image header first and refuses to decode images
// whose width*height exceeds maxPixels. A non-positive maxPixels disables the check.
func DecodeWithLimit(raw []byte, maxPixels int) (image.Image, string, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, "", decodeError(raw, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, "", decodeError(raw, ErrEmptyImage)
	}
	if maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return nil, "", decodeError(raw, fmt.Errorf("%w: %dx%d > %d", ErrTooManyPixels, cfg.Width, cfg.Height, maxPixels))
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, "", decodeError(raw, err)
	}
	if img.Bounds().Empty() {
		return nil, "", decodeError(raw, ErrEmptyImage)
	}
	return img, format, nil
}

func decodeError(raw []byte, err error) *DecodeError {
	return &DecodeError{MIMEType: mimetype.Detect(raw).String(), Err: err}
}

// Normalize decodes raw bytes and converts them into a model input tensor.
func Normalize(raw []byte) (*Tensor, error) {
	img, _, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	return FromImage(img), nil
}

// FromImage converts a decoded image to RGB, resizes it to 224x224 and scales
// every channel from [0, 255] to [-1, 1].
func FromImage(img image.Image) *Tensor {
	resized := resize.Resize(ImageSize, ImageSize, toRGB(img), resize.Bilinear)
	bounds := resized.Bounds()

	data := make([]float32, tensorSize)
	for y := 0; y < ImageSize; y++ {
		for x := 0; x < ImageSize; x++ {
			r, g, b, _ := resized.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			idx := y*ImageSize + x
			data[idx] = scale(uint8(r >> 8))
			data[planeSize+idx] = scale(uint8(g >> 8))
			data[2*planeSize+idx] = scale(uint8(b >> 8))
		}
	}
	return &Tensor{data: data}
}

// toRGB drops alpha without compositing, so a transparent pixel keeps its
// stored color. Gray and paletted images expand to three equal channels.
func toRGB(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	switch src := img.(type) {
	case *image.YCbCr:
		for y := 0; y < h; y++ {
			row := dst.Pix[y*dst.Stride:]
			for x := 0; x < w; x++ {
				r, g, b, _ := src.YCbCrAt(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
				setOpaque(row[4*x:], uint8(r>>8), uint8(g>>8), uint8(b>>8))
			}
		}
	case *image.NRGBA:
		for y := 0; y < h; y++ {
			in := src.Pix[src.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
			row := dst.Pix[y*dst.Stride:]
			for x := 0; x < w; x++ {
				setOpaque(row[4*x:], in[4*x], in[4*x+1], in[4*x+2])
			}
		}
	case *image.Gray:
		for y := 0; y < h; y++ {
			in := src.Pix[src.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
			row := dst.Pix[y*dst.Stride:]
			for x := 0; x < w; x++ {
				setOpaque(row[4*x:], in[x], in[x], in[x])
			}
		}
	default:
		if rgba, ok := img.(*image.RGBA); ok && rgba.Opaque() {
			for y := 0; y < h; y++ {
				in := rgba.Pix[rgba.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
				copy(dst.Pix[y*dst.Stride:y*dst.Stride+4*w], in[:4*w])
			}
			return dst
		}
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
				dst.SetRGBA(x-bounds.Min.X, y-bounds.Min.Y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
			}
		}
	}
	return dst
}

func setOpaque(px []uint8, r, g, b uint8) {
	px[0], px[1], px[2], px[3] = r, g, b, 0xff
}

func scale(v uint8) float32 {
	return float32(v)/127.5 - 1
}
