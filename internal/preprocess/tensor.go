package preprocess

import "fmt"

const (
	// ImageSize is the spatial edge length of every tensor.
	ImageSize = 224
	// Channels is the number of color channels (R, G, B).
	Channels = 3

	planeSize  = ImageSize * ImageSize
	tensorSize = Channels * planeSize
)

// Tensor is a normalized 3x224x224 image stored channel-major, each sample in [-1, 1].
// A Tensor is never modified after construction.
type Tensor struct {
	data []float32
}

// NewTensor validates a channel-major sample slice and takes a private copy of it.
func NewTensor(chw []float32) (*Tensor, error) {
	if len(chw) != tensorSize {
		return nil, fmt.Errorf("tensor must hold %d samples, got %d", tensorSize, len(chw))
	}
	for i, v := range chw {
		if v < -1 || v > 1 {
			return nil, fmt.Errorf("sample %d out of range [-1, 1]: %f", i, v)
		}
	}
	data := make([]float32, tensorSize)
	copy(data, chw)
	return &Tensor{data: data}, nil
}

// At returns the sample for channel c at row y, column x.
func (t *Tensor) At(c, y, x int) float32 {
	return t.data[c*planeSize+y*ImageSize+x]
}

// Len returns the total number of samples.
func (t *Tensor) Len() int {
	return len(t.data)
}

// CHW returns a copy of the samples in channel-major (NCHW without batch) order.
func (t *Tensor) CHW() []float32 {
	out := make([]float32, len(t.data))
	copy(out, t.data)
	return out
}

// HWC returns a copy of the samples in interleaved (NHWC without batch) order.
func (t *Tensor) HWC() []float32 {
	out := make([]float32, len(t.data))
	for y := 0; y < ImageSize; y++ {
		for x := 0; x < ImageSize; x++ {
			base := (y*ImageSize + x) * Channels
			for c := 0; c < Channels; c++ {
				out[base+c] = t.At(c, y, x)
			}
		}
	}
	return out
}
