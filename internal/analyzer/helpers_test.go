package analyzer

import (
	"testing"

	"github.com/anime-shed/food-inspector-go/internal/preprocess"
)

type rgb struct{ r, g, b uint8 }

// tensorFromFunc builds a tensor whose pixel (x, y) normalizes fill(x, y).
func tensorFromFunc(t *testing.T, fill func(x, y int) rgb) *preprocess.Tensor {
	t.Helper()
	const size = preprocess.ImageSize
	plane := size * size
	data := make([]float32, preprocess.Channels*plane)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			p := fill(x, y)
			idx := y*size + x
			data[idx] = float32(p.r)/127.5 - 1
			data[plane+idx] = float32(p.g)/127.5 - 1
			data[2*plane+idx] = float32(p.b)/127.5 - 1
		}
	}
	tensor, err := preprocess.NewTensor(data)
	if err != nil {
		t.Fatalf("Failed to build tensor: %v", err)
	}
	return tensor
}

func uniformTensor(t *testing.T, c rgb) *preprocess.Tensor {
	t.Helper()
	return tensorFromFunc(t, func(int, int) rgb { return c })
}
