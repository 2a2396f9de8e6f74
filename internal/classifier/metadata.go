package classifier

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/anime-shed/food-inspector-go/internal/preprocess"
	"github.com/go-playground/validator/v10"
)

// Layout is the memory order the model expects its input in.
type Layout string

const (
	LayoutNHWC Layout = "NHWC"
	LayoutNCHW Layout = "NCHW"
)

var validate = validator.New()

// Metadata describes the model's tensors and class list.
type Metadata struct {
	InputName    string   `json:"input_name" validate:"required"`
	OutputName   string   `json:"output_name" validate:"required"`
	InputShape   []int64  `json:"input_shape" validate:"required,min=1,dive,gt=0"`
	OutputShape  []int64  `json:"output_shape" validate:"required,min=1,dive,gt=0"`
	Layout       Layout   `json:"layout" validate:"oneof=NHWC NCHW"`
	ApplySoftmax bool     `json:"apply_softmax"`
	Classes      []string `json:"classes" validate:"required,min=1,dive,required"`
}

// LoadMetadata reads and validates a metadata JSON file. Missing names
// default to "input" and "output", a missing layout to NHWC.
func LoadMetadata(path string) (Metadata, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to read metadata: %w", err)
	}

	md := Metadata{InputName: "input", OutputName: "output", Layout: LayoutNHWC}
	if err := json.Unmarshal(raw, &md); err != nil {
		return Metadata{}, fmt.Errorf("failed to parse metadata: %w", err)
	}
	if err := md.Validate(); err != nil {
		return Metadata{}, err
	}
	return md, nil
}

// Validate checks the metadata against the preprocessed tensor size.
func (m Metadata) Validate() error {
	if err := validate.Struct(m); err != nil {
		return fmt.Errorf("invalid metadata: %w", err)
	}

	if got := flattened(m.InputShape); got != preprocess.ImageSize*preprocess.ImageSize*preprocess.Channels {
		return fmt.Errorf("invalid metadata: input shape %v holds %d values, want %d",
			m.InputShape, got, preprocess.ImageSize*preprocess.ImageSize*preprocess.Channels)
	}
	if got := flattened(m.OutputShape); got != int64(len(m.Classes)) {
		return fmt.Errorf("invalid metadata: output shape %v holds %d values for %d classes",
			m.OutputShape, got, len(m.Classes))
	}
	return nil
}

func flattened(shape []int64) int64 {
	n := int64(1)
	for _, d := range shape {
		n *= d
	}
	return n
}
