//go:generate go run go.uber.org/mock/mockgen -source=interfaces.go -destination=../mocks/mock_classifier.go -package=mocks

package classifier

import (
	"context"

	"github.com/anime-shed/food-inspector-go/internal/preprocess"
)

// Prediction is one label with its confidence in [0, 1].
type Prediction struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Classifier labels a normalized image. Predictions are ranked by
// confidence, highest first.
type Classifier interface {
	Classify(ctx context.Context, t *preprocess.Tensor) ([]Prediction, error)
	Close() error
}
