package classifier

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultTopK is the number of predictions returned when none is configured.
const DefaultTopK = 5

var titleCaser = cases.Title(language.Und)

// FormatLabel turns a raw class name such as "apple_pie" into "Apple Pie".
func FormatLabel(raw string) string {
	return titleCaser.String(strings.ReplaceAll(raw, "_", " "))
}

// RankPredictions pairs scores with classes and returns the k best, highest
// first. Ties keep class order. Scores beyond the class list are ignored.
func RankPredictions(scores []float32, classes []string, applySoftmax bool, k int) []Prediction {
	n := min(len(scores), len(classes))
	if n == 0 {
		return nil
	}

	probs := make([]float64, n)
	for i := range probs {
		probs[i] = float64(scores[i])
	}
	if applySoftmax {
		softmax(probs)
	}

	preds := make([]Prediction, n)
	for i := range preds {
		preds[i] = Prediction{Label: classes[i], Confidence: probs[i]}
	}
	sort.SliceStable(preds, func(i, j int) bool {
		return preds[i].Confidence > preds[j].Confidence
	})

	if k <= 0 {
		k = DefaultTopK
	}
	if k < len(preds) {
		preds = preds[:k]
	}
	return preds
}

func softmax(xs []float64) {
	hi := math.Inf(-1)
	for _, x := range xs {
		hi = math.Max(hi, x)
	}

	var sum float64
	for i, x := range xs {
		xs[i] = math.Exp(x - hi)
		sum += xs[i]
	}
	for i := range xs {
		xs[i] /= sum
	}
}
