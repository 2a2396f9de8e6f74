package classifier

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatLabel(t *testing.T) {
	testCases := []struct {
		raw  string
		want string
	}{
		{"apple_pie", "Apple Pie"},
		{"sushi", "Sushi"},
		{"hot_and_sour_soup", "Hot And Sour Soup"},
		{"CHICKEN_WINGS", "Chicken Wings"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			require.Equal(t, tc.want, FormatLabel(tc.raw))
		})
	}
}

func TestRankPredictions(t *testing.T) {
	r := require.New(t)
	classes := []string{"a", "b", "c", "d"}

	preds := RankPredictions([]float32{0.1, 0.5, 0.3, 0.1}, classes, false, 2)
	r.Len(preds, 2)
	r.Equal("b", preds[0].Label)
	r.InDelta(0.5, preds[0].Confidence, 1e-6)
	r.Equal("c", preds[1].Label)

	// Ties keep class order.
	preds = RankPredictions([]float32{0.2, 0.2, 0.2, 0.2}, classes, false, 4)
	r.Equal([]string{"a", "b", "c", "d"}, labelsOf(preds))

	// k <= 0 falls back to the default, capped at the class count.
	preds = RankPredictions([]float32{1, 2, 3, 4}, classes, false, 0)
	r.Len(preds, 4)
	r.Equal("d", preds[0].Label)

	r.Nil(RankPredictions(nil, classes, false, 3))
}

func TestRankPredictions_Softmax(t *testing.T) {
	r := require.New(t)

	preds := RankPredictions([]float32{1, 1}, []string{"x", "y"}, true, 2)
	r.InDelta(0.5, preds[0].Confidence, 1e-9)
	r.InDelta(0.5, preds[1].Confidence, 1e-9)

	preds = RankPredictions([]float32{1000, 0, -1000}, []string{"x", "y", "z"}, true, 3)
	r.Equal("x", preds[0].Label)
	r.InDelta(1.0, preds[0].Confidence, 1e-9)

	var sum float64
	for _, p := range RankPredictions([]float32{0.3, 2.1, -0.7, 1.4}, []string{"a", "b", "c", "d"}, true, 4) {
		r.GreaterOrEqual(p.Confidence, 0.0)
		sum += p.Confidence
	}
	r.InDelta(1.0, sum, 1e-9)
}

func labelsOf(preds []Prediction) []string {
	out := make([]string, len(preds))
	for i, p := range preds {
		out[i] = p.Label
	}
	return out
}
