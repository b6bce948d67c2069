package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func option(source, carrier string, totalCost float64, days int, quality, margin float64) *FulfillmentOption {
	return &FulfillmentOption{
		Source:                Source{Type: SourceWarehouse, ID: source, Name: source},
		Carrier:               CarrierRef{ID: carrier, Name: carrier},
		Items:                 []OptionItem{{ProductID: "P-1", Quantity: 1, Available: true}},
		TotalCost:             totalCost,
		EstimatedDeliveryDays: days,
		QualityScore:          quality,
		EstimatedMargin:       margin,
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		v        float64
		min, max float64
		inverse  bool
		expected float64
	}{
		{name: "min direct", v: 10, min: 10, max: 20, expected: 0},
		{name: "max direct", v: 20, min: 10, max: 20, expected: 100},
		{name: "midpoint", v: 15, min: 10, max: 20, expected: 50},
		{name: "min inverse", v: 10, min: 10, max: 20, inverse: true, expected: 100},
		{name: "max inverse", v: 20, min: 10, max: 20, inverse: true, expected: 0},
		{name: "degenerate", v: 7, min: 7, max: 7, expected: 50},
		{name: "degenerate inverse", v: 7, min: 7, max: 7, inverse: true, expected: 50},
		{name: "negative range", v: -5, min: -10, max: 0, expected: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Normalize(tt.v, tt.min, tt.max, tt.inverse), 1e-9)
		})
	}
}

func TestScoreOptions_DefaultWeightsStayInRange(t *testing.T) {
	options := []*FulfillmentOption{
		option("A", "X", 11, 2, 0, 9),
		option("A", "Y", 14, 1, 0, 6),
		option("S", "Z", 30, 8, 9, -4),
		option("B", "X", 12.5, 4, 3, 2),
	}

	ScoreOptions(options, DefaultWeights())

	for _, o := range options {
		assert.GreaterOrEqual(t, o.OverallScore, 0)
		assert.LessOrEqual(t, o.OverallScore, 100)
		for _, s := range []float64{o.Subscores.Cost, o.Subscores.Time, o.Subscores.Quality, o.Subscores.Margin} {
			assert.GreaterOrEqual(t, s, 0.0)
			assert.LessOrEqual(t, s, 100.0)
		}
	}
}

func TestScoreOptions_IdenticalCostGivesFifty(t *testing.T) {
	options := []*FulfillmentOption{
		option("A", "X", 10, 1, 0, 5),
		option("B", "Y", 10, 3, 7, 2),
		option("C", "Z", 10, 5, 4, 9),
	}

	ScoreOptions(options, DefaultWeights())

	for _, o := range options {
		assert.Equal(t, 50.0, o.Subscores.Cost)
	}
}

func TestScoreOptions_SingleOptionAllDegenerate(t *testing.T) {
	options := []*FulfillmentOption{option("A", "X", 10, 2, 0, 5)}

	ScoreOptions(options, DefaultWeights())

	assert.Equal(t, Subscores{Cost: 50, Time: 50, Quality: 50, Margin: 50}, options[0].Subscores)
	assert.Equal(t, 50, options[0].OverallScore)
}

func TestScoreOptions_PreservesOrder(t *testing.T) {
	options := []*FulfillmentOption{
		option("A", "Y", 14, 1, 0, 6),
		option("A", "X", 11, 2, 0, 9),
	}

	scored := ScoreOptions(options, DefaultWeights())

	require.Len(t, scored, 2)
	assert.Equal(t, "Y", scored[0].Carrier.ID)
	assert.Equal(t, "X", scored[1].Carrier.ID)
}

func TestScoreOptions_UnnormalizedWeightsEscapeRange(t *testing.T) {
	options := []*FulfillmentOption{
		option("A", "X", 10, 1, 9, 20),
		option("B", "Y", 20, 5, 1, 2),
	}

	weights := Weights{Cost: 1, Time: 1, Quality: 1, Margin: 1}
	require.Error(t, weights.Validate())

	ScoreOptions(options, weights)

	// A wins every metric, so its score is 4 x 100 and is not clamped back to 100
	assert.Equal(t, 400, options[0].OverallScore)
	assert.Equal(t, 0, options[1].OverallScore)
}

func TestScoreOptions_Empty(t *testing.T) {
	assert.Empty(t, ScoreOptions(nil, DefaultWeights()))
}
