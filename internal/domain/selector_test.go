package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequenced(options ...*FulfillmentOption) []*FulfillmentOption {
	for i, o := range options {
		o.Sequence = i
	}
	return options
}

func TestSelectDecision_Empty(t *testing.T) {
	decision, err := SelectDecision(nil)

	assert.Nil(t, decision)
	assert.True(t, errors.Is(err, ErrNoOptionsAvailable))
}

func TestSelectDecision_RecommendsMaxScore(t *testing.T) {
	options := sequenced(
		option("A", "X", 11, 2, 0, 9),
		option("A", "Y", 14, 1, 0, 6),
		option("S", "Z", 30, 8, 9, -4),
		option("B", "X", 12.5, 4, 3, 2),
	)
	ScoreOptions(options, DefaultWeights())

	decision, err := SelectDecision(options)
	require.NoError(t, err)

	maxScore := options[0].OverallScore
	for _, o := range options {
		if o.OverallScore > maxScore {
			maxScore = o.OverallScore
		}
	}
	assert.Equal(t, maxScore, decision.RecommendedOption.OverallScore)
	assert.Same(t, decision.AllOptions[0], decision.RecommendedOption)
	assert.Len(t, decision.AllOptions, len(options))

	for i := 1; i < len(decision.AllOptions); i++ {
		assert.GreaterOrEqual(t, decision.AllOptions[i-1].OverallScore, decision.AllOptions[i].OverallScore)
	}
}

func TestSelectDecision_CostOnlyPicksCheapest(t *testing.T) {
	options := sequenced(
		option("A", "Y", 14, 1, 0, 6),
		option("S", "Z", 30, 8, 9, -4),
		option("A", "X", 11, 2, 0, 9),
		option("B", "X", 12.5, 4, 3, 2),
	)
	ScoreOptions(options, Weights{Cost: 1})

	decision, err := SelectDecision(options)
	require.NoError(t, err)

	assert.Equal(t, 11.0, decision.RecommendedOption.TotalCost)
	assert.Equal(t, 100, decision.RecommendedOption.OverallScore)
}

func TestRankOptions_TieBreak(t *testing.T) {
	tests := []struct {
		name     string
		options  []*FulfillmentOption
		expected []string
	}{
		{
			name: "source name",
			options: sequenced(
				option("Beta", "X", 10, 1, 0, 0),
				option("Alpha", "X", 10, 1, 0, 0),
			),
			expected: []string{"Alpha/X#1", "Beta/X#0"},
		},
		{
			name: "carrier name within source",
			options: sequenced(
				option("Alpha", "Zeta", 10, 1, 0, 0),
				option("Alpha", "Eta", 10, 1, 0, 0),
			),
			expected: []string{"Alpha/Eta#1", "Alpha/Zeta#0"},
		},
		{
			name: "enumeration order last",
			options: sequenced(
				option("Alpha", "X", 10, 1, 0, 0),
				option("Alpha", "X", 10, 1, 0, 0),
			),
			expected: []string{"Alpha/X#0", "Alpha/X#1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ScoreOptions(tt.options, DefaultWeights())
			ranked := RankOptions(tt.options)

			got := make([]string, 0, len(ranked))
			for _, o := range ranked {
				got = append(got, fmt.Sprintf("%s/%s#%d", o.Source.Name, o.Carrier.Name, o.Sequence))
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestRankOptions_DoesNotReorderInput(t *testing.T) {
	options := sequenced(
		option("A", "Y", 14, 1, 0, 6),
		option("A", "X", 11, 2, 0, 9),
	)
	ScoreOptions(options, Weights{Cost: 1})

	_ = RankOptions(options)

	assert.Equal(t, "Y", options[0].Carrier.ID)
}

func TestSelectDecision_Warnings(t *testing.T) {
	tests := []struct {
		name     string
		option   *FulfillmentOption
		expected []string
	}{
		{
			name:     "healthy supplier option",
			option:   option("S", "X", 10, 3, 8, 4),
			expected: []string{},
		},
		{
			name:     "long delivery",
			option:   option("S", "X", 10, 6, 8, 4),
			expected: []string{WarningLongDelivery},
		},
		{
			name:     "exactly five days is not long",
			option:   option("S", "X", 10, 5, 8, 4),
			expected: []string{},
		},
		{
			name:     "negative margin",
			option:   option("S", "X", 10, 2, 8, -0.01),
			expected: []string{WarningNegativeMargin},
		},
		{
			name:     "warehouse quality is always low",
			option:   option("W", "X", 10, 2, 0, 3),
			expected: []string{WarningLowQuality},
		},
		{
			name:     "all three co-occur",
			option:   option("S", "X", 10, 9, 2, -5),
			expected: []string{WarningLongDelivery, WarningNegativeMargin, WarningLowQuality},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			options := sequenced(tt.option)
			ScoreOptions(options, DefaultWeights())

			decision, err := SelectDecision(options)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, decision.Warnings)
		})
	}
}

func TestRationale(t *testing.T) {
	o := option("Warehouse A", "Carrier X", 11, 2, 0, 9)
	o.OverallScore = 60

	assert.Equal(t, "Warehouse A | Carrier X | score 60 | total cost 11.00 | 2 days | margin 9.00", Rationale(o))
}

func TestSelectDecision_ItemRecommendations(t *testing.T) {
	p1a := option("A", "X", 11, 2, 0, 9)
	p2a := option("A", "X", 40, 3, 0, 1)
	p2a.Items[0].ProductID = "P-2"
	p2b := option("S", "Y", 25, 4, 9, 12)
	p2b.Items[0].ProductID = "P-2"

	options := sequenced(p1a, p2a, p2b)
	ScoreOptions(options, Weights{Cost: 1})

	decision, err := SelectDecision(options)
	require.NoError(t, err)

	require.Len(t, decision.ItemRecommendations, 2)
	assert.Equal(t, "P-1", decision.ItemRecommendations[0].ProductID)
	assert.Same(t, p1a, decision.ItemRecommendations[0].Option)
	assert.Equal(t, "P-2", decision.ItemRecommendations[1].ProductID)
	assert.Same(t, p2b, decision.ItemRecommendations[1].Option)
}

func TestMissesDeadline(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	o := option("A", "X", 10, 3, 0, 0)

	assert.False(t, MissesDeadline(o, now, now.AddDate(0, 0, 3)))
	assert.True(t, MissesDeadline(o, now, now.AddDate(0, 0, 2)))
}

func TestFulfillmentDecision_AddWarningDeduplicates(t *testing.T) {
	d := &FulfillmentDecision{}
	d.AddWarning(WarningDeadlineAtRisk)
	d.AddWarning(WarningDeadlineAtRisk)

	assert.Equal(t, []string{WarningDeadlineAtRisk}, d.Warnings)
	assert.True(t, d.HasWarning(WarningDeadlineAtRisk))
	assert.False(t, d.HasWarning(WarningLongDelivery))
}
