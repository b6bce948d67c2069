package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultWeights(t *testing.T) {
	w := DefaultWeights()

	assert.Equal(t, 0.30, w.Cost)
	assert.Equal(t, 0.30, w.Time)
	assert.Equal(t, 0.20, w.Quality)
	assert.Equal(t, 0.20, w.Margin)
	assert.InDelta(t, 1.0, w.Sum(), 1e-9)
	assert.NoError(t, w.Validate())
}

func TestWeights_Merge(t *testing.T) {
	base := DefaultWeights()

	tests := []struct {
		name     string
		override *PartialWeights
		expected Weights
	}{
		{
			name:     "nil override keeps base",
			override: nil,
			expected: base,
		},
		{
			name:     "single field",
			override: &PartialWeights{Cost: Float64(0.5)},
			expected: Weights{Cost: 0.5, Time: 0.30, Quality: 0.20, Margin: 0.20},
		},
		{
			name: "all fields",
			override: &PartialWeights{
				Cost: Float64(1), Time: Float64(0), Quality: Float64(0), Margin: Float64(0),
			},
			expected: Weights{Cost: 1},
		},
		{
			name:     "explicit zero is honored",
			override: &PartialWeights{Quality: Float64(0)},
			expected: Weights{Cost: 0.30, Time: 0.30, Quality: 0, Margin: 0.20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, base.Merge(tt.override))
		})
	}

	assert.Equal(t, DefaultWeights(), base, "merge must not mutate the receiver")
}

func TestWeights_Validate(t *testing.T) {
	tests := []struct {
		name    string
		weights Weights
		wantErr bool
	}{
		{name: "defaults", weights: DefaultWeights()},
		{name: "cost only", weights: Weights{Cost: 1}},
		{name: "within tolerance", weights: Weights{Cost: 0.3333, Time: 0.3333, Quality: 0.3334}},
		{name: "sum above one", weights: Weights{Cost: 1, Time: 1}, wantErr: true},
		{name: "sum below one", weights: Weights{Cost: 0.5}, wantErr: true},
		{name: "negative weight", weights: Weights{Cost: 1.2, Time: -0.2}, wantErr: true},
		{name: "all zero", weights: Weights{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.weights.Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrWeightMisconfiguration))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
