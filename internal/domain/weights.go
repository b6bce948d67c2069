package domain

import (
	"fmt"
	"math"
)

// WeightSumTolerance is how far a weight vector may drift from 1 before it is reported
const WeightSumTolerance = 0.001

// Weights is the immutable priority vector used to blend the four subscores
type Weights struct {
	Cost    float64 `json:"cost"`
	Time    float64 `json:"time"`
	Quality float64 `json:"quality"`
	Margin  float64 `json:"margin"`
}

// PartialWeights overrides some of the default weights. Nil fields keep the base value.
type PartialWeights struct {
	Cost    *float64 `json:"cost,omitempty"`
	Time    *float64 `json:"time,omitempty"`
	Quality *float64 `json:"quality,omitempty"`
	Margin  *float64 `json:"margin,omitempty"`
}

// DefaultWeights returns the default blend
func DefaultWeights() Weights {
	return Weights{
		Cost:    0.30,
		Time:    0.30,
		Quality: 0.20,
		Margin:  0.20,
	}
}

// Merge returns a copy of w with the fields set in p replaced. w is left untouched.
func (w Weights) Merge(p *PartialWeights) Weights {
	if p == nil {
		return w
	}
	if p.Cost != nil {
		w.Cost = *p.Cost
	}
	if p.Time != nil {
		w.Time = *p.Time
	}
	if p.Quality != nil {
		w.Quality = *p.Quality
	}
	if p.Margin != nil {
		w.Margin = *p.Margin
	}
	return w
}

// Sum returns the total of all weights
func (w Weights) Sum() float64 {
	return w.Cost + w.Time + w.Quality + w.Margin
}

// Validate reports a vector that is negative or does not sum to 1.
// Scoring never renormalizes; a vector that fails here can push scores outside [0,100].
func (w Weights) Validate() error {
	named := []struct {
		name  string
		value float64
	}{{"cost", w.Cost}, {"time", w.Time}, {"quality", w.Quality}, {"margin", w.Margin}}
	for _, n := range named {
		if n.value < 0 {
			return fmt.Errorf("%w: %s weight is negative (%.3f)", ErrWeightMisconfiguration, n.name, n.value)
		}
	}
	if sum := w.Sum(); math.Abs(sum-1.0) > WeightSumTolerance {
		return fmt.Errorf("%w: weights sum to %.3f, expected 1.0", ErrWeightMisconfiguration, sum)
	}
	return nil
}

// AsMap is used for audit payloads
func (w Weights) AsMap() map[string]float64 {
	return map[string]float64{
		"cost":    w.Cost,
		"time":    w.Time,
		"quality": w.Quality,
		"margin":  w.Margin,
	}
}

// Float64 is a helper for building PartialWeights literals
func Float64(v float64) *float64 {
	return &v
}
