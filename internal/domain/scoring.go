package domain

import "math"

// DegenerateSubscore is assigned when every option ties on a metric
const DegenerateSubscore = 50.0

// Normalize maps v into [0,100] against [min,max]. Inverse rewards lower values.
func Normalize(v, min, max float64, inverse bool) float64 {
	if max == min {
		return DegenerateSubscore
	}
	f := (v - min) / (max - min) * 100
	if inverse {
		return 100 - f
	}
	return f
}

type metricRange struct {
	min, max float64
}

func newMetricRange() metricRange {
	return metricRange{min: math.Inf(1), max: math.Inf(-1)}
}

func (r *metricRange) observe(v float64) {
	r.min = math.Min(r.min, v)
	r.max = math.Max(r.max, v)
}

// ScoreOptions fills Subscores and OverallScore on every option, normalizing against the whole set.
// Order is preserved. The weighted sum is rounded but not clamped, so weights that do not sum
// to 1 can yield scores outside [0,100].
func ScoreOptions(options []*FulfillmentOption, weights Weights) []*FulfillmentOption {
	if len(options) == 0 {
		return options
	}

	cost, days, quality, margin := newMetricRange(), newMetricRange(), newMetricRange(), newMetricRange()
	for _, o := range options {
		cost.observe(o.TotalCost)
		days.observe(float64(o.EstimatedDeliveryDays))
		quality.observe(o.QualityScore)
		margin.observe(o.EstimatedMargin)
	}

	for _, o := range options {
		o.Subscores = Subscores{
			Cost:    Normalize(o.TotalCost, cost.min, cost.max, true),
			Time:    Normalize(float64(o.EstimatedDeliveryDays), days.min, days.max, true),
			Quality: Normalize(o.QualityScore, quality.min, quality.max, false),
			Margin:  Normalize(o.EstimatedMargin, margin.min, margin.max, false),
		}
		o.OverallScore = int(math.Round(
			o.Subscores.Cost*weights.Cost +
				o.Subscores.Time*weights.Time +
				o.Subscores.Quality*weights.Quality +
				o.Subscores.Margin*weights.Margin,
		))
	}
	return options
}
