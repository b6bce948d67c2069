package domain

import (
	"fmt"
	"sort"
	"time"
)

// Thresholds for recommendation warnings
const (
	LongDeliveryThresholdDays = 5
	LowQualityThreshold       = 5.0
)

// Warnings attached to a decision. None of them block the decision.
const (
	WarningLongDelivery           = "long delivery"
	WarningNegativeMargin         = "negative margin"
	WarningLowQuality             = "low quality score"
	WarningDeadlineAtRisk         = "deadline at risk"
	WarningWeightMisconfiguration = "weight misconfiguration"
)

// RankOptions returns a copy of options sorted best first.
// Ties on score fall back to source name, carrier name, then enumeration order.
func RankOptions(options []*FulfillmentOption) []*FulfillmentOption {
	ranked := make([]*FulfillmentOption, len(options))
	copy(ranked, options)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.OverallScore != b.OverallScore {
			return a.OverallScore > b.OverallScore
		}
		if a.Source.Name != b.Source.Name {
			return a.Source.Name < b.Source.Name
		}
		if a.Carrier.Name != b.Carrier.Name {
			return a.Carrier.Name < b.Carrier.Name
		}
		return a.Sequence < b.Sequence
	})
	return ranked
}

// SelectDecision ranks scored options and builds the recommendation.
// options must be in enumeration order.
func SelectDecision(options []*FulfillmentOption) (*FulfillmentDecision, error) {
	if len(options) == 0 {
		return nil, ErrNoOptionsAvailable
	}

	ranked := RankOptions(options)
	best := ranked[0]

	decision := &FulfillmentDecision{
		RecommendedOption:   best,
		AllOptions:          ranked,
		ItemRecommendations: itemRecommendations(options, ranked),
		DecisionRationale:   Rationale(best),
		Warnings:            []string{},
	}
	for _, w := range OptionWarnings(best) {
		decision.AddWarning(w)
	}
	return decision, nil
}

// Rationale renders a one-line pipe-delimited summary of an option
func Rationale(o *FulfillmentOption) string {
	return fmt.Sprintf("%s | %s | score %d | total cost %.2f | %d days | margin %.2f",
		o.Source.Name,
		o.Carrier.Name,
		o.OverallScore,
		o.TotalCost,
		o.EstimatedDeliveryDays,
		o.EstimatedMargin,
	)
}

// OptionWarnings returns the risk warnings for an option
func OptionWarnings(o *FulfillmentOption) []string {
	var warnings []string
	if o.EstimatedDeliveryDays > LongDeliveryThresholdDays {
		warnings = append(warnings, WarningLongDelivery)
	}
	if o.EstimatedMargin < 0 {
		warnings = append(warnings, WarningNegativeMargin)
	}
	if o.QualityScore < LowQualityThreshold {
		warnings = append(warnings, WarningLowQuality)
	}
	return warnings
}

// MissesDeadline reports whether an option shipped at now would arrive after deadline
func MissesDeadline(o *FulfillmentOption, now, deadline time.Time) bool {
	return now.AddDate(0, 0, o.EstimatedDeliveryDays).After(deadline)
}

func itemRecommendations(enumerated, ranked []*FulfillmentOption) []ItemRecommendation {
	var order []string
	seen := make(map[string]bool)
	for _, o := range enumerated {
		if id := o.ProductID(); !seen[id] {
			seen[id] = true
			order = append(order, id)
		}
	}

	best := make(map[string]*FulfillmentOption, len(order))
	for _, o := range ranked {
		if _, ok := best[o.ProductID()]; !ok {
			best[o.ProductID()] = o
		}
	}

	recs := make([]ItemRecommendation, 0, len(order))
	for _, id := range order {
		recs = append(recs, ItemRecommendation{ProductID: id, Option: best[id]})
	}
	return recs
}
