package application

import (
	"math"

	"github.com/wms-platform/fulfillment-service/internal/domain"
)

func money(v float64) float64 {
	return math.Round(v*100) / 100
}

func oneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}

// ToFulfillmentDecisionDTO converts a domain decision to its response shape.
// Ranks are 1-based positions in AllOptions.
func ToFulfillmentDecisionDTO(d *domain.FulfillmentDecision) *FulfillmentDecisionDTO {
	if d == nil {
		return nil
	}

	ranks := make(map[*domain.FulfillmentOption]int, len(d.AllOptions))
	all := make([]FulfillmentOptionDTO, 0, len(d.AllOptions))
	for i, o := range d.AllOptions {
		ranks[o] = i + 1
		all = append(all, ToFulfillmentOptionDTO(o, i+1))
	}

	items := make([]ItemRecommendationDTO, 0, len(d.ItemRecommendations))
	for _, rec := range d.ItemRecommendations {
		items = append(items, ItemRecommendationDTO{
			ProductID:  rec.ProductID,
			OptionRank: ranks[rec.Option],
		})
	}

	warnings := d.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	return &FulfillmentDecisionDTO{
		OrderID:             d.OrderID,
		RecommendedOption:   ToFulfillmentOptionDTO(d.RecommendedOption, ranks[d.RecommendedOption]),
		AllOptions:          all,
		ItemRecommendations: items,
		DecisionRationale:   d.DecisionRationale,
		Warnings:            warnings,
		Weights: WeightsDTO{
			Cost:    d.Weights.Cost,
			Time:    d.Weights.Time,
			Quality: d.Weights.Quality,
			Margin:  d.Weights.Margin,
		},
		DecidedAt: d.DecidedAt,
	}
}

// ToFulfillmentOptionDTO converts one option
func ToFulfillmentOptionDTO(o *domain.FulfillmentOption, rank int) FulfillmentOptionDTO {
	items := make([]OptionItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OptionItemDTO{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Available: item.Available,
			UnitCost:  money(item.UnitCost),
		})
	}

	details := DetailsDTO{
		DistanceClass:       o.Details.DistanceClass,
		SupplierReliability: o.Details.SupplierReliability,
		StockAvailability:   string(o.Details.StockAvailability),
		QuantityAvailable:   o.Details.QuantityAvailable,
		DeliveryDaysMin:     o.Details.DeliveryDaysMin,
		ProcessingDays:      o.Details.ProcessingDays,
	}
	if p := o.Details.CarrierPerformance; p != nil {
		details.CarrierPerformance = &CarrierPerformanceDTO{
			OnTimeRate:         p.OnTimeRate,
			DamageRate:         p.DamageRate,
			AverageTransitDays: p.AverageTransitDays,
		}
	}

	return FulfillmentOptionDTO{
		Rank: rank,
		Source: SourceDTO{
			Type: string(o.Source.Type),
			ID:   o.Source.ID,
			Name: o.Source.Name,
			City: o.Source.Location.City,
			Zip:  o.Source.Location.Zip,
		},
		Carrier:               CarrierDTO{ID: o.Carrier.ID, Name: o.Carrier.Name},
		Items:                 items,
		ShippingCost:          money(o.ShippingCost),
		ProductCost:           money(o.ProductCost),
		TotalCost:             money(o.TotalCost),
		EstimatedMargin:       money(o.EstimatedMargin),
		EstimatedDeliveryDays: o.EstimatedDeliveryDays,
		QualityScore:          o.QualityScore,
		OverallScore:          o.OverallScore,
		Subscores: SubscoresDTO{
			Cost:    oneDecimal(o.Subscores.Cost),
			Time:    oneDecimal(o.Subscores.Time),
			Quality: oneDecimal(o.Subscores.Quality),
			Margin:  oneDecimal(o.Subscores.Margin),
		},
		Details: details,
	}
}
