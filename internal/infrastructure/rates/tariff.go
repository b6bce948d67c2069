package rates

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/wms-platform/fulfillment-service/internal/domain"
)

// Tariff is a carrier's rate card
type Tariff struct {
	CarrierID     string                       `json:"carrierId" bson:"_id" yaml:"carrierId"`
	Zones         []Zone                       `json:"zones" bson:"zones" yaml:"zones"`
	ServiceLevels map[string]ServiceAdjustment `json:"serviceLevels,omitempty" bson:"serviceLevels,omitempty" yaml:"serviceLevels,omitempty"`
}

// Zone prices one lane class. Empty prefixes match any zip.
type Zone struct {
	Name              string                 `json:"name" bson:"name" yaml:"name"`
	OriginPrefix      string                 `json:"originPrefix,omitempty" bson:"originPrefix,omitempty" yaml:"originPrefix,omitempty"`
	DestinationPrefix string                 `json:"destinationPrefix,omitempty" bson:"destinationPrefix,omitempty" yaml:"destinationPrefix,omitempty"`
	DeliveryDays      domain.DeliveryBracket `json:"deliveryDays" bson:"deliveryDays" yaml:"deliveryDays"`
	Brackets          []WeightBracket        `json:"brackets" bson:"brackets" yaml:"brackets"`
}

// WeightBracket is the price of a parcel up to MaxKg
type WeightBracket struct {
	MaxKg float64 `json:"maxKg" bson:"maxKg" yaml:"maxKg"`
	Cost  float64 `json:"cost" bson:"cost" yaml:"cost"`
}

// ServiceAdjustment scales a zone price and shifts its transit window for one service level
type ServiceAdjustment struct {
	CostMultiplier float64 `json:"costMultiplier" bson:"costMultiplier" yaml:"costMultiplier"`
	DaysDelta      int     `json:"daysDelta" bson:"daysDelta" yaml:"daysDelta"`
}

// TariffSource loads rate cards. Tariff returns (nil, nil) for a carrier without one.
type TariffSource interface {
	Tariff(ctx context.Context, carrierID string) (*Tariff, error)
}

// Validate checks the rate card is usable
func (t Tariff) Validate() error {
	if t.CarrierID == "" {
		return fmt.Errorf("tariff: carrier id is required")
	}
	for _, z := range t.Zones {
		if z.Name == "" {
			return fmt.Errorf("tariff %s: zone name is required", t.CarrierID)
		}
		if z.DeliveryDays.MinDays < 0 || z.DeliveryDays.MaxDays < z.DeliveryDays.MinDays {
			return fmt.Errorf("tariff %s: zone %s has an invalid delivery window", t.CarrierID, z.Name)
		}
		for _, b := range z.Brackets {
			if b.MaxKg <= 0 || b.Cost < 0 {
				return fmt.Errorf("tariff %s: zone %s has an invalid weight bracket", t.CarrierID, z.Name)
			}
		}
	}
	for level, adj := range t.ServiceLevels {
		if adj.CostMultiplier <= 0 {
			return fmt.Errorf("tariff %s: service level %s needs a positive cost multiplier", t.CarrierID, level)
		}
	}
	return nil
}

// zoneFor picks the most specific zone covering the lane
func (t Tariff) zoneFor(originZip, destZip string) *Zone {
	var best *Zone
	bestSpecificity := -1
	for i := range t.Zones {
		z := &t.Zones[i]
		if !strings.HasPrefix(originZip, z.OriginPrefix) || !strings.HasPrefix(destZip, z.DestinationPrefix) {
			continue
		}
		specificity := len(z.OriginPrefix) + len(z.DestinationPrefix)
		if specificity > bestSpecificity {
			best, bestSpecificity = z, specificity
		}
	}
	return best
}

// price returns the cost of the lightest bracket that fits weightKg
func (z Zone) price(weightKg float64) (float64, bool) {
	brackets := make([]WeightBracket, len(z.Brackets))
	copy(brackets, z.Brackets)
	sort.Slice(brackets, func(i, j int) bool { return brackets[i].MaxKg < brackets[j].MaxKg })

	for _, b := range brackets {
		if weightKg <= b.MaxKg {
			return b.Cost, true
		}
	}
	return 0, false
}

// Calculator prices shipping legs from carrier tariffs
type Calculator struct {
	source TariffSource
}

// NewCalculator creates a new tariff-backed rate calculator
func NewCalculator(source TariffSource) *Calculator {
	return &Calculator{source: source}
}

// Quote prices one leg. A nil quote means the carrier does not serve it.
func (c *Calculator) Quote(ctx context.Context, q domain.RateQuery) (*domain.RateQuote, error) {
	tariff, err := c.source.Tariff(ctx, q.CarrierID)
	if err != nil {
		return nil, fmt.Errorf("load tariff for carrier %s: %w", q.CarrierID, err)
	}
	if tariff == nil {
		return nil, nil
	}

	zone := tariff.zoneFor(q.OriginZip, q.DestinationZip)
	if zone == nil {
		return nil, nil
	}
	cost, ok := zone.price(q.WeightKg)
	if !ok {
		return nil, nil
	}

	days := zone.DeliveryDays
	if len(tariff.ServiceLevels) > 0 {
		adj, ok := tariff.ServiceLevels[string(q.ServiceLevel)]
		if !ok {
			return nil, nil
		}
		cost *= adj.CostMultiplier
		days = shift(days, adj.DaysDelta)
	}

	return &domain.RateQuote{
		TotalCost:    math.Round(cost*100) / 100,
		DeliveryDays: days,
		Zone:         zone.Name,
	}, nil
}

// shift moves a transit window, never below one day
func shift(b domain.DeliveryBracket, delta int) domain.DeliveryBracket {
	b.MinDays = max(1, b.MinDays+delta)
	b.MaxDays = max(b.MinDays, b.MaxDays+delta)
	return b
}
