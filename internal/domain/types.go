package domain

import (
	"fmt"
	"time"
)

// SourceType discriminates where an item would ship from
type SourceType string

const (
	SourceWarehouse SourceType = "warehouse"
	SourceSupplier  SourceType = "supplier"
)

// ServiceLevel is the delivery speed the customer asked for
type ServiceLevel string

const (
	ServiceStandard ServiceLevel = "standard"
	ServiceExpress  ServiceLevel = "express"
	ServiceEconomy  ServiceLevel = "economy"
)

// IsValid reports whether the level is one of the known service levels
func (s ServiceLevel) IsValid() bool {
	switch s {
	case ServiceStandard, ServiceExpress, ServiceEconomy:
		return true
	}
	return false
}

// StockAvailability classifies how well a source covers the requested quantity
type StockAvailability string

const (
	StockFull    StockAvailability = "full"
	StockPartial StockAvailability = "partial"
	StockNone    StockAvailability = "none"
)

// ClassifyStock maps an available quantity against a requested one
func ClassifyStock(available, requested int) StockAvailability {
	switch {
	case available >= requested:
		return StockFull
	case available > 0:
		return StockPartial
	default:
		return StockNone
	}
}

// Address is an order destination
type Address struct {
	Zip      string `json:"zip"`
	City     string `json:"city"`
	Province string `json:"province,omitempty"`
	Country  string `json:"country,omitempty"`
}

// OrderItem is one order line
type OrderItem struct {
	ProductID string `json:"productId"`
	SKU       string `json:"sku,omitempty"`
	Quantity  int    `json:"quantity"`
}

// FulfillmentRequest is the input to a single decision
type FulfillmentRequest struct {
	OrderID      string          `json:"orderId"`
	Items        []OrderItem     `json:"items"`
	Destination  Address         `json:"destination"`
	ServiceLevel ServiceLevel    `json:"serviceLevel"`
	Deadline     *time.Time      `json:"deadline,omitempty"`
	Weights      *PartialWeights `json:"weights,omitempty"`
}

// Validate checks the request shape before any collaborator is called
func (r FulfillmentRequest) Validate() error {
	if len(r.Items) == 0 {
		return fmt.Errorf("%w: at least one item is required", ErrInvalidRequest)
	}
	for i, item := range r.Items {
		if item.ProductID == "" {
			return fmt.Errorf("%w: items[%d].productId is required", ErrInvalidRequest, i)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: items[%d].quantity must be positive", ErrInvalidRequest, i)
		}
	}
	if r.Destination.Zip == "" {
		return fmt.Errorf("%w: destination.zip is required", ErrInvalidRequest)
	}
	if r.ServiceLevel != "" && !r.ServiceLevel.IsValid() {
		return fmt.Errorf("%w: unknown service level %q", ErrInvalidRequest, r.ServiceLevel)
	}
	return nil
}

// EffectiveServiceLevel defaults an empty level to standard
func (r FulfillmentRequest) EffectiveServiceLevel() ServiceLevel {
	if r.ServiceLevel == "" {
		return ServiceStandard
	}
	return r.ServiceLevel
}

// Location is the origin of a shipment
type Location struct {
	City string `json:"city" bson:"city" yaml:"city"`
	Zip  string `json:"zip" bson:"zip" yaml:"zip"`
}

// Source is the warehouse or supplier an option ships from
type Source struct {
	Type     SourceType `json:"type"`
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Location Location   `json:"location"`
}

// CarrierRef identifies the carrier of an option
type CarrierRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// OptionItem is the quantity of one product an option covers
type OptionItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Available bool    `json:"available"`
	UnitCost  float64 `json:"unitCost"`
}

// Subscores are the normalized [0,100] metrics behind OverallScore
type Subscores struct {
	Cost    float64 `json:"cost"`
	Time    float64 `json:"time"`
	Quality float64 `json:"quality"`
	Margin  float64 `json:"margin"`
}

// OptionDetails is diagnostic context carried with an option. It never feeds scoring.
type OptionDetails struct {
	DistanceClass       string              `json:"distanceClass,omitempty"`
	CarrierPerformance  *CarrierPerformance `json:"carrierPerformance,omitempty"`
	SupplierReliability *float64            `json:"supplierReliability,omitempty"`
	StockAvailability   StockAvailability   `json:"stockAvailability"`
	QuantityAvailable   *int                `json:"quantityAvailable,omitempty"`
	DeliveryDaysMin     int                 `json:"deliveryDaysMin,omitempty"`
	ProcessingDays      int                 `json:"processingDays,omitempty"`
}

// FulfillmentOption is one concrete (source, carrier) way to satisfy one item.
// OverallScore only has meaning relative to the options it was scored with.
type FulfillmentOption struct {
	Source                Source        `json:"source"`
	Carrier               CarrierRef    `json:"carrier"`
	Items                 []OptionItem  `json:"items"`
	ShippingCost          float64       `json:"shippingCost"`
	ProductCost           float64       `json:"productCost"`
	TotalCost             float64       `json:"totalCost"`
	EstimatedMargin       float64       `json:"estimatedMargin"`
	EstimatedDeliveryDays int           `json:"estimatedDeliveryDays"`
	QualityScore          float64       `json:"qualityScore"`
	OverallScore          int           `json:"overallScore"`
	Subscores             Subscores     `json:"subscores"`
	Details               OptionDetails `json:"details"`

	// Sequence is the enumeration index, used as the final tie-break
	Sequence int `json:"-"`
}

// ProductID returns the product this option fulfills
func (o *FulfillmentOption) ProductID() string {
	if len(o.Items) == 0 {
		return ""
	}
	return o.Items[0].ProductID
}

// ItemRecommendation is the best option for a single order line
type ItemRecommendation struct {
	ProductID string             `json:"productId"`
	Option    *FulfillmentOption `json:"option"`
}

// FulfillmentDecision is the result of a decision
type FulfillmentDecision struct {
	OrderID             string               `json:"orderId"`
	RecommendedOption   *FulfillmentOption   `json:"recommendedOption"`
	AllOptions          []*FulfillmentOption `json:"allOptions"`
	ItemRecommendations []ItemRecommendation `json:"itemRecommendations"`
	DecisionRationale   string               `json:"decisionRationale"`
	Warnings            []string             `json:"warnings"`
	Weights             Weights              `json:"weights"`
	DecidedAt           time.Time            `json:"decidedAt"`
}

// AddWarning appends a warning once
func (d *FulfillmentDecision) AddWarning(warning string) {
	for _, w := range d.Warnings {
		if w == warning {
			return
		}
	}
	d.Warnings = append(d.Warnings, warning)
}

// HasWarning reports whether the decision carries warning
func (d *FulfillmentDecision) HasWarning(warning string) bool {
	for _, w := range d.Warnings {
		if w == warning {
			return true
		}
	}
	return false
}
