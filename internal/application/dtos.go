package application

import "time"

// FulfillmentDecisionDTO is the response of a decision
type FulfillmentDecisionDTO struct {
	OrderID             string                  `json:"orderId"`
	RecommendedOption   FulfillmentOptionDTO    `json:"recommendedOption"`
	AllOptions          []FulfillmentOptionDTO  `json:"allOptions"`
	ItemRecommendations []ItemRecommendationDTO `json:"itemRecommendations"`
	DecisionRationale   string                  `json:"decisionRationale"`
	Warnings            []string                `json:"warnings"`
	Weights             WeightsDTO              `json:"weights"`
	DecidedAt           time.Time               `json:"decidedAt"`
}

// FulfillmentOptionDTO is one ranked option
type FulfillmentOptionDTO struct {
	Rank                  int             `json:"rank"`
	Source                SourceDTO       `json:"source"`
	Carrier               CarrierDTO      `json:"carrier"`
	Items                 []OptionItemDTO `json:"items"`
	ShippingCost          float64         `json:"shippingCost"`
	ProductCost           float64         `json:"productCost"`
	TotalCost             float64         `json:"totalCost"`
	EstimatedMargin       float64         `json:"estimatedMargin"`
	EstimatedDeliveryDays int             `json:"estimatedDeliveryDays"`
	QualityScore          float64         `json:"qualityScore"`
	OverallScore          int             `json:"overallScore"`
	Subscores             SubscoresDTO    `json:"subscores"`
	Details               DetailsDTO      `json:"details"`
}

// SourceDTO is the warehouse or supplier of an option
type SourceDTO struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Name string `json:"name"`
	City string `json:"city"`
	Zip  string `json:"zip"`
}

// CarrierDTO identifies a carrier
type CarrierDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// OptionItemDTO is the quantity of a product an option covers
type OptionItemDTO struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Available bool    `json:"available"`
	UnitCost  float64 `json:"unitCost"`
}

// SubscoresDTO are the normalized metrics behind the overall score
type SubscoresDTO struct {
	Cost    float64 `json:"cost"`
	Time    float64 `json:"time"`
	Quality float64 `json:"quality"`
	Margin  float64 `json:"margin"`
}

// DetailsDTO is diagnostic context of an option
type DetailsDTO struct {
	DistanceClass       string                 `json:"distanceClass,omitempty"`
	CarrierPerformance  *CarrierPerformanceDTO `json:"carrierPerformance,omitempty"`
	SupplierReliability *float64               `json:"supplierReliability,omitempty"`
	StockAvailability   string                 `json:"stockAvailability"`
	QuantityAvailable   *int                   `json:"quantityAvailable,omitempty"`
	DeliveryDaysMin     int                    `json:"deliveryDaysMin,omitempty"`
	ProcessingDays      int                    `json:"processingDays,omitempty"`
}

// CarrierPerformanceDTO is a carrier's recent delivery record
type CarrierPerformanceDTO struct {
	OnTimeRate         float64 `json:"onTimeRate"`
	DamageRate         float64 `json:"damageRate"`
	AverageTransitDays float64 `json:"averageTransitDays"`
}

// ItemRecommendationDTO points at the best option for one order line
type ItemRecommendationDTO struct {
	ProductID  string `json:"productId"`
	OptionRank int    `json:"optionRank"`
}

// WeightsDTO is the weight vector a decision was scored with
type WeightsDTO struct {
	Cost    float64 `json:"cost"`
	Time    float64 `json:"time"`
	Quality float64 `json:"quality"`
	Margin  float64 `json:"margin"`
}
