package cloudevents

import (
	"time"
)

// Event types emitted by the fulfillment service
const (
	FulfillmentDecisionMade = "wms.fulfillment.decision-made"
	FulfillmentNoOption     = "wms.fulfillment.no-option"
)

// SourceFulfillment is the CloudEvents source of this service
const SourceFulfillment = "/wms/fulfillment-service"

// WMSCloudEvent represents a CloudEvents v1.0 compliant event for WMS
type WMSCloudEvent struct {
	SpecVersion     string                 `json:"specversion"`
	Type            string                 `json:"type"`
	Source          string                 `json:"source"`
	Subject         string                 `json:"subject,omitempty"`
	ID              string                 `json:"id"`
	Time            time.Time              `json:"time"`
	DataContentType string                 `json:"datacontenttype,omitempty"`
	Data            interface{}            `json:"data,omitempty"`
	Extensions      map[string]interface{} `json:"extensions,omitempty"`

	CorrelationID string `json:"wmscorrelationid,omitempty"`
	OrderID       string `json:"wmsorderid,omitempty"`
	TraceParent   string `json:"traceparent,omitempty"`
}

// FulfillmentDecisionMadeData is the payload of a decision-made event
type FulfillmentDecisionMadeData struct {
	OrderID               string             `json:"orderId"`
	SourceType            string             `json:"sourceType"`
	SourceID              string             `json:"sourceId"`
	CarrierID             string             `json:"carrierId"`
	TotalCost             float64            `json:"totalCost"`
	EstimatedMargin       float64            `json:"estimatedMargin"`
	EstimatedDeliveryDays int                `json:"estimatedDeliveryDays"`
	OverallScore          int                `json:"overallScore"`
	OptionCount           int                `json:"optionCount"`
	Weights               map[string]float64 `json:"weights"`
	Warnings              []string           `json:"warnings,omitempty"`
	DecidedAt             time.Time          `json:"decidedAt"`
}

// FulfillmentNoOptionData is the payload emitted when no option could be produced
type FulfillmentNoOptionData struct {
	OrderID string `json:"orderId"`
	Reason  string `json:"reason"`
}
