package application

import (
	"time"

	"github.com/wms-platform/fulfillment-service/internal/domain"
)

// DecideFulfillmentCommand asks for a fulfillment recommendation for one order.
// It is the HTTP request body and the Temporal activity input.
type DecideFulfillmentCommand struct {
	OrderID      string             `json:"orderId" binding:"required,max=64"`
	Items        []OrderItemCommand `json:"items" binding:"required,min=1,max=100,dive"`
	Destination  AddressCommand     `json:"destination"`
	ServiceLevel string             `json:"serviceLevel,omitempty" binding:"omitempty,service_level"`
	Deadline     *time.Time         `json:"deadline,omitempty"`
	Weights      *WeightsCommand    `json:"weights,omitempty"`
}

// OrderItemCommand is one order line
type OrderItemCommand struct {
	ProductID string `json:"productId" binding:"required,max=64"`
	SKU       string `json:"sku,omitempty" binding:"omitempty,sku"`
	Quantity  int    `json:"quantity" binding:"required,gt=0,lte=10000"`
}

// AddressCommand is the order destination
type AddressCommand struct {
	Zip      string `json:"zip" binding:"required,postal_code"`
	City     string `json:"city,omitempty" binding:"omitempty,max=100"`
	Province string `json:"province,omitempty" binding:"omitempty,max=100"`
	Country  string `json:"country,omitempty" binding:"omitempty,len=2"`
}

// WeightsCommand overrides some of the scoring weights for this order only.
// Values that do not sum to 1 are accepted and reported as a warning.
type WeightsCommand struct {
	Cost    *float64 `json:"cost,omitempty" binding:"omitempty,gte=0"`
	Time    *float64 `json:"time,omitempty" binding:"omitempty,gte=0"`
	Quality *float64 `json:"quality,omitempty" binding:"omitempty,gte=0"`
	Margin  *float64 `json:"margin,omitempty" binding:"omitempty,gte=0"`
}

// ToDomain converts the command to the engine's request type
func (c DecideFulfillmentCommand) ToDomain() domain.FulfillmentRequest {
	items := make([]domain.OrderItem, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, domain.OrderItem{
			ProductID: item.ProductID,
			SKU:       item.SKU,
			Quantity:  item.Quantity,
		})
	}

	req := domain.FulfillmentRequest{
		OrderID: c.OrderID,
		Items:   items,
		Destination: domain.Address{
			Zip:      c.Destination.Zip,
			City:     c.Destination.City,
			Province: c.Destination.Province,
			Country:  c.Destination.Country,
		},
		ServiceLevel: domain.ServiceLevel(c.ServiceLevel),
		Deadline:     c.Deadline,
	}

	if c.Weights != nil {
		req.Weights = &domain.PartialWeights{
			Cost:    c.Weights.Cost,
			Time:    c.Weights.Time,
			Quality: c.Weights.Quality,
			Margin:  c.Weights.Margin,
		}
	}
	return req
}
