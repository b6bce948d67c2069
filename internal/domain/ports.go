package domain

import (
	"context"
	"strings"
)

// NeutralReliabilityRating is used when a supplier has no reliability rating on record
const NeutralReliabilityRating = 5.0

// PlaceholderParcelWeightKg is the parcel weight quoted for every option.
// Real weight computation is not done here.
const PlaceholderParcelWeightKg = 1.0

// Warehouse is an owned stocking location
type Warehouse struct {
	ID       string   `json:"id" bson:"_id" yaml:"id"`
	Name     string   `json:"name" bson:"name" yaml:"name"`
	Active   bool     `json:"active" bson:"active" yaml:"active"`
	Location Location `json:"location" bson:"location" yaml:"location"`
}

// SupplierOffer is a supplier registered against one product.
// Optional fields stay nil when the directory does not know them.
type SupplierOffer struct {
	SupplierID            string   `json:"supplierId" bson:"supplierId" yaml:"supplierId"`
	Name                  string   `json:"name" bson:"name" yaml:"name"`
	ProductID             string   `json:"productId" bson:"productId" yaml:"productId"`
	Active                bool     `json:"active" bson:"active" yaml:"active"`
	CostPrice             float64  `json:"costPrice" bson:"costPrice" yaml:"costPrice"`
	MinOrderQuantity      *int     `json:"minOrderQuantity,omitempty" bson:"minOrderQuantity,omitempty" yaml:"minOrderQuantity,omitempty"`
	DefaultCarrierID      string   `json:"defaultCarrierId,omitempty" bson:"defaultCarrierId,omitempty" yaml:"defaultCarrierId,omitempty"`
	ShipsFromCity         string   `json:"shipsFromCity" bson:"shipsFromCity" yaml:"shipsFromCity"`
	ShipsFromZip          string   `json:"shipsFromZip" bson:"shipsFromZip" yaml:"shipsFromZip"`
	ReliabilityRating     *float64 `json:"reliabilityRating,omitempty" bson:"reliabilityRating,omitempty" yaml:"reliabilityRating,omitempty"`
	AverageProcessingDays *int     `json:"averageProcessingDays,omitempty" bson:"averageProcessingDays,omitempty" yaml:"averageProcessingDays,omitempty"`
}

// Reliability returns the rating, or NeutralReliabilityRating when absent
func (s SupplierOffer) Reliability() float64 {
	if s.ReliabilityRating == nil {
		return NeutralReliabilityRating
	}
	return *s.ReliabilityRating
}

// ProcessingDays returns the average processing lag, zero when absent
func (s SupplierOffer) ProcessingDays() int {
	if s.AverageProcessingDays == nil {
		return 0
	}
	return *s.AverageProcessingDays
}

// AcceptsQuantity applies the minimum order quantity, if any
func (s SupplierOffer) AcceptsQuantity(quantity int) bool {
	return s.MinOrderQuantity == nil || quantity >= *s.MinOrderQuantity
}

// CarrierPerformance is a snapshot of a carrier's recent delivery record
type CarrierPerformance struct {
	OnTimeRate         float64 `json:"onTimeRate" bson:"onTimeRate" yaml:"onTimeRate"`
	DamageRate         float64 `json:"damageRate" bson:"damageRate" yaml:"damageRate"`
	AverageTransitDays float64 `json:"averageTransitDays" bson:"averageTransitDays" yaml:"averageTransitDays"`
}

// CarrierProfile is a carrier as known to the carrier directory
type CarrierProfile struct {
	ID            string             `json:"id" bson:"_id" yaml:"id"`
	Name          string             `json:"name" bson:"name" yaml:"name"`
	Active        bool               `json:"active" bson:"active" yaml:"active"`
	ServiceLevels []ServiceLevel     `json:"serviceLevels,omitempty" bson:"serviceLevels,omitempty" yaml:"serviceLevels,omitempty"`
	ZipPrefixes   []string           `json:"zipPrefixes,omitempty" bson:"zipPrefixes,omitempty" yaml:"zipPrefixes,omitempty"`
	Performance   CarrierPerformance `json:"performance" bson:"performance" yaml:"performance"`
}

// SupportsServiceLevel reports whether the carrier offers level. No levels listed means all.
func (c CarrierProfile) SupportsServiceLevel(level ServiceLevel) bool {
	if len(c.ServiceLevels) == 0 || level == "" {
		return true
	}
	for _, l := range c.ServiceLevels {
		if l == level {
			return true
		}
	}
	return false
}

// ServesLane reports whether both ends of the lane fall inside the carrier's coverage.
// No prefixes listed means nationwide coverage.
func (c CarrierProfile) ServesLane(originZip, destZip string) bool {
	if len(c.ZipPrefixes) == 0 {
		return true
	}
	return c.covers(originZip) && c.covers(destZip)
}

func (c CarrierProfile) covers(zip string) bool {
	for _, p := range c.ZipPrefixes {
		if strings.HasPrefix(zip, p) {
			return true
		}
	}
	return false
}

// Ref returns the reference embedded in options
func (c CarrierProfile) Ref() CarrierRef {
	return CarrierRef{ID: c.ID, Name: c.Name}
}

// Product is the catalog view of a product
type Product struct {
	ID        string  `json:"id" bson:"_id" yaml:"id"`
	SKU       string  `json:"sku" bson:"sku" yaml:"sku"`
	Name      string  `json:"name" bson:"name" yaml:"name"`
	CostPrice float64 `json:"costPrice" bson:"costPrice" yaml:"costPrice"`
	SalePrice float64 `json:"salePrice" bson:"salePrice" yaml:"salePrice"`
}

// RateQuery is the key of a shipping rate lookup
type RateQuery struct {
	CarrierID      string
	OriginZip      string
	DestinationZip string
	WeightKg       float64
	ServiceLevel   ServiceLevel
}

// DeliveryBracket is the transit window quoted by a carrier tariff
type DeliveryBracket struct {
	MinDays int `json:"minDays" bson:"minDays" yaml:"minDays"`
	MaxDays int `json:"maxDays" bson:"maxDays" yaml:"maxDays"`
}

// RateQuote is a priced shipping leg
type RateQuote struct {
	TotalCost    float64
	DeliveryDays DeliveryBracket
	Zone         string
}

// InventoryLookup returns the available quantity of a product in a warehouse.
// A nil quantity means the warehouse has no record of the product.
type InventoryLookup interface {
	QuantityAvailable(ctx context.Context, productID, warehouseID string) (*int, error)
}

// WarehouseDirectory lists active warehouses
type WarehouseDirectory interface {
	ActiveWarehouses(ctx context.Context) ([]Warehouse, error)
}

// SupplierDirectory lists suppliers registered against a product
type SupplierDirectory interface {
	SuppliersForProduct(ctx context.Context, productID string) ([]SupplierOffer, error)
}

// CarrierDirectory resolves carriers. GetCarrier returns (nil, nil) for an unknown ID.
type CarrierDirectory interface {
	ListCarriers(ctx context.Context) ([]CarrierProfile, error)
	GetCarrier(ctx context.Context, carrierID string) (*CarrierProfile, error)
}

// RateCalculator prices a shipping leg. A nil quote means the lane is not serviceable.
type RateCalculator interface {
	Quote(ctx context.Context, query RateQuery) (*RateQuote, error)
}

// ProductCatalog resolves product prices. GetProduct returns (nil, nil) for an unknown ID.
type ProductCatalog interface {
	GetProduct(ctx context.Context, productID string) (*Product, error)
}
