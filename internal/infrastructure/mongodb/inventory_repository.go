package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	platformmongo "github.com/wms-platform/fulfillment-service/pkg/mongodb"
)

// StockDocument is one product's stock in one warehouse
type StockDocument struct {
	ProductID         string `bson:"productId"`
	WarehouseID       string `bson:"warehouseId"`
	QuantityAvailable int    `bson:"quantityAvailable"`
}

// InventoryRepository implements domain.InventoryLookup
type InventoryRepository struct {
	collection *platformmongo.InstrumentedCollection
}

func NewInventoryRepository(collection *platformmongo.InstrumentedCollection) *InventoryRepository {
	return &InventoryRepository{collection: collection}
}

// QuantityAvailable returns nil when the warehouse has no record of the product
func (r *InventoryRepository) QuantityAvailable(ctx context.Context, productID, warehouseID string) (*int, error) {
	var doc StockDocument
	found, err := findOne(ctx, r.collection, bson.M{"productId": productID, "warehouseId": warehouseID}, &doc)
	if err != nil {
		return nil, fmt.Errorf("failed to read stock of %s in %s: %w", productID, warehouseID, err)
	}
	if !found {
		return nil, nil
	}
	return &doc.QuantityAvailable, nil
}
