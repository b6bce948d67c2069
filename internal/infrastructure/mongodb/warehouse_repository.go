package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wms-platform/fulfillment-service/internal/domain"
	platformmongo "github.com/wms-platform/fulfillment-service/pkg/mongodb"
)

// WarehouseRepository implements domain.WarehouseDirectory
type WarehouseRepository struct {
	collection *platformmongo.InstrumentedCollection
}

func NewWarehouseRepository(collection *platformmongo.InstrumentedCollection) *WarehouseRepository {
	return &WarehouseRepository{collection: collection}
}

// ActiveWarehouses returns active warehouses ordered by id
func (r *WarehouseRepository) ActiveWarehouses(ctx context.Context) ([]domain.Warehouse, error) {
	var warehouses []domain.Warehouse
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if err := r.collection.FindAll(ctx, bson.M{"active": true}, &warehouses, opts); err != nil {
		return nil, fmt.Errorf("failed to list warehouses: %w", err)
	}
	return warehouses, nil
}
