package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/wms-platform/fulfillment-service/internal/domain"
	platformmongo "github.com/wms-platform/fulfillment-service/pkg/mongodb"
)

// ProductRepository implements domain.ProductCatalog
type ProductRepository struct {
	collection *platformmongo.InstrumentedCollection
}

func NewProductRepository(collection *platformmongo.InstrumentedCollection) *ProductRepository {
	return &ProductRepository{collection: collection}
}

func (r *ProductRepository) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	var product domain.Product
	found, err := findOne(ctx, r.collection, bson.M{"_id": productID}, &product)
	if err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", productID, err)
	}
	if !found {
		return nil, nil
	}
	return &product, nil
}
