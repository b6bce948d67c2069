package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wms-platform/fulfillment-service/internal/domain"
	platformmongo "github.com/wms-platform/fulfillment-service/pkg/mongodb"
)

// SupplierRepository implements domain.SupplierDirectory
type SupplierRepository struct {
	collection *platformmongo.InstrumentedCollection
}

func NewSupplierRepository(collection *platformmongo.InstrumentedCollection) *SupplierRepository {
	return &SupplierRepository{collection: collection}
}

// SuppliersForProduct returns every offer for the product, active or not, ordered by supplier id
func (r *SupplierRepository) SuppliersForProduct(ctx context.Context, productID string) ([]domain.SupplierOffer, error) {
	var offers []domain.SupplierOffer
	opts := options.Find().SetSort(bson.D{{Key: "supplierId", Value: 1}})
	if err := r.collection.FindAll(ctx, bson.M{"productId": productID}, &offers, opts); err != nil {
		return nil, fmt.Errorf("failed to list suppliers of %s: %w", productID, err)
	}
	return offers, nil
}
