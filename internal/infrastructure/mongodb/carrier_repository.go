package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wms-platform/fulfillment-service/internal/domain"
	"github.com/wms-platform/fulfillment-service/internal/infrastructure/rates"
	platformmongo "github.com/wms-platform/fulfillment-service/pkg/mongodb"
)

// CarrierRepository implements domain.CarrierDirectory
type CarrierRepository struct {
	collection *platformmongo.InstrumentedCollection
}

func NewCarrierRepository(collection *platformmongo.InstrumentedCollection) *CarrierRepository {
	return &CarrierRepository{collection: collection}
}

// ListCarriers returns every carrier ordered by id. Inactive carriers are included.
func (r *CarrierRepository) ListCarriers(ctx context.Context) ([]domain.CarrierProfile, error) {
	var carriers []domain.CarrierProfile
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if err := r.collection.FindAll(ctx, bson.M{}, &carriers, opts); err != nil {
		return nil, fmt.Errorf("failed to list carriers: %w", err)
	}
	return carriers, nil
}

func (r *CarrierRepository) GetCarrier(ctx context.Context, carrierID string) (*domain.CarrierProfile, error) {
	var carrier domain.CarrierProfile
	found, err := findOne(ctx, r.collection, bson.M{"_id": carrierID}, &carrier)
	if err != nil {
		return nil, fmt.Errorf("failed to get carrier %s: %w", carrierID, err)
	}
	if !found {
		return nil, nil
	}
	return &carrier, nil
}

// TariffRepository implements rates.TariffSource
type TariffRepository struct {
	collection *platformmongo.InstrumentedCollection
}

func NewTariffRepository(collection *platformmongo.InstrumentedCollection) *TariffRepository {
	return &TariffRepository{collection: collection}
}

func (r *TariffRepository) Tariff(ctx context.Context, carrierID string) (*rates.Tariff, error) {
	var tariff rates.Tariff
	found, err := findOne(ctx, r.collection, bson.M{"_id": carrierID}, &tariff)
	if err != nil {
		return nil, fmt.Errorf("failed to get tariff of %s: %w", carrierID, err)
	}
	if !found {
		return nil, nil
	}
	return &tariff, nil
}
