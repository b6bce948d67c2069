package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wms-platform/fulfillment-service/internal/domain"
	"github.com/wms-platform/fulfillment-service/internal/infrastructure/rates"
	platformmongo "github.com/wms-platform/fulfillment-service/pkg/mongodb"
)

var (
	_ domain.WarehouseDirectory = (*WarehouseRepository)(nil)
	_ domain.InventoryLookup    = (*InventoryRepository)(nil)
	_ domain.SupplierDirectory  = (*SupplierRepository)(nil)
	_ domain.CarrierDirectory   = (*CarrierRepository)(nil)
	_ domain.ProductCatalog     = (*ProductRepository)(nil)
	_ rates.TariffSource        = (*TariffRepository)(nil)
)

// Collection names of the fulfillment directory
const (
	WarehousesCollection = "warehouses"
	InventoryCollection  = "inventory"
	SuppliersCollection  = "supplier_offers"
	CarriersCollection   = "carriers"
	TariffsCollection    = "carrier_tariffs"
	ProductsCollection   = "products"
)

// Repositories bundles the read-only directory adapters over one database
type Repositories struct {
	Warehouses *WarehouseRepository
	Inventory  *InventoryRepository
	Suppliers  *SupplierRepository
	Carriers   *CarrierRepository
	Tariffs    *TariffRepository
	Products   *ProductRepository
}

// NewRepositories creates every directory repository
func NewRepositories(client *platformmongo.InstrumentedClient) *Repositories {
	return &Repositories{
		Warehouses: NewWarehouseRepository(client.Collection(WarehousesCollection)),
		Inventory:  NewInventoryRepository(client.Collection(InventoryCollection)),
		Suppliers:  NewSupplierRepository(client.Collection(SuppliersCollection)),
		Carriers:   NewCarrierRepository(client.Collection(CarriersCollection)),
		Tariffs:    NewTariffRepository(client.Collection(TariffsCollection)),
		Products:   NewProductRepository(client.Collection(ProductsCollection)),
	}
}

// EnsureIndexes creates the lookup indexes the adapters query by
func (r *Repositories) EnsureIndexes(ctx context.Context) error {
	indexes := []struct {
		collection *platformmongo.InstrumentedCollection
		models     []mongo.IndexModel
	}{
		{r.Warehouses.collection, []mongo.IndexModel{
			{Keys: bson.D{{Key: "active", Value: 1}}},
		}},
		{r.Inventory.collection, []mongo.IndexModel{
			{Keys: bson.D{{Key: "productId", Value: 1}, {Key: "warehouseId", Value: 1}}, Options: options.Index().SetUnique(true)},
		}},
		{r.Suppliers.collection, []mongo.IndexModel{
			{Keys: bson.D{{Key: "productId", Value: 1}, {Key: "supplierId", Value: 1}}, Options: options.Index().SetUnique(true)},
		}},
		{r.Products.collection, []mongo.IndexModel{
			{Keys: bson.D{{Key: "sku", Value: 1}}},
		}},
	}

	for _, idx := range indexes {
		if err := idx.collection.CreateIndexes(ctx, idx.models); err != nil {
			return fmt.Errorf("failed to create indexes: %w", err)
		}
	}
	return nil
}

// findOne treats a missing document as (false, nil)
func findOne(ctx context.Context, c *platformmongo.InstrumentedCollection, filter bson.M, out interface{}) (bool, error) {
	err := c.FindOne(ctx, filter, out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
