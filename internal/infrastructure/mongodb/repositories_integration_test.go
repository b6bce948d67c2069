//go:build integration

package mongodb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"

	"github.com/wms-platform/fulfillment-service/internal/domain"
	"github.com/wms-platform/fulfillment-service/internal/infrastructure/rates"
	"github.com/wms-platform/fulfillment-service/pkg/logging"
	platformmongo "github.com/wms-platform/fulfillment-service/pkg/mongodb"
)

type RepositoriesIntegrationTestSuite struct {
	suite.Suite
	mongoContainer *mongodb.MongoDBContainer
	client         *platformmongo.Client
	repos          *Repositories
	ctx            context.Context
}

func (s *RepositoriesIntegrationTestSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := mongodb.Run(s.ctx, "mongo:6")
	s.Require().NoError(err)
	s.mongoContainer = container

	connStr, err := container.ConnectionString(s.ctx)
	s.Require().NoError(err)

	cfg := platformmongo.DefaultConfig()
	cfg.URI = connStr
	cfg.Database = "fulfillment_test"

	client, err := platformmongo.NewClient(s.ctx, cfg)
	s.Require().NoError(err)
	s.client = client

	s.repos = NewRepositories(platformmongo.NewInstrumentedClient(client, nil, logging.NewNop()))
	s.Require().NoError(s.repos.EnsureIndexes(s.ctx))
}

func (s *RepositoriesIntegrationTestSuite) TearDownSuite() {
	if s.client != nil {
		_ = s.client.Close(s.ctx)
	}
	if s.mongoContainer != nil {
		s.Require().NoError(s.mongoContainer.Terminate(s.ctx))
	}
}

func (s *RepositoriesIntegrationTestSuite) TearDownTest() {
	for _, name := range []string{WarehousesCollection, InventoryCollection, SuppliersCollection, CarriersCollection, TariffsCollection, ProductsCollection} {
		_, _ = s.client.Collection(name).DeleteMany(s.ctx, map[string]interface{}{})
	}
}

func (s *RepositoriesIntegrationTestSuite) insert(collection string, docs ...interface{}) {
	_, err := s.client.Collection(collection).InsertMany(s.ctx, docs)
	s.Require().NoError(err)
}

func TestRepositoriesIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	suite.Run(t, new(RepositoriesIntegrationTestSuite))
}

func (s *RepositoriesIntegrationTestSuite) TestWarehouseRepository_ActiveWarehousesOrderedByID() {
	s.insert(WarehousesCollection,
		domain.Warehouse{ID: "WH-B", Name: "B", Active: true, Location: domain.Location{City: "Vancouver", Zip: "V6B"}},
		domain.Warehouse{ID: "WH-A", Name: "A", Active: true, Location: domain.Location{City: "Toronto", Zip: "M5V"}},
		domain.Warehouse{ID: "WH-C", Name: "C", Active: false},
	)

	warehouses, err := s.repos.Warehouses.ActiveWarehouses(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(warehouses, 2)
	s.Equal("WH-A", warehouses[0].ID)
	s.Equal("M5V", warehouses[0].Location.Zip)
	s.Equal("WH-B", warehouses[1].ID)
}

func (s *RepositoriesIntegrationTestSuite) TestInventoryRepository_QuantityAvailable() {
	s.insert(InventoryCollection, StockDocument{ProductID: "P-1", WarehouseID: "WH-A", QuantityAvailable: 7})

	q, err := s.repos.Inventory.QuantityAvailable(s.ctx, "P-1", "WH-A")
	s.Require().NoError(err)
	s.Require().NotNil(q)
	s.Equal(7, *q)

	q, err = s.repos.Inventory.QuantityAvailable(s.ctx, "P-1", "WH-B")
	s.Require().NoError(err)
	s.Nil(q)
}

func (s *RepositoriesIntegrationTestSuite) TestSupplierRepository_KeepsOptionalFieldsNil() {
	moq := 4
	s.insert(SuppliersCollection,
		domain.SupplierOffer{SupplierID: "S-2", Name: "Two", ProductID: "P-1", Active: true, CostPrice: 3, MinOrderQuantity: &moq},
		domain.SupplierOffer{SupplierID: "S-1", Name: "One", ProductID: "P-1", Active: false, CostPrice: 2},
		domain.SupplierOffer{SupplierID: "S-3", Name: "Three", ProductID: "P-2", Active: true, CostPrice: 9},
	)

	offers, err := s.repos.Suppliers.SuppliersForProduct(s.ctx, "P-1")
	s.Require().NoError(err)
	s.Require().Len(offers, 2)
	s.Equal("S-1", offers[0].SupplierID)
	s.Nil(offers[0].MinOrderQuantity)
	s.Nil(offers[0].ReliabilityRating)
	s.Require().NotNil(offers[1].MinOrderQuantity)
	s.Equal(4, *offers[1].MinOrderQuantity)
}

func (s *RepositoriesIntegrationTestSuite) TestCarrierRepository() {
	s.insert(CarriersCollection,
		domain.CarrierProfile{ID: "CX", Name: "Canada Express", Active: true, ServiceLevels: []domain.ServiceLevel{domain.ServiceExpress}},
		domain.CarrierProfile{ID: "AB", Name: "Alberta Post", Active: false},
	)

	carriers, err := s.repos.Carriers.ListCarriers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(carriers, 2)
	s.Equal("AB", carriers[0].ID)

	carrier, err := s.repos.Carriers.GetCarrier(s.ctx, "CX")
	s.Require().NoError(err)
	s.Require().NotNil(carrier)
	s.True(carrier.SupportsServiceLevel(domain.ServiceExpress))

	missing, err := s.repos.Carriers.GetCarrier(s.ctx, "ZZ")
	s.Require().NoError(err)
	s.Nil(missing)
}

func (s *RepositoriesIntegrationTestSuite) TestTariffAndProductRepositories() {
	s.insert(TariffsCollection, rates.Tariff{
		CarrierID: "CX",
		Zones: []rates.Zone{{
			Name:         "national",
			DeliveryDays: domain.DeliveryBracket{MinDays: 2, MaxDays: 4},
			Brackets:     []rates.WeightBracket{{MaxKg: 2, Cost: 9.5}},
		}},
	})
	s.insert(ProductsCollection, domain.Product{ID: "P-1", SKU: "SKU-1", Name: "Widget", CostPrice: 5, SalePrice: 15})

	quote, err := rates.NewCalculator(s.repos.Tariffs).Quote(s.ctx, domain.RateQuery{
		CarrierID:      "CX",
		OriginZip:      "M5V",
		DestinationZip: "H2X",
		WeightKg:       domain.PlaceholderParcelWeightKg,
	})
	s.Require().NoError(err)
	s.Require().NotNil(quote)
	s.InDelta(9.5, quote.TotalCost, 1e-9)

	product, err := s.repos.Products.GetProduct(s.ctx, "P-1")
	s.Require().NoError(err)
	s.Require().NotNil(product)
	s.Equal(15.0, product.SalePrice)

	missing, err := s.repos.Products.GetProduct(s.ctx, "P-404")
	s.Require().NoError(err)
	s.Nil(missing)
}
