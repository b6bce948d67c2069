package application

import (
	"context"
	"sync"
	"time"

	"github.com/wms-platform/fulfillment-service/internal/domain"
)

// fakeWorld implements every collaborator port from in-memory tables
type fakeWorld struct {
	mu sync.Mutex

	warehouses    []domain.Warehouse
	warehousesErr error
	stock         map[string]int
	stockErr      error
	suppliers     map[string][]domain.SupplierOffer
	suppliersErr  error
	carriers      []domain.CarrierProfile
	carriersErr   error
	extraCarriers map[string]domain.CarrierProfile
	rates         map[string]domain.RateQuote
	ratesErr      error
	rateDelay     map[string]time.Duration
	products      map[string]domain.Product

	rateCalls int
}

func stockKey(productID, warehouseID string) string {
	return productID + "|" + warehouseID
}

func rateKey(carrierID, originZip string) string {
	return carrierID + "|" + originZip
}

func (w *fakeWorld) deps() Dependencies {
	return Dependencies{
		Inventory:  w,
		Warehouses: w,
		Suppliers:  w,
		Carriers:   w,
		Rates:      w,
		Catalog:    w,
	}
}

func (w *fakeWorld) QuantityAvailable(ctx context.Context, productID, warehouseID string) (*int, error) {
	if w.stockErr != nil {
		return nil, w.stockErr
	}
	q, ok := w.stock[stockKey(productID, warehouseID)]
	if !ok {
		return nil, nil
	}
	return &q, nil
}

func (w *fakeWorld) ActiveWarehouses(ctx context.Context) ([]domain.Warehouse, error) {
	return w.warehouses, w.warehousesErr
}

func (w *fakeWorld) SuppliersForProduct(ctx context.Context, productID string) ([]domain.SupplierOffer, error) {
	if w.suppliersErr != nil {
		return nil, w.suppliersErr
	}
	return w.suppliers[productID], nil
}

func (w *fakeWorld) ListCarriers(ctx context.Context) ([]domain.CarrierProfile, error) {
	return w.carriers, w.carriersErr
}

func (w *fakeWorld) GetCarrier(ctx context.Context, carrierID string) (*domain.CarrierProfile, error) {
	if w.carriersErr != nil {
		return nil, w.carriersErr
	}
	for _, c := range w.carriers {
		if c.ID == carrierID {
			return &c, nil
		}
	}
	if c, ok := w.extraCarriers[carrierID]; ok {
		return &c, nil
	}
	return nil, nil
}

func (w *fakeWorld) Quote(ctx context.Context, q domain.RateQuery) (*domain.RateQuote, error) {
	w.mu.Lock()
	w.rateCalls++
	delay := w.rateDelay[q.CarrierID]
	w.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if w.ratesErr != nil {
		return nil, w.ratesErr
	}
	quote, ok := w.rates[rateKey(q.CarrierID, q.OriginZip)]
	if !ok {
		return nil, nil
	}
	return &quote, nil
}

func (w *fakeWorld) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	p, ok := w.products[productID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// warehouseWorld is one warehouse A holding 2 units of P-1 and two carriers:
// X ships for 5 in 2 days, Y ships for 8 in 1 day.
func warehouseWorld() *fakeWorld {
	return &fakeWorld{
		warehouses: []domain.Warehouse{
			{ID: "WH-A", Name: "Warehouse A", Location: domain.Location{City: "Toronto", Zip: "M5V"}, Active: true},
		},
		stock: map[string]int{stockKey("P-1", "WH-A"): 2},
		carriers: []domain.CarrierProfile{
			{ID: "X", Name: "Carrier X", Active: true},
			{ID: "Y", Name: "Carrier Y", Active: true},
		},
		rates: map[string]domain.RateQuote{
			rateKey("X", "M5V"): {TotalCost: 5, DeliveryDays: domain.DeliveryBracket{MinDays: 1, MaxDays: 2}, Zone: "regional"},
			rateKey("Y", "M5V"): {TotalCost: 8, DeliveryDays: domain.DeliveryBracket{MinDays: 1, MaxDays: 1}, Zone: "regional"},
		},
		products: map[string]domain.Product{
			"P-1": {ID: "P-1", SKU: "SKU-1", Name: "Widget", CostPrice: 3, SalePrice: 10},
		},
	}
}

func orderFor(quantity int) domain.FulfillmentRequest {
	return domain.FulfillmentRequest{
		OrderID:     "ORD-1",
		Items:       []domain.OrderItem{{ProductID: "P-1", Quantity: quantity}},
		Destination: domain.Address{Zip: "H2X", City: "Montreal"},
	}
}

var fixedNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time {
	return fixedNow
}
