package directory

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wms-platform/fulfillment-service/internal/domain"
	"github.com/wms-platform/fulfillment-service/internal/infrastructure/rates"
)

// StockRecord is the available quantity of a product in a warehouse
type StockRecord struct {
	ProductID         string `yaml:"productId"`
	WarehouseID       string `yaml:"warehouseId"`
	QuantityAvailable int    `yaml:"quantityAvailable"`
}

// Seed is the file layout of a static fulfillment directory
type Seed struct {
	Warehouses []domain.Warehouse      `yaml:"warehouses"`
	Inventory  []StockRecord           `yaml:"inventory"`
	Suppliers  []domain.SupplierOffer  `yaml:"suppliers"`
	Carriers   []domain.CarrierProfile `yaml:"carriers"`
	Tariffs    []rates.Tariff          `yaml:"tariffs"`
	Products   []domain.Product        `yaml:"products"`
}

// Directory serves every collaborator lookup from an in-memory seed.
// It is read-only after construction and safe for concurrent use.
type Directory struct {
	warehouses []domain.Warehouse
	stock      map[string]int
	suppliers  map[string][]domain.SupplierOffer
	carriers   []domain.CarrierProfile
	carrierIdx map[string]int
	tariffs    map[string]rates.Tariff
	products   map[string]domain.Product
}

// LoadFile reads a YAML seed from disk
func LoadFile(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML seed
func Parse(data []byte) (*Directory, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse directory file: %w", err)
	}
	return New(seed)
}

// New indexes a seed. Seed order is kept as directory order.
func New(seed Seed) (*Directory, error) {
	d := &Directory{
		warehouses: seed.Warehouses,
		stock:      make(map[string]int, len(seed.Inventory)),
		suppliers:  make(map[string][]domain.SupplierOffer),
		carriers:   seed.Carriers,
		carrierIdx: make(map[string]int, len(seed.Carriers)),
		tariffs:    make(map[string]rates.Tariff, len(seed.Tariffs)),
		products:   make(map[string]domain.Product, len(seed.Products)),
	}

	warehouses := make(map[string]bool, len(seed.Warehouses))
	for _, w := range seed.Warehouses {
		if w.ID == "" {
			return nil, fmt.Errorf("directory: warehouse without id")
		}
		if warehouses[w.ID] {
			return nil, fmt.Errorf("directory: duplicate warehouse %s", w.ID)
		}
		warehouses[w.ID] = true
	}

	for i, c := range seed.Carriers {
		if c.ID == "" {
			return nil, fmt.Errorf("directory: carrier without id")
		}
		if _, dup := d.carrierIdx[c.ID]; dup {
			return nil, fmt.Errorf("directory: duplicate carrier %s", c.ID)
		}
		d.carrierIdx[c.ID] = i
	}

	for _, p := range seed.Products {
		if p.ID == "" {
			return nil, fmt.Errorf("directory: product without id")
		}
		d.products[p.ID] = p
	}

	for _, r := range seed.Inventory {
		if !warehouses[r.WarehouseID] {
			return nil, fmt.Errorf("directory: inventory for unknown warehouse %s", r.WarehouseID)
		}
		if r.QuantityAvailable < 0 {
			return nil, fmt.Errorf("directory: negative stock for %s in %s", r.ProductID, r.WarehouseID)
		}
		d.stock[stockKey(r.ProductID, r.WarehouseID)] = r.QuantityAvailable
	}

	for _, s := range seed.Suppliers {
		if s.SupplierID == "" || s.ProductID == "" {
			return nil, fmt.Errorf("directory: supplier offer needs supplierId and productId")
		}
		d.suppliers[s.ProductID] = append(d.suppliers[s.ProductID], s)
	}

	for _, t := range seed.Tariffs {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("directory: %w", err)
		}
		d.tariffs[t.CarrierID] = t
	}

	return d, nil
}

func stockKey(productID, warehouseID string) string {
	return productID + "\x00" + warehouseID
}

// QuantityAvailable implements domain.InventoryLookup
func (d *Directory) QuantityAvailable(ctx context.Context, productID, warehouseID string) (*int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q, ok := d.stock[stockKey(productID, warehouseID)]
	if !ok {
		return nil, nil
	}
	return &q, nil
}

// ActiveWarehouses implements domain.WarehouseDirectory
func (d *Directory) ActiveWarehouses(ctx context.Context) ([]domain.Warehouse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	active := make([]domain.Warehouse, 0, len(d.warehouses))
	for _, w := range d.warehouses {
		if w.Active {
			active = append(active, w)
		}
	}
	return active, nil
}

// SuppliersForProduct implements domain.SupplierDirectory
func (d *Directory) SuppliersForProduct(ctx context.Context, productID string) ([]domain.SupplierOffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	offers := d.suppliers[productID]
	out := make([]domain.SupplierOffer, len(offers))
	copy(out, offers)
	return out, nil
}

// ListCarriers implements domain.CarrierDirectory
func (d *Directory) ListCarriers(ctx context.Context) ([]domain.CarrierProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]domain.CarrierProfile, len(d.carriers))
	copy(out, d.carriers)
	return out, nil
}

// GetCarrier implements domain.CarrierDirectory
func (d *Directory) GetCarrier(ctx context.Context, carrierID string) (*domain.CarrierProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	i, ok := d.carrierIdx[carrierID]
	if !ok {
		return nil, nil
	}
	c := d.carriers[i]
	return &c, nil
}

// GetProduct implements domain.ProductCatalog
func (d *Directory) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, ok := d.products[productID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// Tariff implements rates.TariffSource
func (d *Directory) Tariff(ctx context.Context, carrierID string) (*rates.Tariff, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, ok := d.tariffs[carrierID]
	if !ok {
		return nil, nil
	}
	return &t, nil
}
