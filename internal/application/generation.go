package application

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"

	"github.com/wms-platform/fulfillment-service/internal/domain"
	"github.com/wms-platform/fulfillment-service/pkg/logging"
	"github.com/wms-platform/fulfillment-service/pkg/tracing"
)

// Candidate outcomes recorded in metrics
const (
	candidateScored   = "scored"
	candidateFiltered = "filtered"
	candidateDropped  = "dropped"
)

// Candidate is an enumerated (source, carrier) pair for one item, waiting to be costed
type Candidate struct {
	Sequence          int
	Item              domain.OrderItem
	Destination       domain.Address
	ServiceLevel      domain.ServiceLevel
	Source            domain.Source
	Carrier           domain.CarrierProfile
	Product           domain.Product
	UnitCost          float64
	QuantityAvailable *int
	Supplier          *domain.SupplierOffer
}

type stockFact struct {
	quantity *int
	err      error
}

type itemFacts struct {
	product      *domain.Product
	productErr   error
	suppliers    []domain.SupplierOffer
	suppliersErr error
	stock        []stockFact
}

type lookups struct {
	warehouses    []domain.Warehouse
	warehousesErr error
	carriers      []domain.CarrierProfile
	carriersErr   error
	items         []itemFacts
}

func (l *lookups) carrier(id string) *domain.CarrierProfile {
	for i := range l.carriers {
		if l.carriers[i].ID == id {
			return &l.carriers[i]
		}
	}
	return nil
}

type generation struct {
	logger     *logging.Logger
	options    []*domain.FulfillmentOption
	enumerated int
	failed     int
}

func (e *DecisionEngine) generate(ctx context.Context, req domain.FulfillmentRequest) *generation {
	ctx, span := e.tracer.Start(ctx, tracing.SpanGenerate)
	defer span.End()

	gen := &generation{logger: e.logger.WithOrderID(req.OrderID)}
	facts := e.lookup(ctx, req)
	candidates := e.enumerate(ctx, req, facts, gen)
	gen.enumerated = len(candidates)

	type costed struct {
		option *domain.FulfillmentOption
		err    error
	}
	results := make([]costed, len(candidates))

	g := e.newGroup()
	for i, c := range candidates {
		g.Go(func() error {
			results[i].option, results[i].err = e.CostOption(ctx, c)
			return nil
		})
	}
	_ = g.Wait()

	// results are indexed by Sequence, so options come out in enumeration order
	for _, r := range results {
		if r.err != nil {
			e.drop(ctx, gen, r.err)
			continue
		}
		e.metrics.RecordCandidate(string(r.option.Source.Type), candidateScored)
		gen.options = append(gen.options, r.option)
	}

	span.SetAttributes(
		attribute.Int("fulfillment.candidates", gen.enumerated),
		attribute.Int("fulfillment.options", len(gen.options)),
		attribute.Int("fulfillment.failed_lookups", gen.failed),
	)
	return gen
}

// lookup fetches every fact needed to enumerate candidates, with bounded concurrency
func (e *DecisionEngine) lookup(ctx context.Context, req domain.FulfillmentRequest) *lookups {
	l := &lookups{items: make([]itemFacts, len(req.Items))}

	g := e.newGroup()
	g.Go(func() error {
		l.warehouses, l.warehousesErr = invoke(ctx, e, CollaboratorWarehouses, e.deps.Warehouses.ActiveWarehouses)
		return nil
	})
	g.Go(func() error {
		l.carriers, l.carriersErr = invoke(ctx, e, CollaboratorCarriers, e.deps.Carriers.ListCarriers)
		return nil
	})
	for i, item := range req.Items {
		g.Go(func() error {
			l.items[i].product, l.items[i].productErr = invoke(ctx, e, CollaboratorCatalog, func(ctx context.Context) (*domain.Product, error) {
				return e.deps.Catalog.GetProduct(ctx, item.ProductID)
			})
			return nil
		})
		g.Go(func() error {
			l.items[i].suppliers, l.items[i].suppliersErr = invoke(ctx, e, CollaboratorSuppliers, func(ctx context.Context) ([]domain.SupplierOffer, error) {
				return e.deps.Suppliers.SuppliersForProduct(ctx, item.ProductID)
			})
			return nil
		})
	}
	_ = g.Wait()

	if l.warehousesErr != nil || len(l.warehouses) == 0 {
		return l
	}

	g = e.newGroup()
	for i, item := range req.Items {
		l.items[i].stock = make([]stockFact, len(l.warehouses))
		for w, wh := range l.warehouses {
			g.Go(func() error {
				q, err := invoke(ctx, e, CollaboratorInventory, func(ctx context.Context) (*int, error) {
					return e.deps.Inventory.QuantityAvailable(ctx, item.ProductID, wh.ID)
				})
				l.items[i].stock[w] = stockFact{quantity: q, err: err}
				return nil
			})
		}
	}
	_ = g.Wait()

	return l
}

// enumerate builds candidates in a fixed order: items as requested, warehouses then carriers
// in directory order, then suppliers in directory order.
func (e *DecisionEngine) enumerate(ctx context.Context, req domain.FulfillmentRequest, l *lookups, gen *generation) []Candidate {
	var candidates []Candidate
	level := req.EffectiveServiceLevel()

	add := func(c Candidate) {
		c.Sequence = len(candidates)
		c.Destination = req.Destination
		c.ServiceLevel = level
		candidates = append(candidates, c)
	}

	if l.warehousesErr != nil {
		e.drop(ctx, gen, &domain.CandidateDroppedError{SourceType: domain.SourceWarehouse, Reason: dropReason(l.warehousesErr, domain.DropWarehouseLookup), Err: l.warehousesErr})
	}
	if l.carriersErr != nil {
		e.drop(ctx, gen, &domain.CandidateDroppedError{SourceType: domain.SourceWarehouse, Reason: dropReason(l.carriersErr, domain.DropCarrierUnresolvable), Err: l.carriersErr})
	}

	for i, item := range req.Items {
		facts := l.items[i]

		if facts.productErr != nil || facts.product == nil {
			e.drop(ctx, gen, &domain.CandidateDroppedError{ProductID: item.ProductID, Reason: dropReason(facts.productErr, domain.DropProductLookup), Err: facts.productErr})
			continue
		}
		product := *facts.product

		if l.warehousesErr == nil {
			for w, wh := range l.warehouses {
				source := domain.Source{Type: domain.SourceWarehouse, ID: wh.ID, Name: wh.Name, Location: wh.Location}
				stock := facts.stock[w]
				if stock.err != nil {
					e.drop(ctx, gen, &domain.CandidateDroppedError{SourceType: source.Type, SourceID: wh.ID, ProductID: item.ProductID, Reason: dropReason(stock.err, domain.DropInventoryLookup), Err: stock.err})
					continue
				}

				available := 0
				if stock.quantity != nil {
					available = *stock.quantity
				}
				if available < item.Quantity {
					e.filter(ctx, gen, source, item.ProductID, domain.DropInsufficientStock)
					continue
				}
				if l.carriersErr != nil {
					continue
				}

				for _, carrier := range l.carriers {
					if !carrier.Active || !carrier.SupportsServiceLevel(level) || !carrier.ServesLane(wh.Location.Zip, req.Destination.Zip) {
						continue
					}
					add(Candidate{
						Item:              item,
						Source:            source,
						Carrier:           carrier,
						Product:           product,
						UnitCost:          product.CostPrice,
						QuantityAvailable: &available,
					})
				}
			}
		}

		if facts.suppliersErr != nil {
			e.drop(ctx, gen, &domain.CandidateDroppedError{SourceType: domain.SourceSupplier, ProductID: item.ProductID, Reason: dropReason(facts.suppliersErr, domain.DropSupplierLookup), Err: facts.suppliersErr})
			continue
		}

		for _, offer := range facts.suppliers {
			source := domain.Source{
				Type:     domain.SourceSupplier,
				ID:       offer.SupplierID,
				Name:     offer.Name,
				Location: domain.Location{City: offer.ShipsFromCity, Zip: offer.ShipsFromZip},
			}
			if !offer.Active {
				e.filter(ctx, gen, source, item.ProductID, domain.DropSupplierInactive)
				continue
			}
			if !offer.AcceptsQuantity(item.Quantity) {
				e.filter(ctx, gen, source, item.ProductID, domain.DropBelowMOQ)
				continue
			}

			carrier, err := e.supplierCarrier(ctx, l, offer)
			if err != nil {
				e.drop(ctx, gen, &domain.CandidateDroppedError{SourceType: source.Type, SourceID: source.ID, CarrierID: offer.DefaultCarrierID, ProductID: item.ProductID, Reason: dropReason(err, domain.DropCarrierUnresolvable), Err: err})
				continue
			}
			if carrier == nil {
				reason := domain.DropCarrierUnresolvable
				if offer.DefaultCarrierID == "" {
					reason = domain.DropNoDefaultCarrier
				}
				e.drop(ctx, gen, &domain.CandidateDroppedError{SourceType: source.Type, SourceID: source.ID, CarrierID: offer.DefaultCarrierID, ProductID: item.ProductID, Reason: reason})
				continue
			}
			if !carrier.Active {
				e.drop(ctx, gen, &domain.CandidateDroppedError{SourceType: source.Type, SourceID: source.ID, CarrierID: carrier.ID, ProductID: item.ProductID, Reason: domain.DropCarrierInactive})
				continue
			}

			add(Candidate{
				Item:     item,
				Source:   source,
				Carrier:  *carrier,
				Product:  product,
				UnitCost: offer.CostPrice,
				Supplier: &offer,
			})
		}
	}

	return candidates
}

// supplierCarrier resolves the supplier's one default carrier, from the listed carriers when possible
func (e *DecisionEngine) supplierCarrier(ctx context.Context, l *lookups, offer domain.SupplierOffer) (*domain.CarrierProfile, error) {
	if offer.DefaultCarrierID == "" {
		return nil, nil
	}
	if c := l.carrier(offer.DefaultCarrierID); c != nil {
		return c, nil
	}
	return invoke(ctx, e, CollaboratorCarriers, func(ctx context.Context) (*domain.CarrierProfile, error) {
		return e.deps.Carriers.GetCarrier(ctx, offer.DefaultCarrierID)
	})
}

// CostOption prices one candidate into an option. A nil option comes with a *domain.CandidateDroppedError.
func (e *DecisionEngine) CostOption(ctx context.Context, c Candidate) (*domain.FulfillmentOption, error) {
	dropped := func(reason string, err error) error {
		return &domain.CandidateDroppedError{
			SourceType: c.Source.Type,
			SourceID:   c.Source.ID,
			CarrierID:  c.Carrier.ID,
			ProductID:  c.Item.ProductID,
			Reason:     reason,
			Err:        err,
		}
	}

	query := domain.RateQuery{
		CarrierID:      c.Carrier.ID,
		OriginZip:      c.Source.Location.Zip,
		DestinationZip: c.Destination.Zip,
		WeightKg:       domain.PlaceholderParcelWeightKg,
		ServiceLevel:   c.ServiceLevel,
	}
	quote, err := invoke(ctx, e, CollaboratorRates, func(ctx context.Context) (*domain.RateQuote, error) {
		return e.deps.Rates.Quote(ctx, query)
	})
	if err != nil {
		return nil, dropped(dropReason(err, domain.DropRateLookup), err)
	}
	if quote == nil {
		return nil, dropped(domain.DropNotServiceable, nil)
	}

	quantity := float64(c.Item.Quantity)
	productCost := c.UnitCost * quantity
	totalCost := quote.TotalCost + productCost
	performance := c.Carrier.Performance

	option := &domain.FulfillmentOption{
		Source:  c.Source,
		Carrier: c.Carrier.Ref(),
		Items: []domain.OptionItem{{
			ProductID: c.Item.ProductID,
			Quantity:  c.Item.Quantity,
			Available: true,
			UnitCost:  c.UnitCost,
		}},
		ShippingCost:          quote.TotalCost,
		ProductCost:           productCost,
		TotalCost:             totalCost,
		EstimatedMargin:       c.Product.SalePrice*quantity - totalCost,
		EstimatedDeliveryDays: quote.DeliveryDays.MaxDays,
		Details: domain.OptionDetails{
			DistanceClass:      quote.Zone,
			CarrierPerformance: &performance,
			StockAvailability:  domain.StockFull,
			DeliveryDaysMin:    quote.DeliveryDays.MinDays,
		},
		Sequence: c.Sequence,
	}

	switch c.Source.Type {
	case domain.SourceWarehouse:
		// Warehouses have no quality signal of their own
		option.QualityScore = 0
		if c.QuantityAvailable != nil {
			option.Details.StockAvailability = domain.ClassifyStock(*c.QuantityAvailable, c.Item.Quantity)
			available := *c.QuantityAvailable
			option.Details.QuantityAvailable = &available
		}
	case domain.SourceSupplier:
		reliability := c.Supplier.Reliability()
		option.QualityScore = reliability
		option.Details.SupplierReliability = &reliability
		option.Details.ProcessingDays = c.Supplier.ProcessingDays()
		option.EstimatedDeliveryDays += c.Supplier.ProcessingDays()
	}

	return option, nil
}

// drop logs and counts a candidate excluded by a collaborator problem
func (e *DecisionEngine) drop(ctx context.Context, gen *generation, err error) {
	var dropped *domain.CandidateDroppedError
	if !errors.As(err, &dropped) {
		return
	}
	if dropped.Err != nil {
		gen.failed++
	}
	e.metrics.RecordCandidate(string(dropped.SourceType), candidateDropped)
	gen.logger.CandidateDropped(ctx, string(dropped.SourceType), dropped.SourceID, dropped.CarrierID, dropped.Error())
}

// filter records a candidate excluded by a business constraint. These are expected and logged at debug.
func (e *DecisionEngine) filter(ctx context.Context, gen *generation, source domain.Source, productID, reason string) {
	e.metrics.RecordCandidate(string(source.Type), candidateFiltered)
	gen.logger.WithContext(ctx).Debug("Fulfillment candidate filtered",
		"sourceType", source.Type,
		"sourceId", source.ID,
		"productId", productID,
		"reason", reason,
	)
}

func dropReason(err error, fallback string) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.DropTimeout
	}
	return fallback
}
