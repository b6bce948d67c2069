package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoOptionsAvailable means no warehouse or supplier can supply any item
	ErrNoOptionsAvailable = errors.New("no fulfillment option available for this order")
	// ErrAllCandidatesFailed means candidates existed but every one failed to resolve
	ErrAllCandidatesFailed = errors.New("all fulfillment candidates failed to resolve")
	// ErrInvalidRequest wraps request shape problems caught before generation
	ErrInvalidRequest = errors.New("invalid fulfillment request")
	// ErrWeightMisconfiguration is never fatal; it only produces a warning
	ErrWeightMisconfiguration = errors.New("weight misconfiguration")
)

// Drop reasons for candidates excluded during generation or costing
const (
	DropInsufficientStock   = "insufficient_stock"
	DropInventoryLookup     = "inventory_lookup_failed"
	DropWarehouseLookup     = "warehouse_lookup_failed"
	DropSupplierLookup      = "supplier_lookup_failed"
	DropSupplierInactive    = "supplier_inactive"
	DropBelowMOQ            = "below_minimum_order_quantity"
	DropNoDefaultCarrier    = "no_default_carrier"
	DropCarrierUnresolvable = "carrier_unresolvable"
	DropCarrierInactive     = "carrier_inactive"
	DropNotServiceable      = "not_serviceable"
	DropRateLookup          = "rate_lookup_failed"
	DropProductLookup       = "product_lookup_failed"
	DropTimeout             = "timeout"
)

// CandidateDroppedError describes a single candidate excluded from a decision.
// It is recoverable and never returned from Decide.
type CandidateDroppedError struct {
	SourceType SourceType
	SourceID   string
	CarrierID  string
	ProductID  string
	Reason     string
	Err        error
}

func (e *CandidateDroppedError) Error() string {
	msg := fmt.Sprintf("candidate %s/%s via %q for product %s dropped: %s",
		e.SourceType, e.SourceID, e.CarrierID, e.ProductID, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CandidateDroppedError) Unwrap() error {
	return e.Err
}

// IsCandidateDropped reports whether err is a dropped candidate
func IsCandidateDropped(err error) bool {
	var dropped *CandidateDroppedError
	return errors.As(err, &dropped)
}
