package model

import (
	"fmt"
	"time"
)

// Side is the direction of an order.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// OrderKind is how the order was priced at entry. Informational only;
// it never affects quantity or cost-basis math.
type OrderKind string

const (
	KindMarket   OrderKind = "MARKET"
	KindLimit    OrderKind = "LIMIT"
	KindStopLoss OrderKind = "STOPLOSS"
)

// ProductKind is the product segment the order was placed under.
// Carried through to positions for display; does not affect quantity math.
type ProductKind string

const (
	ProductDelivery ProductKind = "DELIVERY"
	ProductIntraday ProductKind = "INTRADAY"
	ProductNormal   ProductKind = "NORMAL"
)

// Order represents one executed order from the ledger.
// Price is stored as int64 in paise (1 INR = 100 paise) to avoid float drift
// in accumulated sums. Orders are immutable once written.
type Order struct {
	ID          int64       `json:"id"`
	OwnerID     string      `json:"owner_id"`
	Instrument  string      `json:"instrument"`
	Side        Side        `json:"side"`
	Qty         int64       `json:"qty"`
	Price       int64       `json:"price"` // paise
	OrderKind   OrderKind   `json:"order_kind"`
	ProductKind ProductKind `json:"product_kind"`
	CreatedAt   time.Time   `json:"created_at"`
}

// ErrInvalidOrder marks an order that fails shape invariants. Such orders are
// rejected at ingestion and never reach the aggregation engine.
type ErrInvalidOrder struct {
	Reason string
}

func (e ErrInvalidOrder) Error() string {
	return "invalid order: " + e.Reason
}

// Validate checks the shape invariants an order must satisfy before it is
// accepted into the ledger: non-empty instrument and owner, known enums,
// positive quantity, non-negative price.
func (o Order) Validate() error {
	if o.Instrument == "" {
		return ErrInvalidOrder{Reason: "empty instrument"}
	}
	if o.OwnerID == "" {
		return ErrInvalidOrder{Reason: "empty owner id"}
	}
	if o.Side != SideBuy && o.Side != SideSell {
		return ErrInvalidOrder{Reason: fmt.Sprintf("unknown side %q", o.Side)}
	}
	if o.Qty <= 0 {
		return ErrInvalidOrder{Reason: fmt.Sprintf("non-positive qty %d", o.Qty)}
	}
	if o.Price < 0 {
		return ErrInvalidOrder{Reason: fmt.Sprintf("negative price %d", o.Price)}
	}
	switch o.OrderKind {
	case KindMarket, KindLimit, KindStopLoss:
	default:
		return ErrInvalidOrder{Reason: fmt.Sprintf("unknown order kind %q", o.OrderKind)}
	}
	switch o.ProductKind {
	case ProductDelivery, ProductIntraday, ProductNormal:
	default:
		return ErrInvalidOrder{Reason: fmt.Sprintf("unknown product kind %q", o.ProductKind)}
	}
	return nil
}

// Notional returns qty * price in paise.
func (o Order) Notional() int64 {
	return o.Qty * o.Price
}
