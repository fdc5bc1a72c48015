package model

import (
	"context"
	"errors"
)

// ErrLedgerUnavailable means the order log could not be reached. It is
// recoverable: callers retry or show an empty state, and no partial or
// stale computation is substituted for the real one.
var ErrLedgerUnavailable = errors.New("order ledger unavailable")

// ── Collaborator Port Interfaces ──
// These interfaces decouple the aggregation engine from concrete storage
// implementations (SQLite, Redis). Each implementation satisfies one or
// more of these interfaces; tests supply in-memory fakes.

// OrderLedger is the append-only executed-order store.
type OrderLedger interface {
	// FetchOrders returns every order for one owner. No ordering is
	// guaranteed by the store; callers that need order must sort.
	// Fails with ErrLedgerUnavailable when the store cannot be reached.
	FetchOrders(ctx context.Context, ownerID string) ([]Order, error)

	// AppendOrder persists one validated order and returns it with the
	// assigned ledger id.
	AppendOrder(ctx context.Context, o Order) (Order, error)

	// Close releases underlying resources.
	Close() error
}

// AccountStore supplies per-owner account settings.
type AccountStore interface {
	// OpeningBalance returns the configured opening balance in paise.
	OpeningBalance(ctx context.Context, ownerID string) (int64, error)
}

// QuoteSource supplies one consistent price snapshot per aggregation pass.
type QuoteSource interface {
	// Snapshot returns instrument -> price (paise) as of now. The engine
	// takes exactly one snapshot per pass so every derived number in that
	// pass uses the same prices.
	Snapshot(ctx context.Context) (map[string]int64, error)
}
