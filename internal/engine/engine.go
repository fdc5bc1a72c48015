// Package engine orchestrates the portfolio aggregation passes. All I/O
// (ledger fetch, quote snapshot, account settings) happens here, before the
// pure computation in internal/portfolio runs; each pass operates on one
// consistent snapshot and carries no state over to the next.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"trading-dashboardv1/internal/logger"
	"trading-dashboardv1/internal/metrics"
	"trading-dashboardv1/internal/model"
	"trading-dashboardv1/internal/portfolio"
	"trading-dashboardv1/internal/pricing"
)

// ErrInsufficientFunds rejects a buy whose margin requirement exceeds the
// available margin. Raised only in the order-entry workflow, never during
// aggregation.
var ErrInsufficientFunds = errors.New("insufficient funds")

// Margin factors by product segment, applied at order entry only.
// Intraday positions are leveraged 5x; delivery blocks full notional.
const (
	intradayMarginFactor = 0.2
	deliveryMarginFactor = 1.0
)

// Config tunes the summary view.
type Config struct {
	TopMoversK int // gainers/losers per list
	RecentN    int // orders in recent activity
}

// Engine answers the dashboard queries for one owner at a time.
type Engine struct {
	ledger   model.OrderLedger
	accounts model.AccountStore
	quotes   model.QuoteSource
	metrics  *metrics.Metrics
	log      *slog.Logger
	cfg      Config
}

// New wires an Engine from its collaborators.
func New(ledger model.OrderLedger, accounts model.AccountStore, quotes model.QuoteSource,
	m *metrics.Metrics, log *slog.Logger, cfg Config) *Engine {
	if cfg.TopMoversK <= 0 {
		cfg.TopMoversK = 3
	}
	if cfg.RecentN <= 0 {
		cfg.RecentN = 5
	}
	return &Engine{
		ledger:   ledger,
		accounts: accounts,
		quotes:   quotes,
		metrics:  m,
		log:      log,
		cfg:      cfg,
	}
}

// snapshot fetches the order log and one price snapshot for a pass.
// A ledger failure aborts the pass; a quote failure only degrades it: the
// pass runs against an empty price table and every instrument falls back
// to its average cost.
func (e *Engine) snapshot(ctx context.Context, ownerID string) ([]model.Order, pricing.Table, error) {
	orders, err := e.ledger.FetchOrders(ctx, ownerID)
	if err != nil {
		e.metrics.LedgerErrors.Inc()
		return nil, nil, err
	}
	e.metrics.OrdersScanned.Observe(float64(len(orders)))

	table, err := e.quotes.Snapshot(ctx)
	if err != nil {
		e.metrics.QuoteSnapshotErrors.Inc()
		e.log.Warn("quote snapshot failed, pricing off avg cost",
			append([]any{slog.String("owner_id", ownerID), slog.Any("error", err)},
				logger.WithRequest(ctx)...)...)
		table = nil
	}
	return orders, pricing.Table(table), nil
}

// countFallbacks records the degraded-accuracy signal for instruments the
// oracle had no quote for.
func (e *Engine) countFallbacks(ctx context.Context, table pricing.Table, instruments []string) {
	for _, ins := range instruments {
		if _, ok := table.Quote(ins); !ok {
			e.metrics.PriceFallbacks.Inc()
			e.log.Debug("no quote, priced at avg cost",
				append([]any{slog.String("instrument", ins)}, logger.WithRequest(ctx)...)...)
		}
	}
}

// GetHoldings returns the all-time holdings for one owner.
func (e *Engine) GetHoldings(ctx context.Context, ownerID string) ([]model.Holding, error) {
	orders, table, err := e.snapshot(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	holdings := portfolio.ComputeHoldings(orders, table)
	e.metrics.AggregationDur.WithLabelValues("holdings").Observe(time.Since(start).Seconds())

	names := make([]string, len(holdings))
	for i, h := range holdings {
		names[i] = h.Instrument
	}
	e.countFallbacks(ctx, table, names)
	return holdings, nil
}

// GetPositions returns the intraday positions for one owner as of a day.
func (e *Engine) GetPositions(ctx context.Context, ownerID string, asOf time.Time) ([]model.Position, error) {
	orders, table, err := e.snapshot(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	positions := portfolio.ComputePositions(orders, table, asOf)
	e.metrics.AggregationDur.WithLabelValues("positions").Observe(time.Since(start).Seconds())

	names := make([]string, len(positions))
	for i, p := range positions {
		names[i] = p.Instrument
	}
	e.countFallbacks(ctx, table, names)
	return positions, nil
}

// GetFunds returns the margin view for one owner.
func (e *Engine) GetFunds(ctx context.Context, ownerID string) (model.Funds, error) {
	orders, table, err := e.snapshot(ctx, ownerID)
	if err != nil {
		return model.Funds{}, err
	}
	opening, err := e.accounts.OpeningBalance(ctx, ownerID)
	if err != nil {
		return model.Funds{}, err
	}

	start := time.Now()
	holdings := portfolio.ComputeHoldings(orders, table)
	funds := portfolio.ComputeFunds(holdings, opening)
	e.metrics.AggregationDur.WithLabelValues("funds").Observe(time.Since(start).Seconds())

	return funds, nil
}

// GetSummary returns the ranked dashboard overview for one owner.
func (e *Engine) GetSummary(ctx context.Context, ownerID string) (model.Summary, error) {
	orders, table, err := e.snapshot(ctx, ownerID)
	if err != nil {
		return model.Summary{}, err
	}

	start := time.Now()
	holdings := portfolio.ComputeHoldings(orders, table)
	gainers, losers := portfolio.TopMovers(holdings, e.cfg.TopMoversK)
	summary := model.Summary{
		Totals:        portfolio.ComputeTotals(holdings),
		HoldingsCount: len(holdings),
		OrdersCount:   len(orders),
		TopGainers:    gainers,
		TopLosers:     losers,
		RecentOrders:  portfolio.RecentActivity(orders, e.cfg.RecentN),
	}
	e.metrics.AggregationDur.WithLabelValues("summary").Observe(time.Since(start).Seconds())

	return summary, nil
}

// ListOrders returns the raw order log for one owner in insertion order.
func (e *Engine) ListOrders(ctx context.Context, ownerID string) ([]model.Order, error) {
	orders, err := e.ledger.FetchOrders(ctx, ownerID)
	if err != nil {
		e.metrics.LedgerErrors.Inc()
		return nil, err
	}
	return orders, nil
}

// Quotes returns the current price snapshot for the watchlist view.
func (e *Engine) Quotes(ctx context.Context) (map[string]int64, error) {
	return e.quotes.Snapshot(ctx)
}

// PlaceOrder validates one incoming order, enforces the margin check for
// buys, and appends it to the ledger. Market orders are stamped with the
// current quote; a market order for an instrument with no quote is
// rejected since there is nothing to execute against.
func (e *Engine) PlaceOrder(ctx context.Context, o model.Order) (model.Order, error) {
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}

	if o.OrderKind == model.KindMarket {
		table, err := e.quotes.Snapshot(ctx)
		if err != nil {
			e.metrics.QuoteSnapshotErrors.Inc()
			return model.Order{}, model.ErrInvalidOrder{Reason: "no quote for market order: " + o.Instrument}
		}
		price, ok := table[o.Instrument]
		if !ok {
			e.metrics.OrdersRejected.WithLabelValues("no_quote").Inc()
			return model.Order{}, model.ErrInvalidOrder{Reason: "no quote for market order: " + o.Instrument}
		}
		o.Price = price
	}

	if err := o.Validate(); err != nil {
		e.metrics.OrdersRejected.WithLabelValues("invalid_shape").Inc()
		e.log.Warn("order rejected",
			append([]any{slog.String("owner_id", o.OwnerID), slog.Any("error", err)},
				logger.WithRequest(ctx)...)...)
		return model.Order{}, err
	}

	if o.Side == model.SideBuy {
		funds, err := e.GetFunds(ctx, o.OwnerID)
		if err != nil {
			return model.Order{}, err
		}
		factor := deliveryMarginFactor
		if o.ProductKind == model.ProductIntraday {
			factor = intradayMarginFactor
		}
		required := int64(float64(o.Notional()) * factor)
		if required > funds.AvailableMargin {
			e.metrics.OrdersRejected.WithLabelValues("insufficient_funds").Inc()
			return model.Order{}, ErrInsufficientFunds
		}
	}

	placed, err := e.ledger.AppendOrder(ctx, o)
	if err != nil {
		e.metrics.LedgerErrors.Inc()
		return model.Order{}, err
	}
	e.metrics.OrdersIngested.Inc()
	e.log.Info("order placed",
		append([]any{
			slog.Int64("order_id", placed.ID),
			slog.String("owner_id", placed.OwnerID),
			slog.String("instrument", placed.Instrument),
			slog.String("side", string(placed.Side)),
			slog.Int64("qty", placed.Qty),
			slog.Int64("price", placed.Price),
		}, logger.WithRequest(ctx)...)...)
	return placed, nil
}
