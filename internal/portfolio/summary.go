package portfolio

import (
	"sort"

	"trading-dashboardv1/internal/model"
)

// ComputeTotals sums holdings into the portfolio header figures.
// PLPercent is 0, not NaN, for an empty portfolio.
func ComputeTotals(holdings []model.Holding) model.Totals {
	var invested, current int64
	for _, h := range holdings {
		invested += h.NetQty * h.AvgCost
		current += h.CurrentValue
	}
	pl := current - invested
	return model.Totals{
		TotalInvestment: invested,
		CurrentValue:    current,
		TotalPL:         pl,
		PLPercent:       plPercent(pl, invested),
	}
}

// TopMovers returns the top k holdings by P&L percent (gainers) and the
// bottom k (losers). Ties break by instrument name ascending so the result
// is deterministic. When fewer than k holdings exist, all are returned, and
// in degenerate small portfolios gainers and losers may overlap; that is
// accepted, not deduplicated.
func TopMovers(holdings []model.Holding, k int) (gainers, losers []model.Holding) {
	if k <= 0 || len(holdings) == 0 {
		return nil, nil
	}

	byDesc := make([]model.Holding, len(holdings))
	copy(byDesc, holdings)
	sort.Slice(byDesc, func(i, j int) bool {
		if byDesc[i].PLPercent != byDesc[j].PLPercent {
			return byDesc[i].PLPercent > byDesc[j].PLPercent
		}
		return byDesc[i].Instrument < byDesc[j].Instrument
	})

	byAsc := make([]model.Holding, len(holdings))
	copy(byAsc, holdings)
	sort.Slice(byAsc, func(i, j int) bool {
		if byAsc[i].PLPercent != byAsc[j].PLPercent {
			return byAsc[i].PLPercent < byAsc[j].PLPercent
		}
		return byAsc[i].Instrument < byAsc[j].Instrument
	})

	if k > len(holdings) {
		k = len(holdings)
	}
	return byDesc[:k], byAsc[:k]
}

// RecentActivity returns the last n orders, newest first. The sort is
// stable, so orders sharing a timestamp keep their ledger fetch order and
// repeated calls on identical input return identical results.
func RecentActivity(orders []model.Order, n int) []model.Order {
	if n <= 0 || len(orders) == 0 {
		return nil
	}

	recent := make([]model.Order, len(orders))
	copy(recent, orders)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})

	if n > len(recent) {
		n = len(recent)
	}
	return recent[:n]
}
