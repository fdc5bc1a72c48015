package portfolio

import (
	"trading-dashboardv1/internal/model"
	"trading-dashboardv1/internal/pricing"
)

// ComputeHoldings derives the all-time net holdings from the full order log.
//
// Instruments with netQty <= 0 are skipped (fully or over-sold positions are
// not holdings), as are instruments with no buys at all (pure-sell noise has
// no cost basis, and skipping is what keeps division defined). When the
// oracle has no quote the average cost stands in for the current price, so a
// freshly bought instrument shows flat P&L rather than a hole.
//
// Output is ordered by instrument name; repeated calls over the same
// snapshot yield identical output.
func ComputeHoldings(orders []model.Order, oracle pricing.Oracle) []model.Holding {
	accs := accumulate(orders)

	holdings := make([]model.Holding, 0, len(accs))
	for _, acc := range sortedAccumulators(accs) {
		if acc.boughtQty == 0 {
			continue
		}
		netQty := acc.netQty()
		if netQty <= 0 {
			continue
		}

		avgCost := acc.avgCost()
		currentPrice, ok := oracle.Quote(acc.instrument)
		if !ok {
			currentPrice = avgCost
		}

		invested := netQty * avgCost
		currentValue := netQty * currentPrice
		pl := currentValue - invested

		holdings = append(holdings, model.Holding{
			Instrument:   acc.instrument,
			NetQty:       netQty,
			AvgCost:      avgCost,
			CurrentPrice: currentPrice,
			CurrentValue: currentValue,
			InvestedVal:  invested,
			UnrealizedPL: pl,
			PLPercent:    plPercent(pl, invested),
			LastAction:   acc.lastAction,
		})
	}
	return holdings
}

// plPercent returns pl/invested as a percentage, 0 when invested is 0.
// invested is always > 0 for emitted holdings and positions; the guard is
// for the totals path where an empty portfolio sums to zero.
func plPercent(pl, invested int64) float64 {
	if invested == 0 {
		return 0
	}
	return float64(pl) / float64(invested) * 100
}
