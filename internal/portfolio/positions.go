package portfolio

import (
	"time"

	"trading-dashboardv1/internal/model"
	"trading-dashboardv1/internal/pricing"
	"trading-dashboardv1/internal/tradingday"
)

// ComputePositions derives the intraday positions for the calendar day of
// asOf. It differs from ComputeHoldings only in the pre-filter: orders are
// restricted to the IST calendar day before grouping.
//
// Positions with netQty == 0 are excluded: a full round-trip within the
// day nets to nothing and must not show up as a zero row. Negative nets
// (more sold than bought today, with at least one buy today) are emitted
// as-is. An instrument sold today with no same-day buy has boughtQty == 0
// in the filtered set and is excluded; real margin accounting would show a
// closing position here, but that is the inherited dashboard behavior and
// changing it is a product decision, not a bug fix.
func ComputePositions(orders []model.Order, oracle pricing.Oracle, asOf time.Time) []model.Position {
	var todays []model.Order
	for _, o := range orders {
		if tradingday.Contains(asOf, o.CreatedAt) {
			todays = append(todays, o)
		}
	}

	accs := accumulate(todays)

	positions := make([]model.Position, 0, len(accs))
	for _, acc := range sortedAccumulators(accs) {
		if acc.boughtQty == 0 {
			continue
		}
		netQty := acc.netQty()
		if netQty == 0 {
			continue // closed today
		}

		avgCost := acc.avgCost()
		currentPrice, ok := oracle.Quote(acc.instrument)
		if !ok {
			currentPrice = avgCost
		}

		invested := netQty * avgCost
		currentValue := netQty * currentPrice
		pl := currentValue - invested

		positions = append(positions, model.Position{
			Instrument:   acc.instrument,
			ProductKind:  acc.productKind,
			NetQty:       netQty,
			AvgCost:      avgCost,
			CurrentPrice: currentPrice,
			CurrentValue: currentValue,
			InvestedVal:  invested,
			UnrealizedPL: pl,
			PLPercent:    plPercent(pl, invested),
		})
	}
	return positions
}
