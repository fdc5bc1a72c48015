package portfolio

import "trading-dashboardv1/internal/model"

// ComputeFunds derives the margin view from the current holdings.
//
// Used margin is the full notional tied up in open holdings, no leverage
// distinction at this level; product-type margin factors apply only in the
// order-entry workflow. Available margin and cash never go negative even
// when holdings exceed the opening balance.
func ComputeFunds(holdings []model.Holding, openingBalance int64) model.Funds {
	var used int64
	for _, h := range holdings {
		used += h.NetQty * h.AvgCost
	}

	available := openingBalance - used
	if available < 0 {
		available = 0
	}

	return model.Funds{
		OpeningBalance:  openingBalance,
		UsedMargin:      used,
		AvailableMargin: available,
		AvailableCash:   available,
	}
}
