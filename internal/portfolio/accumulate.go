// Package portfolio derives holdings, intraday positions, funds, and ranked
// summaries from an executed-order log. Every function here is a pure,
// single-pass computation over an in-memory snapshot of orders and prices:
// no I/O, no shared state, safe to re-run on every refresh.
package portfolio

import (
	"sort"

	"trading-dashboardv1/internal/model"
)

// accumulator is the per-instrument running state built in one pass over
// the order log. It is transient and recomputed on every aggregation call.
type accumulator struct {
	instrument   string
	boughtQty    int64
	soldQty      int64
	buyNotional  int64 // Σ qty*price over BUY orders, paise
	sellNotional int64 // Σ qty*price over SELL orders, paise
	lastAction   model.Side
	productKind  model.ProductKind // from the first order seen
}

func (a *accumulator) netQty() int64 {
	return a.boughtQty - a.soldQty
}

// avgCost is totalBuyNotional / boughtQty in paise, integer division.
// Callers must guard boughtQty > 0; the aggregators exclude pure-sell
// instruments before ever asking for a cost basis.
func (a *accumulator) avgCost() int64 {
	return a.buyNotional / a.boughtQty
}

// accumulate groups orders by instrument and sums each side. Iteration
// order within a group does not affect the result; summation is
// commutative. lastAction and productKind follow the input sequence, so
// callers that care about them feed orders in ledger fetch order.
func accumulate(orders []model.Order) map[string]*accumulator {
	accs := make(map[string]*accumulator)
	for _, o := range orders {
		acc, ok := accs[o.Instrument]
		if !ok {
			acc = &accumulator{
				instrument:  o.Instrument,
				productKind: o.ProductKind,
			}
			accs[o.Instrument] = acc
		}
		switch o.Side {
		case model.SideBuy:
			acc.boughtQty += o.Qty
			acc.buyNotional += o.Notional()
		case model.SideSell:
			acc.soldQty += o.Qty
			acc.sellNotional += o.Notional()
		}
		acc.lastAction = o.Side
	}
	return accs
}

// sortedAccumulators returns the accumulators ordered by instrument name so
// repeated runs over the same snapshot emit identical output.
func sortedAccumulators(accs map[string]*accumulator) []*accumulator {
	out := make([]*accumulator, 0, len(accs))
	for _, acc := range accs {
		out = append(out, acc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].instrument < out[j].instrument })
	return out
}
