package portfolio

import (
	"testing"
	"time"

	"trading-dashboardv1/internal/model"
	"trading-dashboardv1/internal/pricing"
)

func TestComputeTotals_MatchesUsedMargin(t *testing.T) {
	orders := []model.Order{
		order("INFY", model.SideBuy, 10, 10000, testDay),
		order("TCS", model.SideBuy, 4, 300000, testDay),
		order("INFY", model.SideSell, 3, 12000, testDay),
	}
	oracle := pricing.Table{"INFY": 11000, "TCS": 310000}

	holdings := ComputeHoldings(orders, oracle)
	totals := ComputeTotals(holdings)
	funds := ComputeFunds(holdings, 10_000_000)

	// Σ netQty*avgCost over holdings equals both totalInvestment and
	// usedMargin by construction; the engine relies on this.
	if totals.TotalInvestment != funds.UsedMargin {
		t.Errorf("totalInvestment=%d != usedMargin=%d", totals.TotalInvestment, funds.UsedMargin)
	}

	var invested, current int64
	for _, h := range holdings {
		invested += h.NetQty * h.AvgCost
		current += h.CurrentValue
	}
	if totals.TotalInvestment != invested {
		t.Errorf("expected totalInvestment=%d, got %d", invested, totals.TotalInvestment)
	}
	if totals.TotalPL != current-invested {
		t.Errorf("expected totalPL=%d, got %d", current-invested, totals.TotalPL)
	}
}

func TestComputeTotals_EmptyPortfolio(t *testing.T) {
	totals := ComputeTotals(nil)
	if totals.PLPercent != 0 {
		t.Errorf("plPercent must be 0 (not NaN) for empty portfolio, got %f", totals.PLPercent)
	}
	if totals.TotalInvestment != 0 || totals.CurrentValue != 0 || totals.TotalPL != 0 {
		t.Errorf("expected zeroed totals, got %+v", totals)
	}
}

func TestTopMovers_RankingAndTieBreak(t *testing.T) {
	holdings := []model.Holding{
		{Instrument: "INFY", PLPercent: 5},
		{Instrument: "TCS", PLPercent: -3},
		{Instrument: "WIPRO", PLPercent: 5},
		{Instrument: "SBIN", PLPercent: 12},
		{Instrument: "RELIANCE", PLPercent: -8},
	}

	gainers, losers := TopMovers(holdings, 3)

	wantGainers := []string{"SBIN", "INFY", "WIPRO"} // tie at 5% breaks by name
	for i, g := range gainers {
		if g.Instrument != wantGainers[i] {
			t.Errorf("gainer %d: expected %s, got %s", i, wantGainers[i], g.Instrument)
		}
	}

	wantLosers := []string{"RELIANCE", "TCS", "INFY"}
	for i, l := range losers {
		if l.Instrument != wantLosers[i] {
			t.Errorf("loser %d: expected %s, got %s", i, wantLosers[i], l.Instrument)
		}
	}
}

func TestTopMovers_FewerThanK(t *testing.T) {
	holdings := []model.Holding{
		{Instrument: "INFY", PLPercent: 5},
		{Instrument: "TCS", PLPercent: -3},
	}

	gainers, losers := TopMovers(holdings, 10)
	if len(gainers) != 2 || len(losers) != 2 {
		t.Fatalf("expected all holdings back, got %d gainers, %d losers", len(gainers), len(losers))
	}
	// Overlap in a degenerate small portfolio is accepted.
	if gainers[0].Instrument != "INFY" || losers[0].Instrument != "TCS" {
		t.Errorf("unexpected ranking: %v / %v", gainers, losers)
	}
}

func TestTopMovers_KZero(t *testing.T) {
	gainers, losers := TopMovers([]model.Holding{{Instrument: "INFY"}}, 0)
	if gainers != nil || losers != nil {
		t.Error("k=0 must return nothing")
	}
}

func TestRecentActivity_NewestFirstStable(t *testing.T) {
	t0 := testDay
	t1 := testDay.Add(time.Minute)

	a := order("INFY", model.SideBuy, 1, 100, t0)
	b := order("TCS", model.SideBuy, 1, 100, t1)
	c := order("WIPRO", model.SideSell, 1, 100, t1) // same timestamp as b
	d := order("SBIN", model.SideBuy, 1, 100, t0.Add(30*time.Second))

	recent := RecentActivity([]model.Order{a, b, c, d}, 3)
	if len(recent) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(recent))
	}

	// b and c share a timestamp: ledger fetch order (b before c) must hold.
	want := []string{"TCS", "WIPRO", "SBIN"}
	for i, o := range recent {
		if o.Instrument != want[i] {
			t.Errorf("recent %d: expected %s, got %s", i, want[i], o.Instrument)
		}
	}
}

func TestRecentActivity_DoesNotMutateInput(t *testing.T) {
	a := order("INFY", model.SideBuy, 1, 100, testDay)
	b := order("TCS", model.SideBuy, 1, 100, testDay.Add(time.Hour))
	in := []model.Order{a, b}

	RecentActivity(in, 2)
	if in[0].Instrument != "INFY" || in[1].Instrument != "TCS" {
		t.Error("input slice must not be reordered")
	}
}
