package portfolio

import (
	"testing"
	"time"

	"trading-dashboardv1/internal/model"
	"trading-dashboardv1/internal/pricing"
	"trading-dashboardv1/internal/tradingday"
)

func TestComputePositions_TodayOnly(t *testing.T) {
	asOf := time.Date(2026, 3, 10, 14, 0, 0, 0, tradingday.IST)
	yesterday := asOf.AddDate(0, 0, -1)

	orders := []model.Order{
		order("INFY", model.SideBuy, 10, 10000, yesterday),
		order("TCS", model.SideBuy, 5, 300000, asOf),
	}

	positions := ComputePositions(orders, pricing.Table{}, asOf)
	if len(positions) != 1 {
		t.Fatalf("expected 1 position, got %d", len(positions))
	}
	if positions[0].Instrument != "TCS" {
		t.Errorf("expected TCS (today's buy), got %s", positions[0].Instrument)
	}
}

func TestComputePositions_DayBoundary(t *testing.T) {
	dayD := time.Date(2026, 3, 10, 12, 0, 0, 0, tradingday.IST)
	lastInstant := time.Date(2026, 3, 10, 23, 59, 59, 999_000_000, tradingday.IST)
	dayAfter := dayD.AddDate(0, 0, 1)

	orders := []model.Order{order("INFY", model.SideBuy, 10, 10000, lastInstant)}

	if got := ComputePositions(orders, pricing.Table{}, dayD); len(got) != 1 {
		t.Errorf("order at 23:59:59.999 of D must be included for D, got %d positions", len(got))
	}
	if got := ComputePositions(orders, pricing.Table{}, dayAfter); len(got) != 0 {
		t.Errorf("order at 23:59:59.999 of D must be excluded for D+1, got %d positions", len(got))
	}
}

func TestComputePositions_ClosedTodayOmitted(t *testing.T) {
	asOf := time.Date(2026, 3, 10, 14, 0, 0, 0, tradingday.IST)
	orders := []model.Order{
		order("INFY", model.SideBuy, 10, 10000, asOf),
		order("INFY", model.SideSell, 10, 12000, asOf),
	}

	positions := ComputePositions(orders, pricing.Table{"INFY": 11000}, asOf)
	if len(positions) != 0 {
		t.Fatalf("fully closed round-trip must not appear as a zero row, got %d", len(positions))
	}
}

func TestComputePositions_SellWithoutSameDayBuyOmitted(t *testing.T) {
	asOf := time.Date(2026, 3, 10, 14, 0, 0, 0, tradingday.IST)
	yesterday := asOf.AddDate(0, 0, -1)

	// Bought yesterday, sold today: today's filtered set has no buy, so no
	// cost basis and no visible position. Inherited dashboard behavior.
	orders := []model.Order{
		order("INFY", model.SideBuy, 10, 10000, yesterday),
		order("INFY", model.SideSell, 10, 12000, asOf),
	}

	positions := ComputePositions(orders, pricing.Table{"INFY": 11000}, asOf)
	if len(positions) != 0 {
		t.Fatalf("closing sell with no same-day buy must produce no position, got %d", len(positions))
	}
}

func TestComputePositions_NetShortEmitted(t *testing.T) {
	asOf := time.Date(2026, 3, 10, 14, 0, 0, 0, tradingday.IST)
	orders := []model.Order{
		order("INFY", model.SideBuy, 5, 10000, asOf),
		order("INFY", model.SideSell, 8, 11000, asOf),
	}

	positions := ComputePositions(orders, pricing.Table{"INFY": 10500}, asOf)
	if len(positions) != 1 {
		t.Fatalf("expected the net-short position to be reported, got %d", len(positions))
	}
	if positions[0].NetQty != -3 {
		t.Errorf("expected netQty=-3, got %d", positions[0].NetQty)
	}
}

func TestComputePositions_CarriesProductKind(t *testing.T) {
	asOf := time.Date(2026, 3, 10, 14, 0, 0, 0, tradingday.IST)
	o := order("INFY", model.SideBuy, 10, 10000, asOf)
	o.ProductKind = model.ProductIntraday

	positions := ComputePositions([]model.Order{o}, pricing.Table{}, asOf)
	if len(positions) != 1 {
		t.Fatalf("expected 1 position, got %d", len(positions))
	}
	if positions[0].ProductKind != model.ProductIntraday {
		t.Errorf("expected product kind INTRADAY, got %s", positions[0].ProductKind)
	}
}

func TestComputePositions_PL(t *testing.T) {
	asOf := time.Date(2026, 3, 10, 14, 0, 0, 0, tradingday.IST)
	orders := []model.Order{
		order("INFY", model.SideBuy, 10, 10000, asOf),
	}

	positions := ComputePositions(orders, pricing.Table{"INFY": 12000}, asOf)
	if len(positions) != 1 {
		t.Fatalf("expected 1 position, got %d", len(positions))
	}
	p := positions[0]
	if p.UnrealizedPL != 10*12000-10*10000 {
		t.Errorf("expected unrealizedPL=20000, got %d", p.UnrealizedPL)
	}
	if p.PLPercent != 20 {
		t.Errorf("expected plPercent=20, got %f", p.PLPercent)
	}
}
