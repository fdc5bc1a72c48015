package portfolio

import (
	"testing"

	"trading-dashboardv1/internal/model"
)

func TestComputeFunds_Reference(t *testing.T) {
	// Opening balance ₹3,740; one holding of 10 @ avg ₹200.
	holdings := []model.Holding{
		{Instrument: "INFY", NetQty: 10, AvgCost: 20000},
	}

	funds := ComputeFunds(holdings, 374000)
	if funds.UsedMargin != 200000 {
		t.Errorf("expected usedMargin=200000 paise, got %d", funds.UsedMargin)
	}
	if funds.AvailableMargin != 174000 {
		t.Errorf("expected availableMargin=174000 paise, got %d", funds.AvailableMargin)
	}
	if funds.AvailableCash != 174000 {
		t.Errorf("expected availableCash=174000 paise, got %d", funds.AvailableCash)
	}
}

func TestComputeFunds_NeverNegative(t *testing.T) {
	holdings := []model.Holding{
		{Instrument: "TCS", NetQty: 100, AvgCost: 300000},
	}

	funds := ComputeFunds(holdings, 374000)
	if funds.AvailableMargin != 0 {
		t.Errorf("available margin must clamp at 0, got %d", funds.AvailableMargin)
	}
	if funds.AvailableCash != 0 {
		t.Errorf("available cash must clamp at 0, got %d", funds.AvailableCash)
	}
	if funds.UsedMargin != 100*300000 {
		t.Errorf("used margin reports true notional, got %d", funds.UsedMargin)
	}
}

func TestComputeFunds_EmptyHoldings(t *testing.T) {
	funds := ComputeFunds(nil, 374000)
	if funds.UsedMargin != 0 {
		t.Errorf("expected usedMargin=0, got %d", funds.UsedMargin)
	}
	if funds.AvailableMargin != 374000 {
		t.Errorf("expected full opening balance available, got %d", funds.AvailableMargin)
	}
}
