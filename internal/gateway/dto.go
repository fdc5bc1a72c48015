package gateway

import (
	"time"

	"trading-dashboardv1/internal/model"
)

// REST response types. Storage and aggregation run in int64 paise; the
// dashboard renders rupees, so the conversion to float happens here at the
// edge and nowhere else.

func rupees(paise int64) float64 {
	return float64(paise) / 100
}

// HoldingOut is the REST response type for /api/holdings.
type HoldingOut struct {
	Instrument   string  `json:"instrument"`
	Qty          int64   `json:"qty"`
	AvgCost      float64 `json:"avg_cost"`
	CurrentPrice float64 `json:"current_price"`
	CurrentValue float64 `json:"current_value"`
	PL           float64 `json:"pl"`
	PLPercent    float64 `json:"pl_percent"`
	LastAction   string  `json:"last_action"`
}

func toHoldingOut(h model.Holding) HoldingOut {
	return HoldingOut{
		Instrument:   h.Instrument,
		Qty:          h.NetQty,
		AvgCost:      rupees(h.AvgCost),
		CurrentPrice: rupees(h.CurrentPrice),
		CurrentValue: rupees(h.CurrentValue),
		PL:           rupees(h.UnrealizedPL),
		PLPercent:    h.PLPercent,
		LastAction:   string(h.LastAction),
	}
}

// PositionOut is the REST response type for /api/positions.
type PositionOut struct {
	Instrument   string  `json:"instrument"`
	Product      string  `json:"product"`
	Qty          int64   `json:"qty"`
	AvgPrice     float64 `json:"avg_price"`
	CurrentPrice float64 `json:"current_price"`
	CurrentValue float64 `json:"current_value"`
	PL           float64 `json:"pl"`
	PLPercent    float64 `json:"pl_percent"`
}

func toPositionOut(p model.Position) PositionOut {
	return PositionOut{
		Instrument:   p.Instrument,
		Product:      string(p.ProductKind),
		Qty:          p.NetQty,
		AvgPrice:     rupees(p.AvgCost),
		CurrentPrice: rupees(p.CurrentPrice),
		CurrentValue: rupees(p.CurrentValue),
		PL:           rupees(p.UnrealizedPL),
		PLPercent:    p.PLPercent,
	}
}

// FundsOut is the REST response type for /api/funds.
type FundsOut struct {
	OpeningBalance  float64 `json:"opening_balance"`
	UsedMargin      float64 `json:"used_margin"`
	AvailableMargin float64 `json:"available_margin"`
	AvailableCash   float64 `json:"available_cash"`
}

func toFundsOut(f model.Funds) FundsOut {
	return FundsOut{
		OpeningBalance:  rupees(f.OpeningBalance),
		UsedMargin:      rupees(f.UsedMargin),
		AvailableMargin: rupees(f.AvailableMargin),
		AvailableCash:   rupees(f.AvailableCash),
	}
}

// OrderOut is the REST response type for order listings.
type OrderOut struct {
	ID         int64     `json:"id"`
	Instrument string    `json:"instrument"`
	Side       string    `json:"side"`
	Qty        int64     `json:"qty"`
	Price      float64   `json:"price"`
	OrderKind  string    `json:"order_kind"`
	Product    string    `json:"product"`
	CreatedAt  time.Time `json:"created_at"`
}

func toOrderOut(o model.Order) OrderOut {
	return OrderOut{
		ID:         o.ID,
		Instrument: o.Instrument,
		Side:       string(o.Side),
		Qty:        o.Qty,
		Price:      rupees(o.Price),
		OrderKind:  string(o.OrderKind),
		Product:    string(o.ProductKind),
		CreatedAt:  o.CreatedAt,
	}
}

// OrderIn is the POST /api/orders request body. Price arrives in rupees
// and is converted to paise before validation.
type OrderIn struct {
	Instrument string  `json:"instrument"`
	Side       string  `json:"side"`
	Qty        int64   `json:"qty"`
	Price      float64 `json:"price"`
	OrderKind  string  `json:"order_kind"`
	Product    string  `json:"product"`
}

func (in OrderIn) toModel(ownerID string) model.Order {
	return model.Order{
		OwnerID:     ownerID,
		Instrument:  in.Instrument,
		Side:        model.Side(in.Side),
		Qty:         in.Qty,
		Price:       int64(in.Price*100 + 0.5),
		OrderKind:   model.OrderKind(in.OrderKind),
		ProductKind: productKind(in.Product),
	}
}

// productKind accepts both the dashboard's broker vocabulary (CNC, MIS)
// and the model enum names. Anything else passes through for Validate to
// reject with its reason.
func productKind(s string) model.ProductKind {
	switch s {
	case "CNC":
		return model.ProductDelivery
	case "MIS":
		return model.ProductIntraday
	}
	return model.ProductKind(s)
}

// OrdersOut is the GET /api/orders response: the full order log for the
// owner with the side counts the order-book filter tabs show.
type OrdersOut struct {
	Orders    []OrderOut `json:"orders"`
	BuyCount  int        `json:"buy_count"`
	SellCount int        `json:"sell_count"`
}

func toOrdersOut(orders []model.Order) OrdersOut {
	out := OrdersOut{Orders: make([]OrderOut, 0, len(orders))}
	for _, o := range orders {
		out.Orders = append(out.Orders, toOrderOut(o))
		switch o.Side {
		case model.SideBuy:
			out.BuyCount++
		case model.SideSell:
			out.SellCount++
		}
	}
	return out
}

// TotalsOut is the summary header block.
type TotalsOut struct {
	TotalInvestment float64 `json:"total_investment"`
	CurrentValue    float64 `json:"current_value"`
	TotalPL         float64 `json:"total_pl"`
	PLPercent       float64 `json:"pl_percent"`
}

// SummaryOut is the REST response type for /api/summary and the WS
// snapshot payload.
type SummaryOut struct {
	Totals        TotalsOut    `json:"totals"`
	HoldingsCount int          `json:"holdings_count"`
	OrdersCount   int          `json:"orders_count"`
	TopGainers    []HoldingOut `json:"top_gainers"`
	TopLosers     []HoldingOut `json:"top_losers"`
	RecentOrders  []OrderOut   `json:"recent_orders"`
}

func toSummaryOut(s model.Summary) SummaryOut {
	out := SummaryOut{
		Totals: TotalsOut{
			TotalInvestment: rupees(s.Totals.TotalInvestment),
			CurrentValue:    rupees(s.Totals.CurrentValue),
			TotalPL:         rupees(s.Totals.TotalPL),
			PLPercent:       s.Totals.PLPercent,
		},
		HoldingsCount: s.HoldingsCount,
		OrdersCount:   s.OrdersCount,
		TopGainers:    make([]HoldingOut, 0, len(s.TopGainers)),
		TopLosers:     make([]HoldingOut, 0, len(s.TopLosers)),
		RecentOrders:  make([]OrderOut, 0, len(s.RecentOrders)),
	}
	for _, h := range s.TopGainers {
		out.TopGainers = append(out.TopGainers, toHoldingOut(h))
	}
	for _, h := range s.TopLosers {
		out.TopLosers = append(out.TopLosers, toHoldingOut(h))
	}
	for _, o := range s.RecentOrders {
		out.RecentOrders = append(out.RecentOrders, toOrderOut(o))
	}
	return out
}
