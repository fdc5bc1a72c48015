package model

// Holding is the all-time net position in one instrument with its average
// cost basis. Only instruments with NetQty > 0 are reported as holdings.
// All money fields are int64 paise; PLPercent is a display ratio.
type Holding struct {
	Instrument   string  `json:"instrument"`
	NetQty       int64   `json:"net_qty"`
	AvgCost      int64   `json:"avg_cost"`      // paise, totalBuyNotional / boughtQty
	CurrentPrice int64   `json:"current_price"` // paise, avg cost when no quote
	CurrentValue int64   `json:"current_value"` // paise, NetQty * CurrentPrice
	InvestedVal  int64   `json:"invested_value"`
	UnrealizedPL int64   `json:"unrealized_pl"` // paise
	PLPercent    float64 `json:"pl_percent"`
	LastAction   Side    `json:"last_action"` // side of the latest order seen
}

// Position is the same-day net position in one instrument. Unlike a Holding
// it may in principle be net-short; exact zero nets (closed today) are
// omitted rather than reported as zero rows.
type Position struct {
	Instrument   string      `json:"instrument"`
	ProductKind  ProductKind `json:"product_kind"`
	NetQty       int64       `json:"net_qty"`
	AvgCost      int64       `json:"avg_cost"`
	CurrentPrice int64       `json:"current_price"`
	CurrentValue int64       `json:"current_value"`
	InvestedVal  int64       `json:"invested_value"`
	UnrealizedPL int64       `json:"unrealized_pl"`
	PLPercent    float64     `json:"pl_percent"`
}

// Funds is the margin/cash view derived from holdings.
type Funds struct {
	OpeningBalance  int64 `json:"opening_balance"`  // paise
	UsedMargin      int64 `json:"used_margin"`      // paise, Σ NetQty*AvgCost
	AvailableMargin int64 `json:"available_margin"` // paise, never negative
	AvailableCash   int64 `json:"available_cash"`   // paise, never negative
}

// Totals sums holdings into the portfolio header card.
type Totals struct {
	TotalInvestment int64   `json:"total_investment"` // paise
	CurrentValue    int64   `json:"current_value"`    // paise
	TotalPL         int64   `json:"total_pl"`         // paise
	PLPercent       float64 `json:"pl_percent"`       // 0 when investment is 0
}

// Summary is the ranked dashboard overview built from the other aggregates.
type Summary struct {
	Totals        Totals    `json:"totals"`
	HoldingsCount int       `json:"holdings_count"`
	OrdersCount   int       `json:"orders_count"`
	TopGainers    []Holding `json:"top_gainers"`
	TopLosers     []Holding `json:"top_losers"`
	RecentOrders  []Order   `json:"recent_orders"`
}
