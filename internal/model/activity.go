package model

import "time"

// ActivityType classifies a brokerage activity record.
type ActivityType string

const (
	// ActivityFill is an executed buy or sell order (full or partial).
	ActivityFill ActivityType = "FILL"

	// ActivityDividend is a dividend cash payment.
	ActivityDividend ActivityType = "DIV"

	// ActivityWithholding is tax withheld at source on a dividend payment.
	ActivityWithholding ActivityType = "DIVNRA"
)

// Activity is a single brokerage activity record, already mapped from the
// feed's wire format. Activities are read-only input to the reconciliation
// pipeline and are never persisted as-is.
type Activity struct {
	ID     string
	Type   ActivityType
	Symbol string
	Date   time.Time // date only, UTC midnight

	// Fill fields. FillType distinguishes actual executions ("fill",
	// "partial_fill") from other order events which are not aggregated.
	Side     string
	FillType string
	Qty      float64
	Price    float64

	// Cash amount for DIV/DIVNRA records, as reported by the feed.
	// Withholding amounts keep their reported sign here; the engine
	// consumes the absolute value.
	Amount float64
}

// IsDividendBearing reports whether the activity marks its symbol as tracked.
// A symbol enters (and stays in) tracked state only through dividend or
// withholding activity.
func (a Activity) IsDividendBearing() bool {
	return a.Type == ActivityDividend || a.Type == ActivityWithholding
}

// WeekTrade is one executed buy order contributing to a week's bucket.
// The trade cache keeps these so individual orders can later be inspected
// and ignored without re-fetching the feed.
type WeekTrade struct {
	OrderID string  `json:"orderId"`
	Qty     float64 `json:"qty"`
	Price   float64 `json:"price"`
}

// WeekTradeStatus is a cached trade enriched with its ignore flag for display.
type WeekTradeStatus struct {
	WeekTrade
	Ignored bool `json:"ignored"`
}

// IgnoredTrade is one entry of the user-maintained ignore list.
type IgnoredTrade struct {
	OrderID   string    `json:"orderId"`
	CreatedAt time.Time `json:"createdAt"`
}

// WeeklyBucket accumulates all activity of one (symbol, week) pair.
// Buy and sell totals are kept separate because average price is computed
// per side; they are never netted. Buckets are mutated only during
// aggregation.
type WeeklyBucket struct {
	GrossDividend  float64
	WithholdingTax float64 // as reported, may be negative
	BuyCost        float64
	BuyQty         float64
	SellCost       float64
	SellQty        float64
	Trades         []WeekTrade
}
