package service

import (
	"math"

	"github.com/mwerner-fin/divtracker-backend/internal/model"
)

// AggregateWeeks folds one symbol's normalized events into per-week buckets.
// Buy and sell executions accumulate cost and quantity on separate sides;
// dividend and withholding amounts accumulate as reported. Buy orders are
// also recorded individually so they can be inspected and ignored later.
//
// The current week's bucket always exists, even when empty, so the engine
// emits a row for the running week before any activity lands in it.
func AggregateWeeks(events []NormalizedEvent, now model.WeekKey) map[model.WeekKey]*model.WeeklyBucket {
	buckets := make(map[model.WeekKey]*model.WeeklyBucket)

	bucket := func(week model.WeekKey) *model.WeeklyBucket {
		b, ok := buckets[week]
		if !ok {
			b = &model.WeeklyBucket{}
			buckets[week] = b
		}
		return b
	}

	for _, e := range events {
		a := e.Activity
		b := bucket(e.Week)

		switch a.Type {
		case model.ActivityFill:
			cost := a.Qty * a.Price
			switch a.Side {
			case "buy":
				b.BuyCost += cost
				b.BuyQty += a.Qty
				b.Trades = append(b.Trades, model.WeekTrade{
					OrderID: a.ID,
					Qty:     a.Qty,
					Price:   a.Price,
				})
			case "sell":
				b.SellCost += cost
				b.SellQty += a.Qty
			}

		case model.ActivityDividend:
			b.GrossDividend += a.Amount

		case model.ActivityWithholding:
			b.WithholdingTax += a.Amount
		}
	}

	bucket(now)

	return buckets
}

// round2 rounds to cents. Derived money figures are stored rounded; raw
// bucket sums are not.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
