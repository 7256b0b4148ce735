package service

import (
	"fmt"
	"math"

	"github.com/mwerner-fin/divtracker-backend/internal/apperrors"
	"github.com/mwerner-fin/divtracker-backend/internal/model"
)

// Reconcile derives one symbol's full week-by-week position history from its
// weekly buckets. It is a pure function of its inputs; running it twice over
// the same buckets yields identical rows and capital.
//
// Weeks are processed oldest first, each carrying the prior week's closing
// share count forward. Within a week:
//
//   - Withholding is consumed as an absolute value regardless of the sign
//     the feed reports, and net dividend is gross minus withholding.
//   - The per-share rate is the pinned value when one exists for the week;
//     otherwise gross over starting shares, undefined when no shares were
//     held at week start.
//   - A buy raises the share count by the whole-share quantity at the
//     week's average buy price. When the week's net dividend covers the
//     entire buy cost the buy is classified as a dividend reinvestment:
//     shares grow but invested capital does not. Otherwise only the part
//     of the cost not funded by dividends counts as fresh capital.
//   - A sell reduces invested capital by the sale proceeds and clears the
//     position to zero. Position scaling on partial sells is not modeled.
//
// The returned capital figure is rounded to cents. currentPrice values the
// position and prices buy-free weeks; zero means unknown.
func Reconcile(buckets map[model.WeekKey]*model.WeeklyBucket, pinned map[model.WeekKey]float64, currentPrice float64) ([]model.PositionRow, float64, error) {
	weeks := make([]model.WeekKey, 0, len(buckets))
	for week := range buckets {
		weeks = append(weeks, week)
	}
	model.SortWeekKeys(weeks)

	rows := make([]model.PositionRow, 0, len(weeks))

	var (
		invested  float64
		shares    int
		cumNet    float64
		weekCount int
	)

	for _, week := range weeks {
		b := buckets[week]

		gross := b.GrossDividend
		wht := math.Abs(b.WithholdingTax)
		net := gross - wht

		row := model.PositionRow{
			Week:          week,
			StartShares:   shares,
			GrossDividend: round2(gross),
			Withholding:   round2(wht),
			NetDividend:   round2(net),
		}

		if rate, ok := pinned[week]; ok {
			r := rate
			row.DivPerShare = &r
			row.DivPerSharePinned = true
		} else if shares > 0 {
			r := gross / float64(shares)
			row.DivPerShare = &r
		}

		if b.BuyQty > 0 {
			shares += int(b.BuyQty)
			avgBuyPrice := b.BuyCost / b.BuyQty
			row.AvgBuyPrice = avgBuyPrice

			if net >= b.BuyCost {
				// The week's dividends fully fund the buy: a reinvestment,
				// not fresh capital.
				row.ReinvestedShares = int(net / avgBuyPrice)
			} else {
				invested += b.BuyCost - net
			}
		} else if currentPrice > 0 {
			row.AvgBuyPrice = currentPrice
		}

		if b.SellQty > 0 {
			invested -= b.SellCost
			shares = 0
		}

		if shares < 0 {
			return nil, 0, fmt.Errorf("%w: %s closed at %d shares", apperrors.ErrInvariantViolation, week, shares)
		}

		row.TotalShares = shares
		if currentPrice > 0 {
			row.MarketValue = round2(float64(shares) * currentPrice)
		}

		cumNet += net
		weekCount++

		row.AvgWeeklyDividend = round2(cumNet / float64(weekCount))
		row.AnnualizedDividend = round2(cumNet / float64(weekCount) * 52)
		row.ReturnToDate = round2(cumNet - invested)

		rows = append(rows, row)
	}

	return rows, round2(invested), nil
}
