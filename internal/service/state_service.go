package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/mwerner-fin/divtracker-backend/internal/model"
	"github.com/mwerner-fin/divtracker-backend/internal/repository"
)

// StateService handles read and edit operations on the reconciled state:
// symbol listings, per-week rate pinning, the trade ignore list and exports.
type StateService struct {
	stateRepo *repository.StateRepository
	tradeRepo *repository.TradeRepository
}

// NewStateService creates a new StateService with the provided repository dependencies.
func NewStateService(stateRepo *repository.StateRepository, tradeRepo *repository.TradeRepository) *StateService {
	return &StateService{
		stateRepo: stateRepo,
		tradeRepo: tradeRepo,
	}
}

// ListSymbols retrieves all tracked symbols with their headline figures.
func (s *StateService) ListSymbols() ([]model.SymbolSummary, error) {
	return s.stateRepo.ListSymbols()
}

// GetSymbol retrieves the full week-by-week state of one symbol.
func (s *StateService) GetSymbol(symbol string) (model.SymbolState, error) {
	return s.stateRepo.GetSymbolState(symbol)
}

// PinRate sets a manual per-share dividend rate on one week. Pinned rates
// survive later syncs verbatim; the automatic rate derivation skips them.
func (s *StateService) PinRate(symbol string, week model.WeekKey, rate float64) error {
	return s.stateRepo.UpdateRowRate(symbol, week, &rate, true)
}

// UnpinRate removes a manual rate and restores the derived one: gross
// dividend over starting shares, or undefined when no shares were held.
func (s *StateService) UnpinRate(symbol string, week model.WeekKey) error {
	row, err := s.stateRepo.GetRow(symbol, week)
	if err != nil {
		return err
	}

	var rate *float64
	if row.StartShares > 0 {
		r := row.GrossDividend / float64(row.StartShares)
		rate = &r
	}

	return s.stateRepo.UpdateRowRate(symbol, week, rate, false)
}

// WeekTrades retrieves the cached buy orders of one week with their ignore
// flags. The symbol must be tracked; the week may legitimately have no trades.
func (s *StateService) WeekTrades(symbol string, week model.WeekKey) ([]model.WeekTradeStatus, error) {
	if _, err := s.stateRepo.GetSymbolState(symbol); err != nil {
		return nil, err
	}
	return s.tradeRepo.GetWeekTrades(symbol, week)
}

// IgnoreTrade marks an order ID as ignored. The flag takes effect on the
// next sync, when the order is excluded from aggregation.
func (s *StateService) IgnoreTrade(orderID string) error {
	return s.tradeRepo.IgnoreTrade(orderID, time.Now().UTC())
}

// UnignoreTrade removes an order ID from the ignore list.
func (s *StateService) UnignoreTrade(orderID string) error {
	return s.tradeRepo.UnignoreTrade(orderID)
}

// ListIgnoredTrades retrieves the full ignore list.
func (s *StateService) ListIgnoredTrades() ([]model.IgnoredTrade, error) {
	return s.tradeRepo.ListIgnored()
}

// PortfolioSummary aggregates invested capital, market value and dividend
// return across all tracked symbols, taking each symbol's latest week.
func (s *StateService) PortfolioSummary() (model.PortfolioSummary, error) {
	symbols, err := s.stateRepo.ListSymbols()
	if err != nil {
		return model.PortfolioSummary{}, err
	}

	summary := model.PortfolioSummary{Symbols: len(symbols)}
	for _, sym := range symbols {
		summary.TotalInvested += sym.InvestedCapital
		summary.TotalMarketValue += sym.MarketValue
		summary.DividendReturn += sym.ReturnToDate
	}
	summary.TotalGain = summary.TotalMarketValue - summary.TotalInvested

	return summary, nil
}

// ExportCSV writes one symbol's reconciled rows as CSV, oldest week first.
func (s *StateService) ExportCSV(w io.Writer, symbol string) error {
	state, err := s.stateRepo.GetSymbolState(symbol)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)

	header := []string{
		"Week", "StartShares", "DivPerShare", "Gross", "WHT", "Net",
		"DRIP", "Total", "Price", "Value", "AvgWeek", "Annualized", "Return",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range state.Rows {
		rate := ""
		if row.DivPerShare != nil {
			rate = strconv.FormatFloat(*row.DivPerShare, 'f', 4, 64)
		}

		record := []string{
			row.Week.String(),
			strconv.Itoa(row.StartShares),
			rate,
			money(row.GrossDividend),
			money(row.Withholding),
			money(row.NetDividend),
			strconv.Itoa(row.ReinvestedShares),
			strconv.Itoa(row.TotalShares),
			money(row.AvgBuyPrice),
			money(row.MarketValue),
			money(row.AvgWeeklyDividend),
			money(row.AnnualizedDividend),
			money(row.ReturnToDate),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func money(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}
