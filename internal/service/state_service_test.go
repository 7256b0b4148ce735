package service_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/mwerner-fin/divtracker-backend/internal/apperrors"
	"github.com/mwerner-fin/divtracker-backend/internal/model"
	"github.com/mwerner-fin/divtracker-backend/internal/testutil"
)

func rate(v float64) *float64 {
	return &v
}

func ultyState() model.SymbolState {
	return model.SymbolState{
		Symbol:          "ULTY",
		InvestedCapital: 500,
		Rows: []model.PositionRow{
			{
				Week:        model.WeekKey{Week: 33, Year: 2025},
				TotalShares: 50,
				AvgBuyPrice: 10,
				MarketValue: 600,

				ReturnToDate: -500,
			},
			{
				Week:              model.WeekKey{Week: 34, Year: 2025},
				StartShares:       50,
				DivPerShare:       rate(1.2),
				GrossDividend:     60,
				Withholding:       10,
				NetDividend:       50,
				ReinvestedShares:  1,
				TotalShares:       51,
				AvgBuyPrice:       50,
				MarketValue:       612,
				AvgWeeklyDividend: 25,

				AnnualizedDividend: 1300,
				ReturnToDate:       -450,
			},
		},
	}
}

func TestStateServicePinning(t *testing.T) {
	week := model.WeekKey{Week: 34, Year: 2025}

	t.Run("pin then unpin restores the derived rate", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		testutil.SeedSymbolState(t, db, ultyState())
		svc := testutil.NewTestStateService(t, db)

		if err := svc.PinRate("ULTY", week, 0.75); err != nil {
			t.Fatalf("PinRate failed: %v", err)
		}

		state, err := svc.GetSymbol("ULTY")
		if err != nil {
			t.Fatalf("GetSymbol failed: %v", err)
		}
		row := state.Rows[1]
		if row.DivPerShare == nil || *row.DivPerShare != 0.75 || !row.DivPerSharePinned {
			t.Errorf("Expected pinned 0.75, got %v (pinned %v)", row.DivPerShare, row.DivPerSharePinned)
		}

		if err := svc.UnpinRate("ULTY", week); err != nil {
			t.Fatalf("UnpinRate failed: %v", err)
		}

		state, err = svc.GetSymbol("ULTY")
		if err != nil {
			t.Fatalf("GetSymbol failed: %v", err)
		}
		row = state.Rows[1]
		if row.DivPerShare == nil || *row.DivPerShare != 1.2 {
			t.Errorf("Expected derived rate 1.2 after unpin, got %v", row.DivPerShare)
		}
		if row.DivPerSharePinned {
			t.Errorf("Expected pinned flag cleared")
		}
	})

	t.Run("unpin leaves the rate undefined without starting shares", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		testutil.SeedSymbolState(t, db, ultyState())
		svc := testutil.NewTestStateService(t, db)

		first := model.WeekKey{Week: 33, Year: 2025}
		if err := svc.PinRate("ULTY", first, 0.5); err != nil {
			t.Fatalf("PinRate failed: %v", err)
		}
		if err := svc.UnpinRate("ULTY", first); err != nil {
			t.Fatalf("UnpinRate failed: %v", err)
		}

		state, err := svc.GetSymbol("ULTY")
		if err != nil {
			t.Fatalf("GetSymbol failed: %v", err)
		}
		if state.Rows[0].DivPerShare != nil {
			t.Errorf("Expected undefined rate, got %v", *state.Rows[0].DivPerShare)
		}
	})

	t.Run("pinning an unknown week fails", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		testutil.SeedSymbolState(t, db, ultyState())
		svc := testutil.NewTestStateService(t, db)

		err := svc.PinRate("ULTY", model.WeekKey{Week: 1, Year: 2020}, 0.5)
		if !errors.Is(err, apperrors.ErrWeekNotFound) {
			t.Errorf("Expected ErrWeekNotFound, got %v", err)
		}
	})
}

func TestStateServicePortfolioSummary(t *testing.T) {
	db := testutil.SetupTestDB(t)

	other := model.SymbolState{
		Symbol:          "YMAX",
		InvestedCapital: 200,
		Rows: []model.PositionRow{
			{
				Week:         model.WeekKey{Week: 34, Year: 2025},
				TotalShares:  20,
				MarketValue:  180,
				ReturnToDate: -150,
			},
		},
	}
	testutil.SeedSymbolState(t, db, ultyState(), other)

	svc := testutil.NewTestStateService(t, db)
	summary, err := svc.PortfolioSummary()
	if err != nil {
		t.Fatalf("PortfolioSummary failed: %v", err)
	}

	if summary.Symbols != 2 {
		t.Errorf("Expected 2 symbols, got %d", summary.Symbols)
	}
	if summary.TotalInvested != 700 {
		t.Errorf("Expected invested 700, got %v", summary.TotalInvested)
	}
	if summary.TotalMarketValue != 792 {
		t.Errorf("Expected market value 792, got %v", summary.TotalMarketValue)
	}
	if summary.TotalGain != 92 {
		t.Errorf("Expected gain 92, got %v", summary.TotalGain)
	}
	if summary.DividendReturn != -600 {
		t.Errorf("Expected dividend return -600, got %v", summary.DividendReturn)
	}
}

func TestStateServiceExportCSV(t *testing.T) {
	t.Run("writes header and one line per week", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		testutil.SeedSymbolState(t, db, ultyState())
		svc := testutil.NewTestStateService(t, db)

		var buf bytes.Buffer
		if err := svc.ExportCSV(&buf, "ULTY"); err != nil {
			t.Fatalf("ExportCSV failed: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 3 {
			t.Fatalf("Expected header plus 2 rows, got %d lines", len(lines))
		}
		if !strings.HasPrefix(lines[0], "Week,StartShares,DivPerShare,Gross") {
			t.Errorf("Unexpected header: %s", lines[0])
		}
		if !strings.HasPrefix(lines[1], "33/2025,0,,0.00") {
			t.Errorf("Unexpected first row: %s", lines[1])
		}
		if !strings.HasPrefix(lines[2], "34/2025,50,1.2000,60.00") {
			t.Errorf("Unexpected second row: %s", lines[2])
		}
	})

	t.Run("fails for an unknown symbol", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestStateService(t, db)

		var buf bytes.Buffer
		err := svc.ExportCSV(&buf, "NOPE")
		if !errors.Is(err, apperrors.ErrSymbolNotFound) {
			t.Errorf("Expected ErrSymbolNotFound, got %v", err)
		}
		if buf.Len() != 0 {
			t.Errorf("Expected no output on failure, got %q", buf.String())
		}
	})
}

func TestStateServiceIgnoreList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestStateService(t, db)

	t.Run("ignore and list", func(t *testing.T) {
		if err := svc.IgnoreTrade("order-1"); err != nil {
			t.Fatalf("IgnoreTrade failed: %v", err)
		}
		// Ignoring twice is a no-op, not an error.
		if err := svc.IgnoreTrade("order-1"); err != nil {
			t.Fatalf("Repeated IgnoreTrade failed: %v", err)
		}

		ignored, err := svc.ListIgnoredTrades()
		if err != nil {
			t.Fatalf("ListIgnoredTrades failed: %v", err)
		}
		if len(ignored) != 1 || ignored[0].OrderID != "order-1" {
			t.Errorf("Expected [order-1], got %+v", ignored)
		}
	})

	t.Run("unignore removes the entry", func(t *testing.T) {
		if err := svc.UnignoreTrade("order-1"); err != nil {
			t.Fatalf("UnignoreTrade failed: %v", err)
		}

		ignored, err := svc.ListIgnoredTrades()
		if err != nil {
			t.Fatalf("ListIgnoredTrades failed: %v", err)
		}
		if len(ignored) != 0 {
			t.Errorf("Expected empty ignore list, got %+v", ignored)
		}
	})

	t.Run("unignoring an unknown order fails", func(t *testing.T) {
		err := svc.UnignoreTrade("missing")
		if !errors.Is(err, apperrors.ErrTradeNotFound) {
			t.Errorf("Expected ErrTradeNotFound, got %v", err)
		}
	})

	t.Run("empty order ID is rejected", func(t *testing.T) {
		err := svc.IgnoreTrade("")
		if !errors.Is(err, apperrors.ErrEmptyID) {
			t.Errorf("Expected ErrEmptyID, got %v", err)
		}
	})
}

func TestStateServiceWeekTrades(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SeedSymbolState(t, db, ultyState())
	svc := testutil.NewTestStateService(t, db)

	t.Run("unknown symbol fails", func(t *testing.T) {
		_, err := svc.WeekTrades("NOPE", model.WeekKey{Week: 33, Year: 2025})
		if !errors.Is(err, apperrors.ErrSymbolNotFound) {
			t.Errorf("Expected ErrSymbolNotFound, got %v", err)
		}
	})

	t.Run("tracked symbol with no cached trades returns empty", func(t *testing.T) {
		trades, err := svc.WeekTrades("ULTY", model.WeekKey{Week: 33, Year: 2025})
		if err != nil {
			t.Fatalf("WeekTrades failed: %v", err)
		}
		if len(trades) != 0 {
			t.Errorf("Expected no trades, got %+v", trades)
		}
	})
}
