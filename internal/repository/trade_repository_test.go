package repository_test

import (
	"errors"
	"testing"
	"time"

	"github.com/mwerner-fin/divtracker-backend/internal/apperrors"
	"github.com/mwerner-fin/divtracker-backend/internal/model"
	"github.com/mwerner-fin/divtracker-backend/internal/repository"
	"github.com/mwerner-fin/divtracker-backend/internal/testutil"
)

func TestTradeRepositoryWeekTrades(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewTradeRepository(db)

	week := model.WeekKey{Week: 33, Year: 2025}
	cache := map[string]map[model.WeekKey][]model.WeekTrade{
		"ULTY": {
			week: {
				{OrderID: "order-a", Qty: 10, Price: 5},
				{OrderID: "order-b", Qty: 2, Price: 5.5},
			},
		},
	}

	if err := repo.ReplaceWeekTrades(cache); err != nil {
		t.Fatalf("ReplaceWeekTrades failed: %v", err)
	}

	t.Run("returns cached trades with ignore flags", func(t *testing.T) {
		if err := repo.IgnoreTrade("order-b", time.Now().UTC()); err != nil {
			t.Fatalf("IgnoreTrade failed: %v", err)
		}

		trades, err := repo.GetWeekTrades("ULTY", week)
		if err != nil {
			t.Fatalf("GetWeekTrades failed: %v", err)
		}
		if len(trades) != 2 {
			t.Fatalf("Expected 2 trades, got %d", len(trades))
		}

		if trades[0].OrderID != "order-a" || trades[0].Ignored {
			t.Errorf("Expected order-a not ignored, got %+v", trades[0])
		}
		if trades[1].OrderID != "order-b" || !trades[1].Ignored {
			t.Errorf("Expected order-b ignored, got %+v", trades[1])
		}
	})

	t.Run("empty week returns an empty list", func(t *testing.T) {
		trades, err := repo.GetWeekTrades("ULTY", model.WeekKey{Week: 1, Year: 2020})
		if err != nil {
			t.Fatalf("GetWeekTrades failed: %v", err)
		}
		if len(trades) != 0 {
			t.Errorf("Expected no trades, got %+v", trades)
		}
	})

	t.Run("replace drops the previous cache", func(t *testing.T) {
		if err := repo.ReplaceWeekTrades(nil); err != nil {
			t.Fatalf("ReplaceWeekTrades failed: %v", err)
		}

		trades, err := repo.GetWeekTrades("ULTY", week)
		if err != nil {
			t.Fatalf("GetWeekTrades failed: %v", err)
		}
		if len(trades) != 0 {
			t.Errorf("Expected cache cleared, got %+v", trades)
		}
	})
}

func TestTradeRepositoryIgnoreList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewTradeRepository(db)

	t.Run("ignore is idempotent", func(t *testing.T) {
		now := time.Now().UTC()
		if err := repo.IgnoreTrade("order-1", now); err != nil {
			t.Fatalf("IgnoreTrade failed: %v", err)
		}
		if err := repo.IgnoreTrade("order-1", now.Add(time.Hour)); err != nil {
			t.Fatalf("Repeated IgnoreTrade failed: %v", err)
		}

		ignored, err := repo.ListIgnored()
		if err != nil {
			t.Fatalf("ListIgnored failed: %v", err)
		}
		if len(ignored) != 1 {
			t.Errorf("Expected 1 entry, got %d", len(ignored))
		}
	})

	t.Run("list is newest first", func(t *testing.T) {
		base := time.Date(2025, 8, 20, 12, 0, 0, 0, time.UTC)
		if err := repo.IgnoreTrade("order-old", base); err != nil {
			t.Fatalf("IgnoreTrade failed: %v", err)
		}
		if err := repo.IgnoreTrade("order-new", base.Add(time.Hour)); err != nil {
			t.Fatalf("IgnoreTrade failed: %v", err)
		}

		ignored, err := repo.ListIgnored()
		if err != nil {
			t.Fatalf("ListIgnored failed: %v", err)
		}
		if len(ignored) < 2 {
			t.Fatalf("Expected at least 2 entries, got %d", len(ignored))
		}

		var oldIdx, newIdx int
		for i, entry := range ignored {
			switch entry.OrderID {
			case "order-old":
				oldIdx = i
			case "order-new":
				newIdx = i
			}
		}
		if newIdx > oldIdx {
			t.Errorf("Expected order-new before order-old, got %+v", ignored)
		}
	})

	t.Run("GetIgnoredSet mirrors the list", func(t *testing.T) {
		set, err := repo.GetIgnoredSet()
		if err != nil {
			t.Fatalf("GetIgnoredSet failed: %v", err)
		}
		if !set["order-1"] || !set["order-old"] || !set["order-new"] {
			t.Errorf("Missing entries in set: %v", set)
		}
		if set["order-unknown"] {
			t.Errorf("Unexpected entry in set")
		}
	})

	t.Run("unignore removes the entry", func(t *testing.T) {
		if err := repo.UnignoreTrade("order-1"); err != nil {
			t.Fatalf("UnignoreTrade failed: %v", err)
		}
		if err := repo.UnignoreTrade("order-1"); !errors.Is(err, apperrors.ErrTradeNotFound) {
			t.Errorf("Expected ErrTradeNotFound on second delete, got %v", err)
		}
	})

	t.Run("empty order IDs are rejected", func(t *testing.T) {
		if err := repo.IgnoreTrade("", time.Now().UTC()); !errors.Is(err, apperrors.ErrEmptyID) {
			t.Errorf("Expected ErrEmptyID from IgnoreTrade, got %v", err)
		}
		if err := repo.UnignoreTrade(""); !errors.Is(err, apperrors.ErrEmptyID) {
			t.Errorf("Expected ErrEmptyID from UnignoreTrade, got %v", err)
		}
	})
}
