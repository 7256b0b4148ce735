package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mwerner-fin/divtracker-backend/internal/alpaca"
	"github.com/mwerner-fin/divtracker-backend/internal/apperrors"
	"github.com/mwerner-fin/divtracker-backend/internal/crypto"
	"github.com/mwerner-fin/divtracker-backend/internal/model"
	"github.com/mwerner-fin/divtracker-backend/internal/repository"
)

// ClientFactory builds a feed client from decrypted credentials. Injected so
// tests can substitute a mock without touching the network.
type ClientFactory func(apiKey, apiSecret string, paper bool) alpaca.Client

// SyncSummary reports what a completed sync processed.
type SyncSummary struct {
	Activities int       `json:"activities"`
	Symbols    int       `json:"symbols"`
	Duplicates int       `json:"duplicates"`
	Ignored    int       `json:"ignored"`
	SyncedAt   time.Time `json:"syncedAt"`
}

// SyncService orchestrates a full brokerage synchronization: fetch the
// activity feed and open positions, run the reconciliation pipeline per
// symbol, and atomically replace the stored state.
type SyncService struct {
	db         *sql.DB
	stateRepo  *repository.StateRepository
	tradeRepo  *repository.TradeRepository
	brokerRepo *repository.BrokerRepository
	sealer     *crypto.Sealer
	newClient  ClientFactory
}

// NewSyncService creates a new SyncService with the provided dependencies.
// A nil factory defaults to the real Alpaca client.
func NewSyncService(
	db *sql.DB,
	stateRepo *repository.StateRepository,
	tradeRepo *repository.TradeRepository,
	brokerRepo *repository.BrokerRepository,
	sealer *crypto.Sealer,
	newClient ClientFactory,
) *SyncService {
	if newClient == nil {
		newClient = func(apiKey, apiSecret string, paper bool) alpaca.Client {
			return alpaca.NewBrokerClient(apiKey, apiSecret, paper)
		}
	}
	return &SyncService{
		db:         db,
		stateRepo:  stateRepo,
		tradeRepo:  tradeRepo,
		brokerRepo: brokerRepo,
		sealer:     sealer,
		newClient:  newClient,
	}
}

// Run performs one synchronization pass. The full activity history is
// re-fetched and the derived state rebuilt from scratch, so a sync is safe to
// repeat: running it twice against the same feed yields identical results.
//
// Any fetch failure aborts before anything is written; the previously stored
// state stays untouched. All writes happen in a single transaction.
func (s *SyncService) Run(ctx context.Context) (SyncSummary, error) {
	cfg, err := s.brokerRepo.GetConfig()
	if err != nil {
		return SyncSummary{}, err
	}

	secret, err := s.sealer.Open(cfg.APISecretEnc)
	if err != nil {
		return SyncSummary{}, err
	}

	client := s.newClient(cfg.APIKey, secret, cfg.Mode == "paper")

	now := time.Now().UTC()
	until := now.AddDate(0, 0, 1)

	var raw []model.Activity
	for _, activityType := range []model.ActivityType{
		model.ActivityFill, model.ActivityDividend, model.ActivityWithholding,
	} {
		batch, err := client.GetActivities(ctx, string(activityType), time.Time{}, until)
		if err != nil {
			return SyncSummary{}, fmt.Errorf("%w: %v", apperrors.ErrActivityFetch, err)
		}
		raw = append(raw, mapActivities(batch, activityType)...)
	}

	positions, err := client.GetPositions(ctx)
	if err != nil {
		return SyncSummary{}, fmt.Errorf("%w: %v", apperrors.ErrPositionFetch, err)
	}
	prices := make(map[string]float64, len(positions))
	for _, p := range positions {
		if price, err := strconv.ParseFloat(p.CurrentPrice, 64); err == nil {
			prices[p.Symbol] = price
		}
	}

	ignored, err := s.tradeRepo.GetIgnoredSet()
	if err != nil {
		return SyncSummary{}, err
	}

	pinned, err := s.stateRepo.GetPinnedRates()
	if err != nil {
		return SyncSummary{}, err
	}

	res := NormalizeActivities(raw, ignored)

	// Only symbols with dividend activity are tracked; everything else is
	// dropped from the stored state.
	tracked := DividendSymbols(res.Events)
	events := make([]NormalizedEvent, 0, len(res.Events))
	for _, e := range res.Events {
		if tracked[e.Activity.Symbol] {
			events = append(events, e)
		}
	}
	grouped := GroupBySymbol(events)

	symbols := make([]string, 0, len(grouped))
	for sym := range grouped {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	currentWeek := model.WeekOf(now)
	states := make([]model.SymbolState, len(symbols))
	symTrades := make([]map[model.WeekKey][]model.WeekTrade, len(symbols))

	g, _ := errgroup.WithContext(ctx)
	for i, sym := range symbols {
		i, sym := i, sym
		g.Go(func() error {
			buckets := AggregateWeeks(grouped[sym], currentWeek)

			rows, invested, err := Reconcile(buckets, pinned[sym], prices[sym])
			if err != nil {
				return fmt.Errorf("failed to reconcile %s: %w", sym, err)
			}

			states[i] = model.SymbolState{
				Symbol:          sym,
				InvestedCapital: invested,
				Rows:            rows,
				UpdatedAt:       now,
			}

			weekTrades := make(map[model.WeekKey][]model.WeekTrade)
			for week, b := range buckets {
				if len(b.Trades) > 0 {
					weekTrades[week] = b.Trades
				}
			}
			symTrades[i] = weekTrades

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return SyncSummary{}, err
	}

	trades := make(map[string]map[model.WeekKey][]model.WeekTrade, len(symbols))
	for i, sym := range symbols {
		trades[sym] = symTrades[i]
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SyncSummary{}, fmt.Errorf("failed to begin sync transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.stateRepo.WithTx(tx).ReplaceAll(states, now); err != nil {
		return SyncSummary{}, err
	}
	if err := s.tradeRepo.WithTx(tx).ReplaceWeekTrades(trades); err != nil {
		return SyncSummary{}, err
	}
	if err := s.brokerRepo.WithTx(tx).SetLastSyncedAt(now); err != nil {
		return SyncSummary{}, err
	}

	if err := tx.Commit(); err != nil {
		return SyncSummary{}, fmt.Errorf("failed to commit sync transaction: %w", err)
	}

	return SyncSummary{
		Activities: len(raw),
		Symbols:    len(symbols),
		Duplicates: res.Duplicates,
		Ignored:    res.Ignored,
		SyncedAt:   now,
	}, nil
}

// mapActivities converts feed records of one activity type into domain
// activities. Records with an unusable date or numeric fields are dropped;
// the feed is authoritative and a bad record is never worth failing a sync.
func mapActivities(batch []alpaca.Activity, activityType model.ActivityType) []model.Activity {
	out := make([]model.Activity, 0, len(batch))

	for _, a := range batch {
		dateStr := a.Date
		if dateStr == "" && len(a.TransactionTime) >= 10 {
			dateStr = a.TransactionTime[:10]
		}
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			continue
		}

		act := model.Activity{
			ID:     a.ID,
			Type:   activityType,
			Symbol: a.Symbol,
			Date:   date.UTC(),
		}

		switch activityType {
		case model.ActivityFill:
			qty, err := strconv.ParseFloat(a.Qty, 64)
			if err != nil {
				continue
			}
			price, err := strconv.ParseFloat(a.Price, 64)
			if err != nil {
				continue
			}
			act.Side = a.Side
			act.FillType = a.Type
			act.Qty = qty
			act.Price = price

		default:
			raw := a.NetAmount
			if raw == "" {
				raw = a.Amount
			}
			amount, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				continue
			}
			act.Amount = amount
		}

		out = append(out, act)
	}

	return out
}
