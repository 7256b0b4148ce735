package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mwerner-fin/divtracker-backend/internal/apperrors"
	"github.com/mwerner-fin/divtracker-backend/internal/model"
)

// TradeRepository provides data access methods for the week_trade cache and
// the ignored_trade list. The cache is rebuilt on every sync; the ignore list
// is user state and survives syncs.
type TradeRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewTradeRepository creates a new TradeRepository with the provided database connection.
func NewTradeRepository(db *sql.DB) *TradeRepository {
	return &TradeRepository{db: db}
}

// WithTx returns a new TradeRepository scoped to the provided transaction.
func (r *TradeRepository) WithTx(tx *sql.Tx) *TradeRepository {
	return &TradeRepository{
		db: r.db,
		tx: tx,
	}
}

// getQuerier returns the active transaction if one is set, otherwise the database connection.
func (r *TradeRepository) getQuerier() interface {
	Query(query string, args ...any) (*sql.Rows, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	Exec(query string, args ...any) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// ReplaceWeekTrades rebuilds the trade cache from a sync run, keyed by symbol
// and week. The previous cache is dropped entirely.
func (r *TradeRepository) ReplaceWeekTrades(trades map[string]map[model.WeekKey][]model.WeekTrade) error {
	q := r.getQuerier()

	if _, err := q.Exec(`DELETE FROM week_trade`); err != nil {
		return fmt.Errorf("failed to clear week_trade table: %w", err)
	}

	for symbol, weeks := range trades {
		for week, list := range weeks {
			for _, t := range list {
				_, err := q.Exec(`
					INSERT INTO week_trade (id, symbol, iso_year, iso_week, order_id, qty, price)
					VALUES (?, ?, ?, ?, ?, ?, ?)`,
					uuid.New().String(), symbol, week.Year, week.Week, t.OrderID, t.Qty, t.Price,
				)
				if err != nil {
					return fmt.Errorf("failed to insert week_trade row: %w", err)
				}
			}
		}
	}

	return nil
}

// GetWeekTrades retrieves the cached buy orders of one (symbol, week) pair,
// each flagged with its current ignore status.
func (r *TradeRepository) GetWeekTrades(symbol string, week model.WeekKey) ([]model.WeekTradeStatus, error) {
	query := `
		SELECT w.order_id, w.qty, w.price,
			EXISTS (SELECT 1 FROM ignored_trade i WHERE i.order_id = w.order_id)
		FROM week_trade w
		WHERE w.symbol = ? AND w.iso_year = ? AND w.iso_week = ?
		ORDER BY w.order_id ASC
	`

	rows, err := r.getQuerier().Query(query, symbol, week.Year, week.Week)
	if err != nil {
		return nil, fmt.Errorf("failed to query week_trade table: %w", err)
	}
	defer rows.Close()

	trades := []model.WeekTradeStatus{}

	for rows.Next() {
		var t model.WeekTradeStatus
		if err := rows.Scan(&t.OrderID, &t.Qty, &t.Price, &t.Ignored); err != nil {
			return nil, fmt.Errorf("failed to scan week_trade table results: %w", err)
		}
		trades = append(trades, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating week_trade table: %w", err)
	}

	return trades, nil
}

// IgnoreTrade adds an order ID to the ignore list. Adding an already ignored
// order is a no-op.
func (r *TradeRepository) IgnoreTrade(orderID string, createdAt time.Time) error {
	if orderID == "" {
		return apperrors.ErrEmptyID
	}

	_, err := r.getQuerier().Exec(`
		INSERT INTO ignored_trade (order_id, created_at) VALUES (?, ?)
		ON CONFLICT (order_id) DO NOTHING`,
		orderID, createdAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert ignored_trade row: %w", err)
	}

	return nil
}

// UnignoreTrade removes an order ID from the ignore list.
// Returns ErrTradeNotFound if the order was not ignored.
func (r *TradeRepository) UnignoreTrade(orderID string) error {
	if orderID == "" {
		return apperrors.ErrEmptyID
	}

	result, err := r.getQuerier().Exec(`DELETE FROM ignored_trade WHERE order_id = ?`, orderID)
	if err != nil {
		return fmt.Errorf("failed to delete ignored_trade row: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrTradeNotFound
	}

	return nil
}

// ListIgnored retrieves the full ignore list, newest first.
func (r *TradeRepository) ListIgnored() ([]model.IgnoredTrade, error) {
	rows, err := r.getQuerier().Query(
		`SELECT order_id, created_at FROM ignored_trade ORDER BY created_at DESC, order_id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query ignored_trade table: %w", err)
	}
	defer rows.Close()

	ignored := []model.IgnoredTrade{}

	for rows.Next() {
		var t model.IgnoredTrade
		var createdAtStr string

		if err := rows.Scan(&t.OrderID, &createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan ignored_trade table results: %w", err)
		}

		t.CreatedAt, err = ParseTime(createdAtStr)
		if err != nil {
			return nil, err
		}

		ignored = append(ignored, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ignored_trade table: %w", err)
	}

	return ignored, nil
}

// GetIgnoredSet retrieves the ignore list as a lookup set for normalization.
func (r *TradeRepository) GetIgnoredSet() (map[string]bool, error) {
	ignored, err := r.ListIgnored()
	if err != nil {
		return nil, err
	}

	set := make(map[string]bool, len(ignored))
	for _, t := range ignored {
		set[t.OrderID] = true
	}
	return set, nil
}
