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

// StateRepository provides data access methods for the symbol_state and
// position_row tables, which together hold the reconciled output of a sync.
type StateRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewStateRepository creates a new StateRepository with the provided database connection.
func NewStateRepository(db *sql.DB) *StateRepository {
	return &StateRepository{db: db}
}

// WithTx returns a new StateRepository scoped to the provided transaction.
func (r *StateRepository) WithTx(tx *sql.Tx) *StateRepository {
	return &StateRepository{
		db: r.db,
		tx: tx,
	}
}

// getQuerier returns the active transaction if one is set, otherwise the database connection.
func (r *StateRepository) getQuerier() interface {
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

// ListSymbols retrieves a summary of every tracked symbol, ordered by symbol.
// The headline figures come from each symbol's most recent week.
func (r *StateRepository) ListSymbols() ([]model.SymbolSummary, error) {
	query := `
		SELECT s.symbol, s.invested_capital,
			COUNT(p.id),
			COALESCE(MAX(p.iso_year * 100 + p.iso_week), 0)
		FROM symbol_state s
		LEFT JOIN position_row p ON p.symbol = s.symbol
		GROUP BY s.symbol
		ORDER BY s.symbol ASC
	`

	rows, err := r.getQuerier().Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query symbol_state table: %w", err)
	}
	defer rows.Close()

	summaries := []model.SymbolSummary{}

	for rows.Next() {
		var s model.SymbolSummary
		var lastKey int

		if err := rows.Scan(&s.Symbol, &s.InvestedCapital, &s.Weeks, &lastKey); err != nil {
			return nil, fmt.Errorf("failed to scan symbol_state table results: %w", err)
		}

		if lastKey > 0 {
			s.LastWeek = model.WeekKey{Year: lastKey / 100, Week: lastKey % 100}
		}

		summaries = append(summaries, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating symbol_state table: %w", err)
	}

	// Release the cursor before the per-symbol lookups; an open result set
	// holds its pool connection, and the pool may be limited to one.
	rows.Close()

	for i := range summaries {
		if summaries[i].Weeks == 0 {
			continue
		}

		last, err := r.getRow(summaries[i].Symbol, summaries[i].LastWeek)
		if err != nil {
			return nil, err
		}
		summaries[i].TotalShares = last.TotalShares
		summaries[i].MarketValue = last.MarketValue
		summaries[i].ReturnToDate = last.ReturnToDate
	}

	return summaries, nil
}

// GetSymbolState retrieves the full reconciled state of one symbol, its rows
// ordered oldest week first. Returns ErrSymbolNotFound for untracked symbols.
func (r *StateRepository) GetSymbolState(symbol string) (model.SymbolState, error) {
	if symbol == "" {
		return model.SymbolState{}, apperrors.ErrInvalidSymbol
	}

	var state model.SymbolState
	var updatedAtStr string

	err := r.getQuerier().QueryRow(
		`SELECT symbol, invested_capital, updated_at FROM symbol_state WHERE symbol = ?`,
		symbol,
	).Scan(&state.Symbol, &state.InvestedCapital, &updatedAtStr)
	if err == sql.ErrNoRows {
		return model.SymbolState{}, apperrors.ErrSymbolNotFound
	}
	if err != nil {
		return model.SymbolState{}, fmt.Errorf("failed to query symbol_state table: %w", err)
	}

	state.UpdatedAt, err = ParseTime(updatedAtStr)
	if err != nil {
		return model.SymbolState{}, err
	}

	query := `
		SELECT iso_year, iso_week, start_shares, div_per_share, div_per_share_pinned,
			gross_dividend, withholding_tax, net_dividend, reinvested_shares,
			total_shares, avg_buy_price, market_value, avg_weekly_dividend,
			annualized_dividend, return_to_date
		FROM position_row
		WHERE symbol = ?
		ORDER BY iso_year ASC, iso_week ASC
	`

	rows, err := r.getQuerier().Query(query, symbol)
	if err != nil {
		return model.SymbolState{}, fmt.Errorf("failed to query position_row table: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		row, err := scanPositionRow(rows.Scan)
		if err != nil {
			return model.SymbolState{}, err
		}
		state.Rows = append(state.Rows, row)
	}
	if err = rows.Err(); err != nil {
		return model.SymbolState{}, fmt.Errorf("error iterating position_row table: %w", err)
	}

	return state, nil
}

// GetRow retrieves one reconciled week of a symbol.
// Returns ErrWeekNotFound if the symbol has no row for that week.
func (r *StateRepository) GetRow(symbol string, week model.WeekKey) (model.PositionRow, error) {
	return r.getRow(symbol, week)
}

func (r *StateRepository) getRow(symbol string, week model.WeekKey) (model.PositionRow, error) {
	query := `
		SELECT iso_year, iso_week, start_shares, div_per_share, div_per_share_pinned,
			gross_dividend, withholding_tax, net_dividend, reinvested_shares,
			total_shares, avg_buy_price, market_value, avg_weekly_dividend,
			annualized_dividend, return_to_date
		FROM position_row
		WHERE symbol = ? AND iso_year = ? AND iso_week = ?
	`

	sqlRow := r.getQuerier().QueryRow(query, symbol, week.Year, week.Week)
	row, err := scanPositionRow(sqlRow.Scan)
	if err == sql.ErrNoRows {
		return model.PositionRow{}, apperrors.ErrWeekNotFound
	}
	if err != nil {
		return model.PositionRow{}, err
	}
	return row, nil
}

// GetPinnedRates retrieves every manually pinned per-share rate, keyed by
// symbol and week. Pins are read before reconciliation so recomputation can
// preserve them.
func (r *StateRepository) GetPinnedRates() (map[string]map[model.WeekKey]float64, error) {
	query := `
		SELECT symbol, iso_year, iso_week, div_per_share
		FROM position_row
		WHERE div_per_share_pinned = 1 AND div_per_share IS NOT NULL
	`

	rows, err := r.getQuerier().Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query pinned rates: %w", err)
	}
	defer rows.Close()

	pinned := make(map[string]map[model.WeekKey]float64)

	for rows.Next() {
		var symbol string
		var year, week int
		var rate float64

		if err := rows.Scan(&symbol, &year, &week, &rate); err != nil {
			return nil, fmt.Errorf("failed to scan pinned rates: %w", err)
		}

		if pinned[symbol] == nil {
			pinned[symbol] = make(map[model.WeekKey]float64)
		}
		pinned[symbol][model.WeekKey{Year: year, Week: week}] = rate
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pinned rates: %w", err)
	}

	return pinned, nil
}

// ReplaceAll atomically swaps the entire reconciled state for the given
// symbol set. Existing rows are dropped first; a symbol absent from states
// simply disappears. Intended to run inside a sync transaction.
func (r *StateRepository) ReplaceAll(states []model.SymbolState, updatedAt time.Time) error {
	q := r.getQuerier()

	if _, err := q.Exec(`DELETE FROM position_row`); err != nil {
		return fmt.Errorf("failed to clear position_row table: %w", err)
	}
	if _, err := q.Exec(`DELETE FROM symbol_state`); err != nil {
		return fmt.Errorf("failed to clear symbol_state table: %w", err)
	}

	for _, state := range states {
		_, err := q.Exec(
			`INSERT INTO symbol_state (symbol, invested_capital, updated_at) VALUES (?, ?, ?)`,
			state.Symbol, state.InvestedCapital, updatedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("failed to insert symbol_state row: %w", err)
		}

		for _, row := range state.Rows {
			var rate sql.NullFloat64
			if row.DivPerShare != nil {
				rate = sql.NullFloat64{Float64: *row.DivPerShare, Valid: true}
			}

			_, err := q.Exec(`
				INSERT INTO position_row (
					id, symbol, iso_year, iso_week, start_shares,
					div_per_share, div_per_share_pinned, gross_dividend,
					withholding_tax, net_dividend, reinvested_shares,
					total_shares, avg_buy_price, market_value,
					avg_weekly_dividend, annualized_dividend, return_to_date
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				uuid.New().String(), state.Symbol, row.Week.Year, row.Week.Week,
				row.StartShares, rate, row.DivPerSharePinned, row.GrossDividend,
				row.Withholding, row.NetDividend, row.ReinvestedShares,
				row.TotalShares, row.AvgBuyPrice, row.MarketValue,
				row.AvgWeeklyDividend, row.AnnualizedDividend, row.ReturnToDate,
			)
			if err != nil {
				return fmt.Errorf("failed to insert position_row: %w", err)
			}
		}
	}

	return nil
}

// UpdateRowRate sets or clears the per-share rate of one reconciled week.
// A nil rate clears the value; pinned marks it as user-set so the next sync
// preserves it. Returns ErrWeekNotFound if the row does not exist.
func (r *StateRepository) UpdateRowRate(symbol string, week model.WeekKey, rate *float64, pinned bool) error {
	var rateVal sql.NullFloat64
	if rate != nil {
		rateVal = sql.NullFloat64{Float64: *rate, Valid: true}
	}

	result, err := r.getQuerier().Exec(`
		UPDATE position_row
		SET div_per_share = ?, div_per_share_pinned = ?
		WHERE symbol = ? AND iso_year = ? AND iso_week = ?`,
		rateVal, pinned, symbol, week.Year, week.Week,
	)
	if err != nil {
		return fmt.Errorf("failed to update position_row rate: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrWeekNotFound
	}

	return nil
}

// scanPositionRow maps one position_row result onto a model.PositionRow.
func scanPositionRow(scan func(dest ...any) error) (model.PositionRow, error) {
	var row model.PositionRow
	var year, week int
	var rate sql.NullFloat64

	err := scan(
		&year,
		&week,
		&row.StartShares,
		&rate,
		&row.DivPerSharePinned,
		&row.GrossDividend,
		&row.Withholding,
		&row.NetDividend,
		&row.ReinvestedShares,
		&row.TotalShares,
		&row.AvgBuyPrice,
		&row.MarketValue,
		&row.AvgWeeklyDividend,
		&row.AnnualizedDividend,
		&row.ReturnToDate,
	)
	if err == sql.ErrNoRows {
		return model.PositionRow{}, err
	}
	if err != nil {
		return model.PositionRow{}, fmt.Errorf("failed to scan position_row: %w", err)
	}

	row.Week = model.WeekKey{Year: year, Week: week}
	if rate.Valid {
		v := rate.Float64
		row.DivPerShare = &v
	}

	return row, nil
}
