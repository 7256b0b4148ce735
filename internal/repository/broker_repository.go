package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mwerner-fin/divtracker-backend/internal/apperrors"
	"github.com/mwerner-fin/divtracker-backend/internal/model"
)

// BrokerRepository provides data access methods for the broker_config table,
// a single-row table holding the Alpaca credentials and sync settings.
type BrokerRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewBrokerRepository creates a new BrokerRepository with the provided database connection.
func NewBrokerRepository(db *sql.DB) *BrokerRepository {
	return &BrokerRepository{db: db}
}

// WithTx returns a new BrokerRepository scoped to the provided transaction.
func (r *BrokerRepository) WithTx(tx *sql.Tx) *BrokerRepository {
	return &BrokerRepository{
		db: r.db,
		tx: tx,
	}
}

// getQuerier returns the active transaction if one is set, otherwise the database connection.
func (r *BrokerRepository) getQuerier() interface {
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

// GetConfig retrieves the stored broker configuration.
// Returns ErrBrokerConfigNotFound if credentials were never saved.
func (r *BrokerRepository) GetConfig() (model.BrokerConfig, error) {
	var cfg model.BrokerConfig
	var lastSyncedStr sql.NullString
	var updatedAtStr string

	err := r.getQuerier().QueryRow(`
		SELECT api_key, api_secret_enc, mode, auto_sync_enabled, last_synced_at, updated_at
		FROM broker_config WHERE id = 1`,
	).Scan(&cfg.APIKey, &cfg.APISecretEnc, &cfg.Mode, &cfg.AutoSyncEnabled, &lastSyncedStr, &updatedAtStr)
	if err == sql.ErrNoRows {
		return model.BrokerConfig{}, apperrors.ErrBrokerConfigNotFound
	}
	if err != nil {
		return model.BrokerConfig{}, fmt.Errorf("failed to query broker_config table: %w", err)
	}

	if lastSyncedStr.Valid {
		t, err := ParseTime(lastSyncedStr.String)
		if err != nil {
			return model.BrokerConfig{}, err
		}
		cfg.LastSyncedAt = &t
	}

	cfg.UpdatedAt, err = ParseTime(updatedAtStr)
	if err != nil {
		return model.BrokerConfig{}, err
	}

	return cfg, nil
}

// SaveConfig inserts or replaces the broker configuration. The last-synced
// checkpoint is preserved across credential updates.
func (r *BrokerRepository) SaveConfig(cfg model.BrokerConfig, updatedAt time.Time) error {
	_, err := r.getQuerier().Exec(`
		INSERT INTO broker_config (id, api_key, api_secret_enc, mode, auto_sync_enabled, updated_at)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			api_key = excluded.api_key,
			api_secret_enc = excluded.api_secret_enc,
			mode = excluded.mode,
			auto_sync_enabled = excluded.auto_sync_enabled,
			updated_at = excluded.updated_at`,
		cfg.APIKey, cfg.APISecretEnc, cfg.Mode, cfg.AutoSyncEnabled,
		updatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save broker_config row: %w", err)
	}

	return nil
}

// SetLastSyncedAt records the completion time of a successful sync.
func (r *BrokerRepository) SetLastSyncedAt(t time.Time) error {
	result, err := r.getQuerier().Exec(
		`UPDATE broker_config SET last_synced_at = ? WHERE id = 1`,
		t.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to update broker_config checkpoint: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrBrokerConfigNotFound
	}

	return nil
}
