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

func TestBrokerRepository(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewBrokerRepository(db)

	t.Run("missing config returns ErrBrokerConfigNotFound", func(t *testing.T) {
		_, err := repo.GetConfig()
		if !errors.Is(err, apperrors.ErrBrokerConfigNotFound) {
			t.Errorf("Expected ErrBrokerConfigNotFound, got %v", err)
		}
	})

	t.Run("checkpoint requires a saved config", func(t *testing.T) {
		err := repo.SetLastSyncedAt(time.Now().UTC())
		if !errors.Is(err, apperrors.ErrBrokerConfigNotFound) {
			t.Errorf("Expected ErrBrokerConfigNotFound, got %v", err)
		}
	})

	t.Run("save and read back", func(t *testing.T) {
		savedAt := time.Date(2025, 8, 22, 9, 0, 0, 0, time.UTC)
		cfg := model.BrokerConfig{
			APIKey:          "key-1",
			APISecretEnc:    "sealed-secret",
			Mode:            "paper",
			AutoSyncEnabled: true,
		}
		if err := repo.SaveConfig(cfg, savedAt); err != nil {
			t.Fatalf("SaveConfig failed: %v", err)
		}

		got, err := repo.GetConfig()
		if err != nil {
			t.Fatalf("GetConfig failed: %v", err)
		}
		if got.APIKey != "key-1" || got.APISecretEnc != "sealed-secret" || got.Mode != "paper" {
			t.Errorf("Config wrong: %+v", got)
		}
		if !got.AutoSyncEnabled {
			t.Errorf("Expected auto sync enabled")
		}
		if got.LastSyncedAt != nil {
			t.Errorf("Expected no checkpoint yet, got %v", got.LastSyncedAt)
		}
		if !got.UpdatedAt.Equal(savedAt) {
			t.Errorf("Expected updated at %v, got %v", savedAt, got.UpdatedAt)
		}
	})

	t.Run("checkpoint round trips", func(t *testing.T) {
		syncedAt := time.Date(2025, 8, 22, 10, 30, 0, 0, time.UTC)
		if err := repo.SetLastSyncedAt(syncedAt); err != nil {
			t.Fatalf("SetLastSyncedAt failed: %v", err)
		}

		got, err := repo.GetConfig()
		if err != nil {
			t.Fatalf("GetConfig failed: %v", err)
		}
		if got.LastSyncedAt == nil || !got.LastSyncedAt.Equal(syncedAt) {
			t.Errorf("Expected checkpoint %v, got %v", syncedAt, got.LastSyncedAt)
		}
	})

	t.Run("credential update preserves the checkpoint", func(t *testing.T) {
		updated := model.BrokerConfig{
			APIKey:       "key-2",
			APISecretEnc: "sealed-secret-2",
			Mode:         "live",
		}
		if err := repo.SaveConfig(updated, time.Now().UTC()); err != nil {
			t.Fatalf("SaveConfig failed: %v", err)
		}

		got, err := repo.GetConfig()
		if err != nil {
			t.Fatalf("GetConfig failed: %v", err)
		}
		if got.APIKey != "key-2" || got.Mode != "live" {
			t.Errorf("Config not updated: %+v", got)
		}
		if got.AutoSyncEnabled {
			t.Errorf("Expected auto sync disabled after update")
		}
		if got.LastSyncedAt == nil {
			t.Errorf("Expected checkpoint to survive the update")
		}
	})
}
