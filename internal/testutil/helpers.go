package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mwerner-fin/divtracker-backend/internal/alpaca"
	"github.com/mwerner-fin/divtracker-backend/internal/crypto"
	"github.com/mwerner-fin/divtracker-backend/internal/model"
	"github.com/mwerner-fin/divtracker-backend/internal/repository"
	"github.com/mwerner-fin/divtracker-backend/internal/service"
)

// MakeID generates a random UUID string for test fixtures.
func MakeID() string {
	return uuid.New().String()
}

// NewTestSealer creates a Sealer with a freshly generated key.
func NewTestSealer(t *testing.T) *crypto.Sealer {
	t.Helper()

	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("Failed to generate test key: %v", err)
	}
	sealer, err := crypto.NewSealer(key)
	if err != nil {
		t.Fatalf("Failed to create test sealer: %v", err)
	}
	return sealer
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

func NewTestStateService(t *testing.T, db *sql.DB) *service.StateService {
	t.Helper()

	stateRepo := repository.NewStateRepository(db)
	tradeRepo := repository.NewTradeRepository(db)

	return service.NewStateService(stateRepo, tradeRepo)
}

func NewTestBrokerService(t *testing.T, db *sql.DB, sealer *crypto.Sealer) *service.BrokerService {
	t.Helper()

	brokerRepo := repository.NewBrokerRepository(db)

	return service.NewBrokerService(brokerRepo, sealer)
}

// NewTestSyncService creates a SyncService whose feed client is the given
// mock, with broker credentials already stored so Run can proceed.
func NewTestSyncService(t *testing.T, db *sql.DB, client alpaca.Client) *service.SyncService {
	t.Helper()

	sealer := NewTestSealer(t)
	SeedBrokerConfig(t, db, sealer)

	stateRepo := repository.NewStateRepository(db)
	tradeRepo := repository.NewTradeRepository(db)
	brokerRepo := repository.NewBrokerRepository(db)

	return service.NewSyncService(db, stateRepo, tradeRepo, brokerRepo, sealer,
		func(_, _ string, _ bool) alpaca.Client { return client },
	)
}

// SeedBrokerConfig stores paper-mode test credentials encrypted with the
// given sealer.
func SeedBrokerConfig(t *testing.T, db *sql.DB, sealer *crypto.Sealer) {
	t.Helper()

	sealed, err := sealer.Seal("test-secret")
	if err != nil {
		t.Fatalf("Failed to seal test secret: %v", err)
	}

	brokerRepo := repository.NewBrokerRepository(db)
	cfg := model.BrokerConfig{
		APIKey:       "test-key",
		APISecretEnc: sealed,
		Mode:         "paper",
	}
	if err := brokerRepo.SaveConfig(cfg, time.Now().UTC()); err != nil {
		t.Fatalf("Failed to seed broker config: %v", err)
	}
}

// SeedSymbolState inserts a reconciled state directly, bypassing the sync
// pipeline, for read-path tests.
func SeedSymbolState(t *testing.T, db *sql.DB, states ...model.SymbolState) {
	t.Helper()

	stateRepo := repository.NewStateRepository(db)
	if err := stateRepo.ReplaceAll(states, time.Now().UTC()); err != nil {
		t.Fatalf("Failed to seed symbol state: %v", err)
	}
}
