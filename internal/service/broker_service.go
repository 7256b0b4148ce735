package service

import (
	"time"

	"github.com/mwerner-fin/divtracker-backend/internal/crypto"
	"github.com/mwerner-fin/divtracker-backend/internal/model"
	"github.com/mwerner-fin/divtracker-backend/internal/repository"
)

// BrokerConfigView is the external shape of the broker configuration.
// The API secret is never returned, only whether one is stored.
type BrokerConfigView struct {
	APIKey          string     `json:"apiKey"`
	SecretSet       bool       `json:"secretSet"`
	Mode            string     `json:"mode"`
	AutoSyncEnabled bool       `json:"autoSyncEnabled"`
	LastSyncedAt    *time.Time `json:"lastSyncedAt,omitempty"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// BrokerService handles broker credential management. Secrets are encrypted
// before storage and only decrypted transiently during a sync.
type BrokerService struct {
	brokerRepo *repository.BrokerRepository
	sealer     *crypto.Sealer
}

// NewBrokerService creates a new BrokerService with the provided dependencies.
func NewBrokerService(brokerRepo *repository.BrokerRepository, sealer *crypto.Sealer) *BrokerService {
	return &BrokerService{
		brokerRepo: brokerRepo,
		sealer:     sealer,
	}
}

// GetConfig retrieves the stored configuration with the secret masked.
func (s *BrokerService) GetConfig() (BrokerConfigView, error) {
	cfg, err := s.brokerRepo.GetConfig()
	if err != nil {
		return BrokerConfigView{}, err
	}

	return BrokerConfigView{
		APIKey:          cfg.APIKey,
		SecretSet:       cfg.APISecretEnc != "",
		Mode:            cfg.Mode,
		AutoSyncEnabled: cfg.AutoSyncEnabled,
		LastSyncedAt:    cfg.LastSyncedAt,
		UpdatedAt:       cfg.UpdatedAt,
	}, nil
}

// SetConfig encrypts the secret and stores the configuration, returning the
// masked view of what was saved.
func (s *BrokerService) SetConfig(apiKey, apiSecret, mode string, autoSync bool) (BrokerConfigView, error) {
	sealed, err := s.sealer.Seal(apiSecret)
	if err != nil {
		return BrokerConfigView{}, err
	}

	now := time.Now().UTC()
	cfg := model.BrokerConfig{
		APIKey:          apiKey,
		APISecretEnc:    sealed,
		Mode:            mode,
		AutoSyncEnabled: autoSync,
		UpdatedAt:       now,
	}

	if err := s.brokerRepo.SaveConfig(cfg, now); err != nil {
		return BrokerConfigView{}, err
	}

	return s.GetConfig()
}
