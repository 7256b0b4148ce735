package handlers

import (
	"errors"
	"net/http"

	"github.com/mwerner-fin/divtracker-backend/internal/api/request"
	"github.com/mwerner-fin/divtracker-backend/internal/api/response"
	"github.com/mwerner-fin/divtracker-backend/internal/apperrors"
	"github.com/mwerner-fin/divtracker-backend/internal/service"
	"github.com/mwerner-fin/divtracker-backend/internal/validation"
)

// BrokerHandler handles HTTP requests for broker credential management.
type BrokerHandler struct {
	brokerService *service.BrokerService
}

// NewBrokerHandler creates a new BrokerHandler with the provided service dependency.
func NewBrokerHandler(brokerService *service.BrokerService) *BrokerHandler {
	return &BrokerHandler{
		brokerService: brokerService,
	}
}

// GetConfig handles GET requests to retrieve the broker configuration.
// The stored secret is never returned, only whether one exists.
//
// Endpoint: GET /api/broker/config
// Response: 200 OK with BrokerConfigView
// Error: 404 Not Found if credentials were never saved
// Error: 500 Internal Server Error if retrieval fails
func (h *BrokerHandler) GetConfig(w http.ResponseWriter, _ *http.Request) {
	cfg, err := h.brokerService.GetConfig()
	if err != nil {
		if errors.Is(err, apperrors.ErrBrokerConfigNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrBrokerConfigNotFound.Error(), "")
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveConfig.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, cfg)
}

// SetConfig handles PUT requests to store broker credentials. The secret is
// encrypted before it reaches the database.
//
// Endpoint: PUT /api/broker/config
// Request Body: SetBrokerConfigRequest (apiKey, apiSecret, mode, autoSyncEnabled)
// Response: 200 OK with BrokerConfigView
// Error: 400 Bad Request if validation fails or the body is invalid
// Error: 500 Internal Server Error if storage fails
func (h *BrokerHandler) SetConfig(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.SetBrokerConfigRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateBrokerConfig(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	cfg, err := h.brokerService.SetConfig(req.APIKey, req.APISecret, req.Mode, req.AutoSyncEnabled)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToSaveConfig.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, cfg)
}
