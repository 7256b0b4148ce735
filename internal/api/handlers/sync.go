package handlers

import (
	"errors"
	"net/http"

	"github.com/mwerner-fin/divtracker-backend/internal/api/response"
	"github.com/mwerner-fin/divtracker-backend/internal/apperrors"
	"github.com/mwerner-fin/divtracker-backend/internal/service"
)

// SyncHandler handles HTTP requests for brokerage synchronization.
type SyncHandler struct {
	syncService *service.SyncService
}

// NewSyncHandler creates a new SyncHandler with the provided service dependency.
func NewSyncHandler(syncService *service.SyncService) *SyncHandler {
	return &SyncHandler{
		syncService: syncService,
	}
}

// Sync handles POST requests to run a full brokerage synchronization.
// The stored state is rebuilt from the complete activity feed; a fetch
// failure leaves it untouched.
//
// Endpoint: POST /api/sync
// Response: 200 OK with SyncSummary
// Error: 409 Conflict if broker credentials are not configured
// Error: 502 Bad Gateway if the brokerage feed cannot be fetched
// Error: 500 Internal Server Error on any other failure
func (h *SyncHandler) Sync(w http.ResponseWriter, r *http.Request) {
	summary, err := h.syncService.Run(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrBrokerConfigNotFound):
			response.RespondError(w, http.StatusConflict, apperrors.ErrBrokerConfigNotFound.Error(), "configure broker credentials first")
		case errors.Is(err, apperrors.ErrActivityFetch), errors.Is(err, apperrors.ErrPositionFetch):
			response.RespondError(w, http.StatusBadGateway, apperrors.ErrFailedToSync.Error(), err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToSync.Error(), err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusOK, summary)
}
