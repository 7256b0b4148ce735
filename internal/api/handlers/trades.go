package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mwerner-fin/divtracker-backend/internal/api/response"
	"github.com/mwerner-fin/divtracker-backend/internal/apperrors"
	"github.com/mwerner-fin/divtracker-backend/internal/service"
)

// TradeHandler handles HTTP requests for the trade ignore list.
type TradeHandler struct {
	stateService *service.StateService
}

// NewTradeHandler creates a new TradeHandler with the provided service dependency.
func NewTradeHandler(stateService *service.StateService) *TradeHandler {
	return &TradeHandler{
		stateService: stateService,
	}
}

// IgnoreTrade handles PUT requests to mark an order as ignored. The flag
// takes effect on the next sync.
//
// Endpoint: PUT /api/trades/{orderId}/ignore
// Response: 204 No Content
// Error: 400 Bad Request if the order ID is empty
// Error: 500 Internal Server Error if the update fails
func (h *TradeHandler) IgnoreTrade(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	if err := h.stateService.IgnoreTrade(orderID); err != nil {
		if errors.Is(err, apperrors.ErrEmptyID) {
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrEmptyID.Error(), "")
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToUpdateIgnore.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// UnignoreTrade handles DELETE requests to remove an order from the ignore list.
//
// Endpoint: DELETE /api/trades/{orderId}/ignore
// Response: 204 No Content
// Error: 404 Not Found if the order was not ignored
// Error: 500 Internal Server Error if the update fails
func (h *TradeHandler) UnignoreTrade(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	if err := h.stateService.UnignoreTrade(orderID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrTradeNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrTradeNotFound.Error(), orderID)
		case errors.Is(err, apperrors.ErrEmptyID):
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrEmptyID.Error(), "")
		default:
			response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToUpdateIgnore.Error(), err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// ListIgnored handles GET requests to retrieve the full ignore list.
//
// Endpoint: GET /api/trades/ignored
// Response: 200 OK with array of IgnoredTrade
// Error: 500 Internal Server Error if retrieval fails
func (h *TradeHandler) ListIgnored(w http.ResponseWriter, _ *http.Request) {
	ignored, err := h.stateService.ListIgnoredTrades()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTrades.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, ignored)
}
