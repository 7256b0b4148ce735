package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mwerner-fin/divtracker-backend/internal/api/request"
	"github.com/mwerner-fin/divtracker-backend/internal/api/response"
	"github.com/mwerner-fin/divtracker-backend/internal/apperrors"
	"github.com/mwerner-fin/divtracker-backend/internal/service"
	"github.com/mwerner-fin/divtracker-backend/internal/validation"
)

// SymbolHandler handles HTTP requests for symbol state endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the stateService.
type SymbolHandler struct {
	stateService *service.StateService
}

// NewSymbolHandler creates a new SymbolHandler with the provided service dependency.
func NewSymbolHandler(stateService *service.StateService) *SymbolHandler {
	return &SymbolHandler{
		stateService: stateService,
	}
}

// ListSymbols handles GET requests to retrieve all tracked symbols.
//
// Endpoint: GET /api/symbols
// Response: 200 OK with array of SymbolSummary
// Error: 500 Internal Server Error if retrieval fails
func (h *SymbolHandler) ListSymbols(w http.ResponseWriter, _ *http.Request) {
	symbols, err := h.stateService.ListSymbols()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveState.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, symbols)
}

// GetSymbol handles GET requests to retrieve one symbol's full week-by-week state.
//
// Endpoint: GET /api/symbols/{symbol}
// Response: 200 OK with SymbolState
// Error: 400 Bad Request if the symbol is malformed (validated by middleware)
// Error: 404 Not Found if the symbol is not tracked
// Error: 500 Internal Server Error if retrieval fails
func (h *SymbolHandler) GetSymbol(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	state, err := h.stateService.GetSymbol(symbol)
	if err != nil {
		if errors.Is(err, apperrors.ErrSymbolNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrSymbolNotFound.Error(), symbol)
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveState.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, state)
}

// ExportSymbol handles GET requests to download one symbol's state as CSV.
//
// Endpoint: GET /api/symbols/{symbol}/export
// Response: 200 OK with text/csv attachment
// Error: 404 Not Found if the symbol is not tracked
// Error: 500 Internal Server Error if the export fails
func (h *SymbolHandler) ExportSymbol(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	// Look the symbol up first so errors are still reportable as JSON.
	if _, err := h.stateService.GetSymbol(symbol); err != nil {
		if errors.Is(err, apperrors.ErrSymbolNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrSymbolNotFound.Error(), symbol)
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToExport.Error(), err.Error())
		return
	}

	filename := fmt.Sprintf("%s_divtracker-%s.csv", symbol, time.Now().UTC().Format("2006-01-02"))
	response.CSVHeaders(w, filename)

	if err := h.stateService.ExportCSV(w, symbol); err != nil {
		// Headers are already sent; the truncated body is all we can signal.
		return
	}
}

// PinRate handles PUT requests to set a manual per-share dividend rate.
//
// Endpoint: PUT /api/symbols/{symbol}/weeks/{week}/rate
// Request Body: PinRateRequest (rate)
// Response: 200 OK with the updated PositionRow fields echoed back
// Error: 400 Bad Request if the body or rate is invalid
// Error: 404 Not Found if the symbol has no row for that week
// Error: 500 Internal Server Error if the update fails
func (h *SymbolHandler) PinRate(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	week, err := validation.ParseWeekParam(chi.URLParam(r, "week"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid week format", err.Error())
		return
	}

	req, err := parseJSON[request.PinRateRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.Rate == nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", "rate is required")
		return
	}
	if err := validation.ValidatePinRate(*req.Rate); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	if err := h.stateService.PinRate(symbol, week, *req.Rate); err != nil {
		if errors.Is(err, apperrors.ErrWeekNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrWeekNotFound.Error(), week.String())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToUpdateRate.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]any{
		"symbol": symbol,
		"week":   week,
		"rate":   *req.Rate,
		"pinned": true,
	})
}

// UnpinRate handles DELETE requests to remove a manual rate, restoring the
// derived one.
//
// Endpoint: DELETE /api/symbols/{symbol}/weeks/{week}/rate
// Response: 204 No Content
// Error: 404 Not Found if the symbol has no row for that week
// Error: 500 Internal Server Error if the update fails
func (h *SymbolHandler) UnpinRate(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	week, err := validation.ParseWeekParam(chi.URLParam(r, "week"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid week format", err.Error())
		return
	}

	if err := h.stateService.UnpinRate(symbol, week); err != nil {
		if errors.Is(err, apperrors.ErrWeekNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrWeekNotFound.Error(), week.String())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToUpdateRate.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// WeekTrades handles GET requests to list the cached buy orders of one week.
//
// Endpoint: GET /api/symbols/{symbol}/weeks/{week}/trades
// Response: 200 OK with array of WeekTradeStatus
// Error: 404 Not Found if the symbol is not tracked
// Error: 500 Internal Server Error if retrieval fails
func (h *SymbolHandler) WeekTrades(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	week, err := validation.ParseWeekParam(chi.URLParam(r, "week"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid week format", err.Error())
		return
	}

	trades, err := h.stateService.WeekTrades(symbol, week)
	if err != nil {
		if errors.Is(err, apperrors.ErrSymbolNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrSymbolNotFound.Error(), symbol)
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTrades.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, trades)
}
