package handlers

import (
	"net/http"

	"github.com/mwerner-fin/divtracker-backend/internal/api/response"
	"github.com/mwerner-fin/divtracker-backend/internal/apperrors"
	"github.com/mwerner-fin/divtracker-backend/internal/service"
)

// PortfolioHandler handles HTTP requests for the cross-symbol overview.
type PortfolioHandler struct {
	stateService *service.StateService
}

// NewPortfolioHandler creates a new PortfolioHandler with the provided service dependency.
func NewPortfolioHandler(stateService *service.StateService) *PortfolioHandler {
	return &PortfolioHandler{
		stateService: stateService,
	}
}

// Summary handles GET requests to retrieve portfolio-wide headline figures.
//
// Endpoint: GET /api/portfolio/summary
// Response: 200 OK with PortfolioSummary
// Error: 500 Internal Server Error if retrieval fails
func (h *PortfolioHandler) Summary(w http.ResponseWriter, _ *http.Request) {
	summary, err := h.stateService.PortfolioSummary()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveSummary.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, summary)
}
