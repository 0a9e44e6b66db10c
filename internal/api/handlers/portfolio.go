package handlers

import (
	"net/http"

	"github.com/ndewijer/Holdings-Ledger-Backend/internal/api/response"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/service"
)

// PortfolioHandler handles portfolio-related HTTP requests
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
	}
}

// Portfolio returns the live portfolio with allocation and performance metrics.
// ?currency= defaults to the configured base currency.
//
// Endpoint: GET /api/portfolio
// Error: 422 Unprocessable Entity when currency differs from the base currency
func (h *PortfolioHandler) Portfolio(w http.ResponseWriter, r *http.Request) {
	portfolio, err := h.portfolioService.GetPortfolio(r.Context(), r.URL.Query().Get("currency"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToGetPortfolio.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, portfolio)
}
