package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mwerner-fin/divtracker-backend/internal/api/handlers"
	custommiddleware "github.com/mwerner-fin/divtracker-backend/internal/api/middleware"
	"github.com/mwerner-fin/divtracker-backend/internal/config"
	"github.com/mwerner-fin/divtracker-backend/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	systemService *service.SystemService,
	syncService *service.SyncService,
	stateService *service.StateService,
	brokerService *service.BrokerService,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/sync", func(r chi.Router) {
			syncHandler := handlers.NewSyncHandler(syncService)
			r.Post("/", syncHandler.Sync)
		})

		r.Route("/symbols", func(r chi.Router) {
			symbolHandler := handlers.NewSymbolHandler(stateService)
			r.Get("/", symbolHandler.ListSymbols)

			r.Route("/{symbol}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateSymbolMiddleware)
				r.Get("/", symbolHandler.GetSymbol)
				r.Get("/export", symbolHandler.ExportSymbol)

				r.Route("/weeks/{week}", func(r chi.Router) {
					r.Use(custommiddleware.ValidateWeekMiddleware)
					r.Get("/trades", symbolHandler.WeekTrades)
					r.Put("/rate", symbolHandler.PinRate)
					r.Delete("/rate", symbolHandler.UnpinRate)
				})
			})
		})

		r.Route("/trades", func(r chi.Router) {
			tradeHandler := handlers.NewTradeHandler(stateService)
			r.Get("/ignored", tradeHandler.ListIgnored)
			r.Put("/{orderId}/ignore", tradeHandler.IgnoreTrade)
			r.Delete("/{orderId}/ignore", tradeHandler.UnignoreTrade)
		})

		r.Route("/portfolio", func(r chi.Router) {
			portfolioHandler := handlers.NewPortfolioHandler(stateService)
			r.Get("/summary", portfolioHandler.Summary)
		})

		r.Route("/broker", func(r chi.Router) {
			brokerHandler := handlers.NewBrokerHandler(brokerService)
			r.Get("/config", brokerHandler.GetConfig)
			r.Put("/config", brokerHandler.SetConfig)
		})
	})

	return r
}
