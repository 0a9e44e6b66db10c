package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ndewijer/Holdings-Ledger-Backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Holdings-Ledger-Backend/internal/api/middleware"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/config"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/service"
)

// Services groups the services the HTTP layer exposes.
type Services struct {
	System       *service.SystemService
	Instruments  *service.InstrumentService
	Transactions *service.TransactionService
	Valuations   *service.ValuationService
	Positions    *service.PositionService
	Portfolio    *service.PortfolioService
	Snapshots    *service.SnapshotService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(log))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	systemHandler := handlers.NewSystemHandler(svc.System)
	instrumentHandler := handlers.NewInstrumentHandler(svc.Instruments, svc.Positions, svc.Transactions, svc.Valuations)
	transactionHandler := handlers.NewTransactionHandler(svc.Transactions)
	portfolioHandler := handlers.NewPortfolioHandler(svc.Portfolio)
	snapshotHandler := handlers.NewSnapshotHandler(svc.Snapshots)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/instrument", func(r chi.Router) {
			r.Get("/", instrumentHandler.Instruments)
			r.Post("/", instrumentHandler.CreateInstrument)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", instrumentHandler.GetInstrument)
				r.Put("/", instrumentHandler.UpdateInstrument)
				r.Delete("/", instrumentHandler.DeleteInstrument)
				r.Get("/position", instrumentHandler.Position)
				r.Get("/transactions", instrumentHandler.Transactions)
				r.Post("/valuation", instrumentHandler.RecordValuation)
			})
		})

		r.Route("/transaction", func(r chi.Router) {
			r.Post("/", transactionHandler.CreateTransaction)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", transactionHandler.GetTransaction)
				r.Put("/note", transactionHandler.UpdateTransactionNote)
			})
		})

		r.Get("/portfolio", portfolioHandler.Portfolio)

		r.Route("/snapshot", func(r chi.Router) {
			r.Get("/", snapshotHandler.Snapshots)
			r.Post("/", snapshotHandler.CreateSnapshot)
			r.Get("/compare", snapshotHandler.CompareSnapshots)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", snapshotHandler.GetSnapshot)
				r.Delete("/", snapshotHandler.DeleteSnapshot)
			})
		})
	})

	return r
}
