package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Holdings-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/engine"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/model"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/money"
)

// positionWorkers bounds the number of instruments loaded concurrently.
const positionWorkers = 4

// PortfolioService aggregates every open position into the portfolio view.
// It coordinates the instrument registry and the position service; the
// figures themselves come from the engine package.
type PortfolioService struct {
	instruments  InstrumentStore
	positions    *PositionService
	baseCurrency string
	now          Clock
	log          zerolog.Logger
}

// NewPortfolioService creates a new PortfolioService.
func NewPortfolioService(
	instruments InstrumentStore,
	positions *PositionService,
	baseCurrency string,
	now Clock,
	log zerolog.Logger,
) *PortfolioService {
	return &PortfolioService{
		instruments:  instruments,
		positions:    positions,
		baseCurrency: baseCurrency,
		now:          now,
		log:          log.With().Str("component", "portfolio").Logger(),
	}
}

// BaseCurrency returns the configured base currency.
func (s *PortfolioService) BaseCurrency() string {
	return s.baseCurrency
}

// GetPortfolio computes the portfolio as of today in the requested currency.
// An empty currency means the configured base; any other currency is a
// currency mismatch because entries only carry a rate to the base.
//
// Instruments whose position fails to compute are logged, skipped and listed in
// Portfolio.Excluded. Only a failure to list instruments fails the call.
func (s *PortfolioService) GetPortfolio(ctx context.Context, currency string) (*model.Portfolio, error) {
	if currency = money.NormalizeCurrency(currency); currency != "" && currency != s.baseCurrency {
		return nil, fmt.Errorf("portfolio is kept in %s, not %s: %w", s.baseCurrency, currency, apperrors.ErrCurrencyMismatch)
	}

	asOf := model.DateOf(s.now())
	return s.portfolioAt(ctx, asOf)
}

func (s *PortfolioService) portfolioAt(ctx context.Context, asOf time.Time) (*model.Portfolio, error) {
	instruments, err := s.instruments.ListInstruments(ctx, model.InstrumentFilter{})
	if err != nil {
		return nil, err
	}

	// Results are written by index so the instrument order, and with it the
	// tie-breaking of best and worst performers, does not depend on scheduling.
	results := make([]*model.Position, len(instruments))
	failed := make([]bool, len(instruments))

	var g errgroup.Group
	g.SetLimit(positionWorkers)

	for i, inst := range instruments {
		g.Go(func() error {
			position, err := s.positions.positionAt(ctx, inst, asOf)
			if err != nil {
				s.log.Warn().
					Err(err).
					Str("instrument_id", inst.ID).
					Msg("Excluding instrument from portfolio")
				failed[i] = true
				return nil
			}
			results[i] = position
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	positions := make([]model.Position, 0, len(instruments))
	excluded := []string{}
	for i, position := range results {
		if failed[i] {
			excluded = append(excluded, instruments[i].ID)
			continue
		}
		if position != nil {
			positions = append(positions, *position)
		}
	}

	portfolio := engine.AggregatePortfolio(s.baseCurrency, positions, asOf)
	portfolio.Excluded = excluded
	return &portfolio, nil
}
