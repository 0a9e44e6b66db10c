package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Holdings-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/engine"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/model"
)

// SnapshotService freezes the live portfolio into immutable snapshots and compares them.
type SnapshotService struct {
	portfolio *PortfolioService
	snapshots SnapshotStore
	now       Clock
	log       zerolog.Logger
}

// NewSnapshotService creates a new SnapshotService.
func NewSnapshotService(portfolio *PortfolioService, snapshots SnapshotStore, now Clock, log zerolog.Logger) *SnapshotService {
	return &SnapshotService{
		portfolio: portfolio,
		snapshots: snapshots,
		now:       now,
		log:       log.With().Str("component", "snapshot").Logger(),
	}
}

// ListSnapshots retrieves snapshot summaries matching the filter, newest first.
func (s *SnapshotService) ListSnapshots(ctx context.Context, filter model.SnapshotFilter) ([]model.SnapshotSummary, error) {
	return s.snapshots.ListSnapshots(ctx, filter)
}

// GetSnapshot retrieves a snapshot with its positions, allocation and metrics.
func (s *SnapshotService) GetSnapshot(ctx context.Context, snapshotID string) (model.Snapshot, error) {
	return s.snapshots.GetSnapshot(ctx, snapshotID)
}

// CreateManualSnapshot freezes the current portfolio as today's MANUAL snapshot,
// replacing an earlier MANUAL snapshot of the same date. An empty ledger yields a
// snapshot with zero totals.
func (s *SnapshotService) CreateManualSnapshot(ctx context.Context, note string) (*model.Snapshot, error) {
	portfolio, err := s.portfolio.GetPortfolio(ctx, "")
	if err != nil {
		return nil, err
	}
	return s.capture(ctx, *portfolio, model.SnapshotManual, note)
}

// CreateAutoSnapshot freezes the current portfolio as today's AUTO snapshot.
// Returns ErrNothingToSnapshot when no position is open.
func (s *SnapshotService) CreateAutoSnapshot(ctx context.Context) (*model.Snapshot, error) {
	portfolio, err := s.portfolio.GetPortfolio(ctx, "")
	if err != nil {
		return nil, err
	}
	if len(portfolio.Positions) == 0 {
		return nil, apperrors.ErrNothingToSnapshot
	}
	return s.capture(ctx, *portfolio, model.SnapshotAuto, "")
}

// CreateStartupSnapshot takes the AUTO snapshot at process start.
// Returns nil without error when the ledger has nothing to snapshot.
func (s *SnapshotService) CreateStartupSnapshot(ctx context.Context) (*model.Snapshot, error) {
	snapshot, err := s.CreateAutoSnapshot(ctx)
	if errors.Is(err, apperrors.ErrNothingToSnapshot) {
		s.log.Info().Msg("No open positions, skipping startup snapshot")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// capture persists a snapshot of p, replacing any snapshot of the same date and kind.
// Same-day replacement is the only path that may remove a snapshot dated today.
func (s *SnapshotService) capture(ctx context.Context, p model.Portfolio, kind model.SnapshotKind, note string) (*model.Snapshot, error) {
	snapshot := engine.CaptureSnapshot(p, kind, note, s.now())

	replacedID, err := s.snapshots.ReplaceSnapshot(ctx, &snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}
	if replacedID != "" {
		s.log.Debug().
			Str("replaced_id", replacedID).
			Str("kind", string(kind)).
			Msg("Replaced same-day snapshot")
	}

	s.log.Info().
		Str("snapshot_id", snapshot.ID).
		Str("kind", string(kind)).
		Str("total_value", snapshot.TotalValue.String()).
		Int("positions", len(snapshot.Positions)).
		Msg("Snapshot created")

	return &snapshot, nil
}

// CompareSnapshots diffs two snapshots. The arguments may come in either order;
// the later snapshot is treated as the newer one.
func (s *SnapshotService) CompareSnapshots(ctx context.Context, id1, id2 string) (*model.SnapshotDiff, error) {
	a, err := s.snapshots.GetSnapshot(ctx, id1)
	if err != nil {
		return nil, err
	}
	b, err := s.snapshots.GetSnapshot(ctx, id2)
	if err != nil {
		return nil, err
	}

	newer, older := engine.OrderSnapshots(a, b)
	diff, err := engine.CompareSnapshots(newer, older)
	if err != nil {
		return nil, err
	}
	return &diff, nil
}

// DeleteSnapshot removes a snapshot unless it is dated today.
func (s *SnapshotService) DeleteSnapshot(ctx context.Context, snapshotID string) error {
	snapshot, err := s.snapshots.GetSnapshot(ctx, snapshotID)
	if err != nil {
		return err
	}

	if !engine.CanDeleteSnapshot(snapshot, s.now()) {
		return apperrors.ErrSnapshotProtected
	}

	return s.snapshots.DeleteSnapshot(ctx, snapshotID)
}
