package scheduler

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Holdings-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/model"
)

// AutoSnapshotter is the part of service.SnapshotService the job needs.
type AutoSnapshotter interface {
	CreateAutoSnapshot(ctx context.Context) (*model.Snapshot, error)
}

// AutoSnapshotJob takes the daily AUTO snapshot.
type AutoSnapshotJob struct {
	snapshots AutoSnapshotter
	log       zerolog.Logger
}

// NewAutoSnapshotJob creates the daily snapshot job.
func NewAutoSnapshotJob(snapshots AutoSnapshotter, log zerolog.Logger) *AutoSnapshotJob {
	return &AutoSnapshotJob{
		snapshots: snapshots,
		log:       log.With().Str("job", "auto_snapshot").Logger(),
	}
}

func (j *AutoSnapshotJob) Name() string {
	return "auto_snapshot"
}

// Run takes the snapshot. An empty ledger is not a failure.
func (j *AutoSnapshotJob) Run(ctx context.Context) error {
	snapshot, err := j.snapshots.CreateAutoSnapshot(ctx)
	if errors.Is(err, apperrors.ErrNothingToSnapshot) {
		j.log.Info().Msg("No open positions, nothing to snapshot")
		return nil
	}
	if err != nil {
		return err
	}

	j.log.Info().Str("snapshot_id", snapshot.ID).Msg("Daily snapshot taken")
	return nil
}
