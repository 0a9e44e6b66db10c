package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Holdings-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/model"
)

type stubSnapshotter struct {
	calls int
	err   error
}

func (s *stubSnapshotter) CreateAutoSnapshot(ctx context.Context) (*model.Snapshot, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &model.Snapshot{ID: "snap-1", Kind: model.SnapshotAuto}, nil
}

// TestAutoSnapshotJob_Run verifies how the job reports each snapshot outcome.
//
// WHY: an empty ledger is the normal state of a fresh install and must not be
// logged as a failed job every day.
func TestAutoSnapshotJob_Run(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{name: "snapshot taken", err: nil, wantErr: false},
		{name: "empty ledger", err: apperrors.ErrNothingToSnapshot, wantErr: false},
		{name: "storage failure", err: apperrors.Gateway("failed to save snapshot", errors.New("disk full")), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubSnapshotter{err: tt.err}
			job := NewAutoSnapshotJob(stub, zerolog.Nop())

			err := job.Run(context.Background())
			if (err != nil) != tt.wantErr {
				t.Errorf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}
			if stub.calls != 1 {
				t.Errorf("CreateAutoSnapshot called %d times, want 1", stub.calls)
			}
		})
	}
}

func TestScheduler_AddJob(t *testing.T) {
	s := New(context.Background(), zerolog.Nop())
	job := NewAutoSnapshotJob(&stubSnapshotter{}, zerolog.Nop())

	if err := s.AddJob("0 0 18 * * *", job); err != nil {
		t.Errorf("AddJob(valid) error = %v", err)
	}
	if err := s.AddJob("not a schedule", job); err == nil {
		t.Error("AddJob(invalid) error = nil, want error")
	}
}

func TestScheduler_RunNow(t *testing.T) {
	stub := &stubSnapshotter{}
	s := New(context.Background(), zerolog.Nop())

	if err := s.RunNow(NewAutoSnapshotJob(stub, zerolog.Nop())); err != nil {
		t.Fatalf("RunNow() error = %v", err)
	}
	if stub.calls != 1 {
		t.Errorf("CreateAutoSnapshot called %d times, want 1", stub.calls)
	}
}
