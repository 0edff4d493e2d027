package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vethub-sync/internal/domain/entity"
	"vethub-sync/internal/infrastructure/logger"
)

type stubImporter struct {
	calls atomic.Int32
	err   error
	block chan struct{}
}

func (s *stubImporter) Import(ctx context.Context, creds entity.Credentials) (*entity.ImportRun, error) {
	s.calls.Add(1)
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	run := &entity.ImportRun{ID: "run-1", Department: "Neurology", Status: entity.ImportStatusCompleted}
	if s.err != nil {
		run.Status = entity.ImportStatusFailed
		return run, s.err
	}
	run.Patients = []entity.Patient{{Name: "Bella"}}
	return run, nil
}

func TestRunOnce(t *testing.T) {
	imp := &stubImporter{}
	s := NewImportScheduler(imp, entity.Credentials{Username: "u"}, logger.NewNop(), time.Second)

	run, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "run-1", run.ID)
	assert.Same(t, run, s.LastRun())
	assert.EqualValues(t, 1, imp.calls.Load())
}

func TestRunOnce_FailureKeepsRun(t *testing.T) {
	imp := &stubImporter{err: errors.New("login rejected")}
	s := NewImportScheduler(imp, entity.Credentials{}, logger.NewNop(), time.Second)

	run, err := s.RunOnce(context.Background())
	require.Error(t, err)
	require.NotNil(t, run)
	assert.Equal(t, entity.ImportStatusFailed, s.LastRun().Status)
}

func TestRunOnce_Timeout(t *testing.T) {
	imp := &stubImporter{block: make(chan struct{})}
	s := NewImportScheduler(imp, entity.Credentials{}, logger.NewNop(), 20*time.Millisecond)

	_, err := s.RunOnce(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, s.LastRun())
}

func TestSchedule(t *testing.T) {
	s := NewImportScheduler(&stubImporter{}, entity.Credentials{}, logger.NewNop(), time.Second)

	assert.Error(t, s.Schedule("every tuesday"))
	assert.True(t, s.Next().IsZero())

	require.NoError(t, s.Schedule("*/15 * * * *"))
	s.Start()
	defer s.Stop(context.Background())

	next := s.Next()
	assert.False(t, next.IsZero())
	assert.Zero(t, next.Minute()%15)

	require.NoError(t, s.Schedule("0 6 * * *"))
	assert.Equal(t, 6, s.Next().Hour())
}

func TestStop_CancelsRunningImport(t *testing.T) {
	imp := &stubImporter{block: make(chan struct{})}
	s := NewImportScheduler(imp, entity.Credentials{}, logger.NewNop(), time.Minute)
	s.Start()

	done := make(chan error, 1)
	go func() {
		_, err := s.RunOnce(s.ctx)
		done <- err
	}()
	require.Eventually(t, func() bool { return imp.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	assert.ErrorIs(t, <-done, context.Canceled)
}
