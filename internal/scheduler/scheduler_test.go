package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/estoquehub/internal/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJob struct {
	mu          sync.Mutex
	snapshots   []string
	prunes      int
	snapshotErr error
}

func (j *fakeJob) Snapshot(_ context.Context, triggeredBy string) (*model.StockReport, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.snapshotErr != nil {
		return nil, j.snapshotErr
	}
	j.snapshots = append(j.snapshots, triggeredBy)
	return &model.StockReport{ID: "r-1", TriggeredBy: triggeredBy}, nil
}

func (j *fakeJob) Prune(context.Context, time.Time) (int64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.prunes++
	return 0, nil
}

func TestNormalizeSchedule(t *testing.T) {
	tests := map[string]string{
		"@hourly":        "0 0 * * * *",
		"@daily":         "0 0 0 * * *",
		" */5 * * * * ":  "0 */5 * * * *",
		"30 0 8 * * 1-5": "30 0 8 * * 1-5",
		"@every 1m":      "@every 1m",
	}
	for in, want := range tests {
		assert.Equal(t, want, normalizeSchedule(in), in)
	}
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler(&fakeJob{}, "@daily", zerolog.Nop())
	require.NoError(t, s.Start(context.Background()))

	next := s.NextRun()
	require.NotNil(t, next)
	assert.True(t, next.After(time.Now()))

	s.Stop()
	assert.Nil(t, s.NextRun())
}

func TestScheduler_EmptyScheduleDisabled(t *testing.T) {
	s := NewScheduler(&fakeJob{}, "", zerolog.Nop())
	require.NoError(t, s.Start(context.Background()))
	assert.Nil(t, s.NextRun())
	s.Stop()
}

func TestScheduler_InvalidSchedule(t *testing.T) {
	s := NewScheduler(&fakeJob{}, "every tuesday", zerolog.Nop())
	err := s.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid cron expression")
	assert.Nil(t, s.NextRun())
}

func TestScheduler_Run(t *testing.T) {
	job := &fakeJob{}
	s := NewScheduler(job, "@daily", zerolog.Nop())

	s.run(context.Background())

	assert.Equal(t, []string{model.TriggeredBySchedule}, job.snapshots)
	assert.Equal(t, 1, job.prunes)
}

func TestScheduler_RunSkipsPruneOnFailure(t *testing.T) {
	job := &fakeJob{snapshotErr: errors.New("db down")}
	s := NewScheduler(job, "@daily", zerolog.Nop())

	s.run(context.Background())

	assert.Empty(t, job.snapshots)
	assert.Zero(t, job.prunes)
}
