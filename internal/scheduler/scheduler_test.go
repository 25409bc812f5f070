package scheduler_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/boddenberg/spendwise-api/internal/scheduler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeJobs struct {
	calls    atomic.Int32
	err      error
	deadline bool
}

func (f *fakeJobs) SnapshotAll(ctx context.Context) (int, error) {
	f.calls.Add(1)
	_, f.deadline = ctx.Deadline()
	return 3, f.err
}

func TestRunSnapshots(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	jobs := &fakeJobs{}
	s := scheduler.New(jobs, time.Minute, zap.New(core))

	s.RunSnapshots()
	assert.EqualValues(t, 1, jobs.calls.Load())
	assert.True(t, jobs.deadline)
	require.Equal(t, 1, logs.FilterMessage("net worth snapshot job done").Len())

	jobs.err = errors.New("store down")
	s.RunSnapshots()
	assert.Equal(t, 1, logs.FilterMessage("net worth snapshot job failed").Len())
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s := scheduler.New(&fakeJobs{}, time.Minute, zap.NewNop())
	assert.Error(t, s.Start("every tuesday"))
}

func TestStartAndStop(t *testing.T) {
	s := scheduler.New(&fakeJobs{}, time.Minute, zap.NewNop())
	require.NoError(t, s.Start("0 2 1 * *"))

	select {
	case <-s.Stop().Done():
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
