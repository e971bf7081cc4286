package jobs_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/forumdash/amo-analytics-api/internal/jobs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestScheduler_AddRemove(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())

	require.NoError(t, s.AddJob("probe", "@every 1h", func() {}))
	assert.Error(t, s.AddJob("probe", "@every 1h", func() {}), "duplicate name")
	assert.Error(t, s.AddJob("broken", "not a cron", func() {}))
	assert.Equal(t, []string{"probe"}, s.JobNames())

	require.NoError(t, s.RemoveJob("probe"))
	assert.Error(t, s.RemoveJob("probe"))
	assert.Empty(t, s.JobNames())
}

func TestScheduler_RunsJobs(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())
	var runs atomic.Int32
	require.NoError(t, s.AddJob("tick", "@every 1s", func() { runs.Add(1) }))

	s.Start()
	assert.Eventually(t, func() bool { return runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
	<-s.Stop().Done()
}

func TestCRMProbeJob_RecordsResult(t *testing.T) {
	fail := true
	job := jobs.NewCRMProbeJob(pingerFunc(func(ctx context.Context) error {
		if fail {
			return errors.New("crm: /account returned 401")
		}
		return nil
	}), zap.NewNop(), time.Second)

	_, ok := job.Last()
	assert.False(t, ok)

	job.Run()
	res, ok := job.Last()
	require.True(t, ok)
	assert.False(t, res.Healthy)
	assert.Contains(t, res.Error, "401")

	fail = false
	job.Run()
	res, _ = job.Last()
	assert.True(t, res.Healthy)
	assert.Empty(t, res.Error)
	assert.False(t, res.CheckedAt.IsZero())
}

func TestCRMProbeJob_Timeout(t *testing.T) {
	job := jobs.NewCRMProbeJob(pingerFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}), zap.NewNop(), 20*time.Millisecond)

	job.Run()

	res, ok := job.Last()
	require.True(t, ok)
	assert.False(t, res.Healthy)
	assert.Contains(t, res.Error, "deadline")
}

func TestRegisterCRMProbeJob(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())
	var pings atomic.Int32
	job, err := jobs.RegisterCRMProbeJob(s, pingerFunc(func(ctx context.Context) error {
		pings.Add(1)
		return nil
	}), zap.NewNop(), "@every 1h", time.Second, true)

	require.NoError(t, err)
	assert.Equal(t, []string{jobs.CRMProbeJobName}, s.JobNames())
	assert.Eventually(t, func() bool {
		_, ok := job.Last()
		return ok
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(1), pings.Load())

	_, err = jobs.RegisterCRMProbeJob(s, pingerFunc(func(ctx context.Context) error { return nil }), zap.NewNop(), "@every 1h", time.Second, false)
	assert.Error(t, err)
}
