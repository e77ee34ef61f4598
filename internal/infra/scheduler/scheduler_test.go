package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"reminder_dispatch_job/internal/app"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	runs      atomic.Int32
	cancelled atomic.Bool
	block     chan struct{}
}

func (j *countingJob) Run(ctx context.Context) app.RunSummary {
	j.runs.Add(1)
	if j.block != nil {
		select {
		case <-j.block:
		case <-ctx.Done():
			j.cancelled.Store(true)
		}
	}
	return app.RunSummary{}
}

func TestReminderScheduler_InvalidSpec(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	s := NewReminderScheduler(&countingJob{}, logger.WithField("service", "test"), "every tuesday")

	err := s.Start()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not add reminder dispatch cron job")
}

func TestReminderScheduler_RunsJobOnSchedule(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	job := &countingJob{}
	s := NewReminderScheduler(job, logger.WithField("service", "test"), "@every 1s")

	require.NoError(t, s.Start())
	assert.Eventually(t, func() bool { return job.runs.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
	s.Stop()
}

func TestReminderScheduler_StopCancelsRunningJob(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	job := &countingJob{block: make(chan struct{})}
	s := NewReminderScheduler(job, logger.WithField("service", "test"), "@every 1s")

	require.NoError(t, s.Start())
	require.Eventually(t, func() bool { return job.runs.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)

	s.Stop()

	assert.True(t, job.cancelled.Load())
}
