package scheduler

import (
	"context"
	"fmt"
	"time"

	"reminder_dispatch_job/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Job is a run-to-completion dispatch pass.
type Job interface {
	Run(ctx context.Context) app.RunSummary
}

// ReminderScheduler triggers the dispatch job on a cron schedule when the process runs as a daemon.
type ReminderScheduler struct {
	cronEngine *cron.Cron
	job        Job
	logger     *logrus.Entry
	cronSpec   string
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewReminderScheduler(job Job, logger *logrus.Entry, cronSpec string) *ReminderScheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &ReminderScheduler{
		// A tick that fires while a run is still in progress is dropped, so runs never overlap in one process.
		cronEngine: cron.New(
			cron.WithLocation(time.Local),
			cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(logger))),
		),
		job:      job,
		logger:   logger,
		cronSpec: cronSpec,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (s *ReminderScheduler) Start() error {
	s.logger.WithField("cron_spec", s.cronSpec).Info("Starting reminder scheduler...")

	_, err := s.cronEngine.AddFunc(s.cronSpec, func() {
		s.logger.Info("Cron job triggered for reminder dispatch.")
		s.job.Run(s.ctx)
	})
	if err != nil {
		return fmt.Errorf("could not add reminder dispatch cron job: %w", err)
	}

	s.cronEngine.Start()
	s.logger.Info("Reminder scheduler started.")
	return nil
}

// Stop cancels the context of an in-flight run and waits for it to return.
func (s *ReminderScheduler) Stop() {
	s.logger.Info("Stopping reminder scheduler...")
	s.cancel()
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
	s.logger.Info("Reminder scheduler gracefully stopped.")
}
