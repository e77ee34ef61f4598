package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	_ "time/tzdata" // Instance timezones must resolve on hosts without a zoneinfo database

	"reminder_dispatch_job/internal/app"
	"reminder_dispatch_job/internal/infra/config"
	idb "reminder_dispatch_job/internal/infra/database"
	"reminder_dispatch_job/internal/infra/instances"
	"reminder_dispatch_job/internal/infra/logger"
	"reminder_dispatch_job/internal/infra/scheduler"
	isms "reminder_dispatch_job/internal/infra/sms"
	"reminder_dispatch_job/internal/infra/telegram"

	"github.com/sirupsen/logrus"
)

func main() {
	fmt.Println("send-reminders starting...")

	// Failures are logged, never turned into a non-zero exit code.
	if err := safeRun(run); err != nil {
		logger.ForService(app.ServiceName).WithError(err).Error("Reminder dispatch aborted")
	}
}

// safeRun turns a panic escaping fn into an error, so nothing is thrown out of main.
func safeRun(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("could not load application configuration: %w", err)
	}
	logger.Init(cfg)
	log := logger.ForService(app.ServiceName)

	log.WithFields(logrus.Fields{
		"log_level":     cfg.LogLevel,
		"environment":   cfg.Environment,
		"instances_dir": cfg.InstancesDir,
		"cron_spec":     cfg.CronSpec,
	}).Info("Configuration loaded")

	if cfg.IsTest() {
		log.Info("Test environment detected, dispatch is left to the test harness")
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Debug("Connecting to database")
	db, err := idb.NewPostgresConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("could not connect to database: %w", err)
	}
	defer db.Close()
	log.Debug("Database connection established")

	caseRepo := idb.NewPostgresCaseRepository(db)
	reminderRepo := idb.NewPostgresReminderRepository(db)
	notificationRepo := idb.NewPostgresNotificationRepository(db)

	instanceDir := instances.NewDirectory(cfg.InstancesDir, instances.NewEnvFactory(caseRepo, nil))
	smsClient := isms.NewTwilioAdapter(cfg.TwilioAccountSID, cfg.TwilioAuthToken)

	job := app.NewReminderDispatchJob(
		instanceDir,
		reminderRepo,
		notificationRepo,
		smsClient,
		cfg.TwilioPhoneNumber,
		cfg.TestCaseID,
		log,
		nil,
	)

	if cfg.ReportEnabled() {
		tg, err := telegram.NewTelebotAdapter(cfg.TelegramToken)
		if err != nil {
			log.WithError(err).Warn("Run reports disabled")
		} else {
			job.SetReporter(app.NewTelegramReporter(tg, cfg.AdminTelegramID))
			log.Info("Run reports enabled")
		}
	}

	if cfg.CronSpec == "" {
		job.Run(ctx)
		return nil
	}

	sched := scheduler.NewReminderScheduler(job, log, cfg.CronSpec)
	if err := sched.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	log.Info("Shutdown signal received")
	sched.Stop()
	return nil
}
