// internal/app/dispatch_service.go
package app

import (
	"context"
	"fmt"
	"time"

	"reminder_dispatch_job/internal/domain/instance"
	"reminder_dispatch_job/internal/domain/notification"
	"reminder_dispatch_job/internal/domain/reminder"
	"reminder_dispatch_job/internal/domain/sms"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ServiceName tags every log line written by the dispatch job.
const ServiceName = "send-reminders"

// messageDateLayout renders case dates as e.g. "1/11/2024 10:00 AM".
const messageDateLayout = "1/2/2006 3:04 PM"

// InstanceSource enumerates instances and resolves their capability records.
type InstanceSource interface {
	// Discover returns the instance identifiers to process in this run, in processing order.
	Discover() ([]string, error)
	Lookup(name string) (instance.Methods, error)
}

// RunSummary counts what a single run did.
type RunSummary struct {
	RunID           string
	StartedAt       time.Time
	FinishedAt      time.Time
	Instances       int
	InstancesFailed int
	Sent            int
	Skipped         int // Reminders with no matching case
	Failed          int // Reminders whose send or bookkeeping failed
}

type instanceResult struct {
	sent, skipped, failed int
}

// ReminderDispatchJob sends one SMS per active reminder whose case falls in the upcoming window.
type ReminderDispatchJob struct {
	instances    InstanceSource
	reminderRepo reminder.Repository
	notifRepo    notification.Repository
	smsClient    sms.Client
	fromNumber   string
	testCaseID   int
	reporter     Reporter
	logger       *logrus.Entry
	now          func() time.Time
}

func NewReminderDispatchJob(
	instances InstanceSource,
	rr reminder.Repository,
	nr notification.Repository,
	sc sms.Client,
	fromNumber string,
	testCaseID int,
	logger *logrus.Entry,
	now func() time.Time, // nil means time.Now
) *ReminderDispatchJob {
	if now == nil {
		now = time.Now
	}
	return &ReminderDispatchJob{
		instances:    instances,
		reminderRepo: rr,
		notifRepo:    nr,
		smsClient:    sc,
		fromNumber:   fromNumber,
		testCaseID:   testCaseID,
		logger:       logger,
		now:          now,
	}
}

// SetReporter makes Run hand its summary to r when it finishes.
func (j *ReminderDispatchJob) SetReporter(r Reporter) {
	j.reporter = r
}

// Run processes every instance once, sequentially. Failures are logged and never stop the run;
// a failed instance does not affect the next one and a failed reminder does not affect the next reminder.
func (j *ReminderDispatchJob) Run(ctx context.Context) RunSummary {
	summary := RunSummary{
		RunID:     uuid.NewString(),
		StartedAt: j.now(),
	}
	runLogger := j.logger.WithField("run_id", summary.RunID)

	names, err := j.instances.Discover()
	if err != nil {
		runLogger.WithError(err).Error("Failed to discover instances, run aborted")
		summary.FinishedAt = j.now()
		j.report(summary, runLogger)
		return summary
	}
	runLogger.WithField("instances", len(names)).Info("Starting reminder dispatch run")

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			runLogger.WithError(err).Warn("Run cancelled, skipping remaining instances")
			break
		}
		summary.Instances++

		instLogger := runLogger.WithField("instance", name)
		res, err := j.processInstance(ctx, name, instLogger)
		summary.Sent += res.sent
		summary.Skipped += res.skipped
		summary.Failed += res.failed
		if err != nil {
			summary.InstancesFailed++
			instLogger.WithError(err).Error("Failed to process instance")
		}
	}

	summary.FinishedAt = j.now()
	runLogger.WithFields(logrus.Fields{
		"instances":        summary.Instances,
		"instances_failed": summary.InstancesFailed,
		"sent":             summary.Sent,
		"skipped":          summary.Skipped,
		"failed":           summary.Failed,
	}).Info("Reminder dispatch run completed")

	j.report(summary, runLogger)
	return summary
}

func (j *ReminderDispatchJob) report(summary RunSummary, log *logrus.Entry) {
	if j.reporter == nil {
		return
	}
	if err := j.reporter.Report(summary); err != nil {
		log.WithError(err).Error("Failed to deliver run report")
	}
}

// processInstance covers window computation, case lookup and reminder lookup for one instance.
// Reminder-level failures are counted in the result, not returned.
func (j *ReminderDispatchJob) processInstance(ctx context.Context, name string, log *logrus.Entry) (res instanceResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while processing instance: %v", r)
		}
	}()

	methods, err := j.instances.Lookup(name)
	if err != nil {
		return res, err
	}

	loc, err := time.LoadLocation(methods.Timezone())
	if err != nil {
		return res, fmt.Errorf("invalid timezone %q: %w", methods.Timezone(), err)
	}

	startDate, endDate := Window(j.now(), loc)
	log.Infof("Searching for dates between %s - %s", startDate.Format(time.RFC3339), endDate.Format(time.RFC3339))

	cases, err := methods.FindAll(ctx, startDate, endDate)
	if err != nil {
		return res, fmt.Errorf("failed to find cases: %w", err)
	}

	testCase, err := methods.TestCase(ctx, j.testCaseID)
	if err != nil {
		return res, fmt.Errorf("failed to get test case %d: %w", j.testCaseID, err)
	}
	cases = append(cases, testCase)

	uids := caseUIDs(cases)
	log.WithField("case_uids", uids).Infof("Cases found: %d", len(uids))

	reminders, err := j.reminderRepo.ListActiveByUIDs(ctx, uids)
	if err != nil {
		return res, fmt.Errorf("failed to list active reminders: %w", err)
	}

	for _, rem := range reminders {
		remLogger := log.WithFields(logrus.Fields{
			"reminder_id":  rem.ID,
			"reminder_uid": rem.UID,
		})
		sent, err := j.processReminder(ctx, rem, cases, loc, remLogger)
		switch {
		case err != nil:
			res.failed++
			remLogger.WithError(err).Error("Failed to process reminder")
		case sent:
			res.sent++
		default:
			res.skipped++
		}
	}
	return res, nil
}

// processReminder sends the SMS for rem if one of cases matches it, then deactivates rem and
// records the notification. It reports false with a nil error when no case matches.
// The send happens before the deactivation, so a failure between the two leaves rem active
// and it will be sent again on a later run.
func (j *ReminderDispatchJob) processReminder(ctx context.Context, rem *reminder.Reminder, cases []instance.Case, loc *time.Location, log *logrus.Entry) (sent bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			sent, err = false, fmt.Errorf("panic while processing reminder: %v", r)
		}
	}()

	c, ok := findCase(cases, rem.UID)
	if !ok {
		log.Debug("No case matches reminder, skipping")
		return false, nil
	}
	log = log.WithField("case_uid", c.UID)

	msg := sms.Message{
		To:   rem.Phone,
		From: j.fromNumber,
		Body: FormatReminderBody(c, loc),
	}
	log.WithFields(logrus.Fields{"to": msg.To, "from": msg.From, "body": msg.Body}).Info("Sending reminder")

	sid, err := j.smsClient.Send(ctx, msg)
	if err != nil {
		return false, fmt.Errorf("failed to send reminder sms: %w", err)
	}
	log.WithField("message_sid", sid).Info("Reminder sent")

	if err := j.reminderRepo.Deactivate(ctx, rem.ID); err != nil {
		return false, fmt.Errorf("reminder sent but could not be deactivated: %w", err)
	}
	rem.Active = false

	number := rem.Number
	if number == "" {
		number = c.Number
	}
	n := &notification.Notification{
		UID:       rem.UID,
		Number:    number,
		Phone:     rem.Phone,
		EventDate: c.Date,
	}
	if err := j.notifRepo.Create(ctx, n); err != nil {
		return false, fmt.Errorf("reminder sent but notification could not be recorded: %w", err)
	}
	return true, nil
}

// Window returns the range of case dates a run looks at: from now up to, but excluding,
// local midnight two calendar days ahead in loc.
func Window(now time.Time, loc *time.Location) (time.Time, time.Time) {
	local := now.In(loc)
	year, month, day := local.Year(), local.Month(), local.Day()+2
	end := time.Date(year, month, day, 0, 0, 0, 0, loc)

	// Where a DST change skips midnight, time.Date lands on the previous day and the
	// target day starts at the zone transition instead.
	target := time.Date(year, month, day, 12, 0, 0, 0, loc)
	for !sameLocalDate(end.In(loc), target) {
		_, next := end.ZoneBounds()
		if next.IsZero() || !next.After(end) {
			break
		}
		end = next
	}
	return now, end
}

func sameLocalDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// FormatReminderBody renders the SMS text for c with its date shown in loc.
func FormatReminderBody(c instance.Case, loc *time.Location) string {
	return fmt.Sprintf(
		"Just a reminder that you have an appointment coming up on %s @ %s. Case is %s",
		c.Date.In(loc).Format(messageDateLayout), c.Address, c.Number,
	)
}

func caseUIDs(cases []instance.Case) []string {
	uids := make([]string, 0, len(cases))
	for _, c := range cases {
		uids = append(uids, c.UID)
	}
	return uids
}

// findCase returns the first case with the given uid.
func findCase(cases []instance.Case, uid string) (instance.Case, bool) {
	for _, c := range cases {
		if c.UID == uid {
			return c, true
		}
	}
	return instance.Case{}, false
}
