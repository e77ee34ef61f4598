package app

import (
	"fmt"
	"strings"
	"time"

	"reminder_dispatch_job/internal/domain/telegram"
)

// Reporter receives the summary of every finished run.
type Reporter interface {
	Report(summary RunSummary) error
}

// TelegramReporter posts run summaries to the admin chat.
type TelegramReporter struct {
	client      telegram.Client
	adminChatID int64
}

func NewTelegramReporter(tc telegram.Client, adminChatID int64) *TelegramReporter {
	return &TelegramReporter{
		client:      tc,
		adminChatID: adminChatID,
	}
}

func (r *TelegramReporter) Report(summary RunSummary) error {
	if err := r.client.SendMessage(r.adminChatID, FormatRunReport(summary)); err != nil {
		return fmt.Errorf("failed to send run report to chat %d: %w", r.adminChatID, err)
	}
	return nil
}

// FormatRunReport renders a summary as a short plain text message.
func FormatRunReport(s RunSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Reminder run %s finished in %s\n", s.RunID, s.FinishedAt.Sub(s.StartedAt).Round(time.Millisecond))
	fmt.Fprintf(&b, "Instances: %d (failed: %d)\n", s.Instances, s.InstancesFailed)
	fmt.Fprintf(&b, "Reminders sent: %d, skipped: %d, failed: %d", s.Sent, s.Skipped, s.Failed)
	if s.InstancesFailed > 0 || s.Failed > 0 {
		b.WriteString("\nCheck the job logs for details.")
	}
	return b.String()
}
