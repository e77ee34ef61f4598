// internal/domain/notification/notification.go
package notification

import "time"

// Notification is the audit record of a reminder message that was sent.
// Corresponds to the 'notifications' table. Rows are written once and never updated.
type Notification struct {
	ID        int64
	UID       string    // Case UID the reminder was subscribed to
	Number    string    // Case number, denormalized from the reminder
	Phone     string    // Recipient phone number
	EventDate time.Time // Date of the case the message was about
	CreatedAt time.Time
}
