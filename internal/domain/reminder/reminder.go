package reminder

import "time"

// Reminder is a subscription asking for an SMS ahead of a case.
// Only active reminders are considered by the dispatch job; a successful send flips Active to false.
type Reminder struct {
	ID        int64
	UID       string // Case UID
	Phone     string
	Number    string // Case number, denormalized
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
