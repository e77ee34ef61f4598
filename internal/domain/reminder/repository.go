package reminder

import "context"

// Repository defines the operations the dispatch job needs on reminders.
type Repository interface {
	// ListActiveByUIDs returns active reminders whose UID is one of uids, in ID order.
	ListActiveByUIDs(ctx context.Context, uids []string) ([]*Reminder, error)
	// Deactivate sets Active to false for the reminder with the given ID.
	Deactivate(ctx context.Context, id int64) error
}
