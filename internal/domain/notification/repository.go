// internal/domain/notification/repository.go
package notification

import "context"

// Repository persists notification records.
type Repository interface {
	Create(ctx context.Context, n *Notification) error
}
