package instance

import (
	"context"
	"time"
)

// Methods is the capability record each instance exposes to the dispatch job.
type Methods interface {
	// Timezone returns the IANA zone name the instance operates in.
	Timezone() string
	// FindAll returns the instance's cases dated in [startDate, endDate).
	FindAll(ctx context.Context, startDate, endDate time.Time) ([]Case, error)
	// TestCase returns the synthetic case with the given index.
	TestCase(ctx context.Context, id int) (Case, error)
}
