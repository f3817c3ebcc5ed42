package ports

import (
	"context"
	"time"

	"github.com/utilitrack/usage-system/internal/core/domain"
)

// UsageRepository defines the interface for the append-only usage ledger.
type UsageRepository interface {
	// Create appends one immutable reading.
	Create(ctx context.Context, rec *domain.UsageRecord) error

	// FindRange returns one user's readings of the given type with
	// RecordedAt in [start, end], in insertion order.
	FindRange(ctx context.Context, userID string, t domain.UtilityType, start, end time.Time) ([]domain.UsageRecord, error)

	// Average returns the unrounded mean units for the given type, scoped to
	// one user when userID is non-empty or to all users when it is empty.
	// Zero matching records yields (0, nil).
	Average(ctx context.Context, userID string, t domain.UtilityType) (float64, error)
}
