package ports

import (
	"context"

	"github.com/utilitrack/usage-system/internal/core/domain"
)

// ReportService serves the admin views: global statistics, the user roster,
// and any user's windowed history.
type ReportService interface {
	// GlobalAverage is the rounded mean across every user's readings of the
	// type; 0 when no readings exist.
	GlobalAverage(ctx context.Context, t domain.UtilityType) (int64, error)

	ListUsers(ctx context.Context) ([]domain.User, error)

	// UserHistory returns domain.ErrUserNotFound for an unknown user id.
	UserHistory(ctx context.Context, input HistoryInput) (*domain.User, *HistoryResult, error)
}
