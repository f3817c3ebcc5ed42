package ports

import (
	"context"
	"time"

	"github.com/utilitrack/usage-system/internal/core/domain"
)

// GeneratedAdvice is one advisory produced (and persisted) by a Generate
// call, in the order it was derived.
type GeneratedAdvice struct {
	Date time.Time          `json:"date"`
	Type domain.UtilityType `json:"energy_type"`
	Text string             `json:"recommendation"`
}

// RecommendationService derives advisories from the trailing week of
// readings. Generate is a command, not a query: every call persists its
// output, so viewing recommendations mutates state.
type RecommendationService interface {
	Generate(ctx context.Context, userID string) ([]GeneratedAdvice, error)
	MostRecent(ctx context.Context, userID string) (*domain.Recommendation, error)
}
