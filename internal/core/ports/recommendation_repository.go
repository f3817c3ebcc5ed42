package ports

import (
	"context"

	"github.com/utilitrack/usage-system/internal/core/domain"
)

// RecommendationRepository defines the interface for advisory persistence.
type RecommendationRepository interface {
	Create(ctx context.Context, rec *domain.Recommendation) error

	// FindMostRecent returns the user's newest advisory by insertion order,
	// or domain.ErrRecommendationNotFound when none exist.
	FindMostRecent(ctx context.Context, userID string) (*domain.Recommendation, error)
}
