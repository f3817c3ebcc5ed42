package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/utilitrack/usage-system/internal/core/domain"
	"github.com/utilitrack/usage-system/internal/core/ports"
)

// RecommendationService derives advisories from the trailing 7 days of
// readings.
type RecommendationService struct {
	usageRepo ports.UsageRepository
	recRepo   ports.RecommendationRepository
	logger    zerolog.Logger
	now       func() time.Time
}

func NewRecommendationService(usageRepo ports.UsageRepository, recRepo ports.RecommendationRepository, logger zerolog.Logger) *RecommendationService {
	return &RecommendationService{
		usageRepo: usageRepo,
		recRepo:   recRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// Generate classifies each utility type's most recent reading day against
// the quartiles of that same-day set and persists one advisory per same-day
// record. This is a command: every call, including one backing a page view,
// inserts fresh advisories.
//
// The checks run in a fixed order — below Q1, above Q3, equal to the weekly
// max, neutral — so a reading that both exceeds Q3 and ties the max is
// classified as above average.
func (s *RecommendationService) Generate(ctx context.Context, userID string) ([]ports.GeneratedAdvice, error) {
	now := s.now()
	weekStart := now.Add(-7 * 24 * time.Hour)

	var generated []ports.GeneratedAdvice
	for _, t := range domain.UtilityTypes {
		records, err := s.usageRepo.FindRange(ctx, userID, t, weekStart, now)
		if err != nil {
			return nil, fmt.Errorf("generate recommendations: %w", err)
		}
		if len(records) == 0 {
			continue
		}

		latest := records[0].RecordedAt
		for _, rec := range records[1:] {
			if rec.RecordedAt.After(latest) {
				latest = rec.RecordedAt
			}
		}

		var sameDay []float64
		for _, rec := range records {
			if rec.RecordedAt.Equal(latest) {
				sameDay = append(sameDay, rec.Units)
			}
		}

		q1 := percentile(sameDay, 25)
		q3 := percentile(sameDay, 75)
		max := sameDay[0]
		for _, v := range sameDay[1:] {
			if v > max {
				max = v
			}
		}

		for _, rec := range records {
			if !rec.RecordedAt.Equal(latest) {
				continue
			}
			text := classify(rec.Units, q1, q3, max)

			advisory := &domain.Recommendation{
				UserID:    userID,
				Type:      t,
				Date:      rec.RecordedAt,
				Text:      text,
				CreatedAt: now.UTC(),
			}
			if err := s.recRepo.Create(ctx, advisory); err != nil {
				return nil, fmt.Errorf("generate recommendations: %w", err)
			}

			generated = append(generated, ports.GeneratedAdvice{
				Date: rec.RecordedAt,
				Type: t,
				Text: text,
			})
		}
	}

	s.logger.Info().
		Str("user_id", userID).
		Int("count", len(generated)).
		Msg("recommendations generated")

	return generated, nil
}

func (s *RecommendationService) MostRecent(ctx context.Context, userID string) (*domain.Recommendation, error) {
	return s.recRepo.FindMostRecent(ctx, userID)
}

// classify maps a same-day reading onto an advisory tier. Check order is
// load-bearing: the max-equality tier is only reachable for readings inside
// the interquartile range.
func classify(units, q1, q3, max float64) string {
	switch {
	case units < q1:
		return domain.AdviceBelowAverage
	case units > q3:
		return domain.AdviceAboveAverage
	case units == max:
		return domain.AdviceWeeklyHigh
	default:
		return domain.AdviceNeutral
	}
}
