package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/utilitrack/usage-system/internal/core/domain"
	"github.com/utilitrack/usage-system/internal/core/ports"
)

const (
	weeklyBucketCount = 10
	dailyBucketCount  = 21
	dateLayout        = "2006-01-02"
)

// UsageService is the write path of the ledger and the aggregation engine
// behind the dashboard, history and chart views.
type UsageService struct {
	repo   ports.UsageRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewUsageService(repo ports.UsageRepository, logger zerolog.Logger) *UsageService {
	return &UsageService{repo: repo, logger: logger, now: time.Now}
}

func (s *UsageService) Record(ctx context.Context, userID string, t domain.UtilityType, units float64, recordedAt time.Time) (*domain.UsageRecord, error) {
	if !t.Valid() {
		return nil, domain.ErrInvalidUtilityType
	}
	if units < 0 {
		return nil, domain.ErrInvalidQuantity
	}

	rec := &domain.UsageRecord{
		UserID:     userID,
		Type:       t,
		Units:      units,
		RecordedAt: recordedAt,
		CreatedAt:  s.now().UTC(),
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Str("energy_type", string(t)).Msg("failed to record usage")
		return nil, fmt.Errorf("record usage: %w", err)
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("energy_type", string(t)).
		Float64("units", units).
		Msg("usage recorded")

	return rec, nil
}

func (s *UsageService) History(ctx context.Context, input ports.HistoryInput) (*ports.HistoryResult, error) {
	if !input.Type.Valid() {
		return nil, domain.ErrInvalidUtilityType
	}

	now := s.now()
	records, err := s.repo.FindRange(ctx, input.UserID, input.Type, input.Window.Start(now), now)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}

	if !input.Aggregate {
		return &ports.HistoryResult{Records: records}, nil
	}

	var total float64
	for _, rec := range records {
		total += rec.Units
	}
	average := 0.0
	if len(records) > 0 {
		average = total / float64(len(records))
	}

	// Records are suppressed in aggregate mode; the two views are mutually
	// exclusive.
	return &ports.HistoryResult{
		Aggregate:    true,
		TotalUnits:   total,
		AverageUnits: average,
	}, nil
}

func (s *UsageService) Average(ctx context.Context, userID string, t domain.UtilityType) (int64, error) {
	if !t.Valid() {
		return 0, domain.ErrInvalidUtilityType
	}
	mean, err := s.repo.Average(ctx, userID, t)
	if err != nil {
		return 0, fmt.Errorf("average usage: %w", err)
	}
	return int64(math.Round(mean)), nil
}

// Charts builds, per utility type, ten weekly buckets and a 21-day daily
// series. A bucket sums only the readings landing on its exact anchor date;
// anchors count backward from now in one-week and one-day steps.
func (s *UsageService) Charts(ctx context.Context, userID string) ([]ports.ChartSeries, error) {
	now := s.now()
	chartStart := now.Add(-weeklyBucketCount * 7 * 24 * time.Hour)
	timestamp := now.Format("20060102150405")

	series := make([]ports.ChartSeries, 0, len(domain.UtilityTypes))
	for _, t := range domain.UtilityTypes {
		records, err := s.repo.FindRange(ctx, userID, t, chartStart, now)
		if err != nil {
			return nil, fmt.Errorf("chart series: %w", err)
		}

		if len(records) == 0 {
			series = append(series, ports.ChartSeries{Type: t, HasData: false})
			continue
		}

		sumByDate := make(map[string]float64, len(records))
		for _, rec := range records {
			sumByDate[rec.RecordedAt.Format(dateLayout)] += rec.Units
		}

		weekly := make([]ports.SeriesPoint, 0, weeklyBucketCount)
		for i := 0; i < weeklyBucketCount; i++ {
			anchor := now.AddDate(0, 0, -7*i).Format(dateLayout)
			weekly = append(weekly, ports.SeriesPoint{Date: anchor, Units: sumByDate[anchor]})
		}

		daily := make([]ports.SeriesPoint, 0, dailyBucketCount)
		for i := 0; i < dailyBucketCount; i++ {
			anchor := now.AddDate(0, 0, -i).Format(dateLayout)
			daily = append(daily, ports.SeriesPoint{Date: anchor, Units: sumByDate[anchor]})
		}

		series = append(series, ports.ChartSeries{
			Type:              t,
			HasData:           true,
			Weekly:            weekly,
			Daily:             daily,
			BarGraphFilename:  fmt.Sprintf("%s_bar_graph_%s.png", t, timestamp),
			LineGraphFilename: fmt.Sprintf("%s_line_graph_%s.png", t, timestamp),
		})
	}

	return series, nil
}
