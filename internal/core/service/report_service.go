package service

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/utilitrack/usage-system/internal/core/domain"
	"github.com/utilitrack/usage-system/internal/core/ports"
)

// ReportService backs the admin views: global statistics, the user roster,
// and per-user history.
type ReportService struct {
	userRepo ports.UserRepository
	usage    ports.UsageService
	repo     ports.UsageRepository
	logger   zerolog.Logger
}

func NewReportService(userRepo ports.UserRepository, repo ports.UsageRepository, usage ports.UsageService, logger zerolog.Logger) *ReportService {
	return &ReportService{userRepo: userRepo, repo: repo, usage: usage, logger: logger}
}

func (s *ReportService) GlobalAverage(ctx context.Context, t domain.UtilityType) (int64, error) {
	if !t.Valid() {
		return 0, domain.ErrInvalidUtilityType
	}
	// Empty user id widens the mean to every user's readings.
	mean, err := s.repo.Average(ctx, "", t)
	if err != nil {
		return 0, fmt.Errorf("global average: %w", err)
	}
	return int64(math.Round(mean)), nil
}

func (s *ReportService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *ReportService) UserHistory(ctx context.Context, input ports.HistoryInput) (*domain.User, *ports.HistoryResult, error) {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, nil, err
	}

	result, err := s.usage.History(ctx, input)
	if err != nil {
		return nil, nil, err
	}
	return user, result, nil
}
