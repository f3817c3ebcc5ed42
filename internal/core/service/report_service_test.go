package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/utilitrack/usage-system/internal/core/domain"
	"github.com/utilitrack/usage-system/internal/core/ports"
)

func newTestReportService(users *stubUserRepo, usage *stubUsageRepo) *ReportService {
	usageSvc := newTestUsageService(usage, day("2024-03-15"))
	return NewReportService(users, usage, usageSvc, zerolog.Nop())
}

func TestReportService_GlobalAverage_SpansUsers(t *testing.T) {
	usage := &stubUsageRepo{}
	seedReading(usage, "u1", domain.UtilityElectricity, 10, "2024-03-10")
	seedReading(usage, "u2", domain.UtilityElectricity, 20, "2024-03-11")
	svc := newTestReportService(newStubUserRepo(), usage)

	avg, err := svc.GlobalAverage(context.Background(), domain.UtilityElectricity)
	if err != nil {
		t.Fatalf("global average failed: %v", err)
	}
	if avg != 15 {
		t.Fatalf("expected 15 across users, got %d", avg)
	}
}

func TestReportService_GlobalAverage_EmptyIsZero(t *testing.T) {
	svc := newTestReportService(newStubUserRepo(), &stubUsageRepo{})

	avg, err := svc.GlobalAverage(context.Background(), domain.UtilityWater)
	if err != nil {
		t.Fatalf("global average failed: %v", err)
	}
	if avg != 0 {
		t.Fatalf("expected 0 with no readings, got %d", avg)
	}
}

func TestReportService_UserHistory_UnknownUser(t *testing.T) {
	svc := newTestReportService(newStubUserRepo(), &stubUsageRepo{})

	_, _, err := svc.UserHistory(context.Background(), ports.HistoryInput{
		UserID: "missing",
		Type:   domain.UtilityElectricity,
		Window: domain.WindowWeek,
	})
	if err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestReportService_UserHistory_Aggregate(t *testing.T) {
	users := newStubUserRepo()
	created, err := users.Create(context.Background(), &domain.User{Email: "ivan@example.com", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	usage := &stubUsageRepo{}
	seedReading(usage, created.ID, domain.UtilityWater, 4, "2024-03-14")
	seedReading(usage, created.ID, domain.UtilityWater, 6, "2024-03-13")
	svc := newTestReportService(users, usage)

	user, result, err := svc.UserHistory(context.Background(), ports.HistoryInput{
		UserID:    created.ID,
		Type:      domain.UtilityWater,
		Window:    domain.WindowWeek,
		Aggregate: true,
	})
	if err != nil {
		t.Fatalf("user history failed: %v", err)
	}
	if user.Email != "ivan@example.com" {
		t.Fatalf("unexpected user %+v", user)
	}
	if result.TotalUnits != 10 || result.AverageUnits != 5 {
		t.Fatalf("expected (10, 5), got (%v, %v)", result.TotalUnits, result.AverageUnits)
	}
}
