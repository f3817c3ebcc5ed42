package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/utilitrack/usage-system/internal/core/domain"
	"github.com/utilitrack/usage-system/internal/core/ports"
)

type stubUsageService struct {
	recordFn  func(ctx context.Context, userID string, t domain.UtilityType, units float64, recordedAt time.Time) (*domain.UsageRecord, error)
	historyFn func(ctx context.Context, input ports.HistoryInput) (*ports.HistoryResult, error)
	averageFn func(ctx context.Context, userID string, t domain.UtilityType) (int64, error)
	chartsFn  func(ctx context.Context, userID string) ([]ports.ChartSeries, error)
}

func (s *stubUsageService) Record(ctx context.Context, userID string, t domain.UtilityType, units float64, recordedAt time.Time) (*domain.UsageRecord, error) {
	return s.recordFn(ctx, userID, t, units, recordedAt)
}

func (s *stubUsageService) History(ctx context.Context, input ports.HistoryInput) (*ports.HistoryResult, error) {
	return s.historyFn(ctx, input)
}

func (s *stubUsageService) Average(ctx context.Context, userID string, t domain.UtilityType) (int64, error) {
	return s.averageFn(ctx, userID, t)
}

func (s *stubUsageService) Charts(ctx context.Context, userID string) ([]ports.ChartSeries, error) {
	return s.chartsFn(ctx, userID)
}

type stubRecService struct {
	generateFn   func(ctx context.Context, userID string) ([]ports.GeneratedAdvice, error)
	mostRecentFn func(ctx context.Context, userID string) (*domain.Recommendation, error)
}

func (s *stubRecService) Generate(ctx context.Context, userID string) ([]ports.GeneratedAdvice, error) {
	return s.generateFn(ctx, userID)
}

func (s *stubRecService) MostRecent(ctx context.Context, userID string) (*domain.Recommendation, error) {
	return s.mostRecentFn(ctx, userID)
}

func asUser(c echo.Context) {
	c.Set("user_id", "u1")
	c.Set("role", domain.RoleUser)
}

func TestUserHandler_Dashboard(t *testing.T) {
	usage := &stubUsageService{
		averageFn: func(_ context.Context, userID string, ut domain.UtilityType) (int64, error) {
			switch ut {
			case domain.UtilityElectricity:
				return 42, nil
			case domain.UtilityWater:
				return 7, nil
			}
			t.Fatalf("unexpected type %s", ut)
			return 0, nil
		},
	}
	recs := &stubRecService{
		mostRecentFn: func(_ context.Context, userID string) (*domain.Recommendation, error) {
			return nil, domain.ErrRecommendationNotFound
		},
	}
	h := NewUserHandler(&stubAuthService{}, usage, recs)

	c, rec := newTestContext(t, http.MethodGet, "/users/dashboard", "")
	asUser(c)

	if err := h.Dashboard(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	// A user with no advisories still gets a dashboard.
	if resp["average_electricity"] != float64(42) || resp["average_water"] != float64(7) {
		t.Fatalf("unexpected averages: %+v", resp)
	}
}

func TestUserHandler_DataEntry_Success(t *testing.T) {
	usage := &stubUsageService{
		recordFn: func(_ context.Context, userID string, ut domain.UtilityType, units float64, recordedAt time.Time) (*domain.UsageRecord, error) {
			if userID != "u1" || ut != domain.UtilityNaturalGas || units != 12.5 {
				t.Fatalf("unexpected args: %s %s %v", userID, ut, units)
			}
			if recordedAt.Format("2006-01-02") != "2024-03-14" {
				t.Fatalf("unexpected date %v", recordedAt)
			}
			return &domain.UsageRecord{ID: "r1", UserID: userID, Type: ut, Units: units, RecordedAt: recordedAt}, nil
		},
	}
	h := NewUserHandler(&stubAuthService{}, usage, &stubRecService{})

	body := `{"energyType":"naturalgas","unitsUsed":12.5,"date":"2024-03-14"}`
	c, rec := newTestContext(t, http.MethodPost, "/users/data_entry", body)
	asUser(c)

	if err := h.DataEntry(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestUserHandler_DataEntry_BadDate(t *testing.T) {
	h := NewUserHandler(&stubAuthService{}, &stubUsageService{}, &stubRecService{})

	body := `{"energyType":"water","unitsUsed":3,"date":"14/03/2024"}`
	c, _ := newTestContext(t, http.MethodPost, "/users/data_entry", body)
	asUser(c)

	err := h.DataEntry(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestUserHandler_History_QueryDefaults(t *testing.T) {
	usage := &stubUsageService{
		historyFn: func(_ context.Context, input ports.HistoryInput) (*ports.HistoryResult, error) {
			if input.Window != domain.WindowWeek {
				t.Fatalf("expected default 7-day window, got %v", input.Window)
			}
			if input.Type != domain.UtilityElectricity {
				t.Fatalf("expected default electricity, got %s", input.Type)
			}
			if input.Aggregate {
				t.Fatalf("aggregate must default to raw mode")
			}
			return &ports.HistoryResult{}, nil
		},
	}
	h := NewUserHandler(&stubAuthService{}, usage, &stubRecService{})

	c, rec := newTestContext(t, http.MethodGet, "/users/history", "")
	asUser(c)

	if err := h.History(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_History_AggregateParams(t *testing.T) {
	usage := &stubUsageService{
		historyFn: func(_ context.Context, input ports.HistoryInput) (*ports.HistoryResult, error) {
			if input.Window != domain.WindowThreeMonths || input.Type != domain.UtilityVehicleFuel || !input.Aggregate {
				t.Fatalf("query params not parsed: %+v", input)
			}
			return &ports.HistoryResult{Aggregate: true, TotalUnits: 30, AverageUnits: 10}, nil
		},
	}
	h := NewUserHandler(&stubAuthService{}, usage, &stubRecService{})

	c, rec := newTestContext(t, http.MethodGet, "/users/history?time_period=3+months&energy_type=vehiclefuel&aggregate=aggregate", "")
	asUser(c)

	if err := h.History(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["total_units_used"] != float64(30) || resp["average_units_used"] != float64(10) {
		t.Fatalf("unexpected aggregates: %+v", resp)
	}
	if _, present := resp["records"]; present {
		t.Fatalf("records must be suppressed in aggregate mode")
	}
}

func TestUserHandler_History_UnknownWindow(t *testing.T) {
	h := NewUserHandler(&stubAuthService{}, &stubUsageService{}, &stubRecService{})

	c, _ := newTestContext(t, http.MethodGet, "/users/history?time_period=2+years", "")
	asUser(c)

	if err := h.History(c); !errors.Is(err, domain.ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow, got %v", err)
	}
}

func TestUserHandler_Recommendations_ReturnsGenerated(t *testing.T) {
	recs := &stubRecService{
		generateFn: func(_ context.Context, userID string) ([]ports.GeneratedAdvice, error) {
			return []ports.GeneratedAdvice{
				{Type: domain.UtilityWater, Text: domain.AdviceBelowAverage},
			}, nil
		},
	}
	h := NewUserHandler(&stubAuthService{}, &stubUsageService{}, recs)

	c, rec := newTestContext(t, http.MethodGet, "/users/recommendations", "")
	asUser(c)

	if err := h.Recommendations(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 1 || resp[0]["recommendation"] != domain.AdviceBelowAverage {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestUserHandler_MissingClaims(t *testing.T) {
	h := NewUserHandler(&stubAuthService{}, &stubUsageService{}, &stubRecService{})

	c, _ := newTestContext(t, http.MethodGet, "/users/dashboard", "")

	err := h.Dashboard(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without claims, got %v", err)
	}
}
