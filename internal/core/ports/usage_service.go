package ports

import (
	"context"
	"time"

	"github.com/utilitrack/usage-system/internal/core/domain"
)

// HistoryInput selects a (user, type, window) slice of the ledger.
// Aggregate switches the result between the raw record list and its totals;
// the two are mutually exclusive.
type HistoryInput struct {
	UserID    string
	Type      domain.UtilityType
	Window    domain.Window
	Aggregate bool
}

// HistoryResult is either the raw record list (Aggregate=false) or the
// window totals with Records suppressed (Aggregate=true).
type HistoryResult struct {
	Records      []domain.UsageRecord
	Aggregate    bool
	TotalUnits   float64
	AverageUnits float64
}

// SeriesPoint is one (date, summed units) chart entry. Date is the bucket
// anchor formatted as 2006-01-02.
type SeriesPoint struct {
	Date  string  `json:"date"`
	Units float64 `json:"units"`
}

// ChartSeries is the charting payload for one utility type. Weekly always
// holds 10 points and Daily 21, zero-filled; HasData is false when the user
// recorded nothing in the charted span, in which case no artifact names are
// produced.
type ChartSeries struct {
	Type              domain.UtilityType `json:"energy_type"`
	HasData           bool               `json:"has_data"`
	Weekly            []SeriesPoint      `json:"weekly,omitempty"`
	Daily             []SeriesPoint      `json:"daily,omitempty"`
	BarGraphFilename  string             `json:"bar_graph_filename,omitempty"`
	LineGraphFilename string             `json:"line_graph_filename,omitempty"`
}

type UsageService interface {
	// Record appends one reading to the ledger.
	Record(ctx context.Context, userID string, t domain.UtilityType, units float64, recordedAt time.Time) (*domain.UsageRecord, error)

	// History returns the windowed slice described by input.
	History(ctx context.Context, input HistoryInput) (*HistoryResult, error)

	// Average returns the user's all-time mean for the type, rounded to the
	// nearest integer; 0 when the user has no readings of that type.
	Average(ctx context.Context, userID string, t domain.UtilityType) (int64, error)

	// Charts produces the weekly and daily series for every utility type.
	Charts(ctx context.Context, userID string) ([]ChartSeries, error)
}
