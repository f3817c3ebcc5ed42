package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/utilitrack/usage-system/internal/api/metrics"
	"github.com/utilitrack/usage-system/internal/core/domain"
	"github.com/utilitrack/usage-system/internal/core/ports"
)

const dateLayout = "2006-01-02"

// UserHandler serves every /users/* view.
type UserHandler struct {
	authService ports.AuthService
	usage       ports.UsageService
	recs        ports.RecommendationService
}

func NewUserHandler(authService ports.AuthService, usage ports.UsageService, recs ports.RecommendationService) *UserHandler {
	return &UserHandler{authService: authService, usage: usage, recs: recs}
}

// --- Request / Response types ---

type dataEntryRequest struct {
	EnergyType string  `json:"energyType" validate:"required"`
	UnitsUsed  float64 `json:"unitsUsed" validate:"gte=0"`
	Date       string  `json:"date" validate:"required,datetime=2006-01-02"`
}

type settingsRequest struct {
	FirstName          string `json:"firstname,omitempty"`
	LastName           string `json:"lastname,omitempty"`
	Email              string `json:"email,omitempty" validate:"omitempty,email"`
	CurrentPassword    string `json:"currentPassword" validate:"required"`
	NewPassword        string `json:"newPassword,omitempty"`
	ConfirmNewPassword string `json:"confirmPassword,omitempty"`
}

type dashboardResponse struct {
	RecentRecommendation *domain.Recommendation `json:"most_recent_recommendation,omitempty"`
	AverageElectricity   int64                  `json:"average_electricity"`
	AverageWater         int64                  `json:"average_water"`
}

type historyResponse struct {
	TimePeriod    string               `json:"time_period"`
	EnergyType    domain.UtilityType   `json:"energy_type"`
	ShowAggregate bool                 `json:"show_aggregate"`
	Records       []domain.UsageRecord `json:"records,omitempty"`
	TotalUnits    *float64             `json:"total_units_used,omitempty"`
	AverageUnits  *float64             `json:"average_units_used,omitempty"`
}

// Dashboard returns the user summary: newest advisory plus all-time rounded
// electricity and water averages.
//
// @Summary      User dashboard
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dashboardResponse
// @Router       /users/dashboard [get]
func (h *UserHandler) Dashboard(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	recent, err := h.recs.MostRecent(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrRecommendationNotFound) {
		return err
	}

	electricity, err := h.usage.Average(ctx, userID, domain.UtilityElectricity)
	if err != nil {
		return err
	}
	water, err := h.usage.Average(ctx, userID, domain.UtilityWater)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dashboardResponse{
		RecentRecommendation: recent,
		AverageElectricity:   electricity,
		AverageWater:         water,
	})
}

// DataEntryForm returns the metadata a data-entry form needs.
//
// @Summary      Data entry form metadata
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string][]domain.UtilityType
// @Router       /users/data_entry [get]
func (h *UserHandler) DataEntryForm(c echo.Context) error {
	if _, _, err := ctxIdentity(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string][]domain.UtilityType{
		"energy_types": domain.UtilityTypes,
	})
}

// DataEntry appends one meter reading to the ledger.
//
// @Summary      Record a meter reading
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dataEntryRequest  true  "Reading"
// @Success      201   {object}  domain.UsageRecord
// @Failure      400   {object}  map[string]string
// @Router       /users/data_entry [post]
func (h *UserHandler) DataEntry(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req dataEntryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	recordedAt, err := time.ParseInLocation(dateLayout, req.Date, time.UTC)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must match format 2006-01-02")
	}

	rec, err := h.usage.Record(c.Request().Context(), userID, domain.UtilityType(req.EnergyType), req.UnitsUsed, recordedAt)
	if err != nil {
		return err
	}

	metrics.ReadingsRecordedTotal.WithLabelValues(req.EnergyType).Inc()
	return c.JSON(http.StatusCreated, rec)
}

// History returns the caller's windowed record list, or its totals when
// aggregate=aggregate is passed.
//
// @Summary      Usage history
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        time_period  query  string  false  "7 days | 30 days | 3 months | 6 months"
// @Param        energy_type  query  string  false  "electricity | water | naturalgas | vehiclefuel"
// @Param        aggregate    query  string  false  "all | aggregate"
// @Success      200  {object}  historyResponse
// @Router       /users/history [get]
func (h *UserHandler) History(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	input, timePeriod, err := historyQuery(c, userID)
	if err != nil {
		return err
	}

	result, err := h.usage.History(c.Request().Context(), input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newHistoryResponse(timePeriod, input.Type, result))
}

// PowerUsage exposes the per-type weekly and daily chart series alongside
// the artifact names the rendering collaborator writes.
//
// @Summary      Chart series per utility type
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  ports.ChartSeries
// @Router       /users/power_usage [get]
func (h *UserHandler) PowerUsage(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	series, err := h.usage.Charts(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, series)
}

// Recommendations derives and returns fresh advisories. Despite being a GET,
// this persists every advisory it returns; viewing the page is a write.
//
// @Summary      Generate and list recommendations
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  ports.GeneratedAdvice
// @Router       /users/recommendations [get]
func (h *UserHandler) Recommendations(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	generated, err := h.recs.Generate(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	for _, adv := range generated {
		metrics.RecommendationsGeneratedTotal.WithLabelValues(adviceTier(adv.Text)).Inc()
	}
	return c.JSON(http.StatusOK, generated)
}

// Settings returns the caller's profile.
//
// @Summary      Current profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Router       /users/settings [get]
func (h *UserHandler) Settings(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Profile(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateSettings applies a profile and/or password change after verifying
// the current password.
//
// @Summary      Update profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      settingsRequest  true  "Settings form"
// @Success      200   {object}  domain.User
// @Failure      401   {object}  map[string]string
// @Router       /users/settings [post]
func (h *UserHandler) UpdateSettings(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req settingsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.UpdateProfile(c.Request().Context(), userID, ports.UpdateProfileInput{
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Email:              req.Email,
		CurrentPassword:    req.CurrentPassword,
		NewPassword:        req.NewPassword,
		ConfirmNewPassword: req.ConfirmNewPassword,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// historyQuery parses the shared history/power query parameters.
func historyQuery(c echo.Context, userID string) (ports.HistoryInput, string, error) {
	timePeriod := c.QueryParam("time_period")
	if timePeriod == "" {
		timePeriod = "7 days"
	}
	window, err := domain.ParseWindow(timePeriod)
	if err != nil {
		return ports.HistoryInput{}, "", err
	}

	energyType := c.QueryParam("energy_type")
	if energyType == "" {
		energyType = string(domain.UtilityElectricity)
	}

	return ports.HistoryInput{
		UserID:    userID,
		Type:      domain.UtilityType(energyType),
		Window:    window,
		Aggregate: c.QueryParam("aggregate") == "aggregate",
	}, timePeriod, nil
}

func newHistoryResponse(timePeriod string, t domain.UtilityType, result *ports.HistoryResult) historyResponse {
	resp := historyResponse{
		TimePeriod:    timePeriod,
		EnergyType:    t,
		ShowAggregate: result.Aggregate,
		Records:       result.Records,
	}
	if result.Aggregate {
		total, average := result.TotalUnits, result.AverageUnits
		resp.TotalUnits = &total
		resp.AverageUnits = &average
	}
	return resp
}

// adviceTier maps an advisory text to its metric label.
func adviceTier(text string) string {
	switch text {
	case domain.AdviceBelowAverage:
		return "below_average"
	case domain.AdviceAboveAverage:
		return "above_average"
	case domain.AdviceWeeklyHigh:
		return "weekly_high"
	default:
		return "neutral"
	}
}
