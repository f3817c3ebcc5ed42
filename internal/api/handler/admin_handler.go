package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/utilitrack/usage-system/internal/core/domain"
	"github.com/utilitrack/usage-system/internal/core/ports"
)

// AdminHandler serves the /admin/* views.
type AdminHandler struct {
	reports ports.ReportService
}

func NewAdminHandler(reports ports.ReportService) *AdminHandler {
	return &AdminHandler{reports: reports}
}

type adminDashboardResponse struct {
	AverageElectricity int64 `json:"average_electricity"`
	AverageWater       int64 `json:"average_water"`
}

type adminHistoryResponse struct {
	User domain.User `json:"user"`
	historyResponse
}

// Dashboard returns global rounded averages across every user.
//
// @Summary      Admin dashboard
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  adminDashboardResponse
// @Router       /admin/dashboard [get]
func (h *AdminHandler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()

	electricity, err := h.reports.GlobalAverage(ctx, domain.UtilityElectricity)
	if err != nil {
		return err
	}
	water, err := h.reports.GlobalAverage(ctx, domain.UtilityWater)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, adminDashboardResponse{
		AverageElectricity: electricity,
		AverageWater:       water,
	})
}

// Users lists every registered identity.
//
// @Summary      List all users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.User
// @Router       /admin/users [get]
func (h *AdminHandler) Users(c echo.Context) error {
	users, err := h.reports.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// UserHistory returns one user's windowed history; 404 for an unknown id.
//
// @Summary      View one user's history
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        user_id      path   string  true   "User id"
// @Param        time_period  query  string  false  "7 days | 30 days | 3 months | 6 months"
// @Param        energy_type  query  string  false  "electricity | water | naturalgas | vehiclefuel"
// @Param        aggregate    query  string  false  "all | aggregate"
// @Success      200  {object}  adminHistoryResponse
// @Failure      404  {object}  map[string]string
// @Router       /admin/history/{user_id} [get]
func (h *AdminHandler) UserHistory(c echo.Context) error {
	input, timePeriod, err := historyQuery(c, c.Param("user_id"))
	if err != nil {
		return err
	}

	user, result, err := h.reports.UserHistory(c.Request().Context(), input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, adminHistoryResponse{
		User:            *user,
		historyResponse: newHistoryResponse(timePeriod, input.Type, result),
	})
}
