package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/utilitrack/usage-system/internal/api/metrics"
	"github.com/utilitrack/usage-system/internal/core/domain"
	"github.com/utilitrack/usage-system/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	revoker     ports.TokenRevoker
}

func NewAuthHandler(authService ports.AuthService, revoker ports.TokenRevoker) *AuthHandler {
	return &AuthHandler{authService: authService, revoker: revoker}
}

type signupRequest struct {
	FirstName              string `json:"firstname" validate:"required"`
	LastName               string `json:"lastname" validate:"required"`
	Email                  string `json:"email" validate:"required,email"`
	Password               string `json:"password" validate:"required,min=6"`
	ConfirmPassword        string `json:"password1" validate:"required"`
	ElectricityMeterNumber string `json:"electricity_meter_number,omitempty"`
	WaterMeterNumber       string `json:"water_meter_number,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token      string       `json:"token,omitempty"`
	User       *domain.User `json:"user,omitempty"`
	RedirectTo string       `json:"redirect_to,omitempty"`
}

// UserSignup creates a user-role identity.
//
// @Summary      Register a regular user account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Signup form"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/user_signup [post]
func (h *AuthHandler) UserSignup(c echo.Context) error {
	return h.signup(c, domain.RoleUser)
}

// AdminSignup creates an admin-role identity. Admin accounts carry no meter
// numbers.
//
// @Summary      Register an admin account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Signup form"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/admin_signup [post]
func (h *AuthHandler) AdminSignup(c echo.Context) error {
	return h.signup(c, domain.RoleAdmin)
}

func (h *AuthHandler) signup(c echo.Context, role string) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input := ports.RegisterInput{
		Role:            role,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	}
	if role == domain.RoleUser {
		input.ElectricityMeterNumber = req.ElectricityMeterNumber
		input.WaterMeterNumber = req.WaterMeterNumber
	}

	user, err := h.authService.Register(c.Request().Context(), input)
	if err != nil {
		return err
	}

	metrics.SignupsTotal.WithLabelValues(role).Inc()
	return c.JSON(http.StatusCreated, authResponse{User: user})
}

// Login authenticates a user and returns a bearer token plus the dashboard
// the caller should land on for their role.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		}
		return err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, authResponse{
		Token:      token,
		User:       user,
		RedirectTo: user.DashboardPath(),
	})
}

// Logout revokes the caller's bearer token so it can no longer authenticate.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Router       /auth/logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	token, _ := c.Get("token").(string)
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	if err := h.revoker.Revoke(c.Request().Context(), token); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "logged out"})
}
