package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already in use")
	ErrPasswordMismatch   = errors.New("passwords must match")
	ErrWrongPassword      = errors.New("incorrect current password")
)

// User models an authenticated actor in the system. Meter numbers are
// optional; admin accounts carry none.
type User struct {
	ID                     string    `json:"id"`
	FirstName              string    `json:"firstname"`
	LastName               string    `json:"lastname"`
	Email                  string    `json:"email"`
	PasswordHash           string    `json:"-"`
	Role                   string    `json:"role"`
	ElectricityMeterNumber string    `json:"electricity_meter_number,omitempty"`
	WaterMeterNumber       string    `json:"water_meter_number,omitempty"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// DashboardPath returns the dashboard a user of this role lands on.
func (u *User) DashboardPath() string {
	if u.IsAdmin() {
		return "/admin/dashboard"
	}
	return "/users/dashboard"
}
