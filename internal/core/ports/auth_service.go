package ports

import (
	"context"

	"github.com/utilitrack/usage-system/internal/core/domain"
)

// RegisterInput carries the signup form fields. ConfirmPassword must equal
// Password or registration fails before anything is persisted.
type RegisterInput struct {
	Role                   string
	FirstName              string
	LastName               string
	Email                  string
	Password               string
	ConfirmPassword        string
	ElectricityMeterNumber string
	WaterMeterNumber       string
}

// UpdateProfileInput carries the settings form. Empty name/email fields are
// left untouched; a new password is applied only when non-empty and equal to
// its confirmation.
type UpdateProfileInput struct {
	FirstName          string
	LastName           string
	Email              string
	CurrentPassword    string
	NewPassword        string
	ConfirmNewPassword string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Profile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*domain.User, error)
}

// TokenRevoker ends a session by invalidating its bearer token until the
// token would have expired on its own.
type TokenRevoker interface {
	Revoke(ctx context.Context, token string) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}
