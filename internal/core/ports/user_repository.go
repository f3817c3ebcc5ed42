package ports

import (
	"context"

	"github.com/utilitrack/usage-system/internal/core/domain"
)

// UserRepository defines the interface for user identity persistence.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	ListAll(ctx context.Context) ([]domain.User, error)
}
