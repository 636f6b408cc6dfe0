package ports

import (
	"context"

	"github.com/99minutos/invoice-dashboard/internal/core/domain"
)

// UserRepository looks up dashboard accounts.
type UserRepository interface {
	// FindByEmail returns domain.ErrUserNotFound when no account matches.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}
