package ports

import (
	"context"
	"net/url"

	"github.com/99minutos/invoice-dashboard/internal/core/domain"
)

// LoginResult is what the login form gets back. An empty Message means the
// sign-in succeeded and Session is set.
type LoginResult struct {
	Message string
	Session *domain.Session
}

type AuthService interface {
	// Authorize maps submitted credentials to an identity. A nil identity
	// with a nil error is a rejection.
	Authorize(ctx context.Context, form url.Values) (*domain.Identity, error)
	// SignIn runs the named provider and issues a session. Rejections are
	// reported as *domain.AuthError.
	SignIn(ctx context.Context, provider string, form url.Values) (*domain.Session, error)
	// Authenticate backs the login form: recognised auth failures become a
	// message, anything else is returned as an error.
	Authenticate(ctx context.Context, form url.Values) (LoginResult, error)
}
