package service

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/invoice-dashboard/internal/core/domain"
	"github.com/99minutos/invoice-dashboard/internal/core/ports"
	"github.com/99minutos/invoice-dashboard/internal/core/validation"
)

// ProviderCredentials is the only sign-in provider: email and password
// checked against the users table.
const ProviderCredentials = "credentials"

const (
	MsgInvalidCredentials = "Invalid email or password."
	MsgSomethingWentWrong = "Something went wrong. Please try again."
)

// AuthService implements credential sign-in and issues JWT sessions.
type AuthService struct {
	users      ports.UserRepository
	jwtSecret  string
	sessionTTL time.Duration
	logger     zerolog.Logger

	dummyOnce sync.Once
	dummyHash []byte
}

func NewAuthService(users ports.UserRepository, jwtSecret string, sessionTTL time.Duration, logger zerolog.Logger) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &AuthService{users: users, jwtSecret: jwtSecret, sessionTTL: sessionTTL, logger: logger}
}

// Authorize returns the identity for a valid email/password pair and nil
// for anything else. Malformed input, an unknown email and a wrong password
// all look the same to the caller. The error is only set when the user
// store itself fails.
func (s *AuthService) Authorize(ctx context.Context, form url.Values) (*domain.Identity, error) {
	creds, err := validation.ParseCredentials(form)
	if err != nil {
		s.logger.Info().Msg("invalid credentials")
		return nil, nil
	}

	user, err := s.users.FindByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.compareDummy(creds.Password)
			return nil, nil
		}
		s.logger.Error().Err(err).Msg("failed to fetch user")
		return nil, errors.Wrap(err, "database error: unable to fetch user")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)) != nil {
		return nil, nil
	}

	return &domain.Identity{ID: user.ID, Name: user.Name, Email: user.Email}, nil
}

// SignIn authorises the form with the given provider and issues a session.
func (s *AuthService) SignIn(ctx context.Context, provider string, form url.Values) (*domain.Session, error) {
	if provider != ProviderCredentials {
		return nil, errors.Wrapf(domain.ErrUnknownProvider, "sign in with %q", provider)
	}

	identity, err := s.Authorize(ctx, form)
	if err != nil {
		return nil, &domain.AuthError{Type: domain.AuthErrorCallbackRoute, Err: err}
	}
	if identity == nil {
		return nil, &domain.AuthError{Type: domain.AuthErrorCredentialsSignin}
	}

	session, err := s.issueSession(*identity)
	if err != nil {
		return nil, errors.Wrap(err, "issue session")
	}

	s.logger.Info().Str("user_id", identity.ID).Msg("user signed in")
	return session, nil
}

// Authenticate backs the login form. Known sign-in failures are turned into
// a message; any other error is returned untouched.
func (s *AuthService) Authenticate(ctx context.Context, form url.Values) (ports.LoginResult, error) {
	session, err := s.SignIn(ctx, ProviderCredentials, form)
	if err == nil {
		return ports.LoginResult{Session: session}, nil
	}

	var authErr *domain.AuthError
	if errors.As(err, &authErr) {
		switch authErr.Type {
		case domain.AuthErrorCredentialsSignin:
			return ports.LoginResult{Message: MsgInvalidCredentials}, nil
		default:
			s.logger.Warn().Err(err).Str("type", authErr.Type).Msg("sign in failed")
			return ports.LoginResult{Message: MsgSomethingWentWrong}, nil
		}
	}
	return ports.LoginResult{}, err
}

func (s *AuthService) issueSession(id domain.Identity) (*domain.Session, error) {
	now := time.Now()
	expiresAt := now.Add(s.sessionTTL)

	claims := jwt.MapClaims{
		"sub":   id.ID,
		"name":  id.Name,
		"email": id.Email,
		"iat":   now.Unix(),
		"exp":   expiresAt.Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, err
	}
	return &domain.Session{Token: token, ExpiresAt: expiresAt, Identity: id}, nil
}

// compareDummy spends one bcrypt comparison so an unknown email costs about
// as much as a wrong password.
func (s *AuthService) compareDummy(password string) {
	s.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
		if err != nil {
			s.logger.Warn().Err(err).Msg("failed to prepare dummy hash")
			return
		}
		s.dummyHash = hash
	})
	if s.dummyHash != nil {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
	}
}
