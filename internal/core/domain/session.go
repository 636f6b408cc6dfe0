package domain

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
)

// SessionCookieName is the cookie the signed session token travels in.
const SessionCookieName = "session"

// Auth error types surfaced by SignIn.
const (
	AuthErrorCredentialsSignin = "CredentialsSignin"
	AuthErrorCallbackRoute     = "CallbackRouteError"
)

var ErrUnknownProvider = errors.New("unknown sign-in provider")

// AuthError is a recognised sign-in failure. Type tells callers which
// user-facing message applies; Err holds the underlying cause, if any.
type AuthError struct {
	Type string
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return "auth: " + e.Type
	}
	return "auth: " + e.Type + ": " + e.Err.Error()
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Session is a signed token issued for an authorised identity.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Identity  Identity
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying the signed-in identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the signed-in identity, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
