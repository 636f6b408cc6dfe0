package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/99minutos/invoice-dashboard/internal/core/domain"
)

func signedToken(t *testing.T, secret string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "u1",
		"name":  "User",
		"email": "user@nextmail.com",
		"exp":   exp.Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func runSession(t *testing.T, req *http.Request) (domain.Identity, bool) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var (
		got    domain.Identity
		gotOK  bool
		called bool
	)
	handler := Session("secret")(func(c echo.Context) error {
		called = true
		got, gotOK = domain.IdentityFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	return got, gotOK
}

func TestSession_Cookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: domain.SessionCookieName, Value: signedToken(t, "secret", time.Now().Add(time.Hour))})

	id, ok := runSession(t, req)
	if !ok {
		t.Fatalf("expected identity")
	}
	if id.ID != "u1" || id.Email != "user@nextmail.com" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestSession_BearerHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "secret", time.Now().Add(time.Hour)))

	if _, ok := runSession(t, req); !ok {
		t.Fatalf("expected identity")
	}
}

func TestSession_RejectedTokensStayAnonymous(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "wrong secret", token: signedToken(t, "other", time.Now().Add(time.Hour))},
		{name: "expired", token: signedToken(t, "secret", time.Now().Add(-time.Hour))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(&http.Cookie{Name: domain.SessionCookieName, Value: tt.token})

			if _, ok := runSession(t, req); ok {
				t.Fatalf("expected anonymous request")
			}
		})
	}
}

func TestRequireSession(t *testing.T) {
	tests := []struct {
		name     string
		identity bool
		accept   string
		code     int
	}{
		{name: "signed in", identity: true, code: http.StatusOK},
		{name: "browser", code: http.StatusSeeOther},
		{name: "json client", accept: echo.MIMEApplicationJSON, code: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/dashboard/invoices", nil)
			if tt.accept != "" {
				req.Header.Set(echo.HeaderAccept, tt.accept)
			}
			if tt.identity {
				req = req.WithContext(domain.WithIdentity(req.Context(), domain.Identity{ID: "u1"}))
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler := RequireSession("/login")(func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			})
			if err := handler(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}

			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, rec.Code)
			}
			if tt.code == http.StatusSeeOther && rec.Header().Get(echo.HeaderLocation) != "/login" {
				t.Fatalf("unexpected location: %s", rec.Header().Get(echo.HeaderLocation))
			}
		})
	}
}
