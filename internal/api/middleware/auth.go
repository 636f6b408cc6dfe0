package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/99minutos/invoice-dashboard/internal/core/domain"
)

// Session reads the session token from the session cookie, or from a Bearer
// Authorization header, and attaches the identity to the request context.
// A missing or invalid token leaves the request anonymous; RequireSession
// decides whether that is acceptable.
func Session(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := sessionToken(c)
			if token == "" {
				return next(c)
			}

			id, ok := parseSession(token, jwtSecret)
			if !ok {
				return next(c)
			}

			req := c.Request()
			c.SetRequest(req.WithContext(domain.WithIdentity(req.Context(), id)))
			c.Set("user_id", id.ID)
			return next(c)
		}
	}
}

func sessionToken(c echo.Context) string {
	if cookie, err := c.Cookie(domain.SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	parts := strings.SplitN(c.Request().Header.Get(echo.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}

func parseSession(token, jwtSecret string) (domain.Identity, bool) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !tkn.Valid {
		return domain.Identity{}, false
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return domain.Identity{}, false
	}
	name, _ := claims["name"].(string)
	email, _ := claims["email"].(string)
	return domain.Identity{ID: sub, Name: name, Email: email}, true
}

// RequireSession rejects anonymous requests. Browsers are sent to the login
// page; JSON clients get a 401.
func RequireSession(loginPath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := domain.IdentityFromContext(c.Request().Context()); ok {
				return next(c)
			}
			if wantsJSON(c.Request()) {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			}
			return c.Redirect(http.StatusSeeOther, loginPath)
		}
	}
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON) ||
		r.Header.Get(echo.HeaderAuthorization) != ""
}
