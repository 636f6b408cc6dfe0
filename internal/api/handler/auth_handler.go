package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/invoice-dashboard/internal/api/metrics"
	"github.com/99minutos/invoice-dashboard/internal/core/ports"
)

const (
	defaultLoginRedirect = "/dashboard"
	loginPath            = "/login"
)

type AuthHandler struct {
	authService   ports.AuthService
	secureCookies bool
}

func NewAuthHandler(authService ports.AuthService, secureCookies bool) *AuthHandler {
	return &AuthHandler{authService: authService, secureCookies: secureCookies}
}

type loginResponse struct {
	Message string `json:"message"`
}

type loginPageResponse struct {
	Providers []string `json:"providers"`
}

// LoginPage handles GET /login. Signed-in users are sent on to the dashboard.
//
// @Summary      Login page
// @Tags         auth
// @Produce      json
// @Success      200  {object}  loginPageResponse
// @Success      303
// @Router       /login [get]
func (h *AuthHandler) LoginPage(c echo.Context) error {
	if _, ok := ctxIdentity(c); ok {
		return c.Redirect(http.StatusSeeOther, defaultLoginRedirect)
	}
	return c.JSON(http.StatusOK, loginPageResponse{Providers: []string{"credentials"}})
}

// Login authenticates the submitted credentials and starts a session.
//
// @Summary      Login
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        email       formData  string  true   "Account email"
// @Param        password    formData  string  true   "Account password"
// @Param        redirectTo  formData  string  false  "Local path to continue to"
// @Success      303
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  loginResponse
// @Failure      500  {object}  errorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	form, err := formValues(c)
	if err != nil {
		return err
	}

	res, err := h.authService.Authenticate(c.Request().Context(), form)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("error").Inc()
		return err
	}
	if res.Session == nil {
		metrics.AuthAttemptsTotal.WithLabelValues("rejected").Inc()
		return c.JSON(http.StatusUnauthorized, loginResponse{Message: res.Message})
	}

	metrics.AuthAttemptsTotal.WithLabelValues("success").Inc()
	c.SetCookie(sessionCookie(res.Session.Token, res.Session.ExpiresAt, h.secureCookies))
	return c.Redirect(http.StatusSeeOther, safeRedirect(form.Get("redirectTo")))
}

// Logout clears the session cookie.
//
// @Summary      Logout
// @Tags         auth
// @Success      303
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(expiredSessionCookie(h.secureCookies))
	return c.Redirect(http.StatusSeeOther, loginPath)
}

// safeRedirect only follows local absolute paths.
func safeRedirect(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return defaultLoginRedirect
	}
	return target
}
