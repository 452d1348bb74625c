package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/yatube/yatube/internal/api/metrics"
	"github.com/yatube/yatube/internal/api/middleware"
	"github.com/yatube/yatube/internal/core/domain"
	"github.com/yatube/yatube/internal/core/ports"
)

// CookieConfig controls the session cookie written on signup and login.
type CookieConfig struct {
	TTL    time.Duration
	Secure bool
}

type AuthHandler struct {
	authService ports.AuthService
	cookie      CookieConfig
	log         zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, cookie CookieConfig, log zerolog.Logger) *AuthHandler {
	if cookie.TTL <= 0 {
		cookie.TTL = 24 * time.Hour
	}
	return &AuthHandler{authService: authService, cookie: cookie, log: log}
}

// --- Signup ---

func (h *AuthHandler) SignupForm(c echo.Context) error {
	return c.Render(http.StatusOK, "users/signup.html", viewData{
		"form":   signupForm{},
		"errors": map[string]string{},
	})
}

// Signup registers an account and logs it in straight away.
func (h *AuthHandler) Signup(c echo.Context) error {
	var form signupForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	fail := func(errs map[string]string) error {
		form.Password = ""
		return c.Render(http.StatusOK, "users/signup.html", viewData{"form": form, "errors": errs})
	}

	if err := c.Validate(&form); err != nil {
		if fields, ok := fieldErrors(err); ok {
			return fail(fields)
		}
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username:  form.Username,
		Password:  form.Password,
		Email:     form.Email,
		FirstName: form.FirstName,
		LastName:  form.LastName,
	})
	switch {
	case errors.Is(err, domain.ErrUserExists):
		return fail(map[string]string{"username": "A user with that username already exists."})
	case errors.Is(err, domain.ErrInvalidCredentials):
		return fail(map[string]string{"__all__": "Enter a username and password."})
	case err != nil:
		return err
	}
	metrics.SignupsTotal.Inc()

	token, err := h.authService.IssueToken(user)
	if err != nil {
		return err
	}
	h.setSession(c, token)
	return redirect(c, "/")
}

// --- Login ---

func (h *AuthHandler) LoginForm(c echo.Context) error {
	return c.Render(http.StatusOK, "users/login.html", viewData{
		"form":   loginForm{},
		"errors": map[string]string{},
		"next":   c.QueryParam("next"),
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var form loginForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	fail := func(errs map[string]string) error {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		form.Password = ""
		return c.Render(http.StatusOK, "users/login.html", viewData{
			"form":   form,
			"errors": errs,
			"next":   form.Next,
		})
	}

	if err := c.Validate(&form); err != nil {
		if fields, ok := fieldErrors(err); ok {
			return fail(fields)
		}
		return err
	}

	token, _, err := h.authService.Login(c.Request().Context(), form.Username, form.Password)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		return fail(map[string]string{
			"__all__": "Please enter a correct username and password. Note that both fields may be case-sensitive.",
		})
	}
	if err != nil {
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	h.setSession(c, token)
	return redirect(c, safeNext(form.Next))
}

// --- Logout ---

// Logout revokes the presented token, if any, and always clears the cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.SessionCookie); err == nil && cookie.Value != "" {
		if err := h.authService.Logout(c.Request().Context(), cookie.Value); err != nil {
			h.log.Warn().Err(err).Msg("session revocation failed")
		}
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	middleware.SetCurrentUser(c, nil)
	return c.Render(http.StatusOK, "users/logged_out.html", viewData{})
}

func (h *AuthHandler) setSession(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookie.TTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// safeNext keeps redirects on this site: only absolute local paths pass.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
