package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/yatube/yatube/internal/api/middleware"
	"github.com/yatube/yatube/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps not-found domain errors to the 404 page.
//   - Sends unauthenticated requests to the login page.
//   - Logs unexpected errors internally and renders the generic 500 page.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if errors.Is(err, domain.ErrUnauthenticated) {
			_ = c.Redirect(http.StatusFound, middleware.LoginRedirect(c.Request().URL.RequestURI()))
			return
		}

		code, msg := resolveError(err, log, c)
		renderError(c, code, msg, log)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	switch {
	case errors.Is(err, domain.ErrPostNotFound),
		errors.Is(err, domain.ErrGroupNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, http.StatusText(http.StatusNotFound)
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, err.Error()
	}

	// Echo's own errors (bind failures, 404 from router, 403 from CSRF, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			logUnhandled(log, c, err)
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	logUnhandled(log, c, err)
	return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
}

func logUnhandled(log zerolog.Logger, c echo.Context, err error) {
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")
}

// renderError writes the error page for code, falling back to plain text
// when no page exists or rendering fails.
func renderError(c echo.Context, code int, msg string, log zerolog.Logger) {
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}

	var page string
	switch {
	case code == http.StatusNotFound:
		page = "core/404.html"
	case code >= http.StatusInternalServerError:
		page = "core/500.html"
	}

	if page != "" && c.Echo().Renderer != nil {
		err := c.Render(code, page, map[string]any{})
		if err == nil {
			return
		}
		log.Error().Err(err).Str("template", page).Msg("error page render failed")
	}
	_ = c.String(code, msg)
}
