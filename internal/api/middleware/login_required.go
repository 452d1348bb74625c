package middleware

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
)

// LoginURL is where anonymous visitors are sent by LoginRequired.
const LoginURL = "/auth/login/"

// LoginRequired redirects anonymous requests to the login page, carrying the
// original path in the next query parameter.
func LoginRequired() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentUser(c) == nil {
				return c.Redirect(http.StatusFound, LoginRedirect(c.Request().URL.RequestURI()))
			}
			return next(c)
		}
	}
}

// LoginRedirect builds the login URL that returns to next afterwards.
func LoginRedirect(next string) string {
	return LoginURL + "?next=" + url.QueryEscape(next)
}
