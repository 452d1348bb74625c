package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Static returns a handler that renders a template with an empty context.
func Static(template string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.Render(http.StatusOK, template, viewData{})
	}
}
