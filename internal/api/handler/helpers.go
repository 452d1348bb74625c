package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/yatube/yatube/internal/core/domain"
)

// viewData is the template context handed to the renderer.
type viewData = map[string]any

// pathID parses an integer path parameter. Anything else is a 404, matching
// the router's <int:...> converters.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.ErrNotFound
	}
	return id, nil
}

// fieldErrors extracts field messages from a validation failure. ok is false
// for any other error.
func fieldErrors(err error) (map[string]string, bool) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Fields, true
	}
	return nil, false
}

func profileURL(username string) string { return "/profile/" + username + "/" }

func postURL(id int64) string { return "/posts/" + strconv.FormatInt(id, 10) + "/" }

func redirect(c echo.Context, to string) error {
	return c.Redirect(http.StatusFound, to)
}
