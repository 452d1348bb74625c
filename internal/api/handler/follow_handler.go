package handler

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/yatube/yatube/internal/api/metrics"
	"github.com/yatube/yatube/internal/api/middleware"
	"github.com/yatube/yatube/internal/core/domain"
	"github.com/yatube/yatube/internal/core/ports"
)

// FollowHandler subscribes and unsubscribes the current user. Both routes
// sit behind middleware.LoginRequired.
type FollowHandler struct {
	follows ports.FollowService
}

func NewFollowHandler(follows ports.FollowService) *FollowHandler {
	return &FollowHandler{follows: follows}
}

func (h *FollowHandler) Follow(c echo.Context) error {
	username := c.Param("username")

	err := h.follows.Follow(c.Request().Context(), middleware.CurrentUser(c), username)
	switch {
	case err == nil:
		metrics.FollowsTotal.WithLabelValues("follow").Inc()
	case errors.Is(err, domain.ErrSelfFollow):
	default:
		return err
	}
	return redirect(c, profileURL(username))
}

func (h *FollowHandler) Unfollow(c echo.Context) error {
	username := c.Param("username")

	if err := h.follows.Unfollow(c.Request().Context(), middleware.CurrentUser(c), username); err != nil {
		return err
	}
	metrics.FollowsTotal.WithLabelValues("unfollow").Inc()
	return redirect(c, profileURL(username))
}
