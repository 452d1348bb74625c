package handler

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/yatube/yatube/internal/api/metrics"
	"github.com/yatube/yatube/internal/api/middleware"
	"github.com/yatube/yatube/internal/core/domain"
	"github.com/yatube/yatube/internal/core/ports"
)

type CommentHandler struct {
	comments ports.CommentService
}

func NewCommentHandler(comments ports.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// Add stores a comment and returns to the post. Blank comments are dropped
// without feedback.
func (h *CommentHandler) Add(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	actor := middleware.CurrentUser(c)
	if actor == nil {
		return redirect(c, middleware.LoginRedirect(c.Request().URL.RequestURI()))
	}

	var form commentForm
	if err := c.Bind(&form); err != nil {
		return redirect(c, postURL(id))
	}

	_, err = h.comments.Add(c.Request().Context(), actor, id, form.Text)
	switch {
	case err == nil:
		metrics.CommentsCreatedTotal.Inc()
	case errors.Is(err, domain.ErrValidation):
	default:
		return err
	}
	return redirect(c, postURL(id))
}
