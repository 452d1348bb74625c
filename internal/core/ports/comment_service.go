package ports

import (
	"context"

	"github.com/yatube/yatube/internal/core/domain"
)

type CommentService interface {
	// Add attaches a comment written by actor to the post.
	Add(ctx context.Context, actor *domain.User, postID int64, text string) (*domain.Comment, error)
}
