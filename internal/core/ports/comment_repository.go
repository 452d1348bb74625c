package ports

import (
	"context"

	"github.com/yatube/yatube/internal/core/domain"
)

// CommentRepository defines persistence for post comments.
type CommentRepository interface {
	Create(ctx context.Context, c *domain.Comment) error
	// ListByPost returns a post's comments oldest first, with Author populated.
	ListByPost(ctx context.Context, postID int64) ([]*domain.Comment, error)
}
