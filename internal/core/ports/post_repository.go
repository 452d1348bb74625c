package ports

import (
	"context"

	"github.com/yatube/yatube/internal/core/domain"
)

// PostFilter narrows a post listing. Zero values mean "no filter".
// At most one of GroupID, AuthorID and FollowerID is expected to be set.
type PostFilter struct {
	GroupID    int64 // posts in this group
	AuthorID   int64 // posts written by this user
	FollowerID int64 // posts by authors this user follows
	Limit      int
	Offset     int
}

// PostRepository defines persistence operations for posts.
//
// Listings are ordered newest first (created_at DESC, id DESC) and returned
// posts carry their Author and, when set, Group.
type PostRepository interface {
	Create(ctx context.Context, p *domain.Post) error
	// Update rewrites text, group and image of an existing post. The author
	// column is never touched.
	Update(ctx context.Context, p *domain.Post) error
	FindByID(ctx context.Context, id int64) (*domain.Post, error)
	List(ctx context.Context, filter PostFilter) ([]*domain.Post, error)
	Count(ctx context.Context, filter PostFilter) (int64, error)
}
