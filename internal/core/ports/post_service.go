package ports

import (
	"context"
	"io"

	"github.com/yatube/yatube/internal/core/domain"
)

// ImageUpload is an image file received with the post form.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.ReadSeeker
}

// PostInput carries the validated post form. The author always comes from
// the acting identity.
type PostInput struct {
	Text    string
	GroupID *int64
	Image   *ImageUpload // nil keeps the current image on edit
}

// GroupFeed is the group_posts page context.
type GroupFeed struct {
	Group *domain.Group
	Page  *domain.PostPage
}

// ProfileFeed is the profile page context.
type ProfileFeed struct {
	Author    *domain.User
	Count     int64
	Following bool
	Page      *domain.PostPage
}

// PostDetail is the post_detail page context.
type PostDetail struct {
	Post     *domain.Post
	Author   *domain.User
	Count    int64 // posts written by Author
	Comments []*domain.Comment
}

// PostService defines the feed and post use-cases. actor is the current
// identity and is nil for anonymous requests.
type PostService interface {
	Index(ctx context.Context, page string) (*domain.PostPage, error)
	GroupFeed(ctx context.Context, slug, page string) (*GroupFeed, error)
	ProfileFeed(ctx context.Context, actor *domain.User, username, page string) (*ProfileFeed, error)
	FollowFeed(ctx context.Context, actor *domain.User, page string) (*domain.PostPage, error)
	Detail(ctx context.Context, id int64) (*PostDetail, error)
	Groups(ctx context.Context) ([]*domain.Group, error)
	Create(ctx context.Context, actor *domain.User, input PostInput) (*domain.Post, error)
	// Editable returns the post when actor may edit it. Unknown posts yield
	// domain.ErrPostNotFound; anonymous actors and other users get
	// domain.ErrNotAuthor.
	Editable(ctx context.Context, actor *domain.User, id int64) (*domain.Post, error)
	Update(ctx context.Context, actor *domain.User, id int64, input PostInput) (*domain.Post, error)
}
