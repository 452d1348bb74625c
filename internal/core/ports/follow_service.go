package ports

import (
	"context"

	"github.com/yatube/yatube/internal/core/domain"
)

type FollowService interface {
	Follow(ctx context.Context, actor *domain.User, username string) error
	Unfollow(ctx context.Context, actor *domain.User, username string) error
}
