package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/yatube/yatube/internal/core/domain"
	"github.com/yatube/yatube/internal/core/ports"
)

type FollowService struct {
	users   ports.UserRepository
	follows ports.FollowRepository
	log     zerolog.Logger
}

func NewFollowService(users ports.UserRepository, follows ports.FollowRepository, log zerolog.Logger) *FollowService {
	return &FollowService{users: users, follows: follows, log: log}
}

// Follow subscribes actor to username's posts. Following yourself returns
// domain.ErrSelfFollow and stores nothing.
func (s *FollowService) Follow(ctx context.Context, actor *domain.User, username string) error {
	if actor == nil {
		return domain.ErrUnauthenticated
	}

	author, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if actor.Is(author) {
		return domain.ErrSelfFollow
	}

	if err := s.follows.Create(ctx, actor.ID, author.ID); err != nil {
		return fmt.Errorf("follow: %w", err)
	}

	s.log.Debug().Str("user", actor.Username).Str("author", author.Username).Msg("followed")
	return nil
}

func (s *FollowService) Unfollow(ctx context.Context, actor *domain.User, username string) error {
	if actor == nil {
		return domain.ErrUnauthenticated
	}

	author, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return err
	}

	if err := s.follows.Delete(ctx, actor.ID, author.ID); err != nil {
		return fmt.Errorf("unfollow: %w", err)
	}

	s.log.Debug().Str("user", actor.Username).Str("author", author.Username).Msg("unfollowed")
	return nil
}
