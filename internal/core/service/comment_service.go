package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/yatube/yatube/internal/core/domain"
	"github.com/yatube/yatube/internal/core/ports"
)

type CommentService struct {
	posts    ports.PostRepository
	comments ports.CommentRepository
	log      zerolog.Logger
	now      func() time.Time
}

func NewCommentService(posts ports.PostRepository, comments ports.CommentRepository, log zerolog.Logger) *CommentService {
	return &CommentService{posts: posts, comments: comments, log: log, now: time.Now}
}

func (s *CommentService) Add(ctx context.Context, actor *domain.User, postID int64, text string) (*domain.Comment, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}

	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.NewValidationError("text", "This field is required.")
	}

	c := &domain.Comment{
		PostID:    postID,
		AuthorID:  actor.ID,
		Text:      text,
		CreatedAt: s.now().UTC(),
		Author:    actor,
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}

	s.log.Info().Int64("post_id", postID).Int64("comment_id", c.ID).Str("author", actor.Username).Msg("comment added")
	return c, nil
}
