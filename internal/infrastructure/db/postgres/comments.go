package postgres

import (
	"context"
	"fmt"

	"github.com/yatube/yatube/internal/core/domain"
)

type CommentRepository struct {
	db DBTX
}

func NewCommentRepository(db DBTX) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if err := r.db.QueryRowContext(ctx,
		`INSERT INTO comments (post_id, author_id, text, created_at) VALUES ($1, $2, $3, $4) RETURNING id`,
		c.PostID, c.AuthorID, c.Text, c.CreatedAt,
	).Scan(&c.ID); err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID int64) ([]*domain.Comment, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT c.id, c.post_id, c.author_id, c.text, c.created_at,
			u.username, u.first_name, u.last_name
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.post_id = $1
		ORDER BY c.created_at, c.id`, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var out []*domain.Comment
	for rows.Next() {
		var (
			c      domain.Comment
			author domain.User
		)
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Text, &c.CreatedAt,
			&author.Username, &author.FirstName, &author.LastName); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		author.ID = c.AuthorID
		c.Author = &author
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return out, nil
}
