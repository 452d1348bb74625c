package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/yatube/yatube/internal/core/domain"
	"github.com/yatube/yatube/internal/core/ports"
)

const postSelect = `SELECT p.id, p.text, p.created_at, p.image, p.author_id, p.group_id,
		u.username, u.first_name, u.last_name,
		g.title, g.slug, g.description
	FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN groups g ON g.id = p.group_id`

const postOrder = ` ORDER BY p.created_at DESC, p.id DESC`

type PostRepository struct {
	db DBTX
}

func NewPostRepository(db DBTX) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, p *domain.Post) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `INSERT INTO posts (text, created_at, image, author_id, group_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	if err := r.db.QueryRowContext(ctx, query,
		p.Text, p.CreatedAt, p.Image, p.AuthorID, nullableID(p.GroupID),
	).Scan(&p.ID); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

// Update leaves author_id and created_at untouched.
func (r *PostRepository) Update(ctx context.Context, p *domain.Post) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`UPDATE posts SET text = $1, image = $2, group_id = $3 WHERE id = $4`,
		p.Text, p.Image, nullableID(p.GroupID), p.ID,
	)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if n == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (r *PostRepository) FindByID(ctx context.Context, id int64) (*domain.Post, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	p, err := scanPost(r.db.QueryRowContext(ctx, postSelect+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return p, nil
}

func (r *PostRepository) List(ctx context.Context, f ports.PostFilter) ([]*domain.Post, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	where, args := postWhere(f)
	query := postSelect + where + postOrder
	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var out []*domain.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return out, nil
}

func (r *PostRepository) Count(ctx context.Context, f ports.PostFilter) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	where, args := postWhere(f)
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts p`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}

func postWhere(f ports.PostFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.GroupID != 0 {
		args = append(args, f.GroupID)
		conds = append(conds, fmt.Sprintf("p.group_id = $%d", len(args)))
	}
	if f.AuthorID != 0 {
		args = append(args, f.AuthorID)
		conds = append(conds, fmt.Sprintf("p.author_id = $%d", len(args)))
	}
	if f.FollowerID != 0 {
		args = append(args, f.FollowerID)
		conds = append(conds, fmt.Sprintf(
			"p.author_id IN (SELECT author_id FROM follows WHERE user_id = $%d)", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*domain.Post, error) {
	var (
		p         domain.Post
		author    domain.User
		groupID   sql.NullInt64
		title     sql.NullString
		slug      sql.NullString
		groupDesc sql.NullString
	)
	err := row.Scan(
		&p.ID, &p.Text, &p.CreatedAt, &p.Image, &p.AuthorID, &groupID,
		&author.Username, &author.FirstName, &author.LastName,
		&title, &slug, &groupDesc,
	)
	if err != nil {
		return nil, err
	}

	author.ID = p.AuthorID
	p.Author = &author
	if groupID.Valid {
		id := groupID.Int64
		p.GroupID = &id
		p.Group = &domain.Group{ID: id, Title: title.String, Slug: slug.String, Description: groupDesc.String}
	}
	return &p, nil
}

func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}
