package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/yatube/yatube/internal/core/domain"
)

type GroupRepository struct {
	db DBTX
}

func NewGroupRepository(db DBTX) *GroupRepository {
	return &GroupRepository{db: db}
}

// Create inserts a group. It backs the seeding command; the web app only
// reads groups.
func (r *GroupRepository) Create(ctx context.Context, g *domain.Group) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO groups (title, slug, description) VALUES ($1, $2, $3) RETURNING id`,
		g.Title, g.Slug, g.Description,
	).Scan(&g.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrGroupExists
		}
		return fmt.Errorf("insert group: %w", err)
	}
	return nil
}

func (r *GroupRepository) FindBySlug(ctx context.Context, slug string) (*domain.Group, error) {
	return r.findOne(ctx, `SELECT id, title, slug, description FROM groups WHERE slug = $1`, slug)
}

func (r *GroupRepository) FindByID(ctx context.Context, id int64) (*domain.Group, error) {
	return r.findOne(ctx, `SELECT id, title, slug, description FROM groups WHERE id = $1`, id)
}

func (r *GroupRepository) findOne(ctx context.Context, query string, arg any) (*domain.Group, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var g domain.Group
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(&g.ID, &g.Title, &g.Slug, &g.Description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrGroupNotFound
		}
		return nil, fmt.Errorf("find group: %w", err)
	}
	return &g, nil
}

func (r *GroupRepository) List(ctx context.Context) ([]*domain.Group, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT id, title, slug, description FROM groups ORDER BY title, id`)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	var out []*domain.Group
	for rows.Next() {
		var g domain.Group
		if err := rows.Scan(&g.ID, &g.Title, &g.Slug, &g.Description); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		out = append(out, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return out, nil
}
