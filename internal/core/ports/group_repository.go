package ports

import (
	"context"

	"github.com/yatube/yatube/internal/core/domain"
)

// GroupRepository defines read access to communities.
type GroupRepository interface {
	FindBySlug(ctx context.Context, slug string) (*domain.Group, error)
	FindByID(ctx context.Context, id int64) (*domain.Group, error)
	// List returns every group ordered by title, for the post form's select box.
	List(ctx context.Context) ([]*domain.Group, error)
}
