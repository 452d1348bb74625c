package ports

import "context"

// FollowRepository stores author subscriptions.
type FollowRepository interface {
	// Create is idempotent: following an already followed author is not an error.
	Create(ctx context.Context, userID, authorID int64) error
	// Delete is idempotent: removing a missing subscription is not an error.
	Delete(ctx context.Context, userID, authorID int64) error
	Exists(ctx context.Context, userID, authorID int64) (bool, error)
}
