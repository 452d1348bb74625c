package ports

import (
	"context"
	"time"
)

// TokenRevoker remembers session token IDs that were logged out before
// their natural expiry.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
