package ports

import (
	"context"

	"github.com/yatube/yatube/internal/core/domain"
)

// RegisterInput carries the signup form.
type RegisterInput struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	// Login verifies credentials and returns a signed session token.
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	// IssueToken signs a session token for an already verified user.
	IssueToken(user *domain.User) (string, error)
	// Authenticate resolves a session token to its stored user. Invalid,
	// expired and revoked tokens, and tokens of deleted or renamed accounts,
	// yield domain.ErrUnauthenticated.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	// Logout revokes the token for the remainder of its lifetime.
	Logout(ctx context.Context, token string) error
}
