package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/yatube/yatube/internal/core/domain"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "sessionid"

const identityKey = "identity"

// Authenticator resolves a session token to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// Session resolves the session cookie into the current identity. Requests
// with a missing, invalid, expired or revoked token continue anonymously.
func Session(auth Authenticator, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			user, err := auth.Authenticate(c.Request().Context(), cookie.Value)
			switch {
			case err == nil:
				SetCurrentUser(c, user)
			case errors.Is(err, domain.ErrUnauthenticated):
				c.SetCookie(&http.Cookie{Name: SessionCookie, Path: "/", MaxAge: -1, HttpOnly: true})
			default:
				log.Warn().Err(err).Msg("session lookup failed")
			}
			return next(c)
		}
	}
}

// CurrentUser returns the identity attached by Session, or nil when anonymous.
func CurrentUser(c echo.Context) *domain.User {
	u, _ := c.Get(identityKey).(*domain.User)
	return u
}

func SetCurrentUser(c echo.Context, u *domain.User) {
	c.Set(identityKey, u)
}
