package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/yatube/yatube/internal/core/domain"
)

type stubAuthenticator struct {
	users map[string]*domain.User
	err   error
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[token]
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return u, nil
}

func runSession(t *testing.T, auth Authenticator, cookie *http.Cookie) (*domain.User, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen *domain.User
	called := false
	h := Session(auth, zerolog.Nop())(func(c echo.Context) error {
		called = true
		seen = CurrentUser(c)
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	return seen, rec
}

func TestSession_ValidCookie(t *testing.T) {
	auth := &stubAuthenticator{users: map[string]*domain.User{"good": {ID: 1, Username: "alice"}}}

	user, _ := runSession(t, auth, &http.Cookie{Name: SessionCookie, Value: "good"})
	if user == nil || user.Username != "alice" {
		t.Fatalf("expected alice, got %+v", user)
	}
}

func TestSession_NoCookieIsAnonymous(t *testing.T) {
	user, _ := runSession(t, &stubAuthenticator{}, nil)
	if user != nil {
		t.Fatalf("expected anonymous, got %+v", user)
	}
}

func TestSession_InvalidCookieIsAnonymousAndCleared(t *testing.T) {
	user, rec := runSession(t, &stubAuthenticator{}, &http.Cookie{Name: SessionCookie, Value: "forged"})
	if user != nil {
		t.Fatalf("expected anonymous, got %+v", user)
	}
	if got := rec.Header().Get("Set-Cookie"); got == "" {
		t.Fatalf("expected cookie to be cleared")
	}
}

func TestSession_BackendErrorIsAnonymous(t *testing.T) {
	user, rec := runSession(t, &stubAuthenticator{err: errors.New("boom")}, &http.Cookie{Name: SessionCookie, Value: "x"})
	if user != nil {
		t.Fatalf("expected anonymous, got %+v", user)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected request to proceed, got %d", rec.Code)
	}
}
