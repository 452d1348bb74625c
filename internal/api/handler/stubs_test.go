package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/yatube/yatube/internal/api/middleware"
	"github.com/yatube/yatube/internal/core/domain"
	"github.com/yatube/yatube/internal/core/ports"
)

// recordingRenderer remembers the last template and context it was asked
// to render and writes the template name as the body.
type recordingRenderer struct {
	name string
	data map[string]any
}

func (r *recordingRenderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	r.name = name
	r.data, _ = data.(map[string]any)
	_, err := io.WriteString(w, name)
	return err
}

type testRequest struct {
	method      string
	target      string
	body        io.Reader
	contentType string
	user        *domain.User
	params      map[string]string
}

func newTestContext(t *testing.T, tr testRequest) (echo.Context, *httptest.ResponseRecorder, *recordingRenderer) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	rr := &recordingRenderer{}
	e.Renderer = rr

	req := httptest.NewRequest(tr.method, tr.target, tr.body)
	if tr.contentType != "" {
		req.Header.Set(echo.HeaderContentType, tr.contentType)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	names := make([]string, 0, len(tr.params))
	values := make([]string, 0, len(tr.params))
	for k, v := range tr.params {
		names = append(names, k)
		values = append(values, v)
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)

	if tr.user != nil {
		middleware.SetCurrentUser(c, tr.user)
	}
	return c, rec, rr
}

// --- Post service ---

type stubPostService struct {
	indexFn    func(ctx context.Context, page string) (*domain.PostPage, error)
	groupFn    func(ctx context.Context, slug, page string) (*ports.GroupFeed, error)
	profileFn  func(ctx context.Context, actor *domain.User, username, page string) (*ports.ProfileFeed, error)
	followFn   func(ctx context.Context, actor *domain.User, page string) (*domain.PostPage, error)
	detailFn   func(ctx context.Context, id int64) (*ports.PostDetail, error)
	createFn   func(ctx context.Context, actor *domain.User, in ports.PostInput) (*domain.Post, error)
	editableFn func(ctx context.Context, actor *domain.User, id int64) (*domain.Post, error)
	updateFn   func(ctx context.Context, actor *domain.User, id int64, in ports.PostInput) (*domain.Post, error)
	groups     []*domain.Group
}

func (s *stubPostService) Index(ctx context.Context, page string) (*domain.PostPage, error) {
	return s.indexFn(ctx, page)
}

func (s *stubPostService) GroupFeed(ctx context.Context, slug, page string) (*ports.GroupFeed, error) {
	return s.groupFn(ctx, slug, page)
}

func (s *stubPostService) ProfileFeed(ctx context.Context, actor *domain.User, username, page string) (*ports.ProfileFeed, error) {
	return s.profileFn(ctx, actor, username, page)
}

func (s *stubPostService) FollowFeed(ctx context.Context, actor *domain.User, page string) (*domain.PostPage, error) {
	return s.followFn(ctx, actor, page)
}

func (s *stubPostService) Detail(ctx context.Context, id int64) (*ports.PostDetail, error) {
	return s.detailFn(ctx, id)
}

func (s *stubPostService) Groups(context.Context) ([]*domain.Group, error) {
	return s.groups, nil
}

func (s *stubPostService) Create(ctx context.Context, actor *domain.User, in ports.PostInput) (*domain.Post, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubPostService) Editable(ctx context.Context, actor *domain.User, id int64) (*domain.Post, error) {
	return s.editableFn(ctx, actor, id)
}

func (s *stubPostService) Update(ctx context.Context, actor *domain.User, id int64, in ports.PostInput) (*domain.Post, error) {
	return s.updateFn(ctx, actor, id, in)
}

// --- Comment, follow and auth services ---

type stubCommentService struct {
	addFn func(ctx context.Context, actor *domain.User, postID int64, text string) (*domain.Comment, error)
}

func (s *stubCommentService) Add(ctx context.Context, actor *domain.User, postID int64, text string) (*domain.Comment, error) {
	return s.addFn(ctx, actor, postID, text)
}

type stubFollowService struct {
	followErr   error
	unfollowErr error
	calls       []string
}

func (s *stubFollowService) Follow(_ context.Context, actor *domain.User, username string) error {
	s.calls = append(s.calls, "follow:"+actor.Username+"->"+username)
	return s.followErr
}

func (s *stubFollowService) Unfollow(_ context.Context, actor *domain.User, username string) error {
	s.calls = append(s.calls, "unfollow:"+actor.Username+"->"+username)
	return s.unfollowErr
}

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, username, password string) (string, *domain.User, error)
	loggedOut  []string
	logoutErr  error
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) IssueToken(user *domain.User) (string, error) {
	return "token-" + user.Username, nil
}

func (s *stubAuthService) Authenticate(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUnauthenticated
}

func (s *stubAuthService) Logout(_ context.Context, token string) error {
	s.loggedOut = append(s.loggedOut, token)
	return s.logoutErr
}
