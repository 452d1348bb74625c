package service

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/yatube/yatube/internal/core/domain"
	"github.com/yatube/yatube/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byID      map[int64]*domain.User
	nextID    int64
	createErr error
	findErr   error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[int64]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, u := range r.byID {
		if u.Username == user.Username {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	stored := cloneUser(user)
	stored.ID = r.nextID
	r.byID[stored.ID] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) add(username string) *domain.User {
	u, _ := r.Create(context.Background(), &domain.User{Username: username})
	return u
}

type stubGroupRepo struct {
	groups []*domain.Group
}

func (r *stubGroupRepo) add(title, slug string) *domain.Group {
	g := &domain.Group{ID: int64(len(r.groups) + 1), Title: title, Slug: slug}
	r.groups = append(r.groups, g)
	return g
}

func (r *stubGroupRepo) FindBySlug(_ context.Context, slug string) (*domain.Group, error) {
	for _, g := range r.groups {
		if g.Slug == slug {
			return g, nil
		}
	}
	return nil, domain.ErrGroupNotFound
}

func (r *stubGroupRepo) FindByID(_ context.Context, id int64) (*domain.Group, error) {
	for _, g := range r.groups {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, domain.ErrGroupNotFound
}

func (r *stubGroupRepo) List(_ context.Context) ([]*domain.Group, error) {
	return r.groups, nil
}

type stubFollowRepo struct {
	pairs map[[2]int64]bool
}

func newStubFollowRepo() *stubFollowRepo {
	return &stubFollowRepo{pairs: make(map[[2]int64]bool)}
}

func (r *stubFollowRepo) Create(_ context.Context, userID, authorID int64) error {
	r.pairs[[2]int64{userID, authorID}] = true
	return nil
}

func (r *stubFollowRepo) Delete(_ context.Context, userID, authorID int64) error {
	delete(r.pairs, [2]int64{userID, authorID})
	return nil
}

func (r *stubFollowRepo) Exists(_ context.Context, userID, authorID int64) (bool, error) {
	return r.pairs[[2]int64{userID, authorID}], nil
}

// stubPostRepo mirrors the SQL repository: newest first, joins author/group.
type stubPostRepo struct {
	posts     map[int64]*domain.Post
	nextID    int64
	users     *stubUserRepo
	groups    *stubGroupRepo
	follows   *stubFollowRepo
	createErr error
	updates   int
}

func newStubPostRepo(users *stubUserRepo, groups *stubGroupRepo, follows *stubFollowRepo) *stubPostRepo {
	return &stubPostRepo{
		posts:   make(map[int64]*domain.Post),
		users:   users,
		groups:  groups,
		follows: follows,
	}
}

func clonePost(p *domain.Post) *domain.Post {
	clone := *p
	if p.GroupID != nil {
		id := *p.GroupID
		clone.GroupID = &id
	}
	clone.Author = nil
	clone.Group = nil
	return &clone
}

func (r *stubPostRepo) hydrate(p *domain.Post) *domain.Post {
	out := clonePost(p)
	out.Author, _ = r.users.FindByID(context.Background(), p.AuthorID)
	if p.GroupID != nil {
		out.Group, _ = r.groups.FindByID(context.Background(), *p.GroupID)
	}
	return out
}

func (r *stubPostRepo) Create(_ context.Context, p *domain.Post) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	p.ID = r.nextID
	r.posts[p.ID] = clonePost(p)
	return nil
}

func (r *stubPostRepo) Update(_ context.Context, p *domain.Post) error {
	stored, ok := r.posts[p.ID]
	if !ok {
		return domain.ErrPostNotFound
	}
	next := clonePost(p)
	next.AuthorID = stored.AuthorID
	next.CreatedAt = stored.CreatedAt
	r.posts[p.ID] = next
	r.updates++
	return nil
}

func (r *stubPostRepo) FindByID(_ context.Context, id int64) (*domain.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return r.hydrate(p), nil
}

func (r *stubPostRepo) matching(f ports.PostFilter) []*domain.Post {
	var out []*domain.Post
	for _, p := range r.posts {
		if f.GroupID != 0 && (p.GroupID == nil || *p.GroupID != f.GroupID) {
			continue
		}
		if f.AuthorID != 0 && p.AuthorID != f.AuthorID {
			continue
		}
		if f.FollowerID != 0 && !r.follows.pairs[[2]int64{f.FollowerID, p.AuthorID}] {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r *stubPostRepo) List(_ context.Context, f ports.PostFilter) ([]*domain.Post, error) {
	matched := r.matching(f)
	if f.Offset > len(matched) {
		return nil, nil
	}
	end := len(matched)
	if f.Limit > 0 && f.Offset+f.Limit < end {
		end = f.Offset + f.Limit
	}
	out := make([]*domain.Post, 0, end-f.Offset)
	for _, p := range matched[f.Offset:end] {
		out = append(out, r.hydrate(p))
	}
	return out, nil
}

func (r *stubPostRepo) Count(_ context.Context, f ports.PostFilter) (int64, error) {
	return int64(len(r.matching(f))), nil
}

type stubCommentRepo struct {
	comments []*domain.Comment
}

func (r *stubCommentRepo) Create(_ context.Context, c *domain.Comment) error {
	c.ID = int64(len(r.comments) + 1)
	clone := *c
	r.comments = append(r.comments, &clone)
	return nil
}

func (r *stubCommentRepo) ListByPost(_ context.Context, postID int64) ([]*domain.Comment, error) {
	var out []*domain.Comment
	for _, c := range r.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

type stubImageStore struct {
	objects map[string][]byte
	putErr  error
}

func newStubImageStore() *stubImageStore {
	return &stubImageStore{objects: make(map[string][]byte)}
}

func (s *stubImageStore) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	if s.putErr != nil {
		return s.putErr
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return err
	}
	s.objects[key] = buf.Bytes()
	return nil
}

func (s *stubImageStore) URL(key string) string { return "/media/" + key }

type stubRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
	err     error
}

func newStubRevoker() *stubRevoker {
	return &stubRevoker{revoked: make(map[string]time.Duration)}
}

func (r *stubRevoker) Revoke(_ context.Context, id string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[id] = ttl
	return nil
}

func (r *stubRevoker) IsRevoked(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	_, ok := r.revoked[id]
	return ok, nil
}

// ---------------------------------------------------------------------------
// Fixture
// ---------------------------------------------------------------------------

type fixture struct {
	users    *stubUserRepo
	groups   *stubGroupRepo
	follows  *stubFollowRepo
	posts    *stubPostRepo
	comments *stubCommentRepo
	images   *stubImageStore
	svc      *PostService
	clock    time.Time
}

func newFixture() *fixture {
	f := &fixture{
		users:    newStubUserRepo(),
		groups:   &stubGroupRepo{},
		follows:  newStubFollowRepo(),
		comments: &stubCommentRepo{},
		images:   newStubImageStore(),
		clock:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.posts = newStubPostRepo(f.users, f.groups, f.follows)
	f.svc = NewPostService(f.posts, f.groups, f.users, f.comments, f.follows, f.images, PostOptions{}, discardLogger)
	f.svc.now = f.tick
	return f
}

// tick advances a fake clock so consecutive posts get distinct timestamps.
func (f *fixture) tick() time.Time {
	f.clock = f.clock.Add(time.Minute)
	return f.clock
}

func (f *fixture) mustCreate(author *domain.User, text string, group *domain.Group) *domain.Post {
	in := ports.PostInput{Text: text}
	if group != nil {
		id := group.ID
		in.GroupID = &id
	}
	p, err := f.svc.Create(context.Background(), author, in)
	if err != nil {
		panic(err)
	}
	return p
}
