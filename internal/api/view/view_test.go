package view

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yatube/yatube/internal/api/middleware"
	"github.com/yatube/yatube/internal/core/domain"
)

func newContext(target string) echo.Context {
	e := echo.New()
	return e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
}

func samplePage() *domain.PostPage {
	author := &domain.User{ID: 1, Username: "leo", FirstName: "Leo", LastName: "Tolstoy"}
	group := &domain.Group{ID: 2, Title: "Novels", Slug: "novels"}
	gid := group.ID
	return &domain.PostPage{
		Pagination: domain.Paginate(12, 10, "1"),
		Posts: []*domain.Post{
			{ID: 7, Text: "All happy families\nare alike", CreatedAt: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
				AuthorID: 1, Author: author, GroupID: &gid, Group: group, Image: "posts/a.png"},
		},
	}
}

func TestNew_ParsesEveryPage(t *testing.T) {
	r, err := New(nil)
	require.NoError(t, err)

	for _, name := range []string{
		"posts/index.html", "posts/group_list.html", "posts/profile.html", "posts/post_detail.html",
		"posts/create_post.html", "posts/follow.html", "users/login.html", "users/signup.html",
		"users/logged_out.html", "about/author.html", "about/tech.html", "core/404.html", "core/500.html",
	} {
		assert.True(t, r.Has(name), "missing %s", name)
	}
	assert.False(t, r.Has("base.html"))
	assert.False(t, r.Has("includes/post_card.html"))
}

func TestRender_Index(t *testing.T) {
	r, err := New(func(key string) string { return "https://cdn.example.com/" + key })
	require.NoError(t, err)

	var buf bytes.Buffer
	err = r.Render(&buf, "posts/index.html", map[string]any{"page_obj": samplePage()}, newContext("/"))
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "All happy families<br>are alike")
	assert.Contains(t, html, `href="/profile/leo/"`)
	assert.Contains(t, html, "Leo Tolstoy")
	assert.Contains(t, html, `href="/group/novels/"`)
	assert.Contains(t, html, "https://cdn.example.com/posts/a.png")
	assert.Contains(t, html, `href="?page=2"`)
	assert.Contains(t, html, "Log in")
}

func TestRender_GroupPageHidesGroupLink(t *testing.T) {
	r, err := New(nil)
	require.NoError(t, err)

	page := samplePage()
	var buf bytes.Buffer
	err = r.Render(&buf, "posts/group_list.html", map[string]any{
		"page_obj": page,
		"group":    page.Posts[0].Group,
	}, newContext("/group/novels/"))
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "all posts of the group")
}

func TestRender_DetailShowsEditLinkToAuthorOnly(t *testing.T) {
	r, err := New(nil)
	require.NoError(t, err)
	post := samplePage().Posts[0]
	data := map[string]any{"post": post, "author": post.Author, "count": int64(1), "comments": []*domain.Comment{}}

	anon := newContext("/posts/7/")
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, "posts/post_detail.html", data, anon))
	assert.NotContains(t, buf.String(), "/posts/7/edit/")

	owner := newContext("/posts/7/")
	middleware.SetCurrentUser(owner, post.Author)
	buf.Reset()
	require.NoError(t, r.Render(&buf, "posts/post_detail.html", data, owner))
	assert.Contains(t, buf.String(), "/posts/7/edit/")
}

func TestRender_FormWithErrors(t *testing.T) {
	r, err := New(nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	err = r.Render(&buf, "posts/create_post.html", map[string]any{
		"form":   struct{ Text, Group string }{Text: "draft", Group: "2"},
		"groups": []*domain.Group{{ID: 2, Title: "Novels", Slug: "novels"}},
		"errors": map[string]string{"text": "This field is required."},
	}, newContext("/create/"))
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "This field is required.")
	assert.Contains(t, html, `<option value="2" selected>Novels</option>`)
	assert.Contains(t, html, ">draft</textarea>")
}

func TestRender_UnknownTemplate(t *testing.T) {
	r, err := New(nil)
	require.NoError(t, err)

	err = r.Render(&bytes.Buffer{}, "posts/missing.html", nil, newContext("/"))
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate(30, "short"))
	got := truncate(5, "abcdefgh")
	assert.Equal(t, 5, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "…"))
}
