package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/yatube/yatube/internal/api/metrics"
	"github.com/yatube/yatube/internal/api/middleware"
	"github.com/yatube/yatube/internal/core/domain"
	"github.com/yatube/yatube/internal/core/ports"
)

// PostHandler serves the feeds, post detail and the create/edit forms.
type PostHandler struct {
	posts ports.PostService
	log   zerolog.Logger
}

func NewPostHandler(posts ports.PostService, log zerolog.Logger) *PostHandler {
	return &PostHandler{posts: posts, log: log}
}

// --- Feeds ---

func (h *PostHandler) Index(c echo.Context) error {
	page, err := h.posts.Index(c.Request().Context(), c.QueryParam("page"))
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "posts/index.html", viewData{"page_obj": page})
}

func (h *PostHandler) GroupPosts(c echo.Context) error {
	feed, err := h.posts.GroupFeed(c.Request().Context(), c.Param("slug"), c.QueryParam("page"))
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "posts/group_list.html", viewData{
		"group":    feed.Group,
		"page_obj": feed.Page,
	})
}

func (h *PostHandler) Profile(c echo.Context) error {
	feed, err := h.posts.ProfileFeed(c.Request().Context(),
		middleware.CurrentUser(c), c.Param("username"), c.QueryParam("page"))
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "posts/profile.html", viewData{
		"author":    feed.Author,
		"count":     feed.Count,
		"following": feed.Following,
		"page_obj":  feed.Page,
	})
}

func (h *PostHandler) FollowIndex(c echo.Context) error {
	page, err := h.posts.FollowFeed(c.Request().Context(), middleware.CurrentUser(c), c.QueryParam("page"))
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "posts/follow.html", viewData{"page_obj": page})
}

// --- Detail ---

func (h *PostHandler) Detail(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	detail, err := h.posts.Detail(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "posts/post_detail.html", viewData{
		"post":     detail.Post,
		"author":   detail.Author,
		"count":    detail.Count,
		"comments": detail.Comments,
		"form":     commentForm{},
	})
}

// --- Create / edit ---

func (h *PostHandler) CreateForm(c echo.Context) error {
	return h.renderForm(c, http.StatusOK, postForm{}, nil, false)
}

func (h *PostHandler) Create(c echo.Context) error {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		return redirect(c, middleware.LoginRedirect(c.Request().URL.RequestURI()))
	}

	form, input, cleanup, err := h.readForm(c)
	defer cleanup()
	if err != nil {
		return h.formError(c, form, err, false)
	}

	post, err := h.posts.Create(c.Request().Context(), actor, input)
	if err != nil {
		return h.formError(c, form, err, false)
	}

	metrics.PostsCreatedTotal.WithLabelValues(metrics.Bool(post.GroupID != nil)).Inc()
	return redirect(c, profileURL(actor.Username))
}

// EditForm renders the prefilled form for the post's author. Anyone else,
// including anonymous visitors, is sent to the post page. Unknown posts are a
// 404 for everyone.
func (h *PostHandler) EditForm(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	post, err := h.posts.Editable(c.Request().Context(), middleware.CurrentUser(c), id)
	if errors.Is(err, domain.ErrNotAuthor) {
		return redirect(c, postURL(id))
	}
	if err != nil {
		return err
	}

	form := postForm{Text: post.Text}
	if post.GroupID != nil {
		form.Group = strconv.FormatInt(*post.GroupID, 10)
	}
	return h.renderForm(c, http.StatusOK, form, nil, true)
}

func (h *PostHandler) Edit(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	actor := middleware.CurrentUser(c)

	if _, err := h.posts.Editable(c.Request().Context(), actor, id); err != nil {
		if errors.Is(err, domain.ErrNotAuthor) {
			return redirect(c, postURL(id))
		}
		return err
	}

	form, input, cleanup, err := h.readForm(c)
	defer cleanup()
	if err != nil {
		return h.formError(c, form, err, true)
	}

	if _, err := h.posts.Update(c.Request().Context(), actor, id, input); err != nil {
		if errors.Is(err, domain.ErrNotAuthor) {
			return redirect(c, postURL(id))
		}
		return h.formError(c, form, err, true)
	}

	metrics.PostsEditedTotal.Inc()
	return redirect(c, postURL(id))
}

// readForm binds and validates the post form and opens the optional image.
// cleanup is always safe to call.
func (h *PostHandler) readForm(c echo.Context) (postForm, ports.PostInput, func(), error) {
	var (
		form    postForm
		input   ports.PostInput
		cleanup = func() {}
	)

	if err := c.Bind(&form); err != nil {
		return form, input, cleanup, echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(&form); err != nil {
		return form, input, cleanup, err
	}

	input.Text = form.Text
	if form.Group != "" {
		gid, err := strconv.ParseInt(form.Group, 10, 64)
		if err != nil {
			return form, input, cleanup, domain.NewValidationError("group",
				"Select a valid choice. That choice is not one of the available choices.")
		}
		input.GroupID = &gid
	}

	fh, err := c.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return form, input, cleanup, nil
	case err != nil:
		h.log.Debug().Err(err).Msg("read image upload")
		return form, input, cleanup, echo.NewHTTPError(http.StatusBadRequest, "invalid upload")
	}

	upload, closeFn, err := openUpload(fh)
	if err != nil {
		return form, input, cleanup, err
	}
	input.Image = upload
	return form, input, closeFn, nil
}

func openUpload(fh *multipart.FileHeader) (*ports.ImageUpload, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, echo.NewHTTPError(http.StatusBadRequest, "invalid upload")
	}
	return &ports.ImageUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
	}, func() { _ = f.Close() }, nil
}

// formError re-renders the form for validation failures and passes anything
// else on to the error handler.
func (h *PostHandler) formError(c echo.Context, form postForm, err error, isEdit bool) error {
	fields, ok := fieldErrors(err)
	if !ok {
		return err
	}
	return h.renderForm(c, http.StatusOK, form, fields, isEdit)
}

func (h *PostHandler) renderForm(c echo.Context, status int, form postForm, errs map[string]string, isEdit bool) error {
	groups, err := h.posts.Groups(c.Request().Context())
	if err != nil {
		return err
	}
	if errs == nil {
		errs = map[string]string{}
	}
	return c.Render(status, "posts/create_post.html", viewData{
		"form":    form,
		"groups":  groups,
		"errors":  errs,
		"is_edit": isEdit,
	})
}
