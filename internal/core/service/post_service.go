package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yatube/yatube/internal/core/domain"
	"github.com/yatube/yatube/internal/core/ports"
)

// DefaultMaxImageBytes caps uploaded post images when no limit is configured.
const DefaultMaxImageBytes = 5 << 20

const imagePrefix = "posts/"

// PostOptions tunes PostService. Zero values select defaults.
type PostOptions struct {
	PageSize      int
	MaxImageBytes int64
}

// PostService implements feeds, post detail and the create/edit use-cases.
type PostService struct {
	posts    ports.PostRepository
	groups   ports.GroupRepository
	users    ports.UserRepository
	comments ports.CommentRepository
	follows  ports.FollowRepository
	images   ports.ImageStore
	opts     PostOptions
	log      zerolog.Logger
	now      func() time.Time
}

func NewPostService(
	posts ports.PostRepository,
	groups ports.GroupRepository,
	users ports.UserRepository,
	comments ports.CommentRepository,
	follows ports.FollowRepository,
	images ports.ImageStore,
	opts PostOptions,
	log zerolog.Logger,
) *PostService {
	if opts.PageSize <= 0 {
		opts.PageSize = domain.DefaultPageSize
	}
	if opts.MaxImageBytes <= 0 {
		opts.MaxImageBytes = DefaultMaxImageBytes
	}
	return &PostService{
		posts:    posts,
		groups:   groups,
		users:    users,
		comments: comments,
		follows:  follows,
		images:   images,
		opts:     opts,
		log:      log,
		now:      time.Now,
	}
}

// --- Feeds ---

func (s *PostService) Index(ctx context.Context, page string) (*domain.PostPage, error) {
	return s.feed(ctx, ports.PostFilter{}, page)
}

func (s *PostService) GroupFeed(ctx context.Context, slug, page string) (*ports.GroupFeed, error) {
	group, err := s.groups.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	p, err := s.feed(ctx, ports.PostFilter{GroupID: group.ID}, page)
	if err != nil {
		return nil, err
	}
	return &ports.GroupFeed{Group: group, Page: p}, nil
}

func (s *PostService) ProfileFeed(ctx context.Context, actor *domain.User, username, page string) (*ports.ProfileFeed, error) {
	author, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	p, err := s.feed(ctx, ports.PostFilter{AuthorID: author.ID}, page)
	if err != nil {
		return nil, err
	}

	following := false
	if actor != nil && !actor.Is(author) {
		following, err = s.follows.Exists(ctx, actor.ID, author.ID)
		if err != nil {
			return nil, fmt.Errorf("profile feed: follow lookup: %w", err)
		}
	}

	return &ports.ProfileFeed{
		Author:    author,
		Count:     p.Total,
		Following: following,
		Page:      p,
	}, nil
}

func (s *PostService) FollowFeed(ctx context.Context, actor *domain.User, page string) (*domain.PostPage, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	return s.feed(ctx, ports.PostFilter{FollowerID: actor.ID}, page)
}

// feed counts the filtered collection, resolves the requested page and loads
// only that window.
func (s *PostService) feed(ctx context.Context, filter ports.PostFilter, page string) (*domain.PostPage, error) {
	total, err := s.posts.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("feed: count posts: %w", err)
	}

	pg := domain.Paginate(total, s.opts.PageSize, page)
	out := &domain.PostPage{Pagination: pg}
	if total == 0 {
		return out, nil
	}

	filter.Limit = pg.Size
	filter.Offset = pg.Offset()
	out.Posts, err = s.posts.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("feed: list posts: %w", err)
	}
	return out, nil
}

// --- Detail ---

func (s *PostService) Detail(ctx context.Context, id int64) (*ports.PostDetail, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	author := post.Author
	if author == nil {
		if author, err = s.users.FindByID(ctx, post.AuthorID); err != nil {
			return nil, fmt.Errorf("post detail: load author: %w", err)
		}
		post.Author = author
	}

	count, err := s.posts.Count(ctx, ports.PostFilter{AuthorID: post.AuthorID})
	if err != nil {
		return nil, fmt.Errorf("post detail: count author posts: %w", err)
	}

	comments, err := s.comments.ListByPost(ctx, post.ID)
	if err != nil {
		return nil, fmt.Errorf("post detail: list comments: %w", err)
	}

	return &ports.PostDetail{Post: post, Author: author, Count: count, Comments: comments}, nil
}

func (s *PostService) Groups(ctx context.Context) ([]*domain.Group, error) {
	return s.groups.List(ctx)
}

// --- Create / edit ---

// Create persists a new post authored by actor. Nothing is written when the
// input fails validation.
func (s *PostService) Create(ctx context.Context, actor *domain.User, in ports.PostInput) (*domain.Post, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}

	post := &domain.Post{AuthorID: actor.ID, CreatedAt: s.now().UTC()}
	if err := s.apply(ctx, post, in); err != nil {
		return nil, err
	}

	if err := s.posts.Create(ctx, post); err != nil {
		s.log.Error().Err(err).Int64("author_id", actor.ID).Msg("failed to create post")
		return nil, fmt.Errorf("create post: %w", err)
	}
	post.Author = actor

	s.log.Info().Int64("post_id", post.ID).Str("author", actor.Username).Msg("post created")
	return post, nil
}

func (s *PostService) Editable(ctx context.Context, actor *domain.User, id int64) (*domain.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !post.IsAuthoredBy(actor) {
		return nil, domain.ErrNotAuthor
	}
	return post, nil
}

// Update rewrites an existing post. Only its author may do so; the row keeps
// its ID, author and creation time.
func (s *PostService) Update(ctx context.Context, actor *domain.User, id int64, in ports.PostInput) (*domain.Post, error) {
	post, err := s.Editable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if err := s.apply(ctx, post, in); err != nil {
		return nil, err
	}

	if err := s.posts.Update(ctx, post); err != nil {
		s.log.Error().Err(err).Int64("post_id", id).Msg("failed to update post")
		return nil, fmt.Errorf("update post: %w", err)
	}

	s.log.Info().Int64("post_id", post.ID).Str("author", actor.Username).Msg("post updated")
	return post, nil
}

// apply validates the form against the store and copies it onto post. The
// image is uploaded only after every other field has validated.
func (s *PostService) apply(ctx context.Context, post *domain.Post, in ports.PostInput) error {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return domain.NewValidationError("text", "This field is required.")
	}

	var group *domain.Group
	if in.GroupID != nil {
		g, err := s.groups.FindByID(ctx, *in.GroupID)
		if err != nil {
			if errors.Is(err, domain.ErrGroupNotFound) {
				return domain.NewValidationError("group", "Select a valid choice. That choice is not one of the available choices.")
			}
			return fmt.Errorf("lookup group: %w", err)
		}
		group = g
	}

	var imageKey string
	if in.Image != nil {
		format, err := s.checkImage(in.Image)
		if err != nil {
			return err
		}
		imageKey, err = s.storeImage(ctx, in.Image, format)
		if err != nil {
			return err
		}
	}

	post.Text = text
	post.Group = group
	post.GroupID = nil
	if group != nil {
		id := group.ID
		post.GroupID = &id
	}
	if imageKey != "" {
		post.Image = imageKey
	}
	return nil
}

// checkImage confirms the upload is a decodable image within the size limit
// and returns its format name.
func (s *PostService) checkImage(img *ports.ImageUpload) (string, error) {
	if img.Size > s.opts.MaxImageBytes {
		return "", domain.NewValidationError("image",
			fmt.Sprintf("Ensure this file is no larger than %d bytes.", s.opts.MaxImageBytes))
	}

	_, format, err := image.DecodeConfig(img.Body)
	if err != nil {
		return "", domain.NewValidationError("image",
			"Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
	}
	if _, err := img.Body.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind image: %w", err)
	}
	return format, nil
}

func (s *PostService) storeImage(ctx context.Context, img *ports.ImageUpload, format string) (string, error) {
	if s.images == nil {
		return "", domain.NewValidationError("image", "Image uploads are disabled.")
	}

	ext := path.Ext(img.Filename)
	if ext == "" {
		ext = "." + format
	}
	key := imagePrefix + uuid.NewString() + strings.ToLower(ext)

	contentType := img.ContentType
	if contentType == "" {
		contentType = "image/" + format
	}

	if err := s.images.Put(ctx, key, img.Body, img.Size, contentType); err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return key, nil
}
