package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yatube/yatube/internal/core/domain"
	"github.com/yatube/yatube/internal/core/ports"
)

type postDoc struct {
	ID        int64     `bson:"_id"`
	Text      string    `bson:"text"`
	CreatedAt time.Time `bson:"created_at"`
	Image     string    `bson:"image,omitempty"`
	AuthorID  int64     `bson:"author_id"`
	GroupID   *int64    `bson:"group_id"`
}

func (d postDoc) toDomain() *domain.Post {
	return &domain.Post{
		ID:        d.ID,
		Text:      d.Text,
		CreatedAt: d.CreatedAt,
		Image:     d.Image,
		AuthorID:  d.AuthorID,
		GroupID:   d.GroupID,
	}
}

// PostRepository stores posts and joins authors and groups in application code.
type PostRepository struct {
	col     *mongo.Collection
	follows *mongo.Collection
	seq     sequence
	users   *UserRepository
	groups  *GroupRepository
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{
		col:     db.Collection(collectionPosts),
		follows: db.Collection(collectionFollows),
		seq:     newSequence(db, collectionPosts),
		users:   NewUserRepository(db),
		groups:  NewGroupRepository(db),
	}
}

func (r *PostRepository) Create(ctx context.Context, p *domain.Post) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.seq.next(ctx)
	if err != nil {
		return err
	}

	doc := postDoc{
		ID:        id,
		Text:      p.Text,
		CreatedAt: p.CreatedAt.UTC(),
		Image:     p.Image,
		AuthorID:  p.AuthorID,
		GroupID:   p.GroupID,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	p.ID = id
	return nil
}

// Update leaves author_id and created_at untouched.
func (r *PostRepository) Update(ctx context.Context, p *domain.Post) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"text": p.Text, "image": p.Image, "group_id": p.GroupID}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": p.ID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (r *PostRepository) FindByID(ctx context.Context, id int64) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc postDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}

	posts, err := r.hydrate(ctx, []postDoc{doc})
	if err != nil {
		return nil, err
	}
	return posts[0], nil
}

func (r *PostRepository) List(ctx context.Context, f ports.PostFilter) ([]*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, err := r.filter(ctx, f)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit)).SetSkip(int64(f.Offset))
	}

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	var docs []postDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	return r.hydrate(ctx, docs)
}

func (r *PostRepository) Count(ctx context.Context, f ports.PostFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, err := r.filter(ctx, f)
	if err != nil {
		return 0, err
	}
	n, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}

func (r *PostRepository) filter(ctx context.Context, f ports.PostFilter) (bson.M, error) {
	filter := bson.M{}
	if f.GroupID != 0 {
		filter["group_id"] = f.GroupID
	}
	if f.AuthorID != 0 {
		filter["author_id"] = f.AuthorID
	}
	if f.FollowerID != 0 {
		ids, err := r.followedAuthors(ctx, f.FollowerID)
		if err != nil {
			return nil, err
		}
		filter["author_id"] = bson.M{"$in": ids}
	}
	return filter, nil
}

func (r *PostRepository) followedAuthors(ctx context.Context, userID int64) ([]int64, error) {
	cur, err := r.follows.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("list follows: %w", err)
	}
	var docs []followDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode follows: %w", err)
	}

	ids := make([]int64, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.AuthorID)
	}
	return ids, nil
}

// hydrate attaches authors and groups with one $in lookup each.
func (r *PostRepository) hydrate(ctx context.Context, docs []postDoc) ([]*domain.Post, error) {
	var authorIDs, groupIDs []int64
	for _, d := range docs {
		authorIDs = append(authorIDs, d.AuthorID)
		if d.GroupID != nil {
			groupIDs = append(groupIDs, *d.GroupID)
		}
	}

	authors, err := r.users.byIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	groups, err := r.groups.byIDs(ctx, groupIDs)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.Post, 0, len(docs))
	for _, d := range docs {
		p := d.toDomain()
		p.Author = authors[d.AuthorID]
		if d.GroupID != nil {
			p.Group = groups[*d.GroupID]
		}
		out = append(out, p)
	}
	return out, nil
}
