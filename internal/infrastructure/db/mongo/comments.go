package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yatube/yatube/internal/core/domain"
)

type commentDoc struct {
	ID        int64     `bson:"_id"`
	PostID    int64     `bson:"post_id"`
	AuthorID  int64     `bson:"author_id"`
	Text      string    `bson:"text"`
	CreatedAt time.Time `bson:"created_at"`
}

type CommentRepository struct {
	col   *mongo.Collection
	seq   sequence
	users *UserRepository
}

func NewCommentRepository(db *mongo.Database) *CommentRepository {
	return &CommentRepository{
		col:   db.Collection(collectionComments),
		seq:   newSequence(db, collectionComments),
		users: NewUserRepository(db),
	}
}

func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.seq.next(ctx)
	if err != nil {
		return err
	}
	doc := commentDoc{ID: id, PostID: c.PostID, AuthorID: c.AuthorID, Text: c.Text, CreatedAt: c.CreatedAt.UTC()}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	c.ID = id
	return nil
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID int64) ([]*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"post_id": postID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	var docs []commentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}

	ids := make([]int64, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.AuthorID)
	}
	authors, err := r.users.byIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.Comment, 0, len(docs))
	for _, d := range docs {
		out = append(out, &domain.Comment{
			ID:        d.ID,
			PostID:    d.PostID,
			AuthorID:  d.AuthorID,
			Text:      d.Text,
			CreatedAt: d.CreatedAt,
			Author:    authors[d.AuthorID],
		})
	}
	return out, nil
}
