package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type followDoc struct {
	UserID   int64 `bson:"user_id"`
	AuthorID int64 `bson:"author_id"`
}

type FollowRepository struct {
	col *mongo.Collection
}

func NewFollowRepository(db *mongo.Database) *FollowRepository {
	return &FollowRepository{col: db.Collection(collectionFollows)}
}

// Create upserts the pair so repeated follows leave a single document.
func (r *FollowRepository) Create(ctx context.Context, userID, authorID int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pair := bson.M{"user_id": userID, "author_id": authorID}
	_, err := r.col.UpdateOne(ctx, pair, bson.M{"$setOnInsert": pair}, options.Update().SetUpsert(true))
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("upsert follow: %w", err)
	}
	return nil
}

func (r *FollowRepository) Delete(ctx context.Context, userID, authorID int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteOne(ctx, bson.M{"user_id": userID, "author_id": authorID}); err != nil {
		return fmt.Errorf("delete follow: %w", err)
	}
	return nil
}

func (r *FollowRepository) Exists(ctx context.Context, userID, authorID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"user_id": userID, "author_id": authorID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("follow exists: %w", err)
	}
	return n > 0, nil
}
