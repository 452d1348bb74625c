package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/yatube/yatube/internal/core/domain"
	"github.com/yatube/yatube/internal/core/ports"
)

func counterReply(name string, seq int64) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
		{Key: "_id", Value: name},
		{Key: "seq", Value: seq},
	}})
}

func TestUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create assigns sequential id", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(counterReply("users", 7), mtest.CreateSuccessResponse())

		u, err := repo.Create(context.Background(), &domain.User{Username: "alice", PasswordHash: "h"})
		require.NoError(mt, err)
		assert.Equal(mt, int64(7), u.ID)
		assert.Equal(mt, "alice", u.Username)
	})

	mt.Run("duplicate username", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(
			counterReply("users", 8),
			mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key error"}),
		)

		_, err := repo.Create(context.Background(), &domain.User{Username: "alice"})
		assert.ErrorIs(mt, err, domain.ErrUserExists)
	})

	mt.Run("find by username", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: int64(3)},
			{Key: "username", Value: "bob"},
			{Key: "password_hash", Value: "h"},
			{Key: "created_at", Value: time.Now().UTC()},
		}))

		u, err := repo.FindByUsername(context.Background(), "bob")
		require.NoError(mt, err)
		assert.Equal(mt, int64(3), u.ID)
	})

	mt.Run("not found", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.users", mtest.FirstBatch))

		_, err := repo.FindByID(context.Background(), 42)
		assert.ErrorIs(mt, err, domain.ErrUserNotFound)
	})
}

func TestGroupRepository_FindBySlug_NotFound(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("unknown slug", func(mt *mtest.T) {
		repo := NewGroupRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.groups", mtest.FirstBatch))

		_, err := repo.FindBySlug(context.Background(), "nope")
		assert.ErrorIs(mt, err, domain.ErrGroupNotFound)
	})
}

func TestPostRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	now := time.Now().UTC().Truncate(time.Millisecond)

	mt.Run("list hydrates authors and groups", func(mt *mtest.T) {
		repo := NewPostRepository(mt.DB)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "db.posts", mtest.FirstBatch,
				bson.D{
					{Key: "_id", Value: int64(2)}, {Key: "text", Value: "newer"}, {Key: "created_at", Value: now},
					{Key: "author_id", Value: int64(1)}, {Key: "group_id", Value: int64(5)},
				},
				bson.D{
					{Key: "_id", Value: int64(1)}, {Key: "text", Value: "older"}, {Key: "created_at", Value: now.Add(-time.Hour)},
					{Key: "author_id", Value: int64(1)}, {Key: "group_id", Value: nil},
				},
			),
			mtest.CreateCursorResponse(0, "db.users", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: int64(1)}, {Key: "username", Value: "bob"},
			}),
			mtest.CreateCursorResponse(0, "db.groups", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: int64(5)}, {Key: "title", Value: "Cats"}, {Key: "slug", Value: "cats"},
			}),
		)

		posts, err := repo.List(context.Background(), ports.PostFilter{Limit: 10})
		require.NoError(mt, err)
		require.Len(mt, posts, 2)
		assert.Equal(mt, "bob", posts[0].Author.Username)
		assert.Equal(mt, "cats", posts[0].Group.Slug)
		assert.Nil(mt, posts[1].GroupID)
	})

	mt.Run("update missing post", func(mt *mtest.T) {
		repo := NewPostRepository(mt.DB)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 0}, {Key: "nModified", Value: 0}})

		err := repo.Update(context.Background(), &domain.Post{ID: 9, Text: "x"})
		assert.ErrorIs(mt, err, domain.ErrPostNotFound)
	})

	mt.Run("find by id not found", func(mt *mtest.T) {
		repo := NewPostRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.posts", mtest.FirstBatch))

		_, err := repo.FindByID(context.Background(), 9)
		assert.ErrorIs(mt, err, domain.ErrPostNotFound)
	})
}
