package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yatube/yatube/internal/core/domain"
)

func TestCommentRepository_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCommentRepository(db)

	mock.ExpectQuery(`INSERT INTO comments`).
		WithArgs(int64(1), int64(2), "nice", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(9)))

	c := &domain.Comment{PostID: 1, AuthorID: 2, Text: "nice", CreatedAt: time.Now()}
	require.NoError(t, repo.Create(context.Background(), c))
	assert.Equal(t, int64(9), c.ID)
}

func TestCommentRepository_ListByPost_OldestFirst(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCommentRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery(`(?s)FROM comments c.+WHERE c.post_id = \$1\s+ORDER BY c.created_at, c.id`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id", "author_id", "text", "created_at", "username", "first_name", "last_name"}).
			AddRow(int64(1), int64(1), int64(2), "first", now, "bob", "", "").
			AddRow(int64(2), int64(1), int64(3), "second", now.Add(time.Minute), "amy", "", ""))

	comments, err := repo.ListByPost(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Text)
	assert.Equal(t, "amy", comments[1].Author.Username)
}
