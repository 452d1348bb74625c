package domain

import "errors"

var ErrSelfFollow = errors.New("cannot follow yourself")

// Follow records that UserID subscribes to posts written by AuthorID.
type Follow struct {
	ID       int64
	UserID   int64
	AuthorID int64
}
