package domain

import (
	"errors"
	"time"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrNotAuthor    = errors.New("only the author may modify this post")
)

// Post is the core aggregate root.
//
// AuthorID is fixed at creation and never rewritten by an update.
// GroupID is nil when the post belongs to no group.
type Post struct {
	ID        int64
	Text      string
	CreatedAt time.Time
	Image     string // object key under posts/, empty when no image is attached
	AuthorID  int64
	GroupID   *int64

	// Populated by repositories for display.
	Author *User
	Group  *Group
}

// IsAuthoredBy reports whether u wrote the post. Anonymous (nil) never does.
func (p *Post) IsAuthoredBy(u *User) bool {
	return u != nil && p.AuthorID == u.ID
}
