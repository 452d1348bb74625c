package domain

import "time"

// Comment is a reply left under a post.
type Comment struct {
	ID        int64
	PostID    int64
	AuthorID  int64
	Text      string
	CreatedAt time.Time

	Author *User
}
