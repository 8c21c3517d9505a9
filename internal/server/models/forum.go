package models

import "time"

type Forum struct {
	ID          string
	Title       string
	Description string
}

// Thread belongs to a forum. A locked thread accepts no new posts;
// an archived thread is hidden from listings.
type Thread struct {
	ID         string
	ForumID    string
	AuthorID   string
	AuthorName string
	Title      string
	Locked     bool
	Archived   bool
	CreatedAt  time.Time
}

type Post struct {
	ID         string
	ThreadID   string
	AuthorID   string
	AuthorName string
	// ParentID is empty for top-level posts.
	ParentID   string
	Content    string
	Censored   bool
	CreatedAt  time.Time
	ModifiedAt *time.Time
}
