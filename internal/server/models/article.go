package models

import "time"

// Article is a long-form text by one author. Drafts are visible only to
// their author and to moderators until published.
type Article struct {
	ID          string
	AuthorID    string
	AuthorName  string
	Title       string
	Body        string
	Published   bool
	CreatedAt   time.Time
	PublishedAt *time.Time
}
