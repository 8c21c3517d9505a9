package models

import "time"

// Bucket collects questions from the audience. A moderator moves the ones
// to be discussed onto the floor; only those take answers.
type Bucket struct {
	ID        string
	Title     string
	CreatedAt time.Time
}

type Question struct {
	ID         string
	BucketID   string
	// AuthorID and AuthorName are empty for anonymous questions.
	AuthorID   string
	AuthorName string
	Text       string
	OnFloor    bool
	CreatedAt  time.Time
	Answers    []Answer
}

type Answer struct {
	ID         string
	QuestionID string
	AuthorID   string
	AuthorName string
	Text       string
	CreatedAt  time.Time
}
