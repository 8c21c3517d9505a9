package models

import "time"

// Chat is a private conversation. Only members may read or write it and
// only the owner may add members.
type Chat struct {
	ID        string
	Name      string
	OwnerID   string
	OwnerName string
	CreatedAt time.Time
}

type Message struct {
	ID         string
	ChatID     string
	AuthorID   string
	AuthorName string
	ReplyID    string
	Content    string
	CreatedAt  time.Time
	// Reply is the message ReplyID points to, when it was loaded.
	Reply      *Message
}
