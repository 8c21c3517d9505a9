package models

import "time"

// Attachment is metadata for a file attached to a post. The bytes
// live in object storage under StorageKey.
type Attachment struct {
	ID         string
	PostID     string
	StorageKey string
	CreatedAt  time.Time
}

// UploadTask tells the client where to PUT the attachment contents.
type UploadTask struct {
	AttachmentID string
	URL          string
	ExpiresAt    time.Time
}
