package rest

import (
	"context"

	"github.com/dmitrijs2005/weekend/internal/server/auth"
	"github.com/dmitrijs2005/weekend/internal/server/models"
)

type UserService interface {
	Register(ctx context.Context, userName, displayName, password string) (*models.User, error)
	Login(ctx context.Context, userName, password string) (string, error)
	Logout(ctx context.Context, id *auth.Identity) error
	GetByName(ctx context.Context, userName string) (*models.User, error)
	SetRoles(ctx context.Context, admin *auth.Identity, userName string, roles []auth.Role) error
	Ban(ctx context.Context, moderator *auth.Identity, userName string) error
	Unban(ctx context.Context, moderator *auth.Identity, userName string) error
}

type ForumService interface {
	Create(ctx context.Context, title, description string) (*models.Forum, error)
	List(ctx context.Context) ([]models.Forum, error)
	Get(ctx context.Context, id string) (*models.Forum, error)
}

type ThreadService interface {
	CreateWithPost(ctx context.Context, id *auth.Identity, forumID, title, content string) (*models.Thread, *models.Post, error)
	ListByForum(ctx context.Context, forumID string) ([]models.Thread, error)
	Get(ctx context.Context, threadID string) (*models.Thread, error)
	Lock(ctx context.Context, moderator *auth.Identity, threadID string) (*models.Thread, error)
	Unlock(ctx context.Context, moderator *auth.Identity, threadID string) (*models.Thread, error)
	Archive(ctx context.Context, moderator *auth.Identity, threadID string) (*models.Thread, error)
}

type PostService interface {
	Create(ctx context.Context, id *auth.Identity, threadID, parentID, content string) (*models.Post, error)
	Edit(ctx context.Context, id *auth.Identity, postID, content string) (*models.Post, error)
	Censor(ctx context.Context, moderator *auth.Identity, postID string) (*models.Post, error)
	ListByThread(ctx context.Context, threadID string) ([]models.Post, error)
	ListByUser(ctx context.Context, userName string) ([]models.Post, error)
}

type AttachmentService interface {
	PresignUpload(ctx context.Context, id *auth.Identity, postID string) (*models.UploadTask, error)
	PresignDownload(ctx context.Context, attachmentID string) (string, error)
	ListByPost(ctx context.Context, postID string) ([]models.Attachment, error)
}

type ArticleService interface {
	Create(ctx context.Context, id *auth.Identity, title, body string) (*models.Article, error)
	Get(ctx context.Context, viewer *auth.Identity, articleID string) (*models.Article, error)
	ListPublished(ctx context.Context) ([]models.Article, error)
	Publish(ctx context.Context, id *auth.Identity, articleID string) (*models.Article, error)
	Delete(ctx context.Context, id *auth.Identity, articleID string) error
}

type QuestionService interface {
	CreateBucket(ctx context.Context, moderator *auth.Identity, title string) (*models.Bucket, error)
	ListBuckets(ctx context.Context) ([]models.Bucket, error)
	GetBucket(ctx context.Context, bucketID string) (*models.Bucket, error)
	Ask(ctx context.Context, id *auth.Identity, bucketID, text string, anonymous bool) (*models.Question, error)
	ListQuestions(ctx context.Context, bucketID string, onFloorOnly bool) ([]models.Question, error)
	PutOnFloor(ctx context.Context, moderator *auth.Identity, questionID string) (*models.Question, error)
	TakeOffFloor(ctx context.Context, moderator *auth.Identity, questionID string) (*models.Question, error)
	Answer(ctx context.Context, id *auth.Identity, questionID, text string) (*models.Answer, error)
	DeleteQuestion(ctx context.Context, id *auth.Identity, questionID string) error
}

type ChatService interface {
	Create(ctx context.Context, id *auth.Identity, name string, members []string) (*models.Chat, error)
	ListMine(ctx context.Context, id *auth.Identity) ([]models.Chat, error)
	AddMember(ctx context.Context, id *auth.Identity, chatID, userName string) error
	Send(ctx context.Context, id *auth.Identity, chatID, replyID, content string) (*models.Message, error)
	Messages(ctx context.Context, id *auth.Identity, chatID string) ([]models.Message, error)
}
