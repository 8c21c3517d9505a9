package rest

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/weekend/internal/common"
	"github.com/dmitrijs2005/weekend/internal/server/auth"
	"github.com/dmitrijs2005/weekend/internal/server/models"
)

var errBoom = errors.New("boom")

type fakeUsers struct {
	users    map[string]*models.User
	password string
	revoker  interface {
		Revoke(ctx context.Context, key string, expiresAt time.Time) error
	}
	loginErr error
	token    string
	roles    map[string][]auth.Role
	banned   map[string]bool
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		users:  map[string]*models.User{},
		roles:  map[string][]auth.Role{},
		banned: map[string]bool{},
	}
}

func (f *fakeUsers) Register(_ context.Context, userName, displayName, _ string) (*models.User, error) {
	if _, ok := f.users[userName]; ok {
		return nil, common.ErrorAlreadyExists
	}
	u := &models.User{ID: "u-" + userName, UserName: userName, DisplayName: displayName, Roles: []auth.Role{auth.NormalUser}}
	f.users[userName] = u
	return u, nil
}

func (f *fakeUsers) Login(_ context.Context, userName, password string) (string, error) {
	if f.loginErr != nil {
		return "", f.loginErr
	}
	if _, ok := f.users[userName]; !ok {
		return "", auth.ErrUsernameNotFound
	}
	if password != f.password {
		return "", auth.ErrIncorrectPassword
	}
	return f.token, nil
}

func (f *fakeUsers) Logout(ctx context.Context, id *auth.Identity) error {
	return f.revoker.Revoke(ctx, id.TokenKey, id.ExpiresAt)
}

func (f *fakeUsers) GetByName(_ context.Context, userName string) (*models.User, error) {
	u, ok := f.users[userName]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeUsers) SetRoles(_ context.Context, _ *auth.Identity, userName string, roles []auth.Role) error {
	if _, ok := f.users[userName]; !ok {
		return common.ErrorNotFound
	}
	f.roles[userName] = roles
	return nil
}

func (f *fakeUsers) Ban(_ context.Context, moderator *auth.Identity, userName string) error {
	if moderator.UserName == userName {
		return common.ErrorValidation
	}
	f.banned[userName] = true
	return nil
}

func (f *fakeUsers) Unban(_ context.Context, _ *auth.Identity, userName string) error {
	delete(f.banned, userName)
	return nil
}

type fakeForums struct {
	forums  []models.Forum
	listErr error
}

func (f *fakeForums) Create(_ context.Context, title, description string) (*models.Forum, error) {
	fm := models.Forum{ID: "f-1", Title: title, Description: description}
	f.forums = append(f.forums, fm)
	return &fm, nil
}

func (f *fakeForums) List(context.Context) ([]models.Forum, error) {
	return f.forums, f.listErr
}

func (f *fakeForums) Get(_ context.Context, id string) (*models.Forum, error) {
	for i := range f.forums {
		if f.forums[i].ID == id {
			return &f.forums[i], nil
		}
	}
	return nil, common.ErrorNotFound
}

type fakeThreads struct {
	thread *models.Thread
	err    error
}

func (f *fakeThreads) CreateWithPost(_ context.Context, id *auth.Identity, forumID, title, content string) (*models.Thread, *models.Post, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	t := &models.Thread{ID: "t-1", ForumID: forumID, AuthorName: id.UserName, Title: title}
	p := &models.Post{ID: "p-1", ThreadID: t.ID, AuthorName: id.UserName, Content: content}
	return t, p, nil
}

func (f *fakeThreads) ListByForum(context.Context, string) ([]models.Thread, error) {
	if f.thread == nil {
		return nil, f.err
	}
	return []models.Thread{*f.thread}, f.err
}

func (f *fakeThreads) Get(context.Context, string) (*models.Thread, error) {
	return f.thread, f.err
}

func (f *fakeThreads) Lock(context.Context, *auth.Identity, string) (*models.Thread, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.thread.Locked = true
	return f.thread, nil
}

func (f *fakeThreads) Unlock(context.Context, *auth.Identity, string) (*models.Thread, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.thread.Locked = false
	return f.thread, nil
}

func (f *fakeThreads) Archive(context.Context, *auth.Identity, string) (*models.Thread, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.thread.Archived = true
	return f.thread, nil
}

type fakePosts struct {
	post *models.Post
	err  error
}

func (f *fakePosts) Create(_ context.Context, id *auth.Identity, threadID, parentID, content string) (*models.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Post{ID: "p-2", ThreadID: threadID, ParentID: parentID, AuthorName: id.UserName, Content: content}, nil
}

func (f *fakePosts) Edit(_ context.Context, id *auth.Identity, _ string, content string) (*models.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.post.AuthorName != id.UserName {
		return nil, common.ErrorNotAuthor
	}
	f.post.Content = content
	return f.post, nil
}

func (f *fakePosts) Censor(context.Context, *auth.Identity, string) (*models.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.post.Censored = true
	f.post.Content = "[removed]"
	return f.post, nil
}

func (f *fakePosts) ListByThread(context.Context, string) ([]models.Post, error) {
	return []models.Post{*f.post}, f.err
}

func (f *fakePosts) ListByUser(context.Context, string) ([]models.Post, error) {
	return []models.Post{*f.post}, f.err
}

type fakeAttachments struct {
	err error
}

func (f *fakeAttachments) PresignUpload(_ context.Context, _ *auth.Identity, postID string) (*models.UploadTask, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.UploadTask{AttachmentID: "a-1", URL: "http://s3/put/" + postID}, nil
}

func (f *fakeAttachments) PresignDownload(_ context.Context, attachmentID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "http://s3/get/" + attachmentID, nil
}

func (f *fakeAttachments) ListByPost(_ context.Context, postID string) ([]models.Attachment, error) {
	return []models.Attachment{{ID: "a-1", PostID: postID}}, f.err
}

type fakeArticles struct {
	article *models.Article
	err     error
}

func (f *fakeArticles) Create(_ context.Context, id *auth.Identity, title, body string) (*models.Article, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Article{ID: "ar-2", AuthorName: id.UserName, Title: title, Body: body}, nil
}

// Get hides drafts from everyone but the author.
func (f *fakeArticles) Get(_ context.Context, viewer *auth.Identity, _ string) (*models.Article, error) {
	if f.err != nil {
		return nil, f.err
	}
	if !f.article.Published && (viewer == nil || viewer.UserName != f.article.AuthorName) {
		return nil, common.ErrorNotFound
	}
	return f.article, nil
}

func (f *fakeArticles) ListPublished(context.Context) ([]models.Article, error) {
	if f.err != nil {
		return nil, f.err
	}
	if !f.article.Published {
		return nil, nil
	}
	return []models.Article{*f.article}, nil
}

func (f *fakeArticles) Publish(_ context.Context, id *auth.Identity, _ string) (*models.Article, error) {
	if f.err != nil {
		return nil, f.err
	}
	if id.UserName != f.article.AuthorName {
		return nil, common.ErrorNotAuthor
	}
	now := time.Now().UTC()
	f.article.Published = true
	f.article.PublishedAt = &now
	return f.article, nil
}

func (f *fakeArticles) Delete(_ context.Context, id *auth.Identity, _ string) error {
	if f.err != nil {
		return f.err
	}
	if id.UserName != f.article.AuthorName {
		return common.ErrorNotAuthor
	}
	return nil
}

type fakeQuestions struct {
	question *models.Question
	err      error
}

func (f *fakeQuestions) CreateBucket(_ context.Context, _ *auth.Identity, title string) (*models.Bucket, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Bucket{ID: "b-1", Title: title}, nil
}

func (f *fakeQuestions) ListBuckets(context.Context) ([]models.Bucket, error) {
	return []models.Bucket{{ID: "b-1", Title: "ama"}}, f.err
}

func (f *fakeQuestions) GetBucket(_ context.Context, bucketID string) (*models.Bucket, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Bucket{ID: bucketID, Title: "ama"}, nil
}

func (f *fakeQuestions) Ask(_ context.Context, id *auth.Identity, bucketID, text string, anonymous bool) (*models.Question, error) {
	if f.err != nil {
		return nil, f.err
	}
	q := &models.Question{ID: "q-2", BucketID: bucketID, Text: text, Answers: []models.Answer{}}
	if !anonymous {
		q.AuthorName = id.UserName
	}
	return q, nil
}

func (f *fakeQuestions) ListQuestions(_ context.Context, _ string, onFloorOnly bool) ([]models.Question, error) {
	if f.err != nil {
		return nil, f.err
	}
	if onFloorOnly && !f.question.OnFloor {
		return nil, nil
	}
	return []models.Question{*f.question}, nil
}

func (f *fakeQuestions) PutOnFloor(context.Context, *auth.Identity, string) (*models.Question, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.question.OnFloor = true
	return f.question, nil
}

func (f *fakeQuestions) TakeOffFloor(context.Context, *auth.Identity, string) (*models.Question, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.question.OnFloor = false
	return f.question, nil
}

func (f *fakeQuestions) Answer(_ context.Context, id *auth.Identity, questionID, text string) (*models.Answer, error) {
	if f.err != nil {
		return nil, f.err
	}
	if !f.question.OnFloor {
		return nil, common.ErrorNotOnFloor
	}
	return &models.Answer{ID: "an-1", QuestionID: questionID, AuthorName: id.UserName, Text: text}, nil
}

func (f *fakeQuestions) DeleteQuestion(context.Context, *auth.Identity, string) error {
	return f.err
}

type fakeChats struct {
	members  map[string]bool
	messages []models.Message
	err      error
}

func (f *fakeChats) Create(_ context.Context, id *auth.Identity, name string, _ []string) (*models.Chat, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Chat{ID: "c-1", Name: name, OwnerName: id.UserName}, nil
}

func (f *fakeChats) ListMine(_ context.Context, id *auth.Identity) ([]models.Chat, error) {
	if !f.members[id.UserName] {
		return nil, f.err
	}
	return []models.Chat{{ID: "c-1", Name: "general"}}, f.err
}

func (f *fakeChats) AddMember(_ context.Context, _ *auth.Identity, _, userName string) error {
	if f.err != nil {
		return f.err
	}
	f.members[userName] = true
	return nil
}

func (f *fakeChats) Send(_ context.Context, id *auth.Identity, chatID, replyID, content string) (*models.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	if !f.members[id.UserName] {
		return nil, common.ErrorNotMember
	}
	m := models.Message{ID: "m-9", ChatID: chatID, AuthorName: id.UserName, ReplyID: replyID, Content: content}
	for i := range f.messages {
		if f.messages[i].ID == replyID {
			m.Reply = &f.messages[i]
		}
	}
	return &m, nil
}

func (f *fakeChats) Messages(_ context.Context, id *auth.Identity, _ string) ([]models.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	if !f.members[id.UserName] {
		return nil, common.ErrorNotMember
	}
	return f.messages, nil
}
