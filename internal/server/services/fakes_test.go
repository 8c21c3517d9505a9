package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/weekend/internal/common"
	"github.com/dmitrijs2005/weekend/internal/dbx"
	"github.com/dmitrijs2005/weekend/internal/server/auth"
	"github.com/dmitrijs2005/weekend/internal/server/models"
	"github.com/dmitrijs2005/weekend/internal/server/repositories/articles"
	"github.com/dmitrijs2005/weekend/internal/server/repositories/attachments"
	"github.com/dmitrijs2005/weekend/internal/server/repositories/buckets"
	"github.com/dmitrijs2005/weekend/internal/server/repositories/chats"
	"github.com/dmitrijs2005/weekend/internal/server/repositories/forums"
	"github.com/dmitrijs2005/weekend/internal/server/repositories/posts"
	"github.com/dmitrijs2005/weekend/internal/server/repositories/questions"
	"github.com/dmitrijs2005/weekend/internal/server/repositories/threads"
	"github.com/dmitrijs2005/weekend/internal/server/repositories/users"
)

var errBoom = errors.New("boom")

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

type fakeUsersRepo struct {
	byName    map[string]*models.User
	createErr error
	getErr    error
	setErr    error
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byName[u.UserName]; ok {
		return nil, common.ErrorAlreadyExists
	}
	u.ID = "u-" + u.UserName
	f.byName[u.UserName] = u
	return u, nil
}

func (f *fakeUsersRepo) GetUserByName(_ context.Context, name string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byName[name]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) SetRoles(_ context.Context, name string, roles []auth.Role) error {
	if f.setErr != nil {
		return f.setErr
	}
	u, ok := f.byName[name]
	if !ok {
		return common.ErrorNotFound
	}
	u.Roles = roles
	return nil
}

func (f *fakeUsersRepo) SetBanned(_ context.Context, name string, banned bool) error {
	if f.setErr != nil {
		return f.setErr
	}
	u, ok := f.byName[name]
	if !ok {
		return common.ErrorNotFound
	}
	u.Banned = banned
	return nil
}

type fakeForumsRepo struct {
	byID map[string]*models.Forum
	err  error
}

func (f *fakeForumsRepo) Create(_ context.Context, forum *models.Forum) (*models.Forum, error) {
	if f.err != nil {
		return nil, f.err
	}
	forum.ID = "f-" + forum.Title
	f.byID[forum.ID] = forum
	return forum, nil
}

func (f *fakeForumsRepo) List(context.Context) ([]models.Forum, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Forum, 0, len(f.byID))
	for _, v := range f.byID {
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (f *fakeForumsRepo) GetByID(_ context.Context, id string) (*models.Forum, error) {
	if f.err != nil {
		return nil, f.err
	}
	v, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return v, nil
}

type fakeThreadsRepo struct {
	byID      map[string]*models.Thread
	createErr error
	err       error
	lastLimit int
}

func (f *fakeThreadsRepo) Create(_ context.Context, t *models.Thread) (*models.Thread, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	t.ID = "t-" + t.Title
	t.CreatedAt = time.Now()
	f.byID[t.ID] = t
	return t, nil
}

func (f *fakeThreadsRepo) GetByID(_ context.Context, id string) (*models.Thread, error) {
	if f.err != nil {
		return nil, f.err
	}
	v, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *v
	return &cp, nil
}

func (f *fakeThreadsRepo) ListByForum(_ context.Context, forumID string, limit int) ([]models.Thread, error) {
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Thread, 0)
	for _, v := range f.byID {
		if v.ForumID == forumID && !v.Archived {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (f *fakeThreadsRepo) SetLocked(_ context.Context, id string, locked bool) error {
	if f.err != nil {
		return f.err
	}
	v, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	v.Locked = locked
	return nil
}

func (f *fakeThreadsRepo) Archive(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	v, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	v.Archived = true
	return nil
}

type fakePostsRepo struct {
	byID      map[string]*models.Post
	names     map[string]string // author id -> user name
	createErr error
	err       error
	seq       int
}

func (f *fakePostsRepo) Create(_ context.Context, p *models.Post) (*models.Post, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.seq++
	p.ID = "p-" + string(rune('0'+f.seq))
	p.AuthorName = f.names[p.AuthorID]
	f.byID[p.ID] = p
	return p, nil
}

func (f *fakePostsRepo) GetByID(_ context.Context, id string) (*models.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	v, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *v
	return &cp, nil
}

func (f *fakePostsRepo) UpdateContent(_ context.Context, id, content string, at time.Time) error {
	if f.err != nil {
		return f.err
	}
	v, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	v.Content = content
	v.ModifiedAt = &at
	return nil
}

func (f *fakePostsRepo) Censor(_ context.Context, id, replacement string) error {
	if f.err != nil {
		return f.err
	}
	v, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	v.Content = replacement
	v.Censored = true
	return nil
}

func (f *fakePostsRepo) ListByThread(_ context.Context, threadID string) ([]models.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Post, 0)
	for _, v := range f.byID {
		if v.ThreadID == threadID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (f *fakePostsRepo) ListByAuthor(_ context.Context, userName string) ([]models.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Post, 0)
	for _, v := range f.byID {
		if v.AuthorName == userName {
			out = append(out, *v)
		}
	}
	return out, nil
}

type fakeAttachmentsRepo struct {
	byID map[string]*models.Attachment
	err  error
}

func (f *fakeAttachmentsRepo) Create(_ context.Context, a *models.Attachment) (*models.Attachment, error) {
	if f.err != nil {
		return nil, f.err
	}
	a.ID = "a-1"
	f.byID[a.ID] = a
	return a, nil
}

func (f *fakeAttachmentsRepo) GetByID(_ context.Context, id string) (*models.Attachment, error) {
	if f.err != nil {
		return nil, f.err
	}
	v, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return v, nil
}

func (f *fakeAttachmentsRepo) ListByPost(_ context.Context, postID string) ([]models.Attachment, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Attachment, 0)
	for _, v := range f.byID {
		if v.PostID == postID {
			out = append(out, *v)
		}
	}
	return out, nil
}

type fakeArticlesRepo struct {
	byID  map[string]*models.Article
	names map[string]string
	err   error
	seq   int
}

func (f *fakeArticlesRepo) Create(_ context.Context, a *models.Article) (*models.Article, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.seq++
	a.ID = fmt.Sprintf("ar-%d", f.seq)
	a.AuthorName = f.names[a.AuthorID]
	f.byID[a.ID] = a
	return a, nil
}

func (f *fakeArticlesRepo) GetByID(_ context.Context, id string) (*models.Article, error) {
	if f.err != nil {
		return nil, f.err
	}
	v, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *v
	return &cp, nil
}

func (f *fakeArticlesRepo) ListPublished(_ context.Context, limit int) ([]models.Article, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Article, 0)
	for _, v := range f.byID {
		if v.Published && len(out) < limit {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (f *fakeArticlesRepo) Publish(_ context.Context, id string, at time.Time) error {
	if f.err != nil {
		return f.err
	}
	v, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	if !v.Published {
		v.Published = true
		v.PublishedAt = &at
	}
	return nil
}

func (f *fakeArticlesRepo) Delete(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeBucketsRepo struct {
	byID map[string]*models.Bucket
	err  error
}

func (f *fakeBucketsRepo) Create(_ context.Context, b *models.Bucket) (*models.Bucket, error) {
	if f.err != nil {
		return nil, f.err
	}
	b.ID = "b-" + b.Title
	f.byID[b.ID] = b
	return b, nil
}

func (f *fakeBucketsRepo) GetByID(_ context.Context, id string) (*models.Bucket, error) {
	if f.err != nil {
		return nil, f.err
	}
	v, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return v, nil
}

func (f *fakeBucketsRepo) List(context.Context) ([]models.Bucket, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Bucket, 0, len(f.byID))
	for _, v := range f.byID {
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

type fakeQuestionsRepo struct {
	byID    map[string]*models.Question
	answers []models.Answer
	names   map[string]string
	err     error
	seq     int
}

func (f *fakeQuestionsRepo) Create(_ context.Context, q *models.Question) (*models.Question, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.seq++
	q.ID = fmt.Sprintf("q-%d", f.seq)
	q.AuthorName = f.names[q.AuthorID]
	f.byID[q.ID] = q
	return q, nil
}

func (f *fakeQuestionsRepo) GetByID(_ context.Context, id string) (*models.Question, error) {
	if f.err != nil {
		return nil, f.err
	}
	v, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *v
	return &cp, nil
}

func (f *fakeQuestionsRepo) ListByBucket(_ context.Context, bucketID string, onFloorOnly bool) ([]models.Question, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Question, 0)
	for _, v := range f.byID {
		if v.BucketID == bucketID && (v.OnFloor || !onFloorOnly) {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeQuestionsRepo) SetOnFloor(_ context.Context, id string, onFloor bool) error {
	if f.err != nil {
		return f.err
	}
	v, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	v.OnFloor = onFloor
	return nil
}

func (f *fakeQuestionsRepo) Delete(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeQuestionsRepo) CreateAnswer(_ context.Context, a *models.Answer) (*models.Answer, error) {
	if f.err != nil {
		return nil, f.err
	}
	a.ID = fmt.Sprintf("an-%d", len(f.answers)+1)
	a.AuthorName = f.names[a.AuthorID]
	f.answers = append(f.answers, *a)
	return a, nil
}

func (f *fakeQuestionsRepo) ListAnswersByBucket(_ context.Context, bucketID string) ([]models.Answer, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Answer, 0)
	for _, a := range f.answers {
		if q, ok := f.byID[a.QuestionID]; ok && q.BucketID == bucketID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeChatsRepo struct {
	byID     map[string]*models.Chat
	members  map[string]map[string]bool // chat id -> user ids
	messages []models.Message           // oldest first
	names    map[string]string
	err      error
	addErr   error
}

func (f *fakeChatsRepo) Create(_ context.Context, c *models.Chat) (*models.Chat, error) {
	if f.err != nil {
		return nil, f.err
	}
	c.ID = "c-" + c.Name
	c.OwnerName = f.names[c.OwnerID]
	f.byID[c.ID] = c
	return c, nil
}

func (f *fakeChatsRepo) GetByID(_ context.Context, id string) (*models.Chat, error) {
	if f.err != nil {
		return nil, f.err
	}
	v, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *v
	return &cp, nil
}

func (f *fakeChatsRepo) ListByMember(_ context.Context, userID string) ([]models.Chat, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Chat, 0)
	for id, users := range f.members {
		if users[userID] {
			out = append(out, *f.byID[id])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeChatsRepo) AddMember(_ context.Context, chatID, userID string) error {
	if f.addErr != nil {
		return f.addErr
	}
	if f.members[chatID] == nil {
		f.members[chatID] = map[string]bool{}
	}
	f.members[chatID][userID] = true
	return nil
}

func (f *fakeChatsRepo) IsMember(_ context.Context, chatID, userID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.members[chatID][userID], nil
}

func (f *fakeChatsRepo) CreateMessage(_ context.Context, m *models.Message) (*models.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	m.ID = fmt.Sprintf("m-%d", len(f.messages)+1)
	m.AuthorName = f.names[m.AuthorID]
	f.messages = append(f.messages, *m)
	return m, nil
}

func (f *fakeChatsRepo) GetMessage(_ context.Context, id string) (*models.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, m := range f.messages {
		if m.ID == id {
			cp := m
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeChatsRepo) ListMessages(_ context.Context, chatID string, limit int) ([]models.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Message, 0)
	for i := len(f.messages) - 1; i >= 0 && len(out) < limit; i-- {
		if f.messages[i].ChatID == chatID {
			out = append(out, f.messages[i])
		}
	}
	return out, nil
}

type fakeRepoManager struct {
	u  *fakeUsersRepo
	f  *fakeForumsRepo
	t  *fakeThreadsRepo
	p  *fakePostsRepo
	a  *fakeAttachmentsRepo
	ar *fakeArticlesRepo
	b  *fakeBucketsRepo
	q  *fakeQuestionsRepo
	c  *fakeChatsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	names := map[string]string{}
	return &fakeRepoManager{
		u:  &fakeUsersRepo{byName: map[string]*models.User{}},
		f:  &fakeForumsRepo{byID: map[string]*models.Forum{}},
		t:  &fakeThreadsRepo{byID: map[string]*models.Thread{}},
		p:  &fakePostsRepo{byID: map[string]*models.Post{}, names: names},
		a:  &fakeAttachmentsRepo{byID: map[string]*models.Attachment{}},
		ar: &fakeArticlesRepo{byID: map[string]*models.Article{}, names: names},
		b:  &fakeBucketsRepo{byID: map[string]*models.Bucket{}},
		q:  &fakeQuestionsRepo{byID: map[string]*models.Question{}, names: names},
		c:  &fakeChatsRepo{byID: map[string]*models.Chat{}, members: map[string]map[string]bool{}, names: names},
	}
}

// addUser stores a user and lets the fakes resolve its name.
func (m *fakeRepoManager) addUser(name string, roles ...auth.Role) *models.User {
	u := &models.User{ID: "u-" + name, UserName: name, Roles: roles}
	m.u.byName[name] = u
	m.p.names[u.ID] = name
	return u
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository              { return m.u }
func (m *fakeRepoManager) Forums(dbx.DBTX) forums.Repository            { return m.f }
func (m *fakeRepoManager) Threads(dbx.DBTX) threads.Repository          { return m.t }
func (m *fakeRepoManager) Posts(dbx.DBTX) posts.Repository              { return m.p }
func (m *fakeRepoManager) Attachments(dbx.DBTX) attachments.Repository  { return m.a }
func (m *fakeRepoManager) Articles(dbx.DBTX) articles.Repository        { return m.ar }
func (m *fakeRepoManager) Buckets(dbx.DBTX) buckets.Repository          { return m.b }
func (m *fakeRepoManager) Questions(dbx.DBTX) questions.Repository      { return m.q }
func (m *fakeRepoManager) Chats(dbx.DBTX) chats.Repository              { return m.c }

func identity(name string, roles ...auth.Role) *auth.Identity {
	return &auth.Identity{UserName: name, Roles: roles, TokenKey: "key-" + name, ExpiresAt: time.Now().Add(time.Hour)}
}
