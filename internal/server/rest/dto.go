package rest

import (
	"time"

	"github.com/dmitrijs2005/weekend/internal/server/auth"
	"github.com/dmitrijs2005/weekend/internal/server/models"
)

type loginRequest struct {
	UserName string `json:"user_name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type registerRequest struct {
	UserName    string `json:"user_name" binding:"required,username"`
	DisplayName string `json:"display_name" binding:"max=64"`
	Password    string `json:"password" binding:"required"`
}

type setRolesRequest struct {
	Roles []string `json:"roles" binding:"required,min=1,dive,role"`
}

type createForumRequest struct {
	Title       string `json:"title" binding:"required,max=128"`
	Description string `json:"description" binding:"max=1024"`
}

type createThreadRequest struct {
	ForumID string `json:"forum_id" binding:"required,uuid"`
	Title   string `json:"title" binding:"required,max=256"`
	Content string `json:"content" binding:"required"`
}

type createPostRequest struct {
	ThreadID string `json:"thread_id" binding:"required,uuid"`
	ParentID string `json:"parent_id" binding:"omitempty,uuid"`
	Content  string `json:"content" binding:"required"`
}

type editPostRequest struct {
	Content string `json:"content" binding:"required"`
}

type createArticleRequest struct {
	Title string `json:"title" binding:"required,max=256"`
	Body  string `json:"body" binding:"required"`
}

type createBucketRequest struct {
	Title string `json:"title" binding:"required,max=128"`
}

type askRequest struct {
	BucketID  string `json:"bucket_id" binding:"required,uuid"`
	Text      string `json:"question_text" binding:"required,max=2048"`
	Anonymous bool   `json:"anonymous"`
}

type answerRequest struct {
	QuestionID string `json:"question_id" binding:"required,uuid"`
	Text       string `json:"answer_text" binding:"required"`
}

type createChatRequest struct {
	Name    string   `json:"name" binding:"required,max=128"`
	Members []string `json:"members" binding:"omitempty,dive,username"`
}

type addMemberRequest struct {
	UserName string `json:"user_name" binding:"required,username"`
}

type sendMessageRequest struct {
	ReplyID string `json:"reply_id" binding:"omitempty,uuid"`
	Content string `json:"content" binding:"required,max=4096"`
}

type identityResponse struct {
	UserName  string      `json:"user_name"`
	Roles     []auth.Role `json:"roles"`
	ExpiresAt time.Time   `json:"expires_at"`
}

type userResponse struct {
	ID          string      `json:"id"`
	UserName    string      `json:"user_name"`
	DisplayName string      `json:"display_name"`
	Roles       []auth.Role `json:"roles"`
	Banned      bool        `json:"banned"`
	CreatedAt   time.Time   `json:"created_at"`
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:          u.ID,
		UserName:    u.UserName,
		DisplayName: u.DisplayName,
		Roles:       u.Roles,
		Banned:      u.Banned,
		CreatedAt:   u.CreatedAt,
	}
}

type forumResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func newForumResponse(f *models.Forum) forumResponse {
	return forumResponse{ID: f.ID, Title: f.Title, Description: f.Description}
}

type threadResponse struct {
	ID         string    `json:"id"`
	ForumID    string    `json:"forum_id"`
	AuthorName string    `json:"author_name"`
	Title      string    `json:"title"`
	Locked     bool      `json:"locked"`
	Archived   bool      `json:"archived"`
	CreatedAt  time.Time `json:"created_at"`
}

func newThreadResponse(t *models.Thread) threadResponse {
	return threadResponse{
		ID:         t.ID,
		ForumID:    t.ForumID,
		AuthorName: t.AuthorName,
		Title:      t.Title,
		Locked:     t.Locked,
		Archived:   t.Archived,
		CreatedAt:  t.CreatedAt,
	}
}

type postResponse struct {
	ID         string     `json:"id"`
	ThreadID   string     `json:"thread_id"`
	AuthorName string     `json:"author_name"`
	ParentID   string     `json:"parent_id,omitempty"`
	Content    string     `json:"content"`
	Censored   bool       `json:"censored"`
	CreatedAt  time.Time  `json:"created_at"`
	ModifiedAt *time.Time `json:"modified_at,omitempty"`
}

func newPostResponse(p *models.Post) postResponse {
	return postResponse{
		ID:         p.ID,
		ThreadID:   p.ThreadID,
		AuthorName: p.AuthorName,
		ParentID:   p.ParentID,
		Content:    p.Content,
		Censored:   p.Censored,
		CreatedAt:  p.CreatedAt,
		ModifiedAt: p.ModifiedAt,
	}
}

func newPostResponses(list []models.Post) []postResponse {
	out := make([]postResponse, 0, len(list))
	for i := range list {
		out = append(out, newPostResponse(&list[i]))
	}
	return out
}

type createThreadResponse struct {
	Thread threadResponse `json:"thread"`
	Post   postResponse   `json:"post"`
}

type uploadResponse struct {
	AttachmentID string    `json:"attachment_id"`
	URL          string    `json:"url"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type attachmentResponse struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

type downloadResponse struct {
	URL string `json:"url"`
}

type articleResponse struct {
	ID          string     `json:"id"`
	AuthorName  string     `json:"author_name"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	Published   bool       `json:"published"`
	CreatedAt   time.Time  `json:"created_at"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

func newArticleResponse(a *models.Article) articleResponse {
	return articleResponse{
		ID:          a.ID,
		AuthorName:  a.AuthorName,
		Title:       a.Title,
		Body:        a.Body,
		Published:   a.Published,
		CreatedAt:   a.CreatedAt,
		PublishedAt: a.PublishedAt,
	}
}

type bucketResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

func newBucketResponse(b *models.Bucket) bucketResponse {
	return bucketResponse{ID: b.ID, Title: b.Title, CreatedAt: b.CreatedAt}
}

type answerResponse struct {
	ID         string    `json:"id"`
	QuestionID string    `json:"question_id"`
	AuthorName string    `json:"author_name"`
	Text       string    `json:"answer_text"`
	CreatedAt  time.Time `json:"created_at"`
}

func newAnswerResponse(a *models.Answer) answerResponse {
	return answerResponse{
		ID:         a.ID,
		QuestionID: a.QuestionID,
		AuthorName: a.AuthorName,
		Text:       a.Text,
		CreatedAt:  a.CreatedAt,
	}
}

type questionResponse struct {
	ID         string           `json:"id"`
	BucketID   string           `json:"bucket_id"`
	// AuthorName is omitted for anonymous questions.
	AuthorName string           `json:"author_name,omitempty"`
	Text       string           `json:"question_text"`
	OnFloor    bool             `json:"on_floor"`
	CreatedAt  time.Time        `json:"created_at"`
	Answers    []answerResponse `json:"answers"`
}

func newQuestionResponse(q *models.Question) questionResponse {
	answers := make([]answerResponse, 0, len(q.Answers))
	for i := range q.Answers {
		answers = append(answers, newAnswerResponse(&q.Answers[i]))
	}
	return questionResponse{
		ID:         q.ID,
		BucketID:   q.BucketID,
		AuthorName: q.AuthorName,
		Text:       q.Text,
		OnFloor:    q.OnFloor,
		CreatedAt:  q.CreatedAt,
		Answers:    answers,
	}
}

type chatResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerName string    `json:"owner_name"`
	CreatedAt time.Time `json:"created_at"`
}

func newChatResponse(c *models.Chat) chatResponse {
	return chatResponse{ID: c.ID, Name: c.Name, OwnerName: c.OwnerName, CreatedAt: c.CreatedAt}
}

type messageResponse struct {
	ID         string           `json:"id"`
	AuthorName string           `json:"author_name"`
	Reply      *messageResponse `json:"reply,omitempty"`
	Content    string           `json:"content"`
	CreatedAt  time.Time        `json:"date"`
}

// newMessageResponse nests the replied-to message one level deep.
func newMessageResponse(m *models.Message) messageResponse {
	out := messageResponse{
		ID:         m.ID,
		AuthorName: m.AuthorName,
		Content:    m.Content,
		CreatedAt:  m.CreatedAt,
	}
	if m.Reply != nil {
		reply := messageResponse{
			ID:         m.Reply.ID,
			AuthorName: m.Reply.AuthorName,
			Content:    m.Reply.Content,
			CreatedAt:  m.Reply.CreatedAt,
		}
		out.Reply = &reply
	}
	return out
}
