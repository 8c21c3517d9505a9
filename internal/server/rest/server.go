// Package rest exposes the forum over HTTP/JSON using gin.
package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/weekend/internal/logging"
	"github.com/dmitrijs2005/weekend/internal/server/auth"
)

const shutdownTimeout = 10 * time.Second

// Authorizer is the part of auth.Guard the router needs.
type Authorizer interface {
	Authorize(ctx context.Context, header string, required auth.Role) (*auth.Identity, error)
}

// Services bundles everything the handlers call into.
type Services struct {
	Users       UserService
	Forums      ForumService
	Threads     ThreadService
	Posts       PostService
	Attachments AttachmentService
	Articles    ArticleService
	Questions   QuestionService
	Chats       ChatService
}

type RateLimit struct {
	PerMinute int
	Burst     int
}

type Options struct {
	Login RateLimit
	// TrustedProxies may set the client address through X-Forwarded-For.
	// When empty the socket peer is the client.
	TrustedProxies []string
}

type HTTPServer struct {
	address  string
	logger   logging.Logger
	guard    Authorizer
	services Services
	opts     Options
	engine   *gin.Engine
}

func NewHTTPServer(address string, l logging.Logger, guard Authorizer, s Services, opts Options) (*HTTPServer, error) {
	srv := &HTTPServer{
		address:  address,
		logger:   l.With("module", "http_server"),
		guard:    guard,
		services: s,
		opts:     opts,
	}
	engine, err := srv.routes()
	if err != nil {
		return nil, err
	}
	srv.engine = engine
	return srv, nil
}

// Handler returns the router, mostly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.engine
}

func (s *HTTPServer) routes() (*gin.Engine, error) {
	registerValidators()

	r := gin.New()
	if err := r.SetTrustedProxies(s.opts.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.Use(requestID(), s.recovery(), s.requestLogger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/login", loginLimiter(s.opts.Login), s.handleLogin)
	authGroup.POST("/logout", s.requireRole(auth.Unprivileged), s.handleLogout)
	authGroup.GET("/whoami", s.requireRole(auth.Unprivileged), s.handleWhoAmI)

	users := api.Group("/user")
	users.POST("", s.handleRegister)
	users.GET("/:name", s.handleGetUser)
	users.PUT("/:name/roles", s.requireRole(auth.Admin), s.handleSetRoles)
	users.PUT("/:name/ban", s.requireRole(auth.Moderator), s.handleBan)
	users.DELETE("/:name/ban", s.requireRole(auth.Moderator), s.handleUnban)

	forums := api.Group("/forum")
	forums.GET("", s.handleListForums)
	forums.POST("", s.requireRole(auth.Admin), s.handleCreateForum)
	forums.GET("/:id", s.handleGetForum)

	threads := api.Group("/thread")
	threads.POST("", s.requireRole(auth.NormalUser), s.handleCreateThread)
	threads.GET("/forum/:forumID", s.handleListThreads)
	threads.GET("/:id", s.handleGetThread)
	threads.PUT("/:id/lock", s.requireRole(auth.Moderator), s.handleLockThread)
	threads.PUT("/:id/unlock", s.requireRole(auth.Moderator), s.handleUnlockThread)
	threads.DELETE("/:id", s.requireRole(auth.Moderator), s.handleArchiveThread)

	posts := api.Group("/post")
	posts.POST("", s.requireRole(auth.NormalUser), s.handleCreatePost)
	posts.PUT("/:id", s.requireRole(auth.NormalUser), s.handleEditPost)
	posts.PUT("/:id/censor", s.requireRole(auth.Moderator), s.handleCensorPost)
	posts.GET("/thread/:threadID", s.handleListThreadPosts)
	posts.GET("/user/:name", s.handleListUserPosts)
	posts.POST("/:id/attachment", s.requireRole(auth.NormalUser), s.handlePresignUpload)
	posts.GET("/:id/attachment", s.handleListAttachments)

	api.GET("/attachment/:id", s.handlePresignDownload)

	articles := api.Group("/article")
	articles.GET("", s.handleListArticles)
	articles.POST("", s.requireRole(auth.NormalUser), s.handleCreateArticle)
	articles.GET("/:id", s.optionalIdentity(), s.handleGetArticle)
	articles.PUT("/:id/publish", s.requireRole(auth.NormalUser), s.handlePublishArticle)
	articles.DELETE("/:id", s.requireRole(auth.NormalUser), s.handleDeleteArticle)

	buckets := api.Group("/bucket")
	buckets.GET("", s.handleListBuckets)
	buckets.POST("", s.requireRole(auth.Moderator), s.handleCreateBucket)
	buckets.GET("/:id", s.handleGetBucket)
	buckets.GET("/:id/question", s.handleListQuestions)

	questions := api.Group("/question")
	questions.POST("", s.requireRole(auth.NormalUser), s.handleAsk)
	questions.PUT("/:id/floor", s.requireRole(auth.Moderator), s.handlePutOnFloor)
	questions.DELETE("/:id/floor", s.requireRole(auth.Moderator), s.handleTakeOffFloor)
	questions.DELETE("/:id", s.requireRole(auth.NormalUser), s.handleDeleteQuestion)

	api.POST("/answer", s.requireRole(auth.NormalUser), s.handleAnswer)

	chats := api.Group("/chat", s.requireRole(auth.NormalUser))
	chats.GET("", s.handleListChats)
	chats.POST("", s.handleCreateChat)
	chats.POST("/:id/member", s.handleAddChatMember)
	chats.GET("/:id/message", s.handleListMessages)
	chats.POST("/:id/message", s.handleSendMessage)

	return r, nil
}

func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
