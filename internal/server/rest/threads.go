package rest

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/weekend/internal/server/auth"
	"github.com/dmitrijs2005/weekend/internal/server/models"
)

func (s *HTTPServer) handleCreateThread(c *gin.Context) {
	var req createThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	t, p, err := s.services.Threads.CreateWithPost(c.Request.Context(), identity(c), req.ForumID, req.Title, req.Content)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, createThreadResponse{Thread: newThreadResponse(t), Post: newPostResponse(p)})
}

func (s *HTTPServer) handleListThreads(c *gin.Context) {
	list, err := s.services.Threads.ListByForum(c.Request.Context(), c.Param("forumID"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	out := make([]threadResponse, 0, len(list))
	for i := range list {
		out = append(out, newThreadResponse(&list[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (s *HTTPServer) handleGetThread(c *gin.Context) {
	t, err := s.services.Threads.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newThreadResponse(t))
}

type moderateFunc func(ctx context.Context, moderator *auth.Identity, threadID string) (*models.Thread, error)

func (s *HTTPServer) moderateThread(c *gin.Context, fn moderateFunc) {
	t, err := fn(c.Request.Context(), identity(c), c.Param("id"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newThreadResponse(t))
}

func (s *HTTPServer) handleLockThread(c *gin.Context) {
	s.moderateThread(c, s.services.Threads.Lock)
}

func (s *HTTPServer) handleUnlockThread(c *gin.Context) {
	s.moderateThread(c, s.services.Threads.Unlock)
}

// handleArchiveThread hides the thread; nothing is deleted.
func (s *HTTPServer) handleArchiveThread(c *gin.Context) {
	s.moderateThread(c, s.services.Threads.Archive)
}
