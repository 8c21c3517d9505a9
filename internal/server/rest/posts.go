package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *HTTPServer) handleCreatePost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	p, err := s.services.Posts.Create(c.Request.Context(), identity(c), req.ThreadID, req.ParentID, req.Content)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newPostResponse(p))
}

func (s *HTTPServer) handleEditPost(c *gin.Context) {
	var req editPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	p, err := s.services.Posts.Edit(c.Request.Context(), identity(c), c.Param("id"), req.Content)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPostResponse(p))
}

func (s *HTTPServer) handleCensorPost(c *gin.Context) {
	p, err := s.services.Posts.Censor(c.Request.Context(), identity(c), c.Param("id"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPostResponse(p))
}

func (s *HTTPServer) handleListThreadPosts(c *gin.Context) {
	list, err := s.services.Posts.ListByThread(c.Request.Context(), c.Param("threadID"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPostResponses(list))
}

func (s *HTTPServer) handleListUserPosts(c *gin.Context) {
	list, err := s.services.Posts.ListByUser(c.Request.Context(), c.Param("name"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPostResponses(list))
}
