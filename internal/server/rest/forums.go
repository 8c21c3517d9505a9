package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *HTTPServer) handleListForums(c *gin.Context) {
	list, err := s.services.Forums.List(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	out := make([]forumResponse, 0, len(list))
	for i := range list {
		out = append(out, newForumResponse(&list[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (s *HTTPServer) handleCreateForum(c *gin.Context) {
	var req createForumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	f, err := s.services.Forums.Create(c.Request.Context(), req.Title, req.Description)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newForumResponse(f))
}

func (s *HTTPServer) handleGetForum(c *gin.Context) {
	f, err := s.services.Forums.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newForumResponse(f))
}
