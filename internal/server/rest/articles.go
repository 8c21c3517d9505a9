package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *HTTPServer) handleListArticles(c *gin.Context) {
	list, err := s.services.Articles.ListPublished(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	out := make([]articleResponse, 0, len(list))
	for i := range list {
		out = append(out, newArticleResponse(&list[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (s *HTTPServer) handleCreateArticle(c *gin.Context) {
	var req createArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	a, err := s.services.Articles.Create(c.Request.Context(), identity(c), req.Title, req.Body)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newArticleResponse(a))
}

// handleGetArticle serves anonymous readers too; drafts need the author's or a moderator's token.
func (s *HTTPServer) handleGetArticle(c *gin.Context) {
	a, err := s.services.Articles.Get(c.Request.Context(), identity(c), c.Param("id"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newArticleResponse(a))
}

func (s *HTTPServer) handlePublishArticle(c *gin.Context) {
	a, err := s.services.Articles.Publish(c.Request.Context(), identity(c), c.Param("id"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newArticleResponse(a))
}

func (s *HTTPServer) handleDeleteArticle(c *gin.Context) {
	if err := s.services.Articles.Delete(c.Request.Context(), identity(c), c.Param("id")); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
