package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *HTTPServer) handlePresignUpload(c *gin.Context) {
	task, err := s.services.Attachments.PresignUpload(c.Request.Context(), identity(c), c.Param("id"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, uploadResponse{AttachmentID: task.AttachmentID, URL: task.URL, ExpiresAt: task.ExpiresAt})
}

func (s *HTTPServer) handleListAttachments(c *gin.Context) {
	list, err := s.services.Attachments.ListByPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	out := make([]attachmentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, attachmentResponse{ID: a.ID, PostID: a.PostID, CreatedAt: a.CreatedAt})
	}
	c.JSON(http.StatusOK, out)
}

func (s *HTTPServer) handlePresignDownload(c *gin.Context) {
	url, err := s.services.Attachments.PresignDownload(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, downloadResponse{URL: url})
}
