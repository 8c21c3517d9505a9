package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *HTTPServer) handleListChats(c *gin.Context) {
	list, err := s.services.Chats.ListMine(c.Request.Context(), identity(c))
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	out := make([]chatResponse, 0, len(list))
	for i := range list {
		out = append(out, newChatResponse(&list[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (s *HTTPServer) handleCreateChat(c *gin.Context) {
	var req createChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	chat, err := s.services.Chats.Create(c.Request.Context(), identity(c), req.Name, req.Members)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newChatResponse(chat))
}

func (s *HTTPServer) handleAddChatMember(c *gin.Context) {
	var req addMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := s.services.Chats.AddMember(c.Request.Context(), identity(c), c.Param("id"), req.UserName); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *HTTPServer) handleListMessages(c *gin.Context) {
	list, err := s.services.Chats.Messages(c.Request.Context(), identity(c), c.Param("id"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	out := make([]messageResponse, 0, len(list))
	for i := range list {
		out = append(out, newMessageResponse(&list[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (s *HTTPServer) handleSendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	m, err := s.services.Chats.Send(c.Request.Context(), identity(c), c.Param("id"), req.ReplyID, req.Content)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newMessageResponse(m))
}
