package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/weekend/internal/server/auth"
)

func (s *HTTPServer) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	u, err := s.services.Users.Register(c.Request.Context(), req.UserName, req.DisplayName, req.Password)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newUserResponse(u))
}

func (s *HTTPServer) handleGetUser(c *gin.Context) {
	u, err := s.services.Users.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(u))
}

func (s *HTTPServer) handleSetRoles(c *gin.Context) {
	var req setRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	roles, err := auth.ParseRoles(req.Roles)
	if err != nil {
		badRequest(c, err)
		return
	}

	if err := s.services.Users.SetRoles(c.Request.Context(), identity(c), c.Param("name"), roles); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *HTTPServer) handleBan(c *gin.Context) {
	if err := s.services.Users.Ban(c.Request.Context(), identity(c), c.Param("name")); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *HTTPServer) handleUnban(c *gin.Context) {
	if err := s.services.Users.Unban(c.Request.Context(), identity(c), c.Param("name")); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
