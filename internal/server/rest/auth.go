package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *HTTPServer) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	token, err := s.services.Users.Login(c.Request.Context(), req.UserName, req.Password)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{Token: token})
}

func (s *HTTPServer) handleLogout(c *gin.Context) {
	if err := s.services.Users.Logout(c.Request.Context(), identity(c)); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *HTTPServer) handleWhoAmI(c *gin.Context) {
	id := identity(c)
	c.JSON(http.StatusOK, identityResponse{UserName: id.UserName, Roles: id.Roles, ExpiresAt: id.ExpiresAt})
}
