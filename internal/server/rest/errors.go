package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/weekend/internal/common"
	"github.com/dmitrijs2005/weekend/internal/server/auth"
)

const (
	msgInvalidCredentials = "invalid credentials"
	msgUnauthorized       = "unauthorized"
	msgForbidden          = "forbidden"
	msgNotFound           = "not found"
	msgAlreadyExists      = "already exists"
	msgInternal           = "internal error"
)

// statusFor maps a service or auth error to an HTTP status and a message
// safe to show the client.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrIncorrectPassword), errors.Is(err, auth.ErrUsernameNotFound):
		return http.StatusUnauthorized, msgInvalidCredentials
	case errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenExpired),
		errors.Is(err, auth.ErrTokenRevoked),
		errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, msgUnauthorized
	case errors.Is(err, auth.ErrInsufficientRole), errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden, msgForbidden
	case errors.Is(err, common.ErrorNotAuthor):
		return http.StatusForbidden, common.ErrorNotAuthor.Error()
	case errors.Is(err, common.ErrorNotMember):
		return http.StatusForbidden, common.ErrorNotMember.Error()
	case errors.Is(err, common.ErrorNotOnFloor):
		return http.StatusConflict, common.ErrorNotOnFloor.Error()
	case errors.Is(err, common.ErrorThreadLocked):
		return http.StatusConflict, common.ErrorThreadLocked.Error()
	case errors.Is(err, common.ErrorThreadArchived):
		return http.StatusConflict, common.ErrorThreadArchived.Error()
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, msgNotFound
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict, msgAlreadyExists
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

func (s *HTTPServer) abortWithError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
