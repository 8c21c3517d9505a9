package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/weekend/internal/common"
	"github.com/dmitrijs2005/weekend/internal/logging"
	"github.com/dmitrijs2005/weekend/internal/server/auth"
)

const (
	identityKey     = "identity"
	requestIDHeader = "X-Request-ID"
	maxRequestIDLen = 64
)

// requestID tags the request context with an id taken from X-Request-ID or
// freshly generated, and echoes it back in the response.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		c.Request = c.Request.WithContext(logging.WithFields(c.Request.Context(), "request_id", id))
		c.Next()
	}
}

func (s *HTTPServer) recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		s.logger.Error(c.Request.Context(), "panic recovered", "panic", recovered, "path", c.Request.URL.Path)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
	})
}

// requestLogger logs every request except health checks.
func (s *HTTPServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		ctx := c.Request.Context()
		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"latency", time.Since(start).String(),
			"client", c.ClientIP(),
		}
		if id, ok := auth.FromContext(ctx); ok {
			args = append(args, "user", id.UserName)
		}

		switch {
		case status >= http.StatusInternalServerError:
			s.logger.Error(ctx, "request completed", args...)
		case status >= http.StatusBadRequest:
			s.logger.Warn(ctx, "request completed", args...)
		default:
			s.logger.Debug(ctx, "request completed", args...)
		}
	}
}

// requireRole runs the Guard and, on success, stores the identity in both the
// gin context and the request context.
func (s *HTTPServer) requireRole(required auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := s.guard.Authorize(c.Request.Context(), c.GetHeader(common.AuthorizationHeaderName), required)
		if err != nil {
			s.abortWithError(c, err)
			return
		}
		c.Set(identityKey, id)
		c.Request = c.Request.WithContext(auth.NewContext(c.Request.Context(), id))
		c.Next()
	}
}

// optionalIdentity lets anonymous requests through. A request that does carry
// an Authorization header must pass the Guard like any other.
func (s *HTTPServer) optionalIdentity() gin.HandlerFunc {
	authorize := s.requireRole(auth.Unprivileged)
	return func(c *gin.Context) {
		if c.GetHeader(common.AuthorizationHeaderName) == "" {
			c.Next()
			return
		}
		authorize(c)
	}
}

// identity returns the caller set by requireRole, or nil.
func identity(c *gin.Context) *auth.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	id, _ := v.(*auth.Identity)
	return id
}
