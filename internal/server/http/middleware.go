package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	ctxRequestIDKey = "request_id"
	ctxIdentityKey  = "identity"
)

// requestID keeps a well-formed incoming X-Request-ID and mints one otherwise.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(ctxRequestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func (s *HTTPServer) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Info(c.Request.Context(), "request",
			"request_id", c.GetString(ctxRequestIDKey),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func (s *HTTPServer) recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, p any) {
		s.logger.Error(c.Request.Context(), "panic", "request_id", c.GetString(ctxRequestIDKey), "panic", p)
		c.AbortWithStatusJSON(http.StatusInternalServerError, messageBody(msgServerError))
	})
}

// requireSession authenticates the request from the session cookie or,
// failing that, an "Authorization: Bearer" header.
func (s *HTTPServer) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := s.sessionToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, messageBody(msgUnauthorized))
			return
		}

		id, err := s.sessions.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, messageBody(msgUnauthorized))
			return
		}

		c.Set(ctxIdentityKey, id)
		c.Next()
	}
}

func (s *HTTPServer) sessionToken(c *gin.Context) string {
	if v, err := c.Cookie(s.opts.CookieName); err == nil && v != "" {
		return v
	}
	scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
	if ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return ""
}

// identity returns the requester stored by requireSession.
func identity(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(ctxIdentityKey)
	if !ok {
		return models.Identity{}, false
	}
	id, ok := v.(models.Identity)
	return id, ok
}

// secureRequest reports whether the session cookie should carry Secure.
func (s *HTTPServer) secureRequest(c *gin.Context) bool {
	return s.opts.CookieSecure ||
		c.Request.TLS != nil ||
		strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https")
}
