package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ragequitlabs/ragewatch/internal/session"
)

// resolveSession turns the optional Authorization header into a resolved
// session snapshot. No header resolves to anonymous; a present but invalid
// token is rejected rather than silently downgraded.
func (h *httpHandler) resolveSession(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if strings.TrimSpace(header) == "" {
		c.Set(sessionContextKey, session.Snapshot{State: session.StateAnonymous})
		c.Next()
		return
	}

	if !strings.HasPrefix(header, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_authorization"})
		return
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	claims, err := h.verifier.ValidateToken(token)
	if err != nil {
		h.logger.Warn("session token validation failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	c.Set(sessionContextKey, session.Snapshot{
		State: session.StateAuthenticated,
		Visitor: session.Visitor{
			ID:    claims.Subject,
			Email: claims.VisitorEmail,
		},
	})
	c.Next()
}

// requestSession exposes the request's resolved session as a session.Source.
// The middleware always resolves, so Unknown never reaches a handler.
func requestSession(c *gin.Context) session.Source {
	value, ok := c.Get(sessionContextKey)
	if !ok {
		return session.Anonymous()
	}
	snapshot, ok := value.(session.Snapshot)
	if !ok {
		return session.Anonymous()
	}
	return session.Static(snapshot)
}
