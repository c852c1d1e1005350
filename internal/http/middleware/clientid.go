package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ClientIDHeader = "X-Client-ID"
	clientIDKey    = "clientID"
)

// ClientID identifies an anonymous visitor. A missing or malformed
// X-Client-ID is replaced by a fresh UUID, which is echoed back so the
// client can keep it.
func ClientID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(ClientIDHeader)
		if parsed, err := uuid.Parse(id); err == nil {
			id = parsed.String()
		} else {
			id = uuid.NewString()
		}
		c.Set(clientIDKey, id)
		c.Header(ClientIDHeader, id)
		c.Next()
	}
}

// GetClientID returns the id set by ClientID, or "" outside it.
func GetClientID(c *gin.Context) string {
	return c.GetString(clientIDKey)
}
