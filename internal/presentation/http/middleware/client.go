package middleware

import "github.com/gin-gonic/gin"

// ClientIDHeader identifies the terminal or client sending the request
const ClientIDHeader = "X-Client-ID"

// ClientID returns the X-Client-ID header, falling back to the client IP
func ClientID(c *gin.Context) string {
	if id := c.GetHeader(ClientIDHeader); id != "" {
		return id
	}
	return c.ClientIP()
}
