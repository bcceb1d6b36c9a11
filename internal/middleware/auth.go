package middleware

import "github.com/gin-gonic/gin"

// UserIDHeader carries the id of the user the upstream gateway authenticated.
const UserIDHeader = "X-User-ID"

const userIDKey = "user_id"

// Auth copies the authenticated user id into the request context. Requests
// without it pass through; the payment service rejects them as
// unauthenticated.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := c.GetHeader(UserIDHeader); id != "" {
			c.Set(userIDKey, id)
		}
		c.Next()
	}
}

func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
