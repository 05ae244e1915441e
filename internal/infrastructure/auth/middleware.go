package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const userIDKey = "auth.userID"

// Middleware rejects requests without a valid credential and stores the
// caller's user id on the gin context.
func Middleware(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := a.Authenticate(c.Request.Context(), TokenFromRequest(c.Request))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID returns the id stored by Middleware.
func UserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// SetUserID stores id on the context. Used by Middleware and by tests that
// bypass token validation.
func SetUserID(c *gin.Context, id int64) {
	c.Set(userIDKey, id)
}
