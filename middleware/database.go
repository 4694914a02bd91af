package middleware

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Context keys set by the middleware chain.
const (
	DBKey           = "db"
	UserIDKey       = "user_id"
	SessionTokenKey = "session_token"
)

// DatabaseMiddleware injects the database handle into the request context.
func DatabaseMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(DBKey, db)
		c.Next()
	}
}

// GetDB returns the database handle from the request context, or nil when
// the DatabaseMiddleware did not run.
func GetDB(c *gin.Context) *gorm.DB {
	val, exists := c.Get(DBKey)
	if !exists {
		return nil
	}
	db, ok := val.(*gorm.DB)
	if !ok {
		return nil
	}
	return db
}

// GetUserID returns the authenticated user's public ID from the request
// context.
func GetUserID(c *gin.Context) (string, bool) {
	val, exists := c.Get(UserIDKey)
	if !exists {
		return "", false
	}
	userID, ok := val.(string)
	return userID, ok && userID != ""
}

// GetSessionToken returns the bearer token the request authenticated with.
func GetSessionToken(c *gin.Context) (string, bool) {
	val, exists := c.Get(SessionTokenKey)
	if !exists {
		return "", false
	}
	token, ok := val.(string)
	return token, ok && token != ""
}
