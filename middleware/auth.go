package middleware

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"github.com/acneai/backend/config"
	"github.com/acneai/backend/model"
	"github.com/acneai/backend/util"
)

// RequireAuth validates the bearer token on protected routes. The JWT
// signature and expiry are checked first, then the token must still map to a
// live session in Redis or, failing that, in the sessions table. A DB hit
// re-mirrors the session into Redis for the remaining lifetime.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			rejectToken(c, "Authorization token required", fmt.Errorf("missing bearer token"))
			return
		}

		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return util.GetJWTSecretByte(), nil
		})
		if err != nil || !token.Valid || claims.Subject == "" {
			if err == nil {
				err = fmt.Errorf("invalid token claims")
			}
			rejectToken(c, "Invalid or expired token", err)
			return
		}
		userID := claims.Subject

		if !sessionAlive(c, tokenString, userID) {
			return
		}

		c.Set(UserIDKey, userID)
		c.Set(SessionTokenKey, tokenString)
		c.Next()
	}
}

// sessionAlive checks Redis first, then the sessions table. It answers the
// request itself when the session is gone and reports whether to continue.
func sessionAlive(c *gin.Context, tokenString, userID string) bool {
	ctx := context.Background()
	if rdb := config.GetRedisClient(); rdb != nil {
		if val, err := rdb.Get(ctx, util.SessionKey(tokenString)).Result(); err == nil && val == userID {
			return true
		}
		// Fall through to the DB on a miss or mismatch.
	}

	db := GetDB(c)
	if db == nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Database connection not available",
			Err: fmt.Errorf("database not found in context"),
		})
		c.Abort()
		return false
	}

	var session model.Session
	err := db.Where("session_token = ? AND expires_at > ?", tokenString, time.Now()).First(&session).Error
	if err != nil || session.UserID != userID {
		if err == nil {
			err = fmt.Errorf("token subject does not match session")
		}
		rejectToken(c, "Invalid or expired token", err)
		return false
	}

	if rdb := config.GetRedisClient(); rdb != nil {
		if ttl := time.Until(session.ExpiresAt); ttl > 0 {
			if err := rdb.Set(ctx, util.SessionKey(tokenString), session.UserID, ttl).Err(); err == nil {
				_ = util.AddSessionToUserSet(session.UserID, tokenString)
			}
		}
	}
	return true
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func rejectToken(c *gin.Context, msg string, err error) {
	util.LogTokenRejected(c.ClientIP(), c.Request.UserAgent(), c.Request.URL.Path, err.Error())
	util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: msg, Err: err})
	c.Abort()
}
