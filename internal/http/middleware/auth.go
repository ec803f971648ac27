package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/med-repair-dash/backend/internal/auth"
	"github.com/med-repair-dash/backend/internal/db"
	"github.com/med-repair-dash/backend/internal/service"
)

const (
	ActorKey   = "actor"
	ProfileKey = "profile"
)

// Auth verifies the bearer token and loads the caller's profile so every
// handler gets a fresh Actor. Role and is_validated come from the database,
// not the token, so admin validation changes apply on the next request.
func Auth(tokens *auth.TokenService, store *db.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, "Authorization header is required")
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")
		claims, err := tokens.Parse(tokenString)
		if err != nil {
			abortUnauthorized(c, "Invalid token")
			return
		}
		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			abortUnauthorized(c, "Invalid token")
			return
		}
		profile, err := store.GetProfile(c.Request.Context(), userID)
		if err != nil {
			abortUnauthorized(c, "Unknown account")
			return
		}
		actor := service.Actor{
			ID:        profile.ID,
			Role:      profile.Role,
			Validated: profile.IsValidated,
		}
		c.Set(ActorKey, actor)
		c.Set(ProfileKey, profile)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	})
}

// Actor returns the session context stored by Auth.
func Actor(c *gin.Context) service.Actor {
	v, _ := c.Get(ActorKey)
	actor, _ := v.(service.Actor)
	return actor
}
