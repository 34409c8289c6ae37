package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/niyatisanja0206/resume-builder/pkg/auth"
)

const (
	GinContextKeyUserID    = "userID"
	GinContextKeyUserEmail = "userEmail"
)

func AuthMiddleware(jwtSvc *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			return
		}

		claims, err := jwtSvc.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(GinContextKeyUserID, claims.UserID)
		c.Set(GinContextKeyUserEmail, claims.Email)

		c.Next()
	}
}

func GetUserIDFromGinContext(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(GinContextKeyUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		return uuid.Nil, false
	}
	return id, true
}

func GetUserEmailFromGinContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(GinContextKeyUserEmail)
	if !ok {
		return "", false
	}
	email, ok := v.(string)
	if !ok || email == "" {
		return "", false
	}
	return email, true
}
