package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/ArowuTest/church-calendar-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
)

const (
	ContextUserID    = "userID"
	ContextUserEmail = "userEmail"
)

// JWTAuthMiddleware creates a gin middleware for JWT authentication.
func JWTAuthMiddleware(tokens *jwt.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const BearerSchema = "Bearer "
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Println("[WARN] JWTAuthMiddleware: Authorization header is missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		if !strings.HasPrefix(authHeader, BearerSchema) {
			log.Println("[WARN] JWTAuthMiddleware: Authorization header format is invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must start with Bearer "})
			return
		}

		claims, err := tokens.Parse(strings.TrimSpace(authHeader[len(BearerSchema):]))
		if err != nil {
			log.Printf("[WARN] JWTAuthMiddleware: Token parsing/validation failed: %v", err)
			if jwt.IsExpired(err) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token has expired"})
			} else {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			}
			return
		}

		c.Set(ContextUserID, claims.Subject)
		c.Set(ContextUserEmail, claims.Email)
		c.Next()
	}
}

// CurrentUser reads the identity set by JWTAuthMiddleware
func CurrentUser(c *gin.Context) (userID, email string, ok bool) {
	userID = c.GetString(ContextUserID)
	email = c.GetString(ContextUserEmail)
	return userID, email, userID != ""
}

// RequestAuth adapts a request's identity to the event form's Auth collaborator
type RequestAuth struct {
	c *gin.Context
}

func NewRequestAuth(c *gin.Context) RequestAuth {
	return RequestAuth{c: c}
}

func (a RequestAuth) CurrentUser() (string, string, bool) {
	return CurrentUser(a.c)
}
