package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ArowuTest/church-calendar-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(tokens *jwt.TokenService) *gin.Engine {
	r := gin.New()
	r.Use(RequestIDMiddleware(), JWTAuthMiddleware(tokens))
	r.GET("/me", func(c *gin.Context) {
		id, email, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "email": email})
	})
	return r
}

func TestJWTAuthMiddleware(t *testing.T) {
	tokens := jwt.NewTokenService("secret", 3600)
	router := newAuthRouter(tokens)
	token, _, _ := tokens.Issue("user-1", "a@example.org")

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Token " + token, http.StatusUnauthorized},
		{"garbage", "Bearer not-a-token", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, w.Code)
			}
			if w.Header().Get("X-Request-ID") == "" {
				t.Error("Expected X-Request-ID header")
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"localhost:3000"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Expected origin echoed, got %q", got)
	}
}
