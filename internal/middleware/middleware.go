package middleware

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const ContextRequestID = "RequestID"

// CORSMiddleware allows the configured origins. "*" allows any origin.
func CORSMiddleware(allowedHosts []string) gin.HandlerFunc {
	allowAll := false
	allowed := make(map[string]bool, len(allowedHosts))
	for _, h := range allowedHosts {
		if h == "*" {
			allowAll = true
		}
		allowed[strings.TrimSuffix(h, "/")] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			host := strings.TrimPrefix(strings.TrimPrefix(origin, "https://"), "http://")
			if allowAll || allowed[origin] || allowed[host] {
				c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
				c.Writer.Header().Set("Vary", "Origin")
			}
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// RequestIDMiddleware is a middleware for adding a request ID to the context
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(ContextRequestID, requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}

// LoggerMiddleware is a middleware for logging requests
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		level := "INFO"
		switch {
		case status >= 500:
			level = "ERROR"
		case status >= 400:
			level = "WARN"
		}
		log.Printf("[%s] %s %s %d %s request_id=%s", level, c.Request.Method, c.Request.URL.Path, status, latency, c.GetString(ContextRequestID))
		if len(c.Errors) > 0 {
			log.Printf("[%s] errors: %s", level, c.Errors.String())
		}
	}
}
