package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const loggerKey = "logger"

// requestLogger tags each request with an ID and logs its outcome.
func requestLogger(logger log.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		entry := logger.WithFields(log.Fields{
			"request_id": uuid.NewString(),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
		})
		c.Set(loggerKey, entry)

		c.Next()

		entry.WithFields(log.Fields{
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Info("Handled request")
	}
}

// requestLog returns the per-request logger set by requestLogger.
func requestLog(c *gin.Context, fallback log.FieldLogger) log.FieldLogger {
	if v, ok := c.Get(loggerKey); ok {
		if entry, ok := v.(log.FieldLogger); ok {
			return entry
		}
	}
	return fallback
}

// cors allows the configured origins; "*" allows any origin. Preflight
// requests are answered directly.
func cors(origins []string) gin.HandlerFunc {
	allowAll := false
	allowed := make(map[string]bool, len(origins))
	for _, origin := range origins {
		if origin == "*" {
			allowAll = true
		}
		allowed[origin] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		switch {
		case allowAll:
			c.Header("Access-Control-Allow-Origin", "*")
		case origin != "" && allowed[origin]:
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", strings.Join([]string{http.MethodGet, http.MethodPost, http.MethodOptions}, ", "))
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// securityHeaders adds the response headers that apply to a JSON API.
func securityHeaders() gin.HandlerFunc {
	return secure.New(secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		IENoOpen:           true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	})
}
