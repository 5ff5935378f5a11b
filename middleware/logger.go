package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// LoggerConfig holds request logging configuration
type LoggerConfig struct {
	Logger    *logrus.Logger
	SkipPaths []string
}

// LoggerMiddleware tags every request with an ID and logs it with latency
// and user context once it completes.
func LoggerMiddleware(config LoggerConfig) gin.HandlerFunc {
	if config.Logger == nil {
		config.Logger = logrus.StandardLogger()
	}

	return gin.HandlerFunc(func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		if shouldSkipPath(c.Request.URL.Path, config.SkipPaths) {
			c.Next()
			return
		}

		startTime := time.Now()
		c.Next()
		duration := time.Since(startTime)

		fields := logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": float64(duration.Nanoseconds()) / 1e6,
			"ip":         c.ClientIP(),
		}

		if userID := c.GetString("userID"); userID != "" {
			fields["user_id"] = userID
		}

		if len(c.Errors) > 0 {
			errs := make([]string, len(c.Errors))
			for i, ginErr := range c.Errors {
				errs[i] = ginErr.Error()
			}
			fields["errors"] = errs
		}

		message := fmt.Sprintf("%s %s %d %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), duration)

		switch {
		case c.Writer.Status() >= 500:
			config.Logger.WithFields(fields).Error(message)
		case c.Writer.Status() >= 400:
			config.Logger.WithFields(fields).Warn(message)
		case duration > 5*time.Second:
			config.Logger.WithFields(fields).Warn(message + " (slow request)")
		default:
			config.Logger.WithFields(fields).Info(message)
		}
	})
}

// DefaultLoggerMiddleware returns the logger with standard skip paths
func DefaultLoggerMiddleware() gin.HandlerFunc {
	return LoggerMiddleware(LoggerConfig{
		Logger: logrus.StandardLogger(),
		SkipPaths: []string{
			"/health",
			"/favicon.ico",
		},
	})
}

func shouldSkipPath(path string, skipPaths []string) bool {
	for _, skipPath := range skipPaths {
		if strings.HasPrefix(path, skipPath) {
			return true
		}
	}
	return false
}
