package middleware

import (
	"context"
	"fmt"
	"floodguard/models"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Redis        *redis.Client
	Requests     int
	Window       time.Duration
	KeyPrefix    string
	ErrorMessage string
}

// RateLimitStrategy selects what the limit is keyed on
type RateLimitStrategy string

const (
	StrategyIP       RateLimitStrategy = "ip"
	StrategyUser     RateLimitStrategy = "user"
	StrategyUserOrIP RateLimitStrategy = "user_or_ip"
)

// RateLimiter is a Redis-backed sliding window limiter.
type RateLimiter struct {
	config   RateLimitConfig
	strategy RateLimitStrategy
}

func NewRateLimiter(config RateLimitConfig, strategy RateLimitStrategy) *RateLimiter {
	if config.KeyPrefix == "" {
		config.KeyPrefix = "rate_limit"
	}
	if config.ErrorMessage == "" {
		config.ErrorMessage = "Rate limit exceeded"
	}

	return &RateLimiter{
		config:   config,
		strategy: strategy,
	}
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		key := rl.getKey(c)
		if key == "" {
			c.Next()
			return
		}

		allowed, resetTime, remaining, err := rl.checkRateLimit(key)
		if err != nil {
			// Redis being down never blocks traffic
			logrus.Errorf("Rate limit check failed: %v", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			retryAfter := int(time.Until(resetTime).Seconds())
			if retryAfter < 0 {
				retryAfter = 0
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			logrus.WithFields(logrus.Fields{
				"key":    key,
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			}).Warn("Rate limit exceeded")

			c.JSON(http.StatusTooManyRequests, models.ErrorResponse{
				Error:   "RATE_LIMIT_EXCEEDED",
				Message: rl.config.ErrorMessage,
				Code:    "TOO_MANY_REQUESTS",
			})
			c.Abort()
			return
		}

		c.Next()
	})
}

// checkRateLimit runs a sliding window log over a Redis sorted set.
func (rl *RateLimiter) checkRateLimit(key string) (allowed bool, resetTime time.Time, remaining int, err error) {
	ctx := context.Background()
	now := time.Now()
	window := rl.config.Window

	pipe := rl.config.Redis.Pipeline()

	expiredBefore := now.Add(-window).UnixNano()
	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", expiredBefore))
	pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, &redis.Z{
		Score:  float64(now.UnixNano()),
		Member: fmt.Sprintf("%d", now.UnixNano()),
	})
	pipe.Expire(ctx, key, window+time.Minute)

	results, err := pipe.Exec(ctx)
	if err != nil {
		return false, time.Time{}, 0, err
	}

	currentCount := results[1].(*redis.IntCmd).Val()

	remaining = rl.config.Requests - int(currentCount) - 1
	if remaining < 0 {
		remaining = 0
	}

	resetTime = now.Add(window)
	allowed = currentCount < int64(rl.config.Requests)

	if !allowed {
		rl.config.Redis.ZRem(ctx, key, fmt.Sprintf("%d", now.UnixNano()))
	}

	return allowed, resetTime, remaining, nil
}

func (rl *RateLimiter) getKey(c *gin.Context) string {
	prefix := rl.config.KeyPrefix

	switch rl.strategy {
	case StrategyUser:
		userID := c.GetString("userID")
		if userID == "" {
			return ""
		}
		return fmt.Sprintf("%s:user:%s", prefix, userID)

	case StrategyUserOrIP:
		if userID := c.GetString("userID"); userID != "" {
			return fmt.Sprintf("%s:user:%s", prefix, userID)
		}
		return fmt.Sprintf("%s:ip:%s", prefix, c.ClientIP())

	default:
		return fmt.Sprintf("%s:ip:%s", prefix, c.ClientIP())
	}
}

// DefaultRateLimit is the global limit: 100 requests per minute per IP.
func DefaultRateLimit(redisClient *redis.Client) gin.HandlerFunc {
	return NewRateLimiter(RateLimitConfig{
		Redis:        redisClient,
		Requests:     100,
		Window:       time.Minute,
		KeyPrefix:    "rate_limit",
		ErrorMessage: "Too many requests. Please try again later.",
	}, StrategyIP).Middleware()
}

// AuthRateLimit guards login, registration, and OTP endpoints.
func AuthRateLimit(redisClient *redis.Client) gin.HandlerFunc {
	return NewRateLimiter(RateLimitConfig{
		Redis:        redisClient,
		Requests:     5,
		Window:       time.Minute,
		KeyPrefix:    "auth_rate_limit",
		ErrorMessage: "Too many authentication attempts. Please try again later.",
	}, StrategyIP).Middleware()
}

// ReportRateLimit caps incident submissions per user.
func ReportRateLimit(redisClient *redis.Client) gin.HandlerFunc {
	return NewRateLimiter(RateLimitConfig{
		Redis:        redisClient,
		Requests:     10,
		Window:       time.Minute,
		KeyPrefix:    "report_rate_limit",
		ErrorMessage: "Too many incident reports. Please slow down.",
	}, StrategyUserOrIP).Middleware()
}

// ChatRateLimit caps chat messages per user.
func ChatRateLimit(redisClient *redis.Client) gin.HandlerFunc {
	return NewRateLimiter(RateLimitConfig{
		Redis:        redisClient,
		Requests:     60,
		Window:       time.Minute,
		KeyPrefix:    "chat_rate_limit",
		ErrorMessage: "Message rate limit exceeded. Please slow down.",
	}, StrategyUser).Middleware()
}

// OracleRateLimit caps the endpoints that call the generative model, which
// are the expensive ones: predictions, scenarios, and news refreshes.
func OracleRateLimit(redisClient *redis.Client) gin.HandlerFunc {
	return NewRateLimiter(RateLimitConfig{
		Redis:        redisClient,
		Requests:     10,
		Window:       time.Minute,
		KeyPrefix:    "oracle_rate_limit",
		ErrorMessage: "Analysis rate limit exceeded. Please try again shortly.",
	}, StrategyUserOrIP).Middleware()
}
