package controllers

import (
	"context"
	"floodguard/websocket"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type HealthController struct {
	mongoClient *mongo.Client
	redisClient *redis.Client
	hub         *websocket.Hub
	startedAt   time.Time
}

func NewHealthController(mongoClient *mongo.Client, redisClient *redis.Client, hub *websocket.Hub) *HealthController {
	return &HealthController{
		mongoClient: mongoClient,
		redisClient: redisClient,
		hub:         hub,
		startedAt:   time.Now(),
	}
}

// Health reports service and dependency status
// GET /health
func (hc *HealthController) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	mongoStatus := "ok"
	if err := hc.mongoClient.Ping(ctx, readpref.Primary()); err != nil {
		mongoStatus = "unreachable"
	}

	redisStatus := "ok"
	if err := hc.redisClient.Ping(ctx).Err(); err != nil {
		redisStatus = "unreachable"
	}

	status := http.StatusOK
	overall := "ok"
	if mongoStatus != "ok" {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}

	c.JSON(status, gin.H{
		"status":           overall,
		"mongo":            mongoStatus,
		"redis":            redisStatus,
		"connectedClients": hc.hub.ConnectedUsers(),
		"uptime":           time.Since(hc.startedAt).String(),
		"timestamp":        time.Now(),
	})
}
