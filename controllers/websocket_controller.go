package controllers

import (
	"floodguard/middleware"
	"floodguard/utils"
	"floodguard/websocket"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// WebSocketController upgrades dashboard connections. Auth rides on the
// token query parameter because browsers cannot set headers on websocket
// upgrades.
type WebSocketController struct {
	hub            *websocket.Hub
	authMiddleware *middleware.AuthMiddleware
}

func NewWebSocketController(hub *websocket.Hub, authMiddleware *middleware.AuthMiddleware) *WebSocketController {
	return &WebSocketController{
		hub:            hub,
		authMiddleware: authMiddleware,
	}
}

// Connect upgrades the request and starts the client pumps
// GET /api/v1/ws?token=...
func (wc *WebSocketController) Connect(c *gin.Context) {
	user, err := wc.authMiddleware.WebSocketAuth(c.Query("token"))
	if err != nil {
		utils.UnauthorizedResponse(c, "Invalid or missing token")
		return
	}

	conn, err := websocket.Upgrade(c.Writer, c.Request)
	if err != nil {
		logrus.Errorf("WebSocket upgrade failed for user %s: %v", user.ID.Hex(), err)
		return
	}

	client := websocket.NewClient(conn, wc.hub, user.ID.Hex(), user.Role)
	client.Register()

	go client.WritePump()
	go client.ReadPump()
}
