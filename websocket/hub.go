package websocket

import (
	"context"
	"floodguard/models"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Hub fans server-pushed changes out to connected clients. Clients join
// rooms ("alerts" for everyone on the dashboard, "volunteers" for the
// responder views); unsubscribing or dropping the connection cancels the
// subscription.
type Hub struct {
	clients map[*Client]bool

	rooms map[string]*Room

	// User to client mapping for direct messaging
	userClients map[string]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan BroadcastMessage
	sendToUser chan UserMessage

	mutex sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc

	cleanupTicker *time.Ticker
}

type BroadcastMessage struct {
	RoomID  string
	Message models.WSMessage
	Exclude string // user ID to skip, usually the originator
}

type UserMessage struct {
	UserID  string
	Message models.WSMessage
}

func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	return &Hub{
		clients:       make(map[*Client]bool),
		rooms:         make(map[string]*Room),
		userClients:   make(map[string]*Client),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		broadcast:     make(chan BroadcastMessage, 64),
		sendToUser:    make(chan UserMessage, 64),
		ctx:           ctx,
		cancel:        cancel,
		cleanupTicker: time.NewTicker(5 * time.Minute),
	}
}

func (h *Hub) Run() {
	logrus.Info("WebSocket Hub starting...")

	go h.runCleanup()

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastToRoom(message)

		case userMessage := <-h.sendToUser:
			h.sendMessageToUser(userMessage)

		case <-h.ctx.Done():
			logrus.Info("WebSocket Hub shutting down...")
			return
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.clients[client] = true
	h.userClients[client.userID] = client

	for _, roomID := range client.rooms {
		room := h.getOrCreateRoom(roomID)
		room.AddClient(client)
	}

	logrus.Infof("Client registered: %s (Total: %d)", client.userID, len(h.clients))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		delete(h.userClients, client.userID)

		for _, roomID := range client.rooms {
			if room, exists := h.rooms[roomID]; exists {
				room.RemoveClient(client)
				if room.IsEmpty() {
					delete(h.rooms, roomID)
				}
			}
		}

		logrus.Infof("Client unregistered: %s (Total: %d)", client.userID, len(h.clients))
	}
}

// Subscribe adds a connected client to a room after registration.
func (h *Hub) Subscribe(client *Client, roomID string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	room := h.getOrCreateRoom(roomID)
	room.AddClient(client)
	client.addRoom(roomID)
}

func (h *Hub) Unsubscribe(client *Client, roomID string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if room, exists := h.rooms[roomID]; exists {
		room.RemoveClient(client)
		if room.IsEmpty() {
			delete(h.rooms, roomID)
		}
	}
	client.removeRoom(roomID)
}

func (h *Hub) broadcastToRoom(broadcastMsg BroadcastMessage) {
	h.mutex.RLock()
	room := h.rooms[broadcastMsg.RoomID]
	h.mutex.RUnlock()

	if room != nil {
		room.Broadcast(broadcastMsg.Message, broadcastMsg.Exclude)
	}
}

func (h *Hub) sendMessageToUser(userMessage UserMessage) {
	h.mutex.RLock()
	client := h.userClients[userMessage.UserID]
	h.mutex.RUnlock()

	if client != nil {
		client.SendMessage(userMessage.Message)
	}
}

func (h *Hub) getOrCreateRoom(roomID string) *Room {
	if room, exists := h.rooms[roomID]; exists {
		return room
	}

	room := NewRoom(roomID)
	h.rooms[roomID] = room
	return room
}

// BroadcastAlertEvent pushes an alert lifecycle change to everyone watching
// the alerts room and to the volunteers room.
func (h *Hub) BroadcastAlertEvent(eventType string, alert *models.Alert) {
	message := models.WSMessage{
		Type: eventType,
		Data: models.WSAlertEvent{
			Alert:     alert,
			Timestamp: time.Now(),
		},
		Timestamp: time.Now(),
	}

	for _, roomID := range []string{models.WSRoomAlerts, models.WSRoomVolunteers} {
		select {
		case h.broadcast <- BroadcastMessage{RoomID: roomID, Message: message}:
		default:
			logrus.Warn("Broadcast channel full, dropping alert event")
		}
	}
}

// BroadcastChatMessage fans a new chat message out to the volunteers room.
func (h *Hub) BroadcastChatMessage(message *models.ChatMessage) {
	wsMessage := models.WSMessage{
		Type:      models.WSTypeChatMessage,
		Data:      message,
		Timestamp: time.Now(),
	}

	select {
	case h.broadcast <- BroadcastMessage{RoomID: models.WSRoomVolunteers, Message: wsMessage, Exclude: message.UserID.Hex()}:
	default:
		logrus.Warn("Broadcast channel full, dropping chat message")
	}
}

// BroadcastUserStatus notifies the volunteers room of an availability change.
func (h *Hub) BroadcastUserStatus(userID, status string) {
	message := models.WSMessage{
		Type: models.WSTypeUserStatus,
		Data: models.WSUserStatus{
			UserID:    userID,
			Status:    status,
			IsOnline:  h.IsUserOnline(userID),
			Timestamp: time.Now(),
		},
		Timestamp: time.Now(),
	}

	select {
	case h.broadcast <- BroadcastMessage{RoomID: models.WSRoomVolunteers, Message: message}:
	default:
		logrus.Warn("Broadcast channel full, dropping user status")
	}
}

func (h *Hub) SendNotificationToUser(userID string, notification interface{}) {
	message := models.WSMessage{
		Type:      models.WSTypeNotification,
		Data:      notification,
		Timestamp: time.Now(),
	}

	select {
	case h.sendToUser <- UserMessage{UserID: userID, Message: message}:
	default:
		logrus.Warn("SendToUser channel full, dropping notification")
	}
}

func (h *Hub) IsUserOnline(userID string) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	_, exists := h.userClients[userID]
	return exists
}

func (h *Hub) ConnectedUsers() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

func (h *Hub) runCleanup() {
	for {
		select {
		case <-h.cleanupTicker.C:
			h.performCleanup()
		case <-h.ctx.Done():
			return
		}
	}
}

func (h *Hub) performCleanup() {
	h.mutex.Lock()
	stale := make([]*Client, 0)
	for client := range h.clients {
		if !client.isActive || time.Since(client.lastActivity) > 5*time.Minute {
			stale = append(stale, client)
		}
	}
	h.mutex.Unlock()

	for _, client := range stale {
		logrus.Warnf("Removing inactive client: %s", client.userID)
		client.cleanup()
	}
}

func (h *Hub) Shutdown() {
	logrus.Info("Shutting down WebSocket Hub...")

	h.cleanupTicker.Stop()
	h.cancel()

	h.mutex.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mutex.Unlock()

	for _, client := range clients {
		client.cleanup()
	}

	logrus.Info("WebSocket Hub shutdown complete")
}
