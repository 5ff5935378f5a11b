package websocket

import (
	"context"
	"encoding/json"
	"floodguard/models"
	"floodguard/utils"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 4096

	sendBufferSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict origins once the web client domain is fixed
		return true
	},
}

// Upgrade converts an HTTP request into a websocket connection.
func Upgrade(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return upgrader.Upgrade(w, r, nil)
}

type Client struct {
	conn *websocket.Conn

	userID string
	role   string
	rooms  []string

	connectionID string
	connectedAt  time.Time
	lastActivity time.Time

	// Buffered channel of outbound messages
	send chan models.WSMessage

	hub *Hub

	rateLimiter *utils.RateLimiter

	isActive bool

	closeOnce sync.Once
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewClient wraps an authenticated, upgraded connection. Volunteers and
// admins join the volunteers room automatically; everyone sees alerts.
func NewClient(conn *websocket.Conn, hub *Hub, userID, role string) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	rooms := []string{models.WSRoomAlerts}
	if role == models.RoleVolunteer || role == models.RoleAdmin {
		rooms = append(rooms, models.WSRoomVolunteers)
	}

	return &Client{
		conn:         conn,
		hub:          hub,
		userID:       userID,
		role:         role,
		rooms:        rooms,
		send:         make(chan models.WSMessage, sendBufferSize),
		connectionID: utils.GenerateUUID(),
		connectedAt:  time.Now(),
		lastActivity: time.Now(),
		rateLimiter:  utils.NewRateLimiter(60, time.Minute),
		isActive:     true,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Register announces the client to the hub. Call before starting the pumps.
func (c *Client) Register() {
	c.hub.register <- c
}

func (c *Client) ReadPump() {
	defer c.cleanup()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
			_, messageData, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					logrus.Errorf("WebSocket error for user %s: %v", c.userID, err)
				}
				return
			}

			c.lastActivity = time.Now()

			if !c.rateLimiter.Allow() {
				c.sendError("Rate limit exceeded")
				continue
			}

			c.handleFrame(messageData)
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.ctx.Done():
			return

		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				logrus.Errorf("Write error for user %s: %v", c.userID, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleFrame(messageData []byte) {
	var frame models.WSClientFrame
	if err := json.Unmarshal(messageData, &frame); err != nil {
		c.sendError("Invalid message format")
		return
	}

	switch frame.Type {
	case models.WSTypePing:
		c.SendMessage(models.WSMessage{Type: models.WSTypePong, Timestamp: time.Now()})

	case models.WSTypeSubscribe:
		if frame.Room != models.WSRoomAlerts && frame.Room != models.WSRoomVolunteers {
			c.sendError("Unknown room")
			return
		}
		if frame.Room == models.WSRoomVolunteers && c.role != models.RoleVolunteer && c.role != models.RoleAdmin {
			c.sendError("Volunteer role required")
			return
		}
		c.hub.Subscribe(c, frame.Room)

	case models.WSTypeUnsubscribe:
		c.hub.Unsubscribe(c, frame.Room)

	default:
		c.sendError("Unknown message type")
	}
}

func (c *Client) sendError(message string) {
	errorMsg := models.WSMessage{
		Type:      models.WSTypeError,
		Data:      map[string]string{"message": message},
		Timestamp: time.Now(),
	}

	select {
	case c.send <- errorMsg:
	default:
		// Channel full
	}
}

func (c *Client) SendMessage(message models.WSMessage) {
	if !c.isActive {
		return
	}

	select {
	case c.send <- message:
	default:
		// Channel full, likely client disconnected
		logrus.Warnf("Send channel full for user %s", c.userID)
	}
}

func (c *Client) addRoom(roomID string) {
	for _, existing := range c.rooms {
		if existing == roomID {
			return
		}
	}
	c.rooms = append(c.rooms, roomID)
}

func (c *Client) removeRoom(roomID string) {
	for i, existing := range c.rooms {
		if existing == roomID {
			c.rooms = append(c.rooms[:i], c.rooms[i+1:]...)
			return
		}
	}
}

func (c *Client) cleanup() {
	c.closeOnce.Do(func() {
		c.isActive = false
		c.cancel()

		c.hub.unregister <- c

		close(c.send)
		c.conn.Close()

		logrus.Infof("Client disconnected: %s (%s)", c.userID, c.connectionID)
	})
}
