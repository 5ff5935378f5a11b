package websocket

import (
	"floodguard/models"
	"sync"
	"time"
)

// Room is a named broadcast group of clients.
type Room struct {
	id           string
	clients      map[*Client]bool
	lastActivity time.Time
	mutex        sync.RWMutex
}

func NewRoom(id string) *Room {
	return &Room{
		id:           id,
		clients:      make(map[*Client]bool),
		lastActivity: time.Now(),
	}
}

func (r *Room) AddClient(client *Client) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.clients[client] = true
	r.lastActivity = time.Now()
}

func (r *Room) RemoveClient(client *Client) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	delete(r.clients, client)
	r.lastActivity = time.Now()
}

func (r *Room) Broadcast(message models.WSMessage, excludeUserID string) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for client := range r.clients {
		if excludeUserID != "" && client.userID == excludeUserID {
			continue
		}
		client.SendMessage(message)
	}

	r.lastActivity = time.Now()
}

func (r *Room) IsEmpty() bool {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.clients) == 0
}

func (r *Room) ClientCount() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.clients)
}
