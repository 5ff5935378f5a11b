package models

import "time"

// WSMessage is the envelope for every frame pushed to clients.
type WSMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// WebSocket event types
const (
	WSTypeAlertCreated  = "alert.created"
	WSTypeAlertUpdated  = "alert.updated"
	WSTypeChatMessage   = "chat.message"
	WSTypeUserStatus    = "user.status"
	WSTypeNotification  = "notification"
	WSTypeSubscribe     = "subscribe"
	WSTypeUnsubscribe   = "unsubscribe"
	WSTypePing          = "ping"
	WSTypePong          = "pong"
	WSTypeError         = "error"
)

// Room names for hub subscriptions
const (
	WSRoomVolunteers = "volunteers"
	WSRoomAlerts     = "alerts"
)

type WSUserStatus struct {
	UserID    string    `json:"userId"`
	Status    string    `json:"status"`
	IsOnline  bool      `json:"isOnline"`
	Timestamp time.Time `json:"timestamp"`
}

type WSAlertEvent struct {
	Alert     *Alert    `json:"alert"`
	Timestamp time.Time `json:"timestamp"`
}

type WSClientFrame struct {
	Type string `json:"type"`
	Room string `json:"room,omitempty"`
}
