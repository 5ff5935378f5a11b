package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatMessage is one entry in the append-only volunteer chat log.
// Messages are never edited or deleted; ordering is by server timestamp.
type ChatMessage struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	UserName  string             `json:"userName" bson:"userName"`
	Text      string             `json:"text" bson:"text"`
	Timestamp time.Time          `json:"timestamp" bson:"timestamp"`
}

type SendChatMessageRequest struct {
	Text string `json:"text" binding:"required" validate:"required,min=1,max=2000"`
}
