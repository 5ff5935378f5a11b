package repositories

import (
	"context"
	"floodguard/models"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ChatRepository struct {
	collection *mongo.Collection
}

func NewChatRepository(database *mongo.Database) *ChatRepository {
	return &ChatRepository{
		collection: database.Collection("volunteer_chats"),
	}
}

// Create appends a message. The timestamp is assigned here, server-side;
// client clocks are never authoritative.
func (cr *ChatRepository) Create(ctx context.Context, message *models.ChatMessage) error {
	message.ID = primitive.NewObjectID()
	message.Timestamp = time.Now()

	_, err := cr.collection.InsertOne(ctx, message)
	if err != nil {
		logrus.Errorf("Failed to create chat message: %v", err)
		return err
	}

	return nil
}

// GetRecent returns the most recent messages, newest first. Callers reverse
// for display.
func (cr *ChatRepository) GetRecent(ctx context.Context, limit int64) ([]models.ChatMessage, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)

	cursor, err := cr.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		logrus.Errorf("Failed to get recent chat messages: %v", err)
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []models.ChatMessage
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}

	return messages, nil
}
