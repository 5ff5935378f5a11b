package services

import (
	"context"
	"floodguard/models"
	"floodguard/utils"
	"strings"
)

const chatHistoryLimit = 50

// ChatStore is the slice of the chat repository the service needs.
type ChatStore interface {
	Create(ctx context.Context, message *models.ChatMessage) error
	GetRecent(ctx context.Context, limit int64) ([]models.ChatMessage, error)
}

// ChatBroadcaster fans a stored message out to connected volunteers.
type ChatBroadcaster interface {
	BroadcastChatMessage(message *models.ChatMessage)
}

// ChatService runs the single shared volunteer coordination channel.
type ChatService struct {
	chatStore   ChatStore
	broadcaster ChatBroadcaster
}

func NewChatService(chatStore ChatStore, broadcaster ChatBroadcaster) *ChatService {
	return &ChatService{
		chatStore:   chatStore,
		broadcaster: broadcaster,
	}
}

// SendMessage appends a message to the log and broadcasts it. The sender's
// name is denormalized onto the message so history renders without a user
// lookup.
func (s *ChatService) SendMessage(ctx context.Context, sender *models.User, text string) (*models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, utils.NewValidationError("Message text is required")
	}
	if len(text) > 2000 {
		return nil, utils.NewValidationError("Message exceeds the 2000 character limit")
	}

	message := &models.ChatMessage{
		UserID:   sender.ID,
		UserName: sender.Name,
		Text:     text,
	}

	if err := s.chatStore.Create(ctx, message); err != nil {
		return nil, utils.NewServiceError("CHAT_SEND_FAILED", "Failed to send message")
	}

	s.broadcaster.BroadcastChatMessage(message)
	return message, nil
}

// GetHistory returns the last messages in display order, oldest first. The
// store reads newest first for the limit; we reverse before returning.
func (s *ChatService) GetHistory(ctx context.Context) ([]models.ChatMessage, error) {
	messages, err := s.chatStore.GetRecent(ctx, chatHistoryLimit)
	if err != nil {
		return nil, utils.NewServiceError("CHAT_READ_FAILED", "Failed to load chat history")
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	if messages == nil {
		messages = []models.ChatMessage{}
	}

	return messages, nil
}
