package services

import (
	"context"
	"errors"
	"floodguard/models"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeChatStore struct {
	messages  []models.ChatMessage
	createErr error

	lastLimit int64
}

func (f *fakeChatStore) Create(ctx context.Context, message *models.ChatMessage) error {
	if f.createErr != nil {
		return f.createErr
	}
	message.ID = primitive.NewObjectID()
	message.Timestamp = time.Now()
	f.messages = append(f.messages, *message)
	return nil
}

func (f *fakeChatStore) GetRecent(ctx context.Context, limit int64) ([]models.ChatMessage, error) {
	f.lastLimit = limit

	// Newest first, like the repository
	out := make([]models.ChatMessage, 0, len(f.messages))
	for i := len(f.messages) - 1; i >= 0; i-- {
		out = append(out, f.messages[i])
		if int64(len(out)) == limit {
			break
		}
	}
	return out, nil
}

type fakeChatBroadcaster struct {
	broadcasts []*models.ChatMessage
}

func (f *fakeChatBroadcaster) BroadcastChatMessage(message *models.ChatMessage) {
	f.broadcasts = append(f.broadcasts, message)
}

func testSender() *models.User {
	return &models.User{
		ID:   primitive.NewObjectID(),
		Name: "Ayesha Khan",
		Role: models.RoleVolunteer,
	}
}

func TestChatService_SendMessage(t *testing.T) {
	store := &fakeChatStore{}
	broadcaster := &fakeChatBroadcaster{}
	service := NewChatService(store, broadcaster)
	sender := testSender()

	message, err := service.SendMessage(context.Background(), sender, "  Boats needed at the east bank  ")
	require.NoError(t, err)

	assert.Equal(t, "Boats needed at the east bank", message.Text)
	assert.Equal(t, sender.ID, message.UserID)
	assert.Equal(t, "Ayesha Khan", message.UserName)
	require.Len(t, broadcaster.broadcasts, 1)
	assert.Equal(t, message, broadcaster.broadcasts[0])
}

func TestChatService_SendMessageRejectsEmptyText(t *testing.T) {
	service := NewChatService(&fakeChatStore{}, &fakeChatBroadcaster{})

	_, err := service.SendMessage(context.Background(), testSender(), "   ")
	require.Error(t, err)

	_, err = service.SendMessage(context.Background(), testSender(), "")
	require.Error(t, err)
}

func TestChatService_SendMessageRejectsOversizedText(t *testing.T) {
	service := NewChatService(&fakeChatStore{}, &fakeChatBroadcaster{})

	_, err := service.SendMessage(context.Background(), testSender(), strings.Repeat("a", 2001))
	require.Error(t, err)
}

func TestChatService_SendMessageDoesNotBroadcastOnStoreFailure(t *testing.T) {
	store := &fakeChatStore{createErr: errors.New("write failed")}
	broadcaster := &fakeChatBroadcaster{}
	service := NewChatService(store, broadcaster)

	_, err := service.SendMessage(context.Background(), testSender(), "hello")
	require.Error(t, err)
	assert.Empty(t, broadcaster.broadcasts)
}

func TestChatService_GetHistoryReturnsDisplayOrder(t *testing.T) {
	store := &fakeChatStore{}
	service := NewChatService(store, &fakeChatBroadcaster{})
	sender := testSender()

	for _, text := range []string{"first", "second", "third"} {
		_, err := service.SendMessage(context.Background(), sender, text)
		require.NoError(t, err)
	}

	history, err := service.GetHistory(context.Background())
	require.NoError(t, err)

	require.Len(t, history, 3)
	assert.Equal(t, "first", history[0].Text)
	assert.Equal(t, "second", history[1].Text)
	assert.Equal(t, "third", history[2].Text)
	assert.Equal(t, int64(50), store.lastLimit)
}

func TestChatService_GetHistoryEmpty(t *testing.T) {
	service := NewChatService(&fakeChatStore{}, &fakeChatBroadcaster{})

	history, err := service.GetHistory(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)
}
