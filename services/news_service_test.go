package services

import (
	"context"
	"errors"
	"floodguard/models"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLLMNewsOracle_ParsesArticles(t *testing.T) {
	completer := &fakeChatCompleter{
		content: `{"articles": [
			{"title": "River Ravi crosses warning level", "summary": "Authorities issue advisory.", "source": "Dawn", "url": "https://example.com/1"},
			{"title": "Monsoon spell to continue", "summary": "Met office forecasts heavy rain.", "source": "Tribune", "url": "https://example.com/2"}
		]}`,
	}
	oracle := NewLLMNewsOracle(completer, "test-model")

	articles := oracle.FetchNews(context.Background(), "Lahore")

	assert.Len(t, articles, 2)
	assert.Equal(t, "River Ravi crosses warning level", articles[0].Title)
	assert.Equal(t, "Dawn", articles[0].Source)
}

func TestLLMNewsOracle_TruncatesToFourArticles(t *testing.T) {
	completer := &fakeChatCompleter{
		content: `{"articles": [
			{"title": "one"}, {"title": "two"}, {"title": "three"},
			{"title": "four"}, {"title": "five"}, {"title": "six"}
		]}`,
	}
	oracle := NewLLMNewsOracle(completer, "test-model")

	articles := oracle.FetchNews(context.Background(), "Lahore")

	assert.Len(t, articles, 4)
	assert.Equal(t, "four", articles[3].Title)
}

func TestLLMNewsOracle_EmptyOnError(t *testing.T) {
	completer := &fakeChatCompleter{err: errors.New("rate limited")}
	oracle := NewLLMNewsOracle(completer, "test-model")

	articles := oracle.FetchNews(context.Background(), "Lahore")

	assert.NotNil(t, articles)
	assert.Empty(t, articles)
}

func TestLLMNewsOracle_EmptyOnMalformedJSON(t *testing.T) {
	completer := &fakeChatCompleter{content: "no news today"}
	oracle := NewLLMNewsOracle(completer, "test-model")

	articles := oracle.FetchNews(context.Background(), "Lahore")

	assert.NotNil(t, articles)
	assert.Empty(t, articles)
}

func TestLLMNewsOracle_EmptyOnNullArticles(t *testing.T) {
	completer := &fakeChatCompleter{content: `{"articles": null}`}
	oracle := NewLLMNewsOracle(completer, "test-model")

	articles := oracle.FetchNews(context.Background(), "Lahore")

	assert.NotNil(t, articles)
	assert.Empty(t, articles)
}

// failingNewsOracle lets service tests simulate a dead oracle without a
// model client.
type failingNewsOracle struct{}

func (failingNewsOracle) FetchNews(ctx context.Context, location string) []models.NewsItem {
	return []models.NewsItem{}
}

func TestNewsService_RejectsEmptyLocation(t *testing.T) {
	service := NewNewsService(nil, nil, failingNewsOracle{})

	_, err := service.GetNews(context.Background(), "   ")
	assert.Error(t, err)

	_, err = service.RefreshNews(context.Background(), "")
	assert.Error(t, err)
}
