package services

import (
	"context"
	"encoding/json"
	"floodguard/models"
	"floodguard/repositories"
	"floodguard/utils"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

const (
	maxNewsArticles = 4
	newsCacheTTL    = 30 * time.Minute
)

// LLMNewsOracle asks a generative model for recent flood and weather news
// around a location. It never errors; failures come back as an empty list.
type LLMNewsOracle struct {
	client ChatCompleter
	model  string
}

func NewLLMNewsOracle(client ChatCompleter, model string) *LLMNewsOracle {
	return &LLMNewsOracle{
		client: client,
		model:  model,
	}
}

const newsPrompt = `You are a local news curator. List up to %d recent news articles about flooding, heavy rainfall, or severe weather near the following location.

Location: %s

Respond with a JSON object only, no other text:
{"articles": [{"title": "...", "summary": "<one sentence>", "source": "<publication name>", "url": "<article url>"}]}`

func (o *LLMNewsOracle) FetchNews(ctx context.Context, location string) []models.NewsItem {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(newsPrompt, maxNewsArticles, location)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		logrus.Warnf("News oracle call failed for %q: %v", location, err)
		return []models.NewsItem{}
	}

	if len(resp.Choices) == 0 {
		logrus.Warnf("News oracle returned no choices for %q", location)
		return []models.NewsItem{}
	}

	var payload struct {
		Articles []models.NewsItem `json:"articles"`
	}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &payload); err != nil {
		logrus.Warnf("News oracle returned malformed JSON for %q: %v", location, err)
		return []models.NewsItem{}
	}

	articles := payload.Articles
	if articles == nil {
		articles = []models.NewsItem{}
	}
	if len(articles) > maxNewsArticles {
		articles = articles[:maxNewsArticles]
	}

	return articles
}

// NewsService serves the dashboard news board. Reads hit Redis first, then
// the Mongo feed collection; the oracle is only consulted on an explicit
// refresh, never on a plain read.
type NewsService struct {
	newsRepo *repositories.NewsRepository
	redis    *redis.Client
	oracle   NewsOracle
}

func NewNewsService(newsRepo *repositories.NewsRepository, redisClient *redis.Client, oracle NewsOracle) *NewsService {
	return &NewsService{
		newsRepo: newsRepo,
		redis:    redisClient,
		oracle:   oracle,
	}
}

// GetNews returns the cached feed for a location. A location with no cached
// feed yet gets an empty article list, not an error.
func (s *NewsService) GetNews(ctx context.Context, location string) (*models.NewsFeed, error) {
	locationID := utils.NormalizeLocationKey(location)
	if locationID == "" {
		return nil, utils.NewValidationError("location is required")
	}

	if feed := s.getFromRedis(ctx, locationID); feed != nil {
		return feed, nil
	}

	feed, err := s.newsRepo.Get(ctx, locationID)
	if err != nil {
		return nil, utils.NewServiceError("NEWS_READ_FAILED", "Failed to read news feed")
	}
	if feed == nil {
		return &models.NewsFeed{
			LocationID: locationID,
			Location:   location,
			Articles:   []models.NewsItem{},
		}, nil
	}

	s.putInRedis(ctx, feed)
	return feed, nil
}

// RefreshNews re-fetches the feed from the oracle and overwrites both
// caches. An oracle failure still succeeds and stores an empty feed, so a
// stale board clears rather than lingering.
func (s *NewsService) RefreshNews(ctx context.Context, location string) (*models.NewsFeed, error) {
	locationID := utils.NormalizeLocationKey(location)
	if locationID == "" {
		return nil, utils.NewValidationError("location is required")
	}

	articles := s.oracle.FetchNews(ctx, location)
	if articles == nil {
		articles = []models.NewsItem{}
	}

	feed := &models.NewsFeed{
		LocationID:  locationID,
		Location:    location,
		Articles:    articles,
		LastUpdated: time.Now(),
	}

	if err := s.newsRepo.Upsert(ctx, feed); err != nil {
		return nil, utils.NewServiceError("NEWS_WRITE_FAILED", "Failed to store news feed")
	}

	s.putInRedis(ctx, feed)

	logrus.Infof("News feed refreshed for %s (%d articles)", locationID, len(articles))
	return feed, nil
}

func (s *NewsService) getFromRedis(ctx context.Context, locationID string) *models.NewsFeed {
	if s.redis == nil {
		return nil
	}

	data, err := s.redis.Get(ctx, newsCacheKey(locationID)).Result()
	if err != nil {
		return nil
	}

	var feed models.NewsFeed
	if err := json.Unmarshal([]byte(data), &feed); err != nil {
		return nil
	}
	return &feed
}

func (s *NewsService) putInRedis(ctx context.Context, feed *models.NewsFeed) {
	if s.redis == nil {
		return
	}

	data, err := json.Marshal(feed)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, newsCacheKey(feed.LocationID), data, newsCacheTTL).Err(); err != nil {
		logrus.Warnf("Failed to cache news feed for %s: %v", feed.LocationID, err)
	}
}

func newsCacheKey(locationID string) string {
	return "news:" + locationID
}
