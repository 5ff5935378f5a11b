package repositories

import (
	"context"
	"errors"
	"floodguard/models"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type NewsRepository struct {
	collection *mongo.Collection
}

func NewNewsRepository(database *mongo.Database) *NewsRepository {
	return &NewsRepository{
		collection: database.Collection("news"),
	}
}

func (nr *NewsRepository) Get(ctx context.Context, locationID string) (*models.NewsFeed, error) {
	var feed models.NewsFeed
	err := nr.collection.FindOne(ctx, bson.M{"_id": locationID}).Decode(&feed)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.New("not found")
		}
		logrus.Errorf("Failed to get news feed %s: %v", locationID, err)
		return nil, err
	}

	return &feed, nil
}

// Upsert replaces the cached feed for a location key. There is no TTL;
// refreshes happen only on explicit user action.
func (nr *NewsRepository) Upsert(ctx context.Context, feed *models.NewsFeed) error {
	feed.LastUpdated = time.Now()

	opts := options.Replace().SetUpsert(true)
	_, err := nr.collection.ReplaceOne(ctx, bson.M{"_id": feed.LocationID}, feed, opts)
	if err != nil {
		logrus.Errorf("Failed to upsert news feed %s: %v", feed.LocationID, err)
		return err
	}

	return nil
}
