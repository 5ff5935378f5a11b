package repositories

import (
	"context"
	"errors"
	"floodguard/models"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type LocationRepository struct {
	collection *mongo.Collection
}

func NewLocationRepository(database *mongo.Database) *LocationRepository {
	return &LocationRepository{
		collection: database.Collection("saved_locations"),
	}
}

func (lr *LocationRepository) Create(ctx context.Context, location *models.SavedLocation) error {
	location.ID = primitive.NewObjectID()
	location.CreatedAt = time.Now()

	_, err := lr.collection.InsertOne(ctx, location)
	if err != nil {
		logrus.Errorf("Failed to save location: %v", err)
		return err
	}

	return nil
}

func (lr *LocationRepository) GetByUser(ctx context.Context, userID string) ([]models.SavedLocation, error) {
	userObjectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, errors.New("invalid user ID")
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := lr.collection.Find(ctx, bson.M{"userId": userObjectID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var locations []models.SavedLocation
	if err = cursor.All(ctx, &locations); err != nil {
		return nil, err
	}

	return locations, nil
}

func (lr *LocationRepository) Delete(ctx context.Context, userID, locationID string) error {
	userObjectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return errors.New("invalid user ID")
	}
	objectID, err := primitive.ObjectIDFromHex(locationID)
	if err != nil {
		return errors.New("invalid location ID")
	}

	result, err := lr.collection.DeleteOne(ctx, bson.M{"_id": objectID, "userId": userObjectID})
	if err != nil {
		logrus.Errorf("Failed to delete saved location: %v", err)
		return err
	}

	if result.DeletedCount == 0 {
		return errors.New("saved location not found")
	}

	return nil
}
