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

type ApplicationRepository struct {
	collection *mongo.Collection
}

func NewApplicationRepository(database *mongo.Database) *ApplicationRepository {
	return &ApplicationRepository{
		collection: database.Collection("volunteer_applications"),
	}
}

func (ar *ApplicationRepository) Create(ctx context.Context, app *models.VolunteerApplication) error {
	app.ID = primitive.NewObjectID()
	app.CreatedAt = time.Now()
	app.UpdatedAt = time.Now()
	app.Status = models.ApplicationStatusPending

	_, err := ar.collection.InsertOne(ctx, app)
	if err != nil {
		logrus.Errorf("Failed to create volunteer application: %v", err)
		return err
	}

	return nil
}

func (ar *ApplicationRepository) GetByID(ctx context.Context, id string) (*models.VolunteerApplication, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.New("invalid application ID")
	}

	var app models.VolunteerApplication
	err = ar.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&app)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.New("not found")
		}
		return nil, err
	}

	return &app, nil
}

// GetPendingByUser returns the user's open application, if any. One pending
// application per user is enforced at the service level.
func (ar *ApplicationRepository) GetPendingByUser(ctx context.Context, userID string) (*models.VolunteerApplication, error) {
	userObjectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, errors.New("invalid user ID")
	}

	var app models.VolunteerApplication
	err = ar.collection.FindOne(ctx, bson.M{
		"userId": userObjectID,
		"status": models.ApplicationStatusPending,
	}).Decode(&app)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	return &app, nil
}

func (ar *ApplicationRepository) List(ctx context.Context, status string) ([]models.VolunteerApplication, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := ar.collection.Find(ctx, filter, opts)
	if err != nil {
		logrus.Errorf("Failed to list volunteer applications: %v", err)
		return nil, err
	}
	defer cursor.Close(ctx)

	var apps []models.VolunteerApplication
	if err = cursor.All(ctx, &apps); err != nil {
		return nil, err
	}

	return apps, nil
}

// Review moves a pending application to approved or rejected. The status
// filter keeps a second concurrent review from overwriting the first.
func (ar *ApplicationRepository) Review(ctx context.Context, id, status, reviewerID string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid application ID")
	}
	reviewerObjectID, err := primitive.ObjectIDFromHex(reviewerID)
	if err != nil {
		return errors.New("invalid reviewer ID")
	}

	now := time.Now()
	result, err := ar.collection.UpdateOne(
		ctx,
		bson.M{"_id": objectID, "status": models.ApplicationStatusPending},
		bson.M{"$set": bson.M{
			"status":     status,
			"reviewedBy": reviewerObjectID,
			"reviewedAt": now,
			"updatedAt":  now,
		}},
	)
	if err != nil {
		logrus.Errorf("Failed to review application: %v", err)
		return err
	}

	if result.MatchedCount == 0 {
		return errors.New("application not found or already reviewed")
	}

	return nil
}
