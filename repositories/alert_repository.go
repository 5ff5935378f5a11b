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

// ErrAlertNotClaimable is returned when a conditional transition matched no
// document: the alert is gone, already claimed, or already resolved.
var ErrAlertNotClaimable = errors.New("alert is not in the required state")

type AlertRepository struct {
	collection *mongo.Collection
}

func NewAlertRepository(database *mongo.Database) *AlertRepository {
	return &AlertRepository{
		collection: database.Collection("alerts"),
	}
}

func (ar *AlertRepository) Create(ctx context.Context, alert *models.Alert) error {
	alert.ID = primitive.NewObjectID()
	alert.CreatedAt = time.Now()
	alert.UpdatedAt = time.Now()

	if alert.Status == "" {
		alert.Status = models.AlertStatusActive
	}

	_, err := ar.collection.InsertOne(ctx, alert)
	if err != nil {
		logrus.Errorf("Failed to create alert: %v", err)
		return err
	}

	return nil
}

func (ar *AlertRepository) GetByID(ctx context.Context, id string) (*models.Alert, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.New("invalid alert ID")
	}

	var alert models.Alert
	err = ar.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&alert)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.New("not found")
		}
		logrus.Errorf("Failed to get alert by ID: %v", err)
		return nil, err
	}

	return &alert, nil
}

// ListOpen returns alerts in the live-query window: status active or
// accepted, newest first.
func (ar *AlertRepository) ListOpen(ctx context.Context) ([]models.Alert, error) {
	filter := bson.M{"status": bson.M{"$in": []string{models.AlertStatusActive, models.AlertStatusAccepted}}}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := ar.collection.Find(ctx, filter, opts)
	if err != nil {
		logrus.Errorf("Failed to list open alerts: %v", err)
		return nil, err
	}
	defer cursor.Close(ctx)

	var alerts []models.Alert
	if err = cursor.All(ctx, &alerts); err != nil {
		return nil, err
	}

	return alerts, nil
}

// ListUnassignedHigh returns active high-risk alerts available for claiming.
func (ar *AlertRepository) ListUnassignedHigh(ctx context.Context) ([]models.Alert, error) {
	filter := bson.M{
		"status":    models.AlertStatusActive,
		"riskScore": models.RiskHigh,
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := ar.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var alerts []models.Alert
	if err = cursor.All(ctx, &alerts); err != nil {
		return nil, err
	}

	return alerts, nil
}

// GetAssigned returns the accepted, unresolved alert held by a volunteer,
// or nil when they hold none.
func (ar *AlertRepository) GetAssigned(ctx context.Context, volunteerID string) (*models.Alert, error) {
	volObjectID, err := primitive.ObjectIDFromHex(volunteerID)
	if err != nil {
		return nil, errors.New("invalid volunteer ID")
	}

	var alert models.Alert
	err = ar.collection.FindOne(ctx, bson.M{
		"status":            models.AlertStatusAccepted,
		"assignedVolunteer": volObjectID,
	}).Decode(&alert)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	return &alert, nil
}

// Claim atomically transitions an alert from active to accepted for one
// volunteer. The status filter in the update makes the double-accept race
// impossible: the second caller matches nothing and gets
// ErrAlertNotClaimable.
func (ar *AlertRepository) Claim(ctx context.Context, alertID, volunteerID string) (*models.Alert, error) {
	objectID, err := primitive.ObjectIDFromHex(alertID)
	if err != nil {
		return nil, errors.New("invalid alert ID")
	}
	volObjectID, err := primitive.ObjectIDFromHex(volunteerID)
	if err != nil {
		return nil, errors.New("invalid volunteer ID")
	}

	now := time.Now()
	filter := bson.M{
		"_id":    objectID,
		"status": models.AlertStatusActive,
	}
	update := bson.M{"$set": bson.M{
		"status":            models.AlertStatusAccepted,
		"assignedVolunteer": volObjectID,
		"acceptedAt":        now,
		"updatedAt":         now,
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var alert models.Alert
	err = ar.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&alert)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrAlertNotClaimable
		}
		logrus.Errorf("Failed to claim alert %s: %v", alertID, err)
		return nil, err
	}

	return &alert, nil
}

// Resolve atomically transitions an alert from accepted to resolved, but
// only when the caller is the assigned volunteer.
func (ar *AlertRepository) Resolve(ctx context.Context, alertID, volunteerID string) (*models.Alert, error) {
	objectID, err := primitive.ObjectIDFromHex(alertID)
	if err != nil {
		return nil, errors.New("invalid alert ID")
	}
	volObjectID, err := primitive.ObjectIDFromHex(volunteerID)
	if err != nil {
		return nil, errors.New("invalid volunteer ID")
	}

	now := time.Now()
	filter := bson.M{
		"_id":               objectID,
		"status":            models.AlertStatusAccepted,
		"assignedVolunteer": volObjectID,
	}
	update := bson.M{"$set": bson.M{
		"status":     models.AlertStatusResolved,
		"resolvedBy": volObjectID,
		"resolvedAt": now,
		"updatedAt":  now,
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var alert models.Alert
	err = ar.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&alert)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrAlertNotClaimable
		}
		logrus.Errorf("Failed to resolve alert %s: %v", alertID, err)
		return nil, err
	}

	return &alert, nil
}

func (ar *AlertRepository) GetAll(ctx context.Context, page, pageSize int) ([]models.Alert, int64, error) {
	total, err := ar.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := ar.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var alerts []models.Alert
	if err = cursor.All(ctx, &alerts); err != nil {
		return nil, 0, err
	}

	return alerts, total, nil
}
