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

type IncidentRepository struct {
	collection *mongo.Collection
}

func NewIncidentRepository(database *mongo.Database) *IncidentRepository {
	return &IncidentRepository{
		collection: database.Collection("incidents"),
	}
}

// Create inserts a new incident. Duplicate submissions are not deduplicated:
// two identical reports are two independent documents.
func (ir *IncidentRepository) Create(ctx context.Context, incident *models.Incident) error {
	incident.ID = primitive.NewObjectID()
	incident.CreatedAt = time.Now()
	incident.UpdatedAt = time.Now()

	if incident.Status == "" {
		incident.Status = models.IncidentStatusReported
	}

	_, err := ir.collection.InsertOne(ctx, incident)
	if err != nil {
		logrus.Errorf("Failed to create incident: %v", err)
		return err
	}

	return nil
}

func (ir *IncidentRepository) GetByID(ctx context.Context, id string) (*models.Incident, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.New("invalid incident ID")
	}

	var incident models.Incident
	err = ir.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&incident)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.New("not found")
		}
		logrus.Errorf("Failed to get incident by ID: %v", err)
		return nil, err
	}

	return &incident, nil
}

// MarkTriaged records the oracle's verdict, overwriting the reporter's
// severity guess. This is the single mutation an incident receives.
func (ir *IncidentRepository) MarkTriaged(ctx context.Context, id, severity, reason string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid incident ID")
	}

	now := time.Now()
	result, err := ir.collection.UpdateOne(
		ctx,
		bson.M{"_id": objectID, "status": models.IncidentStatusReported},
		bson.M{"$set": bson.M{
			"severity":     severity,
			"triageReason": reason,
			"status":       models.IncidentStatusTriaged,
			"triagedAt":    now,
			"updatedAt":    now,
		}},
	)
	if err != nil {
		logrus.Errorf("Failed to mark incident triaged: %v", err)
		return err
	}

	if result.MatchedCount == 0 {
		return errors.New("incident not found or already triaged")
	}

	return nil
}

// ListUntriaged returns incidents still awaiting triage, oldest first, so a
// restarted worker can catch up.
func (ir *IncidentRepository) ListUntriaged(ctx context.Context, limit int64) ([]models.Incident, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}}).
		SetLimit(limit)

	cursor, err := ir.collection.Find(ctx, bson.M{"status": models.IncidentStatusReported}, opts)
	if err != nil {
		logrus.Errorf("Failed to list untriaged incidents: %v", err)
		return nil, err
	}
	defer cursor.Close(ctx)

	var incidents []models.Incident
	if err = cursor.All(ctx, &incidents); err != nil {
		return nil, err
	}

	return incidents, nil
}

func (ir *IncidentRepository) GetByReporter(ctx context.Context, reporterID string) ([]models.Incident, error) {
	reporterObjectID, err := primitive.ObjectIDFromHex(reporterID)
	if err != nil {
		return nil, errors.New("invalid reporter ID")
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := ir.collection.Find(ctx, bson.M{"reporterId": reporterObjectID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var incidents []models.Incident
	if err = cursor.All(ctx, &incidents); err != nil {
		return nil, err
	}

	return incidents, nil
}

func (ir *IncidentRepository) GetAll(ctx context.Context, page, pageSize int) ([]models.Incident, int64, error) {
	total, err := ir.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := ir.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var incidents []models.Incident
	if err = cursor.All(ctx, &incidents); err != nil {
		return nil, 0, err
	}

	return incidents, total, nil
}
