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

type ReportRepository struct {
	collection *mongo.Collection
}

func NewReportRepository(database *mongo.Database) *ReportRepository {
	return &ReportRepository{
		collection: database.Collection("incident_reports"),
	}
}

// Create stores a resolution report. Reports are terminal: created once,
// never updated or deleted.
func (rr *ReportRepository) Create(ctx context.Context, report *models.IncidentReport) error {
	report.ID = primitive.NewObjectID()
	report.CreatedAt = time.Now()

	_, err := rr.collection.InsertOne(ctx, report)
	if err != nil {
		logrus.Errorf("Failed to create incident report: %v", err)
		return err
	}

	return nil
}

func (rr *ReportRepository) GetByAlert(ctx context.Context, alertID string) (*models.IncidentReport, error) {
	alertObjectID, err := primitive.ObjectIDFromHex(alertID)
	if err != nil {
		return nil, errors.New("invalid alert ID")
	}

	var report models.IncidentReport
	err = rr.collection.FindOne(ctx, bson.M{"alertId": alertObjectID}).Decode(&report)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.New("not found")
		}
		return nil, err
	}

	return &report, nil
}

func (rr *ReportRepository) GetByVolunteer(ctx context.Context, volunteerID string) ([]models.IncidentReport, error) {
	volObjectID, err := primitive.ObjectIDFromHex(volunteerID)
	if err != nil {
		return nil, errors.New("invalid volunteer ID")
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := rr.collection.Find(ctx, bson.M{"volunteerId": volObjectID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reports []models.IncidentReport
	if err = cursor.All(ctx, &reports); err != nil {
		return nil, err
	}

	return reports, nil
}
