package services

import (
	"context"
	"floodguard/models"
	"floodguard/utils"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IncidentStore is the slice of the incident repository the service needs.
type IncidentStore interface {
	Create(ctx context.Context, incident *models.Incident) error
	GetByID(ctx context.Context, id string) (*models.Incident, error)
	GetByReporter(ctx context.Context, reporterID string) ([]models.Incident, error)
	GetAll(ctx context.Context, page, pageSize int) ([]models.Incident, int64, error)
}

// TriageQueue hands a freshly reported incident to the triage worker.
type TriageQueue interface {
	Enqueue(incidentID string)
}

type IncidentService struct {
	incidentStore IncidentStore
	geocoder      Geocoder
	triageQueue   TriageQueue
}

func NewIncidentService(incidentStore IncidentStore, geocoder Geocoder, triageQueue TriageQueue) *IncidentService {
	return &IncidentService{
		incidentStore: incidentStore,
		geocoder:      geocoder,
		triageQueue:   triageQueue,
	}
}

// Submit records a new incident report and queues it for triage. Every
// submission is a fresh document; two identical reports from a panicked
// resident are two incidents, and triage sorts them out.
func (s *IncidentService) Submit(ctx context.Context, reporterID string, req *models.SubmitIncidentRequest, photoURL string) (*models.Incident, error) {
	if !utils.IsValidCoordinate(req.Latitude, req.Longitude) {
		return nil, utils.NewValidationError("Invalid coordinates")
	}

	severity := req.Severity
	switch severity {
	case "":
		severity = models.SeverityLow
	case models.SeverityLow, models.SeverityMedium, models.SeverityHigh:
	default:
		return nil, utils.NewValidationError("Severity must be low, medium, or high")
	}

	reporterObjectID, err := primitive.ObjectIDFromHex(reporterID)
	if err != nil {
		return nil, utils.NewValidationError("Invalid reporter ID")
	}

	address := req.Address
	if address == "" {
		// Best effort; the geocoder falls back to the coordinate string
		address, _ = s.geocoder.Reverse(ctx, req.Latitude, req.Longitude)
	}

	incident := &models.Incident{
		ReporterID: reporterObjectID,
		Location: models.GeoPoint{
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
		},
		Address:     address,
		Severity:    severity,
		Description: req.Description,
		PhotoURL:    photoURL,
		Status:      models.IncidentStatusReported,
	}

	if err := s.incidentStore.Create(ctx, incident); err != nil {
		return nil, utils.NewServiceError("SUBMIT_FAILED", "Failed to submit incident report")
	}

	s.triageQueue.Enqueue(incident.ID.Hex())

	logrus.Infof("Incident %s reported at %s", incident.ID.Hex(), utils.FormatCoordinates(req.Latitude, req.Longitude))
	return incident, nil
}

func (s *IncidentService) GetIncident(ctx context.Context, id string) (*models.Incident, error) {
	incident, err := s.incidentStore.GetByID(ctx, id)
	if err != nil {
		return nil, utils.NewNotFoundError("Incident")
	}
	return incident, nil
}

// GetMyIncidents returns the caller's own reports, newest first.
func (s *IncidentService) GetMyIncidents(ctx context.Context, reporterID string) ([]models.Incident, error) {
	incidents, err := s.incidentStore.GetByReporter(ctx, reporterID)
	if err != nil {
		return nil, utils.NewServiceError("LIST_FAILED", "Failed to list incidents")
	}
	if incidents == nil {
		incidents = []models.Incident{}
	}
	return incidents, nil
}

// ListIncidents is the admin view over all reports.
func (s *IncidentService) ListIncidents(ctx context.Context, page, pageSize int) ([]models.Incident, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	incidents, total, err := s.incidentStore.GetAll(ctx, page, pageSize)
	if err != nil {
		return nil, 0, utils.NewServiceError("LIST_FAILED", "Failed to list incidents")
	}
	if incidents == nil {
		incidents = []models.Incident{}
	}
	return incidents, total, nil
}
