package services

import (
	"context"
	"errors"
	"floodguard/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errNotFound = errors.New("not found")

type fakeIncidentStore struct {
	incidents []*models.Incident
}

func (f *fakeIncidentStore) Create(ctx context.Context, incident *models.Incident) error {
	incident.ID = primitive.NewObjectID()
	f.incidents = append(f.incidents, incident)
	return nil
}

func (f *fakeIncidentStore) GetByID(ctx context.Context, id string) (*models.Incident, error) {
	for _, incident := range f.incidents {
		if incident.ID.Hex() == id {
			return incident, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeIncidentStore) GetByReporter(ctx context.Context, reporterID string) ([]models.Incident, error) {
	var out []models.Incident
	for _, incident := range f.incidents {
		if incident.ReporterID.Hex() == reporterID {
			out = append(out, *incident)
		}
	}
	return out, nil
}

func (f *fakeIncidentStore) GetAll(ctx context.Context, page, pageSize int) ([]models.Incident, int64, error) {
	return nil, 0, nil
}

type fakeGeocoder struct {
	reverseName string
}

func (f *fakeGeocoder) Forward(ctx context.Context, address string) (*models.GeocodeResult, error) {
	return &models.GeocodeResult{DisplayName: address, Latitude: 33.6844, Longitude: 73.0479}, nil
}

func (f *fakeGeocoder) Reverse(ctx context.Context, lat, lon float64) (string, error) {
	return f.reverseName, nil
}

type fakeTriageQueue struct {
	queued []string
}

func (f *fakeTriageQueue) Enqueue(incidentID string) {
	f.queued = append(f.queued, incidentID)
}

func TestIncidentService_Submit(t *testing.T) {
	store := &fakeIncidentStore{}
	queue := &fakeTriageQueue{}
	service := NewIncidentService(store, &fakeGeocoder{}, queue)
	reporterID := primitive.NewObjectID().Hex()

	incident, err := service.Submit(context.Background(), reporterID, &models.SubmitIncidentRequest{
		Latitude:    33.7,
		Longitude:   73.1,
		Address:     "Saidpur Village",
		Severity:    models.SeverityMedium,
		Description: "Water entering ground floors",
	}, "https://media.example.com/photo.jpg")
	require.NoError(t, err)

	assert.Equal(t, models.IncidentStatusReported, incident.Status)
	assert.Equal(t, models.SeverityMedium, incident.Severity)
	assert.Equal(t, "Saidpur Village", incident.Address)
	assert.Equal(t, "https://media.example.com/photo.jpg", incident.PhotoURL)

	require.Len(t, queue.queued, 1)
	assert.Equal(t, incident.ID.Hex(), queue.queued[0])
}

func TestIncidentService_SubmitFillsAddressFromReverseGeocode(t *testing.T) {
	store := &fakeIncidentStore{}
	service := NewIncidentService(store, &fakeGeocoder{reverseName: "Blue Area, Islamabad"}, &fakeTriageQueue{})

	incident, err := service.Submit(context.Background(), primitive.NewObjectID().Hex(), &models.SubmitIncidentRequest{
		Latitude:  33.7,
		Longitude: 73.1,
	}, "")
	require.NoError(t, err)

	assert.Equal(t, "Blue Area, Islamabad", incident.Address)
	assert.Equal(t, models.SeverityLow, incident.Severity)
}

func TestIncidentService_SubmitRejectsBadCoordinates(t *testing.T) {
	service := NewIncidentService(&fakeIncidentStore{}, &fakeGeocoder{}, &fakeTriageQueue{})

	_, err := service.Submit(context.Background(), primitive.NewObjectID().Hex(), &models.SubmitIncidentRequest{
		Latitude:  91,
		Longitude: 73.1,
	}, "")
	require.Error(t, err)
}

func TestIncidentService_SubmitDefaultsOmittedSeverity(t *testing.T) {
	store := &fakeIncidentStore{}
	service := NewIncidentService(store, &fakeGeocoder{}, &fakeTriageQueue{})

	incident, err := service.Submit(context.Background(), primitive.NewObjectID().Hex(), &models.SubmitIncidentRequest{
		Latitude:  33.7,
		Longitude: 73.1,
		Address:   "Saidpur Village",
	}, "")
	require.NoError(t, err)

	assert.Equal(t, models.SeverityLow, incident.Severity)
}

func TestIncidentService_SubmitRejectsUnknownSeverity(t *testing.T) {
	service := NewIncidentService(&fakeIncidentStore{}, &fakeGeocoder{}, &fakeTriageQueue{})

	_, err := service.Submit(context.Background(), primitive.NewObjectID().Hex(), &models.SubmitIncidentRequest{
		Latitude:  33.7,
		Longitude: 73.1,
		Severity:  "catastrophic",
	}, "")
	require.Error(t, err)
}

func TestIncidentService_DuplicateSubmissionsAreSeparateIncidents(t *testing.T) {
	store := &fakeIncidentStore{}
	queue := &fakeTriageQueue{}
	service := NewIncidentService(store, &fakeGeocoder{}, queue)
	reporterID := primitive.NewObjectID().Hex()

	req := &models.SubmitIncidentRequest{
		Latitude:    33.7,
		Longitude:   73.1,
		Address:     "same place",
		Description: "same words",
	}

	first, err := service.Submit(context.Background(), reporterID, req, "")
	require.NoError(t, err)
	second, err := service.Submit(context.Background(), reporterID, req, "")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, store.incidents, 2)
	assert.Len(t, queue.queued, 2)
}

func TestIncidentService_GetMyIncidents(t *testing.T) {
	store := &fakeIncidentStore{}
	service := NewIncidentService(store, &fakeGeocoder{}, &fakeTriageQueue{})
	reporterID := primitive.NewObjectID().Hex()

	_, err := service.Submit(context.Background(), reporterID, &models.SubmitIncidentRequest{
		Latitude:  33.7,
		Longitude: 73.1,
		Address:   "x",
	}, "")
	require.NoError(t, err)

	mine, err := service.GetMyIncidents(context.Background(), reporterID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	other, err := service.GetMyIncidents(context.Background(), primitive.NewObjectID().Hex())
	require.NoError(t, err)
	assert.NotNil(t, other)
	assert.Empty(t, other)
}
