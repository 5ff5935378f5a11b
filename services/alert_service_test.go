package services

import (
	"context"
	"errors"
	"floodguard/models"
	"floodguard/repositories"
	"floodguard/utils"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeAlertStore struct {
	alerts   map[string]*models.Alert
	assigned map[string]*models.Alert

	claimErr   error
	resolveErr error
	createErr  error
}

func newFakeAlertStore() *fakeAlertStore {
	return &fakeAlertStore{
		alerts:   make(map[string]*models.Alert),
		assigned: make(map[string]*models.Alert),
	}
}

func (f *fakeAlertStore) Create(ctx context.Context, alert *models.Alert) error {
	if f.createErr != nil {
		return f.createErr
	}
	alert.ID = primitive.NewObjectID()
	f.alerts[alert.ID.Hex()] = alert
	return nil
}

func (f *fakeAlertStore) GetByID(ctx context.Context, id string) (*models.Alert, error) {
	alert, ok := f.alerts[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return alert, nil
}

func (f *fakeAlertStore) ListOpen(ctx context.Context) ([]models.Alert, error) {
	return nil, nil
}

func (f *fakeAlertStore) ListUnassignedHigh(ctx context.Context) ([]models.Alert, error) {
	return nil, nil
}

func (f *fakeAlertStore) GetAssigned(ctx context.Context, volunteerID string) (*models.Alert, error) {
	return f.assigned[volunteerID], nil
}

func (f *fakeAlertStore) Claim(ctx context.Context, alertID, volunteerID string) (*models.Alert, error) {
	if f.claimErr != nil {
		return nil, f.claimErr
	}

	alert, ok := f.alerts[alertID]
	if !ok || alert.Status != models.AlertStatusActive {
		return nil, repositories.ErrAlertNotClaimable
	}

	alert.Status = models.AlertStatusAccepted
	alert.AssignedVolunteer, _ = primitive.ObjectIDFromHex(volunteerID)
	f.assigned[volunteerID] = alert
	return alert, nil
}

func (f *fakeAlertStore) Resolve(ctx context.Context, alertID, volunteerID string) (*models.Alert, error) {
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}

	alert, ok := f.alerts[alertID]
	if !ok || alert.Status != models.AlertStatusAccepted || alert.AssignedVolunteer.Hex() != volunteerID {
		return nil, repositories.ErrAlertNotClaimable
	}

	alert.Status = models.AlertStatusResolved
	delete(f.assigned, volunteerID)
	return alert, nil
}

func (f *fakeAlertStore) GetAll(ctx context.Context, page, pageSize int) ([]models.Alert, int64, error) {
	return nil, 0, nil
}

type fakeVolunteerStore struct {
	users    map[string]*models.User
	statuses map[string]string
}

func newFakeVolunteerStore() *fakeVolunteerStore {
	return &fakeVolunteerStore{
		users:    make(map[string]*models.User),
		statuses: make(map[string]string),
	}
}

func (f *fakeVolunteerStore) add(role string) *models.User {
	user := &models.User{
		ID:     primitive.NewObjectID(),
		Name:   "Test User",
		Role:   role,
		Status: models.StatusAvailable,
	}
	f.users[user.ID.Hex()] = user
	return user
}

func (f *fakeVolunteerStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return user, nil
}

func (f *fakeVolunteerStore) UpdateStatus(ctx context.Context, id, status string) error {
	f.statuses[id] = status
	return nil
}

type fakeReportStore struct {
	reports   []*models.IncidentReport
	createErr error
}

func (f *fakeReportStore) Create(ctx context.Context, report *models.IncidentReport) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.reports = append(f.reports, report)
	return nil
}

func (f *fakeReportStore) GetByAlert(ctx context.Context, alertID string) (*models.IncidentReport, error) {
	for _, report := range f.reports {
		if report.AlertID.Hex() == alertID {
			return report, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeReportStore) GetByVolunteer(ctx context.Context, volunteerID string) ([]models.IncidentReport, error) {
	var out []models.IncidentReport
	for _, report := range f.reports {
		if report.VolunteerID.Hex() == volunteerID {
			out = append(out, *report)
		}
	}
	return out, nil
}

type fakeBroadcaster struct {
	alertEvents  []string
	statusEvents []string
}

func (f *fakeBroadcaster) BroadcastAlertEvent(eventType string, alert *models.Alert) {
	f.alertEvents = append(f.alertEvents, eventType)
}

func (f *fakeBroadcaster) BroadcastUserStatus(userID, status string) {
	f.statusEvents = append(f.statusEvents, status)
}

type alertFixture struct {
	service     *AlertService
	alertStore  *fakeAlertStore
	volunteers  *fakeVolunteerStore
	reports     *fakeReportStore
	broadcaster *fakeBroadcaster
}

func newAlertFixture() *alertFixture {
	alertStore := newFakeAlertStore()
	volunteers := newFakeVolunteerStore()
	reports := &fakeReportStore{}
	broadcaster := &fakeBroadcaster{}

	return &alertFixture{
		service:     NewAlertService(alertStore, volunteers, reports, broadcaster, nil),
		alertStore:  alertStore,
		volunteers:  volunteers,
		reports:     reports,
		broadcaster: broadcaster,
	}
}

func (f *alertFixture) activeAlert() *models.Alert {
	alert := &models.Alert{
		Location:  models.GeoPoint{Latitude: 33.7, Longitude: 73.1},
		RiskScore: models.RiskHigh,
		Status:    models.AlertStatusActive,
	}
	alert.ID = primitive.NewObjectID()
	f.alertStore.alerts[alert.ID.Hex()] = alert
	return alert
}

func TestAlertService_CreateFromIncident(t *testing.T) {
	f := newAlertFixture()

	incident := &models.Incident{
		ID:       primitive.NewObjectID(),
		Location: models.GeoPoint{Latitude: 33.7, Longitude: 73.1},
		Address:  "Saidpur Village",
	}

	alert, err := f.service.CreateFromIncident(context.Background(), incident, models.RiskHigh, "rapid rise reported")
	require.NoError(t, err)

	assert.Equal(t, models.AlertStatusActive, alert.Status)
	assert.Equal(t, incident.ID, alert.IncidentID)
	assert.Equal(t, "Saidpur Village", alert.Address)
	assert.Equal(t, []string{models.WSTypeAlertCreated}, f.broadcaster.alertEvents)
}

func TestAlertService_Accept(t *testing.T) {
	f := newAlertFixture()
	alert := f.activeAlert()
	volunteer := f.volunteers.add(models.RoleVolunteer)

	accepted, err := f.service.Accept(context.Background(), alert.ID.Hex(), volunteer.ID.Hex())
	require.NoError(t, err)

	assert.Equal(t, models.AlertStatusAccepted, accepted.Status)
	assert.Equal(t, volunteer.ID, accepted.AssignedVolunteer)
	assert.Equal(t, models.StatusResponding, f.volunteers.statuses[volunteer.ID.Hex()])
	assert.Contains(t, f.broadcaster.alertEvents, models.WSTypeAlertUpdated)
	assert.Contains(t, f.broadcaster.statusEvents, models.StatusResponding)
}

func TestAlertService_AcceptDeniedForNonVolunteers(t *testing.T) {
	f := newAlertFixture()
	alert := f.activeAlert()
	resident := f.volunteers.add(models.RoleRegistered)

	_, err := f.service.Accept(context.Background(), alert.ID.Hex(), resident.ID.Hex())
	require.Error(t, err)
	assert.True(t, utils.IsPermissionError(err))
	assert.Equal(t, models.AlertStatusActive, alert.Status)
}

func TestAlertService_AcceptLosesRace(t *testing.T) {
	f := newAlertFixture()
	alert := f.activeAlert()
	first := f.volunteers.add(models.RoleVolunteer)
	second := f.volunteers.add(models.RoleVolunteer)

	_, err := f.service.Accept(context.Background(), alert.ID.Hex(), first.ID.Hex())
	require.NoError(t, err)

	_, err = f.service.Accept(context.Background(), alert.ID.Hex(), second.ID.Hex())
	require.Error(t, err)

	serviceErr, ok := utils.GetServiceError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, serviceErr.StatusCode)

	// The winner's assignment is untouched
	assert.Equal(t, first.ID, alert.AssignedVolunteer)
}

func TestAlertService_AcceptRejectsSecondAssignment(t *testing.T) {
	f := newAlertFixture()
	firstAlert := f.activeAlert()
	secondAlert := f.activeAlert()
	volunteer := f.volunteers.add(models.RoleVolunteer)

	_, err := f.service.Accept(context.Background(), firstAlert.ID.Hex(), volunteer.ID.Hex())
	require.NoError(t, err)

	_, err = f.service.Accept(context.Background(), secondAlert.ID.Hex(), volunteer.ID.Hex())
	require.Error(t, err)

	serviceErr, ok := utils.GetServiceError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, serviceErr.StatusCode)
}

func TestAlertService_Resolve(t *testing.T) {
	f := newAlertFixture()
	alert := f.activeAlert()
	volunteer := f.volunteers.add(models.RoleVolunteer)

	_, err := f.service.Accept(context.Background(), alert.ID.Hex(), volunteer.ID.Hex())
	require.NoError(t, err)

	resolved, err := f.service.Resolve(context.Background(), alert.ID.Hex(), volunteer.ID.Hex(), &models.ResolveAlertRequest{
		Casualties:   0,
		Injuries:     2,
		LossEstimate: 150000,
		SafetyStatus: "Area evacuated, water receding",
	})
	require.NoError(t, err)

	assert.Equal(t, models.AlertStatusResolved, resolved.Status)
	assert.Equal(t, models.StatusAvailable, f.volunteers.statuses[volunteer.ID.Hex()])

	// The terminal report is filed in the same call
	require.Len(t, f.reports.reports, 1)
	report := f.reports.reports[0]
	assert.Equal(t, alert.ID, report.AlertID)
	assert.Equal(t, volunteer.ID, report.VolunteerID)
	assert.Equal(t, 2, report.Injuries)
}

func TestAlertService_ResolveRejectsNegativeFigures(t *testing.T) {
	f := newAlertFixture()
	alert := f.activeAlert()
	volunteer := f.volunteers.add(models.RoleVolunteer)

	_, err := f.service.Accept(context.Background(), alert.ID.Hex(), volunteer.ID.Hex())
	require.NoError(t, err)

	_, err = f.service.Resolve(context.Background(), alert.ID.Hex(), volunteer.ID.Hex(), &models.ResolveAlertRequest{
		Casualties:   -1,
		SafetyStatus: "fine",
	})
	require.Error(t, err)

	serviceErr, ok := utils.GetServiceError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, serviceErr.StatusCode)
	assert.Empty(t, f.reports.reports)
}

func TestAlertService_ResolveDeniedForWrongVolunteer(t *testing.T) {
	f := newAlertFixture()
	alert := f.activeAlert()
	assignee := f.volunteers.add(models.RoleVolunteer)
	other := f.volunteers.add(models.RoleVolunteer)

	_, err := f.service.Accept(context.Background(), alert.ID.Hex(), assignee.ID.Hex())
	require.NoError(t, err)

	_, err = f.service.Resolve(context.Background(), alert.ID.Hex(), other.ID.Hex(), &models.ResolveAlertRequest{
		SafetyStatus: "all clear here",
	})
	require.Error(t, err)
	assert.True(t, utils.IsPermissionError(err))
	assert.Equal(t, models.AlertStatusAccepted, alert.Status)
}

func TestAlertService_ResolveRequiresAcceptance(t *testing.T) {
	f := newAlertFixture()
	alert := f.activeAlert()
	volunteer := f.volunteers.add(models.RoleVolunteer)

	_, err := f.service.Resolve(context.Background(), alert.ID.Hex(), volunteer.ID.Hex(), &models.ResolveAlertRequest{
		SafetyStatus: "all clear here",
	})
	require.Error(t, err)

	serviceErr, ok := utils.GetServiceError(err)
	require.True(t, ok)
	assert.Equal(t, "NOT_ACCEPTED", serviceErr.Code)
	assert.Equal(t, http.StatusConflict, serviceErr.StatusCode)
}

func TestAlertService_ResolveAlreadyResolved(t *testing.T) {
	f := newAlertFixture()
	alert := f.activeAlert()
	volunteer := f.volunteers.add(models.RoleVolunteer)

	_, err := f.service.Accept(context.Background(), alert.ID.Hex(), volunteer.ID.Hex())
	require.NoError(t, err)

	req := &models.ResolveAlertRequest{SafetyStatus: "water receding"}
	_, err = f.service.Resolve(context.Background(), alert.ID.Hex(), volunteer.ID.Hex(), req)
	require.NoError(t, err)

	_, err = f.service.Resolve(context.Background(), alert.ID.Hex(), volunteer.ID.Hex(), req)
	require.Error(t, err)

	serviceErr, ok := utils.GetServiceError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, serviceErr.StatusCode)
}
