package services

import (
	"context"
	"errors"
	"floodguard/models"
	"floodguard/repositories"
	"floodguard/utils"
	"net/http"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AlertStore is the slice of the alert repository the service needs. The
// conditional Claim and Resolve updates are the consistency point for the
// whole lifecycle.
type AlertStore interface {
	Create(ctx context.Context, alert *models.Alert) error
	GetByID(ctx context.Context, id string) (*models.Alert, error)
	ListOpen(ctx context.Context) ([]models.Alert, error)
	ListUnassignedHigh(ctx context.Context) ([]models.Alert, error)
	GetAssigned(ctx context.Context, volunteerID string) (*models.Alert, error)
	Claim(ctx context.Context, alertID, volunteerID string) (*models.Alert, error)
	Resolve(ctx context.Context, alertID, volunteerID string) (*models.Alert, error)
	GetAll(ctx context.Context, page, pageSize int) ([]models.Alert, int64, error)
}

// VolunteerStore is the slice of the user repository the alert lifecycle
// touches.
type VolunteerStore interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

// ReportStore persists terminal resolution reports.
type ReportStore interface {
	Create(ctx context.Context, report *models.IncidentReport) error
	GetByAlert(ctx context.Context, alertID string) (*models.IncidentReport, error)
	GetByVolunteer(ctx context.Context, volunteerID string) ([]models.IncidentReport, error)
}

// AlertBroadcaster pushes lifecycle changes to connected dashboards. The
// websocket hub satisfies it.
type AlertBroadcaster interface {
	BroadcastAlertEvent(eventType string, alert *models.Alert)
	BroadcastUserStatus(userID, status string)
}

// AlertNotifier fans a new alert out to off-dashboard channels.
type AlertNotifier interface {
	NotifyVolunteersOfAlert(ctx context.Context, alert *models.Alert)
}

type AlertService struct {
	alertStore     AlertStore
	volunteerStore VolunteerStore
	reportStore    ReportStore
	broadcaster    AlertBroadcaster
	notifier       AlertNotifier
}

func NewAlertService(alertStore AlertStore, volunteerStore VolunteerStore, reportStore ReportStore, broadcaster AlertBroadcaster, notifier AlertNotifier) *AlertService {
	return &AlertService{
		alertStore:     alertStore,
		volunteerStore: volunteerStore,
		reportStore:    reportStore,
		broadcaster:    broadcaster,
		notifier:       notifier,
	}
}

// CreateFromIncident raises an alert for a high-risk triaged incident and
// fans it out to dashboards, push, and SMS.
func (s *AlertService) CreateFromIncident(ctx context.Context, incident *models.Incident, riskScore, reason string) (*models.Alert, error) {
	alert := &models.Alert{
		IncidentID: incident.ID,
		Location:   incident.Location,
		Address:    incident.Address,
		RiskScore:  riskScore,
		Reason:     reason,
		Status:     models.AlertStatusActive,
	}

	if err := s.alertStore.Create(ctx, alert); err != nil {
		return nil, utils.NewServiceError("ALERT_CREATE_FAILED", "Failed to create alert")
	}

	s.broadcaster.BroadcastAlertEvent(models.WSTypeAlertCreated, alert)
	if s.notifier != nil {
		s.notifier.NotifyVolunteersOfAlert(ctx, alert)
	}

	logrus.Infof("Alert %s raised for incident %s (%s)", alert.ID.Hex(), incident.ID.Hex(), riskScore)
	return alert, nil
}

func (s *AlertService) GetAlert(ctx context.Context, id string) (*models.Alert, error) {
	alert, err := s.alertStore.GetByID(ctx, id)
	if err != nil {
		return nil, utils.NewNotFoundError("Alert")
	}
	return alert, nil
}

// ListOpen is the dashboard feed: active and accepted alerts, newest first.
func (s *AlertService) ListOpen(ctx context.Context) ([]models.Alert, error) {
	alerts, err := s.alertStore.ListOpen(ctx)
	if err != nil {
		return nil, utils.NewServiceError("LIST_FAILED", "Failed to list alerts")
	}
	if alerts == nil {
		alerts = []models.Alert{}
	}
	return alerts, nil
}

// ListClaimable returns active high-risk alerts a volunteer could accept.
func (s *AlertService) ListClaimable(ctx context.Context) ([]models.Alert, error) {
	alerts, err := s.alertStore.ListUnassignedHigh(ctx)
	if err != nil {
		return nil, utils.NewServiceError("LIST_FAILED", "Failed to list alerts")
	}
	if alerts == nil {
		alerts = []models.Alert{}
	}
	return alerts, nil
}

// GetAssignedAlert returns the volunteer's current assignment, nil when
// they hold none.
func (s *AlertService) GetAssignedAlert(ctx context.Context, volunteerID string) (*models.Alert, error) {
	alert, err := s.alertStore.GetAssigned(ctx, volunteerID)
	if err != nil {
		return nil, utils.NewServiceError("LOOKUP_FAILED", "Failed to look up assignment")
	}
	return alert, nil
}

// Accept claims an active alert for a volunteer. Exactly one caller wins a
// race; everyone else gets a conflict. The winner's availability flips to
// responding.
func (s *AlertService) Accept(ctx context.Context, alertID, volunteerID string) (*models.Alert, error) {
	volunteer, err := s.volunteerStore.GetByID(ctx, volunteerID)
	if err != nil {
		return nil, utils.NewNotFoundError("User")
	}
	if volunteer.Role != models.RoleVolunteer && volunteer.Role != models.RoleAdmin {
		return nil, utils.NewPermissionError("alerts/"+alertID, "update", "only volunteers can accept alerts")
	}

	// Best-effort pre-check: two concurrent accepts of different alerts by
	// the same volunteer can both pass it. The per-alert invariant is held
	// by the conditional Claim below regardless.
	if existing, err := s.alertStore.GetAssigned(ctx, volunteerID); err == nil && existing != nil {
		return nil, utils.NewConflictError("You already have an active assignment")
	}

	alert, err := s.alertStore.Claim(ctx, alertID, volunteerID)
	if err != nil {
		if errors.Is(err, repositories.ErrAlertNotClaimable) {
			return nil, utils.NewConflictError("This alert has already been accepted or resolved")
		}
		return nil, utils.NewServiceError("ACCEPT_FAILED", "Failed to accept alert")
	}

	if err := s.volunteerStore.UpdateStatus(ctx, volunteerID, models.StatusResponding); err != nil {
		logrus.Warnf("Failed to mark volunteer %s responding: %v", volunteerID, err)
	}

	s.broadcaster.BroadcastAlertEvent(models.WSTypeAlertUpdated, alert)
	s.broadcaster.BroadcastUserStatus(volunteerID, models.StatusResponding)

	logrus.Infof("Alert %s accepted by volunteer %s", alertID, volunteerID)
	return alert, nil
}

// Resolve closes an accepted alert. Only the assigned volunteer may
// resolve, and the resolution report is written in the same call so a
// closed alert always has one.
func (s *AlertService) Resolve(ctx context.Context, alertID, volunteerID string, req *models.ResolveAlertRequest) (*models.Alert, error) {
	if req.Casualties < 0 || req.Injuries < 0 || req.LossEstimate < 0 {
		return nil, utils.NewValidationError("Report figures cannot be negative")
	}

	alert, err := s.alertStore.Resolve(ctx, alertID, volunteerID)
	if err != nil {
		if errors.Is(err, repositories.ErrAlertNotClaimable) {
			return nil, s.explainResolveFailure(ctx, alertID, volunteerID)
		}
		return nil, utils.NewServiceError("RESOLVE_FAILED", "Failed to resolve alert")
	}

	volObjectID, _ := primitive.ObjectIDFromHex(volunteerID)
	report := &models.IncidentReport{
		AlertID:      alert.ID,
		VolunteerID:  volObjectID,
		Casualties:   req.Casualties,
		Injuries:     req.Injuries,
		LossEstimate: req.LossEstimate,
		SafetyStatus: req.SafetyStatus,
	}
	if err := s.reportStore.Create(ctx, report); err != nil {
		// The alert is already resolved; surface the report failure but do
		// not roll the lifecycle back
		logrus.Errorf("Failed to store resolution report for alert %s: %v", alertID, err)
	}

	if err := s.volunteerStore.UpdateStatus(ctx, volunteerID, models.StatusAvailable); err != nil {
		logrus.Warnf("Failed to mark volunteer %s available: %v", volunteerID, err)
	}

	s.broadcaster.BroadcastAlertEvent(models.WSTypeAlertUpdated, alert)
	s.broadcaster.BroadcastUserStatus(volunteerID, models.StatusAvailable)

	logrus.Infof("Alert %s resolved by volunteer %s", alertID, volunteerID)
	return alert, nil
}

// explainResolveFailure turns a failed conditional resolve into the right
// user-facing error: wrong volunteer, wrong state, or missing alert.
func (s *AlertService) explainResolveFailure(ctx context.Context, alertID, volunteerID string) error {
	alert, err := s.alertStore.GetByID(ctx, alertID)
	if err != nil {
		return utils.NewNotFoundError("Alert")
	}

	switch alert.Status {
	case models.AlertStatusAccepted:
		if alert.AssignedVolunteer.Hex() != volunteerID {
			return utils.NewPermissionError("alerts/"+alertID, "update", "only the assigned volunteer can resolve this alert")
		}
	case models.AlertStatusActive:
		return utils.NewServiceErrorWithStatus("NOT_ACCEPTED", "Alert must be accepted before it can be resolved", http.StatusConflict)
	case models.AlertStatusResolved:
		return utils.NewConflictError("This alert is already resolved")
	}

	return utils.NewConflictError("Alert is not in a resolvable state")
}

// GetReport returns the resolution report filed for an alert.
func (s *AlertService) GetReport(ctx context.Context, alertID string) (*models.IncidentReport, error) {
	report, err := s.reportStore.GetByAlert(ctx, alertID)
	if err != nil {
		return nil, utils.NewNotFoundError("Report")
	}
	return report, nil
}

// GetVolunteerReports lists the reports a volunteer has filed.
func (s *AlertService) GetVolunteerReports(ctx context.Context, volunteerID string) ([]models.IncidentReport, error) {
	reports, err := s.reportStore.GetByVolunteer(ctx, volunteerID)
	if err != nil {
		return nil, utils.NewServiceError("LIST_FAILED", "Failed to list reports")
	}
	if reports == nil {
		reports = []models.IncidentReport{}
	}
	return reports, nil
}

// ListAlerts is the admin view over the full alert history.
func (s *AlertService) ListAlerts(ctx context.Context, page, pageSize int) ([]models.Alert, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	alerts, total, err := s.alertStore.GetAll(ctx, page, pageSize)
	if err != nil {
		return nil, 0, utils.NewServiceError("LIST_FAILED", "Failed to list alerts")
	}
	if alerts == nil {
		alerts = []models.Alert{}
	}
	return alerts, total, nil
}
