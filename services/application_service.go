package services

import (
	"context"
	"floodguard/models"
	"floodguard/repositories"
	"floodguard/utils"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ApplicationNotifier delivers the review decision to the applicant's open
// dashboard session. The websocket hub satisfies it.
type ApplicationNotifier interface {
	SendNotificationToUser(userID string, notification interface{})
}

// ApplicationService handles the volunteer recruitment flow: a registered
// user applies, an admin reviews, approval promotes the role.
type ApplicationService struct {
	appRepo  *repositories.ApplicationRepository
	userRepo *repositories.UserRepository
	notifier ApplicationNotifier
}

func NewApplicationService(appRepo *repositories.ApplicationRepository, userRepo *repositories.UserRepository, notifier ApplicationNotifier) *ApplicationService {
	return &ApplicationService{
		appRepo:  appRepo,
		userRepo: userRepo,
		notifier: notifier,
	}
}

// Submit files a volunteer application. One pending application per user;
// existing volunteers and admins have nothing to apply for.
func (s *ApplicationService) Submit(ctx context.Context, userID string, req *models.SubmitApplicationRequest) (*models.VolunteerApplication, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, utils.NewNotFoundError("User")
	}

	if user.Role == models.RoleVolunteer || user.Role == models.RoleAdmin {
		return nil, utils.NewConflictError("You are already a volunteer")
	}
	if user.Role == models.RoleAnonymous {
		return nil, utils.NewPermissionError("volunteer_applications", "create", "guests must register before applying")
	}

	if pending, err := s.appRepo.GetPendingByUser(ctx, userID); err == nil && pending != nil {
		return nil, utils.NewConflictError("You already have a pending application")
	}

	userObjectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, utils.NewValidationError("Invalid user ID")
	}

	app := &models.VolunteerApplication{
		UserID:    userObjectID,
		Name:      req.Name,
		Expertise: req.Expertise,
	}

	if err := s.appRepo.Create(ctx, app); err != nil {
		return nil, utils.NewServiceError("APPLICATION_FAILED", "Failed to submit application")
	}

	logrus.Infof("Volunteer application %s submitted by %s", app.ID.Hex(), userID)
	return app, nil
}

// GetMyApplication returns the caller's pending application, nil when none
// is open.
func (s *ApplicationService) GetMyApplication(ctx context.Context, userID string) (*models.VolunteerApplication, error) {
	app, err := s.appRepo.GetPendingByUser(ctx, userID)
	if err != nil {
		return nil, utils.NewServiceError("LOOKUP_FAILED", "Failed to look up application")
	}
	return app, nil
}

// List returns applications for the admin review queue, optionally filtered
// by status.
func (s *ApplicationService) List(ctx context.Context, status string) ([]models.VolunteerApplication, error) {
	switch status {
	case "", models.ApplicationStatusPending, models.ApplicationStatusApproved, models.ApplicationStatusRejected:
	default:
		return nil, utils.NewValidationError("Status must be pending, approved, or rejected")
	}

	apps, err := s.appRepo.List(ctx, status)
	if err != nil {
		return nil, utils.NewServiceError("LIST_FAILED", "Failed to list applications")
	}
	if apps == nil {
		apps = []models.VolunteerApplication{}
	}
	return apps, nil
}

// Review decides a pending application. Approval promotes the applicant to
// the volunteer role and copies their stated expertise onto the profile.
func (s *ApplicationService) Review(ctx context.Context, applicationID, reviewerID string, req *models.ReviewApplicationRequest) (*models.VolunteerApplication, error) {
	if req.Status != models.ApplicationStatusApproved && req.Status != models.ApplicationStatusRejected {
		return nil, utils.NewValidationError("Decision must be approved or rejected")
	}

	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, utils.NewNotFoundError("Application")
	}

	if err := s.appRepo.Review(ctx, applicationID, req.Status, reviewerID); err != nil {
		return nil, utils.NewConflictError("Application has already been reviewed")
	}

	if req.Status == models.ApplicationStatusApproved {
		applicantID := app.UserID.Hex()
		if err := s.userRepo.UpdateRole(ctx, applicantID, models.RoleVolunteer); err != nil {
			logrus.Errorf("Approved application %s but failed to promote user %s: %v", applicationID, applicantID, err)
			return nil, utils.NewServiceError("PROMOTION_FAILED", "Application approved but role promotion failed")
		}
		if app.Expertise != "" {
			if err := s.userRepo.Update(ctx, applicantID, bson.M{"expertise": app.Expertise}); err != nil {
				logrus.Warnf("Failed to copy expertise for user %s: %v", applicantID, err)
			}
		}
	}

	if s.notifier != nil {
		body := "Your volunteer application was not approved this time."
		if req.Status == models.ApplicationStatusApproved {
			body = "Your volunteer application has been approved. Welcome aboard."
		}
		s.notifier.SendNotificationToUser(app.UserID.Hex(), map[string]string{
			"title":  "Volunteer application update",
			"body":   body,
			"status": req.Status,
		})
	}

	return s.appRepo.GetByID(ctx, applicationID)
}
