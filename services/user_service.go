package services

import (
	"context"
	"floodguard/models"
	"floodguard/repositories"
	"floodguard/utils"
	"floodguard/websocket"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
)

type UserService struct {
	userRepo *repositories.UserRepository
	hub      *websocket.Hub
}

func NewUserService(userRepo *repositories.UserRepository, hub *websocket.Hub) *UserService {
	return &UserService{
		userRepo: userRepo,
		hub:      hub,
	}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, utils.NewNotFoundError("User")
	}
	return user, nil
}

// UpdateProfile applies the caller's partial profile edit. Only provided
// fields change.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.User, error) {
	updateFields := bson.M{}

	if req.Name != nil {
		updateFields["name"] = *req.Name
	}
	if req.ProfilePicture != nil {
		updateFields["profilePicture"] = *req.ProfilePicture
	}
	if req.Location != nil {
		if !utils.IsValidCoordinate(req.Location.Latitude, req.Location.Longitude) {
			return nil, utils.NewValidationError("Invalid coordinates")
		}
		updateFields["location"] = req.Location
	}
	if req.Address != nil {
		updateFields["address"] = *req.Address
	}
	if req.DeviceToken != nil {
		updateFields["deviceToken"] = *req.DeviceToken
	}

	if len(updateFields) == 0 {
		return nil, utils.NewValidationError("No fields to update")
	}

	if err := s.userRepo.Update(ctx, userID, updateFields); err != nil {
		return nil, utils.NewServiceError("UPDATE_FAILED", "Failed to update profile")
	}

	return s.userRepo.GetByID(ctx, userID)
}

// UpdateStatus toggles a volunteer's availability and announces the change
// to the volunteers room.
func (s *UserService) UpdateStatus(ctx context.Context, userID, status string) (*models.User, error) {
	if !models.IsValidVolunteerStatus(status) {
		return nil, utils.NewValidationError("Status must be available, offline, or responding")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, utils.NewNotFoundError("User")
	}

	if user.Role != models.RoleVolunteer && user.Role != models.RoleAdmin {
		return nil, utils.NewPermissionError("users/"+userID, "update", "only volunteers can set availability")
	}

	if err := s.userRepo.UpdateStatus(ctx, userID, status); err != nil {
		return nil, utils.NewServiceError("UPDATE_FAILED", "Failed to update status")
	}

	user.Status = status
	s.hub.BroadcastUserStatus(userID, status)

	logrus.Infof("Volunteer %s is now %s", userID, status)
	return user, nil
}

// UpdateRole is the admin-only role change.
func (s *UserService) UpdateRole(ctx context.Context, userID, role string) (*models.User, error) {
	switch role {
	case models.RoleAnonymous, models.RoleRegistered, models.RoleVolunteer, models.RoleAdmin:
	default:
		return nil, utils.NewValidationError("Unknown role")
	}

	if err := s.userRepo.UpdateRole(ctx, userID, role); err != nil {
		return nil, utils.NewNotFoundError("User")
	}

	return s.userRepo.GetByID(ctx, userID)
}

// GetVolunteers lists volunteers, optionally filtered by availability.
func (s *UserService) GetVolunteers(ctx context.Context, status string) ([]models.User, error) {
	if status != "" && !models.IsValidVolunteerStatus(status) {
		return nil, utils.NewValidationError("Status must be available, offline, or responding")
	}

	volunteers, err := s.userRepo.GetVolunteers(ctx, status)
	if err != nil {
		return nil, utils.NewServiceError("LIST_FAILED", "Failed to list volunteers")
	}
	if volunteers == nil {
		volunteers = []models.User{}
	}

	return volunteers, nil
}

// ListUsers is the admin user directory.
func (s *UserService) ListUsers(ctx context.Context, page, pageSize int) ([]models.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	users, total, err := s.userRepo.GetAll(ctx, page, pageSize)
	if err != nil {
		return nil, 0, utils.NewServiceError("LIST_FAILED", "Failed to list users")
	}
	if users == nil {
		users = []models.User{}
	}

	return users, total, nil
}
