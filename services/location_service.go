package services

import (
	"context"
	"floodguard/models"
	"floodguard/repositories"
	"floodguard/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxSavedLocations = 20

// LocationService backs the dashboard location picker: forward and reverse
// geocoding plus per-user bookmarks.
type LocationService struct {
	locationRepo *repositories.LocationRepository
	geocoder     Geocoder
}

func NewLocationService(locationRepo *repositories.LocationRepository, geocoder Geocoder) *LocationService {
	return &LocationService{
		locationRepo: locationRepo,
		geocoder:     geocoder,
	}
}

// Geocode resolves a free-text address to its best match.
func (s *LocationService) Geocode(ctx context.Context, address string) (*models.GeocodeResult, error) {
	return s.geocoder.Forward(ctx, address)
}

// ReverseGeocode resolves coordinates to a display name, falling back to
// the coordinate string when the lookup is unavailable.
func (s *LocationService) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	if !utils.IsValidCoordinate(lat, lon) {
		return "", utils.NewValidationError("Invalid coordinates")
	}
	return s.geocoder.Reverse(ctx, lat, lon)
}

// SaveLocation bookmarks a place for the caller.
func (s *LocationService) SaveLocation(ctx context.Context, userID string, req *models.SaveLocationRequest) (*models.SavedLocation, error) {
	if !utils.IsValidCoordinate(req.Latitude, req.Longitude) {
		return nil, utils.NewValidationError("Invalid coordinates")
	}

	existing, err := s.locationRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, utils.NewServiceError("LOOKUP_FAILED", "Failed to load saved locations")
	}
	if len(existing) >= maxSavedLocations {
		return nil, utils.NewConflictError("Saved location limit reached")
	}

	userObjectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, utils.NewValidationError("Invalid user ID")
	}

	location := &models.SavedLocation{
		UserID:    userObjectID,
		Name:      req.Name,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}

	if err := s.locationRepo.Create(ctx, location); err != nil {
		return nil, utils.NewServiceError("SAVE_FAILED", "Failed to save location")
	}

	return location, nil
}

// GetSavedLocations lists the caller's bookmarks, newest first.
func (s *LocationService) GetSavedLocations(ctx context.Context, userID string) ([]models.SavedLocation, error) {
	locations, err := s.locationRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, utils.NewServiceError("LOOKUP_FAILED", "Failed to load saved locations")
	}
	if locations == nil {
		locations = []models.SavedLocation{}
	}
	return locations, nil
}

// DeleteSavedLocation removes one of the caller's bookmarks. Ownership is
// part of the delete filter, so a user cannot remove someone else's.
func (s *LocationService) DeleteSavedLocation(ctx context.Context, userID, locationID string) error {
	if err := s.locationRepo.Delete(ctx, userID, locationID); err != nil {
		return utils.NewNotFoundError("Saved location")
	}
	return nil
}
