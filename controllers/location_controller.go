package controllers

import (
	"floodguard/models"
	"floodguard/services"
	"floodguard/utils"
	"strconv"

	"github.com/gin-gonic/gin"
)

type LocationController struct {
	locationService *services.LocationService
	validator       *utils.ValidationService
}

func NewLocationController(locationService *services.LocationService, validator *utils.ValidationService) *LocationController {
	return &LocationController{
		locationService: locationService,
		validator:       validator,
	}
}

// Geocode resolves a free-text address
// GET /api/v1/locations/geocode?address=...
func (lc *LocationController) Geocode(c *gin.Context) {
	address := c.Query("address")
	if address == "" {
		utils.BadRequestResponse(c, "address query parameter is required")
		return
	}

	result, err := lc.locationService.Geocode(c.Request.Context(), address)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Address resolved", result)
}

// ReverseGeocode resolves coordinates to a display name
// GET /api/v1/locations/reverse?lat=..&lon=..
func (lc *LocationController) ReverseGeocode(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lon, lonErr := strconv.ParseFloat(c.Query("lon"), 64)
	if latErr != nil || lonErr != nil {
		utils.BadRequestResponse(c, "lat and lon query parameters are required")
		return
	}

	displayName, err := lc.locationService.ReverseGeocode(c.Request.Context(), lat, lon)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Coordinates resolved", gin.H{"displayName": displayName})
}

// SaveLocation bookmarks a place for the caller
// POST /api/v1/locations
func (lc *LocationController) SaveLocation(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req models.SaveLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request format")
		return
	}

	if validationErrors := lc.validator.ValidateStruct(&req); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	location, err := lc.locationService.SaveLocation(c.Request.Context(), userID, &req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Location saved", location)
}

// GetSavedLocations lists the caller's bookmarks
// GET /api/v1/locations
func (lc *LocationController) GetSavedLocations(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		utils.UnauthorizedResponse(c, "")
		return
	}

	locations, err := lc.locationService.GetSavedLocations(c.Request.Context(), userID)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Saved locations retrieved", locations)
}

// DeleteSavedLocation removes one of the caller's bookmarks
// DELETE /api/v1/locations/:id
func (lc *LocationController) DeleteSavedLocation(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		utils.UnauthorizedResponse(c, "")
		return
	}

	if err := lc.locationService.DeleteSavedLocation(c.Request.Context(), userID, c.Param("id")); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Location deleted", nil)
}
