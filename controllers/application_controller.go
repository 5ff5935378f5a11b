package controllers

import (
	"floodguard/models"
	"floodguard/services"
	"floodguard/utils"

	"github.com/gin-gonic/gin"
)

type ApplicationController struct {
	applicationService *services.ApplicationService
	validator          *utils.ValidationService
}

func NewApplicationController(applicationService *services.ApplicationService, validator *utils.ValidationService) *ApplicationController {
	return &ApplicationController{
		applicationService: applicationService,
		validator:          validator,
	}
}

// Submit files a volunteer application
// POST /api/v1/applications
func (ac *ApplicationController) Submit(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req models.SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request format")
		return
	}

	if validationErrors := ac.validator.ValidateStruct(&req); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	app, err := ac.applicationService.Submit(c.Request.Context(), userID, &req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Application submitted", app)
}

// GetMine returns the caller's pending application, null when none
// GET /api/v1/applications/mine
func (ac *ApplicationController) GetMine(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		utils.UnauthorizedResponse(c, "")
		return
	}

	app, err := ac.applicationService.GetMyApplication(c.Request.Context(), userID)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Application retrieved", app)
}

// List is the admin review queue
// GET /api/v1/admin/applications?status=pending
func (ac *ApplicationController) List(c *gin.Context) {
	apps, err := ac.applicationService.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Applications retrieved", apps)
}

// Review decides a pending application
// PUT /api/v1/admin/applications/:id
func (ac *ApplicationController) Review(c *gin.Context) {
	reviewerID := c.GetString("userID")
	if reviewerID == "" {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req models.ReviewApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request format")
		return
	}

	if validationErrors := ac.validator.ValidateStruct(&req); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	app, err := ac.applicationService.Review(c.Request.Context(), c.Param("id"), reviewerID, &req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Application reviewed", app)
}
