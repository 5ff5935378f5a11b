package controllers

import (
	"floodguard/models"
	"floodguard/services"
	"floodguard/utils"
	"strconv"

	"github.com/gin-gonic/gin"
)

type AlertController struct {
	alertService *services.AlertService
	validator    *utils.ValidationService
}

func NewAlertController(alertService *services.AlertService, validator *utils.ValidationService) *AlertController {
	return &AlertController{
		alertService: alertService,
		validator:    validator,
	}
}

// ListOpen is the dashboard feed of active and accepted alerts
// GET /api/v1/alerts
func (ac *AlertController) ListOpen(c *gin.Context) {
	alerts, err := ac.alertService.ListOpen(c.Request.Context())
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Alerts retrieved", alerts)
}

// ListClaimable returns active high-risk alerts awaiting a volunteer
// GET /api/v1/alerts/claimable
func (ac *AlertController) ListClaimable(c *gin.Context) {
	alerts, err := ac.alertService.ListClaimable(c.Request.Context())
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Alerts retrieved", alerts)
}

// GetAlert returns a single alert
// GET /api/v1/alerts/:id
func (ac *AlertController) GetAlert(c *gin.Context) {
	alert, err := ac.alertService.GetAlert(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Alert retrieved", alert)
}

// GetAssigned returns the caller's current assignment, null when none
// GET /api/v1/alerts/assigned
func (ac *AlertController) GetAssigned(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		utils.UnauthorizedResponse(c, "")
		return
	}

	alert, err := ac.alertService.GetAssignedAlert(c.Request.Context(), userID)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Assignment retrieved", alert)
}

// Accept claims an active alert for the calling volunteer
// POST /api/v1/alerts/:id/accept
func (ac *AlertController) Accept(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		utils.UnauthorizedResponse(c, "")
		return
	}

	alert, err := ac.alertService.Accept(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Alert accepted", alert)
}

// Resolve closes an accepted alert with a resolution report
// POST /api/v1/alerts/:id/resolve
func (ac *AlertController) Resolve(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req models.ResolveAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request format")
		return
	}

	if validationErrors := ac.validator.ValidateStruct(&req); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	alert, err := ac.alertService.Resolve(c.Request.Context(), c.Param("id"), userID, &req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Alert resolved", alert)
}

// GetReport returns the resolution report filed for an alert
// GET /api/v1/alerts/:id/report
func (ac *AlertController) GetReport(c *gin.Context) {
	report, err := ac.alertService.GetReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Report retrieved", report)
}

// GetMyReports lists the reports the calling volunteer has filed
// GET /api/v1/alerts/reports/mine
func (ac *AlertController) GetMyReports(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		utils.UnauthorizedResponse(c, "")
		return
	}

	reports, err := ac.alertService.GetVolunteerReports(c.Request.Context(), userID)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Reports retrieved", reports)
}

// ListAlerts is the admin view over the full alert history
// GET /api/v1/admin/alerts
func (ac *AlertController) ListAlerts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	alerts, total, err := ac.alertService.ListAlerts(c.Request.Context(), page, pageSize)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Alerts retrieved", alerts, &models.MetaData{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: utils.CalculateTotalPages(total, pageSize),
	})
}
