package controllers

import (
	"floodguard/models"
	"floodguard/services"
	"floodguard/utils"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type IncidentController struct {
	incidentService *services.IncidentService
	mediaService    *services.MediaService
	validator       *utils.ValidationService
}

func NewIncidentController(incidentService *services.IncidentService, mediaService *services.MediaService, validator *utils.ValidationService) *IncidentController {
	return &IncidentController{
		incidentService: incidentService,
		mediaService:    mediaService,
		validator:       validator,
	}
}

// Submit files a new incident report. Accepts JSON, or multipart form data
// when a photo is attached.
// POST /api/v1/incidents
func (ic *IncidentController) Submit(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req models.SubmitIncidentRequest
	var photoURL string

	if strings.HasPrefix(c.GetHeader("Content-Type"), "multipart/form-data") {
		parsed, err := ic.parseMultipartSubmission(c)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}
		req = *parsed

		if fileHeader, err := c.FormFile("photo"); err == nil {
			url, uploadErr := ic.mediaService.UploadIncidentPhoto(c.Request.Context(), fileHeader)
			if uploadErr != nil {
				utils.ServiceErrorResponse(c, uploadErr)
				return
			}
			photoURL = url
		}
	} else {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}
	}

	if validationErrors := ic.validator.ValidateStruct(&req); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	incident, err := ic.incidentService.Submit(c.Request.Context(), userID, &req, photoURL)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Incident reported successfully", incident)
}

// GetIncident returns a single incident
// GET /api/v1/incidents/:id
func (ic *IncidentController) GetIncident(c *gin.Context) {
	incident, err := ic.incidentService.GetIncident(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Incident retrieved", incident)
}

// GetMyIncidents returns the caller's own reports
// GET /api/v1/incidents/mine
func (ic *IncidentController) GetMyIncidents(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		utils.UnauthorizedResponse(c, "")
		return
	}

	incidents, err := ic.incidentService.GetMyIncidents(c.Request.Context(), userID)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Incidents retrieved", incidents)
}

// ListIncidents is the admin view over all reports
// GET /api/v1/admin/incidents
func (ic *IncidentController) ListIncidents(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	incidents, total, err := ic.incidentService.ListIncidents(c.Request.Context(), page, pageSize)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Incidents retrieved", incidents, &models.MetaData{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: utils.CalculateTotalPages(total, pageSize),
	})
}

func (ic *IncidentController) parseMultipartSubmission(c *gin.Context) (*models.SubmitIncidentRequest, error) {
	latitude, err := strconv.ParseFloat(c.PostForm("latitude"), 64)
	if err != nil {
		return nil, err
	}
	longitude, err := strconv.ParseFloat(c.PostForm("longitude"), 64)
	if err != nil {
		return nil, err
	}

	return &models.SubmitIncidentRequest{
		Latitude:    latitude,
		Longitude:   longitude,
		Address:     c.PostForm("address"),
		Severity:    c.PostForm("severity"),
		Description: c.PostForm("description"),
	}, nil
}
