package controllers

import (
	"floodguard/models"
	"floodguard/services"
	"floodguard/utils"

	"github.com/gin-gonic/gin"
)

// NewsController serves the dashboard intelligence endpoints: the cached
// news board, live risk predictions, and admin what-if scenarios.
type NewsController struct {
	newsService       *services.NewsService
	predictionService *services.PredictionService
	validator         *utils.ValidationService
}

func NewNewsController(newsService *services.NewsService, predictionService *services.PredictionService, validator *utils.ValidationService) *NewsController {
	return &NewsController{
		newsService:       newsService,
		predictionService: predictionService,
		validator:         validator,
	}
}

// GetNews returns the cached feed for a location; never calls the oracle
// GET /api/v1/news?location=Lahore
func (nc *NewsController) GetNews(c *gin.Context) {
	location := c.Query("location")
	if location == "" {
		utils.BadRequestResponse(c, "location query parameter is required")
		return
	}

	feed, err := nc.newsService.GetNews(c.Request.Context(), location)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "News retrieved", feed)
}

// RefreshNews re-fetches the feed from the oracle
// POST /api/v1/news/refresh
func (nc *NewsController) RefreshNews(c *gin.Context) {
	var req models.PredictRiskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request format")
		return
	}

	feed, err := nc.newsService.RefreshNews(c.Request.Context(), req.Location)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "News refreshed", feed)
}

// PredictRisk scores the live flood risk for a location, using the cached
// news digest as model context
// POST /api/v1/predict
func (nc *NewsController) PredictRisk(c *gin.Context) {
	var req models.PredictRiskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request format")
		return
	}

	if validationErrors := nc.validator.ValidateStruct(&req); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	news := ""
	if feed, err := nc.newsService.GetNews(c.Request.Context(), req.Location); err == nil {
		news = digestArticles(feed.Articles)
	}

	prediction := nc.predictionService.Predict(c.Request.Context(), req.Location, news)
	utils.SuccessResponse(c, "Risk assessed", prediction)
}

// Scenario runs an admin what-if assessment
// POST /api/v1/admin/scenario
func (nc *NewsController) Scenario(c *gin.Context) {
	var req models.ScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request format")
		return
	}

	if validationErrors := nc.validator.ValidateStruct(&req); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	prediction := nc.predictionService.Scenario(c.Request.Context(), req.Location, req.Scenario)
	utils.SuccessResponse(c, "Scenario assessed", prediction)
}

func digestArticles(articles []models.NewsItem) string {
	digest := ""
	for _, article := range articles {
		digest += "- " + article.Title + ": " + article.Summary + "\n"
	}
	return digest
}
