package routes

import (
	"floodguard/config"
	"floodguard/controllers"
	"floodguard/middleware"
	"floodguard/models"
	"floodguard/repositories"
	"floodguard/services"
	"floodguard/utils"
	"floodguard/websocket"
	"floodguard/workers"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/minio/minio-go/v7"
	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

// Dependencies carries everything constructed in main that the route tree
// needs.
type Dependencies struct {
	Config      *config.Config
	MongoClient *mongo.Client
	DB          *mongo.Database
	Redis       *redis.Client
	Hub         *websocket.Hub
	Notifier    *utils.NotificationSender // nil when push/SMS credentials are absent
	Minio       *minio.Client
	OpenAI      *openai.Client
}

// SetupRoutes initializes all application routes. The returned triage
// worker is started and stopped by the caller.
func SetupRoutes(deps *Dependencies) (*gin.Engine, *workers.TriageWorker) {
	router := gin.New()

	repos := initializeRepositories(deps.DB)
	svcs, worker := initializeServices(repos, deps)
	ctrls := initializeControllers(svcs, repos, deps)

	setupGlobalMiddleware(router, deps)

	setupPublicRoutes(router, ctrls, deps.Redis)
	setupAuthenticatedRoutes(router, ctrls, deps.Redis)
	setupAdminRoutes(router, ctrls)
	setupWebSocketRoutes(router, ctrls)

	return router, worker
}

// Repositories initialization
type Repositories struct {
	User        *repositories.UserRepository
	Incident    *repositories.IncidentRepository
	Alert       *repositories.AlertRepository
	Report      *repositories.ReportRepository
	Application *repositories.ApplicationRepository
	Chat        *repositories.ChatRepository
	News        *repositories.NewsRepository
	Location    *repositories.LocationRepository
}

func initializeRepositories(db *mongo.Database) *Repositories {
	return &Repositories{
		User:        repositories.NewUserRepository(db),
		Incident:    repositories.NewIncidentRepository(db),
		Alert:       repositories.NewAlertRepository(db),
		Report:      repositories.NewReportRepository(db),
		Application: repositories.NewApplicationRepository(db),
		Chat:        repositories.NewChatRepository(db),
		News:        repositories.NewNewsRepository(db),
		Location:    repositories.NewLocationRepository(db),
	}
}

// Services initialization
type Services struct {
	JWT         *utils.JWTService
	Auth        *services.AuthService
	User        *services.UserService
	Incident    *services.IncidentService
	Alert       *services.AlertService
	Application *services.ApplicationService
	Chat        *services.ChatService
	News        *services.NewsService
	Prediction  *services.PredictionService
	Location    *services.LocationService
	Media       *services.MediaService
}

func initializeServices(repos *Repositories, deps *Dependencies) (*Services, *workers.TriageWorker) {
	cfg := deps.Config

	jwtService := utils.NewJWTService(cfg.JWTSecret)
	geocoder := services.NewNominatimGeocoder(cfg.NominatimBaseURL)
	notificationService := services.NewNotificationService(repos.User, deps.Notifier)

	alertService := services.NewAlertService(repos.Alert, repos.User, repos.Report, deps.Hub, notificationService)

	// Incident triage runs on the generative oracle when a key is
	// configured, and on the local rule set otherwise.
	var triageOracle services.TriageOracle
	if cfg.OpenAIAPIKey != "" {
		triageOracle = services.NewLLMTriageOracle(deps.OpenAI, cfg.OpenAIModel)
	} else {
		logrus.Warn("OPENAI_API_KEY not set, triage falls back to local rules")
		triageOracle = services.NewRuleTriageOracle()
	}

	worker := workers.NewTriageWorker(repos.Incident, alertService, triageOracle)

	return &Services{
		JWT:         jwtService,
		Auth:        services.NewAuthService(repos.User, jwtService, deps.Redis, deps.Notifier),
		User:        services.NewUserService(repos.User, deps.Hub),
		Incident:    services.NewIncidentService(repos.Incident, geocoder, worker),
		Alert:       alertService,
		Application: services.NewApplicationService(repos.Application, repos.User, deps.Hub),
		Chat:        services.NewChatService(repos.Chat, deps.Hub),
		News:        services.NewNewsService(repos.News, deps.Redis, services.NewLLMNewsOracle(deps.OpenAI, cfg.OpenAIModel)),
		Prediction:  services.NewPredictionService(deps.OpenAI, cfg.OpenAIModel),
		Location:    services.NewLocationService(repos.Location, geocoder),
		Media:       services.NewMediaService(deps.Minio, cfg.MinioBucket, cfg.MinioPublicURL),
	}, worker
}

// Controllers initialization
type Controllers struct {
	Auth        *controllers.AuthController
	User        *controllers.UserController
	Incident    *controllers.IncidentController
	Alert       *controllers.AlertController
	Application *controllers.ApplicationController
	Chat        *controllers.ChatController
	News        *controllers.NewsController
	Location    *controllers.LocationController
	WebSocket   *controllers.WebSocketController
	Health      *controllers.HealthController

	authMiddleware *middleware.AuthMiddleware
}

func initializeControllers(svcs *Services, repos *Repositories, deps *Dependencies) *Controllers {
	validator := utils.NewValidationService()
	authMiddleware := middleware.NewAuthMiddleware(svcs.JWT, repos.User)

	return &Controllers{
		Auth:        controllers.NewAuthController(svcs.Auth, validator),
		User:        controllers.NewUserController(svcs.User, validator),
		Incident:    controllers.NewIncidentController(svcs.Incident, svcs.Media, validator),
		Alert:       controllers.NewAlertController(svcs.Alert, validator),
		Application: controllers.NewApplicationController(svcs.Application, validator),
		Chat:        controllers.NewChatController(svcs.Chat, validator),
		News:        controllers.NewNewsController(svcs.News, svcs.Prediction, validator),
		Location:    controllers.NewLocationController(svcs.Location, validator),
		WebSocket:   controllers.NewWebSocketController(deps.Hub, authMiddleware),
		Health:      controllers.NewHealthController(deps.MongoClient, deps.Redis, deps.Hub),

		authMiddleware: authMiddleware,
	}
}

// Global middleware setup
func setupGlobalMiddleware(router *gin.Engine, deps *Dependencies) {
	errorHandler := middleware.NewErrorHandler(deps.Config.Environment, logrus.StandardLogger())

	router.Use(errorHandler.Handle())
	router.Use(middleware.DefaultLoggerMiddleware())
	router.Use(middleware.CORSMiddleware(deps.Config.Environment))
	router.Use(middleware.DefaultRateLimit(deps.Redis))
}

// Public routes (no authentication required)
func setupPublicRoutes(router *gin.Engine, ctrls *Controllers, redisClient *redis.Client) {
	router.GET("/health", ctrls.Health.Health)

	auth := router.Group("/api/v1/auth")
	auth.Use(middleware.AuthRateLimit(redisClient))
	{
		auth.POST("/register", ctrls.Auth.Register)
		auth.POST("/login", ctrls.Auth.Login)
		auth.POST("/anonymous", ctrls.Auth.Anonymous)
		auth.POST("/refresh", ctrls.Auth.Refresh)
		auth.POST("/otp/request", ctrls.Auth.RequestOTP)
		auth.POST("/otp/verify", ctrls.Auth.VerifyOTP)
	}
}

// Authenticated routes (requires valid JWT token)
func setupAuthenticatedRoutes(router *gin.Engine, ctrls *Controllers, redisClient *redis.Client) {
	api := router.Group("/api/v1")
	api.Use(ctrls.authMiddleware.RequireAuth())

	// Profile
	api.GET("/users/me", ctrls.User.GetMe)
	api.PUT("/users/me", ctrls.User.UpdateMe)
	api.PUT("/users/me/status",
		ctrls.authMiddleware.RequireRole(models.RoleVolunteer, models.RoleAdmin),
		ctrls.User.UpdateStatus)
	api.GET("/volunteers", ctrls.User.GetVolunteers)

	// Incident reporting
	api.POST("/incidents", middleware.ReportRateLimit(redisClient), ctrls.Incident.Submit)
	api.GET("/incidents/mine", ctrls.Incident.GetMyIncidents)
	api.GET("/incidents/:id", ctrls.Incident.GetIncident)

	// Alert lifecycle. Fixed paths before the :id wildcard.
	api.GET("/alerts", ctrls.Alert.ListOpen)
	api.GET("/alerts/claimable", ctrls.Alert.ListClaimable)
	api.GET("/alerts/assigned", ctrls.Alert.GetAssigned)
	api.GET("/alerts/reports/mine", ctrls.Alert.GetMyReports)
	api.GET("/alerts/:id", ctrls.Alert.GetAlert)
	api.GET("/alerts/:id/report", ctrls.Alert.GetReport)
	api.POST("/alerts/:id/accept",
		ctrls.authMiddleware.RequireRole(models.RoleVolunteer, models.RoleAdmin),
		ctrls.Alert.Accept)
	api.POST("/alerts/:id/resolve",
		ctrls.authMiddleware.RequireRole(models.RoleVolunteer, models.RoleAdmin),
		ctrls.Alert.Resolve)

	// Volunteer coordination chat
	chat := api.Group("/chat")
	chat.Use(ctrls.authMiddleware.RequireRole(models.RoleVolunteer, models.RoleAdmin))
	{
		chat.GET("", ctrls.Chat.GetHistory)
		chat.POST("", middleware.ChatRateLimit(redisClient), ctrls.Chat.SendMessage)
	}

	// Volunteer applications
	applications := api.Group("/applications")
	applications.Use(ctrls.authMiddleware.RequireRegistered())
	{
		applications.POST("", ctrls.Application.Submit)
		applications.GET("/mine", ctrls.Application.GetMine)
	}

	// News feed and risk prediction
	api.GET("/news", ctrls.News.GetNews)
	api.POST("/news/refresh", middleware.OracleRateLimit(redisClient), ctrls.News.RefreshNews)
	api.POST("/predict", middleware.OracleRateLimit(redisClient), ctrls.News.PredictRisk)

	// Geocoding and saved locations
	api.GET("/locations/geocode", ctrls.Location.Geocode)
	api.GET("/locations/reverse", ctrls.Location.ReverseGeocode)
	api.POST("/locations", ctrls.Location.SaveLocation)
	api.GET("/locations", ctrls.Location.GetSavedLocations)
	api.DELETE("/locations/:id", ctrls.Location.DeleteSavedLocation)
}

// Admin routes (requires admin privileges)
func setupAdminRoutes(router *gin.Engine, ctrls *Controllers) {
	admin := router.Group("/api/v1/admin")
	admin.Use(ctrls.authMiddleware.RequireAuth())
	admin.Use(ctrls.authMiddleware.RequireRole(models.RoleAdmin))

	admin.GET("/users", ctrls.User.ListUsers)
	admin.PUT("/users/:id/role", ctrls.User.UpdateRole)

	admin.GET("/incidents", ctrls.Incident.ListIncidents)
	admin.GET("/alerts", ctrls.Alert.ListAlerts)

	admin.GET("/applications", ctrls.Application.List)
	admin.PUT("/applications/:id", ctrls.Application.Review)

	admin.POST("/scenario", ctrls.News.Scenario)
}

// WebSocket routes
func setupWebSocketRoutes(router *gin.Engine, ctrls *Controllers) {
	router.GET("/api/v1/ws", ctrls.WebSocket.Connect)
}
