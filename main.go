package main

import (
	"context"
	"floodguard/config"
	"floodguard/database"
	"floodguard/routes"
	"floodguard/services"
	"floodguard/utils"
	"floodguard/websocket"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	setupLogger(cfg)

	// MongoDB
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logrus.Fatal("Failed to connect to database: ", err)
	}
	defer database.Disconnect()

	// Redis
	redisClient := config.InitRedis(cfg)
	defer redisClient.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		logrus.Warn("Redis unreachable at startup: ", err)
	}
	cancel()

	// Generative oracle client
	openaiClient := newOpenAIClient(cfg)

	// Object storage for incident photos
	minioClient, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		logrus.Fatal("Failed to initialize object storage client: ", err)
	}

	bucketCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	mediaService := services.NewMediaService(minioClient, cfg.MinioBucket, cfg.MinioPublicURL)
	if err := mediaService.EnsureBucket(bucketCtx); err != nil {
		logrus.Warn("Media bucket unavailable, photo uploads will fail: ", err)
	}
	cancel()

	// Push and SMS delivery, optional
	notifier, err := utils.NewNotificationSender(
		cfg.FirebaseCredentials,
		cfg.TwilioAccountSID,
		cfg.TwilioAuthToken,
		cfg.TwilioPhoneNumber,
	)
	if err != nil {
		logrus.Warn("Notification sender disabled: ", err)
		notifier = nil
	}

	// WebSocket hub
	hub := websocket.NewHub()
	go hub.Run()

	router, triageWorker := routes.SetupRoutes(&routes.Dependencies{
		Config:      cfg,
		MongoClient: database.GetClient(),
		DB:          db,
		Redis:       redisClient,
		Hub:         hub,
		Notifier:    notifier,
		Minio:       minioClient,
		OpenAI:      openaiClient,
	})

	triageWorker.Start()

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		logrus.Info("FloodGuard backend starting on port ", cfg.Port)
		logrus.Info("WebSocket endpoint: /api/v1/ws")
		logrus.Info("Health check: /health")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatal("Failed to start server: ", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.Error("Server forced to shutdown: ", err)
	}

	triageWorker.Stop()
	hub.Shutdown()

	logrus.Info("Server shutdown complete")
}

func newOpenAIClient(cfg *config.Config) *openai.Client {
	clientConfig := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		clientConfig.BaseURL = cfg.OpenAIBaseURL
	}
	return openai.NewClientWithConfig(clientConfig)
}

func setupLogger(cfg *config.Config) {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	if cfg.Environment == "development" {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}
