package database

import (
	"context"
	"floodguard/models"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// Seeder represents a database seeder
type Seeder struct {
	Name        string
	Description string
	Seed        func(*mongo.Database) error
}

var seeders = []Seeder{
	{
		Name:        "admin_user",
		Description: "Create the development admin account",
		Seed:        seedAdminUser,
	},
	{
		Name:        "demo_volunteers",
		Description: "Create demo volunteers for development",
		Seed:        seedDemoVolunteers,
	},
}

// RunSeeders executes all database seeders once.
func RunSeeders(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	seedersCol := db.Collection("seeders")
	count, err := seedersCol.CountDocuments(ctx, bson.M{})
	if err == nil && count > 0 {
		logrus.Info("Seeders already run, skipping")
		return nil
	}

	logrus.Info("Running database seeders...")

	for _, seeder := range seeders {
		if err := seeder.Seed(db); err != nil {
			return fmt.Errorf("seeder %s failed: %w", seeder.Name, err)
		}

		_, err := seedersCol.InsertOne(ctx, bson.M{
			"name":     seeder.Name,
			"seededAt": time.Now(),
		})
		if err != nil {
			return err
		}

		logrus.Infof("Seeder applied: %s", seeder.Name)
	}

	return nil
}

func seedAdminUser(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@floodguard.app"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123!"
	}

	count, err := db.Collection("users").CountDocuments(ctx, bson.M{"email": email})
	if err != nil || count > 0 {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		ID:         primitive.NewObjectID(),
		Email:      email,
		Password:   string(hashedPassword),
		Name:       "FloodGuard Admin",
		Role:       models.RoleAdmin,
		Status:     models.StatusOffline,
		IsActive:   true,
		IsVerified: true,
		LastSeen:   time.Now(),
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	_, err = db.Collection("users").InsertOne(ctx, admin)
	return err
}

func seedDemoVolunteers(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("volunteer123!"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	volunteers := []interface{}{
		models.User{
			ID:         primitive.NewObjectID(),
			Email:      "ayesha.khan@floodguard.app",
			Password:   string(hashedPassword),
			Name:       "Ayesha Khan",
			Role:       models.RoleVolunteer,
			Status:     models.StatusAvailable,
			Expertise:  "Swift water rescue",
			Location:   &models.GeoPoint{Latitude: 33.6844, Longitude: 73.0479},
			Address:    "Islamabad, Pakistan",
			IsActive:   true,
			IsVerified: true,
			LastSeen:   time.Now(),
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		},
		models.User{
			ID:         primitive.NewObjectID(),
			Email:      "bilal.ahmed@floodguard.app",
			Password:   string(hashedPassword),
			Name:       "Bilal Ahmed",
			Role:       models.RoleVolunteer,
			Status:     models.StatusOffline,
			Expertise:  "First aid and evacuation logistics",
			Location:   &models.GeoPoint{Latitude: 33.5651, Longitude: 73.0169},
			Address:    "Rawalpindi, Pakistan",
			IsActive:   true,
			IsVerified: true,
			LastSeen:   time.Now(),
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		},
	}

	_, err = db.Collection("users").InsertMany(ctx, volunteers)
	return err
}
