package database

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Migration represents a database migration
type Migration struct {
	Version     int
	Description string
	Up          func(*mongo.Database) error
}

type migrationRecord struct {
	Version   int       `bson:"version"`
	AppliedAt time.Time `bson:"appliedAt"`
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Create users collection with indexes",
		Up:          createUsersIndexes,
	},
	{
		Version:     2,
		Description: "Create incidents collection with indexes",
		Up:          createIncidentsIndexes,
	},
	{
		Version:     3,
		Description: "Create alerts collection with indexes",
		Up:          createAlertsIndexes,
	},
	{
		Version:     4,
		Description: "Create incident reports collection with indexes",
		Up:          createReportsIndexes,
	},
	{
		Version:     5,
		Description: "Create volunteer applications collection with indexes",
		Up:          createApplicationsIndexes,
	},
	{
		Version:     6,
		Description: "Create volunteer chat collection with indexes",
		Up:          createChatIndexes,
	},
	{
		Version:     7,
		Description: "Create saved locations collection with indexes",
		Up:          createSavedLocationsIndexes,
	},
}

// RunMigrations applies pending migrations in version order.
func RunMigrations(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	migrationsCol := db.Collection("migrations")

	for _, migration := range migrations {
		var record migrationRecord
		err := migrationsCol.FindOne(ctx, bson.M{"version": migration.Version}).Decode(&record)
		if err == nil {
			continue
		}
		if err != mongo.ErrNoDocuments {
			return fmt.Errorf("failed to check migration %d: %w", migration.Version, err)
		}

		logrus.Infof("Applying migration %d: %s", migration.Version, migration.Description)

		if err := migration.Up(db); err != nil {
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		_, err = migrationsCol.InsertOne(ctx, migrationRecord{
			Version:   migration.Version,
			AppliedAt: time.Now(),
		})
		if err != nil {
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

func createUsersIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Email and phone are unique but optional: anonymous users have neither
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"email": bson.M{"$type": "string"}}),
		},
		{
			Keys: bson.D{{Key: "phone", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"phone": bson.M{"$type": "string"}}),
		},
		{
			Keys: bson.D{{Key: "role", Value: 1}, {Key: "status", Value: 1}},
		},
	}

	_, err := db.Collection("users").Indexes().CreateMany(ctx, indexes)
	return err
}

func createIncidentsIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			// The triage sweep reads reported incidents oldest first
			Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "reporterId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
	}

	_, err := db.Collection("incidents").Indexes().CreateMany(ctx, indexes)
	return err
}

func createAlertsIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			// Dashboard feed: open alerts newest first
			Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			// GetAssigned lookup
			Keys: bson.D{{Key: "assignedVolunteer", Value: 1}, {Key: "status", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "incidentId", Value: 1}},
		},
	}

	_, err := db.Collection("alerts").Indexes().CreateMany(ctx, indexes)
	return err
}

func createReportsIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			// One terminal report per alert
			Keys:    bson.D{{Key: "alertId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "volunteerId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
	}

	_, err := db.Collection("incident_reports").Indexes().CreateMany(ctx, indexes)
	return err
}

func createApplicationsIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			// One pending application per user
			Keys: bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": "pending"}),
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
		},
	}

	_, err := db.Collection("volunteer_applications").Indexes().CreateMany(ctx, indexes)
	return err
}

func createChatIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "timestamp", Value: -1}},
		},
	}

	_, err := db.Collection("volunteer_chats").Indexes().CreateMany(ctx, indexes)
	return err
}

func createSavedLocationsIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
	}

	_, err := db.Collection("saved_locations").Indexes().CreateMany(ctx, indexes)
	return err
}
