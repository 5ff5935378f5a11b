package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SavedLocation is a user-bookmarked place on the dashboard.
type SavedLocation struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	Name      string             `json:"name" bson:"name"`
	Latitude  float64            `json:"latitude" bson:"latitude"`
	Longitude float64            `json:"longitude" bson:"longitude"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

type SaveLocationRequest struct {
	Name      string  `json:"name" binding:"required" validate:"required,min=1,max=200"`
	Latitude  float64 `json:"latitude" binding:"required" validate:"required,min=-90,max=90"`
	Longitude float64 `json:"longitude" binding:"required" validate:"required,min=-180,max=180"`
}

type GeocodeRequest struct {
	Address string `json:"address" binding:"required" validate:"required,min=2,max=300"`
}

// GeocodeResult is the resolved place for a forward or reverse lookup.
type GeocodeResult struct {
	DisplayName string  `json:"displayName"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}
