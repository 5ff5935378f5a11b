package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID       primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email    string             `json:"email,omitempty" bson:"email,omitempty"`
	Phone    string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Password string             `json:"-" bson:"password,omitempty"` // Never include in JSON responses

	Name           string `json:"name" bson:"name"`
	ProfilePicture string `json:"profilePicture,omitempty" bson:"profilePicture,omitempty"`
	DeviceToken    string `json:"-" bson:"deviceToken,omitempty"`

	// Role: anonymous, registered, volunteer, admin
	Role string `json:"role" bson:"role"`

	// Status is the volunteer availability flag: available, offline, responding.
	// It is the single source of truth for assignment eligibility.
	Status string `json:"status" bson:"status"`

	// Last known location, set from the dashboard
	Location *GeoPoint `json:"location,omitempty" bson:"location,omitempty"`
	Address  string    `json:"address,omitempty" bson:"address,omitempty"`

	// Volunteer profile
	Expertise string `json:"expertise,omitempty" bson:"expertise,omitempty"`

	IsActive   bool      `json:"isActive" bson:"isActive"`
	IsVerified bool      `json:"isVerified" bson:"isVerified"`
	LastSeen   time.Time `json:"lastSeen" bson:"lastSeen"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

type GeoPoint struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
}

// User role constants
const (
	RoleAnonymous  = "anonymous"
	RoleRegistered = "registered"
	RoleVolunteer  = "volunteer"
	RoleAdmin      = "admin"
)

// Volunteer status constants
const (
	StatusAvailable  = "available"
	StatusOffline    = "offline"
	StatusResponding = "responding"
)

func IsValidVolunteerStatus(status string) bool {
	switch status {
	case StatusAvailable, StatusOffline, StatusResponding:
		return true
	}
	return false
}

type UpdateProfileRequest struct {
	Name           *string   `json:"name,omitempty"`
	ProfilePicture *string   `json:"profilePicture,omitempty"`
	Location       *GeoPoint `json:"location,omitempty"`
	Address        *string   `json:"address,omitempty"`
	DeviceToken    *string   `json:"deviceToken,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required" validate:"required,oneof=available offline responding"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required" validate:"required,oneof=anonymous registered volunteer admin"`
}
