package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Incident struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ReporterID primitive.ObjectID `json:"reporterId" bson:"reporterId"`
	Location   GeoPoint           `json:"location" bson:"location"`
	Address    string             `json:"address,omitempty" bson:"address,omitempty"`

	// Severity starts as the reporter's guess and is overwritten once by triage
	Severity    string `json:"severity" bson:"severity"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	PhotoURL    string `json:"photoUrl,omitempty" bson:"photoUrl,omitempty"`

	// Status: reported -> triaged
	Status       string `json:"status" bson:"status"`
	TriageReason string `json:"triageReason,omitempty" bson:"triageReason,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
	TriagedAt time.Time `json:"triagedAt,omitempty" bson:"triagedAt,omitempty"`
}

const (
	IncidentStatusReported = "reported"
	IncidentStatusTriaged  = "triaged"
)

// Reporter-facing severity levels (lowercase, matches the submission form)
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

type SubmitIncidentRequest struct {
	Latitude    float64 `json:"latitude" binding:"required" validate:"required,min=-90,max=90"`
	Longitude   float64 `json:"longitude" binding:"required" validate:"required,min=-180,max=180"`
	Address     string  `json:"address,omitempty"`
	Severity    string  `json:"severity,omitempty" validate:"omitempty,oneof=low medium high"`
	Description string  `json:"description,omitempty" validate:"max=2000"`
}
