package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Alert is a broadcast notification of elevated flood risk requiring a
// volunteer response. Lifecycle: active -> accepted -> resolved. No
// reopening and no skipped states.
type Alert struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	IncidentID primitive.ObjectID `json:"incidentId,omitempty" bson:"incidentId,omitempty"`
	Location   GeoPoint           `json:"location" bson:"location"`
	Address    string             `json:"address,omitempty" bson:"address,omitempty"`

	// RiskScore: Low, Medium, High. Alerts are only created for High.
	RiskScore string `json:"riskScore" bson:"riskScore"`
	Reason    string `json:"reason,omitempty" bson:"reason,omitempty"`

	Status            string             `json:"status" bson:"status"`
	AssignedVolunteer primitive.ObjectID `json:"assignedVolunteer,omitempty" bson:"assignedVolunteer,omitempty"`
	ResolvedBy        primitive.ObjectID `json:"resolvedBy,omitempty" bson:"resolvedBy,omitempty"`

	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt" bson:"updatedAt"`
	AcceptedAt time.Time `json:"acceptedAt,omitempty" bson:"acceptedAt,omitempty"`
	ResolvedAt time.Time `json:"resolvedAt,omitempty" bson:"resolvedAt,omitempty"`
}

const (
	AlertStatusActive   = "active"
	AlertStatusAccepted = "accepted"
	AlertStatusResolved = "resolved"
)

// Risk categories returned by the triage and prediction oracles
const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

// CanTransition reports whether an alert may move from one status to
// another. Only forward single-step transitions are legal.
func CanTransition(from, to string) bool {
	switch from {
	case AlertStatusActive:
		return to == AlertStatusAccepted
	case AlertStatusAccepted:
		return to == AlertStatusResolved
	}
	return false
}

// IncidentReport is the terminal resolution report filed by the assigned
// volunteer. Filing one closes the alert.
type IncidentReport struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	AlertID      primitive.ObjectID `json:"alertId" bson:"alertId"`
	VolunteerID  primitive.ObjectID `json:"volunteerId" bson:"volunteerId"`
	Casualties   int                `json:"casualties" bson:"casualties"`
	Injuries     int                `json:"injuries" bson:"injuries"`
	LossEstimate float64            `json:"lossEstimate" bson:"lossEstimate"`
	SafetyStatus string             `json:"safetyStatus" bson:"safetyStatus"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
}

type ResolveAlertRequest struct {
	Casualties   int     `json:"casualties" validate:"min=0"`
	Injuries     int     `json:"injuries" validate:"min=0"`
	LossEstimate float64 `json:"lossEstimate" validate:"min=0"`
	SafetyStatus string  `json:"safetyStatus" binding:"required" validate:"required,min=5"`
}
