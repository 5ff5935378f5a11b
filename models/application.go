package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VolunteerApplication is an admin-reviewed request to become a volunteer.
// Approval promotes the applicant's role.
type VolunteerApplication struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	Name      string             `json:"name" bson:"name"`
	Expertise string             `json:"expertise" bson:"expertise"`
	Status    string             `json:"status" bson:"status"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`

	ReviewedBy primitive.ObjectID `json:"reviewedBy,omitempty" bson:"reviewedBy,omitempty"`
	ReviewedAt time.Time          `json:"reviewedAt,omitempty" bson:"reviewedAt,omitempty"`
}

const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusApproved = "approved"
	ApplicationStatusRejected = "rejected"
)

type SubmitApplicationRequest struct {
	Name      string `json:"name" binding:"required" validate:"required,min=2,max=100"`
	Expertise string `json:"expertise" binding:"required" validate:"required,min=2,max=500"`
}

type ReviewApplicationRequest struct {
	Status string `json:"status" binding:"required" validate:"required,oneof=approved rejected"`
}
