package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// StatusHistory is an append-only record of a single status transition.
// Records are never mutated or deleted once written.
type StatusHistory struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ReportID       primitive.ObjectID `bson:"reportId" json:"reportId"`
	UserID         string             `bson:"userId" json:"userId"`
	PreviousStatus ReportStatus       `bson:"previousStatus" json:"previousStatus"`
	NewStatus      ReportStatus       `bson:"newStatus" json:"newStatus"`
	CreatedAt      primitive.DateTime `bson:"createdAt" json:"createdAt"`
}
