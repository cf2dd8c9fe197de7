package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// ReportStatus is the lifecycle state of a report
type ReportStatus string

// All report statuses. A report always carries exactly one of these.
const (
	StatusPending  ReportStatus = "PENDING"
	StatusVerified ReportStatus = "VERIFIED"
	StatusResolved ReportStatus = "RESOLVED"
	StatusRejected ReportStatus = "REJECTED"
	StatusDeleted  ReportStatus = "DELETED"
)

// GeoPoint is a WGS84 coordinate pair
type GeoPoint struct {
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
}

// Report represents a citizen-submitted incident report
type Report struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	Title       string               `bson:"title" json:"title"`
	Description string               `bson:"description" json:"description"`
	CategoryIDs []primitive.ObjectID `bson:"categoryIds" json:"categoryIds"`
	Location    GeoPoint             `bson:"location" json:"location"`
	Status      ReportStatus         `bson:"status" json:"status"`
	VoteCount   int                  `bson:"voteCount" json:"voteCount"`
	VoterIDs    []string             `bson:"voterIds" json:"voterIds"`
	AuthorID    string               `bson:"authorId" json:"authorId"`
	AuthorEmail string               `bson:"authorEmail" json:"authorEmail"`
	CreatedAt   primitive.DateTime   `bson:"createdAt" json:"createdAt"`
	UpdatedAt   primitive.DateTime   `bson:"updatedAt" json:"updatedAt"`
}

// CreateReportRequest is the request body for report creation
type CreateReportRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	CategoryIDs []string `json:"categoryIds"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
}

// ChangeStatusRequest is the request body for a status transition
type ChangeStatusRequest struct {
	Status           string `json:"status"`
	RejectionMessage string `json:"rejectionMessage,omitempty"`
}
