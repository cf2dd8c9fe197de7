package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Comment represents a comment left on a report
type Comment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ReportID   primitive.ObjectID `bson:"reportId" json:"reportId"`
	AuthorID   string             `bson:"authorId" json:"authorId"`
	AuthorName string             `bson:"authorName" json:"authorName"`
	Text       string             `bson:"text" json:"text"`
	CreatedAt  primitive.DateTime `bson:"createdAt" json:"createdAt"`
}

// CreateCommentRequest is the request body for comment creation
type CreateCommentRequest struct {
	Text string `json:"text"`
}
