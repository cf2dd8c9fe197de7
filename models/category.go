package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Category represents an incident category that reports can reference
type Category struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	CreatedAt   primitive.DateTime `bson:"createdAt" json:"createdAt"`
}
