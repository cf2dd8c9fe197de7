package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User represents a registered citizen account
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email       string             `bson:"email" json:"email"`
	Password    string             `bson:"password" json:"-"`
	DisplayName string             `bson:"displayName" json:"displayName"`
	Admin       bool               `bson:"admin" json:"admin"`
	Location    *GeoPoint          `bson:"location,omitempty" json:"location,omitempty"`
	RadiusKm    float64            `bson:"radiusKm" json:"radiusKm"`
	CreatedAt   primitive.DateTime `bson:"createdAt" json:"createdAt"`
}

// CreateUserRequest is the request body for registration
type CreateUserRequest struct {
	Email       string    `json:"email"`
	Password    string    `json:"password"`
	DisplayName string    `json:"displayName"`
	Location    *GeoPoint `json:"location,omitempty"`
	RadiusKm    float64   `json:"radiusKm"`
}

// UpdateLocationRequest is the request body for updating a user's
// location and notification radius
type UpdateLocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	RadiusKm  float64 `json:"radiusKm"`
}
