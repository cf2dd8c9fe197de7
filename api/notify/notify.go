// Package notify owns outbound notifications: the proximity fan-out on report
// creation and the owner alert on new comments. Delivery happens over two
// channels, a realtime push (websocket hub) and email (sendgrid).
package notify

import (
	"context"
	"errors"
)

// Payload kinds pushed over the realtime channel
const (
	KindProximityAlert = "proximity-alert"
	KindCommentAlert   = "comment-alert"
)

// Channel-specific delivery failures. CommentNotifier surfaces them to its
// caller; the proximity fan-out only counts and logs them.
var (
	// ErrRealtimeDeliveryFailed means the realtime push channel failed
	ErrRealtimeDeliveryFailed = errors.New("realtime delivery failed")
	// ErrEmailDeliveryFailed means the email channel failed
	ErrEmailDeliveryFailed = errors.New("email delivery failed")
)

// Payload is the body of a single notification, consumed at dispatch time
// and never persisted
type Payload struct {
	Kind        string  `json:"kind"`
	ReportID    string  `json:"reportId"`
	CommentID   string  `json:"commentId,omitempty"`
	Title       string  `json:"title"`
	Body        string  `json:"body"`
	DistanceKm  float64 `json:"distanceKm,omitempty"`
	CommenterID string  `json:"commenterId,omitempty"`
}

// RealtimeChannel pushes a payload to a single connected user
type RealtimeChannel interface {
	Deliver(userID string, payload Payload) error
}

// Email is one outbound email message
type Email struct {
	To        string
	ToName    string
	Subject   string
	PlainText string
	HTML      string
}

// EmailChannel sends a single email. Implementations must bound each send
// with a per-call timeout.
type EmailChannel interface {
	Send(ctx context.Context, email Email) error
}
