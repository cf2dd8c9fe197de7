package lifecycle

import (
	"errors"
	"strings"

	"github.com/civiclens/civiclens-api/models"
)

// Failure taxonomy for status transitions. Handlers match these with errors.Is
// and map them to HTTP status codes.
var (
	// ErrReportNotFound means the requested report id has no corresponding record
	ErrReportNotFound = errors.New("report not found")
	// ErrUnauthorized means the actor lacks permission for the requested transition
	ErrUnauthorized = errors.New("actor not authorized for transition")
	// ErrInvalidTransition means the requested status is unreachable from the current status
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrMissingRejectionReason means REJECTED was requested without a rejection message
	ErrMissingRejectionReason = errors.New("rejection requires a rejection message")
)

// transitions is the full status graph. RESOLVED, REJECTED and DELETED are
// terminal: nothing leaves them, not even for admins.
var transitions = map[models.ReportStatus][]models.ReportStatus{
	models.StatusPending:  {models.StatusVerified, models.StatusResolved, models.StatusRejected, models.StatusDeleted},
	models.StatusVerified: {models.StatusResolved, models.StatusRejected, models.StatusDeleted},
	models.StatusResolved: {},
	models.StatusRejected: {},
	models.StatusDeleted:  {},
}

// TransitionRequest carries everything the policy needs to decide on a
// status change. Identity comes in as explicit values, the policy never
// consults any ambient security context.
type TransitionRequest struct {
	Current          models.ReportStatus
	Target           models.ReportStatus
	RejectionMessage string
	ActorID          string
	AuthorID         string
	IsAdmin          bool
}

// Authorize decides whether the requested transition may proceed. It is a pure
// function: same inputs, same answer, no side effects.
//
// Checks run in a fixed order so the outcome is deterministic for every input
// combination: graph reachability first, then the rejection-message
// requirement, then actor authorization.
func Authorize(req TransitionRequest) error {
	reachable, known := transitions[req.Current]
	if !known {
		return ErrInvalidTransition
	}
	if !containsStatus(reachable, req.Target) {
		return ErrInvalidTransition
	}

	// Rejections always need a reason, admins included
	if req.Target == models.StatusRejected && strings.TrimSpace(req.RejectionMessage) == "" {
		return ErrMissingRejectionReason
	}

	if req.IsAdmin {
		return nil
	}
	if req.ActorID != "" && req.ActorID == req.AuthorID {
		// owners may perform any listed transition on their own report
		return nil
	}
	return ErrUnauthorized
}

func containsStatus(statuses []models.ReportStatus, s models.ReportStatus) bool {
	for _, candidate := range statuses {
		if candidate == s {
			return true
		}
	}
	return false
}
