package lifecycle

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/civiclens/civiclens-api/databases"
	"github.com/civiclens/civiclens-api/models"
)

// toggleVoteAttempts bounds the optimistic retry loop in ToggleVote. Each
// attempt only loses the race when another actor toggled the exact same
// report between our read and our conditional write.
const toggleVoteAttempts = 3

// Engine drives report status changes and vote toggles against the
// persistence layer
type Engine struct {
	Reports databases.ReportDatabase
	History databases.StatusHistoryDatabase
}

// ChangeStatus moves a report to targetStatus on behalf of the given actor.
//
// The history record is appended before the status itself is saved, so a
// crash in between can only leave an orphaned history record, never an
// unaudited status change. Policy failures leave both the report and the
// history untouched.
func (e Engine) ChangeStatus(ctx context.Context, reportID primitive.ObjectID, target models.ReportStatus, rejectionMessage, actorID string, isAdmin bool) error {
	report, err := e.Reports.FindOne(ctx, bson.M{"_id": reportID})
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return fmt.Errorf("%w: %s", ErrReportNotFound, reportID.Hex())
		}
		return err
	}

	if err := Authorize(TransitionRequest{
		Current:          report.Status,
		Target:           target,
		RejectionMessage: rejectionMessage,
		ActorID:          actorID,
		AuthorID:         report.AuthorID,
		IsAdmin:          isAdmin,
	}); err != nil {
		return err
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	if _, err := e.History.InsertOne(ctx, models.StatusHistory{
		ReportID:       reportID,
		UserID:         actorID,
		PreviousStatus: report.Status,
		NewStatus:      target,
		CreatedAt:      now,
	}); err != nil {
		return err
	}

	_, err = e.Reports.UpdateOne(ctx, bson.M{"_id": reportID}, bson.M{
		"$set": bson.M{"status": target, "updatedAt": now},
	})
	if err != nil {
		return err
	}

	zap.S().Infow("report status changed",
		"reportId", reportID.Hex(),
		"actorId", actorID,
		"previousStatus", report.Status,
		"newStatus", target,
	)
	return nil
}

// ToggleVote flips the actor's important-vote on a report. Voting twice
// restores the original state.
//
// The voter set and counter move together in a single conditional update, so
// concurrent toggles by different actors never lose updates and
// voteCount == len(voterIds) holds at all times. Returns whether the actor
// holds a vote after the call.
func (e Engine) ToggleVote(ctx context.Context, reportID primitive.ObjectID, actorID string) (bool, error) {
	for attempt := 0; attempt < toggleVoteAttempts; attempt++ {
		report, err := e.Reports.FindOne(ctx, bson.M{"_id": reportID})
		if err != nil {
			if err == mongo.ErrNoDocuments {
				return false, fmt.Errorf("%w: %s", ErrReportNotFound, reportID.Hex())
			}
			return false, err
		}

		var filter, update bson.M
		voted := containsVoter(report.VoterIDs, actorID)
		if voted {
			// only matches while our vote is still present
			filter = bson.M{"_id": reportID, "voterIds": actorID}
			update = bson.M{
				"$pull": bson.M{"voterIds": actorID},
				"$inc":  bson.M{"voteCount": -1},
			}
		} else {
			filter = bson.M{"_id": reportID, "voterIds": bson.M{"$ne": actorID}}
			update = bson.M{
				"$addToSet": bson.M{"voterIds": actorID},
				"$inc":      bson.M{"voteCount": 1},
			}
		}

		res, err := e.Reports.UpdateOne(ctx, filter, update)
		if err != nil {
			return false, err
		}
		if res.MatchedCount > 0 {
			return !voted, nil
		}
		// lost a race with a concurrent toggle on the same report, re-read
		zap.S().Debugw("vote toggle raced, retrying",
			"reportId", reportID.Hex(),
			"actorId", actorID,
			"attempt", attempt+1,
		)
	}
	return false, fmt.Errorf("vote toggle contention on report %s", reportID.Hex())
}

func containsVoter(voterIDs []string, actorID string) bool {
	for _, id := range voterIDs {
		if id == actorID {
			return true
		}
	}
	return false
}
