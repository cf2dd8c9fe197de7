package notify_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/civiclens/civiclens-api/api/notify"
	"github.com/civiclens/civiclens-api/models"
)

func TestCommentNotifier_NotifyOwner_DeliversBothChannels(t *testing.T) {
	realtime := &fakeRealtime{}
	email := &fakeEmail{}
	n := notify.CommentNotifier{Realtime: realtime, Email: email}

	reportID := primitive.NewObjectID()
	commentID := primitive.NewObjectID()
	err := n.NotifyOwner(context.Background(),
		models.Comment{ID: commentID, ReportID: reportID, AuthorID: "commenter-1", Text: "Still an issue?"},
		models.Report{ID: reportID, Title: "Pothole", AuthorID: "owner-1", AuthorEmail: "owner@example.com"},
		"Jamie",
	)

	assert.NoError(t, err)
	assert.True(t, realtime.deliveredTo("owner-1"))
	assert.True(t, email.sentTo("owner@example.com"))

	if assert.Equal(t, 1, realtime.count()) {
		payload := realtime.delivered[0]
		assert.Equal(t, notify.KindCommentAlert, payload.Kind)
		assert.Equal(t, reportID.Hex(), payload.ReportID)
		assert.Equal(t, commentID.Hex(), payload.CommentID)
		assert.Equal(t, "Still an issue?", payload.Body)
		assert.Equal(t, "commenter-1", payload.CommenterID)
	}
}

func TestCommentNotifier_NotifyOwner_SkipsSelfComment(t *testing.T) {
	realtime := &fakeRealtime{}
	email := &fakeEmail{}
	n := notify.CommentNotifier{Realtime: realtime, Email: email}

	err := n.NotifyOwner(context.Background(),
		models.Comment{AuthorID: "owner-1", Text: "Updating my own report"},
		models.Report{ID: primitive.NewObjectID(), AuthorID: "owner-1", AuthorEmail: "owner@example.com"},
		"Owner",
	)

	assert.NoError(t, err)
	assert.Zero(t, realtime.count())
	assert.Zero(t, email.count())
}

func TestCommentNotifier_NotifyOwner_RealtimeFailureAbortsEmail(t *testing.T) {
	realtime := &fakeRealtime{failFor: map[string]error{"owner-1": errors.New("socket closed")}}
	email := &fakeEmail{}
	n := notify.CommentNotifier{Realtime: realtime, Email: email}

	err := n.NotifyOwner(context.Background(),
		models.Comment{AuthorID: "commenter-1", Text: "ping"},
		models.Report{ID: primitive.NewObjectID(), AuthorID: "owner-1", AuthorEmail: "owner@example.com"},
		"Jamie",
	)

	assert.ErrorIs(t, err, notify.ErrRealtimeDeliveryFailed)
	assert.Zero(t, email.count())
}

func TestCommentNotifier_NotifyOwner_EmailFailureIsTyped(t *testing.T) {
	realtime := &fakeRealtime{}
	email := &fakeEmail{failFor: map[string]error{"owner@example.com": errors.New("rate limited")}}
	n := notify.CommentNotifier{Realtime: realtime, Email: email}

	err := n.NotifyOwner(context.Background(),
		models.Comment{AuthorID: "commenter-1", Text: "ping"},
		models.Report{ID: primitive.NewObjectID(), AuthorID: "owner-1", AuthorEmail: "owner@example.com"},
		"Jamie",
	)

	assert.ErrorIs(t, err, notify.ErrEmailDeliveryFailed)
	assert.True(t, realtime.deliveredTo("owner-1"))
}
