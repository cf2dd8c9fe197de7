package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/civiclens/civiclens-api/models"
	templates "github.com/civiclens/civiclens-api/templates/html"
)

// CommentNotifier alerts a report's owner when someone else comments on it
type CommentNotifier struct {
	Realtime RealtimeChannel
	Email    EmailChannel
}

// NotifyOwner delivers a comment alert to the report owner over both
// channels. Self-comments are skipped entirely. Unlike the proximity fan-out
// there is only one recipient here, so channel failures surface to the
// caller, typed per channel: ErrRealtimeDeliveryFailed aborts before the
// email attempt, ErrEmailDeliveryFailed follows a successful push.
func (n CommentNotifier) NotifyOwner(ctx context.Context, comment models.Comment, report models.Report, commenterName string) error {
	if comment.AuthorID == report.AuthorID {
		zap.S().Debugw("skipping self-comment notification",
			"reportId", report.ID.Hex(),
			"authorId", report.AuthorID,
		)
		return nil
	}

	payload := Payload{
		Kind:        KindCommentAlert,
		ReportID:    report.ID.Hex(),
		CommentID:   comment.ID.Hex(),
		Title:       report.Title,
		Body:        comment.Text,
		CommenterID: comment.AuthorID,
	}
	if err := n.Realtime.Deliver(report.AuthorID, payload); err != nil {
		return fmt.Errorf("%w: %v", ErrRealtimeDeliveryFailed, err)
	}

	if err := n.Email.Send(ctx, Email{
		To:        report.AuthorEmail,
		Subject:   "New comment on your report",
		PlainText: commenterName + " commented on \"" + report.Title + "\": " + comment.Text,
		HTML:      templates.RenderCommentAlert(commenterName, report.Title, comment.Text),
	}); err != nil {
		return fmt.Errorf("%w: %v", ErrEmailDeliveryFailed, err)
	}
	return nil
}
