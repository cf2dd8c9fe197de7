package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/civiclens/civiclens-api/api"
	"github.com/civiclens/civiclens-api/api/notify"
	"github.com/civiclens/civiclens-api/config"
	"github.com/civiclens/civiclens-api/databases"
	"github.com/civiclens/civiclens-api/models"
)

// Comment handles comment-related requests
type Comment struct {
	DB       databases.CommentDatabase
	RDB      databases.ReportDatabase
	UDB      databases.UserDatabase
	Notifier notify.CommentNotifier
}

// CreateCommentHandler adds a comment to a report and notifies the report
// owner. The comment is stored regardless of notification outcome; channel
// failures are reported in the response body.
func (c Comment) CreateCommentHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := api.IdentityFrom(r.Context())
	if !ok {
		config.ErrorStatus("missing actor identity", http.StatusUnauthorized, w, errors.New("no identity on request"))
		return
	}

	reportID := mux.Vars(r)["report_id"]
	rID, err := primitive.ObjectIDFromHex(reportID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var req models.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.Text == "" {
		config.ErrorStatus("comment text is required", http.StatusBadRequest, w, errors.New("empty text"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	report, err := c.RDB.FindOne(ctx, bson.M{"_id": rID})
	if err != nil {
		config.ErrorStatus("failed to get report by ID", http.StatusNotFound, w, err)
		return
	}

	commenterName := identity.ActorID
	if actorOID, err := primitive.ObjectIDFromHex(identity.ActorID); err == nil {
		if commenter, err := c.UDB.FindOne(ctx, bson.M{"_id": actorOID}); err == nil {
			commenterName = commenter.DisplayName
		}
	}

	comment := models.Comment{
		ID:         primitive.NewObjectID(),
		ReportID:   rID,
		AuthorID:   identity.ActorID,
		AuthorName: commenterName,
		Text:       req.Text,
		CreatedAt:  primitive.NewDateTimeFromTime(time.Now()),
	}
	if _, err := c.DB.InsertOne(ctx, comment); err != nil {
		config.ErrorStatus("failed to create comment", http.StatusInternalServerError, w, err)
		return
	}

	// Single recipient, so channel failures surface here instead of being
	// swallowed like the proximity fan-out does
	notification := "delivered"
	if err := c.Notifier.NotifyOwner(ctx, comment, *report, commenterName); err != nil {
		switch {
		case errors.Is(err, notify.ErrRealtimeDeliveryFailed):
			notification = "realtime delivery failed"
		case errors.Is(err, notify.ErrEmailDeliveryFailed):
			notification = "email delivery failed"
		default:
			notification = "delivery failed"
		}
		zap.S().Warnw("comment notification failed",
			"reportId", rID.Hex(),
			"commentId", comment.ID.Hex(),
			"error", err,
		)
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":      "Comment created successfully",
		"id":           comment.ID.Hex(),
		"notification": notification,
	})
}

// CommentsByReportHandler returns a page of comments for a report, newest
// first
func (c Comment) CommentsByReportHandler(w http.ResponseWriter, r *http.Request) {
	reportID := mux.Vars(r)["report_id"]
	rID, err := primitive.ObjectIDFromHex(reportID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	limit := getLimit(r, 20)
	page := getPage(Page, r)
	limit64 := int64(limit)
	skip64 := int64(page * limit)

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := c.DB.Find(ctx, bson.M{"reportId": rID}, &options.FindOptions{
		Limit: &limit64,
		Skip:  &skip64,
		Sort:  bson.M{"_id": -1},
	})
	if err != nil {
		config.ErrorStatus("failed to get comments", http.StatusNotFound, w, err)
		return
	}

	if len(dbResp) == 0 {
		dbResp = []models.Comment{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
