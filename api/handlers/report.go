package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/civiclens/civiclens-api/api"
	"github.com/civiclens/civiclens-api/api/lifecycle"
	"github.com/civiclens/civiclens-api/api/notify"
	"github.com/civiclens/civiclens-api/config"
	"github.com/civiclens/civiclens-api/databases"
	"github.com/civiclens/civiclens-api/models"
)

// fanoutTimeout bounds one complete proximity fan-out run, which happens in
// the background after report creation has already been acknowledged
const fanoutTimeout = 2 * time.Minute

// Report handles report-related requests
type Report struct {
	RDB       databases.ReportDatabase
	UDB       databases.UserDatabase
	Lifecycle lifecycle.Engine
	Fanout    notify.Fanout
}

// CreateReportHandler creates a new report and kicks off the proximity
// fan-out in the background. Creation succeeds regardless of notification
// outcome.
func (re Report) CreateReportHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := api.IdentityFrom(r.Context())
	if !ok {
		config.ErrorStatus("missing actor identity", http.StatusUnauthorized, w, errors.New("no identity on request"))
		return
	}

	var req models.CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.Title == "" {
		config.ErrorStatus("title is required", http.StatusBadRequest, w, errors.New("empty title"))
		return
	}

	categoryIDs := make([]primitive.ObjectID, 0, len(req.CategoryIDs))
	for _, raw := range req.CategoryIDs {
		cID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
			return
		}
		categoryIDs = append(categoryIDs, cID)
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	actorOID, err := primitive.ObjectIDFromHex(identity.ActorID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}
	author, err := re.UDB.FindOne(ctx, bson.M{"_id": actorOID})
	if err != nil {
		config.ErrorStatus("failed to get author", http.StatusNotFound, w, err)
		return
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	report := models.Report{
		ID:          primitive.NewObjectID(),
		Title:       req.Title,
		Description: req.Description,
		CategoryIDs: categoryIDs,
		Location:    models.GeoPoint{Latitude: req.Latitude, Longitude: req.Longitude},
		Status:      models.StatusPending,
		VoteCount:   0,
		VoterIDs:    []string{},
		AuthorID:    identity.ActorID,
		AuthorEmail: author.Email,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := re.RDB.InsertOne(ctx, report); err != nil {
		config.ErrorStatus("failed to create report", http.StatusInternalServerError, w, err)
		return
	}

	// Notify nearby subscribers without holding up the response
	go func(report models.Report) {
		defer func() {
			if rec := recover(); rec != nil {
				zap.S().Errorw("panic in proximity fanout", "reportId", report.ID.Hex(), "panic", rec)
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), fanoutTimeout)
		defer cancel()
		re.Fanout.NotifyNearby(ctx, report)
	}(report)

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Report created successfully",
		"id":      report.ID.Hex(),
		"report":  report,
	})
}

// ReportByIDHandler returns a report by ID
func (re Report) ReportByIDHandler(w http.ResponseWriter, r *http.Request) {
	reportID := mux.Vars(r)["report_id"]

	zap.S().Debugf("report_id: %v", reportID)

	rID, err := primitive.ObjectIDFromHex(reportID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := re.RDB.FindOne(ctx, bson.M{"_id": rID})
	if err != nil {
		config.ErrorStatus("failed to get report by ID", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ReportsHandler returns a page of reports, optionally filtered by status
// and author
func (re Report) ReportsHandler(w http.ResponseWriter, r *http.Request) {
	limit := getLimit(r, 10)
	page := getPage(Page, r)
	limit64 := int64(limit)
	skip64 := int64(page * limit)

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}
	if authorID := r.URL.Query().Get("authorId"); authorID != "" {
		filter["authorId"] = authorID
	}

	opts := options.Find().
		SetLimit(limit64).
		SetSkip(skip64).
		SetSort(bson.M{"_id": -1})

	type findResult struct {
		reports []models.Report
		err     error
	}
	type countResult struct {
		count int64
		err   error
	}

	findChan := make(chan findResult, 1)
	countChan := make(chan countResult, 1)

	go func() {
		reports, err := re.RDB.Find(ctx, filter, opts)
		findChan <- findResult{reports: reports, err: err}
	}()

	go func() {
		count, err := re.RDB.CountDocuments(ctx, filter)
		countChan <- countResult{count: count, err: err}
	}()

	findRes := <-findChan
	countRes := <-countChan

	if findRes.err != nil {
		config.ErrorStatus("failed to get reports", http.StatusNotFound, w, findRes.err)
		return
	}

	dbResp := findRes.reports
	if len(dbResp) == 0 {
		dbResp = []models.Report{}
	}
	var totalCount int64
	if countRes.err != nil {
		totalCount = int64(len(dbResp))
	} else {
		totalCount = countRes.count
	}
	totalPages := int(math.Ceil(float64(totalCount) / float64(limit)))

	b, err := json.Marshal(models.PagedResponse{
		Data:       dbResp,
		Page:       page,
		Limit:      limit,
		TotalCount: totalCount,
		TotalPages: totalPages,
	})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// UpdateReportHandler updates a report's title, description or categories.
// Only the author or an admin may edit.
func (re Report) UpdateReportHandler(w http.ResponseWriter, r *http.Request) {
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

	var req models.CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	existing, err := re.RDB.FindOne(ctx, bson.M{"_id": rID})
	if err != nil {
		config.ErrorStatus("failed to find report", http.StatusNotFound, w, err)
		return
	}
	if !identity.Admin && existing.AuthorID != identity.ActorID {
		config.ErrorStatus("not permitted to edit this report", http.StatusForbidden, w, errors.New("actor is not the author"))
		return
	}

	set := bson.M{"updatedAt": primitive.NewDateTimeFromTime(time.Now())}
	if req.Title != "" {
		set["title"] = req.Title
	}
	if req.Description != "" {
		set["description"] = req.Description
	}
	if req.CategoryIDs != nil {
		categoryIDs := make([]primitive.ObjectID, 0, len(req.CategoryIDs))
		for _, raw := range req.CategoryIDs {
			cID, err := primitive.ObjectIDFromHex(raw)
			if err != nil {
				config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
				return
			}
			categoryIDs = append(categoryIDs, cID)
		}
		set["categoryIds"] = categoryIDs
	}

	if _, err := re.RDB.UpdateOne(ctx, bson.M{"_id": rID}, bson.M{"$set": set}); err != nil {
		config.ErrorStatus("failed to update report", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Report updated successfully",
	})
}

// ChangeStatusHandler drives a report through one status transition
func (re Report) ChangeStatusHandler(w http.ResponseWriter, r *http.Request) {
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

	var req models.ChangeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	err = re.Lifecycle.ChangeStatus(ctx, rID, models.ReportStatus(req.Status), req.RejectionMessage, identity.ActorID, identity.Admin)
	if err != nil {
		writeLifecycleError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Report status changed successfully",
		"status":  req.Status,
	})
}

// ToggleVoteHandler flips the caller's important-vote on a report
func (re Report) ToggleVoteHandler(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	voted, err := re.Lifecycle.ToggleVote(ctx, rID, identity.ActorID)
	if err != nil {
		writeLifecycleError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Vote toggled successfully",
		"voted":   voted,
	})
}

// writeLifecycleError maps the lifecycle failure taxonomy onto HTTP codes
func writeLifecycleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, lifecycle.ErrReportNotFound):
		config.ErrorStatus("report not found", http.StatusNotFound, w, err)
	case errors.Is(err, lifecycle.ErrUnauthorized):
		config.ErrorStatus("not permitted to change this report", http.StatusForbidden, w, err)
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		config.ErrorStatus("status transition not allowed", http.StatusConflict, w, err)
	case errors.Is(err, lifecycle.ErrMissingRejectionReason):
		config.ErrorStatus("rejection message is required", http.StatusUnprocessableEntity, w, err)
	default:
		config.ErrorStatus("failed to update report", http.StatusInternalServerError, w, err)
	}
}
