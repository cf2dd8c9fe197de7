package handlers

import (
	"encoding/json"
	"math"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/civiclens/civiclens-api/api"
	"github.com/civiclens/civiclens-api/config"
	"github.com/civiclens/civiclens-api/databases"
	"github.com/civiclens/civiclens-api/models"
)

// StatusHistory handles audit-trail queries
type StatusHistory struct {
	DB databases.StatusHistoryDatabase
}

// StatusHistoryHandler returns a page of status-change records filtered by
// reportId, userId, previousStatus, newStatus and/or creation date range
// (RFC3339 from/to query params)
func (h StatusHistory) StatusHistoryHandler(w http.ResponseWriter, r *http.Request) {
	limit := getLimit(r, 20)
	page := getPage(Page, r)
	if page < 1 {
		page = 1
	}

	filter := bson.M{}
	if reportID := r.URL.Query().Get("reportId"); reportID != "" {
		rID, err := primitive.ObjectIDFromHex(reportID)
		if err != nil {
			config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
			return
		}
		filter["reportId"] = rID
	}
	if userID := r.URL.Query().Get("userId"); userID != "" {
		filter["userId"] = userID
	}
	if prev := r.URL.Query().Get("previousStatus"); prev != "" {
		filter["previousStatus"] = prev
	}
	if next := r.URL.Query().Get("newStatus"); next != "" {
		filter["newStatus"] = next
	}

	createdAt := bson.M{}
	if from := r.URL.Query().Get("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			config.ErrorStatus("failed to parse from date", http.StatusBadRequest, w, err)
			return
		}
		createdAt["$gte"] = primitive.NewDateTimeFromTime(t)
	}
	if to := r.URL.Query().Get("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			config.ErrorStatus("failed to parse to date", http.StatusBadRequest, w, err)
			return
		}
		createdAt["$lte"] = primitive.NewDateTimeFromTime(t)
	}
	if len(createdAt) > 0 {
		filter["createdAt"] = createdAt
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	type findResult struct {
		records []models.StatusHistory
		err     error
	}
	type countResult struct {
		count int64
		err   error
	}

	findChan := make(chan findResult, 1)
	countChan := make(chan countResult, 1)

	go func() {
		records, err := h.DB.FindPage(ctx, filter, limit, page)
		findChan <- findResult{records: records, err: err}
	}()

	go func() {
		count, err := h.DB.CountDocuments(ctx, filter)
		countChan <- countResult{count: count, err: err}
	}()

	findRes := <-findChan
	countRes := <-countChan

	if findRes.err != nil {
		config.ErrorStatus("failed to get status history", http.StatusNotFound, w, findRes.err)
		return
	}

	dbResp := findRes.records
	if len(dbResp) == 0 {
		dbResp = []models.StatusHistory{}
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

// StatusHistoryByReportHandler returns a page of status changes for a single
// report, newest first
func (h StatusHistory) StatusHistoryByReportHandler(w http.ResponseWriter, r *http.Request) {
	reportID := mux.Vars(r)["report_id"]
	rID, err := primitive.ObjectIDFromHex(reportID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	limit := getLimit(r, 20)
	page := getPage(Page, r)
	if page < 1 {
		page = 1
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := h.DB.FindPage(ctx, bson.M{"reportId": rID}, limit, page)
	if err != nil {
		config.ErrorStatus("failed to get status history", http.StatusNotFound, w, err)
		return
	}

	if len(dbResp) == 0 {
		dbResp = []models.StatusHistory{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// StatusHistoryCountHandler returns the number of status changes recorded for
// a report
func (h StatusHistory) StatusHistoryCountHandler(w http.ResponseWriter, r *http.Request) {
	reportID := mux.Vars(r)["report_id"]
	rID, err := primitive.ObjectIDFromHex(reportID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	count, err := h.DB.CountDocuments(ctx, bson.M{"reportId": rID})
	if err != nil {
		config.ErrorStatus("failed to count status history", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"reportId": reportID,
		"count":    count,
	})
}
