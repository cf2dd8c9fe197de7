package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/civiclens/civiclens-api/api/handlers"
	"github.com/civiclens/civiclens-api/databases/mocks"
	"github.com/civiclens/civiclens-api/models"
)

func TestStatusHistory_StatusHistoryHandler(t *testing.T) {
	reportID := primitive.NewObjectID()
	hdb := &mocks.StatusHistoryDatabase{}

	wantFilter := bson.M{"reportId": reportID, "newStatus": "VERIFIED"}
	hdb.On("FindPage", mock.Anything, wantFilter, 20, 1).
		Return([]models.StatusHistory{
			{ID: primitive.NewObjectID(), ReportID: reportID, PreviousStatus: models.StatusPending, NewStatus: models.StatusVerified},
		}, nil)
	hdb.On("CountDocuments", mock.Anything, wantFilter).Return(int64(1), nil)

	req, err := http.NewRequest("GET", "/api/v1/status-history?reportId="+reportID.Hex()+"&newStatus=VERIFIED", nil)
	if err != nil {
		t.Fatal(err)
	}

	h := handlers.StatusHistory{DB: hdb}
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.StatusHistoryHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp models.PagedResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.TotalCount)
	assert.Equal(t, 1, resp.TotalPages)
}

func TestStatusHistory_StatusHistoryHandler_BadReportID(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/status-history?reportId=asdf", nil)
	if err != nil {
		t.Fatal(err)
	}

	h := handlers.StatusHistory{DB: &mocks.StatusHistoryDatabase{}}
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.StatusHistoryHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestStatusHistory_StatusHistoryHandler_BadFromDate(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/status-history?from=yesterday", nil)
	if err != nil {
		t.Fatal(err)
	}

	h := handlers.StatusHistory{DB: &mocks.StatusHistoryDatabase{}}
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.StatusHistoryHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestStatusHistory_StatusHistoryHandler_DateRangeFilter(t *testing.T) {
	hdb := &mocks.StatusHistoryDatabase{}

	hdb.On("FindPage", mock.Anything, mock.MatchedBy(func(filter interface{}) bool {
		f, ok := filter.(bson.M)
		if !ok {
			return false
		}
		createdAt, ok := f["createdAt"].(bson.M)
		if !ok {
			return false
		}
		_, hasGte := createdAt["$gte"]
		_, hasLte := createdAt["$lte"]
		return hasGte && hasLte
	}), 20, 1).Return([]models.StatusHistory{}, nil)
	hdb.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(0), nil)

	req, err := http.NewRequest("GET", "/api/v1/status-history?from=2026-01-01T00:00:00Z&to=2026-02-01T00:00:00Z", nil)
	if err != nil {
		t.Fatal(err)
	}

	h := handlers.StatusHistory{DB: hdb}
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.StatusHistoryHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestStatusHistory_StatusHistoryByReportHandler(t *testing.T) {
	reportID := primitive.NewObjectID()
	hdb := &mocks.StatusHistoryDatabase{}
	hdb.On("FindPage", mock.Anything, bson.M{"reportId": reportID}, 20, 1).
		Return([]models.StatusHistory{
			{ID: primitive.NewObjectID(), ReportID: reportID, PreviousStatus: models.StatusVerified, NewStatus: models.StatusResolved},
			{ID: primitive.NewObjectID(), ReportID: reportID, PreviousStatus: models.StatusPending, NewStatus: models.StatusVerified},
		}, nil)

	req, err := http.NewRequest("GET", "/api/v1/status-history/report/"+reportID.Hex(), nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"report_id": reportID.Hex()})

	h := handlers.StatusHistory{DB: hdb}
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.StatusHistoryByReportHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var got []models.StatusHistory
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Len(t, got, 2)
}

func TestStatusHistory_StatusHistoryCountHandler(t *testing.T) {
	reportID := primitive.NewObjectID()
	hdb := &mocks.StatusHistoryDatabase{}
	hdb.On("CountDocuments", mock.Anything, bson.M{"reportId": reportID}).Return(int64(4), nil)

	req, err := http.NewRequest("GET", "/api/v1/status-history/report/"+reportID.Hex()+"/count", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"report_id": reportID.Hex()})

	h := handlers.StatusHistory{DB: hdb}
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.StatusHistoryCountHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, float64(4), resp["count"])
}
