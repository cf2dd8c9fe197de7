package handlers_test

import (
	"bytes"
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

func TestCategory_CategoriesHandler(t *testing.T) {
	cdb := &mocks.CategoryDatabase{}
	cdb.On("Find", mock.Anything, bson.M{}, mock.Anything).
		Return([]models.Category{
			{ID: primitive.NewObjectID(), Name: "Potholes"},
			{ID: primitive.NewObjectID(), Name: "Streetlights"},
		}, nil)

	req, err := http.NewRequest("GET", "/api/v1/categories", nil)
	if err != nil {
		t.Fatal(err)
	}

	c := handlers.Category{DB: cdb}
	rr := httptest.NewRecorder()
	http.HandlerFunc(c.CategoriesHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var got []models.Category
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Len(t, got, 2)
}

func TestCategory_CategoriesHandler_EmptyIsNotNull(t *testing.T) {
	cdb := &mocks.CategoryDatabase{}
	cdb.On("Find", mock.Anything, bson.M{}, mock.Anything).Return(nil, nil)

	req, err := http.NewRequest("GET", "/api/v1/categories", nil)
	if err != nil {
		t.Fatal(err)
	}

	c := handlers.Category{DB: cdb}
	rr := httptest.NewRecorder()
	http.HandlerFunc(c.CategoriesHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())
}

func TestCategory_CreateCategoryHandler(t *testing.T) {
	cdb := &mocks.CategoryDatabase{}
	cdb.On("InsertOne", mock.Anything, mock.MatchedBy(func(cat models.Category) bool {
		return cat.Name == "Potholes" && !cat.ID.IsZero()
	})).Return(primitive.NewObjectID(), nil)

	body := []byte(`{"name": "Potholes", "description": "Road surface damage"}`)
	req, err := http.NewRequest("POST", "/api/v1/categories", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}

	c := handlers.Category{DB: cdb}
	rr := httptest.NewRecorder()
	http.HandlerFunc(c.CreateCategoryHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestCategory_CreateCategoryHandler_MissingName(t *testing.T) {
	c := handlers.Category{DB: &mocks.CategoryDatabase{}}

	req, err := http.NewRequest("POST", "/api/v1/categories", bytes.NewReader([]byte(`{}`)))
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(c.CreateCategoryHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCategory_DeleteCategoryHandler(t *testing.T) {
	categoryID := primitive.NewObjectID()
	cdb := &mocks.CategoryDatabase{}
	cdb.On("DeleteOne", mock.Anything, bson.M{"_id": categoryID}).Return(nil)

	req, err := http.NewRequest("DELETE", "/api/v1/categories/"+categoryID.Hex(), nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"category_id": categoryID.Hex()})

	c := handlers.Category{DB: cdb}
	rr := httptest.NewRecorder()
	http.HandlerFunc(c.DeleteCategoryHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}
