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

	"github.com/civiclens/civiclens-api/api"
	"github.com/civiclens/civiclens-api/config"
	"github.com/civiclens/civiclens-api/databases"
	"github.com/civiclens/civiclens-api/models"
)

// Category handles category-related requests
type Category struct {
	DB databases.CategoryDatabase
}

// CategoriesHandler returns all categories sorted by name
func (c Category) CategoriesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	opts := options.Find().SetSort(bson.M{"name": 1})
	dbResp, err := c.DB.Find(ctx, bson.M{}, opts)
	if err != nil {
		config.ErrorStatus("failed to get categories", http.StatusNotFound, w, err)
		return
	}

	if len(dbResp) == 0 {
		dbResp = []models.Category{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CreateCategoryHandler creates a new category (admin only)
func (c Category) CreateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var category models.Category
	if err := json.NewDecoder(r.Body).Decode(&category); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if category.Name == "" {
		config.ErrorStatus("category name is required", http.StatusBadRequest, w, errors.New("empty name"))
		return
	}

	category.ID = primitive.NewObjectID()
	category.CreatedAt = primitive.NewDateTimeFromTime(time.Now())

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if _, err := c.DB.InsertOne(ctx, category); err != nil {
		config.ErrorStatus("failed to create category", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Category created successfully",
		"id":      category.ID.Hex(),
	})
}

// DeleteCategoryHandler deletes a category by its ID (admin only)
func (c Category) DeleteCategoryHandler(w http.ResponseWriter, r *http.Request) {
	categoryID := mux.Vars(r)["category_id"]

	cID, err := primitive.ObjectIDFromHex(categoryID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := c.DB.DeleteOne(ctx, bson.M{"_id": cID}); err != nil {
		config.ErrorStatus("failed to delete category", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Category deleted successfully",
	})
}
