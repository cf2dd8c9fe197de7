package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/civiclens/civiclens-api/api/handlers"
	"github.com/civiclens/civiclens-api/databases/mocks"
	"github.com/civiclens/civiclens-api/models"
)

func TestAdmin_AdminLoginHandler(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	adminID := primitive.NewObjectID()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}

	udb := &mocks.UserDatabase{}
	udb.On("FindOne", mock.Anything, bson.M{"email": "admin@example.com", "admin": true}).
		Return(&models.User{ID: adminID, Email: "admin@example.com", Password: string(hash), Admin: true}, nil)

	body := []byte(`{"email": "Admin@Example.com", "password": "correct horse"}`)
	req, err := http.NewRequest("POST", "/api/v1/auth/admin-login", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}

	h := handlers.Admin{UDB: udb}
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.AdminLoginHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Token string `json:"token"`
		Admin struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"admin"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, adminID.Hex(), resp.Admin.ID)

	token, err := jwt.Parse(resp.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	assert.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "admin", claims["scope"])
	assert.Equal(t, adminID.Hex(), claims["sub"])
}

func TestAdmin_AdminLoginHandler_WrongPassword(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}

	udb := &mocks.UserDatabase{}
	udb.On("FindOne", mock.Anything, mock.Anything).
		Return(&models.User{ID: primitive.NewObjectID(), Email: "admin@example.com", Password: string(hash), Admin: true}, nil)

	body := []byte(`{"email": "admin@example.com", "password": "battery staple"}`)
	req, err := http.NewRequest("POST", "/api/v1/auth/admin-login", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}

	h := handlers.Admin{UDB: udb}
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.AdminLoginHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAdmin_AdminLoginHandler_UnknownAdmin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	udb := &mocks.UserDatabase{}
	udb.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)

	body := []byte(`{"email": "nobody@example.com", "password": "whatever"}`)
	req, err := http.NewRequest("POST", "/api/v1/auth/admin-login", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}

	h := handlers.Admin{UDB: udb}
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.AdminLoginHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAdmin_AdminLoginHandler_MissingCredentials(t *testing.T) {
	h := handlers.Admin{UDB: &mocks.UserDatabase{}}

	req, err := http.NewRequest("POST", "/api/v1/auth/admin-login", bytes.NewReader([]byte(`{}`)))
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.AdminLoginHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
