package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"smmpanel-backend/internal/api/v1/auth"
	"smmpanel-backend/internal/database"
	"smmpanel-backend/internal/models"
	"smmpanel-backend/internal/utils"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB() {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}

	db.Migrator().DropTable(&models.User{})
	err = db.AutoMigrate(&models.User{})
	if err != nil {
		panic("failed to migrate database")
	}

	database.DB = db
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/register", auth.Register)
	r.POST("/auth/login", auth.Login)
	return r
}

func postJSON(r *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegister(t *testing.T) {
	os.Setenv("JWT_SECRET", "test_secret")
	setupTestDB()
	r := setupRouter()

	w := postJSON(r, "/auth/register", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Status int               `json:"status"`
		Data   auth.AuthResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp.Data.Username)
	assert.Equal(t, "user", resp.Data.Role)
	assert.NotEmpty(t, resp.Data.Token)

	// Registration never grants the admin role.
	var stored models.User
	database.DB.Where("username = ?", "alice").First(&stored)
	assert.Equal(t, "user", stored.Role)
	assert.NotEqual(t, "secret123", stored.Password)
}

func TestRegister_Duplicates(t *testing.T) {
	os.Setenv("JWT_SECRET", "test_secret")
	setupTestDB()
	r := setupRouter()

	w := postJSON(r, "/auth/register", gin.H{
		"username": "alice", "email": "alice@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(r, "/auth/register", gin.H{
		"username": "alice", "email": "other@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = postJSON(r, "/auth/register", gin.H{
		"username": "bob", "email": "alice@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegister_Validation(t *testing.T) {
	os.Setenv("JWT_SECRET", "test_secret")
	setupTestDB()
	r := setupRouter()

	w := postJSON(r, "/auth/register", gin.H{
		"username": "alice", "email": "not-an-email", "password": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(r, "/auth/register", gin.H{
		"username": "alice", "email": "alice@example.com", "password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin(t *testing.T) {
	os.Setenv("JWT_SECRET", "test_secret")
	setupTestDB()
	r := setupRouter()

	w := postJSON(r, "/auth/register", gin.H{
		"username": "alice", "email": "alice@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(r, "/auth/login", gin.H{"username": "alice", "password": "secret123"})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status int               `json:"status"`
		Data   auth.AuthResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.Token)

	claims, err := utils.ValidateToken(resp.Data.Token)
	assert.NoError(t, err)
	assert.Equal(t, "user", claims["role"])

	w = postJSON(r, "/auth/login", gin.H{"username": "alice", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
