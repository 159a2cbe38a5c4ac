package user_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"smmpanel-backend/internal/api/v1/user"
	"smmpanel-backend/internal/database"
	"smmpanel-backend/internal/models"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
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

func setupTestRedis(t *testing.T) *miniredis.Miniredis {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	database.RedisClient = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr
}

func setupRouter(u models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user", u)
		c.Next()
	})
	r.GET("/profile", user.Profile)
	r.PUT("/profile", user.UpdateProfile)
	r.GET("/balance", user.Balance)
	return r
}

func TestProfile_ReflectsCurrentBalance(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis(t)
	defer mr.Close()

	u := models.User{Username: "alice", Email: "alice@example.com", Password: "x", Role: "user", Balance: 10}
	database.DB.Create(&u)
	r := setupRouter(u)

	// The middleware copy is stale after a credit; the handler must reload.
	database.DB.Model(&models.User{}).Where("id = ?", u.ID).Update("balance", 42.5)

	req, _ := http.NewRequest(http.MethodGet, "/profile", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status int                  `json:"status"`
		Data   user.ProfileResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp.Data.Username)
	assert.InDelta(t, 42.5, resp.Data.Balance, 0.0001)
}

func TestBalance(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis(t)
	defer mr.Close()

	u := models.User{Username: "alice", Email: "alice@example.com", Password: "x", Role: "user", Balance: 7.25}
	database.DB.Create(&u)
	r := setupRouter(u)

	req, _ := http.NewRequest(http.MethodGet, "/balance", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status int                  `json:"status"`
		Data   user.BalanceResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 7.25, resp.Data.Balance, 0.0001)
	assert.Equal(t, "BRL", resp.Data.Currency)
}

func TestUpdateProfile(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis(t)
	defer mr.Close()

	u := models.User{Username: "alice", Email: "alice@example.com", Password: "x", Role: "user"}
	other := models.User{Username: "bob", Email: "bob@example.com", Password: "x", Role: "user"}
	database.DB.Create(&u)
	database.DB.Create(&other)
	r := setupRouter(u)

	putJSON := func(payload gin.H) *httptest.ResponseRecorder {
		body, _ := json.Marshal(payload)
		req, _ := http.NewRequest(http.MethodPut, "/profile", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := putJSON(gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = putJSON(gin.H{"email": "bob@example.com"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = putJSON(gin.H{"email": "new@example.com", "password": "newsecret"})
	assert.Equal(t, http.StatusOK, w.Code)

	var stored models.User
	database.DB.First(&stored, u.ID)
	assert.Equal(t, "new@example.com", stored.Email)
	assert.NotEqual(t, "newsecret", stored.Password)
}
