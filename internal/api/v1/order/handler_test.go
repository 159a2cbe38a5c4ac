package order_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"smmpanel-backend/internal/api/v1/order"
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

	db.Migrator().DropTable(&models.User{}, &models.Service{}, &models.Order{}, &models.AdminConfig{}, &models.Transaction{})
	err = db.AutoMigrate(&models.User{}, &models.Service{}, &models.Order{}, &models.AdminConfig{}, &models.Transaction{})
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

func setupRouter(user models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user", user)
		c.Next()
	})
	r.POST("/orders", order.CreateOrder)
	r.GET("/orders", order.ListOrders)
	r.GET("/orders/:id", order.GetOrder)
	return r
}

func TestCreateOrder_GatewayNotConfigured(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis(t)
	defer mr.Close()

	user := models.User{Username: "alice", Email: "alice@example.com", Password: "x", Role: "user", Balance: 10}
	database.DB.Create(&user)
	r := setupRouter(user)

	body, _ := json.Marshal(gin.H{"service_id": 101, "link": "https://example.com/p/1", "quantity": 500})
	req, _ := http.NewRequest(http.MethodPost, "/orders", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCreateOrder_Validation(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis(t)
	defer mr.Close()

	user := models.User{Username: "alice", Email: "alice@example.com", Password: "x", Role: "user", Balance: 10}
	database.DB.Create(&user)
	r := setupRouter(user)

	tests := []struct {
		name    string
		payload gin.H
	}{
		{"Missing link", gin.H{"service_id": 101, "quantity": 500}},
		{"Missing quantity", gin.H{"service_id": 101, "link": "https://example.com/p/1"}},
		{"Negative quantity", gin.H{"service_id": 101, "link": "https://example.com/p/1", "quantity": -5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.payload)
			req, _ := http.NewRequest(http.MethodPost, "/orders", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestListOrders_OwnerScoped(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis(t)
	defer mr.Close()

	alice := models.User{Username: "alice", Email: "alice@example.com", Password: "x", Role: "user"}
	bob := models.User{Username: "bob", Email: "bob@example.com", Password: "x", Role: "user"}
	database.DB.Create(&alice)
	database.DB.Create(&bob)

	database.DB.Create(&models.Order{UserID: alice.ID, ServiceID: 101, Link: "https://example.com/a", Quantity: 100, Charge: 0.5, Status: models.OrderStatusPending})
	database.DB.Create(&models.Order{UserID: bob.ID, ServiceID: 101, Link: "https://example.com/b", Quantity: 200, Charge: 1.0, Status: models.OrderStatusPending})

	r := setupRouter(alice)
	req, _ := http.NewRequest(http.MethodGet, "/orders", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status int                     `json:"status"`
		Data   order.OrderListResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.Data.Total)
	assert.Len(t, resp.Data.Orders, 1)
	assert.Equal(t, "https://example.com/a", resp.Data.Orders[0].Link)
}

func TestGetOrder_NotOwned(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis(t)
	defer mr.Close()

	alice := models.User{Username: "alice", Email: "alice@example.com", Password: "x", Role: "user"}
	bob := models.User{Username: "bob", Email: "bob@example.com", Password: "x", Role: "user"}
	database.DB.Create(&alice)
	database.DB.Create(&bob)

	o := models.Order{UserID: bob.ID, ServiceID: 101, Link: "https://example.com/b", Quantity: 200, Charge: 1.0, Status: models.OrderStatusPending}
	database.DB.Create(&o)

	r := setupRouter(alice)
	req, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("/orders/%d", o.ID), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
