package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/metalworks/storefront/internal/cache"
	"github.com/metalworks/storefront/internal/config"
	"github.com/metalworks/storefront/internal/models"
	"github.com/metalworks/storefront/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var routerTestDBSeq int64

// nopCustomerRepo 永远找不到顾客
type nopCustomerRepo struct{}

func (nopCustomerRepo) GetByEmail(context.Context, string) (*models.Customer, error) { return nil, nil }
func (nopCustomerRepo) GetByID(context.Context, uint) (*models.Customer, error)      { return nil, nil }
func (nopCustomerRepo) Create(context.Context, *models.Customer) error              { return nil }
func (nopCustomerRepo) Update(context.Context, *models.Customer) error              { return nil }

type routerFixture struct {
	engine *gin.Engine
	db     *gorm.DB
}

func newRouterFixture(t *testing.T, loginLimiter RateLimitCounter) *routerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:router_test_%d_%d?mode=memory&cache=shared", time.Now().UnixNano(), atomic.AddInt64(&routerTestDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, models.AutoMigrate(db))

	cfg := &config.Config{
		Server:  config.ServerConfig{Mode: "debug"},
		UserJWT: config.JWTConfig{SecretKey: "router-test-secret", ExpireHours: 1},
		Security: config.SecurityConfig{
			LoginRateLimit: config.LoginRateLimitConfig{WindowSeconds: 60, MaxAttempts: 3},
			PasswordPolicy: config.PasswordPolicyConfig{MinLength: 8},
		},
	}
	container := provider.NewContainer(cfg, db)
	return &routerFixture{
		engine: SetupRouterWithOptions(cfg, container, Options{LoginLimiter: loginLimiter}),
		db:     db,
	}
}

func (f *routerFixture) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)

	decoded := map[string]interface{}{}
	if w.Body.Len() > 0 && w.Body.Bytes()[0] == '{' {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w, decoded
}

func (f *routerFixture) signupAndLogin(t *testing.T, email string) (uint, string) {
	t.Helper()
	w, body := f.do(t, http.MethodPost, "/api/auth/signup", "", map[string]interface{}{
		"firstName": "Ada", "lastName": "Smith", "userEmail": email, "password": "anvil-2026",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	userID := uint(body["userId"].(float64))

	w, body = f.do(t, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"userEmail": email, "password": "anvil-2026",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	user := body["user"].(map[string]interface{})
	assert.EqualValues(t, userID, user["customerId"])
	return userID, token
}

func (f *routerFixture) seedProduct(t *testing.T, id uint, price string, stock int) {
	t.Helper()
	amount, err := models.NewMoneyFromString(price)
	require.NoError(t, err)
	require.NoError(t, f.db.Create(&models.Product{ID: id, Name: fmt.Sprintf("Forged %d", id), Price: amount, Stock: stock}).Error)
}

func orderPayload(productID, quantity int, unitPrice, total string) map[string]interface{} {
	return map[string]interface{}{
		"items":         []map[string]interface{}{{"productId": productID, "quantity": quantity, "unitPrice": unitPrice}},
		"paymentMethod": "Credit Card",
		"finalTotal":    total,
		"isRushOrder":   false,
		"deliveryAddress": map[string]interface{}{
			"recipientName": "Ada Smith",
			"line1":         "12 Forge Lane",
			"city":          "Sheffield",
			"postalCode":    "S1 2AB",
			"country":       "UK",
			"contactPhone":  "+44 114 000000",
		},
	}
}

func TestPlaceOrderEndpoint(t *testing.T) {
	f := newRouterFixture(t, nil)
	userID, token := f.signupAndLogin(t, "buyer@example.com")
	f.seedProduct(t, 7, "500.00", 3)

	w, body := f.do(t, http.MethodPost, "/api/orders", token, orderPayload(7, 2, "500.00", "1000.00"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Order placed successfully!", body["message"])
	details := body["orderDetails"].(map[string]interface{})
	assert.EqualValues(t, userID, details["customerId"])
	assert.EqualValues(t, 1, details["itemCount"])
	assert.EqualValues(t, 1000, details["totalAmount"])

	w, body = f.do(t, http.MethodPost, "/api/orders", token, orderPayload(7, 2, "500.00", "1000.00"))
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	assert.Contains(t, body["message"], "Insufficient stock for ProductID 7. Available: 1, Requested: 2")
	assert.NotEmpty(t, body["requestId"])

	var orders int64
	require.NoError(t, f.db.Model(&models.Order{}).Count(&orders).Error)
	assert.EqualValues(t, 1, orders)

	w, body = f.do(t, http.MethodGet, "/api/orders", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-Total-Count"))
}

func TestPlaceOrderEndpointValidation(t *testing.T) {
	f := newRouterFixture(t, nil)
	_, token := f.signupAndLogin(t, "validation@example.com")
	f.seedProduct(t, 7, "500.00", 3)

	payload := orderPayload(7, 1, "500.00", "500.00")
	payload["deliveryAddress"].(map[string]interface{})["contactPhone"] = ""
	w, body := f.do(t, http.MethodPost, "/api/orders", token, payload)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "complete delivery address required", body["message"])

	payload = orderPayload(7, 1, "500.00", "500.00")
	payload["items"] = []map[string]interface{}{}
	w, body = f.do(t, http.MethodPost, "/api/orders", token, payload)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "order must contain at least one item", body["message"])

	w, body = f.do(t, http.MethodPost, "/api/orders", token, orderPayload(7, 1, "-500.00", "-500.00"))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Unit price and total must not be negative.", body["message"])

	var orders int64
	require.NoError(t, f.db.Model(&models.Order{}).Count(&orders).Error)
	assert.Zero(t, orders)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	f := newRouterFixture(t, nil)

	for _, path := range []string{"/api/cart", "/api/orders", "/api/user/profile", "/api/user/addresses"} {
		w, body := f.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		assert.NotEmpty(t, body["message"], path)
	}
	w, _ := f.do(t, http.MethodPost, "/api/orders", "not-a-token", orderPayload(7, 1, "1.00", "1.00"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPasswordChangeRevokesOldToken(t *testing.T) {
	f := newRouterFixture(t, nil)
	_, token := f.signupAndLogin(t, "rotate@example.com")

	w, body := f.do(t, http.MethodPut, "/api/user/password", token, map[string]interface{}{
		"currentPassword": "wrong-pass", "newPassword": "hammer-2026",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Incorrect current password.", body["message"])

	w, _ = f.do(t, http.MethodPut, "/api/user/password", token, map[string]interface{}{
		"currentPassword": "anvil-2026", "newPassword": "hammer-2026",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = f.do(t, http.MethodGet, "/api/user/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSignupConflictAndLoginFailure(t *testing.T) {
	f := newRouterFixture(t, nil)
	f.signupAndLogin(t, "dup@example.com")

	w, body := f.do(t, http.MethodPost, "/api/auth/signup", "", map[string]interface{}{
		"firstName": "Ada", "lastName": "Smith", "userEmail": "DUP@example.com", "password": "anvil-2026",
	})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Email already in use.", body["message"])

	w, body = f.do(t, http.MethodPost, "/api/auth/signup", "", map[string]interface{}{"firstName": "Ada"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "All fields are required.", body["message"])

	w, body = f.do(t, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"userEmail": "dup@example.com", "password": "wrong-pass",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password.", body["message"])
}

func TestLoginRateLimited(t *testing.T) {
	f := newRouterFixture(t, newMemoryRateLimitCounter())
	payload := map[string]interface{}{"userEmail": "nobody@example.com", "password": "whatever-1"}

	for i := 0; i < 3; i++ {
		w, _ := f.do(t, http.MethodPost, "/api/auth/login", "", payload)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	}
	w, body := f.do(t, http.MethodPost, "/api/auth/login", "", payload)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, body["message"], "Too many login attempts")
}

func TestCartEndpoints(t *testing.T) {
	f := newRouterFixture(t, nil)
	_, token := f.signupAndLogin(t, "cart@example.com")
	f.seedProduct(t, 3, "12.50", 10)

	add := map[string]interface{}{"productId": 3, "quantity": 2, "unitPrice": "12.50", "rushOrder": false}
	w, body := f.do(t, http.MethodPost, "/api/cart/items", token, add)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Item added to cart.", body["message"])
	itemID := int(body["item"].(map[string]interface{})["CartItemID"].(float64))

	add["quantity"] = 3
	w, body = f.do(t, http.MethodPost, "/api/cart/items", token, add)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Cart item quantity updated.", body["message"])
	assert.EqualValues(t, 5, body["item"].(map[string]interface{})["Quantity"])

	w, body = f.do(t, http.MethodPost, "/api/cart/items", token, map[string]interface{}{"productId": 3})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Product ID, quantity, unit price, and rush order status are required.", body["message"])

	w, body = f.do(t, http.MethodPost, "/api/cart/items", token, map[string]interface{}{"productId": 3, "quantity": 1, "unitPrice": "-1.00", "rushOrder": false})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Unit price must not be negative.", body["message"])

	w, body = f.do(t, http.MethodPut, fmt.Sprintf("/api/cart/items/%d", itemID+100), token, map[string]interface{}{"quantity": 1})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Cart item not found or user mismatch.", body["message"])

	for i := 0; i < 2; i++ {
		w, body = f.do(t, http.MethodDelete, "/api/cart", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Cart cleared successfully.", body["message"])
	}
}

func TestHealthReportsCacheOutage(t *testing.T) {
	f := newRouterFixture(t, nil)
	cache.UseClient(redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	}))
	t.Cleanup(func() { _ = cache.Close() })

	w, body := f.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "cache unavailable", body["message"])
	assert.NotEmpty(t, body["requestId"])
}

func TestHealthAndProducts(t *testing.T) {
	f := newRouterFixture(t, nil)
	f.seedProduct(t, 1, "9.99", 2)

	w, body := f.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])

	w, body = f.do(t, http.MethodGet, "/api/products/404", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Product not found.", body["message"])

	w, _ = f.do(t, http.MethodGet, "/api/products/abc", "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w, body = f.do(t, http.MethodGet, "/api/products/search?q=%20", "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Search term is required.", body["message"])

	w, body = f.do(t, http.MethodGet, "/api/products/search?q=forged", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, body["pagination"].(map[string]interface{})["total"])
}
