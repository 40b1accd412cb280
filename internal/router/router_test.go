package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/surprisewrap/service-shop-go/internal/auth"
	"github.com/surprisewrap/service-shop-go/internal/mailer"
	"github.com/surprisewrap/service-shop-go/internal/store"
)

func newTestRouter() http.Handler {
	mem := store.NewMemory()
	mem.UniqueField("users", "email")
	cfg := auth.Config{Secret: "test-secret", TokenTTL: time.Hour}
	return RegisterRoutes(zap.NewNop().Sugar(), mem, mailer.Disabled{}, cfg)
}

func doJSON(t *testing.T, h http.Handler, method, path, token, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var rd *bytes.Buffer
	if body == "" {
		rd = bytes.NewBuffer(nil)
	} else {
		rd = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if len(rec.Body.Bytes()) > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &out)
	}
	return rec, out
}

// Full register/login/protected-route flow.
func TestAuthFlow(t *testing.T) {
	t.Parallel()
	h := newTestRouter()

	// register
	rec, body := doJSON(t, h, http.MethodPost, "/register", "", `{"username":"a","email":"a@x.com","password":"pw1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User registered successfully", body["message"])

	// duplicate register
	rec, body = doJSON(t, h, http.MethodPost, "/register", "", `{"username":"b","email":"a@x.com","password":"pw2"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User already exists", body["error"])

	// wrong password
	rec, body = doJSON(t, h, http.MethodPost, "/login", "", `{"email":"a@x.com","password":"wrong"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid credentials", body["error"])

	// unknown email
	rec, body = doJSON(t, h, http.MethodPost, "/login", "", `{"email":"ghost@x.com","password":"pw1"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User not found", body["error"])

	// correct login
	rec, body = doJSON(t, h, http.MethodPost, "/login", "", `{"email":"a@x.com","password":"pw1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Login successful", body["message"])
	assert.Equal(t, "customer", body["role"])
	assert.NotEmpty(t, body["userId"])
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	// protected route with the token
	rec, _ = doJSON(t, h, http.MethodGet, "/products", token, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	// same request without a header
	rec, body = doJSON(t, h, http.MethodGet, "/products", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Authorization header required", body["error"])

	// and with a tampered token
	rec, _ = doJSON(t, h, http.MethodGet, "/products", token+"x", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func login(t *testing.T, h http.Handler) string {
	t.Helper()
	rec, _ := doJSON(t, h, http.MethodPost, "/register", "", `{"username":"u","email":"u@x.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, body := doJSON(t, h, http.MethodPost, "/login", "", `{"email":"u@x.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestProductRoutes(t *testing.T) {
	t.Parallel()
	h := newTestRouter()
	token := login(t, h)

	rec, body := doJSON(t, h, http.MethodPost, "/products", token, `{"name":"mug","price":9.5,"currency":"EUR"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	id, _ := body["id"].(string)
	require.NotEmpty(t, id)

	rec, body = doJSON(t, h, http.MethodGet, "/products/"+id, token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "mug", body["name"])

	rec, body = doJSON(t, h, http.MethodGet, "/products/missing", token, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Product not found", body["error"])

	// every product mutation requires the gate
	rec, _ = doJSON(t, h, http.MethodPost, "/products", "", `{"name":"mug"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOrderRoutes(t *testing.T) {
	t.Parallel()
	h := newTestRouter()
	token := login(t, h)

	rec, body := doJSON(t, h, http.MethodPost, "/orders", token,
		`{"products":[{"productId":"p1","quantity":1}],"userId":"u1","delivery_address":"1 Main St","totalPrice":42.5,"status":"pending"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Order created successfully", body["message"])
	id, _ := body["id"].(string)
	require.NotEmpty(t, id)

	rec, body = doJSON(t, h, http.MethodGet, "/orders/"+id, token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", body["userId"])
	assert.NotEmpty(t, body["orderNo"])
	assert.NotZero(t, body["createdAt"])

	// user-scoped listing
	req := httptest.NewRequest(http.MethodGet, "/orders/user/u1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	listRec := httptest.NewRecorder()
	h.ServeHTTP(listRec, req)
	require.Equal(t, http.StatusOK, listRec.Code)
	var orders []map[string]any
	require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &orders))
	require.Len(t, orders, 1)

	rec, body = doJSON(t, h, http.MethodGet, "/orders/user/nobody", token, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No orders found for this user", body["message"])

	rec, body = doJSON(t, h, http.MethodPut, "/orders/"+id, token, `{"status":"delivered"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Order updated successfully", body["message"])

	rec, _ = doJSON(t, h, http.MethodDelete, "/orders/"+id, token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec, body = doJSON(t, h, http.MethodDelete, "/orders/"+id, token, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Order not found", body["error"])
}

func TestGiftPackageRoutes(t *testing.T) {
	t.Parallel()
	h := newTestRouter()
	token := login(t, h)

	// the gate applies to gift packages too
	rec, _ := doJSON(t, h, http.MethodPost, "/gift-packages", "", `{"userId":"u1"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, body := doJSON(t, h, http.MethodPost, "/gift-packages", token,
		`{"products":["p1","p2"],"userId":"u1","quantity":2,"totalPrice":30,"status":"pending"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Gift package created successfully", body["message"])
	id, _ := body["id"].(string)
	require.NotEmpty(t, id)

	rec, body = doJSON(t, h, http.MethodGet, "/gift-packages/"+id, token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), body["quantity"])

	rec, body = doJSON(t, h, http.MethodGet, "/gift-packages/user/nobody", token, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No gift packages found for this user", body["message"])

	rec, body = doJSON(t, h, http.MethodPut, "/gift-packages/"+id, token, `{"status":"wrapped"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Gift package updated successfully", body["message"])

	rec, _ = doJSON(t, h, http.MethodDelete, "/gift-packages/"+id, token, "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHealth(t *testing.T) {
	t.Parallel()
	h := newTestRouter()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/shop-api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestSecurityHeaders(t *testing.T) {
	t.Parallel()
	h := newTestRouter()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/shop-api/health", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "camera=(), microphone=(), geolocation=()", rec.Header().Get("Permissions-Policy"))
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))
	// plain HTTP request, so no HSTS
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()
	h := newTestRouter()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/products", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
