package product

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/surprisewrap/service-shop-go/internal/store"
)

func newTestHandler() *Handler {
	return NewHandler(store.NewMemory(), zap.NewNop().Sugar())
}

// downStore simulates an unreachable document store.
type downStore struct{}

var errStoreDown = errors.New("store unavailable")

func (downStore) Insert(ctx context.Context, collection string, doc any) (string, error) {
	return "", errStoreDown
}

func (downStore) List(ctx context.Context, collection string) ([]store.Document, error) {
	return nil, errStoreDown
}

func (downStore) QueryByField(ctx context.Context, collection, field, value string) ([]store.Document, error) {
	return nil, errStoreDown
}

func (downStore) GetByID(ctx context.Context, collection, id string) (store.Document, error) {
	return store.Document{}, errStoreDown
}

func (downStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	return errStoreDown
}

func (downStore) Delete(ctx context.Context, collection, id string) error {
	return errStoreDown
}

func createProduct(t *testing.T, h *Handler, body string) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	h.Create(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Product created successfully", resp["message"])
	require.NotEmpty(t, resp["id"])
	return resp["id"]
}

func TestHandler_CreateAndGet(t *testing.T) {
	t.Parallel()
	h := newTestHandler()

	id := createProduct(t, h, `{"name":"mug","price":9.5,"currency":"EUR","category":"kitchen","searchKey":"mug"}`)

	req := httptest.NewRequest(http.MethodGet, "/products/"+id, nil)
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, id, got["id"])
	assert.Equal(t, "mug", got["name"])
	assert.Equal(t, 9.5, got["price"])
}

func TestHandler_Create_InvalidPayload(t *testing.T) {
	t.Parallel()
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewBufferString(`{not json`))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Get_NotFound(t *testing.T) {
	t.Parallel()
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/products/missing", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Product not found"}`, rec.Body.String())
}

func TestHandler_List(t *testing.T) {
	t.Parallel()
	h := newTestHandler()

	createProduct(t, h, `{"name":"mug","price":9.5}`)
	createProduct(t, h, `{"name":"bowl","price":12}`)

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/products", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "mug", got[0]["name"])
	assert.NotEmpty(t, got[0]["id"])
}

func TestHandler_UpdateMergesFields(t *testing.T) {
	t.Parallel()
	h := newTestHandler()

	id := createProduct(t, h, `{"name":"mug","price":9.5,"category":"kitchen"}`)

	req := httptest.NewRequest(http.MethodPut, "/products/"+id, bytes.NewBufferString(`{"price":11.0}`))
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()
	h.Update(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Product updated successfully"}`, rec.Body.String())

	getReq := httptest.NewRequest(http.MethodGet, "/products/"+id, nil)
	getReq.SetPathValue("id", id)
	getRec := httptest.NewRecorder()
	h.Get(getRec, getReq)
	var got map[string]any
	require.NoError(t, json.Unmarshal(getRec.Body.Bytes(), &got))
	assert.Equal(t, 11.0, got["price"])
	assert.Equal(t, "kitchen", got["category"])
}

func TestHandler_StoreUnavailable(t *testing.T) {
	t.Parallel()
	h := NewHandler(downStore{}, zap.NewNop().Sugar())

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/products", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"list products failed"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/products", bytes.NewBufferString(`{"name":"mug"}`)))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"create product failed"}`, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/products/p1", nil)
	req.SetPathValue("id", "p1")
	rec = httptest.NewRecorder()
	h.Get(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"get product failed"}`, rec.Body.String())
}

func TestHandler_Delete(t *testing.T) {
	t.Parallel()
	h := newTestHandler()

	id := createProduct(t, h, `{"name":"mug"}`)

	req := httptest.NewRequest(http.MethodDelete, "/products/"+id, nil)
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()
	h.Delete(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Product deleted successfully"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/products/"+id, nil)
	req.SetPathValue("id", id)
	h.Delete(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
