package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swipemart/syncengine/pkg/api"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	h := NewHandler(testLogger(), NewRecordSet(), testJWTConfig())
	t.Cleanup(h.Close)
	return h
}

func withUserID(req *http.Request, userID string) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), userIDKey, userID))
}

func testWireRecord(userID string) api.SyncRecord {
	return api.SyncRecord{
		ID:        "cart_items:" + userID,
		UserID:    userID,
		Type:      "cart_items",
		DeviceID:  "dev-a",
		Platform:  "ios",
		Data:      json.RawMessage(`[{"product_id":"p1","quantity":2,"price":9.99,"added_at":100}]`),
		Timestamp: 100,
		Version:   1,
	}
}

func TestHandleHealth(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	h.HandleHealth(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestHandleToken_IssuesValidToken(t *testing.T) {
	h := newTestHandler(t)

	body, err := json.Marshal(api.TokenRequest{UserID: "u1", DeviceID: "dev-a"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.HandleToken(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp api.TokenResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	// Выпущенный токен проходит валидацию пира
	claims, err := ValidateAccessToken(h.jwt, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "dev-a", claims.DeviceID)
}

func TestHandleToken_MissingUserID(t *testing.T) {
	h := newTestHandler(t)

	body, err := json.Marshal(api.TokenRequest{DeviceID: "dev-a"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.HandleToken(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleToken_InvalidUserID(t *testing.T) {
	h := newTestHandler(t)

	body, err := json.Marshal(api.TokenRequest{UserID: "../etc/passwd", DeviceID: "dev-a"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.HandleToken(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "can only contain")
}

func TestHandleToken_MethodNotAllowed(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/token", nil)
	w := httptest.NewRecorder()
	h.HandleToken(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHandlePushRecords_AcceptsAndStores(t *testing.T) {
	h := newTestHandler(t)

	body, err := json.Marshal(api.PushRecordsRequest{Records: []api.SyncRecord{testWireRecord("u1")}})
	require.NoError(t, err)

	req := withUserID(httptest.NewRequest(http.MethodPost, "/api/v1/sync/records", bytes.NewReader(body)), "u1")
	w := httptest.NewRecorder()
	h.HandlePushRecords(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp api.PushRecordsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, 1, resp.Accepted)
	assert.NotZero(t, resp.ServerTime)

	stored := h.records.UserRecords("u1")
	require.Len(t, stored, 1)
	assert.Equal(t, "cart_items:u1", stored[0].ID)
	assert.Equal(t, int64(1), stored[0].Version)
}

func TestHandlePushRecords_OlderVersionNotAccepted(t *testing.T) {
	h := newTestHandler(t)

	newer := testWireRecord("u1")
	newer.Timestamp = 200
	newer.Version = 2

	body, err := json.Marshal(api.PushRecordsRequest{Records: []api.SyncRecord{newer}})
	require.NoError(t, err)
	req := withUserID(httptest.NewRequest(http.MethodPost, "/api/v1/sync/records", bytes.NewReader(body)), "u1")
	w := httptest.NewRecorder()
	h.HandlePushRecords(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// Отставшая версия той же записи не принимается
	older := testWireRecord("u1")
	body, err = json.Marshal(api.PushRecordsRequest{Records: []api.SyncRecord{older}})
	require.NoError(t, err)
	req = withUserID(httptest.NewRequest(http.MethodPost, "/api/v1/sync/records", bytes.NewReader(body)), "u1")
	w = httptest.NewRecorder()
	h.HandlePushRecords(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp api.PushRecordsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, 0, resp.Accepted)

	stored := h.records.UserRecords("u1")
	require.Len(t, stored, 1)
	assert.Equal(t, int64(2), stored[0].Version)
}

func TestHandlePushRecords_ForeignUserForbidden(t *testing.T) {
	h := newTestHandler(t)

	body, err := json.Marshal(api.PushRecordsRequest{Records: []api.SyncRecord{testWireRecord("u2")}})
	require.NoError(t, err)

	req := withUserID(httptest.NewRequest(http.MethodPost, "/api/v1/sync/records", bytes.NewReader(body)), "u1")
	w := httptest.NewRecorder()
	h.HandlePushRecords(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, h.records.UserRecords("u2"))
}

func TestHandlePushRecords_UnknownTypeRejected(t *testing.T) {
	h := newTestHandler(t)

	wire := testWireRecord("u1")
	wire.Type = "bogus"

	body, err := json.Marshal(api.PushRecordsRequest{Records: []api.SyncRecord{wire}})
	require.NoError(t, err)

	req := withUserID(httptest.NewRequest(http.MethodPost, "/api/v1/sync/records", bytes.NewReader(body)), "u1")
	w := httptest.NewRecorder()
	h.HandlePushRecords(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, h.records.UserRecords("u1"))
}

func TestHandlePushRecords_InvalidBody(t *testing.T) {
	h := newTestHandler(t)

	req := withUserID(httptest.NewRequest(http.MethodPost, "/api/v1/sync/records", bytes.NewReader([]byte("{broken"))), "u1")
	w := httptest.NewRecorder()
	h.HandlePushRecords(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlePushRecords_NoAuthContext(t *testing.T) {
	h := newTestHandler(t)

	body, err := json.Marshal(api.PushRecordsRequest{Records: []api.SyncRecord{testWireRecord("u1")}})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync/records", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.HandlePushRecords(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandleFetchRecords_ReturnsUserRecords(t *testing.T) {
	h := newTestHandler(t)
	require.True(t, h.records.Put(testRecord("cart_items:u1", "u1", 100, 1, "dev-a")))
	require.True(t, h.records.Put(testRecord("wishlist_items:u1", "u1", 150, 3, "dev-b")))

	req := withUserID(httptest.NewRequest(http.MethodGet, "/api/v1/sync/records/u1", nil), "u1")
	w := httptest.NewRecorder()
	h.HandleFetchRecords(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp api.FetchRecordsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Records, 2)
	assert.Equal(t, "cart_items:u1", resp.Records[0].ID)
	assert.Equal(t, "wishlist_items:u1", resp.Records[1].ID)
	assert.NotZero(t, resp.ServerTime)
}

func TestHandleFetchRecords_UserMismatch(t *testing.T) {
	h := newTestHandler(t)

	req := withUserID(httptest.NewRequest(http.MethodGet, "/api/v1/sync/records/u2", nil), "u1")
	w := httptest.NewRecorder()
	h.HandleFetchRecords(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHandleFetchRecords_MissingUserID(t *testing.T) {
	h := newTestHandler(t)

	req := withUserID(httptest.NewRequest(http.MethodGet, "/api/v1/sync/records/", nil), "u1")
	w := httptest.NewRecorder()
	h.HandleFetchRecords(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// Сквозной сценарий через полный стек мидлварей: токен, отправка, чтение.
func TestRoutes_EndToEnd(t *testing.T) {
	h := newTestHandler(t)
	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	tokenBody, err := json.Marshal(api.TokenRequest{UserID: "u1", DeviceID: "dev-a"})
	require.NoError(t, err)

	tokenResp, err := http.Post(srv.URL+"/api/v1/auth/token", "application/json", bytes.NewReader(tokenBody))
	require.NoError(t, err)
	defer tokenResp.Body.Close()
	require.Equal(t, http.StatusOK, tokenResp.StatusCode)

	var token api.TokenResponse
	require.NoError(t, json.NewDecoder(tokenResp.Body).Decode(&token))

	pushBody, err := json.Marshal(api.PushRecordsRequest{Records: []api.SyncRecord{testWireRecord("u1")}})
	require.NoError(t, err)

	pushReq, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/sync/records", bytes.NewReader(pushBody))
	require.NoError(t, err)
	pushReq.Header.Set("Authorization", "Bearer "+token.AccessToken)

	pushResp, err := http.DefaultClient.Do(pushReq)
	require.NoError(t, err)
	defer pushResp.Body.Close()
	require.Equal(t, http.StatusOK, pushResp.StatusCode)

	var pushed api.PushRecordsResponse
	require.NoError(t, json.NewDecoder(pushResp.Body).Decode(&pushed))
	assert.Equal(t, 1, pushed.Accepted)

	fetchReq, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/sync/records/u1", nil)
	require.NoError(t, err)
	fetchReq.Header.Set("Authorization", "Bearer "+token.AccessToken)

	fetchResp, err := http.DefaultClient.Do(fetchReq)
	require.NoError(t, err)
	defer fetchResp.Body.Close()
	require.Equal(t, http.StatusOK, fetchResp.StatusCode)

	var fetched api.FetchRecordsResponse
	require.NoError(t, json.NewDecoder(fetchResp.Body).Decode(&fetched))
	require.Len(t, fetched.Records, 1)
	assert.Equal(t, "cart_items:u1", fetched.Records[0].ID)

	// Без токена синхронизация закрыта
	noAuthResp, err := http.Get(srv.URL + "/api/v1/sync/records/u1")
	require.NoError(t, err)
	defer noAuthResp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, noAuthResp.StatusCode)
}
