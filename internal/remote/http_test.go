package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swipemart/syncengine/internal/models"
	"github.com/swipemart/syncengine/pkg/api"
)

// TestNewHTTPPeer проверяет создание нового клиента
func TestNewHTTPPeer(t *testing.T) {
	baseURL := "http://localhost:8080"
	peer := NewHTTPPeer(baseURL, StaticTokenSource("token"))

	assert.NotNil(t, peer)
	assert.Equal(t, baseURL, peer.baseURL)
	assert.NotNil(t, peer.httpClient)
	assert.Equal(t, 30*time.Second, peer.httpClient.Timeout)
}

// TestHTTPPeer_FetchRecords проверяет успешное получение записей
func TestHTTPPeer_FetchRecords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/api/v1/sync/records/user-123", r.URL.Path)
		assert.Equal(t, "Bearer test_token", r.Header.Get("Authorization"))

		w.WriteHeader(http.StatusOK)
		resp := api.FetchRecordsResponse{
			Records: []api.SyncRecord{
				{
					ID:        "cart_items:user-123",
					UserID:    "user-123",
					Type:      "cart_items",
					DeviceID:  "device-b",
					Platform:  "android",
					Data:      json.RawMessage(`[{"product_id":"p1","quantity":2}]`),
					Timestamp: 1700000000000,
					Version:   3,
				},
			},
			ServerTime: time.Now().UnixMilli(),
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	peer := NewHTTPPeer(server.URL, StaticTokenSource("test_token"))
	ctx := context.Background()

	records, err := peer.FetchRecords(ctx, "user-123")

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "cart_items:user-123", records[0].ID)
	assert.Equal(t, models.RecordTypeCartItems, records[0].Type)
	assert.Equal(t, models.PlatformAndroid, records[0].Platform)
	assert.Equal(t, int64(1700000000000), records[0].Timestamp)
	assert.Equal(t, int64(3), records[0].Version)
}

// TestHTTPPeer_FetchRecords_Unauthorized проверяет обработку отклоненного токена
func TestHTTPPeer_FetchRecords_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		resp := api.ErrorResponse{
			Error: "token expired",
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	peer := NewHTTPPeer(server.URL, StaticTokenSource("expired_token"))

	records, err := peer.FetchRecords(context.Background(), "user-123")

	require.Error(t, err)
	assert.Nil(t, records)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Contains(t, err.Error(), "token expired")
}

// TestHTTPPeer_FetchRecords_ServerError проверяет обработку ошибки сервера
func TestHTTPPeer_FetchRecords_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("Internal Server Error"))
	}))
	defer server.Close()

	peer := NewHTTPPeer(server.URL, StaticTokenSource("test_token"))

	records, err := peer.FetchRecords(context.Background(), "user-123")

	require.Error(t, err)
	assert.Nil(t, records)
	assert.Contains(t, err.Error(), "request failed with status 500")
}

// TestHTTPPeer_PushRecords проверяет успешную отправку записей
func TestHTTPPeer_PushRecords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/api/v1/sync/records", r.URL.Path)
		assert.Equal(t, "Bearer test_token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req api.PushRecordsRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		require.NoError(t, err)

		require.Len(t, req.Records, 2)
		assert.Equal(t, "cart_items:user-123", req.Records[0].ID)
		assert.Equal(t, "cart_items", req.Records[0].Type)
		assert.Equal(t, "wishlist_items:user-123", req.Records[1].ID)

		w.WriteHeader(http.StatusOK)
		resp := api.PushRecordsResponse{
			Accepted:   2,
			ServerTime: time.Now().UnixMilli(),
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	peer := NewHTTPPeer(server.URL, StaticTokenSource("test_token"))
	ctx := context.Background()

	err := peer.PushRecords(ctx, []*models.SyncRecord{
		{
			ID:        "cart_items:user-123",
			UserID:    "user-123",
			Type:      models.RecordTypeCartItems,
			DeviceID:  "device-a",
			Platform:  models.PlatformIOS,
			Data:      json.RawMessage(`[{"product_id":"p1","quantity":2}]`),
			Timestamp: 1700000000000,
			Version:   1,
		},
		{
			ID:        "wishlist_items:user-123",
			UserID:    "user-123",
			Type:      models.RecordTypeWishlistItems,
			DeviceID:  "device-a",
			Platform:  models.PlatformIOS,
			Data:      json.RawMessage(`[{"product_id":"p2"}]`),
			Timestamp: 1700000000001,
			Version:   1,
		},
	})

	require.NoError(t, err)
}

// TestHTTPPeer_PushRecords_TokenError проверяет что без токена запрос
// не уходит на сервер
func TestHTTPPeer_PushRecords_TokenError(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	peer := NewHTTPPeer(server.URL, failingTokenSource{})

	err := peer.PushRecords(context.Background(), []*models.SyncRecord{
		{ID: "cart_items:user-123", Type: models.RecordTypeCartItems},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.Contains(t, err.Error(), "failed to get auth token")
	assert.Equal(t, 0, requests)
}

type failingTokenSource struct{}

func (failingTokenSource) Token(_ context.Context) (string, error) {
	return "", ErrTokenExpired
}

// TestHTTPPeer_Authenticate проверяет выпуск токена
func TestHTTPPeer_Authenticate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/api/v1/auth/token", r.URL.Path)
		// Выпуск токена не требует авторизации
		assert.Empty(t, r.Header.Get("Authorization"))

		var req api.TokenRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		require.NoError(t, err)

		assert.Equal(t, "user-123", req.UserID)
		assert.Equal(t, "device-a", req.DeviceID)

		w.WriteHeader(http.StatusOK)
		resp := api.TokenResponse{
			AccessToken: "access_token_123",
			ExpiresIn:   900,
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	peer := NewHTTPPeer(server.URL, NewStoreTokenSource(nil))
	ctx := context.Background()

	resp, err := peer.Authenticate(ctx, "user-123", "device-a")

	require.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Equal(t, "access_token_123", resp.AccessToken)
	assert.Equal(t, int64(900), resp.ExpiresIn)
}

// TestHTTPPeer_Authenticate_Error проверяет обработку отказа в выпуске токена
func TestHTTPPeer_Authenticate_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		resp := api.ErrorResponse{
			Error: "user_id is required",
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	peer := NewHTTPPeer(server.URL, StaticTokenSource(""))

	resp, err := peer.Authenticate(context.Background(), "", "device-a")

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "server error (400): user_id is required")
}

// TestHTTPPeer_ContextCancellation проверяет отмену запроса через контекст
func TestHTTPPeer_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Имитируем долгий запрос
		time.Sleep(2 * time.Second)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	peer := NewHTTPPeer(server.URL, StaticTokenSource("test_token"))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := peer.FetchRecords(ctx, "user-123")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "context deadline exceeded")
}

// TestHTTPPeer_InvalidJSON проверяет обработку невалидного JSON в ответе
func TestHTTPPeer_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("invalid json {{{"))
	}))
	defer server.Close()

	peer := NewHTTPPeer(server.URL, StaticTokenSource("test_token"))

	records, err := peer.FetchRecords(context.Background(), "user-123")

	require.Error(t, err)
	assert.Nil(t, records)
	assert.Contains(t, err.Error(), "failed to decode response")
}
