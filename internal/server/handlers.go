package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/swipemart/syncengine/internal/models"
	"github.com/swipemart/syncengine/internal/validation"
	"github.com/swipemart/syncengine/pkg/api"
)

// Handler обслуживает HTTP API дев-пира
type Handler struct {
	logger  *slog.Logger
	records *RecordSet
	jwt     JWTConfig
	limiter *RateLimiter
	now     func() time.Time
}

// NewHandler creates the dev peer HTTP handler
func NewHandler(logger *slog.Logger, records *RecordSet, jwt JWTConfig) *Handler {
	return &Handler{
		logger:  logger,
		records: records,
		jwt:     jwt,
		limiter: NewRateLimiter(tokenRateLimit, tokenRateWindow, logger),
		now:     time.Now,
	}
}

// Close останавливает фоновые задачи обработчика
func (h *Handler) Close() {
	h.limiter.Stop()
}

// Routes собирает маршруты пира с цепочкой middleware
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/health", h.HandleHealth)
	mux.Handle("/api/v1/auth/token", h.limiter.Middleware(http.HandlerFunc(h.HandleToken)))

	authed := AuthMiddleware(h.logger, h.jwt)
	mux.Handle("/api/v1/sync/records", authed(http.HandlerFunc(h.HandlePushRecords)))
	mux.Handle("/api/v1/sync/records/", authed(http.HandlerFunc(h.HandleFetchRecords)))

	return LoggingMiddleware(h.logger)(RecoveryMiddleware(h.logger)(mux))
}

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Status string `json:"status"`
}

// HandleHealth обрабатывает GET /api/v1/health
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, HealthResponse{Status: "ok"}, http.StatusOK)
}

// HandleToken обрабатывает POST /api/v1/auth/token.
// Дев-пир выпускает токен без проверки учетных данных
func (h *Handler) HandleToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	var req api.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode token request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := validation.ValidateUserID(req.UserID); err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	token, expiresIn, err := GenerateAccessToken(h.jwt, req.UserID, req.DeviceID)
	if err != nil {
		h.logger.Error("failed to generate token", "error", err)
		h.sendError(w, "failed to generate token", http.StatusInternalServerError)
		return
	}

	h.sendJSON(w, api.TokenResponse{AccessToken: token, ExpiresIn: expiresIn}, http.StatusOK)

	h.logger.Info("issued dev token", "user_id", req.UserID, "device_id", req.DeviceID)
}

// HandleFetchRecords обрабатывает GET /api/v1/sync/records/{userID}
func (h *Handler) HandleFetchRecords(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	authUserID, ok := requestUserID(r.Context())
	if !ok {
		h.logger.Error("user id not found in request context")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID := strings.TrimPrefix(r.URL.Path, "/api/v1/sync/records/")
	if userID == "" {
		h.sendError(w, "missing user id", http.StatusBadRequest)
		return
	}

	// Пир отдает записи только владельцу токена
	if userID != authUserID {
		h.logger.Warn("token user mismatch", "token_user", authUserID, "path_user", userID)
		h.sendError(w, "token does not match requested user", http.StatusForbidden)
		return
	}

	records := h.records.UserRecords(userID)

	resp := api.FetchRecordsResponse{
		Records:    make([]api.SyncRecord, 0, len(records)),
		ServerTime: h.now().UnixMilli(),
	}
	for _, record := range records {
		resp.Records = append(resp.Records, wireRecord(record))
	}

	h.sendJSON(w, resp, http.StatusOK)

	h.logger.Info("fetch completed", "user_id", userID, "records", len(resp.Records))
}

// HandlePushRecords обрабатывает POST /api/v1/sync/records
func (h *Handler) HandlePushRecords(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	authUserID, ok := requestUserID(r.Context())
	if !ok {
		h.logger.Error("user id not found in request context")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req api.PushRecordsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode push request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Валидируем пачку целиком до первой вставки
	for _, wire := range req.Records {
		if wire.UserID != authUserID {
			h.logger.Warn("record user mismatch", "token_user", authUserID, "record_user", wire.UserID)
			h.sendError(w, "record user does not match token", http.StatusForbidden)
			return
		}
		if !models.RecordType(wire.Type).Valid() {
			h.sendError(w, fmt.Sprintf("unknown record type %q", wire.Type), http.StatusBadRequest)
			return
		}
	}

	accepted := 0
	for _, wire := range req.Records {
		if h.records.Put(modelRecord(wire)) {
			accepted++
		}
	}

	h.sendJSON(w, api.PushRecordsResponse{
		Accepted:   accepted,
		ServerTime: h.now().UnixMilli(),
	}, http.StatusOK)

	h.logger.Info("push completed",
		"user_id", authUserID,
		"received", len(req.Records),
		"accepted", accepted,
	)
}

// sendJSON отправляет JSON ответ с указанным статусом
func (h *Handler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", "error", err)
	}
}

// sendError отправляет JSON ответ с ошибкой
func (h *Handler) sendError(w http.ResponseWriter, message string, statusCode int) {
	h.sendJSON(w, api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}, statusCode)
}

// wireRecord конвертирует доменную запись в транспортное представление
func wireRecord(record *models.SyncRecord) api.SyncRecord {
	return api.SyncRecord{
		ID:        record.ID,
		UserID:    record.UserID,
		Type:      string(record.Type),
		DeviceID:  record.DeviceID,
		Platform:  string(record.Platform),
		Data:      record.Data,
		Timestamp: record.Timestamp,
		Version:   record.Version,
	}
}

// modelRecord конвертирует транспортное представление в доменную запись
func modelRecord(wire api.SyncRecord) *models.SyncRecord {
	return &models.SyncRecord{
		ID:        wire.ID,
		UserID:    wire.UserID,
		Type:      models.RecordType(wire.Type),
		DeviceID:  wire.DeviceID,
		Platform:  models.Platform(wire.Platform),
		Data:      wire.Data,
		Timestamp: wire.Timestamp,
		Version:   wire.Version,
	}
}
