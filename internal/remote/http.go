package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/swipemart/syncengine/internal/models"
	"github.com/swipemart/syncengine/pkg/api"
)

// HTTPPeer представляет HTTP клиент для взаимодействия с сервером
// синхронизации. Реализует Peer.
type HTTPPeer struct {
	httpClient *http.Client
	tokens     TokenSource
	baseURL    string
}

// NewHTTPPeer создает новый HTTP клиент синхронизации
func NewHTTPPeer(baseURL string, tokens TokenSource) *HTTPPeer {
	return &HTTPPeer{
		baseURL: baseURL,
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			// Настройка обработки редиректов
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовки Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// FetchRecords получает все записи пользователя с сервера
func (p *HTTPPeer) FetchRecords(ctx context.Context, userID string) ([]*models.SyncRecord, error) {
	var resp api.FetchRecordsResponse
	url := fmt.Sprintf("/api/v1/sync/records/%s", userID)
	if err := p.doRequest(ctx, http.MethodGet, url, nil, &resp, true); err != nil {
		return nil, fmt.Errorf("fetch records request failed: %w", err)
	}

	records := make([]*models.SyncRecord, 0, len(resp.Records))
	for _, wire := range resp.Records {
		records = append(records, recordFromWire(wire))
	}

	return records, nil
}

// PushRecords отправляет записи на сервер
func (p *HTTPPeer) PushRecords(ctx context.Context, records []*models.SyncRecord) error {
	req := api.PushRecordsRequest{
		Records: make([]api.SyncRecord, 0, len(records)),
	}
	for _, record := range records {
		req.Records = append(req.Records, recordToWire(record))
	}

	var resp api.PushRecordsResponse
	if err := p.doRequest(ctx, http.MethodPost, "/api/v1/sync/records", req, &resp, true); err != nil {
		return fmt.Errorf("push records request failed: %w", err)
	}

	return nil
}

// Authenticate запрашивает токен доступа для пары пользователь-устройство.
// Сохранение токена - забота вызывающего.
func (p *HTTPPeer) Authenticate(ctx context.Context, userID, deviceID string) (*api.TokenResponse, error) {
	req := api.TokenRequest{
		UserID:   userID,
		DeviceID: deviceID,
	}

	var resp api.TokenResponse
	if err := p.doRequest(ctx, http.MethodPost, "/api/v1/auth/token", req, &resp, false); err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}

	return &resp, nil
}

// doRequest выполняет HTTP запрос
func (p *HTTPPeer) doRequest(ctx context.Context, method, path string, body, result interface{}, authed bool) error {
	url := p.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if authed {
		token, err := p.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("failed to get auth token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	// Просроченный или отозванный токен сервер отдает как 401
	if resp.StatusCode == http.StatusUnauthorized {
		if text := serverErrorText(respBody); text != "" {
			return fmt.Errorf("%w: %s", ErrUnauthorized, text)
		}
		return ErrUnauthorized
	}

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if text := serverErrorText(respBody); text != "" {
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, text)
		}
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	// Декодируем успешный ответ
	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// serverErrorText достает человекочитаемый текст из тела ошибки сервера.
// Message содержит детали, Error только статус
func serverErrorText(respBody []byte) string {
	var errResp api.ErrorResponse
	if err := json.Unmarshal(respBody, &errResp); err != nil {
		return ""
	}
	if errResp.Message != "" {
		return errResp.Message
	}
	return errResp.Error
}

// recordToWire конвертирует доменную запись в транспортное представление
func recordToWire(record *models.SyncRecord) api.SyncRecord {
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

// recordFromWire конвертирует транспортное представление в доменную запись
func recordFromWire(wire api.SyncRecord) *models.SyncRecord {
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
