package api

import "encoding/json"

// SyncRecord представляет одну запись синхронизации на проводе
type SyncRecord struct {
	ID        string          `json:"id"`        // ID идентификатор записи
	UserID    string          `json:"user_id"`   // UserID владелец записи
	Type      string          `json:"type"`      // Type тип данных записи
	DeviceID  string          `json:"device_id"` // DeviceID устройство последнего изменения
	Platform  string          `json:"platform"`  // Platform платформа устройства
	Data      json.RawMessage `json:"data"`      // Data полезная нагрузка записи
	Timestamp int64           `json:"timestamp"` // Timestamp время изменения (Unix миллисекунды)
	Version   int64           `json:"version"`   // Version монотонный счетчик изменений
}

// FetchRecordsResponse представляет ответ сервера со всеми записями пользователя
type FetchRecordsResponse struct {
	Records    []SyncRecord `json:"records"`     // Записи пользователя
	ServerTime int64        `json:"server_time"` // Текущее время сервера (Unix миллисекунды)
}

// PushRecordsRequest представляет запрос на отправку изменений клиента
type PushRecordsRequest struct {
	Records []SyncRecord `json:"records"`
}

// PushRecordsResponse представляет ответ сервера на отправку изменений
type PushRecordsResponse struct {
	Accepted   int   `json:"accepted"`    // Количество принятых записей
	ServerTime int64 `json:"server_time"` // Текущее время сервера (Unix миллисекунды)
}
