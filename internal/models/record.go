package models

import "encoding/json"

// RecordType тип синхронизируемых данных. Закрытое множество:
// записи с неизвестным типом отклоняются на границе (API, очередь).
type RecordType string

// Известные типы записей
const (
	RecordTypeUserPreferences RecordType = "user_preferences"
	RecordTypeCartItems       RecordType = "cart_items"
	RecordTypeWishlistItems   RecordType = "wishlist_items"
	RecordTypeSwipeHistory    RecordType = "swipe_history"
)

// KnownRecordTypes возвращает все поддерживаемые типы записей
// в стабильном порядке.
func KnownRecordTypes() []RecordType {
	return []RecordType{
		RecordTypeUserPreferences,
		RecordTypeCartItems,
		RecordTypeWishlistItems,
		RecordTypeSwipeHistory,
	}
}

// Valid сообщает, входит ли тип в закрытое множество поддерживаемых.
func (t RecordType) Valid() bool {
	switch t {
	case RecordTypeUserPreferences, RecordTypeCartItems,
		RecordTypeWishlistItems, RecordTypeSwipeHistory:
		return true
	}
	return false
}

// Platform платформа устройства, создавшего версию записи.
// Информационное поле: в упорядочивании и слиянии не участвует.
type Platform string

// Поддерживаемые платформы
const (
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
	PlatformOther   Platform = "other"
)

// SyncRecord представляет одну синхронизируемую запись пользовательских данных.
// Запись - это конверт вокруг типизированного payload: устройство при каждом
// изменении создает полную новую версию записи, а конфликтующие версии
// упорядочиваются по Timestamp, затем по Version, затем по DeviceID.
type SyncRecord struct {
	ID        string          `json:"id"`        // ID идентификатор записи ("<type>:<userID>" для доменных записей)
	UserID    string          `json:"user_id"`   // UserID идентификатор владельца записи
	Type      RecordType      `json:"type"`      // Type тип данных записи
	DeviceID  string          `json:"device_id"` // DeviceID идентификатор устройства, создавшего эту версию
	Platform  Platform        `json:"platform"`  // Platform платформа устройства (информационно)
	Data      json.RawMessage `json:"data"`      // Data типизированный payload (JSON, форма зависит от Type)
	Timestamp int64           `json:"timestamp"` // Timestamp время последнего изменения (Unix миллисекунды)
	Version   int64           `json:"version"`   // Version монотонно растущая версия записи
}

// RecordID возвращает канонический идентификатор доменной записи.
// На каждую пару (тип, пользователь) существует не более одной записи.
func RecordID(t RecordType, userID string) string {
	return string(t) + ":" + userID
}

// IsNewerThan сравнивает две версии записи и определяет, какая из них новее.
// Порядок сравнения:
// 1. Timestamp (больший выигрывает)
// 2. При равных Timestamp - Version (большая выигрывает)
// 3. При равных Version - DeviceID (лексикографически, для детерминизма)
// Возвращает true, если текущая версия новее, чем other.
func (r *SyncRecord) IsNewerThan(other *SyncRecord) bool {
	if r.Timestamp != other.Timestamp {
		return r.Timestamp > other.Timestamp
	}
	if r.Version != other.Version {
		return r.Version > other.Version
	}
	// Timestamp и Version равны - сравниваем DeviceID для детерминизма
	return r.DeviceID > other.DeviceID
}

// Clone создает глубокую копию записи
func (r *SyncRecord) Clone() *SyncRecord {
	data := make(json.RawMessage, len(r.Data))
	copy(data, r.Data)

	return &SyncRecord{
		ID:        r.ID,
		UserID:    r.UserID,
		Type:      r.Type,
		DeviceID:  r.DeviceID,
		Platform:  r.Platform,
		Data:      data,
		Timestamp: r.Timestamp,
		Version:   r.Version,
	}
}
