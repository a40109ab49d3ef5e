package models

// ConflictType классификация расхождения между локальной и удаленной
// версиями записи.
type ConflictType string

// Виды конфликтов
const (
	// ConflictTimestamp версии расходятся по времени изменения
	ConflictTimestamp ConflictType = "timestamp"
	// ConflictVersion времена совпадают, расходятся номера версий
	ConflictVersion ConflictType = "version"
	// ConflictNone содержимое эквивалентно, разрешение не требуется
	ConflictNone ConflictType = "none"
)

// Conflict представляет пару конфликтующих версий одной записи.
// Local и Remote всегда относятся к одному ID и одному типу данных.
type Conflict struct {
	Local  *SyncRecord  `json:"local"`  // Local версия записи на этом устройстве
	Remote *SyncRecord  `json:"remote"` // Remote версия записи с удаленной стороны
	Type   ConflictType `json:"type"`   // Type классификация расхождения
}
