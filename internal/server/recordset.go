// Package server реализует дев-пир синхронизации: HTTP API поверх
// множества записей в памяти процесса. Пир намеренно глупый - хранит
// новейшую версию каждой записи и ничего не сливает, вся логика
// разрешения конфликтов остается на клиенте.
package server

import (
	"sort"
	"sync"

	"github.com/swipemart/syncengine/internal/models"
)

// RecordSet потокобезопасное множество записей с правилом "новее
// побеждает" при повторной отправке того же идентификатора.
type RecordSet struct {
	mu    sync.RWMutex
	users map[string]map[string]*models.SyncRecord // userID -> recordID -> запись
}

// NewRecordSet creates an empty record set
func NewRecordSet() *RecordSet {
	return &RecordSet{
		users: make(map[string]map[string]*models.SyncRecord),
	}
}

// Put сохраняет запись, если она новее уже известной версии.
// Возвращает true, если запись была принята.
func (s *RecordSet) Put(record *models.SyncRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, ok := s.users[record.UserID]
	if !ok {
		records = make(map[string]*models.SyncRecord)
		s.users[record.UserID] = records
	}

	if existing, ok := records[record.ID]; ok && !record.IsNewerThan(existing) {
		return false
	}

	records[record.ID] = record.Clone()

	return true
}

// UserRecords возвращает копии всех записей пользователя в стабильном
// порядке по идентификатору.
func (s *RecordSet) UserRecords(userID string) []*models.SyncRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.users[userID]

	out := make([]*models.SyncRecord, 0, len(records))
	for _, record := range records {
		out = append(out, record.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})

	return out
}
