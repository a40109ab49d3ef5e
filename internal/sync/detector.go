package sync

import "github.com/swipemart/syncengine/internal/models"

// ClassifyConflict классифицирует расхождение между двумя версиями одной
// записи. Если payload эквивалентны - конфликта нет, какими бы ни были
// метки времени и версии. Иначе расхождение по Timestamp классифицируется
// как timestamp-конфликт, остальное - как version-конфликт.
func ClassifyConflict(local, remote *models.SyncRecord) models.ConflictType {
	if models.PayloadEqual(local.Data, remote.Data) {
		return models.ConflictNone
	}
	if local.Timestamp != remote.Timestamp {
		return models.ConflictTimestamp
	}
	return models.ConflictVersion
}

// DetectConflicts сопоставляет локальные и удаленные записи по (ID, Type)
// и возвращает реальные конфликты. Записи, существующие только с одной
// стороны, конфликтами не являются. Порядок результата следует порядку
// local. Функция чистая: входные записи не изменяются.
func DetectConflicts(local, remote []*models.SyncRecord) []*models.Conflict {
	remoteByID := make(map[string]*models.SyncRecord, len(remote))
	for _, r := range remote {
		remoteByID[r.ID] = r
	}

	var conflicts []*models.Conflict

	for _, l := range local {
		r, ok := remoteByID[l.ID]
		if !ok || r.Type != l.Type {
			// Нет удаленного двойника - нечему конфликтовать
			continue
		}

		if conflictType := ClassifyConflict(l, r); conflictType != models.ConflictNone {
			conflicts = append(conflicts, &models.Conflict{
				Local:  l,
				Remote: r,
				Type:   conflictType,
			})
		}
	}

	return conflicts
}
