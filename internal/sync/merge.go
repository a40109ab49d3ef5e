package sync

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/swipemart/syncengine/internal/models"
)

// MergeFunc объединяет две версии записи одного типа в одну.
// Функции слияния чистые и детерминированные: не изменяют входные записи
// и для одинаковых входов всегда дают одинаковый результат. Timestamp и
// Version результата берутся как максимум входных, свежую версию поверх
// слитой записи штампует Resolver.
type MergeFunc func(local, remote *models.SyncRecord) (*models.SyncRecord, error)

// defaultMergeFuncs возвращает слияния для всех поддерживаемых типов
func defaultMergeFuncs() map[models.RecordType]MergeFunc {
	return map[models.RecordType]MergeFunc{
		models.RecordTypeUserPreferences: MergePreferences,
		models.RecordTypeCartItems:       MergeCartItems,
		models.RecordTypeWishlistItems:   MergeWishlistItems,
		models.RecordTypeSwipeHistory:    MergeSwipeHistory,
	}
}

// MergePreferences объединяет настройки пользователя: объединение полей
// обеих сторон, при совпадении поля побеждает локальное значение.
func MergePreferences(local, remote *models.SyncRecord) (*models.SyncRecord, error) {
	localPrefs, err := models.DecodePreferences(local.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode local preferences: %w", err)
	}

	remotePrefs, err := models.DecodePreferences(remote.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode remote preferences: %w", err)
	}

	merged := make(models.UserPreferences, len(localPrefs)+len(remotePrefs))
	for field, value := range remotePrefs {
		merged[field] = value
	}
	// Локальные значения перекрывают удаленные
	for field, value := range localPrefs {
		merged[field] = value
	}

	data, err := models.EncodePreferences(merged)
	if err != nil {
		return nil, fmt.Errorf("failed to encode merged preferences: %w", err)
	}

	return mergedRecord(local, remote, data), nil
}

// MergeCartItems объединяет корзины по ProductID. Для товара, присутствующего
// с обеих сторон, берется большее из двух количеств: добавления с разных
// устройств не теряются, а одинаковое намерение не удваивается.
func MergeCartItems(local, remote *models.SyncRecord) (*models.SyncRecord, error) {
	localItems, err := models.DecodeCartItems(local.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode local cart: %w", err)
	}

	remoteItems, err := models.DecodeCartItems(remote.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode remote cart: %w", err)
	}

	index := make(map[string]int, len(localItems))
	merged := make([]models.CartItem, 0, len(localItems)+len(remoteItems))

	for _, item := range localItems {
		index[item.ProductID] = len(merged)
		merged = append(merged, item)
	}

	for _, item := range remoteItems {
		pos, ok := index[item.ProductID]
		if !ok {
			merged = append(merged, item)
			continue
		}
		if item.Quantity > merged[pos].Quantity {
			merged[pos].Quantity = item.Quantity
		}
	}

	data, err := models.EncodeCartItems(merged)
	if err != nil {
		return nil, fmt.Errorf("failed to encode merged cart: %w", err)
	}

	return mergedRecord(local, remote, data), nil
}

// MergeWishlistItems объединяет списки желаний: объединение с дедупликацией
// по ProductID, первым встретившийся экземпляр побеждает.
func MergeWishlistItems(local, remote *models.SyncRecord) (*models.SyncRecord, error) {
	localItems, err := models.DecodeWishlistItems(local.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode local wishlist: %w", err)
	}

	remoteItems, err := models.DecodeWishlistItems(remote.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode remote wishlist: %w", err)
	}

	seen := make(map[string]bool, len(localItems))
	merged := make([]models.WishlistItem, 0, len(localItems)+len(remoteItems))

	for _, item := range append(localItems, remoteItems...) {
		if seen[item.ProductID] {
			continue
		}
		seen[item.ProductID] = true
		merged = append(merged, item)
	}

	data, err := models.EncodeWishlistItems(merged)
	if err != nil {
		return nil, fmt.Errorf("failed to encode merged wishlist: %w", err)
	}

	return mergedRecord(local, remote, data), nil
}

// MergeSwipeHistory объединяет журналы свайпов: конкатенация с дедупликацией
// по тройке (товар, действие, время). Результат отсортирован по времени
// события, поэтому слияние коммутативно.
func MergeSwipeHistory(local, remote *models.SyncRecord) (*models.SyncRecord, error) {
	localEvents, err := models.DecodeSwipeHistory(local.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode local swipe history: %w", err)
	}

	remoteEvents, err := models.DecodeSwipeHistory(remote.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode remote swipe history: %w", err)
	}

	seen := make(map[string]bool, len(localEvents))
	merged := make([]models.SwipeEvent, 0, len(localEvents)+len(remoteEvents))

	for _, event := range append(localEvents, remoteEvents...) {
		key := event.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, event)
	}

	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Timestamp != merged[j].Timestamp {
			return merged[i].Timestamp < merged[j].Timestamp
		}
		return merged[i].Key() < merged[j].Key()
	})

	data, err := models.EncodeSwipeHistory(merged)
	if err != nil {
		return nil, fmt.Errorf("failed to encode merged swipe history: %w", err)
	}

	return mergedRecord(local, remote, data), nil
}

// mergedRecord собирает конверт слитой записи: Timestamp и Version - максимум
// входных, DeviceID и Platform - от более новой стороны.
func mergedRecord(local, remote *models.SyncRecord, data json.RawMessage) *models.SyncRecord {
	newer := remote
	if local.IsNewerThan(remote) {
		newer = local
	}

	timestamp := local.Timestamp
	if remote.Timestamp > timestamp {
		timestamp = remote.Timestamp
	}

	version := local.Version
	if remote.Version > version {
		version = remote.Version
	}

	return &models.SyncRecord{
		ID:        local.ID,
		UserID:    local.UserID,
		Type:      local.Type,
		DeviceID:  newer.DeviceID,
		Platform:  newer.Platform,
		Data:      data,
		Timestamp: timestamp,
		Version:   version,
	}
}
