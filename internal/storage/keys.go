package storage

// Ключи локального стора. Под одним ключом хранится одно сериализованное
// значение, пер-пользовательские ключи строятся хелперами ниже.
const (
	// KeyDeviceID стабильный идентификатор этого устройства
	KeyDeviceID = "device_id"

	// KeySyncQueue очередь записей, ожидающих отправки
	KeySyncQueue = "sync_queue"

	// KeyOfflineData снимок данных для офлайн-режима
	KeyOfflineData = "offline_data"

	// KeyCachedImages индекс закешированных изображений товаров
	KeyCachedImages = "cached_images"

	// KeyCacheConfig конфигурация офлайн-кеша
	KeyCacheConfig = "cache_config"

	// KeyAuthToken токен доступа к удаленной стороне
	KeyAuthToken = "auth_token"

	// KeyUserID идентификатор пользователя последнего входа
	KeyUserID = "user_id"
)

// SyncRecordsKey возвращает ключ локальных записей пользователя.
func SyncRecordsKey(userID string) string {
	return "sync_records:" + userID
}

// LastSyncKey возвращает ключ времени последней успешной синхронизации.
func LastSyncKey(userID string) string {
	return "last_sync:" + userID
}
