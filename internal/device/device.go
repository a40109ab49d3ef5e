package device

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"

	"github.com/google/uuid"

	"github.com/swipemart/syncengine/internal/models"
	"github.com/swipemart/syncengine/internal/storage"
)

// Identity идентичность этого устройства: стабильный DeviceID и платформа.
type Identity struct {
	DeviceID string          // DeviceID уникальный идентификатор устройства
	Platform models.Platform // Platform платформа устройства
}

// Manager выдает идентичность устройства. DeviceID генерируется один раз,
// сохраняется в локальном сторе и переживает перезапуски приложения.
// Получение идентичности никогда не завершается ошибкой: при недоступном
// сторе устройство работает со сгенерированным id до конца процесса.
type Manager struct {
	store  storage.KVStore
	logger *slog.Logger

	mu     sync.Mutex
	cached *Identity
}

// NewManager creates a new device identity manager
func NewManager(store storage.KVStore, logger *slog.Logger) *Manager {
	return &Manager{
		store:  store,
		logger: logger,
	}
}

// DeviceID возвращает стабильный идентификатор этого устройства.
func (m *Manager) DeviceID(ctx context.Context) string {
	return m.Identity(ctx).DeviceID
}

// Identity возвращает идентичность устройства. Первый вызов читает
// или создает DeviceID, дальнейшие обслуживаются из памяти.
func (m *Manager) Identity(ctx context.Context) Identity {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cached != nil {
		return *m.cached
	}

	id := m.resolveDeviceID(ctx)

	m.cached = &Identity{
		DeviceID: id,
		Platform: platformFromGOOS(runtime.GOOS),
	}

	return *m.cached
}

// resolveDeviceID читает сохраненный id либо генерирует и сохраняет новый
func (m *Manager) resolveDeviceID(ctx context.Context) string {
	data, err := m.store.Get(ctx, storage.KeyDeviceID)
	if err == nil && len(data) > 0 {
		return string(data)
	}

	if err != nil && !errors.Is(err, storage.ErrKeyNotFound) {
		m.logger.Warn("failed to read device id, generating new one", "error", err)
	}

	id := uuid.New().String()

	if err := m.store.Set(ctx, storage.KeyDeviceID, []byte(id)); err != nil {
		// Стор недоступен - работаем с id в памяти до конца процесса
		m.logger.Warn("failed to persist device id", "error", err)
	} else {
		m.logger.Info("generated new device id", "device_id", id)
	}

	return id
}

func platformFromGOOS(goos string) models.Platform {
	switch goos {
	case "ios":
		return models.PlatformIOS
	case "android":
		return models.PlatformAndroid
	default:
		return models.PlatformOther
	}
}
