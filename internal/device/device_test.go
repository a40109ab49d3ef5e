package device

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swipemart/syncengine/internal/models"
	"github.com/swipemart/syncengine/internal/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mapStore возвращает мок стора поверх обычной map
func mapStore(data map[string][]byte) *storage.KVStoreMock {
	var mu sync.Mutex
	return &storage.KVStoreMock{
		GetFunc: func(ctx context.Context, key string) ([]byte, error) {
			mu.Lock()
			defer mu.Unlock()
			value, ok := data[key]
			if !ok {
				return nil, storage.ErrKeyNotFound
			}
			return value, nil
		},
		SetFunc: func(ctx context.Context, key string, value []byte) error {
			mu.Lock()
			defer mu.Unlock()
			data[key] = value
			return nil
		},
		DeleteFunc: func(ctx context.Context, key string) error {
			mu.Lock()
			defer mu.Unlock()
			delete(data, key)
			return nil
		},
		CloseFunc: func() error { return nil },
	}
}

func TestManager_DeviceID_GeneratesAndPersists(t *testing.T) {
	data := map[string][]byte{}
	store := mapStore(data)
	manager := NewManager(store, testLogger())

	ctx := context.Background()
	id := manager.DeviceID(ctx)

	require.NotEmpty(t, id)
	assert.Equal(t, []byte(id), data[storage.KeyDeviceID])
}

func TestManager_DeviceID_StableAcrossInstances(t *testing.T) {
	data := map[string][]byte{}
	ctx := context.Background()

	first := NewManager(mapStore(data), testLogger()).DeviceID(ctx)
	second := NewManager(mapStore(data), testLogger()).DeviceID(ctx)

	assert.Equal(t, first, second)
}

func TestManager_DeviceID_CachedAfterFirstCall(t *testing.T) {
	data := map[string][]byte{}
	store := mapStore(data)
	manager := NewManager(store, testLogger())

	ctx := context.Background()
	first := manager.DeviceID(ctx)
	second := manager.DeviceID(ctx)

	assert.Equal(t, first, second)
	// Второй вызов не обращается к стору
	assert.Len(t, store.GetCalls(), 1)
}

func TestManager_DeviceID_StoreFailure(t *testing.T) {
	// Стор полностью недоступен - id все равно выдается и стабилен
	store := &storage.KVStoreMock{
		GetFunc: func(ctx context.Context, key string) ([]byte, error) {
			return nil, errors.New("disk error")
		},
		SetFunc: func(ctx context.Context, key string, value []byte) error {
			return errors.New("disk error")
		},
	}
	manager := NewManager(store, testLogger())

	ctx := context.Background()
	first := manager.DeviceID(ctx)
	second := manager.DeviceID(ctx)

	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestManager_Identity_Platform(t *testing.T) {
	manager := NewManager(mapStore(map[string][]byte{}), testLogger())

	identity := manager.Identity(context.Background())

	assert.Equal(t, platformFromGOOS(runtime.GOOS), identity.Platform)
	assert.NotEmpty(t, identity.DeviceID)
}

func TestPlatformFromGOOS(t *testing.T) {
	tests := []struct {
		goos     string
		expected models.Platform
	}{
		{goos: "ios", expected: models.PlatformIOS},
		{goos: "android", expected: models.PlatformAndroid},
		{goos: "linux", expected: models.PlatformOther},
		{goos: "darwin", expected: models.PlatformOther},
		{goos: "windows", expected: models.PlatformOther},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			assert.Equal(t, tt.expected, platformFromGOOS(tt.goos))
		})
	}
}
