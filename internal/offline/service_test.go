package offline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swipemart/syncengine/internal/models"
	"github.com/swipemart/syncengine/internal/storage"
)

// newMapStore возвращает мок стора поверх обычной map.
// Ошибочные сценарии собираются в тестах из KVStoreMock напрямую.
func newMapStore(data map[string][]byte) *storage.KVStoreMock {
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
		CloseFunc: func() error {
			return nil
		},
	}
}

// fakeClock управляемый источник времени для проверки срока жизни
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

type offlineTestEnv struct {
	data  map[string][]byte
	store *storage.KVStoreMock
	clock *fakeClock
	svc   *Service
}

func newOfflineTestEnv(t *testing.T) *offlineTestEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	data := make(map[string][]byte)
	store := newMapStore(data)
	clock := &fakeClock{now: time.UnixMilli(5000)}

	return &offlineTestEnv{
		data:  data,
		store: store,
		clock: clock,
		svc:   NewService(store, logger, WithClock(clock.Now)),
	}
}

// testProducts возвращает n карточек товаров p1..pn.
func testProducts(n int) []models.ProductSummary {
	out := make([]models.ProductSummary, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, models.ProductSummary{
			ID:       fmt.Sprintf("p%d", i),
			Name:     fmt.Sprintf("product %d", i),
			Category: "sneakers",
			ImageURL: fmt.Sprintf("https://cdn.swipemart.test/p%d.jpg", i),
			Currency: "EUR",
			Price:    float64(i) * 10,
			InStock:  true,
		})
	}
	return out
}

func TestCacheProducts_RoundTrip(t *testing.T) {
	env := newOfflineTestEnv(t)
	ctx := context.Background()

	items := testProducts(3)
	require.NoError(t, env.svc.CacheProducts(ctx, items))

	assert.Equal(t, items, env.svc.CachedProducts(ctx))

	// Снимок на диске сжат кодеком по умолчанию
	frame := env.data[storage.KeyOfflineData]
	require.NotEmpty(t, frame)
	assert.Equal(t, markerSnappy, frame[0])

	snap := env.svc.Snapshot(ctx)
	assert.Equal(t, int64(5000), snap.LastSync.UnixMilli())
}

func TestCacheProducts_AllCodecs(t *testing.T) {
	for _, codec := range []Codec{CodecNone, CodecSnappy, CodecGzip} {
		t.Run(string(codec), func(t *testing.T) {
			env := newOfflineTestEnv(t)
			ctx := context.Background()

			cfg := DefaultCacheConfig()
			cfg.Compression = codec
			require.NoError(t, env.svc.UpdateConfig(ctx, cfg))

			items := testProducts(2)
			require.NoError(t, env.svc.CacheProducts(ctx, items))

			marker, err := codec.marker()
			require.NoError(t, err)
			assert.Equal(t, marker, env.data[storage.KeyOfflineData][0])

			assert.Equal(t, items, env.svc.CachedProducts(ctx))
		})
	}
}

func TestCacheProducts_TruncatesToLimit(t *testing.T) {
	env := newOfflineTestEnv(t)
	ctx := context.Background()

	cfg := DefaultCacheConfig()
	cfg.MaxProducts = 2
	require.NoError(t, env.svc.UpdateConfig(ctx, cfg))

	require.NoError(t, env.svc.CacheProducts(ctx, testProducts(5)))

	got := env.svc.CachedProducts(ctx)
	require.Len(t, got, 2)

	// Хвост списка - самые свежие карточки, начало отбрасывается
	assert.Equal(t, "p4", got[0].ID)
	assert.Equal(t, "p5", got[1].ID)
}

func TestCacheProducts_CarriesUserStateForward(t *testing.T) {
	env := newOfflineTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.svc.AddToCart(ctx, models.CartItem{ProductID: "p1", Quantity: 2, Price: 9.99, AddedAt: 100}))
	require.NoError(t, env.svc.AddToWishlist(ctx, models.WishlistItem{ProductID: "p2", AddedAt: 200}))
	require.NoError(t, env.svc.RecordSwipe(ctx, models.SwipeEvent{ProductID: "p3", Action: models.SwipeLike, Timestamp: 300}))
	require.NoError(t, env.svc.SetPreferences(ctx, models.UserPreferences{"theme": json.RawMessage(`"dark"`)}))

	// Свежий каталог не стирает пользовательское состояние
	require.NoError(t, env.svc.CacheProducts(ctx, testProducts(1)))

	snap := env.svc.Snapshot(ctx)
	assert.Len(t, snap.Products, 1)
	require.Len(t, snap.CartItems, 1)
	assert.Equal(t, "p1", snap.CartItems[0].ProductID)
	require.Len(t, snap.WishlistItems, 1)
	require.Len(t, snap.SwipeHistory, 1)
	assert.Equal(t, json.RawMessage(`"dark"`), snap.UserPreferences["theme"])
}

func TestCachedProducts_MissingSnapshot(t *testing.T) {
	env := newOfflineTestEnv(t)

	assert.Empty(t, env.svc.CachedProducts(context.Background()))
}

func TestCachedProducts_ServedUpToMaxAge(t *testing.T) {
	env := newOfflineTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.svc.CacheProducts(ctx, testProducts(2)))

	// Ровно на границе срока жизни снимок еще отдается
	env.clock.Advance(DefaultMaxCacheAge)
	assert.Len(t, env.svc.CachedProducts(ctx), 2)

	env.clock.Advance(time.Millisecond)
	assert.Empty(t, env.svc.CachedProducts(ctx))
}

func TestCachedProducts_ExpiredTreatedAsMissing(t *testing.T) {
	env := newOfflineTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.svc.CacheProducts(ctx, testProducts(3)))
	env.clock.Advance(25 * time.Hour)

	assert.Empty(t, env.svc.CachedProducts(ctx))

	// Сводка при этом видит устаревший снимок целиком
	info := env.svc.Info(ctx)
	assert.True(t, info.IsExpired)
	assert.Equal(t, 3, info.ProductCount)
}

func TestCachedProducts_CorruptSnapshot(t *testing.T) {
	env := newOfflineTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.svc.CacheProducts(ctx, testProducts(2)))

	// Битый снимок неотличим от отсутствующего
	frame := env.data[storage.KeyOfflineData]
	frame[len(frame)-1] ^= 0xFF

	assert.Empty(t, env.svc.CachedProducts(ctx))
}

func TestCachedProducts_StoreError(t *testing.T) {
	env := newOfflineTestEnv(t)

	env.store.GetFunc = func(ctx context.Context, key string) ([]byte, error) {
		return nil, errors.New("disk failure")
	}

	assert.Empty(t, env.svc.CachedProducts(context.Background()))
}

func TestSnapshot_UserDataOutlivesCatalogTTL(t *testing.T) {
	env := newOfflineTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.svc.AddToCart(ctx, models.CartItem{ProductID: "p1", Quantity: 1, Price: 10, AddedAt: 100}))
	require.NoError(t, env.svc.CacheProducts(ctx, testProducts(1)))

	env.clock.Advance(48 * time.Hour)

	// Каталог протух, но собственные действия пользователя на месте
	assert.Empty(t, env.svc.CachedProducts(ctx))

	snap := env.svc.Snapshot(ctx)
	require.Len(t, snap.CartItems, 1)
	assert.Equal(t, "p1", snap.CartItems[0].ProductID)
}

func TestAddToCart_UpsertsByProduct(t *testing.T) {
	env := newOfflineTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.svc.AddToCart(ctx, models.CartItem{ProductID: "p1", Quantity: 2, Price: 10, AddedAt: 100}))
	require.NoError(t, env.svc.AddToCart(ctx, models.CartItem{ProductID: "p1", Quantity: 5, Price: 10, AddedAt: 200}))
	require.NoError(t, env.svc.AddToCart(ctx, models.CartItem{ProductID: "p1", Quantity: 3, Price: 10, AddedAt: 300}))
	require.NoError(t, env.svc.AddToCart(ctx, models.CartItem{ProductID: "p2", Quantity: 1, Price: 5, AddedAt: 400}))

	snap := env.svc.Snapshot(ctx)
	require.Len(t, snap.CartItems, 2)

	// Из количеств остается большее, остальные поля от первого добавления
	assert.Equal(t, "p1", snap.CartItems[0].ProductID)
	assert.Equal(t, 5, snap.CartItems[0].Quantity)
	assert.Equal(t, int64(100), snap.CartItems[0].AddedAt)
	assert.Equal(t, "p2", snap.CartItems[1].ProductID)
}

func TestAddToCart_StoreError(t *testing.T) {
	env := newOfflineTestEnv(t)

	env.store.SetFunc = func(ctx context.Context, key string, value []byte) error {
		return errors.New("disk full")
	}

	err := env.svc.AddToCart(context.Background(), models.CartItem{ProductID: "p1", Quantity: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save offline snapshot")
}

func TestAddToWishlist_Dedup(t *testing.T) {
	env := newOfflineTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.svc.AddToWishlist(ctx, models.WishlistItem{ProductID: "p1", AddedAt: 100}))
	require.NoError(t, env.svc.AddToWishlist(ctx, models.WishlistItem{ProductID: "p1", AddedAt: 999}))
	require.NoError(t, env.svc.AddToWishlist(ctx, models.WishlistItem{ProductID: "p2", AddedAt: 200}))

	snap := env.svc.Snapshot(ctx)
	require.Len(t, snap.WishlistItems, 2)

	// Повторное добавление не затирает исходное время
	assert.Equal(t, int64(100), snap.WishlistItems[0].AddedAt)
	assert.Equal(t, "p2", snap.WishlistItems[1].ProductID)
}

func TestRecordSwipe_AppendsInOrder(t *testing.T) {
	env := newOfflineTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.svc.RecordSwipe(ctx, models.SwipeEvent{ProductID: "p1", Action: models.SwipeLike, Timestamp: 100}))
	require.NoError(t, env.svc.RecordSwipe(ctx, models.SwipeEvent{ProductID: "p2", Action: models.SwipeDislike, Timestamp: 200}))

	snap := env.svc.Snapshot(ctx)
	require.Len(t, snap.SwipeHistory, 2)
	assert.Equal(t, "p1", snap.SwipeHistory[0].ProductID)
	assert.Equal(t, models.SwipeDislike, snap.SwipeHistory[1].Action)
}

func TestInfo_MissingSnapshot(t *testing.T) {
	env := newOfflineTestEnv(t)

	info := env.svc.Info(context.Background())
	assert.Equal(t, models.CacheInfo{IsExpired: true}, info)
}

func TestInfo_FreshSnapshot(t *testing.T) {
	env := newOfflineTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.svc.CacheProducts(ctx, testProducts(3)))

	info := env.svc.Info(ctx)
	assert.Equal(t, 3, info.ProductCount)
	assert.False(t, info.IsExpired)

	// Размер считается по кадру на диске, после сжатия
	assert.Equal(t, len(env.data[storage.KeyOfflineData]), info.SizeBytes)
}

func TestClearCache(t *testing.T) {
	env := newOfflineTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.svc.CacheProducts(ctx, testProducts(2)))
	require.NoError(t, env.svc.ClearCache(ctx))

	_, ok := env.data[storage.KeyOfflineData]
	assert.False(t, ok)
	_, ok = env.data[storage.KeyCachedImages]
	assert.False(t, ok)

	assert.Empty(t, env.svc.CachedProducts(ctx))
	assert.Equal(t, models.CacheInfo{IsExpired: true}, env.svc.Info(ctx))
}

func TestUpdateConfig_PersistsAndClamps(t *testing.T) {
	env := newOfflineTestEnv(t)
	ctx := context.Background()

	err := env.svc.UpdateConfig(ctx, CacheConfig{
		MaxProducts: -5,
		MaxCacheAge: 0,
		Compression: Codec("zstd"),
	})
	require.NoError(t, err)

	got := env.svc.Config(ctx)
	assert.Equal(t, DefaultMaxProducts, got.MaxProducts)
	assert.Equal(t, DefaultMaxCacheAge, got.MaxCacheAge)
	assert.Equal(t, CodecSnappy, got.Compression)

	// Конфигурация переживает пересоздание сервиса
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	other := NewService(env.store, logger, WithClock(env.clock.Now))
	assert.Equal(t, got, other.Config(ctx))
}

func TestUpdateConfig_DoesNotResizeExistingSnapshot(t *testing.T) {
	env := newOfflineTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.svc.CacheProducts(ctx, testProducts(5)))

	cfg := DefaultCacheConfig()
	cfg.MaxProducts = 2
	require.NoError(t, env.svc.UpdateConfig(ctx, cfg))

	// Существующий снимок задним числом не обрезается
	assert.Len(t, env.svc.CachedProducts(ctx), 5)

	// Следующая запись кеша уже подчиняется новому пределу
	require.NoError(t, env.svc.CacheProducts(ctx, testProducts(5)))
	assert.Len(t, env.svc.CachedProducts(ctx), 2)
}

func TestConfig_CorruptStoredValue(t *testing.T) {
	env := newOfflineTestEnv(t)

	env.data[storage.KeyCacheConfig] = []byte("{not json")

	assert.Equal(t, DefaultCacheConfig(), env.svc.Config(context.Background()))
}

func TestConfig_InjectedDefaults(t *testing.T) {
	env := newOfflineTestEnv(t)
	ctx := context.Background()

	custom := CacheConfig{
		MaxProducts:        10,
		MaxCacheAge:        time.Hour,
		EnableImageCaching: false,
		Compression:        CodecGzip,
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	svc := NewService(env.store, logger, WithClock(env.clock.Now), WithDefaults(custom))

	// Пока конфигурация не сохранена, действуют подставленные значения
	assert.Equal(t, custom, svc.Config(ctx))

	// Сохраненная пользователем конфигурация важнее подставленной
	saved := DefaultCacheConfig()
	saved.MaxProducts = 3
	require.NoError(t, svc.UpdateConfig(ctx, saved))

	fresh := NewService(env.store, logger, WithDefaults(custom))
	assert.Equal(t, saved, fresh.Config(ctx))
}

func TestImageIndex_CollectsUniqueURLs(t *testing.T) {
	env := newOfflineTestEnv(t)
	ctx := context.Background()

	items := []models.ProductSummary{
		{ID: "p1", Name: "a", ImageURL: "https://cdn.swipemart.test/a.jpg"},
		{ID: "p2", Name: "b"},
		{ID: "p3", Name: "c", ImageURL: "https://cdn.swipemart.test/a.jpg"},
		{ID: "p4", Name: "d", ImageURL: "https://cdn.swipemart.test/d.jpg"},
	}
	require.NoError(t, env.svc.CacheProducts(ctx, items))

	// Пустые и повторяющиеся адреса в индекс не попадают
	urls := env.svc.CachedImageURLs(ctx)
	assert.Equal(t, []string{"https://cdn.swipemart.test/a.jpg", "https://cdn.swipemart.test/d.jpg"}, urls)
}

func TestImageIndex_DisabledRemovesIndex(t *testing.T) {
	env := newOfflineTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.svc.CacheProducts(ctx, testProducts(2)))
	_, ok := env.data[storage.KeyCachedImages]
	require.True(t, ok)

	cfg := DefaultCacheConfig()
	cfg.EnableImageCaching = false
	require.NoError(t, env.svc.UpdateConfig(ctx, cfg))
	require.NoError(t, env.svc.CacheProducts(ctx, testProducts(2)))

	_, ok = env.data[storage.KeyCachedImages]
	assert.False(t, ok)
	assert.Empty(t, env.svc.CachedImageURLs(ctx))
}
