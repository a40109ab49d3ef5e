// Package offline обслуживает офлайн-кеш: снимок каталога и
// пользовательского состояния под одним ключом локального стора, с
// ограничением срока жизни и настраиваемым сжатием.
package offline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/swipemart/syncengine/internal/models"
	"github.com/swipemart/syncengine/internal/storage"
)

// Service обслуживает офлайн-кеш поверх локального стора. Чтения
// деградируют до пустых значений при любом сбое, записи возвращают
// ошибку вызывающему.
type Service struct {
	store    storage.KVStore
	logger   *slog.Logger
	now      func() time.Time
	defaults CacheConfig

	// mu сериализует read-modify-write снимка и конфигурации
	mu  sync.Mutex
	cfg *CacheConfig // конфигурация в памяти, nil до первого обращения
}

// Option настраивает сервис офлайн-кеша
type Option func(*Service)

// WithClock подменяет источник времени (для тестов)
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithDefaults задает конфигурацию, действующую пока пользователь не
// сохранил собственную. Сохраненная конфигурация всегда приоритетнее
func WithDefaults(cfg CacheConfig) Option {
	return func(s *Service) {
		s.defaults = cfg.Normalize()
	}
}

// NewService creates the offline cache service on top of the local store
func NewService(store storage.KVStore, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:    store,
		logger:   logger,
		now:      time.Now,
		defaults: DefaultCacheConfig(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// CacheProducts persists a fresh catalog snapshot with LastSync = now.
// Пользовательские списки из прежнего снимка переносятся в новый,
// каталог обрезается до MaxProducts с сохранением свежезагруженного
// хвоста.
func (s *Service) CacheProducts(ctx context.Context, products []models.ProductSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.loadConfigLocked(ctx)

	if len(products) > cfg.MaxProducts {
		products = products[len(products)-cfg.MaxProducts:]
	}

	prior := s.loadSnapshot(ctx)

	snap := models.OfflineSnapshot{
		LastSync:        s.now(),
		UserPreferences: prior.UserPreferences,
		Products:        products,
		CartItems:       prior.CartItems,
		WishlistItems:   prior.WishlistItems,
		SwipeHistory:    prior.SwipeHistory,
	}

	if err := s.saveSnapshot(ctx, snap, cfg); err != nil {
		return err
	}

	s.logger.Info("cached product data",
		"products", len(snap.Products),
		"codec", string(cfg.Compression))

	return s.refreshImageIndex(ctx, snap.Products, cfg)
}

// CachedProducts returns the cached catalog. Протухший снимок
// неотличим от отсутствующего: цены и наличие старше MaxCacheAge не
// показываются.
func (s *Service) CachedProducts(ctx context.Context) []models.ProductSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.loadConfigLocked(ctx)
	snap := s.loadSnapshot(ctx)

	if s.expired(snap, cfg) {
		return nil
	}

	return snap.Products
}

// AddToCart добавляет либо обновляет позицию корзины в снимке. Запись
// для синхронизации не ставится в очередь, это забота вызывающего
func (s *Service) AddToCart(ctx context.Context, item models.CartItem) error {
	return s.updateSnapshot(ctx, func(snap *models.OfflineSnapshot) {
		snap.CartItems = models.UpsertCartItem(snap.CartItems, item)
	})
}

// AddToWishlist добавляет позицию в список желаний снимка, повторное
// добавление того же товара не меняет список
func (s *Service) AddToWishlist(ctx context.Context, item models.WishlistItem) error {
	return s.updateSnapshot(ctx, func(snap *models.OfflineSnapshot) {
		for _, existing := range snap.WishlistItems {
			if existing.ProductID == item.ProductID {
				return
			}
		}
		snap.WishlistItems = append(snap.WishlistItems, item)
	})
}

// RecordSwipe дописывает событие свайпа в журнал снимка
func (s *Service) RecordSwipe(ctx context.Context, event models.SwipeEvent) error {
	return s.updateSnapshot(ctx, func(snap *models.OfflineSnapshot) {
		snap.SwipeHistory = append(snap.SwipeHistory, event)
	})
}

// SetPreferences замещает настройки пользователя в снимке
func (s *Service) SetPreferences(ctx context.Context, prefs models.UserPreferences) error {
	return s.updateSnapshot(ctx, func(snap *models.OfflineSnapshot) {
		snap.UserPreferences = prefs
	})
}

// SetCartItems замещает корзину в снимке
func (s *Service) SetCartItems(ctx context.Context, items []models.CartItem) error {
	return s.updateSnapshot(ctx, func(snap *models.OfflineSnapshot) {
		snap.CartItems = items
	})
}

// SetWishlistItems замещает список желаний в снимке
func (s *Service) SetWishlistItems(ctx context.Context, items []models.WishlistItem) error {
	return s.updateSnapshot(ctx, func(snap *models.OfflineSnapshot) {
		snap.WishlistItems = items
	})
}

// SetSwipeHistory замещает журнал свайпов в снимке
func (s *Service) SetSwipeHistory(ctx context.Context, events []models.SwipeEvent) error {
	return s.updateSnapshot(ctx, func(snap *models.OfflineSnapshot) {
		snap.SwipeHistory = events
	})
}

// Snapshot возвращает весь офлайн-снимок без проверки срока жизни.
// Срок жизни ограничивает только каталог товаров, собственные данные
// пользователя отдаются всегда
func (s *Service) Snapshot(ctx context.Context) models.OfflineSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadSnapshot(ctx)
}

// Info returns cache statistics without mutating the snapshot
func (s *Service) Info(ctx context.Context) models.CacheInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.loadConfigLocked(ctx)

	data, err := s.store.Get(ctx, storage.KeyOfflineData)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			s.logger.Warn("failed to read offline snapshot", "error", err)
		}
		return models.CacheInfo{IsExpired: true}
	}

	snap := s.decodeSnapshot(data)

	return models.CacheInfo{
		ProductCount: len(snap.Products),
		SizeBytes:    len(data),
		IsExpired:    s.expired(snap, cfg),
	}
}

// ClearCache removes the snapshot and the cached images index
func (s *Service) ClearCache(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, storage.KeyOfflineData); err != nil {
		return fmt.Errorf("failed to clear offline snapshot: %w", err)
	}
	if err := s.store.Delete(ctx, storage.KeyCachedImages); err != nil {
		return fmt.Errorf("failed to clear cached images index: %w", err)
	}

	s.logger.Info("offline cache cleared")

	return nil
}

// UpdateConfig сохраняет новую конфигурацию кеша. Действует со
// следующей записи кеша, существующий снимок не пересобирается
func (s *Service) UpdateConfig(ctx context.Context, cfg CacheConfig) error {
	cfg = cfg.Normalize()

	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal cache config: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Set(ctx, storage.KeyCacheConfig, data); err != nil {
		return fmt.Errorf("failed to save cache config: %w", err)
	}
	s.cfg = &cfg

	s.logger.Info("cache config updated",
		"max_products", cfg.MaxProducts,
		"max_cache_age", cfg.MaxCacheAge,
		"image_caching", cfg.EnableImageCaching,
		"codec", string(cfg.Compression))

	return nil
}

// Config возвращает действующую конфигурацию кеша
func (s *Service) Config(ctx context.Context) CacheConfig {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadConfigLocked(ctx)
}

// CachedImageURLs возвращает индекс адресов изображений из последнего
// снимка каталога
func (s *Service) CachedImageURLs(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.store.Get(ctx, storage.KeyCachedImages)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			s.logger.Warn("failed to read cached images index", "error", err)
		}
		return nil
	}

	var urls []string
	if err := json.Unmarshal(data, &urls); err != nil {
		s.logger.Warn("corrupt cached images index", "error", err)
		return nil
	}

	return urls
}

// updateSnapshot выполняет read-modify-write снимка целиком под mu,
// чтобы параллельные изменения разных списков не терялись
func (s *Service) updateSnapshot(ctx context.Context, update func(*models.OfflineSnapshot)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.loadConfigLocked(ctx)
	snap := s.loadSnapshot(ctx)

	update(&snap)

	return s.saveSnapshot(ctx, snap, cfg)
}

// loadConfigLocked возвращает действующую конфигурацию. Отсутствующая
// или нечитаемая конфигурация деградирует до значений по умолчанию,
// при временной ошибке стора результат не запоминается
func (s *Service) loadConfigLocked(ctx context.Context) CacheConfig {
	if s.cfg != nil {
		return *s.cfg
	}

	data, err := s.store.Get(ctx, storage.KeyCacheConfig)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			cfg := s.defaults
			s.cfg = &cfg
			return cfg
		}

		s.logger.Warn("failed to read cache config, using defaults", "error", err)
		return s.defaults
	}

	var cfg CacheConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		s.logger.Warn("corrupt cache config, using defaults", "error", err)
		cfg = s.defaults
	} else {
		cfg = cfg.Normalize()
	}
	s.cfg = &cfg

	return cfg
}

// loadSnapshot читает текущий снимок. Любой сбой чтения деградирует до
// пустого снимка, офлайн-кеш не роняет вызывающего
func (s *Service) loadSnapshot(ctx context.Context) models.OfflineSnapshot {
	data, err := s.store.Get(ctx, storage.KeyOfflineData)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			s.logger.Warn("failed to read offline snapshot", "error", err)
		}
		return models.OfflineSnapshot{}
	}

	return s.decodeSnapshot(data)
}

func (s *Service) decodeSnapshot(frame []byte) models.OfflineSnapshot {
	payload, err := decodeFrame(frame)
	if err != nil {
		s.logger.Warn("corrupt offline snapshot, dropping", "error", err)
		return models.OfflineSnapshot{}
	}

	var snap models.OfflineSnapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		s.logger.Warn("corrupt offline snapshot, dropping", "error", err)
		return models.OfflineSnapshot{}
	}

	return snap
}

func (s *Service) saveSnapshot(ctx context.Context, snap models.OfflineSnapshot, cfg CacheConfig) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal offline snapshot: %w", err)
	}

	frame, err := encodeFrame(cfg.Compression, payload)
	if err != nil {
		return fmt.Errorf("failed to encode offline snapshot: %w", err)
	}

	if err := s.store.Set(ctx, storage.KeyOfflineData, frame); err != nil {
		return fmt.Errorf("failed to save offline snapshot: %w", err)
	}

	return nil
}

// expired сообщает, протух ли каталог снимка. Нулевое время снимка
// означает, что снимка еще не было
func (s *Service) expired(snap models.OfflineSnapshot, cfg CacheConfig) bool {
	if snap.LastSync.IsZero() {
		return true
	}

	return s.now().Sub(snap.LastSync) > cfg.MaxCacheAge
}

// refreshImageIndex пересобирает индекс изображений каталога. При
// выключенном кешировании изображений индекс удаляется
func (s *Service) refreshImageIndex(ctx context.Context, products []models.ProductSummary, cfg CacheConfig) error {
	if !cfg.EnableImageCaching {
		if err := s.store.Delete(ctx, storage.KeyCachedImages); err != nil {
			return fmt.Errorf("failed to drop cached images index: %w", err)
		}
		return nil
	}

	urls := make([]string, 0, len(products))
	seen := make(map[string]struct{}, len(products))

	for _, p := range products {
		if p.ImageURL == "" {
			continue
		}
		if _, ok := seen[p.ImageURL]; ok {
			continue
		}
		seen[p.ImageURL] = struct{}{}
		urls = append(urls, p.ImageURL)
	}

	data, err := json.Marshal(urls)
	if err != nil {
		return fmt.Errorf("failed to marshal cached images index: %w", err)
	}

	if err := s.store.Set(ctx, storage.KeyCachedImages, data); err != nil {
		return fmt.Errorf("failed to save cached images index: %w", err)
	}

	return nil
}
