// Package data реализует фасад пользовательских данных магазина поверх
// движка синхронизации и офлайн-кеша. Каждое изменение создает новую
// версию доменной записи, ставит ее в очередь отправки и зеркалирует в
// офлайн-снимок. Конкурентные изменения данных одного пользователя
// фасад не сериализует, вызывающий выполняет их по одному.
package data

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/swipemart/syncengine/internal/device"
	"github.com/swipemart/syncengine/internal/models"
	"github.com/swipemart/syncengine/internal/offline"
	"github.com/swipemart/syncengine/internal/sync"
)

// Service фасад пользовательских данных: настройки, корзина, список
// желаний и история свайпов. Изменения проходят через движок
// синхронизации, чтения при пустом локальном состоянии деградируют до
// офлайн-снимка.
type Service struct {
	syncService    sync.Service
	offlineService *offline.Service
	devices        *device.Manager
	logger         *slog.Logger
	now            func() time.Time
}

// Option настраивает фасад
type Option func(*Service)

// WithClock подменяет источник времени (для тестов)
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates the shopping data facade
func NewService(
	syncService sync.Service,
	offlineService *offline.Service,
	devices *device.Manager,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		syncService:    syncService,
		offlineService: offlineService,
		devices:        devices,
		logger:         logger,
		now:            time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// SetPreference записывает одно поле настроек пользователя
func (s *Service) SetPreference(ctx context.Context, userID, key string, value json.RawMessage) error {
	prior, err := s.localRecord(ctx, userID, models.RecordTypeUserPreferences)
	if err != nil {
		return fmt.Errorf("failed to read preferences: %w", err)
	}

	prefs := models.UserPreferences{}
	if prior != nil {
		if prefs, err = models.DecodePreferences(prior.Data); err != nil {
			return fmt.Errorf("failed to decode preferences: %w", err)
		}
	}
	prefs[key] = value

	data, err := models.EncodePreferences(prefs)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}

	if err := s.saveAndQueue(ctx, s.nextRecord(ctx, prior, userID, models.RecordTypeUserPreferences, data)); err != nil {
		return err
	}

	if err := s.offlineService.SetPreferences(ctx, prefs); err != nil {
		s.logger.Warn("failed to mirror preferences to offline snapshot", "error", err)
	}

	return nil
}

// Preferences возвращает настройки пользователя. При пустом или
// нечитаемом локальном состоянии отдаются настройки из офлайн-снимка
func (s *Service) Preferences(ctx context.Context, userID string) models.UserPreferences {
	record, err := s.localRecord(ctx, userID, models.RecordTypeUserPreferences)
	if err != nil {
		s.logger.Warn("failed to read preferences, using offline snapshot", "error", err)
	} else if record != nil {
		prefs, err := models.DecodePreferences(record.Data)
		if err == nil {
			return prefs
		}
		s.logger.Warn("corrupt preferences record, using offline snapshot", "error", err)
	}

	return s.offlineService.Snapshot(ctx).UserPreferences
}

// AddCartItem добавляет товар в корзину. Для уже лежащего в корзине
// товара количество только растет: та же свертка действует при слиянии
// корзин с разных устройств, и повторное добавление не удваивает намерение
func (s *Service) AddCartItem(ctx context.Context, userID string, item models.CartItem) error {
	prior, items, err := s.cartState(ctx, userID)
	if err != nil {
		return err
	}

	items = models.UpsertCartItem(items, item)

	data, err := models.EncodeCartItems(items)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	if err := s.saveAndQueue(ctx, s.nextRecord(ctx, prior, userID, models.RecordTypeCartItems, data)); err != nil {
		return err
	}

	s.mirrorCart(ctx, items)

	return nil
}

// RemoveCartItem убирает товар из корзины. Отсутствующий в корзине
// товар не создает новой версии записи
func (s *Service) RemoveCartItem(ctx context.Context, userID, productID string) error {
	prior, items, err := s.cartState(ctx, userID)
	if err != nil {
		return err
	}

	filtered := make([]models.CartItem, 0, len(items))
	removed := false
	for _, existing := range items {
		if existing.ProductID == productID {
			removed = true
			continue
		}
		filtered = append(filtered, existing)
	}
	if !removed {
		return nil
	}

	data, err := models.EncodeCartItems(filtered)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	if err := s.saveAndQueue(ctx, s.nextRecord(ctx, prior, userID, models.RecordTypeCartItems, data)); err != nil {
		return err
	}

	s.mirrorCart(ctx, filtered)

	return nil
}

// ClearCart очищает корзину. Очистка - тоже изменение значения: новая
// версия записи с пустым payload, а не удаление записи
func (s *Service) ClearCart(ctx context.Context, userID string) error {
	prior, _, err := s.cartState(ctx, userID)
	if err != nil {
		return err
	}

	data, err := models.EncodeCartItems([]models.CartItem{})
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	if err := s.saveAndQueue(ctx, s.nextRecord(ctx, prior, userID, models.RecordTypeCartItems, data)); err != nil {
		return err
	}

	s.mirrorCart(ctx, []models.CartItem{})

	return nil
}

// Cart возвращает корзину пользователя. При пустом или нечитаемом
// локальном состоянии отдается корзина из офлайн-снимка
func (s *Service) Cart(ctx context.Context, userID string) []models.CartItem {
	record, err := s.localRecord(ctx, userID, models.RecordTypeCartItems)
	if err != nil {
		s.logger.Warn("failed to read cart, using offline snapshot", "error", err)
	} else if record != nil {
		items, err := models.DecodeCartItems(record.Data)
		if err == nil {
			return items
		}
		s.logger.Warn("corrupt cart record, using offline snapshot", "error", err)
	}

	return s.offlineService.Snapshot(ctx).CartItems
}

// AddWishlistItem добавляет товар в список желаний, повторное
// добавление того же товара не создает новой версии
func (s *Service) AddWishlistItem(ctx context.Context, userID string, item models.WishlistItem) error {
	prior, items, err := s.wishlistState(ctx, userID)
	if err != nil {
		return err
	}

	for _, existing := range items {
		if existing.ProductID == item.ProductID {
			return nil
		}
	}
	items = append(items, item)

	data, err := models.EncodeWishlistItems(items)
	if err != nil {
		return fmt.Errorf("failed to encode wishlist: %w", err)
	}

	if err := s.saveAndQueue(ctx, s.nextRecord(ctx, prior, userID, models.RecordTypeWishlistItems, data)); err != nil {
		return err
	}

	s.mirrorWishlist(ctx, items)

	return nil
}

// RemoveWishlistItem убирает товар из списка желаний. Отсутствующий
// товар не создает новой версии записи
func (s *Service) RemoveWishlistItem(ctx context.Context, userID, productID string) error {
	prior, items, err := s.wishlistState(ctx, userID)
	if err != nil {
		return err
	}

	filtered := make([]models.WishlistItem, 0, len(items))
	removed := false
	for _, existing := range items {
		if existing.ProductID == productID {
			removed = true
			continue
		}
		filtered = append(filtered, existing)
	}
	if !removed {
		return nil
	}

	data, err := models.EncodeWishlistItems(filtered)
	if err != nil {
		return fmt.Errorf("failed to encode wishlist: %w", err)
	}

	if err := s.saveAndQueue(ctx, s.nextRecord(ctx, prior, userID, models.RecordTypeWishlistItems, data)); err != nil {
		return err
	}

	s.mirrorWishlist(ctx, filtered)

	return nil
}

// Wishlist возвращает список желаний пользователя. При пустом или
// нечитаемом локальном состоянии отдается список из офлайн-снимка
func (s *Service) Wishlist(ctx context.Context, userID string) []models.WishlistItem {
	record, err := s.localRecord(ctx, userID, models.RecordTypeWishlistItems)
	if err != nil {
		s.logger.Warn("failed to read wishlist, using offline snapshot", "error", err)
	} else if record != nil {
		items, err := models.DecodeWishlistItems(record.Data)
		if err == nil {
			return items
		}
		s.logger.Warn("corrupt wishlist record, using offline snapshot", "error", err)
	}

	return s.offlineService.Snapshot(ctx).WishlistItems
}

// RecordSwipe дописывает событие в историю свайпов. Журнал append-only,
// повторное событие с тем же ключом не дублируется
func (s *Service) RecordSwipe(ctx context.Context, userID string, event models.SwipeEvent) error {
	prior, events, err := s.swipeState(ctx, userID)
	if err != nil {
		return err
	}

	key := event.Key()
	for _, existing := range events {
		if existing.Key() == key {
			return nil
		}
	}
	events = append(events, event)

	data, err := models.EncodeSwipeHistory(events)
	if err != nil {
		return fmt.Errorf("failed to encode swipe history: %w", err)
	}

	if err := s.saveAndQueue(ctx, s.nextRecord(ctx, prior, userID, models.RecordTypeSwipeHistory, data)); err != nil {
		return err
	}

	if err := s.offlineService.SetSwipeHistory(ctx, events); err != nil {
		s.logger.Warn("failed to mirror swipe history to offline snapshot", "error", err)
	}

	return nil
}

// SwipeHistory возвращает историю свайпов пользователя. При пустом или
// нечитаемом локальном состоянии отдается журнал из офлайн-снимка
func (s *Service) SwipeHistory(ctx context.Context, userID string) []models.SwipeEvent {
	record, err := s.localRecord(ctx, userID, models.RecordTypeSwipeHistory)
	if err != nil {
		s.logger.Warn("failed to read swipe history, using offline snapshot", "error", err)
	} else if record != nil {
		events, err := models.DecodeSwipeHistory(record.Data)
		if err == nil {
			return events
		}
		s.logger.Warn("corrupt swipe history record, using offline snapshot", "error", err)
	}

	return s.offlineService.Snapshot(ctx).SwipeHistory
}

// localRecord возвращает локальную доменную запись типа или nil, если
// записи еще нет
func (s *Service) localRecord(ctx context.Context, userID string, recordType models.RecordType) (*models.SyncRecord, error) {
	records, err := s.syncService.LocalRecords(ctx, userID)
	if err != nil {
		return nil, err
	}

	id := models.RecordID(recordType, userID)
	for _, record := range records {
		if record.ID == id {
			return record, nil
		}
	}

	return nil, nil
}

func (s *Service) cartState(ctx context.Context, userID string) (*models.SyncRecord, []models.CartItem, error) {
	prior, err := s.localRecord(ctx, userID, models.RecordTypeCartItems)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read cart: %w", err)
	}
	if prior == nil {
		return nil, nil, nil
	}

	items, err := models.DecodeCartItems(prior.Data)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode cart: %w", err)
	}

	return prior, items, nil
}

func (s *Service) wishlistState(ctx context.Context, userID string) (*models.SyncRecord, []models.WishlistItem, error) {
	prior, err := s.localRecord(ctx, userID, models.RecordTypeWishlistItems)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read wishlist: %w", err)
	}
	if prior == nil {
		return nil, nil, nil
	}

	items, err := models.DecodeWishlistItems(prior.Data)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode wishlist: %w", err)
	}

	return prior, items, nil
}

func (s *Service) swipeState(ctx context.Context, userID string) (*models.SyncRecord, []models.SwipeEvent, error) {
	prior, err := s.localRecord(ctx, userID, models.RecordTypeSwipeHistory)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read swipe history: %w", err)
	}
	if prior == nil {
		return nil, nil, nil
	}

	events, err := models.DecodeSwipeHistory(prior.Data)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode swipe history: %w", err)
	}

	return prior, events, nil
}

// nextRecord собирает новую версию доменной записи поверх прежней:
// версия растет, отметка времени и идентичность устройства свежие
func (s *Service) nextRecord(ctx context.Context, prior *models.SyncRecord, userID string, recordType models.RecordType, data json.RawMessage) *models.SyncRecord {
	ident := s.devices.Identity(ctx)

	var version int64 = 1
	if prior != nil {
		version = prior.Version + 1
	}

	return &models.SyncRecord{
		ID:        models.RecordID(recordType, userID),
		UserID:    userID,
		Type:      recordType,
		DeviceID:  ident.DeviceID,
		Platform:  ident.Platform,
		Data:      data,
		Timestamp: s.now().UnixMilli(),
		Version:   version,
	}
}

// saveAndQueue сохраняет запись локально, ставит ее в очередь отправки
// и подталкивает очередь при доступной сети. Сбой отправки не считается
// сбоем изменения: записи уйдут со следующим циклом
func (s *Service) saveAndQueue(ctx context.Context, record *models.SyncRecord) error {
	if err := s.syncService.SaveLocalRecord(ctx, record); err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}
	if err := s.syncService.QueueForSync(ctx, record); err != nil {
		return fmt.Errorf("failed to queue record: %w", err)
	}

	if s.syncService.IsOnline() {
		if err := s.syncService.ProcessSyncQueue(ctx, record.UserID); err != nil {
			s.logger.Warn("failed to push sync queue", "error", err)
		}
	}

	return nil
}

func (s *Service) mirrorCart(ctx context.Context, items []models.CartItem) {
	if err := s.offlineService.SetCartItems(ctx, items); err != nil {
		s.logger.Warn("failed to mirror cart to offline snapshot", "error", err)
	}
}

func (s *Service) mirrorWishlist(ctx context.Context, items []models.WishlistItem) {
	if err := s.offlineService.SetWishlistItems(ctx, items); err != nil {
		s.logger.Warn("failed to mirror wishlist to offline snapshot", "error", err)
	}
}
