package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	stdsync "sync"

	"github.com/swipemart/syncengine/internal/models"
	"github.com/swipemart/syncengine/internal/storage"
)

// Queue очередь записей, ожидающих отправки на удаленную сторону.
// Хранится целиком под одним ключом стора в порядке добавления.
// Записи покидают очередь только через Clear после успешной отправки
// всей очереди: при любом сбое очередь остается нетронутой и будет
// отправлена заново.
type Queue struct {
	store  storage.KVStore
	logger *slog.Logger
	mu     stdsync.Mutex
}

// NewQueue creates a new persistent sync queue
func NewQueue(store storage.KVStore, logger *slog.Logger) *Queue {
	return &Queue{
		store:  store,
		logger: logger,
	}
}

// Enqueue добавляет запись в хвост очереди.
// Записи неизвестного типа отклоняются.
func (q *Queue) Enqueue(ctx context.Context, record *models.SyncRecord) error {
	if !record.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownRecordType, record.Type)
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	entries := q.load(ctx)
	entries = append(entries, record.Clone())

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal queue: %w", err)
	}

	if err := q.store.Set(ctx, storage.KeySyncQueue, data); err != nil {
		return fmt.Errorf("failed to persist queue: %w", err)
	}

	q.logger.Debug("queued record for sync", "record_id", record.ID, "queue_len", len(entries))
	return nil
}

// Entries возвращает записи очереди в порядке добавления.
// Отсутствующая или поврежденная очередь трактуется как пустая.
func (q *Queue) Entries(ctx context.Context) []*models.SyncRecord {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.load(ctx)
}

// Clear удаляет очередь целиком. Вызывается только после того, как
// все записи очереди успешно отправлены.
func (q *Queue) Clear(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.store.Delete(ctx, storage.KeySyncQueue); err != nil {
		return fmt.Errorf("failed to clear queue: %w", err)
	}
	return nil
}

// Len возвращает текущую длину очереди.
func (q *Queue) Len(ctx context.Context) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.load(ctx))
}

// load читает очередь из стора. Любой сбой чтения деградирует до пустой
// очереди: очередь лечится следующей записью.
func (q *Queue) load(ctx context.Context) []*models.SyncRecord {
	data, err := q.store.Get(ctx, storage.KeySyncQueue)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			q.logger.Warn("failed to read sync queue, treating as empty", "error", err)
		}
		return nil
	}

	var entries []*models.SyncRecord
	if err := json.Unmarshal(data, &entries); err != nil {
		q.logger.Warn("corrupt sync queue, treating as empty", "error", err)
		return nil
	}

	return entries
}
