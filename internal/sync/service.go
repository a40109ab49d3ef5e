package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	stdsync "sync"
	"sync/atomic"
	"time"

	"github.com/swipemart/syncengine/internal/device"
	"github.com/swipemart/syncengine/internal/models"
	"github.com/swipemart/syncengine/internal/remote"
	"github.com/swipemart/syncengine/internal/storage"
)

//go:generate moq -out service_mock.go . Service

// State состояние оркестратора синхронизации
type State string

// Состояния синхронизации. Терминальные состояния машина проходит
// транзитом и возвращается в Idle, итог последнего цикла остается
// виден в Status.LastResult.
const (
	StateIdle      State = "idle"
	StateSyncing   State = "syncing"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

// Service определяет интерфейс оркестратора синхронизации
type Service interface {
	// SyncUserData выполняет полный цикл синхронизации данных пользователя.
	// Никогда не возвращает ошибку: все сбои собираются в Result.Errors
	SyncUserData(ctx context.Context, userID string) *Result

	// QueueForSync добавляет запись в очередь отправки
	QueueForSync(ctx context.Context, record *models.SyncRecord) error

	// ProcessSyncQueue отправляет очередь на удаленную сторону.
	// В офлайне ничего не делает. Очередь очищается только если
	// отправились все записи
	ProcessSyncQueue(ctx context.Context, userID string) error

	// SetOnlineStatus сообщает движку о доступности сети
	SetOnlineStatus(online bool)

	// IsOnline возвращает текущий сетевой статус
	IsOnline() bool

	// Status возвращает снимок состояния оркестратора
	Status() Status

	// LocalRecords возвращает локальные записи пользователя
	LocalRecords(ctx context.Context, userID string) ([]*models.SyncRecord, error)

	// SaveLocalRecord сохраняет запись локально, заменяя прежнюю версию
	SaveLocalRecord(ctx context.Context, record *models.SyncRecord) error

	// LastSyncTime возвращает время последней успешной синхронизации
	// пользователя, нулевое время если синхронизаций еще не было
	LastSyncTime(ctx context.Context, userID string) (time.Time, error)
}

// Result итог одного цикла синхронизации
type Result struct {
	Errors    []string // Errors сообщения обо всех сбоях цикла
	Pushed    int      // Pushed количество отправленных записей
	Pulled    int      // Pulled количество полученных записей
	Merged    int      // Merged количество разрешенных конфликтов
	Conflicts int      // Conflicts количество обнаруженных конфликтов
	Success   bool     // Success true если цикл прошел без ошибок
}

// Status снимок состояния оркестратора
type Status struct {
	LastSyncAt          time.Time // LastSyncAt время последней успешной синхронизации процесса
	State               State     // State текущее положение машины: idle или syncing
	LastResult          State     // LastResult итог последнего цикла, пустой до первого цикла
	ConsecutiveFailures int       // ConsecutiveFailures число подряд неудачных циклов
	Online              bool      // Online текущий сетевой статус
	Degraded            bool      // Degraded признак деградации после серии неудач
}

// Config настройки оркестратора
type Config struct {
	// Now источник времени, по умолчанию time.Now
	Now func() time.Time

	// FailureThreshold число подряд неудачных циклов, после которого
	// оркестратор помечается деградировавшим. По умолчанию 3
	FailureThreshold int
}

// DefaultConfig возвращает настройки по умолчанию
func DefaultConfig() Config {
	return Config{
		Now:              time.Now,
		FailureThreshold: 3,
	}
}

// service handles synchronization between this device and the remote side
type service struct {
	store    storage.KVStore
	peer     remote.Peer
	queue    *Queue
	resolver *Resolver
	devices  *device.Manager
	logger   *slog.Logger
	now      func() time.Time

	failureThreshold int

	online atomic.Bool

	// recordsMu сериализует read-modify-write локальных записей
	recordsMu stdsync.Mutex

	mu                  stdsync.Mutex
	lastSyncAt          time.Time
	state               State
	lastResult          State
	consecutiveFailures int
	syncing             bool
	degraded            bool
}

// NewService creates a new sync orchestrator
func NewService(
	store storage.KVStore,
	peer remote.Peer,
	queue *Queue,
	resolver *Resolver,
	devices *device.Manager,
	logger *slog.Logger,
	cfg Config,
) Service {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = DefaultConfig().FailureThreshold
	}

	s := &service{
		store:            store,
		peer:             peer,
		queue:            queue,
		resolver:         resolver,
		devices:          devices,
		logger:           logger,
		now:              cfg.Now,
		failureThreshold: cfg.FailureThreshold,
		state:            StateIdle,
	}
	s.online.Store(true)

	return s
}

// SyncUserData performs a full synchronization cycle for the user
// 1. Reads local records
// 2. Fetches remote records
// 3. Detects and resolves conflicts
// 4. Persists the merged state locally
// 5. Pushes changed records to the remote side
func (s *service) SyncUserData(ctx context.Context, userID string) *Result {
	result := &Result{}

	if !s.IsOnline() {
		// Попытка в офлайне не считается неудачным циклом
		s.logger.Info("sync skipped, device is offline", "user_id", userID)
		result.Errors = append(result.Errors, "device is offline")
		return result
	}

	if !s.beginSync() {
		result.Errors = append(result.Errors, "sync already in progress")
		return result
	}

	s.logger.Info("starting synchronization", "user_id", userID)

	s.recordsMu.Lock()
	defer s.recordsMu.Unlock()

	// Снимок локального состояния до изменений - для отката при сбое отправки
	priorRaw, hadPrior := s.rawRecords(ctx, userID)
	local := s.decodeRecords(priorRaw)

	remoteRecords, err := s.peer.FetchRecords(ctx, userID)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("fetch records: %v", err))
		s.finish(result)
		return result
	}
	result.Pulled = len(remoteRecords)

	conflicts := DetectConflicts(local, remoteRecords)
	result.Conflicts = len(conflicts)

	identity := s.devices.Identity(ctx)

	// Разрешаем конфликты. Сбой разрешения одной записи не прерывает
	// остальные: запись пропускается и сохраняет локальную версию
	resolved := make(map[string]*models.SyncRecord, len(conflicts))
	for _, conflict := range conflicts {
		record, err := s.resolver.Resolve(conflict, identity)
		if err != nil {
			s.logger.Warn("failed to resolve conflict",
				"record_id", conflict.Local.ID,
				"conflict_type", conflict.Type,
				"error", err)
			result.Errors = append(result.Errors, fmt.Sprintf("resolve %s: %v", conflict.Local.ID, err))
			continue
		}

		s.logger.Debug("conflict resolved",
			"record_id", record.ID,
			"conflict_type", conflict.Type,
			"strategy", s.resolver.CurrentStrategy())

		resolved[record.ID] = record
		result.Merged++
	}

	mergedState, toPush := mergeStates(local, remoteRecords, resolved)
	result.Pushed = len(toPush)

	// Сохраняем новое локальное состояние
	if err := s.writeRecords(ctx, userID, mergedState); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("persist records: %v", err))
		s.finish(result)
		return result
	}

	// Отправляем изменения удаленной стороне
	if len(toPush) > 0 {
		if err := s.peer.PushRecords(ctx, toPush); err != nil {
			// Возвращаем локальное состояние к снимку до синхронизации,
			// чтобы неотправленное разрешение не осело локально
			if rbErr := s.rollbackRecords(ctx, userID, priorRaw, hadPrior); rbErr != nil {
				s.logger.Error("rollback after push failure failed", "error", rbErr)
				result.Errors = append(result.Errors, fmt.Sprintf("rollback: %v", rbErr))
			}
			result.Errors = append(result.Errors, fmt.Sprintf("push records: %v", err))
			s.finish(result)
			return result
		}
	}

	// Запоминаем момент успешной синхронизации
	syncedAt := s.now()
	millis := strconv.FormatInt(syncedAt.UnixMilli(), 10)
	if err := s.store.Set(ctx, storage.LastSyncKey(userID), []byte(millis)); err != nil {
		// Не прерываем цикл из-за ошибки сохранения отметки времени
		s.logger.Warn("failed to save last sync timestamp", "error", err)
	}

	s.finish(result)

	s.logger.Info("synchronization completed",
		"user_id", userID,
		"pushed", result.Pushed,
		"pulled", result.Pulled,
		"conflicts", result.Conflicts,
		"merged", result.Merged,
		"success", result.Success)

	return result
}

// QueueForSync добавляет запись в очередь отправки
func (s *service) QueueForSync(ctx context.Context, record *models.SyncRecord) error {
	return s.queue.Enqueue(ctx, record)
}

// ProcessSyncQueue отправляет накопленную очередь на удаленную сторону.
// Очередь очищается только после успешной отправки всех записей:
// при частичном сбое она остается нетронутой и будет отправлена заново.
func (s *service) ProcessSyncQueue(ctx context.Context, userID string) error {
	if !s.IsOnline() {
		s.logger.Debug("skipping queue drain, device is offline", "user_id", userID)
		return nil
	}

	entries := s.queue.Entries(ctx)
	if len(entries) == 0 {
		return nil
	}

	s.logger.Info("draining sync queue", "user_id", userID, "count", len(entries))

	// Отправляем в порядке добавления, по одной записи за вызов
	for _, record := range entries {
		if err := s.peer.PushRecords(ctx, []*models.SyncRecord{record}); err != nil {
			return fmt.Errorf("failed to push queued record %s: %w", record.ID, err)
		}
	}

	if err := s.queue.Clear(ctx); err != nil {
		return err
	}

	s.logger.Info("sync queue drained", "count", len(entries))
	return nil
}

// SetOnlineStatus сообщает движку о доступности сети
func (s *service) SetOnlineStatus(online bool) {
	was := s.online.Swap(online)
	if was != online {
		s.logger.Info("online status changed", "online", online)
	}
}

// IsOnline возвращает текущий сетевой статус
func (s *service) IsOnline() bool {
	return s.online.Load()
}

// Status возвращает снимок состояния оркестратора
func (s *service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Status{
		LastSyncAt:          s.lastSyncAt,
		State:               s.state,
		LastResult:          s.lastResult,
		ConsecutiveFailures: s.consecutiveFailures,
		Online:              s.online.Load(),
		Degraded:            s.degraded,
	}
}

// LocalRecords возвращает локальные записи пользователя
func (s *service) LocalRecords(ctx context.Context, userID string) ([]*models.SyncRecord, error) {
	s.recordsMu.Lock()
	defer s.recordsMu.Unlock()

	data, err := s.store.Get(ctx, storage.SyncRecordsKey(userID))
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read local records: %w", err)
	}

	var records []*models.SyncRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("corrupt local records: %w", err)
	}

	return records, nil
}

// SaveLocalRecord сохраняет запись локально, заменяя прежнюю версию той же
// записи. Записи неизвестного типа отклоняются.
func (s *service) SaveLocalRecord(ctx context.Context, record *models.SyncRecord) error {
	if !record.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownRecordType, record.Type)
	}

	s.recordsMu.Lock()
	defer s.recordsMu.Unlock()

	raw, _ := s.rawRecords(ctx, record.UserID)
	records := s.decodeRecords(raw)

	replaced := false
	for i, existing := range records {
		if existing.ID == record.ID {
			records[i] = record.Clone()
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, record.Clone())
	}

	return s.writeRecords(ctx, record.UserID, records)
}

// LastSyncTime возвращает время последней успешной синхронизации пользователя
func (s *service) LastSyncTime(ctx context.Context, userID string) (time.Time, error) {
	data, err := s.store.Get(ctx, storage.LastSyncKey(userID))
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("failed to read last sync timestamp: %w", err)
	}

	millis, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("corrupt last sync timestamp: %w", err)
	}

	return time.UnixMilli(millis), nil
}

// beginSync занимает слот синхронизации. Возвращает false, если цикл
// уже выполняется.
func (s *service) beginSync() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.syncing {
		return false
	}

	s.syncing = true
	s.state = StateSyncing
	return true
}

// finish завершает цикл: выставляет Success, фиксирует итог, возвращает
// машину в Idle и ведет счетчик подряд идущих неудач. Серия неудач длиной
// failureThreshold переводит оркестратор в деградацию, любой успех
// снимает ее.
func (s *service) finish(result *Result) {
	result.Success = len(result.Errors) == 0

	s.mu.Lock()
	defer s.mu.Unlock()

	s.syncing = false
	s.state = StateIdle

	if result.Success {
		s.lastResult = StateSucceeded
		s.lastSyncAt = s.now()
		s.consecutiveFailures = 0
		s.degraded = false
		return
	}

	s.lastResult = StateFailed
	s.consecutiveFailures++
	if s.consecutiveFailures >= s.failureThreshold && !s.degraded {
		s.degraded = true
		s.logger.Error("sync repeatedly failing, marking degraded",
			"consecutive_failures", s.consecutiveFailures)
	}
}

// rawRecords читает сериализованные локальные записи. Сбой чтения
// деградирует до пустого состояния.
func (s *service) rawRecords(ctx context.Context, userID string) ([]byte, bool) {
	data, err := s.store.Get(ctx, storage.SyncRecordsKey(userID))
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			s.logger.Warn("failed to read local records, treating as empty", "error", err)
		}
		return nil, false
	}
	return data, true
}

// decodeRecords разбирает сериализованные записи. Поврежденное значение
// деградирует до пустого состояния и лечится следующей записью.
func (s *service) decodeRecords(data []byte) []*models.SyncRecord {
	if len(data) == 0 {
		return nil
	}

	var records []*models.SyncRecord
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("corrupt local records, treating as empty", "error", err)
		return nil
	}

	return records
}

// writeRecords сохраняет записи пользователя под одним ключом,
// отсортированными по ID для стабильности хранимого значения
func (s *service) writeRecords(ctx context.Context, userID string, records []*models.SyncRecord) error {
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}

	if err := s.store.Set(ctx, storage.SyncRecordsKey(userID), data); err != nil {
		return fmt.Errorf("failed to persist records: %w", err)
	}

	return nil
}

// rollbackRecords восстанавливает снимок записей, сделанный до начала цикла
func (s *service) rollbackRecords(ctx context.Context, userID string, prior []byte, hadPrior bool) error {
	if !hadPrior {
		return s.store.Delete(ctx, storage.SyncRecordsKey(userID))
	}
	return s.store.Set(ctx, storage.SyncRecordsKey(userID), prior)
}

// mergeStates строит новое локальное состояние и набор записей для отправки.
// Разрешенные конфликты заменяют обе исходные версии и отправляются.
// Только локальные записи отправляются как есть, только удаленные
// принимаются локально, эквивалентные пары не трогаются.
func mergeStates(local, remoteRecords []*models.SyncRecord, resolved map[string]*models.SyncRecord) (newLocal, toPush []*models.SyncRecord) {
	remoteByID := make(map[string]*models.SyncRecord, len(remoteRecords))
	for _, r := range remoteRecords {
		remoteByID[r.ID] = r
	}

	localByID := make(map[string]*models.SyncRecord, len(local))

	for _, l := range local {
		localByID[l.ID] = l

		if record, ok := resolved[l.ID]; ok {
			newLocal = append(newLocal, record)
			toPush = append(toPush, record)
			continue
		}

		if _, ok := remoteByID[l.ID]; !ok {
			// Запись существует только локально - отправляем
			newLocal = append(newLocal, l)
			toPush = append(toPush, l)
			continue
		}

		// Эквивалентная пара либо неразрешенный конфликт - оставляем локальную
		newLocal = append(newLocal, l)
	}

	// Принимаем записи, существующие только удаленно
	for _, r := range remoteRecords {
		if _, ok := localByID[r.ID]; !ok {
			newLocal = append(newLocal, r.Clone())
		}
	}

	return newLocal, toPush
}
