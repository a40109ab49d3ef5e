package sync

import (
	"fmt"
	stdsync "sync"
	"time"

	"github.com/swipemart/syncengine/internal/device"
	"github.com/swipemart/syncengine/internal/models"
)

// Strategy политика разрешения конфликтов
type Strategy string

// Поддерживаемые стратегии
const (
	// StrategyLatestWins конфликт выигрывает более новая версия целиком
	StrategyLatestWins Strategy = "latest_wins"

	// StrategyMerge содержимое обеих версий объединяется пер-типовым слиянием;
	// для типов без функции слияния действует latest_wins
	StrategyMerge Strategy = "merge"
)

// Valid сообщает, поддерживается ли стратегия.
func (s Strategy) Valid() bool {
	return s == StrategyLatestWins || s == StrategyMerge
}

// Resolver разрешает конфликты между версиями записей. Активная стратегия
// переключается на лету через SetStrategy, разрешенная запись всегда
// получает свежий Timestamp, версию max(обеих)+1 и идентичность
// разрешившего устройства - результат побеждает обе исходные версии
// при любом последующем сравнении.
type Resolver struct {
	mergeFns map[models.RecordType]MergeFunc
	now      func() time.Time

	mu       stdsync.RWMutex
	strategy Strategy
}

// ResolverOption настраивает Resolver при создании
type ResolverOption func(*Resolver)

// WithStrategy задает начальную стратегию разрешения
func WithStrategy(s Strategy) ResolverOption {
	return func(r *Resolver) {
		r.strategy = s
	}
}

// WithClock подменяет источник времени (для тестов)
func WithClock(now func() time.Time) ResolverOption {
	return func(r *Resolver) {
		r.now = now
	}
}

// NewResolver creates a new conflict resolver
// Default strategy is latest_wins
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		mergeFns: defaultMergeFuncs(),
		now:      time.Now,
		strategy: StrategyLatestWins,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// SetStrategy переключает активную стратегию. Действует начиная со
// следующего вызова Resolve. Неизвестная стратегия отклоняется.
func (r *Resolver) SetStrategy(s Strategy) error {
	if !s.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategy = s
	return nil
}

// CurrentStrategy возвращает активную стратегию.
func (r *Resolver) CurrentStrategy() Strategy {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.strategy
}

// Resolve разрешает один конфликт согласно активной стратегии.
// resolvedBy - идентичность устройства, выполняющего разрешение:
// она штампуется на итоговой записи.
func (r *Resolver) Resolve(conflict *models.Conflict, resolvedBy device.Identity) (*models.SyncRecord, error) {
	resolved, err := r.resolvePayload(conflict)
	if err != nil {
		return nil, err
	}

	// Штампуем свежую версию: результат разрешения новее обеих исходных
	resolved.Timestamp = r.now().UnixMilli()
	resolved.Version = maxVersion(conflict.Local, conflict.Remote) + 1
	resolved.DeviceID = resolvedBy.DeviceID
	resolved.Platform = resolvedBy.Platform

	return resolved, nil
}

// resolvePayload выбирает или строит содержимое разрешенной записи
func (r *Resolver) resolvePayload(conflict *models.Conflict) (*models.SyncRecord, error) {
	strategy := r.CurrentStrategy()

	switch strategy {
	case StrategyLatestWins:
		return latestOf(conflict).Clone(), nil

	case StrategyMerge:
		mergeFn, ok := r.mergeFns[conflict.Local.Type]
		if !ok {
			// Для типа нет слияния - откатываемся на latest_wins
			return latestOf(conflict).Clone(), nil
		}

		merged, err := mergeFn(conflict.Local, conflict.Remote)
		if err != nil {
			return nil, fmt.Errorf("merge failed for %s: %w", conflict.Local.ID, err)
		}
		return merged, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}

// latestOf возвращает более новую сторону конфликта
func latestOf(conflict *models.Conflict) *models.SyncRecord {
	if conflict.Local.IsNewerThan(conflict.Remote) {
		return conflict.Local
	}
	return conflict.Remote
}

func maxVersion(local, remote *models.SyncRecord) int64 {
	if local.Version > remote.Version {
		return local.Version
	}
	return remote.Version
}
