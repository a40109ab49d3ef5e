// Package cli содержит консольный интерфейс клиента синхронизации.
// Команды построены на cobra, логика каждой команды вынесена в метод
// Cli и тестируется напрямую через моки сервисов.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/swipemart/syncengine/internal/config"
	"github.com/swipemart/syncengine/internal/data"
	"github.com/swipemart/syncengine/internal/device"
	"github.com/swipemart/syncengine/internal/iocli"
	"github.com/swipemart/syncengine/internal/offline"
	"github.com/swipemart/syncengine/internal/remote"
	"github.com/swipemart/syncengine/internal/storage"
	"github.com/swipemart/syncengine/internal/sync"
)

// Cli связывает команды консоли с сервисами движка
type Cli struct {
	io             iocli.IO
	cfg            *config.ClientConfig
	store          storage.KVStore
	peer           *remote.HTTPPeer
	devices        *device.Manager
	queue          *sync.Queue
	resolver       *sync.Resolver
	syncService    sync.Service
	dataService    *data.Service
	offlineService *offline.Service
	logger         *slog.Logger
}

// Deps зависимости консольного интерфейса
type Deps struct {
	IO             iocli.IO
	Config         *config.ClientConfig
	Store          storage.KVStore
	Peer           *remote.HTTPPeer
	Devices        *device.Manager
	Queue          *sync.Queue
	Resolver       *sync.Resolver
	SyncService    sync.Service
	DataService    *data.Service
	OfflineService *offline.Service
	Logger         *slog.Logger
}

func New(deps Deps) *Cli {
	return &Cli{
		io:             deps.IO,
		cfg:            deps.Config,
		store:          deps.Store,
		peer:           deps.Peer,
		devices:        deps.Devices,
		queue:          deps.Queue,
		resolver:       deps.Resolver,
		syncService:    deps.SyncService,
		dataService:    deps.DataService,
		offlineService: deps.OfflineService,
		logger:         deps.Logger,
	}
}

// resolveUser возвращает идентификатор пользователя: из конфигурации
// либо сохраненный при последнем логине
func (c *Cli) resolveUser(ctx context.Context) (string, error) {
	if c.cfg.UserID != "" {
		return c.cfg.UserID, nil
	}

	data, err := c.store.Get(ctx, storage.KeyUserID)
	if err == nil && len(data) > 0 {
		return string(data), nil
	}

	return "", fmt.Errorf("user is not set: run 'syncengine login' first or pass --user")
}

// confirm спрашивает подтверждение, по умолчанию ответ отрицательный
func (c *Cli) confirm(prompt string) (bool, error) {
	answer, err := c.io.ReadInput(prompt + " [y/N]: ")
	if err != nil {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}

	switch strings.ToLower(answer) {
	case "y", "yes", "д", "да":
		return true, nil
	}

	return false, nil
}

// formatMillis печатает Unix миллисекунды в человекочитаемом виде
func formatMillis(ms int64) string {
	if ms == 0 {
		return "-"
	}
	return time.UnixMilli(ms).Format("2006-01-02 15:04:05")
}
