package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/swipemart/syncengine/internal/config"
	"github.com/swipemart/syncengine/internal/data"
	"github.com/swipemart/syncengine/internal/device"
	"github.com/swipemart/syncengine/internal/iocli"
	"github.com/swipemart/syncengine/internal/offline"
	"github.com/swipemart/syncengine/internal/remote"
	"github.com/swipemart/syncengine/internal/storage"
	"github.com/swipemart/syncengine/internal/storage/boltdb"
	"github.com/swipemart/syncengine/internal/storage/sqlitekv"
	"github.com/swipemart/syncengine/internal/sync"
)

var (
	app *Cli

	flagServerURL string
	flagDBPath    string
	flagDriver    string
	flagUserID    string
	flagLogLevel  string
	flagOffline   bool
)

var rootCmd = &cobra.Command{
	Use:   "syncengine",
	Short: "SwipeMart Sync Engine - клиент синхронизации и офлайн-кеша",
	Long: `Клиент движка синхронизации SwipeMart.

Хранит данные пользователя локально, работает без сети и синхронизирует
корзину, список желаний, настройки и историю свайпов с удаленной
стороной при появлении соединения.`,
	PersistentPreRunE: setupApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// Execute запускает разбор командной строки. Локальный стор закрывается
// после выполнения команды.
func Execute() {
	err := rootCmd.Execute()
	closeApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	// Команде version рабочее окружение не нужно
	if cmd.Name() == "version" {
		return nil
	}

	cfg, err := config.LoadClient()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Флаги командной строки важнее переменных окружения
	if flagServerURL != "" {
		cfg.ServerURL = flagServerURL
	}
	if flagDBPath != "" {
		cfg.DBPath = flagDBPath
	}
	if flagDriver != "" {
		cfg.DBDriver = flagDriver
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if flagUserID != "" {
		cfg.UserID = flagUserID
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}

	app, err = buildApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	if flagOffline {
		app.syncService.SetOnlineStatus(false)
	}

	return nil
}

func buildApp(ctx context.Context, cfg *config.ClientConfig) (*Cli, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: config.ParseLogLevel(cfg.LogLevel),
	}))

	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	devices := device.NewManager(store, logger)
	peer := remote.NewHTTPPeer(cfg.ServerURL, remote.NewStoreTokenSource(store))
	queue := sync.NewQueue(store, logger)

	// Клиент поставляется со стратегией пер-типового слияния,
	// latest_wins доступен через 'sync --strategy'
	resolver := sync.NewResolver()
	if err := resolver.SetStrategy(sync.StrategyMerge); err != nil {
		return nil, fmt.Errorf("failed to set default strategy: %w", err)
	}

	syncService := sync.NewService(store, peer, queue, resolver, devices, logger, sync.DefaultConfig())
	offlineService := offline.NewService(store, logger, offline.WithDefaults(cfg.Cache))
	dataService := data.NewService(syncService, offlineService, devices, logger)

	return New(Deps{
		IO:             iocli.NewStdio(),
		Config:         cfg,
		Store:          store,
		Peer:           peer,
		Devices:        devices,
		Queue:          queue,
		Resolver:       resolver,
		SyncService:    syncService,
		DataService:    dataService,
		OfflineService: offlineService,
		Logger:         logger,
	}), nil
}

func openStore(ctx context.Context, cfg *config.ClientConfig) (storage.KVStore, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		return sqlitekv.New(ctx, cfg.DBPath)
	default:
		return boltdb.New(ctx, cfg.DBPath)
	}
}

func closeApp() {
	if app == nil {
		return
	}
	if err := app.store.Close(); err != nil {
		slog.Error("failed to close database", "error", err)
	}
	app = nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagServerURL, "server", "", "адрес удаленной стороны")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "путь к файлу локального стора")
	rootCmd.PersistentFlags().StringVar(&flagDriver, "driver", "", "драйвер локального стора (bolt, sqlite)")
	rootCmd.PersistentFlags().StringVar(&flagUserID, "user", "", "идентификатор пользователя")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "уровень логирования (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&flagOffline, "offline", false, "работать без сети, только локальные изменения")
}
