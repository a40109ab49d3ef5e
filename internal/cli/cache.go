package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/swipemart/syncengine/internal/offline"
)

var (
	cacheMaxProducts int
	cacheMaxAge      time.Duration
	cacheImages      bool
	cacheCodec       string
	cacheClearYes    bool
)

// cacheConfigUpdate несет только явно переданные пользователем поля
type cacheConfigUpdate struct {
	maxProducts *int
	maxAge      *time.Duration
	images      *bool
	codec       *string
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Управление офлайн-кешем",
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Показать состояние офлайн-кеша",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return app.runCacheInfo(cmd.Context())
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Удалить офлайн-кеш",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return app.runCacheClear(cmd.Context(), cacheClearYes)
	},
}

var cacheConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Изменить настройки кеша",
	Long: `Новые настройки действуют со следующей записи кеша, уже
сохраненный снимок задним числом не пересобирается.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		update := cacheConfigUpdate{}
		if cmd.Flags().Changed("max-products") {
			update.maxProducts = &cacheMaxProducts
		}
		if cmd.Flags().Changed("max-age") {
			update.maxAge = &cacheMaxAge
		}
		if cmd.Flags().Changed("images") {
			update.images = &cacheImages
		}
		if cmd.Flags().Changed("codec") {
			update.codec = &cacheCodec
		}
		return app.runCacheConfig(cmd.Context(), update)
	},
}

func init() {
	cacheClearCmd.Flags().BoolVar(&cacheClearYes, "yes", false, "не спрашивать подтверждение")

	cacheConfigCmd.Flags().IntVar(&cacheMaxProducts, "max-products", 0, "предел товаров в снимке")
	cacheConfigCmd.Flags().DurationVar(&cacheMaxAge, "max-age", 0, "срок жизни снимка каталога")
	cacheConfigCmd.Flags().BoolVar(&cacheImages, "images", true, "вести индекс изображений")
	cacheConfigCmd.Flags().StringVar(&cacheCodec, "codec", "", "кодек сжатия (none, snappy, gzip)")

	cacheCmd.AddCommand(cacheInfoCmd, cacheClearCmd, cacheConfigCmd)
	rootCmd.AddCommand(cacheCmd)
}

func (c *Cli) runCacheInfo(ctx context.Context) error {
	info := c.offlineService.Info(ctx)
	cfg := c.offlineService.Config(ctx)

	c.io.Println("=== Офлайн-кеш ===")
	c.io.Printf("Товаров в снимке: %d\n", info.ProductCount)
	c.io.Printf("Размер на диске:  %d байт\n", info.SizeBytes)
	c.io.Printf("Каталог устарел:  %v\n", info.IsExpired)
	c.io.Println()
	c.io.Println("Настройки:")
	c.io.Printf("  Предел товаров:     %d\n", cfg.MaxProducts)
	c.io.Printf("  Срок жизни снимка:  %s\n", cfg.MaxCacheAge)
	c.io.Printf("  Индекс изображений: %v\n", cfg.EnableImageCaching)
	c.io.Printf("  Кодек сжатия:       %s\n", cfg.Compression)

	if urls := c.offlineService.CachedImageURLs(ctx); len(urls) > 0 {
		c.io.Printf("  Изображений в индексе: %d\n", len(urls))
	}

	return nil
}

func (c *Cli) runCacheClear(ctx context.Context, yes bool) error {
	if !yes {
		ok, err := c.confirm("Удалить офлайн-кеш?")
		if err != nil {
			return err
		}
		if !ok {
			c.io.Println("Отменено")
			return nil
		}
	}

	if err := c.offlineService.ClearCache(ctx); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	c.io.Println("Офлайн-кеш удален")

	return nil
}

func (c *Cli) runCacheConfig(ctx context.Context, update cacheConfigUpdate) error {
	cfg := c.offlineService.Config(ctx)

	if update.maxProducts != nil {
		cfg.MaxProducts = *update.maxProducts
	}
	if update.maxAge != nil {
		cfg.MaxCacheAge = *update.maxAge
	}
	if update.images != nil {
		cfg.EnableImageCaching = *update.images
	}
	if update.codec != nil {
		cfg.Compression = offline.Codec(*update.codec)
	}

	if !cfg.Compression.Valid() {
		return fmt.Errorf("unsupported cache codec %q", cfg.Compression)
	}

	if err := c.offlineService.UpdateConfig(ctx, cfg); err != nil {
		return fmt.Errorf("failed to update cache config: %w", err)
	}

	c.io.Println("Настройки кеша сохранены, действуют со следующей записи кеша")

	return nil
}
