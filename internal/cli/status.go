package cli

import (
	"context"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Показать состояние движка синхронизации",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return app.runStatus(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== SwipeMart Sync Engine ===")
	c.io.Println()

	ident := c.devices.Identity(ctx)
	c.io.Printf("Устройство:   %s (%s)\n", ident.DeviceID, ident.Platform)

	userID, err := c.resolveUser(ctx)
	if err != nil {
		c.io.Println("Пользователь: не задан, выполните 'syncengine login'")
	} else {
		c.io.Printf("Пользователь: %s\n", userID)
	}

	status := c.syncService.Status()

	network := color.New(color.FgGreen).Sprint("онлайн")
	if !status.Online {
		network = color.New(color.FgYellow).Sprint("офлайн")
	}
	c.io.Printf("Сеть:         %s\n", network)

	if status.Degraded {
		c.io.Printf("Состояние:    %s (%d неудачных циклов подряд)\n",
			color.New(color.FgRed).Sprint("деградация"), status.ConsecutiveFailures)
	} else {
		c.io.Printf("Состояние:    %s\n", color.New(color.FgGreen).Sprint("в норме"))
	}

	if status.LastResult != "" {
		c.io.Printf("Последний цикл: %s\n", string(status.LastResult))
	}
	if !status.LastSyncAt.IsZero() {
		c.io.Printf("Последняя успешная синхронизация: %s\n",
			status.LastSyncAt.Format("2006-01-02 15:04:05"))
	}

	c.io.Println()

	pending := c.queue.Len(ctx)
	if pending > 0 {
		c.io.Printf("⚠️  В очереди на отправку: %d запись(ей)\n", pending)
		c.io.Println("Выполните 'syncengine sync' для отправки.")
	} else {
		c.io.Println("✓ Очередь отправки пуста")
	}

	info := c.offlineService.Info(ctx)
	c.io.Println()
	c.io.Println("Офлайн-кеш:")
	c.io.Printf("  Товаров в снимке: %d\n", info.ProductCount)
	c.io.Printf("  Размер на диске:  %d байт\n", info.SizeBytes)
	if info.IsExpired {
		c.io.Printf("  Каталог:          %s\n", color.New(color.FgYellow).Sprint("устарел"))
	} else {
		c.io.Printf("  Каталог:          %s\n", color.New(color.FgGreen).Sprint("актуален"))
	}

	return nil
}
