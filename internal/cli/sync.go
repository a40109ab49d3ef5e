package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/swipemart/syncengine/internal/sync"
)

var flagStrategy string

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Синхронизировать данные с удаленной стороной",
	Long: `Полный цикл синхронизации: отправка локальных изменений, получение
удаленных, разрешение конфликтов и сохранение результата.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return app.runSync(cmd.Context(), flagStrategy)
	},
}

func init() {
	syncCmd.Flags().StringVar(&flagStrategy, "strategy", "", "стратегия разрешения конфликтов (latest_wins, merge)")
	rootCmd.AddCommand(syncCmd)
}

func (c *Cli) runSync(ctx context.Context, strategy string) error {
	userID, err := c.resolveUser(ctx)
	if err != nil {
		return err
	}

	if strategy != "" {
		if err := c.resolver.SetStrategy(sync.Strategy(strategy)); err != nil {
			return fmt.Errorf("failed to set strategy: %w", err)
		}
	}

	c.io.Println("Синхронизация с удаленной стороной...")

	result := c.syncService.SyncUserData(ctx, userID)

	c.io.Printf("Отправлено записей:  %d\n", result.Pushed)
	c.io.Printf("Получено записей:    %d\n", result.Pulled)
	c.io.Printf("Конфликтов найдено:  %d\n", result.Conflicts)
	c.io.Printf("Конфликтов решено:   %d\n", result.Merged)

	if !result.Success {
		c.io.Println()
		for _, msg := range result.Errors {
			c.io.Printf("  • %s\n", msg)
		}
		return fmt.Errorf("synchronization finished with %d error(s)", len(result.Errors))
	}

	c.io.Println("✅ Синхронизация завершена")

	return nil
}
