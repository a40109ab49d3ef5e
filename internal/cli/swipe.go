package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/swipemart/syncengine/internal/models"
)

var swipeCmd = &cobra.Command{
	Use:   "swipe <product-id> <action>",
	Short: "Записать свайп по карточке товара",
	Long:  "Действия: like, dislike, skip.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.runSwipe(cmd.Context(), args[0], args[1])
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Показать историю свайпов",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return app.runHistory(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(swipeCmd)
	rootCmd.AddCommand(historyCmd)
}

func (c *Cli) runSwipe(ctx context.Context, productID, action string) error {
	userID, err := c.resolveUser(ctx)
	if err != nil {
		return err
	}

	act := models.SwipeAction(action)
	switch act {
	case models.SwipeLike, models.SwipeDislike, models.SwipeSkip:
	default:
		return fmt.Errorf("unknown swipe action %q, expected like, dislike or skip", action)
	}

	event := models.SwipeEvent{
		ProductID: productID,
		Action:    act,
		Timestamp: time.Now().UnixMilli(),
	}
	if err := c.dataService.RecordSwipe(ctx, userID, event); err != nil {
		return fmt.Errorf("failed to record swipe: %w", err)
	}

	c.io.Printf("Свайп записан: %s %s\n", action, productID)

	return nil
}

func (c *Cli) runHistory(ctx context.Context) error {
	userID, err := c.resolveUser(ctx)
	if err != nil {
		return err
	}

	events := c.dataService.SwipeHistory(ctx, userID)
	if len(events) == 0 {
		c.io.Println("История свайпов пуста")
		return nil
	}

	w := tabwriter.NewWriter(c.io, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Товар\tДействие\tВремя\t\n")
	for _, event := range events {
		fmt.Fprintf(w, "%s\t%s\t%s\t\n",
			event.ProductID, event.Action, formatMillis(event.Timestamp))
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}

	c.io.Printf("\nВсего событий: %d\n", len(events))

	return nil
}
