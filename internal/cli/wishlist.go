package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/swipemart/syncengine/internal/models"
)

var wishlistCmd = &cobra.Command{
	Use:   "wishlist",
	Short: "Управление списком желаний",
}

var wishlistAddCmd = &cobra.Command{
	Use:   "add <product-id>",
	Short: "Добавить товар в список желаний",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.runWishlistAdd(cmd.Context(), args[0])
	},
}

var wishlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "Показать список желаний",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return app.runWishlistList(cmd.Context())
	},
}

var wishlistRemoveCmd = &cobra.Command{
	Use:   "remove <product-id>",
	Short: "Убрать товар из списка желаний",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.runWishlistRemove(cmd.Context(), args[0])
	},
}

func init() {
	wishlistCmd.AddCommand(wishlistAddCmd, wishlistListCmd, wishlistRemoveCmd)
	rootCmd.AddCommand(wishlistCmd)
}

func (c *Cli) runWishlistAdd(ctx context.Context, productID string) error {
	userID, err := c.resolveUser(ctx)
	if err != nil {
		return err
	}

	item := models.WishlistItem{
		ProductID: productID,
		AddedAt:   time.Now().UnixMilli(),
	}
	if err := c.dataService.AddWishlistItem(ctx, userID, item); err != nil {
		return fmt.Errorf("failed to add to wishlist: %w", err)
	}

	c.io.Printf("✅ Товар %s добавлен в список желаний\n", productID)

	return nil
}

func (c *Cli) runWishlistList(ctx context.Context) error {
	userID, err := c.resolveUser(ctx)
	if err != nil {
		return err
	}

	items := c.dataService.Wishlist(ctx, userID)
	if len(items) == 0 {
		c.io.Println("Список желаний пуст")
		return nil
	}

	w := tabwriter.NewWriter(c.io, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Товар\tДобавлен\t\n")
	for _, item := range items {
		fmt.Fprintf(w, "%s\t%s\t\n", item.ProductID, formatMillis(item.AddedAt))
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}

	c.io.Printf("\nВсего позиций: %d\n", len(items))

	return nil
}

func (c *Cli) runWishlistRemove(ctx context.Context, productID string) error {
	userID, err := c.resolveUser(ctx)
	if err != nil {
		return err
	}

	if err := c.dataService.RemoveWishlistItem(ctx, userID, productID); err != nil {
		return fmt.Errorf("failed to remove from wishlist: %w", err)
	}

	c.io.Printf("Товар %s убран из списка желаний\n", productID)

	return nil
}
