package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/swipemart/syncengine/internal/models"
)

var (
	cartQty      int
	cartPrice    float64
	cartClearYes bool
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Управление корзиной",
}

var cartAddCmd = &cobra.Command{
	Use:   "add <product-id>",
	Short: "Добавить товар в корзину",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.runCartAdd(cmd.Context(), args[0], cartQty, cartPrice)
	},
}

var cartListCmd = &cobra.Command{
	Use:   "list",
	Short: "Показать корзину",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return app.runCartList(cmd.Context())
	},
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove <product-id>",
	Short: "Убрать товар из корзины",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.runCartRemove(cmd.Context(), args[0])
	},
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Очистить корзину",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return app.runCartClear(cmd.Context(), cartClearYes)
	},
}

func init() {
	cartAddCmd.Flags().IntVar(&cartQty, "qty", 1, "количество единиц")
	cartAddCmd.Flags().Float64Var(&cartPrice, "price", 0, "цена за единицу")
	cartClearCmd.Flags().BoolVar(&cartClearYes, "yes", false, "не спрашивать подтверждение")

	cartCmd.AddCommand(cartAddCmd, cartListCmd, cartRemoveCmd, cartClearCmd)
	rootCmd.AddCommand(cartCmd)
}

func (c *Cli) runCartAdd(ctx context.Context, productID string, qty int, price float64) error {
	userID, err := c.resolveUser(ctx)
	if err != nil {
		return err
	}
	if qty <= 0 {
		return fmt.Errorf("quantity must be positive")
	}

	item := models.CartItem{
		ProductID: productID,
		Quantity:  qty,
		Price:     price,
		AddedAt:   time.Now().UnixMilli(),
	}
	if err := c.dataService.AddCartItem(ctx, userID, item); err != nil {
		return fmt.Errorf("failed to add to cart: %w", err)
	}

	c.io.Printf("✅ Товар %s добавлен в корзину (x%d)\n", productID, qty)

	return nil
}

func (c *Cli) runCartList(ctx context.Context) error {
	userID, err := c.resolveUser(ctx)
	if err != nil {
		return err
	}

	items := c.dataService.Cart(ctx, userID)
	if len(items) == 0 {
		c.io.Println("Корзина пуста")
		return nil
	}

	w := tabwriter.NewWriter(c.io, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Товар\tКол-во\tЦена\tДобавлен\t\n")
	for _, item := range items {
		fmt.Fprintf(w, "%s\t%d\t%.2f\t%s\t\n",
			item.ProductID, item.Quantity, item.Price, formatMillis(item.AddedAt))
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}

	c.io.Printf("\nВсего позиций: %d\n", len(items))

	return nil
}

func (c *Cli) runCartRemove(ctx context.Context, productID string) error {
	userID, err := c.resolveUser(ctx)
	if err != nil {
		return err
	}

	if err := c.dataService.RemoveCartItem(ctx, userID, productID); err != nil {
		return fmt.Errorf("failed to remove from cart: %w", err)
	}

	c.io.Printf("Товар %s убран из корзины\n", productID)

	return nil
}

func (c *Cli) runCartClear(ctx context.Context, yes bool) error {
	userID, err := c.resolveUser(ctx)
	if err != nil {
		return err
	}

	if !yes {
		ok, err := c.confirm("Очистить корзину?")
		if err != nil {
			return err
		}
		if !ok {
			c.io.Println("Отменено")
			return nil
		}
	}

	if err := c.dataService.ClearCart(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	c.io.Println("Корзина очищена")

	return nil
}
