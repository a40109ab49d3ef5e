package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/swipemart/syncengine/internal/models"
)

var productsFile string

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Офлайн-каталог товаров",
}

var productsCacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Закешировать каталог из JSON файла",
	Long:  "Принимает JSON массив карточек товаров из файла либо из stdin.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return app.runProductsCache(cmd.Context(), productsFile)
	},
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Показать закешированный каталог",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return app.runProductsList(cmd.Context())
	},
}

func init() {
	productsCacheCmd.Flags().StringVarP(&productsFile, "file", "f", "", "путь к JSON файлу каталога, '-' для stdin")

	productsCmd.AddCommand(productsCacheCmd, productsListCmd)
	rootCmd.AddCommand(productsCmd)
}

func (c *Cli) runProductsCache(ctx context.Context, path string) error {
	var reader io.Reader
	if path == "" || path == "-" {
		reader = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open products file: %w", err)
		}
		defer func() {
			_ = f.Close()
		}()
		reader = f
	}

	var products []models.ProductSummary
	if err := json.NewDecoder(reader).Decode(&products); err != nil {
		return fmt.Errorf("failed to decode products: %w", err)
	}

	if err := c.offlineService.CacheProducts(ctx, products); err != nil {
		return fmt.Errorf("failed to cache products: %w", err)
	}

	// Снимок мог обрезать каталог до предела из настроек
	c.io.Printf("Закешировано товаров: %d\n", c.offlineService.Info(ctx).ProductCount)

	return nil
}

func (c *Cli) runProductsList(ctx context.Context) error {
	products := c.offlineService.CachedProducts(ctx)
	if len(products) == 0 {
		c.io.Println("Каталог пуст или устарел, выполните 'syncengine products cache'")
		return nil
	}

	w := tabwriter.NewWriter(c.io, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tНазвание\tКатегория\tЦена\tНаличие\t\n")
	for _, p := range products {
		inStock := "да"
		if !p.InStock {
			inStock = "нет"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f %s\t%s\t\n",
			p.ID, p.Name, p.Category, p.Price, p.Currency, inStock)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}

	c.io.Printf("\nВсего товаров: %d\n", len(products))

	return nil
}
