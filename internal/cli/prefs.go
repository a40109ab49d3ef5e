package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Настройки пользователя",
}

var prefsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Сохранить настройку",
	Long:  "Значение принимается как JSON, не-JSON значения сохраняются как строки.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.runPrefsSet(cmd.Context(), args[0], args[1])
	},
}

var prefsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Показать настройки",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return app.runPrefsList(cmd.Context())
	},
}

func init() {
	prefsCmd.AddCommand(prefsSetCmd, prefsListCmd)
	rootCmd.AddCommand(prefsCmd)
}

func (c *Cli) runPrefsSet(ctx context.Context, key, raw string) error {
	userID, err := c.resolveUser(ctx)
	if err != nil {
		return err
	}

	value := json.RawMessage(raw)
	if !json.Valid(value) {
		// Не-JSON значение трактуется как строковый литерал
		quoted, err := json.Marshal(raw)
		if err != nil {
			return fmt.Errorf("failed to encode value: %w", err)
		}
		value = quoted
	}

	if err := c.dataService.SetPreference(ctx, userID, key, value); err != nil {
		return fmt.Errorf("failed to save preference: %w", err)
	}

	c.io.Printf("Настройка %s сохранена\n", key)

	return nil
}

func (c *Cli) runPrefsList(ctx context.Context) error {
	userID, err := c.resolveUser(ctx)
	if err != nil {
		return err
	}

	prefs := c.dataService.Preferences(ctx, userID)
	if len(prefs) == 0 {
		c.io.Println("Настроек нет")
		return nil
	}

	keys := make([]string, 0, len(prefs))
	for key := range prefs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	w := tabwriter.NewWriter(c.io, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Ключ\tЗначение\t\n")
	for _, key := range keys {
		fmt.Fprintf(w, "%s\t%s\t\n", key, string(prefs[key]))
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}

	return nil
}
