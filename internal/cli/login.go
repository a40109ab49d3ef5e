package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/swipemart/syncengine/internal/storage"
	"github.com/swipemart/syncengine/internal/validation"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Получить токен доступа у удаленной стороны",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return app.runLogin(cmd.Context())
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Удалить сохраненный токен доступа",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return app.runLogout(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}

func (c *Cli) runLogin(ctx context.Context) error {
	userID := c.cfg.UserID
	if userID == "" {
		var err error
		userID, err = c.io.ReadInput("ID пользователя: ")
		if err != nil {
			return fmt.Errorf("failed to read user id: %w", err)
		}
	}
	if err := validation.ValidateUserID(userID); err != nil {
		return err
	}

	deviceID := c.devices.DeviceID(ctx)

	resp, err := c.peer.Authenticate(ctx, userID, deviceID)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if err := c.store.Set(ctx, storage.KeyAuthToken, []byte(resp.AccessToken)); err != nil {
		return fmt.Errorf("failed to save auth token: %w", err)
	}
	if err := c.store.Set(ctx, storage.KeyUserID, []byte(userID)); err != nil {
		return fmt.Errorf("failed to save user id: %w", err)
	}

	c.io.Printf("✅ Вход выполнен: %s\n", userID)
	c.io.Printf("Токен действует %s\n", time.Duration(resp.ExpiresIn)*time.Second)

	return nil
}

func (c *Cli) runLogout(ctx context.Context) error {
	if err := c.store.Delete(ctx, storage.KeyAuthToken); err != nil {
		return fmt.Errorf("failed to drop auth token: %w", err)
	}

	c.io.Println("Токен доступа удален")

	return nil
}
