package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/swipemart/syncengine/internal/storage"
)

// TokenSource выдает bearer-токен для авторизованных запросов
type TokenSource interface {
	// Token возвращает действующий токен доступа
	Token(ctx context.Context) (string, error)
}

// staticTokenSource всегда возвращает один и тот же токен
type staticTokenSource struct {
	token string
}

// StaticTokenSource возвращает источник с фиксированным токеном (для тестов
// и скриптов)
func StaticTokenSource(token string) TokenSource {
	return staticTokenSource{token: token}
}

func (s staticTokenSource) Token(_ context.Context) (string, error) {
	return s.token, nil
}

// storeTokenSource читает токен, сохраненный в сторе после логина
type storeTokenSource struct {
	store storage.KVStore
	now   func() time.Time
}

// NewStoreTokenSource создает источник токенов поверх локального стора
func NewStoreTokenSource(store storage.KVStore) TokenSource {
	return &storeTokenSource{
		store: store,
		now:   time.Now,
	}
}

func (s *storeTokenSource) Token(ctx context.Context) (string, error) {
	data, err := s.store.Get(ctx, storage.KeyAuthToken)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return "", fmt.Errorf("%w: no saved token, login required", ErrUnauthorized)
		}
		return "", fmt.Errorf("failed to read auth token: %w", err)
	}

	token := string(data)
	if err := checkNotExpired(token, s.now()); err != nil {
		return "", err
	}

	return token, nil
}

// checkNotExpired проверяет срок действия токена без проверки подписи.
// Подпись проверяет сервер, клиенту достаточно не отправлять заведомо
// просроченный токен.
func checkNotExpired(tokenString string, now time.Time) error {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return fmt.Errorf("malformed auth token: %w", err)
	}

	expiresAt, err := token.Claims.GetExpirationTime()
	if err != nil {
		return fmt.Errorf("malformed auth token claims: %w", err)
	}

	if expiresAt != nil && now.After(expiresAt.Time) {
		return ErrTokenExpired
	}

	return nil
}
