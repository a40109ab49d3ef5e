package server

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SyncClaims представляет JWT claims дев-пира
type SyncClaims struct {
	UserID   string `json:"user_id"`
	DeviceID string `json:"device_id"`
	jwt.RegisteredClaims
}

// JWTConfig содержит конфигурацию выпуска токенов
type JWTConfig struct {
	Secret         []byte
	AccessTokenTTL time.Duration
}

// GenerateAccessToken создает подписанный HS256 токен для пары
// пользователь/устройство
func GenerateAccessToken(cfg JWTConfig, userID, deviceID string) (string, int64, error) {
	now := time.Now()

	claims := SyncClaims{
		UserID:   userID,
		DeviceID: deviceID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "syncengine-dev",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(cfg.Secret)
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, int64(cfg.AccessTokenTTL.Seconds()), nil
}

// ValidateAccessToken валидирует и разбирает токен доступа
func ValidateAccessToken(cfg JWTConfig, tokenString string) (*SyncClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SyncClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Принимаем только HMAC-подписи
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return cfg.Secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*SyncClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
