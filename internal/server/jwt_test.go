package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() JWTConfig {
	return JWTConfig{
		Secret:         []byte("dev-secret"),
		AccessTokenTTL: time.Hour,
	}
}

func TestGenerateValidateToken(t *testing.T) {
	cfg := testJWTConfig()

	token, expiresIn, err := GenerateAccessToken(cfg, "u1", "dev-a")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, int64(3600), expiresIn)

	claims, err := ValidateAccessToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "dev-a", claims.DeviceID)
	assert.Equal(t, "syncengine-dev", claims.Issuer)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	other := JWTConfig{Secret: []byte("other-secret"), AccessTokenTTL: time.Hour}

	token, _, err := GenerateAccessToken(other, "u1", "dev-a")
	require.NoError(t, err)

	_, err = ValidateAccessToken(testJWTConfig(), token)
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	cfg := testJWTConfig()
	expired := JWTConfig{Secret: cfg.Secret, AccessTokenTTL: -time.Hour}

	token, _, err := GenerateAccessToken(expired, "u1", "dev-a")
	require.NoError(t, err)

	_, err = ValidateAccessToken(cfg, token)
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	_, err := ValidateAccessToken(testJWTConfig(), "not-a-jwt")
	assert.Error(t, err)
}
