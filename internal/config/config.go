// Package config загружает настройки клиента и дев-пира из переменных
// окружения и .env файла. Флаги командной строки применяются поверх
// загруженной конфигурации вызывающей стороной.
package config

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/swipemart/syncengine/internal/offline"
)

// Поддерживаемые драйверы локального стора
const (
	DriverBolt   = "bolt"
	DriverSQLite = "sqlite"
)

const (
	defaultServerURL  = "http://localhost:8080"
	defaultDBFile     = "syncengine.db"
	defaultDirName    = ".syncengine"
	defaultLogLevel   = "info"
	defaultListenAddr = ":8080"
	defaultJWTSecret  = "syncengine-dev-secret"
	defaultTokenTTL   = 24 * time.Hour
)

// ClientConfig настройки клиента синхронизации
type ClientConfig struct {
	ServerURL string              // ServerURL адрес удаленной стороны
	UserID    string              // UserID идентификатор пользователя, пустой до логина
	DBDriver  string              // DBDriver драйвер локального стора: bolt либо sqlite
	DBPath    string              // DBPath путь к файлу локального стора
	ConfigDir string              // ConfigDir директория данных клиента
	LogLevel  string              // LogLevel уровень логирования: debug, info, warn, error
	Cache     offline.CacheConfig // Cache настройки офлайн-кеша до первого сохранения
}

// ServerConfig настройки дев-пира синхронизации
type ServerConfig struct {
	ListenAddr     string        // ListenAddr адрес прослушивания HTTP
	JWTSecret      string        // JWTSecret ключ подписи токенов доступа
	AccessTokenTTL time.Duration // AccessTokenTTL срок действия токена
	LogLevel       string        // LogLevel уровень логирования
}

// LoadClient собирает конфигурацию клиента из окружения. Отсутствующие
// значения заменяются значениями по умолчанию, директория данных
// создается при необходимости.
func LoadClient() (*ClientConfig, error) {
	loadDotEnv()
	viper.AutomaticEnv()

	viper.SetDefault("server_url", defaultServerURL)
	viper.SetDefault("db_driver", DriverBolt)
	viper.SetDefault("log_level", defaultLogLevel)
	viper.SetDefault("cache_max_products", offline.DefaultMaxProducts)
	viper.SetDefault("cache_max_age", offline.DefaultMaxCacheAge)
	viper.SetDefault("cache_images", true)
	viper.SetDefault("cache_codec", string(offline.DefaultCompression))

	configDir := viper.GetString("config_dir")
	if configDir == "" {
		configDir = defaultConfigDir()
	}
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create config dir: %w", err)
	}

	dbPath := viper.GetString("db_path")
	if dbPath == "" {
		dbPath = filepath.Join(configDir, defaultDBFile)
	}

	cfg := &ClientConfig{
		ServerURL: viper.GetString("server_url"),
		UserID:    viper.GetString("user_id"),
		DBDriver:  viper.GetString("db_driver"),
		DBPath:    dbPath,
		ConfigDir: configDir,
		LogLevel:  viper.GetString("log_level"),
		Cache: offline.CacheConfig{
			MaxProducts:        viper.GetInt("cache_max_products"),
			MaxCacheAge:        viper.GetDuration("cache_max_age"),
			EnableImageCaching: viper.GetBool("cache_images"),
			Compression:        offline.Codec(viper.GetString("cache_codec")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет согласованность конфигурации клиента
func (c *ClientConfig) Validate() error {
	switch c.DBDriver {
	case DriverBolt, DriverSQLite:
	default:
		return fmt.Errorf("unsupported db driver %q, expected %q or %q", c.DBDriver, DriverBolt, DriverSQLite)
	}

	if !c.Cache.Compression.Valid() {
		return fmt.Errorf("unsupported cache codec %q", c.Cache.Compression)
	}

	return nil
}

// LoadServer собирает конфигурацию дев-пира из окружения
func LoadServer() *ServerConfig {
	loadDotEnv()
	viper.AutomaticEnv()

	viper.SetDefault("listen_addr", defaultListenAddr)
	viper.SetDefault("jwt_secret", defaultJWTSecret)
	viper.SetDefault("token_ttl", defaultTokenTTL)
	viper.SetDefault("log_level", defaultLogLevel)

	return &ServerConfig{
		ListenAddr:     viper.GetString("listen_addr"),
		JWTSecret:      viper.GetString("jwt_secret"),
		AccessTokenTTL: viper.GetDuration("token_ttl"),
		LogLevel:       viper.GetString("log_level"),
	}
}

// ParseLogLevel переводит строковый уровень в slog.Level, неизвестные
// значения трактуются как info
func ParseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func loadDotEnv() {
	if _, err := os.Stat(".env"); err != nil {
		return
	}
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env file, relying on environment variables")
	}
}

func defaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultDirName
	}
	return filepath.Join(home, defaultDirName)
}
