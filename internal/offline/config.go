package offline

import "time"

// Значения конфигурации кеша по умолчанию.
const (
	DefaultMaxProducts = 100
	DefaultMaxCacheAge = 24 * time.Hour
	DefaultCompression = CodecSnappy
)

// CacheConfig параметры офлайн-кеша. Меняется на лету и действует со
// следующей записи кеша, уже сохраненный снимок задним числом не
// пересобирается.
type CacheConfig struct {
	MaxProducts        int           `json:"max_products"`         // MaxProducts предел товаров в снимке
	MaxCacheAge        time.Duration `json:"max_cache_age"`        // MaxCacheAge срок жизни снимка
	EnableImageCaching bool          `json:"enable_image_caching"` // EnableImageCaching вести ли индекс изображений
	Compression        Codec         `json:"compression"`          // Compression кодек сжатия снимка
}

// DefaultCacheConfig возвращает конфигурацию по умолчанию.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		MaxProducts:        DefaultMaxProducts,
		MaxCacheAge:        DefaultMaxCacheAge,
		EnableImageCaching: true,
		Compression:        DefaultCompression,
	}
}

// Normalize приводит некорректные поля к значениям по умолчанию.
func (c CacheConfig) Normalize() CacheConfig {
	if c.MaxProducts <= 0 {
		c.MaxProducts = DefaultMaxProducts
	}
	if c.MaxCacheAge <= 0 {
		c.MaxCacheAge = DefaultMaxCacheAge
	}
	if !c.Compression.Valid() {
		c.Compression = DefaultCompression
	}

	return c
}
