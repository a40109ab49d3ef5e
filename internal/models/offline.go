package models

import "time"

// OfflineSnapshot представляет снимок данных для работы без сети:
// последние загруженные товары плюс пользовательское состояние на момент
// снимка. Хранится целиком под одним ключом локального стора.
type OfflineSnapshot struct {
	LastSync        time.Time        `json:"last_sync"`        // LastSync время создания снимка
	UserPreferences UserPreferences  `json:"user_preferences"` // UserPreferences настройки на момент снимка
	Products        []ProductSummary `json:"products"`         // Products закешированные карточки товаров
	CartItems       []CartItem       `json:"cart_items"`       // CartItems корзина на момент снимка
	WishlistItems   []WishlistItem   `json:"wishlist_items"`   // WishlistItems список желаний на момент снимка
	SwipeHistory    []SwipeEvent     `json:"swipe_history"`    // SwipeHistory история свайпов на момент снимка
}

// CacheInfo сводка о состоянии офлайн-кеша для экранов настроек.
type CacheInfo struct {
	ProductCount int  `json:"product_count"` // ProductCount количество товаров в снимке
	SizeBytes    int  `json:"size_bytes"`    // SizeBytes размер снимка на диске (после сжатия)
	IsExpired    bool `json:"is_expired"`    // IsExpired признак устаревшего снимка
}
