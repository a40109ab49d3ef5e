package models

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strconv"
)

// UserPreferences представляет настройки пользователя: плоская карта
// поле -> значение. Форма значений движку безразлична, он оперирует
// только присутствием полей и их равенством.
type UserPreferences map[string]json.RawMessage

// CartItem представляет позицию корзины.
type CartItem struct {
	ProductID string  `json:"product_id"` // ProductID идентификатор товара
	Quantity  int     `json:"quantity"`   // Quantity количество единиц товара
	Price     float64 `json:"price"`      // Price цена за единицу на момент добавления
	AddedAt   int64   `json:"added_at"`   // AddedAt время добавления (Unix миллисекунды)
}

// WishlistItem представляет позицию списка желаний.
type WishlistItem struct {
	ProductID string `json:"product_id"` // ProductID идентификатор товара
	AddedAt   int64  `json:"added_at"`   // AddedAt время добавления (Unix миллисекунды)
}

// SwipeAction действие пользователя при свайпе карточки товара.
type SwipeAction string

// Действия свайпа
const (
	SwipeLike    SwipeAction = "like"
	SwipeDislike SwipeAction = "dislike"
	SwipeSkip    SwipeAction = "skip"
)

// SwipeEvent представляет одно событие свайпа. История свайпов -
// append-only журнал таких событий.
type SwipeEvent struct {
	ProductID string      `json:"product_id"` // ProductID идентификатор товара
	Action    SwipeAction `json:"action"`     // Action действие пользователя
	Timestamp int64       `json:"timestamp"`  // Timestamp время события (Unix миллисекунды)
}

// Key возвращает ключ дедупликации события: два события с одинаковым
// ключом считаются одним и тем же событием.
func (e SwipeEvent) Key() string {
	return e.ProductID + "|" + string(e.Action) + "|" + strconv.FormatInt(e.Timestamp, 10)
}

// ProductSummary представляет снимок карточки товара для офлайн-кеша.
type ProductSummary struct {
	ID       string  `json:"id"`        // ID идентификатор товара
	Name     string  `json:"name"`      // Name название товара
	Category string  `json:"category"`  // Category категория товара
	ImageURL string  `json:"image_url"` // ImageURL ссылка на изображение
	Currency string  `json:"currency"`  // Currency валюта цены (ISO 4217)
	Price    float64 `json:"price"`     // Price цена товара
	InStock  bool    `json:"in_stock"`  // InStock признак наличия на складе
}

// EncodePreferences сериализует настройки в payload записи.
func EncodePreferences(prefs UserPreferences) (json.RawMessage, error) {
	return json.Marshal(prefs)
}

// DecodePreferences разбирает payload записи user_preferences.
// Пустой payload трактуется как отсутствие настроек.
func DecodePreferences(data json.RawMessage) (UserPreferences, error) {
	if len(data) == 0 {
		return UserPreferences{}, nil
	}
	var prefs UserPreferences
	if err := json.Unmarshal(data, &prefs); err != nil {
		return nil, err
	}
	if prefs == nil {
		prefs = UserPreferences{}
	}
	return prefs, nil
}

// EncodeCartItems сериализует корзину в payload записи.
func EncodeCartItems(items []CartItem) (json.RawMessage, error) {
	return json.Marshal(items)
}

// DecodeCartItems разбирает payload записи cart_items.
// Пустой payload трактуется как пустая корзина.
func DecodeCartItems(data json.RawMessage) ([]CartItem, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var items []CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// UpsertCartItem добавляет позицию в корзину либо поднимает количество
// уже лежащего товара. Из двух количеств остается большее, остальные
// поля сохраняются от первого добавления. Входной срез изменяется.
func UpsertCartItem(items []CartItem, item CartItem) []CartItem {
	for i := range items {
		if items[i].ProductID != item.ProductID {
			continue
		}
		if item.Quantity > items[i].Quantity {
			items[i].Quantity = item.Quantity
		}
		return items
	}

	return append(items, item)
}

// EncodeWishlistItems сериализует список желаний в payload записи.
func EncodeWishlistItems(items []WishlistItem) (json.RawMessage, error) {
	return json.Marshal(items)
}

// DecodeWishlistItems разбирает payload записи wishlist_items.
func DecodeWishlistItems(data json.RawMessage) ([]WishlistItem, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var items []WishlistItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// EncodeSwipeHistory сериализует историю свайпов в payload записи.
func EncodeSwipeHistory(events []SwipeEvent) (json.RawMessage, error) {
	return json.Marshal(events)
}

// DecodeSwipeHistory разбирает payload записи swipe_history.
func DecodeSwipeHistory(data json.RawMessage) ([]SwipeEvent, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var events []SwipeEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// PayloadEqual сравнивает два payload по значению, игнорируя порядок
// ключей и форматирование JSON. Если хотя бы один payload не является
// корректным JSON, сравниваются байты.
func PayloadEqual(a, b json.RawMessage) bool {
	var av, bv any
	if err := json.Unmarshal(a, &av); err != nil {
		return bytes.Equal(a, b)
	}
	if err := json.Unmarshal(b, &bv); err != nil {
		return bytes.Equal(a, b)
	}
	return reflect.DeepEqual(av, bv)
}
