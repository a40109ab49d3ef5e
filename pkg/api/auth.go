package api

// TokenRequest представляет запрос на выпуск токена доступа
type TokenRequest struct {
	UserID   string `json:"user_id"`   // UserID идентификатор пользователя
	DeviceID string `json:"device_id"` // DeviceID идентификатор устройства
}

// TokenResponse представляет ответ с токеном доступа
type TokenResponse struct {
	AccessToken string `json:"access_token"` // JWT access token
	ExpiresIn   int64  `json:"expires_in"`   // время жизни токена в секундах
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}
