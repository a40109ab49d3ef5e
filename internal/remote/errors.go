package remote

import "errors"

var (
	// ErrUnauthorized сервер отклонил запрос, нужен новый логин
	ErrUnauthorized = errors.New("unauthorized")

	// ErrTokenExpired срок действия сохраненного токена истек
	ErrTokenExpired = errors.New("auth token expired")
)
