package validation

import (
	"fmt"
	"regexp"
)

// UserIDPattern определяет допустимый формат идентификатора пользователя.
// Латинские буквы (a-z, A-Z), цифры (0-9), точка (.), дефис (-) и нижнее
// подчеркивание (_); длина 2-64 символа. UUID и логины попадают в формат
var UserIDPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]{2,64}$`)

const (
	// MinUserIDLen минимальная длина идентификатора пользователя
	MinUserIDLen = 2
	// MaxUserIDLen максимальная длина идентификатора пользователя
	MaxUserIDLen = 64
)

// ValidateUserID проверяет, что идентификатор пользователя соответствует
// требованиям. Идентификатор попадает в ключи локального стора и в пути
// HTTP API, поэтому набор символов жестко ограничен
func ValidateUserID(userID string) error {
	if userID == "" {
		return fmt.Errorf("user id cannot be empty")
	}

	if len(userID) < MinUserIDLen {
		return fmt.Errorf("user id must be at least %d characters long", MinUserIDLen)
	}

	if len(userID) > MaxUserIDLen {
		return fmt.Errorf("user id must not exceed %d characters", MaxUserIDLen)
	}

	if !UserIDPattern.MatchString(userID) {
		return fmt.Errorf("user id can only contain letters (a-z, A-Z), numbers (0-9), dots (.), hyphens (-) and underscores (_)")
	}

	return nil
}
