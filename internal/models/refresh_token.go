package models

import "time"

// RefreshToken — серверная запись refresh-токена для управления сессиями.
//
// Сам refresh-токен — подписанный JWT с клеймами {userId, jti, exp};
// в хранилище лежит только sha256-хэш строки токена. Удаление записи
// отзывает сессию: проверка «matched» в цикле обновления не пройдет.
type RefreshToken struct {
	TokenHash string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}
