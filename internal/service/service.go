// Package service содержит бизнес-логику магазина BuildMart:
// регистрацию/аутентификацию пользователей, выпуск/проверку/обновление
// токенов, операции каталога, заказов, обращений и сводку админ-панели.
//
// Основные аспекты:
//   - Пакет не хранит состояние запроса внутри Service; экземпляр Service
//     безопасен для конкурентного использования из разных горутин при
//     условии, что переданное хранилище (storage.Storage) потокобезопасно.
//   - Ошибки возвращаются сентинелами и далее маппятся HTTP-слоем на
//     статусы (см. комментарии к переменным ошибок ниже).
package service

import (
	"errors"

	"github.com/Abhay69095/Buildmart/internal/cache"
	"github.com/Abhay69095/Buildmart/internal/config"
	"github.com/Abhay69095/Buildmart/internal/storage"
)

var (
	// ErrInvalidCredentials — пара логин/пароль неверна или пользователь не найден.
	// HTTP 401.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken — токен (access/refresh) некорректен по формату/подписи,
	// отсутствует в хранилище или его пользователь больше не существует.
	// HTTP 401.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired — срок действия токена истёк. HTTP 401.
	ErrTokenExpired = errors.New("token expired")

	// ErrEmailTaken — e-mail уже занят другим пользователем.
	// HTTP 400 (так отвечал исходный магазин; не 409).
	ErrEmailTaken = errors.New("email already taken")

	// ErrInvalidEmail — e-mail имеет некорректный формат. HTTP 400.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrWeakPassword — пароль короче минимальной длины. HTTP 400.
	ErrWeakPassword = errors.New("password is too weak")

	// ErrEmptyPassword — пароль пустой. HTTP 400.
	ErrEmptyPassword = errors.New("password is empty")

	// ErrValidation — обязательное поле пустое или значение вне допустимых.
	// HTTP 400.
	ErrValidation = errors.New("validation failed")

	// ErrForbidden — у пользователя недостаточно прав (не admin). HTTP 403.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound — сущность (товар/заказ/обращение/пользователь) не найдена.
	// HTTP 404.
	ErrNotFound = errors.New("not found")
)

// Service описывает бизнес-логику магазина.
type Service struct {
	storage storage.Storage
	cfg     config.AuthConfig
	limits  config.LimitsConfig
	rcache  cache.RefreshCache // может быть nil, если кэш не сконфигурирован
}

// New создаёт новый экземпляр Service.
func New(storage storage.Storage, cfg config.AuthConfig, limits config.LimitsConfig) *Service {
	return &Service{
		storage: storage,
		cfg:     cfg,
		limits:  limits,
	}
}

// SetRefreshCache устанавливает кэш refresh-токенов (опционально).
func (s *Service) SetRefreshCache(c cache.RefreshCache) {
	s.rcache = c
}
