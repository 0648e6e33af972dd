package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/Abhay69095/Buildmart/internal/models"
	"github.com/Abhay69095/Buildmart/internal/pkg/redact"
	"github.com/Abhay69095/Buildmart/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

// minPasswordLen — минимальная длина пароля (политика исходного магазина).
const minPasswordLen = 6

// RegisterUser регистрирует нового пользователя и выдаёт пару токенов.
func (s *Service) RegisterUser(ctx context.Context, name, email, password string) (*models.User, *models.TokenPair, error) {
	const op = "service.auth.RegisterUser"

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrValidation)
	}

	normEmail, err := validateEmail(email)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	if err := validatePassword(password); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	_, err = s.storage.UserByEmail(ctx, normEmail)
	if err == nil {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	hashed, err := hashPassword(password)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	user := &models.User{
		Name:      name,
		Email:     normEmail,
		Password:  hashed,
		Role:      models.RoleUser,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.storage.SaveUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}

		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	s.logActivity(ctx, user.ID, models.ActivityRegister, map[string]any{
		"email": redact.Email(user.Email),
	})

	return user, pair, nil
}

// LoginUser выполняет вход по email+пароль.
func (s *Service) LoginUser(ctx context.Context, email, password string) (*models.User, *models.TokenPair, error) {
	const op = "service.auth.LoginUser"

	normEmail, err := validateEmail(email)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if len(password) == 0 {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	user, err := s.storage.UserByEmail(ctx, normEmail)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	if !checkPassword(user.Password, password) {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, pair, nil
}

// AuthenticateAccessToken — единая точка проверки access-токена:
// подпись и exp, затем резолв пользователя в хранилище. Пользователь,
// которого больше нет, даёт ErrInvalidToken (учетка могла быть отозвана).
func (s *Service) AuthenticateAccessToken(ctx context.Context, accessToken string) (*models.User, error) {
	const op = "service.auth.AuthenticateAccessToken"

	userID, err := s.parseAccessToken(accessToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.storage.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// RefreshAccessToken обменивает валидный refresh-токен на новый
// access-токен. Сам refresh-токен не ротируется и живёт до собственного
// истечения. Возвращает токен и срок его жизни в секундах.
func (s *Service) RefreshAccessToken(ctx context.Context, refreshToken string) (string, int64, error) {
	const op = "service.auth.RefreshAccessToken"

	userID, err := s.validateRefreshToken(ctx, refreshToken)
	if err != nil {
		return "", 0, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.storage.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", 0, fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}

		return "", 0, fmt.Errorf("%s: %w", op, err)
	}

	access, _, err := s.generateAccessToken(ctx, user.ID, time.Now().UTC())
	if err != nil {
		return "", 0, fmt.Errorf("%s: %w", op, err)
	}

	return access, int64(s.cfg.AccessTokenTTL.Seconds()), nil
}

// Logout отзывает refresh-токен пользователя (удаляет запись и
// вычищает кэш). Отсутствие записи не считается ошибкой: сессия уже
// была отозвана в другом месте.
func (s *Service) Logout(ctx context.Context, user *models.User, refreshToken string) error {
	const op = "service.auth.Logout"

	if refreshToken != "" {
		hash := hashToken(refreshToken)

		if err := s.storage.DeleteRefreshToken(ctx, hash); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, err)
		}

		if s.rcache != nil {
			_ = s.rcache.Delete(ctx, hash)
		}
	}

	s.logActivity(ctx, user.ID, models.ActivityLogout, nil)

	return nil
}

// issueTokenPair выпускает пару access+refresh токенов.
func (s *Service) issueTokenPair(ctx context.Context, user *models.User) (*models.TokenPair, error) {
	const op = "service.auth.issueTokenPair"

	now := time.Now().UTC()

	access, expiresAt, err := s.generateAccessToken(ctx, user.ID, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	refresh, err := s.generateRefreshToken(ctx, user.ID, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.TokenPair{
		AccessToken:     access,
		RefreshToken:    refresh,
		AccessExpiresAt: expiresAt,
	}, nil
}

// hashPassword хэширует пароль с помощью bcrypt.
func hashPassword(password string) (string, error) {
	const op = "service.auth.hashPassword"

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return string(bytes), nil
}

// checkPassword сравнивает пароль с хэшем.
func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// validateEmail проверяет базовый формат email и обрезает пробелы снаружи.
func validateEmail(raw string) (string, error) {
	const op = "service.auth.validateEmail"

	email := strings.TrimSpace(raw)
	if email == "" {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	return strings.ToLower(email), nil
}

// validatePassword проверяет минимальные требования к паролю.
func validatePassword(pw string) error {
	const op = "service.auth.validatePassword"

	if len(pw) == 0 {
		return fmt.Errorf("%s: %w", op, ErrEmptyPassword)
	}

	if len([]rune(pw)) < minPasswordLen {
		return fmt.Errorf("%s: %w", op, ErrWeakPassword)
	}

	return nil
}
