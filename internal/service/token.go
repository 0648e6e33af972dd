package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Abhay69095/Buildmart/internal/cache"
	"github.com/Abhay69095/Buildmart/internal/models"
	"github.com/Abhay69095/Buildmart/internal/pkg/log"
	"github.com/Abhay69095/Buildmart/internal/storage"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// accessClaims — клеймы access-токена. Имя поля userId сохранено
// от исходного API: его читает и клиентский менеджер токенов.
type accessClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// refreshClaims — клеймы refresh-токена; jti (RegisteredClaims.ID)
// делает каждую выдачу уникальной и отличает refresh от access-токена.
type refreshClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// hashToken возвращает sha256-хэш строки токена в base64url —
// ключ записи в хранилище и кэше.
func hashToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// generateAccessToken генерирует access-токен и момент его истечения.
func (s *Service) generateAccessToken(ctx context.Context, userID string, now time.Time) (string, time.Time, error) {
	const op = "service.token.generateAccessToken"

	expiresAt := now.Add(s.cfg.AccessTokenTTL)
	claims := accessClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.cfg.Issuer,
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		log.From(ctx).Error("access_token_sign_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return "", time.Time{}, fmt.Errorf("%s: %w", op, err)
	}

	return signed, expiresAt, nil
}

// parseAccessToken валидирует access-токен и возвращает id пользователя.
func (s *Service) parseAccessToken(tokenStr string) (string, error) {
	const op = "service.token.parseAccessToken"

	token, err := jwt.ParseWithClaims(tokenStr, &accessClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
			}

			return []byte(s.cfg.JWTSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(5*time.Second),
		jwt.WithIssuer(s.cfg.Issuer),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}

		return "", fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	claims, ok := token.Claims.(*accessClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	// Access-токены выпускаются без jti; его наличие означает, что
	// предъявлен refresh-токен.
	if claims.ID != "" {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return claims.UserID, nil
}

// generateRefreshToken выпускает подписанный refresh-токен и сохраняет
// его хэш в хранилище (и в кэш, если тот сконфигурирован).
func (s *Service) generateRefreshToken(ctx context.Context, userID string, now time.Time) (string, error) {
	const op = "service.token.generateRefreshToken"

	lg := log.From(ctx)

	expiresAt := now.Add(s.cfg.RefreshTokenTTL)
	claims := refreshClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.cfg.Issuer,
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	plain, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		lg.Error("refresh_token_sign_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return "", fmt.Errorf("%s: %w", op, err)
	}

	hash := hashToken(plain)
	row := &models.RefreshToken{
		TokenHash: hash,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}

	if err := s.storage.SaveRefreshToken(ctx, row); err != nil {
		lg.Error("save_refresh_token_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if s.rcache != nil {
		entry := &cache.RefreshEntry{UserID: userID, ExpiresAt: expiresAt}
		if err := s.rcache.Set(ctx, hash, entry, time.Until(expiresAt)); err != nil {
			// Кэш вторичен: запись уже в хранилище.
			lg.Warn("refresh_cache_set_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
		}
	}

	return plain, nil
}

// validateRefreshToken проводит refresh-токен по шагам
// presented -> verified -> matched и возвращает id пользователя.
//
//   - verified: криптографическая проверка подписи и exp самого токена;
//   - matched: хэш токена должен совпасть с живой записью хранилища,
//     запись должна принадлежать тому же пользователю и не быть просроченной.
//     Удаление записи (logout/отзыв) проваливает именно этот шаг.
func (s *Service) validateRefreshToken(ctx context.Context, plain string) (string, error) {
	const op = "service.token.validateRefreshToken"

	lg := log.From(ctx)

	token, err := jwt.ParseWithClaims(plain, &refreshClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
			}

			return []byte(s.cfg.JWTSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(5*time.Second),
		jwt.WithIssuer(s.cfg.Issuer),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}

		return "", fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	claims, ok := token.Claims.(*refreshClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	hash := hashToken(plain)
	now := time.Now().UTC()

	// Сначала кэш: попадание избавляет от похода в БД.
	if s.rcache != nil {
		entry, found, cerr := s.rcache.Get(ctx, hash)
		if cerr != nil {
			lg.Warn("refresh_cache_get_failed",
				slog.String("op", op),
				slog.String("err", cerr.Error()),
			)
		} else if found {
			if entry.UserID != claims.UserID || now.After(entry.ExpiresAt) {
				return "", fmt.Errorf("%s: %w", op, ErrInvalidToken)
			}

			return claims.UserID, nil
		}
	}

	row, err := s.storage.RefreshTokenByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("refresh_lookup_not_found", slog.String("op", op))
			return "", fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}

		lg.Error("refresh_lookup_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if row.UserID != claims.UserID {
		lg.Warn("refresh_user_mismatch", slog.String("op", op))
		return "", fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	if now.After(row.ExpiresAt) {
		return "", fmt.Errorf("%s: %w", op, ErrTokenExpired)
	}

	if s.rcache != nil {
		entry := &cache.RefreshEntry{UserID: row.UserID, ExpiresAt: row.ExpiresAt}
		if cerr := s.rcache.Set(ctx, hash, entry, time.Until(row.ExpiresAt)); cerr != nil {
			lg.Warn("refresh_cache_set_failed",
				slog.String("op", op),
				slog.String("err", cerr.Error()),
			)
		}
	}

	return claims.UserID, nil
}
