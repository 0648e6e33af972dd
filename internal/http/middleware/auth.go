package middleware

import (
	"context"
	"net/http"
	"strings"

	apierrors "github.com/Abhay69095/Buildmart/internal/errors"
	"github.com/Abhay69095/Buildmart/internal/models"
	"github.com/Abhay69095/Buildmart/internal/service"
)

// Authenticator проверяет access-токен и возвращает его владельца.
// Единственная точка проверки токенов для HTTP-слоя.
type Authenticator interface {
	AuthenticateAccessToken(ctx context.Context, accessToken string) (*models.User, error)
}

// Authenticate извлекает access-токен из Authorization, проверяет его через
// svc и кладёт пользователя и «сырой» токен в контекст. Запрос без токена
// или с невалидным/просроченным токеном завершается 401.
//
// Заголовок принимается в любой из форм, которые исторически слал фронт:
// "Bearer <token>", "Bearer<token>" (без пробела) и голый токен.
// Нормализация происходит здесь и только здесь — дальше по конвейеру
// ходит уже чистый токен.
func Authenticate(svc Authenticator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := normalizeBearer(r.Header.Get("Authorization"))
			if token == "" {
				apierrors.WriteError(w, r, service.ErrInvalidToken)
				return
			}

			user, err := svc.AuthenticateAccessToken(r.Context(), token)
			if err != nil {
				apierrors.WriteError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyUser, user)
			ctx = context.WithValue(ctx, ctxKeyToken, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin пропускает дальше только пользователей с ролью admin.
// Должен стоять после Authenticate.
func RequireAdmin() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFrom(r.Context())
			if user == nil {
				apierrors.WriteError(w, r, service.ErrInvalidToken)
				return
			}

			if !user.IsAdmin() {
				apierrors.WriteError(w, r, service.ErrForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// UserFrom возвращает аутентифицированного пользователя из контекста
// (nil, если Authenticate не отработал).
func UserFrom(ctx context.Context) *models.User {
	user, _ := ctx.Value(ctxKeyUser).(*models.User)
	return user
}

// TokenFrom возвращает «сырой» access-токен из контекста ("" если его нет).
func TokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(ctxKeyToken).(string)
	return token
}

// normalizeBearer приводит значение Authorization к голому токену.
func normalizeBearer(auth string) string {
	auth = strings.TrimSpace(auth)
	if auth == "" {
		return ""
	}

	const prefix = "Bearer"
	if strings.HasPrefix(auth, prefix) {
		return strings.TrimSpace(auth[len(prefix):])
	}

	return auth
}
