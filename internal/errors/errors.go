// errors стандартизирует ответы об ошибках HTTP-слоя BuildMart.
// На вход он принимает ошибку (сентинел слоя service, возможно обёрнутый),
// а на выход даёт:
//   - корректный HTTP-статус;
//   - краткое безопасное message без утечки деталей.
//
// Источник истинности по маппингу: комментарии к сентинелам пакета service.
//
// Примечание по дубликату e-mail: исходный магазин отвечал на занятый
// e-mail статусом 400, а не 409 — маппинг это сохраняет.
package errors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Abhay69095/Buildmart/internal/service"
)

// APIError — единый формат для фронта.
// Code — короткий стабильный код для машиночитаемой обработки на FE.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ToHTTP конвертирует ошибку бизнес-слоя в HTTP-статус и
// унифицированный ответ для фронта.
//
// Поведение:
//   - err == nil - это программная ошибка вызова: возвращаем 500/internal,
//     чтобы не послать "200 OK" с телом ошибки и не маскировать баг.
//   - err — не известный сентинел - 500/internal (без утечки деталей).
func ToHTTP(err error) (int, ErrorResponse) {
	httpStatus, code, msg := baseFromService(err)

	return httpStatus, ErrorResponse{
		Error: APIError{
			Code:    code,
			Message: msg,
		},
	}
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	// Прокидываем request_id для фронта, чтобы он мог репортить баги с привязкой.
	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// baseFromService — базовый маппинг сентинел -> HTTP/FE-код/сообщение.
// Таблица учитывает реальные коды из бизнес-слоя:
//   - ErrInvalidCredentials / ErrInvalidToken / ErrTokenExpired -> 401
//   - ErrForbidden -> 403
//   - ErrEmailTaken / ErrInvalidEmail / ErrWeakPassword /
//     ErrEmptyPassword / ErrValidation -> 400
//   - ErrNotFound -> 404
//   - прочее -> 500/internal
func baseFromService(err error) (int, string, string) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials", "invalid email or password"
	case errors.Is(err, service.ErrTokenExpired):
		return http.StatusUnauthorized, "token_expired", "token expired"
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized, "invalid_token", "invalid token"
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "forbidden", "admin access required"
	case errors.Is(err, service.ErrEmailTaken):
		return http.StatusBadRequest, "email_taken", "email already registered"
	case errors.Is(err, service.ErrInvalidEmail):
		return http.StatusBadRequest, "invalid_email", "invalid email format"
	case errors.Is(err, service.ErrWeakPassword):
		return http.StatusBadRequest, "weak_password", "password is too short"
	case errors.Is(err, service.ErrEmptyPassword):
		return http.StatusBadRequest, "empty_password", "password is required"
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, "invalid_argument", "invalid argument"
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "not_found", "not found"
	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}
