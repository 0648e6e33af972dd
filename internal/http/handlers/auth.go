package handlers

import (
	"net/http"

	apierrors "github.com/Abhay69095/Buildmart/internal/errors"
	"github.com/Abhay69095/Buildmart/internal/http/middleware"
	"github.com/Abhay69095/Buildmart/internal/models"
	"github.com/Abhay69095/Buildmart/internal/service"
)

// refreshCookieName — имя httpOnly-cookie с refresh-токеном.
const refreshCookieName = "refreshToken"

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse — ответ register/login. Токен исторически отдаётся
// с префиксом "Bearer " — фронт хранит его в таком виде.
type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// refreshResponse — ответ refresh. Токен здесь «голый», без префикса;
// ExpiresIn — срок жизни нового access-токена в секундах.
type refreshResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var in registerRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, service.ErrValidation)
		return
	}

	user, pair, err := h.Service.RegisterUser(r.Context(), in.Name, in.Email, in.Password)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	h.setRefreshCookie(w, pair.RefreshToken)
	writeJSON(w, http.StatusCreated, authResponse{
		Token: "Bearer " + pair.AccessToken,
		User:  user,
	})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, service.ErrValidation)
		return
	}

	user, pair, err := h.Service.LoginUser(r.Context(), in.Email, in.Password)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	h.setRefreshCookie(w, pair.RefreshToken)
	writeJSON(w, http.StatusOK, authResponse{
		Token: "Bearer " + pair.AccessToken,
		User:  user,
	})
}

// Refresh выпускает новый access-токен по refresh-токену из cookie.
// Тело запроса не используется: браузер шлёт cookie сам.
func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		apierrors.WriteError(w, r, service.ErrInvalidToken)
		return
	}

	token, expiresIn, err := h.Service.RefreshAccessToken(r.Context(), cookie.Value)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, refreshResponse{
		Token:     token,
		ExpiresIn: expiresIn,
	})
}

// Logout отзывает refresh-токен и гасит cookie. Идемпотентен.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	var refreshToken string
	if cookie, err := r.Cookie(refreshCookieName); err == nil {
		refreshToken = cookie.Value
	}

	if err := h.Service.Logout(r.Context(), user, refreshToken); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	h.clearRefreshCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// setRefreshCookie выставляет httpOnly-cookie с refresh-токеном.
// Secure включается вне локального окружения.
func (h *Handlers) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.Auth.RefreshTokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.Env == "prod",
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *Handlers) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.Env == "prod",
		SameSite: http.SameSiteStrictMode,
	})
}
