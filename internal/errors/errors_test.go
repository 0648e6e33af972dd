package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Abhay69095/Buildmart/internal/service"
)

func TestToHTTP_Mapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"nil is internal", nil, http.StatusInternalServerError, "internal"},
		{"unknown is internal", errors.New("db down"), http.StatusInternalServerError, "internal"},
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{"invalid token", service.ErrInvalidToken, http.StatusUnauthorized, "invalid_token"},
		{"token expired", service.ErrTokenExpired, http.StatusUnauthorized, "token_expired"},
		{"forbidden", service.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"email taken is 400", service.ErrEmailTaken, http.StatusBadRequest, "email_taken"},
		{"invalid email", service.ErrInvalidEmail, http.StatusBadRequest, "invalid_email"},
		{"weak password", service.ErrWeakPassword, http.StatusBadRequest, "weak_password"},
		{"empty password", service.ErrEmptyPassword, http.StatusBadRequest, "empty_password"},
		{"validation", service.ErrValidation, http.StatusBadRequest, "invalid_argument"},
		{"not found", service.ErrNotFound, http.StatusNotFound, "not_found"},
		{"wrapped sentinel", fmt.Errorf("service.auth.LoginUser: %w", service.ErrInvalidCredentials), http.StatusUnauthorized, "invalid_credentials"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			status, resp := ToHTTP(tc.err)
			require.Equal(t, tc.wantStatus, status)
			require.Equal(t, tc.wantCode, resp.Error.Code)
			require.NotEmpty(t, resp.Error.Message)
		})
	}
}

func TestToHTTP_NoDetailsLeak(t *testing.T) {
	t.Parallel()

	_, resp := ToHTTP(errors.New("pq: connection refused host=10.0.0.5"))
	require.NotContains(t, resp.Error.Message, "10.0.0.5")
	require.Equal(t, "internal error", resp.Error.Message)
}

func TestWriteError_RequestIDPropagated(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "req-123")

	rec := httptest.NewRecorder()
	WriteError(rec, req, service.ErrNotFound)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var env ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	require.Equal(t, "req-123", env.Error.RequestID)
	require.Equal(t, "not_found", env.Error.Code)
}

func TestWriteError_NoRequestID(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteError(rec, httptest.NewRequest(http.MethodGet, "/", nil), service.ErrValidation)

	var env ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	require.Empty(t, env.Error.RequestID)
}
