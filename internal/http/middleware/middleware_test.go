package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Abhay69095/Buildmart/internal/models"
	"github.com/Abhay69095/Buildmart/internal/service"
)

type apiError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

type errEnvelope struct {
	Error apiError `json:"error"`
}

// stubAuthenticator отвечает заранее заданным результатом и запоминает,
// какой токен до него дошёл.
type stubAuthenticator struct {
	gotToken string
	user     *models.User
	err      error
}

func (s *stubAuthenticator) AuthenticateAccessToken(_ context.Context, token string) (*models.User, error) {
	s.gotToken = token
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func decodeErr(t *testing.T, rec *httptest.ResponseRecorder) errEnvelope {
	t.Helper()
	var env errEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env
}

func TestChain_Order(t *testing.T) {
	t.Parallel()

	order := []string{}
	mk := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), mk("outer"), mk("inner"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestRequestID_GeneratedAndPropagated(t *testing.T) {
	t.Parallel()

	var fromCtx string
	h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = RequestIDFrom(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	got := rec.Header().Get("X-Request-Id")
	require.Len(t, got, 32)
	require.Equal(t, got, fromCtx)
}

func TestRequestID_IncomingPreserved(t *testing.T) {
	t.Parallel()

	h := RequestID()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "incoming-id")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, "incoming-id", rec.Header().Get("X-Request-Id"))
}

func TestRecover_PanicTo500(t *testing.T) {
	t.Parallel()

	h := Recover()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	env := decodeErr(t, rec)
	require.Equal(t, "internal", env.Error.Code)
	require.NotContains(t, rec.Body.String(), "boom")
}

func TestTimeout_SetsDeadline(t *testing.T) {
	t.Parallel()

	var hadDeadline bool
	h := Timeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hadDeadline = r.Context().Deadline()
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.True(t, hadDeadline)
}

func TestTimeout_ExistingDeadlineKept(t *testing.T) {
	t.Parallel()

	upstream := time.Now().Add(50 * time.Millisecond)

	var seen time.Time
	h := Timeout(time.Hour)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = r.Context().Deadline()
	}))

	ctx, cancel := context.WithDeadline(context.Background(), upstream)
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.Equal(t, upstream, seen)
}

func TestTimeout_Disabled(t *testing.T) {
	t.Parallel()

	var hadDeadline bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hadDeadline = r.Context().Deadline()
	})

	h := Timeout(0)(inner)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.False(t, hadDeadline)
}

func TestAuthenticate_HeaderForms(t *testing.T) {
	t.Parallel()

	// Фронт исторически слал заголовок в трёх формах; все должны
	// нормализоваться в один и тот же голый токен.
	forms := []struct {
		name   string
		header string
	}{
		{"with space", "Bearer raw-token"},
		{"no space", "Bearerraw-token"},
		{"bare", "raw-token"},
	}

	for _, tc := range forms {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			auth := &stubAuthenticator{user: &models.User{ID: "u1", Role: models.RoleUser}}

			var ctxUser *models.User
			var ctxToken string
			h := Authenticate(auth)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctxUser = UserFrom(r.Context())
				ctxToken = TokenFrom(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", tc.header)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			require.Equal(t, "raw-token", auth.gotToken)
			require.Equal(t, "raw-token", ctxToken)
			require.Equal(t, "u1", ctxUser.ID)
		})
	}
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	t.Parallel()

	h := Authenticate(&stubAuthenticator{})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "invalid_token", decodeErr(t, rec).Error.Code)
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	t.Parallel()

	auth := &stubAuthenticator{err: fmt.Errorf("wrapped: %w", service.ErrTokenExpired)}

	h := Authenticate(auth)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer expired-token")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "token_expired", decodeErr(t, rec).Error.Code)
}

func TestAuthenticate_StorageError500(t *testing.T) {
	t.Parallel()

	auth := &stubAuthenticator{err: errors.New("db down")}

	h := Authenticate(auth)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer token")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRequireAdmin_UserRole403(t *testing.T) {
	t.Parallel()

	auth := &stubAuthenticator{user: &models.User{ID: "u1", Role: models.RoleUser}}

	h := Chain(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			t.Fatal("handler must not be reached")
		}),
		Authenticate(auth),
		RequireAdmin(),
	)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer token")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "forbidden", decodeErr(t, rec).Error.Code)
}

func TestRequireAdmin_AdminPasses(t *testing.T) {
	t.Parallel()

	auth := &stubAuthenticator{user: &models.User{ID: "a1", Role: models.RoleAdmin}}

	var reached bool
	h := Chain(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) { reached = true }),
		Authenticate(auth),
		RequireAdmin(),
	)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer token")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, reached)
}

func TestRequireAdmin_WithoutAuthenticate401(t *testing.T) {
	t.Parallel()

	h := RequireAdmin()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
