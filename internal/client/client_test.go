package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// signToken подписывает минимальный JWT с заданным exp. Секрет не важен:
// клиент делает только unverified-разбор exp.
func signToken(t *testing.T, exp time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": "u1",
		"exp":    exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := New(baseURL, NewMemoryStore())
	require.NoError(t, err)
	return c
}

func TestSetToken_NormalizesBearerPrefix(t *testing.T) {
	t.Parallel()

	forms := []struct {
		name string
		raw  string
	}{
		{"with space", "Bearer abc.def.ghi"},
		{"no space", "Bearerabc.def.ghi"},
		{"bare", "abc.def.ghi"},
		{"padded", "  Bearer abc.def.ghi  "},
	}

	for _, tc := range forms {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c := newTestClient(t, "http://unused")
			require.NoError(t, c.SetToken(tc.raw, 0))

			stored, err := c.Session().Token()
			require.NoError(t, err)
			require.Equal(t, "abc.def.ghi", stored.AccessToken)
		})
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "token.json")
	store := NewFileStore(path)

	saved := StoredToken{AccessToken: "abc", ExpiresAt: time.Now().Add(time.Hour).UTC()}
	require.NoError(t, store.Save(saved))

	got, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, "abc", got.AccessToken)

	require.NoError(t, store.Clear())
	_, err = store.Load()
	require.ErrorIs(t, err, ErrNoToken)
}

func TestEnsureValidToken_FreshTokenNoRefresh(t *testing.T) {
	t.Parallel()

	var refreshes int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshes, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	fresh := signToken(t, time.Now().Add(10*time.Minute))
	require.NoError(t, c.SetToken(fresh, 0))

	got, err := c.EnsureValidToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, fresh, got)
	require.Zero(t, atomic.LoadInt32(&refreshes))
}

func TestEnsureValidToken_StaleTokenRefreshes(t *testing.T) {
	t.Parallel()

	renewed := ""
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/refresh-token", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token":     renewed,
			"expiresIn": 900,
		})
	}))
	defer srv.Close()

	renewed = signToken(t, time.Now().Add(15*time.Minute))

	c := newTestClient(t, srv.URL)
	// До истечения 20 секунд — внутри окна в 30, токен считается устаревшим.
	stale := signToken(t, time.Now().Add(20*time.Second))
	require.NoError(t, c.SetToken(stale, 0))

	got, err := c.EnsureValidToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, renewed, got)
}

func TestEnsureValidToken_SingleRefreshInFlight(t *testing.T) {
	t.Parallel()

	var refreshes int32
	renewed := signToken(t, time.Now().Add(15*time.Minute))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshes, 1)
		time.Sleep(100 * time.Millisecond) // держим всех конкурентов в полёте
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token":     renewed,
			"expiresIn": 900,
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	require.NoError(t, c.SetToken(signToken(t, time.Now().Add(5*time.Second)), 0))

	const workers = 16

	var start, done sync.WaitGroup
	start.Add(1)
	done.Add(workers)

	errCh := make(chan error, workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer done.Done()
			start.Wait()
			_, err := c.EnsureValidToken(context.Background())
			errCh <- err
		}()
	}

	start.Done()
	done.Wait()
	close(errCh)

	for err := range errCh {
		require.NoError(t, err)
	}

	require.Equal(t, int32(1), atomic.LoadInt32(&refreshes))
}

func TestRefresh_FailureLogsOut(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	require.NoError(t, c.SetToken(signToken(t, time.Now().Add(5*time.Second)), 0))

	_, err := c.Refresh(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, ErrSessionExpired)

	// Сессия очищена: это единственный автоматический «выход».
	_, err = c.Session().Token()
	require.ErrorIs(t, err, ErrNoToken)
}

func TestDo_RetriesOnceAfter401(t *testing.T) {
	t.Parallel()

	fresh := signToken(t, time.Now().Add(15*time.Minute))
	renewed := signToken(t, time.Now().Add(15*time.Minute))

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/refresh-token":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"token":     renewed,
				"expiresIn": 900,
			})
		case "/api/orders":
			// Первый вызов отвергаем (токен отозван на сервере),
			// после refresh пропускаем.
			if atomic.AddInt32(&calls, 1) == 1 {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			require.Equal(t, "Bearer "+renewed, r.Header.Get("Authorization"))
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "o1"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	require.NoError(t, c.SetToken(fresh, 0))

	var out struct {
		ID string `json:"id"`
	}
	err := c.Do(context.Background(), http.MethodPost, "/api/orders", map[string]any{"productId": "p1", "quantity": 1}, &out)
	require.NoError(t, err)
	require.Equal(t, "o1", out.ID)
	require.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestDo_NoSession(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, "http://unused")

	err := c.Do(context.Background(), http.MethodGet, "/api/orders", nil, nil)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrSessionExpired)
}

func TestLogout_ClearsSessionEvenOnServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	require.NoError(t, c.SetToken(signToken(t, time.Now().Add(15*time.Minute)), 0))

	err := c.Logout(context.Background())
	require.Error(t, err)

	_, terr := c.Session().Token()
	require.True(t, errors.Is(terr, ErrNoToken))
}
