// Package client — программный клиент BuildMart API с управлением
// жизненным циклом access-токена: нормализация на входе, проактивное
// обновление по таймеру, реактивное обновление при 401 и единственный
// refresh в полёте на любое число конкурентных вызовов.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"

	"github.com/Abhay69095/Buildmart/internal/models"
)

// ErrSessionExpired — refresh-токен отвергнут сервером; клиент перешёл
// в разлогиненное состояние и требуется повторный Login.
var ErrSessionExpired = errors.New("session expired")

const (
	// proactiveLead — за сколько до истечения access-токена взводится
	// таймер фонового обновления.
	proactiveLead = 60 * time.Second

	// staleWindow — если до истечения токена осталось меньше этого
	// окна, EnsureValidToken обновляет токен до запроса.
	staleWindow = 30 * time.Second
)

// Client — HTTP-клиент магазина. Refresh-токен живёт в httpOnly-cookie,
// поэтому клиент держит cookie jar; access-токен — в Session.
type Client struct {
	baseURL string
	httpc   *http.Client
	session *Session
	sf      singleflight.Group
}

// New создаёт клиент с cookie jar. store задаёт, где живёт access-токен
// (NewMemoryStore или NewFileStore).
func New(baseURL string, store TokenStore) (*Client, error) {
	const op = "client.New"

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Jar: jar, Timeout: 30 * time.Second},
		session: NewSession(store),
	}, nil
}

// Session возвращает сессию клиента.
func (c *Client) Session() *Session {
	return c.session
}

type authPayload struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type refreshPayload struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

// Register регистрирует пользователя и запоминает выданный токен.
func (c *Client) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	const op = "client.Register"

	body := map[string]string{"name": name, "email": email, "password": password}

	var out authPayload
	if err := c.postJSON(ctx, "/api/register", body, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Срок жизни токена в ответе register/login не приходит — до первого
	// refresh живём с отметкой «неизвестно» и полагаемся на реактивный путь.
	if err := c.SetToken(out.Token, 0); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out.User, nil
}

// Login выполняет вход и запоминает выданный токен.
func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	const op = "client.Login"

	body := map[string]string{"email": email, "password": password}

	var out authPayload
	if err := c.postJSON(ctx, "/api/login", body, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := c.SetToken(out.Token, 0); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out.User, nil
}

// Logout отзывает сессию на сервере и стирает локальное состояние.
// Локальный выход выполняется даже если сервер ответил ошибкой.
func (c *Client) Logout(ctx context.Context) error {
	const op = "client.Logout"

	err := c.Do(ctx, http.MethodPost, "/api/logout", nil, nil)

	if cerr := c.session.Clear(); cerr != nil {
		return fmt.Errorf("%s: %w", op, cerr)
	}

	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SetToken сохраняет access-токен (нормализуя префикс "Bearer") и, если
// срок жизни известен, взводит таймер проактивного обновления за
// proactiveLead до истечения.
func (c *Client) SetToken(token string, expiresIn time.Duration) error {
	var (
		expiresAt  time.Time
		scheduleIn time.Duration
	)

	if expiresIn > 0 {
		expiresAt = time.Now().Add(expiresIn)
		scheduleIn = expiresIn - proactiveLead
	}

	return c.session.SetToken(token, expiresAt, scheduleIn, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_, _ = c.Refresh(ctx)
	})
}

// EnsureValidToken возвращает токен, с которым безопасно делать запрос.
// Если exp токена (локальный unverified-разбор) в пределах staleWindow
// или не читается — сперва выполняется refresh. Сколько бы горутин ни
// пришло сюда одновременно, в полёте будет максимум один refresh, и все
// получат его результат.
func (c *Client) EnsureValidToken(ctx context.Context) (string, error) {
	const op = "client.EnsureValidToken"

	stored, err := c.session.Token()
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, ErrSessionExpired)
	}

	if !tokenStale(stored.AccessToken) {
		return stored.AccessToken, nil
	}

	token, err := c.Refresh(ctx)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

// Refresh обменивает refresh-токен (httpOnly-cookie) на новый access-токен.
// Отказ сервера означает конец сессии: токен стирается, возвращается
// ErrSessionExpired. Конкурентные вызовы схлопываются в один запрос.
func (c *Client) Refresh(ctx context.Context) (string, error) {
	const op = "client.Refresh"

	v, err, _ := c.sf.Do("refresh", func() (any, error) {
		var out refreshPayload
		if err := c.postJSON(ctx, "/api/refresh-token", nil, &out); err != nil {
			_ = c.session.Clear()
			return "", errors.Join(ErrSessionExpired, err)
		}

		if err := c.SetToken(out.Token, time.Duration(out.ExpiresIn)*time.Second); err != nil {
			return "", err
		}
		return normalizeToken(out.Token), nil
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return v.(string), nil
}

// Do выполняет аутентифицированный запрос. Токен перечитывается из
// сессии после EnsureValidToken, поэтому параллельный refresh не даст
// отправить устаревший токен. На 401 выполняется один реактивный
// refresh и одна повторная попытка.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	const op = "client.Do"

	token, err := c.EnsureValidToken(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	// Перечитываем: между EnsureValidToken и отправкой мог завершиться
	// конкурентный refresh с более свежим токеном.
	if stored, serr := c.session.Token(); serr == nil {
		token = stored.AccessToken
	}

	status, err := c.roundTrip(ctx, method, path, token, body, out)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if status == http.StatusUnauthorized {
		token, err = c.Refresh(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		status, err = c.roundTrip(ctx, method, path, token, body, out)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if status >= 400 {
		return fmt.Errorf("%s: unexpected status %d", op, status)
	}
	return nil
}

// roundTrip — один HTTP-вызов с Authorization: Bearer <token>.
func (c *Client) roundTrip(ctx context.Context, method, path, token string, body, out any) (int, error) {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return resp.StatusCode, nil
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, err
		}
	}
	return resp.StatusCode, nil
}

// postJSON — неаутентифицированный POST (register/login/refresh).
func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	req, err := c.newRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var buf *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		buf = bytes.NewBuffer(raw)
	} else {
		buf = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return nil, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// tokenStale сообщает, что exp токена в пределах staleWindow от текущего
// момента либо не читается. Подпись здесь не проверяется: клиент не
// знает серверного секрета, ему нужен только exp.
func tokenStale(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}

	return time.Until(exp.Time) < staleWindow
}
