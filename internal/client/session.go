package client

import (
	"strings"
	"sync"
	"time"
)

// Session — явное состояние аутентификации клиента. Каждый Client владеет
// собственным экземпляром; глобального состояния пакет не держит.
//
// Session нормализует токен на единственной границе (SetToken): что бы ни
// прислал сервер — "Bearer <t>", "Bearer<t>" или голый <t> — внутри и в
// TokenStore лежит только голый токен.
type Session struct {
	mu    sync.Mutex
	store TokenStore
	timer *time.Timer
}

// NewSession создаёт сессию поверх переданного хранилища токена.
func NewSession(store TokenStore) *Session {
	return &Session{store: store}
}

// SetToken нормализует и сохраняет токен. scheduleIn > 0 взводит таймер
// проактивного обновления; onExpire вызывается по срабатыванию таймера.
func (s *Session) SetToken(token string, expiresAt time.Time, scheduleIn time.Duration, onExpire func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	token = normalizeToken(token)

	if err := s.store.Save(StoredToken{AccessToken: token, ExpiresAt: expiresAt}); err != nil {
		return err
	}

	s.stopTimerLocked()
	if scheduleIn > 0 && onExpire != nil {
		s.timer = time.AfterFunc(scheduleIn, onExpire)
	}
	return nil
}

// Token возвращает сохранённый токен и момент его истечения.
// Ошибка ErrNoToken означает разлогиненное состояние.
func (s *Session) Token() (StoredToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.Load()
}

// Clear переводит сессию в разлогиненное состояние: токен стирается,
// таймер проактивного обновления снимается.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopTimerLocked()
	return s.store.Clear()
}

func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// normalizeToken убирает префикс "Bearer" (с пробелом и без) и пробелы.
func normalizeToken(token string) string {
	token = strings.TrimSpace(token)

	const prefix = "Bearer"
	if strings.HasPrefix(token, prefix) {
		token = strings.TrimSpace(token[len(prefix):])
	}
	return token
}
