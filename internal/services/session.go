package services

import (
	"blog/internal/logger"
	"blog/internal/utils"
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const SessionCookieName = "session"

// RevocationStore — отозванные при выходе сессии.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type SessionConfig struct {
	Secret      []byte
	TTL         time.Duration
	RememberTTL time.Duration
	Secure      bool
}

// SessionManager хранит сессию в подписанной cookie (JWT).
type SessionManager struct {
	cfg   SessionConfig
	store RevocationStore
	now   func() time.Time
}

func NewSessionManager(cfg SessionConfig, store RevocationStore) *SessionManager {
	return &SessionManager{cfg: cfg, store: store, now: time.Now}
}

// Identity — пользователь текущей сессии.
type Identity struct {
	UserID    int
	SessionID string
	ExpiresAt time.Time
}

// Establish выдаёт cookie сессии. remember — постоянная cookie на RememberTTL,
// иначе cookie живёт до закрытия браузера (но не дольше TTL).
func (m *SessionManager) Establish(w http.ResponseWriter, userID int, remember bool) error {
	ttl := m.cfg.TTL
	if remember {
		ttl = m.cfg.RememberTTL
	}

	now := m.now()
	token, claims, err := utils.GenerateSessionToken(m.cfg.Secret, userID, remember, ttl, now)
	if err != nil {
		return err
	}

	cookie := &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if remember {
		cookie.Expires = claims.ExpiresAt.Time
		cookie.MaxAge = int(ttl.Seconds())
	}
	http.SetCookie(w, cookie)
	return nil
}

// CurrentIdentity проверяет cookie запроса. Ошибки хранилища отзыва трактуются как отсутствие сессии.
func (m *SessionManager) CurrentIdentity(r *http.Request) (*Identity, bool) {
	c, err := r.Cookie(SessionCookieName)
	if err != nil || c.Value == "" {
		return nil, false
	}

	claims, err := utils.ParseSessionToken(m.cfg.Secret, c.Value, m.now)
	if err != nil {
		return nil, false
	}

	revoked, err := m.store.IsRevoked(r.Context(), claims.ID)
	if err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка проверки отзыва сессии", zap.Error(err))
		return nil, false
	}
	if revoked {
		return nil, false
	}

	return &Identity{UserID: claims.UserID, SessionID: claims.ID, ExpiresAt: claims.ExpiresAt.Time}, true
}

// Terminate отзывает текущую сессию и стирает cookie. Без сессии — просто стирает cookie.
func (m *SessionManager) Terminate(w http.ResponseWriter, r *http.Request) error {
	defer m.clearCookie(w)

	id, ok := m.CurrentIdentity(r)
	if !ok {
		return nil
	}
	if err := m.store.Revoke(r.Context(), id.SessionID, id.ExpiresAt); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (m *SessionManager) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
