// Package session owns the console's own sessions: one per logged-in staff
// member, holding the per-session state store and the upstream bearer token.
// The upstream token is opaque; the console only stores it (sealed) and
// refreshes it on a timer.
package session

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"log"
	"sync"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/lbatschelet/feelvonroll-admin/internal/platform"
	"github.com/lbatschelet/feelvonroll-admin/internal/shell"
	"github.com/lbatschelet/feelvonroll-admin/internal/state"
)

type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*platform.Session, error)
	RefreshToken(ctx context.Context, token string) (*platform.Session, error)
	Logout(ctx context.Context, token string) error
}

// Session is one staff member's console session.
type Session struct {
	ID    string
	Email string
	Role  string

	Store *state.Store
	Shell *shell.Shell

	// Controllers is the per-session console.Set; session stays agnostic of
	// the controller types, the composition root owns the wiring.
	Controllers any

	mu     sync.Mutex
	sealed []byte
	aead   cipher.AEAD
}

// Token unseals the current upstream bearer token.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sealed) < s.aead.NonceSize() {
		return ""
	}
	nonce, box := s.sealed[:s.aead.NonceSize()], s.sealed[s.aead.NonceSize():]
	plain, err := s.aead.Open(nil, nonce, box, nil)
	if err != nil {
		return ""
	}
	return string(plain)
}

func (s *Session) setToken(token string) error {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return err
	}
	s.mu.Lock()
	s.sealed = append(nonce, s.aead.Seal(nil, nonce, []byte(token), nil)...)
	s.mu.Unlock()
	return nil
}

type cookieClaims struct {
	SID string `json:"sid"`
	jwt.RegisteredClaims
}

// Manager tracks all live sessions, issues the signed cookie tokens and runs
// the silent refresh loop.
type Manager struct {
	api       AuthAPI
	aead      cipher.AEAD
	jwtSecret []byte
	ttl       time.Duration
	refresh   time.Duration

	// bootstrap wires store, shell and controllers for a fresh session; the
	// composition root supplies it so nothing here depends on controllers.
	bootstrap func(*Session)

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(api AuthAPI, secret string, bootstrap func(*Session)) (*Manager, error) {
	if secret == "" {
		return nil, errors.New("session secret required")
	}
	key := sha256.Sum256([]byte(secret))
	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return nil, err
	}
	return &Manager{
		api:       api,
		aead:      aead,
		jwtSecret: []byte(secret),
		ttl:       12 * time.Hour,
		refresh:   30 * time.Minute,
		bootstrap: bootstrap,
		sessions:  map[string]*Session{},
	}, nil
}

// Login authenticates against the upstream API and returns the new session
// plus the signed cookie value.
func (m *Manager) Login(ctx context.Context, email, password string) (*Session, string, error) {
	up, err := m.api.Login(ctx, email, password)
	if err != nil {
		return nil, "", err
	}
	s := &Session{
		ID:    uuid.NewString(),
		Email: up.Email,
		Role:  up.Role,
		Store: state.NewStore(),
		aead:  m.aead,
	}
	s.Shell = shell.New(s.Store)
	if err := s.setToken(up.Token); err != nil {
		return nil, "", err
	}
	s.Store.Email = up.Email
	s.Store.Role = up.Role
	if m.bootstrap != nil {
		m.bootstrap(s)
	}
	cookie, err := m.signCookie(s.ID)
	if err != nil {
		return nil, "", err
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s, cookie, nil
}

func (m *Manager) signCookie(sid string) (string, error) {
	now := time.Now()
	claims := cookieClaims{SID: sid, RegisteredClaims: jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.jwtSecret)
}

// Lookup resolves a cookie value to a live session.
func (m *Manager) Lookup(cookie string) (*Session, bool) {
	t, err := jwt.ParseWithClaims(cookie, &cookieClaims{}, func(*jwt.Token) (interface{}, error) {
		return m.jwtSecret, nil
	})
	if err != nil || !t.Valid {
		return nil, false
	}
	claims, ok := t.Claims.(*cookieClaims)
	if !ok {
		return nil, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[claims.SID]
	return s, ok
}

// Logout drops the session and tells the upstream to invalidate its token.
func (m *Manager) Logout(ctx context.Context, s *Session) {
	m.drop(s)
	if err := m.api.Logout(ctx, s.Token()); err != nil {
		log.Printf("upstream logout: %v", err)
	}
}

func (m *Manager) drop(s *Session) {
	m.mu.Lock()
	delete(m.sessions, s.ID)
	m.mu.Unlock()
	s.Shell.ForceLogin()
}

// ForceLogout drops a session without an upstream call; used when the
// upstream already rejected the token.
func (m *Manager) ForceLogout(s *Session) {
	m.drop(s)
}

// StartRefreshLoop silently refreshes every session's upstream token on a
// fixed interval until ctx is cancelled. A session whose refresh fails is
// force-logged-out.
func (m *Manager) StartRefreshLoop(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(m.refresh)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.refreshAll(ctx)
			}
		}
	}()
}

func (m *Manager) refreshAll(ctx context.Context) {
	m.mu.Lock()
	all := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	m.mu.Unlock()
	for _, s := range all {
		up, err := m.api.RefreshToken(ctx, s.Token())
		if err != nil {
			log.Printf("session %s: token refresh failed, logging out: %v", s.ID, err)
			m.drop(s)
			continue
		}
		if err := s.setToken(up.Token); err != nil {
			log.Printf("session %s: sealing refreshed token: %v", s.ID, err)
			m.drop(s)
		}
	}
}

// SetRefreshInterval overrides the 30-minute default; tests use it.
func (m *Manager) SetRefreshInterval(d time.Duration) { m.refresh = d }

// RefreshNow runs one refresh pass synchronously.
func (m *Manager) RefreshNow(ctx context.Context) { m.refreshAll(ctx) }
