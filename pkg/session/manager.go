package session

import (
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
)

// DefaultCookie is the session cookie name used when none is configured.
const DefaultCookie = "CLICKSESSION"

// Manager binds sessions to requests through a cookie. Live sessions are
// kept in memory so their values and request lock survive across requests.
type Manager struct {
	store  Store
	cookie string

	mu   sync.Mutex
	live map[string]*Session
}

// NewManager returns a manager over store. An empty cookie name selects
// DefaultCookie.
func NewManager(store Store, cookie string) *Manager {
	if store == nil {
		store = NewMemoryStore()
	}
	if cookie == "" {
		cookie = DefaultCookie
	}
	return &Manager{store: store, cookie: cookie, live: make(map[string]*Session)}
}

// CookieName returns the configured cookie name.
func (m *Manager) CookieName() string { return m.cookie }

// Session returns the session of r. When the request carries no known
// session and create is true, a new one is created and its cookie set on w;
// otherwise nil is returned.
func (m *Manager) Session(w http.ResponseWriter, r *http.Request, create bool) (*Session, error) {
	if c, err := r.Cookie(m.cookie); err == nil && c.Value != "" {
		s, err := m.lookup(c.Value)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, ErrNoSession) {
			return nil, err
		}
	}
	if !create {
		return nil, nil
	}

	s := New(uuid.NewString())
	m.mu.Lock()
	m.live[s.ID] = s
	m.mu.Unlock()
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookie,
		Value:    s.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return s, nil
}

func (m *Manager) lookup(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.live[id]; ok {
		return s, nil
	}
	attrs, err := m.store.Load(id)
	if err != nil {
		return nil, err
	}
	s := New(id)
	s.attrs = attrs
	s.isNew = false
	m.live[id] = s
	return s, nil
}

// Save persists s when its attributes changed.
func (m *Manager) Save(s *Session) error {
	if s == nil || (!s.Dirty() && !s.IsNew()) {
		return nil
	}
	if err := m.store.Save(s.ID, s.snapshot()); err != nil {
		return fmt.Errorf("failed to save session %s: %w", s.ID, err)
	}
	s.markSaved()
	return nil
}

// Invalidate discards s and expires its cookie.
func (m *Manager) Invalidate(w http.ResponseWriter, s *Session) error {
	if s == nil {
		return nil
	}
	m.mu.Lock()
	delete(m.live, s.ID)
	m.mu.Unlock()
	http.SetCookie(w, &http.Cookie{Name: m.cookie, Value: "", Path: "/", MaxAge: -1})
	return m.store.Delete(s.ID)
}

// Close closes the underlying store.
func (m *Manager) Close() error {
	return m.store.Close()
}
