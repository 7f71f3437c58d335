// Package session provides per-client attribute storage for the request
// driver: form submit tokens, stateful table state and stateful pages.
package session

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// Session holds the attributes of one client.
//
// Attributes set with Set are JSON encoded and persisted by the Store.
// Values set with SetValue are live objects kept only in process memory.
type Session struct {
	ID string

	mu     sync.Mutex
	attrs  map[string]json.RawMessage
	values map[string]any
	dirty  bool
	isNew  bool

	// reqMu serializes requests that share stateful pages.
	reqMu sync.Mutex
}

// New returns an empty session with the given id.
func New(id string) *Session {
	return &Session{
		ID:     id,
		attrs:  make(map[string]json.RawMessage),
		values: make(map[string]any),
		isNew:  true,
	}
}

// Get decodes attribute name into dst. It reports false when the attribute is
// absent or cannot be decoded into dst.
func (s *Session) Get(name string, dst any) bool {
	s.mu.Lock()
	raw, ok := s.attrs[name]
	s.mu.Unlock()
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

// Has reports whether attribute name is set.
func (s *Session) Has(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.attrs[name]
	return ok
}

// Set encodes v and stores it as attribute name.
func (s *Session) Set(name string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode session attribute %s: %w", name, err)
	}
	s.mu.Lock()
	s.attrs[name] = raw
	s.dirty = true
	s.mu.Unlock()
	return nil
}

// Remove deletes attribute name and any live value with the same name.
func (s *Session) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.attrs[name]; ok {
		delete(s.attrs, name)
		s.dirty = true
	}
	delete(s.values, name)
}

// Names returns the attribute names in sorted order.
func (s *Session) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.attrs))
	for k := range s.attrs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Value returns the live value stored under name.
func (s *Session) Value(name string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[name]
	return v, ok
}

// SetValue stores a live value under name. A nil v removes it.
func (s *Session) SetValue(name string, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v == nil {
		delete(s.values, name)
		return
	}
	s.values[name] = v
}

// Dirty reports whether attributes changed since the last save.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// IsNew reports whether the session was created during this request.
func (s *Session) IsNew() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isNew
}

// Lock acquires the request lock of the session. Requests for stateful pages
// hold it for the whole page lifecycle.
func (s *Session) Lock() { s.reqMu.Lock() }

// Unlock releases the request lock.
func (s *Session) Unlock() { s.reqMu.Unlock() }

func (s *Session) snapshot() map[string]json.RawMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]json.RawMessage, len(s.attrs))
	for k, v := range s.attrs {
		out[k] = v
	}
	return out
}

func (s *Session) markSaved() {
	s.mu.Lock()
	s.dirty = false
	s.isNew = false
	s.mu.Unlock()
}
