package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

// ErrNoSession is returned by Store.Load when the id is unknown.
var ErrNoSession = errors.New("no such session")

// Store persists session attributes.
type Store interface {
	Load(id string) (map[string]json.RawMessage, error)
	Save(id string, attrs map[string]json.RawMessage) error
	Delete(id string) error
	Close() error
}

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]json.RawMessage
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[string]json.RawMessage)}
}

func (m *MemoryStore) Load(id string) (map[string]json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	attrs, ok := m.data[id]
	if !ok {
		return nil, ErrNoSession
	}
	out := make(map[string]json.RawMessage, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out, nil
}

func (m *MemoryStore) Save(id string, attrs map[string]json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[id] = attrs
	return nil
}

func (m *MemoryStore) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
	return nil
}

func (m *MemoryStore) Close() error { return nil }

const bucketSessions = "sessions"

// BoltStore persists sessions in a bbolt database file.
type BoltStore struct {
	db *bolt.DB
}

// OpenBoltStore opens or creates the database at path.
func OpenBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open session store %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketSessions))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Load(id string) (map[string]json.RawMessage, error) {
	var attrs map[string]json.RawMessage
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketSessions)).Get([]byte(id))
		if v == nil {
			return ErrNoSession
		}
		return json.Unmarshal(v, &attrs)
	})
	if err != nil {
		return nil, err
	}
	if attrs == nil {
		attrs = make(map[string]json.RawMessage)
	}
	return attrs, nil
}

func (s *BoltStore) Save(id string, attrs map[string]json.RawMessage) error {
	data, err := json.Marshal(attrs)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketSessions)).Put([]byte(id), data)
	})
}

func (s *BoltStore) Delete(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketSessions)).Delete([]byte(id))
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
