package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/inkeep/intelligent-support-form/internal/model"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

type memoryLock struct {
	token     string
	expiresAt time.Time
}

type memorySessionCache struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	locks    map[string]memoryLock
	ttl      time.Duration
	lockTTL  time.Duration
	now      func() time.Time
}

// NewMemorySessionCache keeps sessions in process memory. Used when no
// Redis address is configured, and by tests. Locks expire like the Redis
// flag does.
func NewMemorySessionCache(ttl, lockTTL time.Duration) SessionCache {
	return &memorySessionCache{
		sessions: make(map[string]memoryEntry),
		locks:    make(map[string]memoryLock),
		ttl:      ttl,
		lockTTL:  lockTTL,
		now:      time.Now,
	}
}

// Sessions are stored encoded so callers never share pointers with the cache.
func (c *memorySessionCache) Set(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[session.ID] = memoryEntry{data: data, expiresAt: c.now().Add(c.ttl)}
	return nil
}

func (c *memorySessionCache) Get(ctx context.Context, id string) (*model.Session, error) {
	c.mu.Lock()
	entry, ok := c.sessions[id]
	if ok && c.now().After(entry.expiresAt) {
		delete(c.sessions, id)
		ok = false
	}
	c.mu.Unlock()
	if !ok {
		return nil, nil
	}
	var session model.Session
	if err := json.Unmarshal(entry.data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *memorySessionCache) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, id)
	delete(c.locks, id)
	return nil
}

func (c *memorySessionCache) AcquireLock(ctx context.Context, id string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	if held, ok := c.locks[id]; ok && now.Before(held.expiresAt) {
		return "", false, nil
	}
	token := uuid.NewString()
	c.locks[id] = memoryLock{token: token, expiresAt: now.Add(c.lockTTL)}
	return token, true, nil
}

func (c *memorySessionCache) ReleaseLock(ctx context.Context, id, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if held, ok := c.locks[id]; ok && held.token == token {
		delete(c.locks, id)
	}
	return nil
}
