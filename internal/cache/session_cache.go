package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/inkeep/intelligent-support-form/internal/model"
	"github.com/redis/go-redis/v9"
)

// SessionCache stores live form sessions and their busy flag. The flag is
// held while an arbitration or a ticket submission runs for the session.
type SessionCache interface {
	Set(ctx context.Context, session *model.Session) error
	Get(ctx context.Context, id string) (*model.Session, error) // nil, nil when missing
	Delete(ctx context.Context, id string) error

	// AcquireLock sets the busy flag and returns its owner token; ok is
	// false while another holder has it
	AcquireLock(ctx context.Context, id string) (token string, ok bool, err error)
	// ReleaseLock clears the flag only if token still owns it
	ReleaseLock(ctx context.Context, id, token string) error
}

// Deletes the flag only when it still carries the caller's token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type sessionCache struct {
	client  *redis.Client
	ttl     time.Duration
	lockTTL time.Duration
}

// NewSessionCache creates a Redis-backed session cache. lockTTL bounds how
// long a crashed holder can keep a session busy; it must exceed the longest
// arbitration (see config.Config.MinLockTTL).
func NewSessionCache(client *redis.Client, ttl, lockTTL time.Duration) SessionCache {
	return &sessionCache{
		client:  client,
		ttl:     ttl,
		lockTTL: lockTTL,
	}
}

func (c *sessionCache) key(id string) string {
	return fmt.Sprintf("session:%s", id)
}

func (c *sessionCache) lockKey(id string) string {
	return fmt.Sprintf("session:%s:inflight", id)
}

func (c *sessionCache) Set(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(session.ID), data, c.ttl).Err()
}

func (c *sessionCache) Get(ctx context.Context, id string) (*model.Session, error) {
	data, err := c.client.Get(ctx, c.key(id)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var session model.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *sessionCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.key(id), c.lockKey(id)).Err()
}

func (c *sessionCache) AcquireLock(ctx context.Context, id string) (string, bool, error) {
	token := uuid.NewString()
	ok, err := c.client.SetNX(ctx, c.lockKey(id), token, c.lockTTL).Result()
	if err != nil || !ok {
		return "", false, err
	}
	return token, true, nil
}

func (c *sessionCache) ReleaseLock(ctx context.Context, id, token string) error {
	return releaseScript.Run(ctx, c.client, []string{c.lockKey(id)}, token).Err()
}
