package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ResetCodeStore keeps password-reset codes keyed by normalized email with
// a TTL. Codes expire lazily on lookup and are consumed on successful use.
type ResetCodeStore interface {
	Put(ctx context.Context, email string, code string, ttl time.Duration) error
	Get(ctx context.Context, email string) (string, bool)
	Consume(ctx context.Context, email string) error
}

const resetCodeKeyPrefix = "reset_code:"

type RedisResetCodeStore struct {
	client *redis.Client
}

func NewRedisResetCodeStore(addr string) *RedisResetCodeStore {
	return &RedisResetCodeStore{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

func (store *RedisResetCodeStore) Put(ctx context.Context, email string, code string, ttl time.Duration) error {
	return store.client.Set(ctx, resetCodeKey(email), code, ttl).Err()
}

func (store *RedisResetCodeStore) Get(ctx context.Context, email string) (string, bool) {
	value, err := store.client.Get(ctx, resetCodeKey(email)).Result()
	if err != nil {
		return "", false
	}
	return value, true
}

func (store *RedisResetCodeStore) Consume(ctx context.Context, email string) error {
	return store.client.Del(ctx, resetCodeKey(email)).Err()
}

func resetCodeKey(email string) string {
	return resetCodeKeyPrefix + strings.ToLower(strings.TrimSpace(email))
}

type memoryResetCode struct {
	code      string
	expiresAt time.Time
}

// MemoryResetCodeStore backs deployments without Redis and tests. Entries
// expire lazily on lookup.
type MemoryResetCodeStore struct {
	mu    sync.Mutex
	codes map[string]memoryResetCode
	now   func() time.Time
}

func NewMemoryResetCodeStore() *MemoryResetCodeStore {
	return &MemoryResetCodeStore{
		codes: make(map[string]memoryResetCode),
		now:   time.Now,
	}
}

func (store *MemoryResetCodeStore) Put(_ context.Context, email string, code string, ttl time.Duration) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.codes[resetCodeKey(email)] = memoryResetCode{
		code:      code,
		expiresAt: store.now().Add(ttl),
	}
	return nil
}

func (store *MemoryResetCodeStore) Get(_ context.Context, email string) (string, bool) {
	store.mu.Lock()
	defer store.mu.Unlock()

	key := resetCodeKey(email)
	entry, found := store.codes[key]
	if !found {
		return "", false
	}
	if store.now().After(entry.expiresAt) {
		delete(store.codes, key)
		return "", false
	}
	return entry.code, true
}

func (store *MemoryResetCodeStore) Consume(_ context.Context, email string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.codes, resetCodeKey(email))
	return nil
}
