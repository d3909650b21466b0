package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCorrupt marks stored cart data that could not be decoded.
var ErrCorrupt = errors.New("stored cart is corrupt")

// Storage persists cart lines by token. Load returns (nil, nil) when
// nothing is stored.
type Storage interface {
	Load(ctx context.Context, token string) ([]Item, error)
	Save(ctx context.Context, token string, items []Item) error
	Delete(ctx context.Context, token string) error
}

type storedCart struct {
	Items   []Item    `json:"items"`
	SavedAt time.Time `json:"saved_at"`
}

type kvStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(token string) string
}

// RedisStorage keeps each cart as one JSON document under a versioned key.
type RedisStorage struct {
	kv  kvStore
	ttl time.Duration
}

// NewRedisStorage builds redis-backed cart storage. Stored carts expire
// after ttl without writes; zero keeps them forever.
func NewRedisStorage(kv kvStore, ttl time.Duration) (*RedisStorage, error) {
	if kv == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &RedisStorage{kv: kv, ttl: ttl}, nil
}

func (s *RedisStorage) Load(ctx context.Context, token string) ([]Item, error) {
	raw, err := s.kv.Get(ctx, s.kv.CartKey(token))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return decode(raw)
}

func (s *RedisStorage) Save(ctx context.Context, token string, items []Item) error {
	payload, err := encode(items)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, s.kv.CartKey(token), payload, s.ttl)
}

func (s *RedisStorage) Delete(ctx context.Context, token string) error {
	return s.kv.Del(ctx, s.kv.CartKey(token))
}

// MemoryStorage keeps carts in process, for tests and single-node dev runs.
type MemoryStorage struct {
	mu    sync.Mutex
	carts map[string]string
}

// NewMemoryStorage returns empty in-process storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{carts: make(map[string]string)}
}

func (s *MemoryStorage) Load(_ context.Context, token string) ([]Item, error) {
	s.mu.Lock()
	raw, ok := s.carts[token]
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return decode(raw)
}

func (s *MemoryStorage) Save(_ context.Context, token string, items []Item) error {
	payload, err := encode(items)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.carts[token] = payload
	s.mu.Unlock()
	return nil
}

func (s *MemoryStorage) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.carts, token)
	s.mu.Unlock()
	return nil
}

// put stores a raw payload; tests use it to plant corrupt data.
func (s *MemoryStorage) put(token, raw string) {
	s.mu.Lock()
	s.carts[token] = raw
	s.mu.Unlock()
}

func encode(items []Item) (string, error) {
	if items == nil {
		items = []Item{}
	}
	payload, err := json.Marshal(storedCart{Items: items, SavedAt: time.Now().UTC()})
	if err != nil {
		return "", fmt.Errorf("encode cart: %w", err)
	}
	return string(payload), nil
}

func decode(raw string) ([]Item, error) {
	var stored storedCart
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if stored.Items == nil {
		return nil, fmt.Errorf("%w: missing items", ErrCorrupt)
	}
	return stored.Items, nil
}
