// Package redis provides a storage.Store on top of Redis. Items are stored as
// JSON envelopes and expire both through the Redis TTL and the recorded
// expiry time.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ggoodman/paramkit/storage"
	"github.com/joeshaw/envdecode"
	"github.com/redis/go-redis/v9"
)

const (
	defaultAddr      = "localhost:6379"
	defaultKeyPrefix = "paramkit:snapshots:"
)

// Config for the Redis store. Defaults can be loaded via envdecode.
type Config struct {
	// Client is used as-is when set; Addr is ignored.
	Client *redis.Client
	// Addr like "localhost:6379". ENV: PARAMKIT_REDIS_ADDR
	Addr string `env:"PARAMKIT_REDIS_ADDR,default=localhost:6379"`
	// KeyPrefix for all keys. ENV: PARAMKIT_REDIS_KEY_PREFIX
	KeyPrefix string `env:"PARAMKIT_REDIS_KEY_PREFIX,default=paramkit:snapshots:"`
}

// ConfigFromEnv populates a Config from the environment.
func ConfigFromEnv() Config {
	var cfg Config
	_ = envdecode.Decode(&cfg)
	return cfg
}

// Store implements storage.Store using Redis.
type Store struct {
	client    *redis.Client
	keyPrefix string
}

type storedItem struct {
	Data      []byte     `json:"data"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// New creates a Redis-backed store. Without a Client, one is dialed at
// cfg.Addr and pinged.
func New(cfg Config) (*Store, error) {
	cl := cfg.Client
	if cl == nil {
		addr := cfg.Addr
		if addr == "" {
			addr = defaultAddr
		}
		cl = redis.NewClient(&redis.Options{Addr: addr})
		if err := cl.Ping(context.Background()).Err(); err != nil {
			_ = cl.Close()
			return nil, fmt.Errorf("storage/redis: ping: %w", err)
		}
	}
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &Store{client: cl, keyPrefix: prefix}, nil
}

// Get retrieves the item under key, or nil if it is missing or expired.
func (s *Store) Get(ctx context.Context, key string, opts ...storage.Option) (*storage.Item, error) {
	if key == "" {
		return nil, storage.ErrInvalidKey
	}
	redisKey := s.buildKey(storage.Apply(opts...).Namespace, key)

	raw, err := s.client.Get(ctx, redisKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage/redis: get %s: %w", redisKey, err)
	}

	var si storedItem
	if err := json.Unmarshal(raw, &si); err != nil {
		return nil, fmt.Errorf("storage/redis: decode %s: %w", redisKey, err)
	}
	item := &storage.Item{Data: si.Data, CreatedAt: si.CreatedAt, ExpiresAt: si.ExpiresAt}
	if item.IsExpired() {
		s.client.Del(ctx, redisKey)
		return nil, nil
	}
	return item, nil
}

// Set stores data under key.
func (s *Store) Set(ctx context.Context, key string, data []byte, opts ...storage.Option) error {
	if key == "" {
		return storage.ErrInvalidKey
	}
	o := storage.Apply(opts...)
	redisKey := s.buildKey(o.Namespace, key)

	now := time.Now()
	si := storedItem{Data: data, CreatedAt: now}
	var ttl time.Duration
	if o.TTL != nil {
		exp := now.Add(*o.TTL)
		si.ExpiresAt = &exp
		ttl = *o.TTL
	}
	b, err := json.Marshal(si)
	if err != nil {
		return fmt.Errorf("storage/redis: encode item: %w", err)
	}
	if err := s.client.Set(ctx, redisKey, b, ttl).Err(); err != nil {
		return fmt.Errorf("storage/redis: set %s: %w", redisKey, err)
	}
	return nil
}

// Delete removes one key or, without WithKey, every key of the namespace.
func (s *Store) Delete(ctx context.Context, opts ...storage.Option) error {
	o := storage.Apply(opts...)

	if o.Key != nil {
		redisKey := s.buildKey(o.Namespace, *o.Key)
		if err := s.client.Del(ctx, redisKey).Err(); err != nil {
			return fmt.Errorf("storage/redis: delete %s: %w", redisKey, err)
		}
		return nil
	}

	pattern := escapeGlob(s.namespacePrefix(o.Namespace)) + "*"
	keys, err := s.scanKeys(ctx, pattern)
	if err != nil {
		return fmt.Errorf("storage/redis: scan %s: %w", pattern, err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("storage/redis: delete keys: %w", err)
	}
	return nil
}

// Close closes the Redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) buildKey(ns storage.Namespace, key string) string {
	return s.namespacePrefix(ns) + key
}

func (s *Store) namespacePrefix(ns storage.Namespace) string {
	switch n := ns.(type) {
	case storage.CollectionNamespace:
		return s.keyPrefix + "coll:" + n.Segment() + ":"
	default:
		return s.keyPrefix + "global:"
	}
}

// escapeGlob quotes the characters SCAN MATCH treats as pattern syntax.
func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '^', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *Store) scanKeys(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	var cursor uint64
	for {
		batch, next, err := s.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			return keys, nil
		}
	}
}

var _ storage.Store = (*Store)(nil)
