// Package memory provides an in-process storage.Store backed by
// github.com/hashicorp/golang-lru/v2. Expired items are dropped lazily on
// read; the least recently used item is evicted once the cache is full.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ggoodman/paramkit/storage"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Store implements storage.Store in memory.
type Store struct {
	mu    sync.Mutex
	cache *lru.Cache[string, *storage.Item]
}

// New creates a store holding at most maxItems entries.
func New(maxItems int) (*Store, error) {
	cache, err := lru.New[string, *storage.Item](maxItems)
	if err != nil {
		return nil, fmt.Errorf("storage/memory: create LRU cache: %w", err)
	}
	return &Store{cache: cache}, nil
}

// Get retrieves the item under key, or nil if it is missing or expired.
func (s *Store) Get(ctx context.Context, key string, opts ...storage.Option) (*storage.Item, error) {
	if key == "" {
		return nil, storage.ErrInvalidKey
	}
	k := buildKey(storage.Apply(opts...).Namespace, key)

	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.cache.Get(k)
	if !ok {
		return nil, nil
	}
	if item.IsExpired() {
		s.cache.Remove(k)
		return nil, nil
	}
	out := *item
	out.Data = append([]byte(nil), item.Data...)
	return &out, nil
}

// Set stores a copy of data under key.
func (s *Store) Set(ctx context.Context, key string, data []byte, opts ...storage.Option) error {
	if key == "" {
		return storage.ErrInvalidKey
	}
	o := storage.Apply(opts...)

	now := time.Now()
	item := &storage.Item{
		Data:      append([]byte(nil), data...),
		CreatedAt: now,
	}
	if o.TTL != nil {
		exp := now.Add(*o.TTL)
		item.ExpiresAt = &exp
	}

	s.mu.Lock()
	s.cache.Add(buildKey(o.Namespace, key), item)
	s.mu.Unlock()
	return nil
}

// Delete removes one key or a whole namespace.
func (s *Store) Delete(ctx context.Context, opts ...storage.Option) error {
	o := storage.Apply(opts...)

	s.mu.Lock()
	defer s.mu.Unlock()

	if o.Key != nil {
		s.cache.Remove(buildKey(o.Namespace, *o.Key))
		return nil
	}
	// LRU has no prefix iteration.
	prefix := namespacePrefix(o.Namespace)
	for _, k := range s.cache.Keys() {
		if strings.HasPrefix(k, prefix) {
			s.cache.Remove(k)
		}
	}
	return nil
}

// Close drops every item.
func (s *Store) Close() error {
	s.mu.Lock()
	s.cache.Purge()
	s.mu.Unlock()
	return nil
}

// Len reports the number of cached entries, expired ones included.
func (s *Store) Len() int {
	return s.cache.Len()
}

func buildKey(ns storage.Namespace, key string) string {
	return namespacePrefix(ns) + key
}

func namespacePrefix(ns storage.Namespace) string {
	switch n := ns.(type) {
	case storage.CollectionNamespace:
		return "coll:" + n.Segment() + ":key:"
	default:
		return "global:key:"
	}
}

var _ storage.Store = (*Store)(nil)
