// Package storage defines the byte store used to persist collection
// snapshots. Keys live either in the global namespace or in the namespace of
// one collection.
package storage

import (
	"context"
	"errors"
	"net/url"
	"time"
)

// Store is implemented by the memory and redis backends.
type Store interface {
	// Get retrieves the item stored under key.
	// Returns a nil Item if the key doesn't exist or has expired.
	// Returns an error only for backend failures.
	Get(ctx context.Context, key string, opts ...Option) (*Item, error)

	// Set stores data under key, replacing any previous item.
	Set(ctx context.Context, key string, data []byte, opts ...Option) error

	// Delete removes one key when WithKey is given, otherwise the whole
	// namespace selected by the options.
	Delete(ctx context.Context, opts ...Option) error

	// Close releases backend resources.
	Close() error
}

// Item is a stored value with its bookkeeping.
type Item struct {
	Data      []byte
	CreatedAt time.Time
	ExpiresAt *time.Time // nil = no expiration
}

// IsExpired reports whether the item's TTL has elapsed.
func (it *Item) IsExpired() bool {
	return it.ExpiresAt != nil && time.Now().After(*it.ExpiresAt)
}

// Option configures a storage operation.
type Option func(*Options)

// Options is the resolved form of a list of Option values.
type Options struct {
	Namespace Namespace      // nil = global
	Key       *string        // Delete only
	TTL       *time.Duration // Set only
}

// Apply resolves opts. Backends call it at the top of every operation.
func Apply(opts ...Option) Options {
	var o Options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// Namespace selects a key space. Only types in this package implement it.
type Namespace interface {
	namespace()
}

// CollectionNamespace holds the snapshots of one named collection.
type CollectionNamespace struct {
	Collection string
}

func (CollectionNamespace) namespace() {}

// Segment returns the collection name escaped for use inside a key. The
// result never contains ':' or glob metacharacters, so one collection's key
// prefix can never be a prefix of, or match, another's.
func (n CollectionNamespace) Segment() string {
	return url.QueryEscape(n.Collection)
}

// WithCollection scopes the operation to the named collection.
func WithCollection(name string) Option {
	return func(o *Options) {
		o.Namespace = CollectionNamespace{Collection: name}
	}
}

// WithKey narrows Delete to a single key.
func WithKey(key string) Option {
	return func(o *Options) {
		o.Key = &key
	}
}

// WithTTL sets a time-to-live on stored data. Non-positive values mean no
// expiry.
func WithTTL(ttl time.Duration) Option {
	return func(o *Options) {
		if ttl <= 0 {
			o.TTL = nil
			return
		}
		o.TTL = &ttl
	}
}

// ErrInvalidKey is returned for empty keys.
var ErrInvalidKey = errors.New("storage: invalid key")
